package weather

import "context"

// Category buckets a reading for dish suggestions.
type Category string

const (
	CategoryCold Category = "cold"
	CategoryHot  Category = "hot"
	CategoryRain Category = "rain"
	CategoryMild Category = "mild"
)

// Reading is one current-conditions observation.
type Reading struct {
	Condition    string
	TemperatureC float64
}

// Report is the weather panel shown before the advice form.
type Report struct {
	City         string   `json:"city"`
	ResolvedCity string   `json:"resolvedCity"`
	Summary      string   `json:"summary"`
	Category     Category `json:"category"`
	Dishes       []string `json:"dishes"`
	Tip          string   `json:"tip"`
	Available    bool     `json:"available"`
}

// Config wires runtime defaults for the weather domain.
type Config struct {
	DefaultCity string
}

// Client fetches the current conditions for a resolved city name.
type Client interface {
	Current(ctx context.Context, city, lang string) (Reading, error)
}
