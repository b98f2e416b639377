package weather

import "strings"

const (
	coldCeilingC = 10
	hotFloorC    = 28
)

// Classify maps a condition and temperature to a category. Rain wins over temperature.
func Classify(condition string, tempC float64) Category {
	lowered := strings.ToLower(condition)
	switch {
	case strings.Contains(lowered, "rain") || strings.Contains(lowered, "雨"):
		return CategoryRain
	case tempC <= coldCeilingC:
		return CategoryCold
	case tempC >= hotFloorC:
		return CategoryHot
	default:
		return CategoryMild
	}
}
