package videocache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/smartchef/internal/domain/video"
)

// ValkeyCache shares search results across instances through a Valkey-compatible server.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "smartchef:video"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

// Get implements video.Cache.
func (c *ValkeyCache) Get(ctx context.Context, key string) ([]video.Suggestion, bool, error) {
	payload, err := c.client.Do(ctx, c.client.B().Get().Key(c.key(key)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var videos []video.Suggestion
	if err := json.Unmarshal([]byte(payload), &videos); err != nil {
		return nil, false, err
	}
	return videos, true, nil
}

// Set implements video.Cache. Sub-second TTLs are rounded up to one second.
func (c *ValkeyCache) Set(ctx context.Context, key string, videos []video.Suggestion, ttl time.Duration) error {
	payload, err := json.Marshal(videos)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.key(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) key(k string) string {
	return c.prefix + ":" + k
}

var _ video.Cache = (*ValkeyCache)(nil)
