package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory keeps JSON bytes in go-cache so callers never share a pointer.
type Memory struct {
	c *gocache.Cache
}

func NewMemory(defaultTTL, cleanup time.Duration) *Memory {
	return &Memory{c: gocache.New(defaultTTL, cleanup)}
}

func (m *Memory) Get(_ context.Context, key string, dst any) (bool, error) {
	raw, ok := m.c.Get(key)
	if !ok {
		return false, nil
	}
	b, ok := raw.([]byte)
	if !ok {
		m.c.Delete(key)
		return false, nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.c.Set(key, b, ttl)
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.c.Delete(k)
	}
	return nil
}

var _ Store = (*Memory)(nil)
