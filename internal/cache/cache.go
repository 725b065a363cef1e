package cache

import (
	"context"
	"fmt"
	"time"
)

// Store guarda leituras serializadas em JSON. Um miss devolve (false, nil).
type Store interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const prefix = "jobcards:"

func JobCardDetailsKey(id uint) string {
	return fmt.Sprintf("%sdetails:%d", prefix, id)
}

func SummaryKey() string {
	return prefix + "summary"
}
