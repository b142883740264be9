package kv

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	RDB *redis.Client
}

func New(addr, pass string, db int) *Store {
	return &Store{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	}
}

func (s *Store) Ping(ctx context.Context) error { return s.RDB.Ping(ctx).Err() }

func (s *Store) Close() error { return s.RDB.Close() }

// WindowLimiter is a fixed-window counter shared by every replica behind the same Redis.
type WindowLimiter struct {
	RDB    redis.Cmdable
	Prefix string
	Limit  int64
	Window time.Duration
}

func NewWindowLimiter(rdb redis.Cmdable, limit int64, window time.Duration) *WindowLimiter {
	return &WindowLimiter{RDB: rdb, Prefix: "ratelimit:", Limit: limit, Window: window}
}

// Allow counts one hit for key in the current window.
func (w *WindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	slot := time.Now().UnixNano() / int64(w.Window)
	k := w.Prefix + key + ":" + strconv.FormatInt(slot, 10)

	pipe := w.RDB.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, w.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= w.Limit, nil
}
