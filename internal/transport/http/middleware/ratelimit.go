package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	resp "homehunt-server/internal/transport/http/response"
)

// RateLimit 全局令牌桶限速
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		resp.Abort(c, resp.CodeTooManyRequests, "too many requests")
	}
}

// Limiter decides per key; the Redis window limiter satisfies it.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

const (
	bucketIdleTTL = 10 * time.Minute
	sweepEvery    = time.Minute
)

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// LocalLimiter keeps one token bucket per key in process memory.
// Buckets idle for bucketIdleTTL are swept; an idle bucket is full again anyway.
type LocalLimiter struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	buckets   map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
}

func NewLocalLimiter(rps rate.Limit, burst int) *LocalLimiter {
	return &LocalLimiter{rps: rps, burst: burst, buckets: make(map[string]*bucket), now: time.Now}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	now := l.now()
	if now.Sub(l.lastSweep) >= sweepEvery {
		for k, b := range l.buckets {
			if now.Sub(b.seen) >= bucketIdleTTL {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.rps, l.burst)}
		l.buckets[key] = b
	}
	b.seen = now
	l.mu.Unlock()
	return b.lim.AllowN(now, 1), nil
}

// RateLimitPerIP 每 IP 限速；限流后端出错时放行
func RateLimitPerIP(lim Limiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := lim.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			resp.Abort(c, resp.CodeTooManyRequests, "too many requests")
			return
		}
		c.Next()
	}
}
