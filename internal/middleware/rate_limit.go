package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	// Limites par fenêtre d'une minute
	CartMaxRequests  = 20
	AdminMaxRequests = 60

	RateWindow = 1 * time.Minute
)

// Counter incrémente un compteur qui expire à la fin de sa fenêtre.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		// la fenêtre démarre au premier hit, les suivants ne la prolongent pas
		pipe.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

type window struct {
	count   int64
	resetAt time.Time
}

// MemoryCounter purge les fenêtres expirées au plus une fois par fenêtre,
// les clés (sessions anonymes, IP) étant fournies par les clients.
type MemoryCounter struct {
	mu        sync.Mutex
	windows   map[string]*window
	nextSweep time.Time
	now       func() time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{windows: make(map[string]*window), now: time.Now}
}

func (m *MemoryCounter) Incr(_ context.Context, key string, d time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if !now.Before(m.nextSweep) {
		m.sweep(now)
		m.nextSweep = now.Add(d)
	}

	w, ok := m.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(d)}
		m.windows[key] = w
	}
	w.count++
	return w.count, nil
}

func (m *MemoryCounter) sweep(now time.Time) {
	for key, w := range m.windows {
		if !now.Before(w.resetAt) {
			delete(m.windows, key)
		}
	}
}

// RateLimit refuse avec 429 au-delà de limit requêtes par fenêtre.
// Si le compteur est indisponible la requête passe.
func RateLimit(counter Counter, prefix string, limit int64, keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := prefix + ":" + keyFn(c)

		n, err := counter.Incr(c.Request.Context(), key, RateWindow)
		if err != nil {
			log.Printf("⚠️ Rate limit indisponible (%s): %v", key, err)
			c.Next()
			return
		}

		remaining := limit - n
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if n > limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests. Try again in 1 minute",
				"retry_after": int(RateWindow.Seconds()),
			})
			return
		}
		c.Next()
	}
}

// AdminRateLimit limite les écritures admin par IP.
func AdminRateLimit(counter Counter) gin.HandlerFunc {
	return RateLimit(counter, "admin_requests", AdminMaxRequests, func(c *gin.Context) string {
		return c.ClientIP()
	})
}
