package cache

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func NewRedisClient(cfg *RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// HealthCheck pings Redis.
func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// Stats combines lookup hit counters with the client pool counters.
type Stats struct {
	Hits     int64            `json:"hits"`
	Misses   int64            `json:"misses"`
	HitRatio float64          `json:"hit_ratio"`
	Pool     *redis.PoolStats `json:"pool"`
}

func (s *CacheService) GetStats() Stats {
	hits := atomic.LoadInt64(&s.hits)
	misses := atomic.LoadInt64(&s.misses)
	return Stats{
		Hits:     hits,
		Misses:   misses,
		HitRatio: hitRatio(hits, misses),
		Pool:     s.client.PoolStats(),
	}
}

// hitRatio is the percentage of lookups served from the cache.
func hitRatio(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// MonitorPool logs pool and hit statistics every interval until ctx is done.
func (s *CacheService) MonitorPool(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := s.GetStats()
			log.Printf("Redis Pool Stats - Hits: %d, Misses: %d, Timeouts: %d, TotalConns: %d, IdleConns: %d, StaleConns: %d",
				stats.Pool.Hits, stats.Pool.Misses, stats.Pool.Timeouts, stats.Pool.TotalConns, stats.Pool.IdleConns, stats.Pool.StaleConns)
			log.Printf("Cache Hit Ratio: %.2f%%", stats.HitRatio)
		}
	}
}
