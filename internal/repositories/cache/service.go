package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"counsel/internal/models"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

const (
	keyActiveServices = "services:active"
	keyConsultFee     = "services:consultation_fee"
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
	hits   int64
	misses int64
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			atomic.AddInt64(&s.misses, 1)
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}
	atomic.AddInt64(&s.hits, 1)

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// cachedProfile keeps the token version, which the API encoding hides.
type cachedProfile struct {
	models.Profile
	TokenVersion int `json:"token_version"`
}

// Profile caching. The password hash is not serialized, so a cached
// profile must never be used to verify credentials.
func (s *CacheService) CacheProfile(ctx context.Context, profile *models.Profile) error {
	if profile == nil {
		return errors.New("cannot cache nil profile")
	}
	entry := cachedProfile{Profile: *profile, TokenVersion: profile.TokenVersion}
	return s.Set(ctx, s.GenerateKey("profile", "id", profile.ID), entry)
}

func (s *CacheService) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var entry cachedProfile
	found, err := s.Get(ctx, s.GenerateKey("profile", "id", id), &entry)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrCacheMiss
	}
	profile := entry.Profile
	profile.TokenVersion = entry.TokenVersion
	return &profile, nil
}

func (s *CacheService) InvalidateProfile(ctx context.Context, id string) error {
	return s.Delete(ctx, s.GenerateKey("profile", "id", id))
}

// Catalog caching
func (s *CacheService) CacheActiveServices(ctx context.Context, services []models.Service) error {
	return s.Set(ctx, keyActiveServices, services)
}

func (s *CacheService) GetActiveServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	found, err := s.Get(ctx, keyActiveServices, &services)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrCacheMiss
	}
	return services, nil
}

func (s *CacheService) CacheConsultationFee(ctx context.Context, fee float64) error {
	return s.Set(ctx, keyConsultFee, fee)
}

func (s *CacheService) GetConsultationFee(ctx context.Context) (float64, error) {
	var fee float64
	found, err := s.Get(ctx, keyConsultFee, &fee)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, ErrCacheMiss
	}
	return fee, nil
}

// InvalidateCatalog drops every cached catalog entry.
func (s *CacheService) InvalidateCatalog(ctx context.Context) error {
	return s.Delete(ctx, keyActiveServices, keyConsultFee)
}

// FlushAll flushes all keys from the cache
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
