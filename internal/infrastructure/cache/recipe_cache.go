package cache

import (
	"context"
	"encoding/json"
	"time"

	domaincache "github.com/alchemorsel/cookbook/internal/domain/cache"
	"github.com/alchemorsel/cookbook/internal/ports/outbound"
	apperrors "github.com/alchemorsel/cookbook/pkg/errors"
)

const keyPrefix = "cookbook:extraction:"

// kv is the subset of RedisClient the Store depends on; narrowed to an
// interface so tests can substitute an in-memory fake instead of a live
// Redis connection.
type kv interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Count(ctx context.Context, pattern string) (int64, error)
}

// Store implements outbound.CacheStore against Redis, keyed by request
// fingerprint (§4.3). A miss and a circuit-open Redis both surface as a
// plain "not found" or wrapped CacheUnavailable error — the Request
// Coordinator treats both as "proceed without cache" (§7).
type Store struct {
	redis kv
	ttl   time.Duration
}

func NewStore(redis *RedisClient, ttl time.Duration) *Store {
	return &Store{redis: redis, ttl: ttl}
}

// record is the JSON envelope persisted per fingerprint.
type record struct {
	Fingerprint    string    `json:"fingerprint"`
	SourceURL      string    `json:"source_url"`
	RecipeYAML     string    `json:"recipe_yaml"`
	Valid          bool      `json:"valid"`
	CreatedAt      time.Time `json:"created_at"`
	LastUpdatedAt  time.Time `json:"last_updated_at"`
	Version        int64     `json:"version"`
}

func (s *Store) Lookup(ctx context.Context, fingerprint string) (*domaincache.Entry, error) {
	raw, err := s.redis.Get(ctx, keyPrefix+fingerprint)
	if err == ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewCacheUnavailableError("lookup", err)
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, apperrors.NewCacheUnavailableError("lookup", err)
	}
	return &domaincache.Entry{
		Fingerprint:   rec.Fingerprint,
		SourceURL:     rec.SourceURL,
		RecipeYAML:    rec.RecipeYAML,
		Valid:         rec.Valid,
		CreatedAt:     rec.CreatedAt,
		LastUpdatedAt: rec.LastUpdatedAt,
		Version:       rec.Version,
	}, nil
}

func (s *Store) StoreValid(ctx context.Context, fingerprint, sourceURL, recipeYAML string) error {
	return s.store(ctx, fingerprint, sourceURL, recipeYAML, true)
}

func (s *Store) StoreInvalid(ctx context.Context, fingerprint, sourceURL string) error {
	return s.store(ctx, fingerprint, sourceURL, "", false)
}

// store implements the last-writer-wins increment of §4.3: created_at is
// preserved across writers by re-reading the existing entry first.
func (s *Store) store(ctx context.Context, fingerprint, sourceURL, recipeYAML string, valid bool) error {
	now := time.Now()
	existing, _ := s.Lookup(ctx, fingerprint)

	var base domaincache.Entry
	if existing != nil {
		base = *existing
	}
	entry := base.NextVersion(recipeYAML, valid, now)
	entry.Fingerprint = fingerprint
	entry.SourceURL = sourceURL

	rec := record{
		Fingerprint:   entry.Fingerprint,
		SourceURL:     entry.SourceURL,
		RecipeYAML:    entry.RecipeYAML,
		Valid:         entry.Valid,
		CreatedAt:     entry.CreatedAt,
		LastUpdatedAt: entry.LastUpdatedAt,
		Version:       entry.Version,
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return apperrors.NewCacheUnavailableError("store", err)
	}
	if err := s.redis.Set(ctx, keyPrefix+fingerprint, payload, s.ttl); err != nil {
		return apperrors.NewCacheUnavailableError("store", err)
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, fingerprint string) (bool, error) {
	ok, err := s.redis.Exists(ctx, keyPrefix+fingerprint)
	if err != nil {
		return false, apperrors.NewCacheUnavailableError("exists", err)
	}
	return ok, nil
}

func (s *Store) Delete(ctx context.Context, fingerprint string) error {
	if err := s.redis.Delete(ctx, keyPrefix+fingerprint); err != nil {
		return apperrors.NewCacheUnavailableError("delete", err)
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.redis.Count(ctx, keyPrefix+"*")
	if err != nil {
		return 0, apperrors.NewCacheUnavailableError("count", err)
	}
	return n, nil
}

var _ outbound.CacheStore = (*Store)(nil)
