// Package transactions implements per-user income and expense records with
// read-time statistics.
package transactions

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Cache TTLs. Lists change more often than computed stats are re-read, so
// both stay short; correctness comes from invalidation on writes.
const (
	listCacheTTL  = 2 * time.Minute
	statsCacheTTL = 5 * time.Minute
)

// Service defines the business operations on transactions.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateTransactionRequest) (*Transaction, error)
	Get(ctx context.Context, id uuid.UUID) (*Transaction, error)
	List(ctx context.Context, userID uuid.UUID, rng Range) ([]Transaction, error)
	Update(ctx context.Context, id, userID uuid.UUID, req UpdateTransactionRequest) (*Transaction, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	Stats(ctx context.Context, userID uuid.UUID, rng Range) (*Stats, error)
}

type service struct {
	repo  *Repository
	cache *redis.Client
	log   *slog.Logger
}

// NewService creates a transactions service with optional Redis caching.
// When Redis is unreachable the service runs with caching disabled.
func NewService(repo *Repository, redisAddr, redisPassword string, log *slog.Logger) Service {
	var rdb *redis.Client
	if redisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: redisPassword,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unavailable, caching disabled", "error", err)
			rdb = nil
		}
	}

	return &service{repo: repo, cache: rdb, log: log}
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateTransactionRequest) (*Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	txn, err := s.repo.Create(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	s.invalidateUserCache(ctx, userID)
	return txn, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, userID uuid.UUID, rng Range) ([]Transaction, error) {
	key := s.cacheKey(userID, "list", rng)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key).Result()
		if err == nil {
			var txns []Transaction
			if err := json.Unmarshal([]byte(cached), &txns); err == nil {
				return txns, nil
			}
		}
	}

	txns, err := s.repo.ListByUser(ctx, userID, rng)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(txns); err == nil {
			s.cache.Set(ctx, key, data, listCacheTTL)
		}
	}

	return txns, nil
}

func (s *service) Update(ctx context.Context, id, userID uuid.UUID, req UpdateTransactionRequest) (*Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	txn, err := s.repo.Update(ctx, id, userID, req)
	if err != nil {
		return nil, err
	}

	s.invalidateUserCache(ctx, userID)
	return txn, nil
}

func (s *service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.invalidateUserCache(ctx, userID)
	return nil
}

// Stats fetches the user's transactions in range and reduces them. The
// reduction itself is pure, so the cached value is identical to a recompute
// as long as the underlying set is unchanged.
func (s *service) Stats(ctx context.Context, userID uuid.UUID, rng Range) (*Stats, error) {
	key := s.cacheKey(userID, "stats", rng)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key).Result()
		if err == nil {
			var stats Stats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	txns, err := s.repo.ListByUser(ctx, userID, rng)
	if err != nil {
		return nil, err
	}
	stats := Compute(txns)

	if s.cache != nil {
		if data, err := json.Marshal(stats); err == nil {
			s.cache.Set(ctx, key, data, statsCacheTTL)
		}
	}

	return &stats, nil
}

func (s *service) cacheKey(userID uuid.UUID, kind string, rng Range) string {
	from, to := "", ""
	if rng.From != nil {
		from = rng.From.Format(time.RFC3339)
	}
	if rng.To != nil {
		to = rng.To.Format(time.RFC3339)
	}
	return fmt.Sprintf("txns:user:%s:%s:%s:%s", userID, kind, from, to)
}

// invalidateUserCache drops every cached list and stats entry for the user.
func (s *service) invalidateUserCache(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}

	pattern := fmt.Sprintf("txns:user:%s:*", userID)
	iter := s.cache.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		s.cache.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		s.log.Warn("cache invalidation failed", "error", err)
	}
}
