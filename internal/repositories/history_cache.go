package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-plant-doctor/internal/logger"
	"github.com/sbilibin2017/gw-plant-doctor/internal/models"
)

const (
	historyCacheKey = "history:recent"
	historyGenKey   = "history:gen" // bumped on every append
)

// HistoryCacheRepository caches the newest-first history listing in Redis.
// A listing is only stored if no append happened since the reader took its generation.
type HistoryCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration of the cached listing
}

func NewHistoryCacheRepository(client *redis.Client, expiration time.Duration) *HistoryCacheRepository {
	return &HistoryCacheRepository{
		client: client,
		exp:    expiration,
	}
}

// Get returns the cached listing. ok is false on a cache miss.
func (r *HistoryCacheRepository) Get(ctx context.Context) (entries []models.HistoryEntry, ok bool, err error) {
	val, err := r.client.Get(ctx, historyCacheKey).Bytes()

	logger.Log.Infow("redis",
		"key", historyCacheKey,
		"size", len(val),
		"error", err,
	)

	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal(val, &entries); err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

// Generation returns the current append generation. It must be read before the store.
func (r *HistoryCacheRepository) Generation(ctx context.Context) (int64, error) {
	gen, err := r.client.Get(ctx, historyGenKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

// Set stores the listing read at generation gen. It is a no-op when an append
// has bumped the generation since, including one racing this call.
func (r *HistoryCacheRepository) Set(ctx context.Context, gen int64, entries []models.HistoryEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	stored := false
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, historyGenKey).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, historyCacheKey, data, r.exp)
			return nil
		})
		stored = err == nil
		return err
	}, historyGenKey)
	if errors.Is(err, redis.TxFailedErr) {
		err = nil
	}

	logger.Log.Infow("redis",
		"key", historyCacheKey,
		"gen", gen,
		"entries", len(entries),
		"stored", stored,
		"exp", r.exp,
		"error", err,
	)

	return err
}

// Invalidate bumps the generation and drops the cached listing in one transaction.
func (r *HistoryCacheRepository) Invalidate(ctx context.Context) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, historyGenKey)
		pipe.Del(ctx, historyCacheKey)
		return nil
	})

	logger.Log.Infow("redis",
		"key", historyCacheKey,
		"op", "incr+del",
		"error", err,
	)

	return err
}
