package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Wpsi1337/exile-tracker/pkg/model"
)

const snapshotKeyPrefix = "snapshot:"

// Store persists price snapshots outside the process: a Redis mirror that
// survives restarts inside the TTL window, and an optional Postgres history
// sink for long-term price series.
type Store interface {
	SaveSnapshot(ctx context.Context, snap *model.Snapshot, ttl time.Duration) error
	LoadSnapshots(ctx context.Context) ([]*model.Snapshot, error)
	RecordHistory(ctx context.Context, snap *model.Snapshot) error
	HealthCheck(ctx context.Context) error
	Close() error
}

// HybridStore is Redis-first with Postgres as the optional history backend.
type HybridStore struct {
	redis  *redis.Client
	PG     *pgxpool.Pool
	logger *zap.Logger
}

// NewHybrid connects to Redis (required) and Postgres (optional, pgURL may be
// empty).
func NewHybrid(redisAddr string, redisDB int, pgURL string, logger *zap.Logger) (*HybridStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
		DB:   redisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	var pgPool *pgxpool.Pool
	if pgURL != "" {
		var err error
		pgPool, err = pgxpool.New(ctx, pgURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
	}

	return &HybridStore{redis: rdb, PG: pgPool, logger: logger}, nil
}

func snapshotKey(key model.PartitionKey) string {
	return snapshotKeyPrefix + key.String()
}

// SaveSnapshot mirrors a snapshot to Redis as JSON with the cache TTL, so a
// restart within the window starts warm.
func (s *HybridStore) SaveSnapshot(ctx context.Context, snap *model.Snapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.redis.Set(ctx, snapshotKey(snap.Key()), data, ttl).Err(); err != nil {
		s.logger.Error("store.redis.snapshot_save_failed",
			zap.String("partition", snap.Key().String()),
			zap.Error(err))
		return err
	}
	return nil
}

// LoadSnapshots reads every mirrored snapshot. Keys that fail to parse or
// decode are skipped with a log line; a partial warm start beats none.
func (s *HybridStore) LoadSnapshots(ctx context.Context) ([]*model.Snapshot, error) {
	var snaps []*model.Snapshot
	iter := s.redis.Scan(ctx, 0, snapshotKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if _, err := model.ParsePartitionKey(key[len(snapshotKeyPrefix):]); err != nil {
			s.logger.Warn("store.redis.bad_snapshot_key", zap.String("key", key), zap.Error(err))
			continue
		}
		data, err := s.redis.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		} else if err != nil {
			return snaps, err
		}
		var snap model.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			s.logger.Warn("store.redis.corrupt_snapshot", zap.String("key", key), zap.Error(err))
			continue
		}
		snaps = append(snaps, &snap)
	}
	if err := iter.Err(); err != nil {
		return snaps, fmt.Errorf("scan snapshots: %w", err)
	}
	return snaps, nil
}

// RecordHistory appends one row per entry to tracker.price_history. A nil
// Postgres pool makes this a no-op, matching the Redis-only deployment.
func (s *HybridStore) RecordHistory(ctx context.Context, snap *model.Snapshot) error {
	if s.PG == nil {
		return nil
	}

	batch := &pgx.Batch{}
	for _, entry := range snap.Entries {
		batch.Queue(`
			INSERT INTO tracker.price_history (
				league, game, category, price_mode,
				entry_name, details_id, chaos_value, divine_value, trade_volume, fetched_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, snap.League, string(snap.Game), snap.Category, string(snap.Mode),
			entry.Name, entry.DetailsID,
			decimal.NewFromFloat(entry.ChaosValue),
			decimal.NewFromFloat(entry.DivineValue),
			entry.TradeVolume, snap.FetchedAt)
	}

	results := s.PG.SendBatch(ctx, batch)
	defer results.Close()
	for range snap.Entries {
		if _, err := results.Exec(); err != nil {
			s.logger.Error("store.pg.history_insert_failed",
				zap.String("partition", snap.Key().String()),
				zap.Error(err))
			return err
		}
	}
	return nil
}

// HealthCheck pings Redis and, when configured, Postgres.
func (s *HybridStore) HealthCheck(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis unhealthy: %w", err)
	}
	if s.PG != nil {
		if err := s.PG.Ping(ctx); err != nil {
			return fmt.Errorf("postgres unhealthy: %w", err)
		}
	}
	return nil
}

// Close releases both backends.
func (s *HybridStore) Close() error {
	if s.PG != nil {
		s.PG.Close()
	}
	return s.redis.Close()
}
