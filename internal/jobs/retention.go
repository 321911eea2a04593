package jobs

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// DBExecutor is the minimal subset of pgxpool.Pool the job needs.
type DBExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// HistoryRetention periodically deletes price history rows older than the
// retention window, keeping the Postgres sink bounded on long-running boxes.
type HistoryRetention struct {
	logger    *zap.Logger
	db        DBExecutor
	interval  time.Duration
	retention time.Duration
	stopCh    chan struct{}
}

func NewHistoryRetention(logger *zap.Logger, db DBExecutor, interval, retention time.Duration) *HistoryRetention {
	return &HistoryRetention{
		logger:    logger,
		db:        db,
		interval:  interval,
		retention: retention,
		stopCh:    make(chan struct{}),
	}
}

// Start runs the retention loop until stopped or the context ends.
func (r *HistoryRetention) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("history_retention.started",
		zap.Duration("interval", r.interval),
		zap.Duration("retention", r.retention))

	for {
		select {
		case <-ticker.C:
			r.runOnce(ctx)
		case <-r.stopCh:
			r.logger.Info("history_retention.stopped")
			return
		case <-ctx.Done():
			r.logger.Info("history_retention.stopped (context canceled)")
			return
		}
	}
}

// Stop halts the loop.
func (r *HistoryRetention) Stop() {
	close(r.stopCh)
}

func (r *HistoryRetention) runOnce(ctx context.Context) {
	start := time.Now()
	cutoff := start.UTC().Add(-r.retention)

	tag, err := r.db.Exec(ctx,
		`DELETE FROM tracker.price_history WHERE fetched_at < $1`, cutoff)
	if err != nil {
		r.logger.Error("history_retention.sweep_failed", zap.Error(err))
		return
	}

	r.logger.Info("history_retention.sweep_done",
		zap.Int64("rows_deleted", tag.RowsAffected()),
		zap.Time("cutoff", cutoff),
		zap.Duration("duration", time.Since(start)))
}
