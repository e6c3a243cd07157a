package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultScanLimit = 500

// LowStockScanJob sweeps the parts table for stock below the minimum and
// reports each hit through the structured log, where alerting picks it up.
type LowStockScanJob struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger
}

// NewLowStockScanJob initialises the low stock scan handler.
func NewLowStockScanJob(pool *pgxpool.Pool, logger *slog.Logger) *LowStockScanJob {
	return &LowStockScanJob{Pool: pool, Logger: logger}
}

// Handle executes one sweep.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("low stock scan: handler not configured")
	}
	var payload LowStockScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Limit <= 0 {
		payload.Limit = defaultScanLimit
	}

	logger := j.logger()
	start := time.Now()
	logger.Info("starting low stock scan", slog.Int("limit", payload.Limit))

	rows, err := j.Pool.Query(ctx, `
		SELECT id::text, sku, name, current_stock, minimum_stock
		FROM parts
		WHERE deleted_at IS NULL AND current_stock < minimum_stock
		ORDER BY current_stock - minimum_stock
		LIMIT $1`, payload.Limit)
	if err != nil {
		logger.Error("scan query failed", slog.Any("error", err))
		return err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id, sku, name string
		var current, minimum int
		if err := rows.Scan(&id, &sku, &name, &current, &minimum); err != nil {
			return err
		}
		count++
		level := slog.LevelWarn
		if current == 0 {
			level = slog.LevelError
		}
		logger.Log(ctx, level, "part below minimum stock",
			slog.String("part_id", id),
			slog.String("sku", sku),
			slog.String("name", name),
			slog.Int("current_stock", current),
			slog.Int("minimum_stock", minimum),
		)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	logger.Info("completed low stock scan",
		slog.Int("low_stock_parts", count),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func (j *LowStockScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskLowStockScan))
	}
	return slog.Default().With(slog.String("job", TaskLowStockScan))
}
