// Package jobs holds scheduled background work. Jobs only read core state;
// the ledger is mutated exclusively by request-scoped operations.
package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"

	"goodsflow/internal/services"
)

// SnapshotJob uploads a daily JSON snapshot of every warehouse's stock
// report to object storage.
type SnapshotJob struct {
	warehouses services.WarehouseService
	ledger     services.LedgerService
	store      *minio.Client
	bucket     string
	logger     zerolog.Logger
}

func NewSnapshotJob(warehouses services.WarehouseService, ledger services.LedgerService, store *minio.Client, bucket string, logger zerolog.Logger) *SnapshotJob {
	return &SnapshotJob{
		warehouses: warehouses,
		ledger:     ledger,
		store:      store,
		bucket:     bucket,
		logger:     logger,
	}
}

// Register schedules the snapshot daily at 03:00. Singleton mode keeps a slow
// upload from overlapping with the next run.
func (j *SnapshotJob) Register(scheduler gocron.Scheduler) error {
	_, err := scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		gocron.NewTask(j.Run),
		gocron.WithName("stock-snapshot"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	return err
}

func (j *SnapshotJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	warehouses, err := j.warehouses.List(ctx, false)
	if err != nil {
		j.logger.Error().Err(err).Msg("snapshot: list warehouses")
		return
	}

	snapshot := map[string]interface{}{
		"taken_at": time.Now().UTC().Format(time.RFC3339),
	}
	stocks := map[string][]*services.StockReportRow{}
	for _, warehouse := range warehouses {
		report, err := j.ledger.StockReport(ctx, warehouse.ID)
		if err != nil {
			j.logger.Error().Err(err).Str("warehouse", warehouse.Name).Msg("snapshot: stock report")
			return
		}
		stocks[warehouse.Name] = report
	}
	snapshot["warehouses"] = stocks

	payload, err := json.Marshal(snapshot)
	if err != nil {
		j.logger.Error().Err(err).Msg("snapshot: marshal")
		return
	}

	objectName := fmt.Sprintf("stock-snapshots/%s.json", time.Now().UTC().Format("2006-01-02"))
	_, err = j.store.PutObject(ctx, j.bucket, objectName, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		j.logger.Error().Err(err).Str("object", objectName).Msg("snapshot: upload")
		return
	}
	j.logger.Info().Str("object", objectName).Int("bytes", len(payload)).Msg("stock snapshot uploaded")
}
