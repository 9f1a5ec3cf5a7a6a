package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/veldtmail/loggate/pkg/elasticsearch/bootstrapper"
	"github.com/veldtmail/loggate/pkg/elasticsearch/client"
	"github.com/veldtmail/loggate/pkg/logrecord/query"
	"go.uber.org/zap"
)

const retentionSweepInterval = 12 * time.Hour
const retentionTimeOut = 30 * time.Second

// RetentionAge mirrors the ILM policy installed by the bootstrapper. The
// sweep gives per-document granularity; the ILM delete phase is the backstop
// when the sweeper is not running.
const RetentionAge = 30 * 24 * time.Hour

// RetentionService purges records older than the retention age. Records
// expire passively; nothing else deletes them.
type RetentionService struct {
	ac     client.LoggateClient
	now    func() time.Time
	logger *zap.Logger
}

func NewRetentionService(ac client.LoggateClient, now func() time.Time, logger *zap.Logger) *RetentionService {
	if now == nil {
		now = time.Now
	}
	return &RetentionService{
		ac:     ac,
		now:    now,
		logger: logger,
	}
}

func expiredRecordsQueryBuilder(cutoff time.Time) map[string]interface{} {
	return query.CountQuery(query.Range{Field: query.FieldCreatedAt, Lte: cutoff})
}

// SweepExpired deletes all records past the retention age and returns how
// many were purged.
func (rs *RetentionService) SweepExpired(ctx context.Context) (int64, error) {
	cutoff := rs.now().Add(-RetentionAge)
	queryBody, err := json.Marshal(expiredRecordsQueryBuilder(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to marshal retention query: %w", err)
	}
	sweepCtx, sweepCancel := context.WithTimeout(ctx, retentionTimeOut)
	defer sweepCancel()
	deleted, err := rs.ac.DeleteByQuery(sweepCtx, string(queryBody), bootstrapper.LogRecordIndexName)
	if err != nil {
		rs.logger.Error("Failed to sweep expired records", zap.Error(err))
		return 0, fmt.Errorf("error sweeping expired records: %w", err)
	}
	return deleted, nil
}

// Start runs periodic sweeps until the context is cancelled.
func (rs *RetentionService) Start(ctx context.Context) {
	ticker := time.NewTicker(retentionSweepInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := rs.SweepExpired(ctx)
				if err != nil {
					continue
				}
				rs.logger.Info("Retention sweep completed", zap.Int64("deleted", deleted))
			}
		}
	}()
}
