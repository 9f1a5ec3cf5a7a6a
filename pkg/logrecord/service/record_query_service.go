package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/veldtmail/loggate/pkg/elasticsearch/bootstrapper"
	"github.com/veldtmail/loggate/pkg/elasticsearch/client"
	"github.com/veldtmail/loggate/pkg/logrecord/model"
	"go.uber.org/zap"
)

const rqTimeOut = 2 * time.Second

// RecordQueryService serves the operational read surface over persisted
// records.
type RecordQueryService interface {
	RecentRecords(ctx context.Context, size int) ([]model.LogRecord, error)
}

type RecordQueryServiceImpl struct {
	ac     client.LoggateClient
	logger *zap.Logger
}

func NewRecordQueryService(ac client.LoggateClient, logger *zap.Logger) *RecordQueryServiceImpl {
	return &RecordQueryServiceImpl{
		ac:     ac,
		logger: logger,
	}
}

func recentRecordsQueryBuilder() map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"match_all": map[string]interface{}{},
		},
		"sort": []map[string]interface{}{
			{
				"created_at": map[string]interface{}{
					"order": "desc",
				},
			},
		},
	}
}

func (rs *RecordQueryServiceImpl) RecentRecords(ctx context.Context, size int) ([]model.LogRecord, error) {
	queryBody, err := json.Marshal(recentRecordsQueryBuilder())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recent records query: %w", err)
	}
	queryCtx, queryCancel := context.WithTimeout(ctx, rqTimeOut)
	defer queryCancel()
	res, err := rs.ac.Search(queryCtx, string(queryBody), bootstrapper.LogRecordIndexName, &size)
	if err != nil {
		rs.logger.Error("Failed to search for recent records", zap.Error(err))
		return nil, fmt.Errorf("error searching for recent records: %w", err)
	}
	return ConvertToLogRecords(res)
}

// ConvertToLogRecords maps raw search hits back into records. The meta shape
// is re-derived from the persisted is_http flag.
func ConvertToLogRecords(data []map[string]interface{}) ([]model.LogRecord, error) {
	records := make([]model.LogRecord, 0, len(data))
	for _, item := range data {
		id, _ := item["_id"].(string)
		delete(item, "_id")

		raw, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("failed to re-marshal search hit: %w", err)
		}
		var record model.LogRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("failed to convert search hit to log record: %w", err)
		}
		record.Id = id
		records = append(records, record)
	}
	return records, nil
}
