package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/veldtmail/loggate/pkg/logrecord/model"
	"go.uber.org/zap"
)

func TestConvertToLogRecords(t *testing.T) {
	t.Run("Rebuilds the http meta shape from hits", func(t *testing.T) {
		hits := []map[string]interface{}{
			{
				"_id":        "abc-1",
				"message":    "GET /inbox",
				"created_at": "2026-03-01T12:00:00Z",
				"meta": map[string]interface{}{
					"is_http": true,
					"request": map[string]interface{}{
						"id":     "req-1",
						"method": "GET",
						"url":    "/inbox",
					},
					"response": map[string]interface{}{
						"status_code": float64(200),
					},
					"user": map[string]interface{}{
						"ip_address": "10.0.0.7",
					},
				},
			},
		}
		records, err := ConvertToLogRecords(hits)
		assert.NoError(t, err)
		assert.Len(t, records, 1)
		assert.Equal(t, "abc-1", records[0].Id)

		httpMeta, ok := records[0].Meta.(*model.HTTPMeta)
		assert.True(t, ok)
		assert.Equal(t, "req-1", httpMeta.Request.Id)
		assert.Equal(t, "10.0.0.7", httpMeta.UserIP)
	})

	t.Run("Rebuilds the app meta shape from hits", func(t *testing.T) {
		hits := []map[string]interface{}{
			{
				"_id":        "abc-2",
				"message":    "relay refused",
				"created_at": "2026-03-01T12:00:00Z",
				"meta": map[string]interface{}{
					"level": "error",
					"err":   map[string]interface{}{"message": "refused"},
				},
			},
		}
		records, err := ConvertToLogRecords(hits)
		assert.NoError(t, err)

		appMeta, ok := records[0].Meta.(*model.AppMeta)
		assert.True(t, ok)
		assert.Equal(t, model.ErrorLevel, appMeta.Level)
		assert.Equal(t, "refused", appMeta.Err.Message)
	})
}

func TestRecentRecords(t *testing.T) {
	ac := newFakeLoggateClient()
	as := newTestAdmissionService(ac, admitTime)
	qs := NewRecordQueryService(ac, zap.NewNop())

	_, err := as.Admit(context.Background(), &model.LogRecord{Message: "first"})
	assert.NoError(t, err)

	records, err := qs.RecentRecords(context.Background(), 10)
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "first", records[0].Message)
}

func TestRetentionSweep(t *testing.T) {
	ac := newFakeLoggateClient()
	clock := &fakeClock{current: admitTime}
	as := newClockedAdmissionService(ac, clock)

	_, err := as.Admit(context.Background(), &model.LogRecord{Message: "stale"})
	assert.NoError(t, err)
	clock.advance(31 * 24 * time.Hour)
	_, err = as.Admit(context.Background(), &model.LogRecord{Message: "fresh"})
	assert.NoError(t, err)

	rs := NewRetentionService(ac, clock.now, zap.NewNop())
	deleted, err := rs.SweepExpired(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Len(t, ac.documents, 1)
	assert.Equal(t, "fresh", ac.documents[0]["message"])
}
