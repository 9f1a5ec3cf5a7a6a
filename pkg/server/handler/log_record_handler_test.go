package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veldtmail/loggate/pkg/logrecord/model"
	"github.com/veldtmail/loggate/pkg/logrecord/service"
	"go.uber.org/zap"
)

type stubAdmissionService struct {
	id  string
	err error
}

func (s *stubAdmissionService) Admit(_ context.Context, _ *model.LogRecord) (string, error) {
	return s.id, s.err
}

func postLogRecord(t *testing.T, admissionService service.AdmissionService, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/logs", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	LogIngestHandler(admissionService, zap.NewNop())(recorder, req)
	return recorder
}

func TestLogIngestHandler(t *testing.T) {
	candidateBody := `{"message":"relay refused","meta":{"level":"error"}}`

	t.Run("Accepted records answer 201 with the persisted id", func(t *testing.T) {
		recorder := postLogRecord(t, &stubAdmissionService{id: "abc-1"}, candidateBody)
		assert.Equal(t, http.StatusCreated, recorder.Code)

		var response IngestResponseDTO
		assert.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
		assert.Equal(t, "abc-1", response.Id)
		assert.Equal(t, "accepted", response.Status)
	})

	t.Run("Duplicates answer 200 dropped", func(t *testing.T) {
		recorder := postLogRecord(t, &stubAdmissionService{err: service.ErrDuplicateOrNoise}, candidateBody)
		assert.Equal(t, http.StatusOK, recorder.Code)

		var response IngestResponseDTO
		assert.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
		assert.Equal(t, "dropped", response.Status)
	})

	t.Run("Oversized payloads answer 413", func(t *testing.T) {
		recorder := postLogRecord(t, &stubAdmissionService{err: service.ErrPayloadTooLarge}, candidateBody)
		assert.Equal(t, http.StatusRequestEntityTooLarge, recorder.Code)
	})

	t.Run("Storage failures answer 502", func(t *testing.T) {
		recorder := postLogRecord(t, &stubAdmissionService{err: errors.New("cluster unavailable")}, candidateBody)
		assert.Equal(t, http.StatusBadGateway, recorder.Code)
	})

	t.Run("Malformed payloads answer 400", func(t *testing.T) {
		recorder := postLogRecord(t, &stubAdmissionService{}, "{not json")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

type stubQueryService struct {
	records []model.LogRecord
	err     error
}

func (s *stubQueryService) RecentRecords(_ context.Context, _ int) ([]model.LogRecord, error) {
	return s.records, s.err
}

func TestRecentRecordsHandler(t *testing.T) {
	t.Run("Lists records with their ids", func(t *testing.T) {
		queryService := &stubQueryService{
			records: []model.LogRecord{{Id: "abc-1", Message: "relay refused"}},
		}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/logs/recent", nil)
		recorder := httptest.NewRecorder()
		RecentRecordsHandler(queryService, zap.NewNop())(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		var response []map[string]interface{}
		assert.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
		assert.Len(t, response, 1)
		assert.Equal(t, "abc-1", response[0]["id"])
	})

	t.Run("Rejects a bad size parameter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/logs/recent?size=zero", nil)
		recorder := httptest.NewRecorder()
		RecentRecordsHandler(&stubQueryService{}, zap.NewNop())(recorder, req)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
