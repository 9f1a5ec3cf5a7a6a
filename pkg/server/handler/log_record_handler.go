package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/veldtmail/loggate/pkg/logrecord/model"
	"github.com/veldtmail/loggate/pkg/logrecord/service"
	"github.com/veldtmail/loggate/pkg/metrics"
	"go.uber.org/zap"
)

type IngestResponseDTO struct {
	Id     string `json:"id,omitempty"`
	Status string `json:"status"`
}

// LogIngestHandler creates a handler for submitting a log record candidate.
// Duplicate and noise rejections are normal outcomes and answer 200 with a
// dropped status so producers silently move on.
func LogIngestHandler(
	admissionService service.AdmissionService,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			logger.Error("Error encountered when reading request body", zap.Error(err))
			HttpError(w, "Unable to read request body", http.StatusBadRequest, logger)
			return
		}
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logger.Error("Error encountered when closing request body", zap.Error(err))
			}
		}(r.Body)

		metrics.PayloadBytes.Observe(float64(len(body)))

		var candidate model.LogRecord
		if err := json.Unmarshal(body, &candidate); err != nil {
			logger.Error("Error encountered when decoding request body", zap.Error(err))
			HttpError(w, "Invalid request payload", http.StatusBadRequest, logger)
			return
		}

		id, err := admissionService.Admit(r.Context(), &candidate)
		switch {
		case err == nil:
			metrics.RecordsAccepted.Inc()
			writeJSON(w, http.StatusCreated, IngestResponseDTO{Id: id, Status: "accepted"}, logger)
		case errors.Is(err, service.ErrPayloadTooLarge):
			metrics.RecordsDropped.WithLabelValues(metrics.ReasonPayloadTooLarge).Inc()
			HttpError(w, "Log record payload too large", http.StatusRequestEntityTooLarge, logger)
		case errors.Is(err, service.ErrDuplicateOrNoise):
			metrics.RecordsDropped.WithLabelValues(metrics.ReasonDuplicateOrNoise).Inc()
			writeJSON(w, http.StatusOK, IngestResponseDTO{Status: "dropped"}, logger)
		default:
			metrics.StorageFailures.Inc()
			logger.Error("Admission failed on storage", zap.Error(err))
			HttpError(w, "Storage failure during admission", http.StatusBadGateway, logger)
		}
	}
}

// RecentRecordsHandler creates a handler for listing recently persisted
// records, newest first.
func RecentRecordsHandler(
	queryService service.RecordQueryService,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		size := 50
		if sizeParam := r.URL.Query().Get("size"); sizeParam != "" {
			parsed, err := strconv.Atoi(sizeParam)
			if err != nil || parsed <= 0 {
				HttpError(w, "Invalid size parameter", http.StatusBadRequest, logger)
				return
			}
			size = parsed
		}

		records, err := queryService.RecentRecords(r.Context(), size)
		if err != nil {
			logger.Error("Failed to list recent records", zap.Error(err))
			HttpError(w, "Storage failure while listing records", http.StatusBadGateway, logger)
			return
		}
		dtos := make([]LogRecordDTO, len(records))
		for i, record := range records {
			dtos[i] = LogRecordDTO{Id: record.Id, LogRecord: record}
		}
		writeJSON(w, http.StatusOK, dtos, logger)
	}
}

type LogRecordDTO struct {
	Id string `json:"id"`
	model.LogRecord
}
