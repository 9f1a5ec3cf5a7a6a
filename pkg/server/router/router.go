package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/veldtmail/loggate/pkg/logrecord/service"
	"github.com/veldtmail/loggate/pkg/server/handler"
	"go.uber.org/zap"
)

func CreateRouter(
	admissionService service.AdmissionService,
	queryService service.RecordQueryService,
	logger *zap.Logger,
) http.Handler {
	r := mux.NewRouter()

	r.Handle(
		"/api/v1/logs", handler.LogIngestHandler(
			admissionService,
			logger,
		),
	).Methods("POST")

	r.Handle(
		"/api/v1/logs/recent", handler.RecentRecordsHandler(
			queryService,
			logger,
		),
	).Methods("GET")

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	return r
}
