package main

import (
	"context"
	"net/http"

	"github.com/dgraph-io/ristretto"
	"github.com/elastic/go-elasticsearch/v8"
	signatureCache "github.com/veldtmail/loggate/pkg/cache"
	"github.com/veldtmail/loggate/pkg/config"
	"github.com/veldtmail/loggate/pkg/elasticsearch/bootstrapper"
	"github.com/veldtmail/loggate/pkg/elasticsearch/client"
	logService "github.com/veldtmail/loggate/pkg/logrecord/service"
	"github.com/veldtmail/loggate/pkg/server/router"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	store, err := config.LoadAndWatch("./configs", logger)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	cfg := store.Get()

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
	})
	if err != nil {
		logger.Fatal("Failed to create elasticsearch client", zap.Error(err))
	}

	bs := bootstrapper.NewBootstrapper(es, logger)
	err = bs.BootstrapElasticsearch()
	if err != nil {
		logger.Fatal("Failed to bootstrap elasticsearch", zap.Error(err))
	}

	ac := client.NewLoggateClientImpl(es, client.Wait)

	var sc signatureCache.SignatureCache
	if cfg.Cache.Enabled {
		rc, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: cfg.Cache.NumCounters,
			MaxCost:     cfg.Cache.MaxCost,
			BufferItems: cfg.Cache.BufferItems,
		})
		if err != nil {
			logger.Fatal("Failed to create signature cache", zap.Error(err))
		}
		sc = signatureCache.NewSignatureCacheImpl(rc)
	}

	// Admission re-reads the store on every attempt so config edits to the
	// tunables take effect without a restart.
	settings := func() logService.AdmissionSettings {
		current := store.Get()
		return logService.AdmissionSettings{
			MaxPayloadBytes:     current.Admission.MaxPayloadBytes,
			IgnoredContentTypes: current.Admission.IgnoredContentTypes,
		}
	}
	admissionService := logService.NewAdmissionService(ac, settings, sc, nil, logger)
	queryService := logService.NewRecordQueryService(ac, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	retentionService := logService.NewRetentionService(ac, nil, logger)
	retentionService.Start(ctx)

	r := router.CreateRouter(admissionService, queryService, logger)

	logger.Info("Log admission server started", zap.String("port", cfg.Server.Port))
	if err := http.ListenAndServe(":"+cfg.Server.Port, r); err != nil {
		logger.Fatal("Failed to serve", zap.Error(err))
	}
}
