package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/veldtmail/loggate/pkg/cache"
	"github.com/veldtmail/loggate/pkg/elasticsearch/bootstrapper"
	"github.com/veldtmail/loggate/pkg/elasticsearch/client"
	"github.com/veldtmail/loggate/pkg/logrecord/model"
	"github.com/veldtmail/loggate/pkg/logrecord/query"
	"go.uber.org/zap"
)

const admissionTimeOut = 2 * time.Second

// AdmissionService runs a candidate through normalization, the size guard,
// the content classifier and the duplicate check, then persists it. Each
// attempt is self-contained: one existence count and one write, no retries.
type AdmissionService interface {
	Admit(ctx context.Context, candidate *model.LogRecord) (string, error)
}

// AdmissionSettings are the tunables admission reads on every attempt, so
// config reloads take effect without a restart.
type AdmissionSettings struct {
	MaxPayloadBytes     int
	IgnoredContentTypes []string
}

// SettingsSource returns the current admission settings.
type SettingsSource func() AdmissionSettings

func defaultSettings() AdmissionSettings {
	return AdmissionSettings{MaxPayloadBytes: MaxPayloadBytes}
}

type AdmissionServiceImpl struct {
	ac             client.LoggateClient
	settings       SettingsSource
	signatureCache cache.SignatureCache
	now            func() time.Time
	logger         *zap.Logger
}

// NewAdmissionService wires the admission pipeline. settings may be nil to
// use the defaults; signatureCache may be nil to disable the process-local
// fast path; now may be nil to use wall-clock time.
func NewAdmissionService(
	ac client.LoggateClient,
	settings SettingsSource,
	signatureCache cache.SignatureCache,
	now func() time.Time,
	logger *zap.Logger,
) *AdmissionServiceImpl {
	if settings == nil {
		settings = defaultSettings
	}
	if now == nil {
		now = time.Now
	}
	return &AdmissionServiceImpl{
		ac:             ac,
		settings:       settings,
		signatureCache: signatureCache,
		now:            now,
		logger:         logger,
	}
}

func (as *AdmissionServiceImpl) Admit(ctx context.Context, candidate *model.LogRecord) (string, error) {
	settings := as.settings()
	maxPayloadBytes := settings.MaxPayloadBytes
	if maxPayloadBytes <= 0 {
		maxPayloadBytes = MaxPayloadBytes
	}

	model.NormalizeRecordErrors(candidate)

	if candidate.CreatedAt.IsZero() {
		candidate.CreatedAt = as.now()
	}

	document, err := json.Marshal(candidate)
	if err != nil {
		return "", fmt.Errorf("failed to marshal log record: %w", err)
	}
	if len(document) > maxPayloadBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(document))
	}

	if httpMeta, ok := candidate.Meta.(*model.HTTPMeta); ok {
		if NewContentClassifier(settings.IgnoredContentTypes).IsNoise(httpMeta) {
			return "", fmt.Errorf("%w: http noise", ErrDuplicateOrNoise)
		}
	}

	predicate, ok := query.BuildDuplicatePredicate(candidate, as.now())
	if !ok {
		return "", ErrNoDedupClauses
	}
	queryBody, err := json.Marshal(query.CountQuery(predicate))
	if err != nil {
		return "", fmt.Errorf("failed to marshal duplicate query: %w", err)
	}

	// The cache key excludes the created_at bound so identical candidates
	// hash identically regardless of when they arrive.
	signature, _ := query.DuplicateSignature(candidate)

	if as.signatureCache != nil && as.signatureCache.Seen(signature) {
		return "", fmt.Errorf("%w: recently admitted signature", ErrDuplicateOrNoise)
	}

	countCtx, countCancel := context.WithTimeout(ctx, admissionTimeOut)
	defer countCancel()
	count, err := as.ac.Count(countCtx, string(queryBody), bootstrapper.LogRecordIndexName)
	if err != nil {
		as.logger.Error(
			"Failed to count duplicate records",
			zap.String("user", candidate.User),
			zap.Error(err),
		)
		return "", fmt.Errorf("error counting duplicate records: %w", err)
	}
	if count > 0 {
		return "", ErrDuplicateOrNoise
	}

	id := uuid.NewString()
	indexCtx, indexCancel := context.WithTimeout(ctx, admissionTimeOut)
	defer indexCancel()
	if err := as.ac.Index(indexCtx, document, id, bootstrapper.LogRecordIndexName); err != nil {
		as.logger.Error(
			"Failed to persist log record",
			zap.String("id", id),
			zap.Error(err),
		)
		return "", fmt.Errorf("error persisting log record: %w", err)
	}
	candidate.Id = id

	if as.signatureCache != nil {
		as.signatureCache.MarkAdmitted(signature, query.Window(candidate))
	}

	return id, nil
}
