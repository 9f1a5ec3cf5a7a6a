package query

import (
	"encoding/json"
	"time"

	"github.com/veldtmail/loggate/pkg/logrecord/model"
)

const (
	DefaultWindow = time.Hour
	// ErrorWindow is the narrowed window for error and fatal records, which
	// tend to repeat in bursts.
	ErrorWindow = 10 * time.Minute
)

// Dotted document paths referenced by duplicate clauses. The index mapping
// must keep these as exact-match (keyword) fields.
const (
	FieldUser              = "user"
	FieldMessage           = "message"
	FieldCreatedAt         = "created_at"
	FieldLevel             = "meta.level"
	FieldRequestId         = "meta.request.id"
	FieldRequestMethod     = "meta.request.method"
	FieldRequestUrl        = "meta.request.url"
	FieldResponseStatus    = "meta.response.status_code"
	FieldResponseRequestId = "meta.response.headers.x-request-id"
	FieldUserIp            = "meta.user.ip_address"
)

// Window returns the dedup window applicable to the candidate.
func Window(record *model.LogRecord) time.Duration {
	if level := metaLevel(record); level == model.ErrorLevel || level == model.FatalLevel {
		return ErrorWindow
	}
	return DefaultWindow
}

func metaLevel(record *model.LogRecord) model.Level {
	switch m := record.Meta.(type) {
	case *model.HTTPMeta:
		return m.Level
	case *model.AppMeta:
		return m.Level
	}
	return ""
}

// BuildDuplicatePredicate derives the existence predicate that proves the
// candidate is a duplicate of an already persisted record. Returns false when
// no clauses could be derived at all; callers must treat that as an automatic
// rejection rather than running an unconstrained query.
func BuildDuplicatePredicate(record *model.LogRecord, now time.Time) (Predicate, bool) {
	clauses := signatureClauses(record)

	// The time window alone never constitutes a signature.
	if len(clauses) == 0 {
		return nil, false
	}

	// HTTP traffic is exempt from the time window: volume dedup is handled
	// by the request-identity clauses instead.
	if _, isHttp := record.Meta.(*model.HTTPMeta); !isHttp {
		clauses = append(clauses, Range{Field: FieldCreatedAt, Gte: now.Add(-Window(record))})
	}
	return And{Predicates: clauses}, true
}

// DuplicateSignature renders the window-independent clause set as stable
// bytes. Two candidates the storage query would treat as duplicates of each
// other produce the same signature regardless of when they are built, so the
// bytes can key a process-local cache.
func DuplicateSignature(record *model.LogRecord) ([]byte, bool) {
	clauses := signatureClauses(record)
	if len(clauses) == 0 {
		return nil, false
	}
	signature, err := json.Marshal(And{Predicates: clauses}.Clause())
	if err != nil {
		return nil, false
	}
	return signature, true
}

// signatureClauses derives every clause of the duplicate signature except
// the created_at window bound.
func signatureClauses(record *model.LogRecord) []Predicate {
	var clauses []Predicate

	if httpMeta, isHttp := record.Meta.(*model.HTTPMeta); isHttp {
		clauses = append(clauses, httpIdentityClauses(record, httpMeta)...)
	} else if record.Message != "" {
		clauses = append(clauses, Equals{Field: FieldMessage, Value: record.Message})
	}

	if level := metaLevel(record); level != "" {
		clauses = append(clauses, Equals{Field: FieldLevel, Value: string(level)})
	}

	if record.User != "" {
		clauses = append(clauses, Equals{Field: FieldUser, Value: record.User})
	}
	return clauses
}

func httpIdentityClauses(record *model.LogRecord, m *model.HTTPMeta) []Predicate {
	var clauses []Predicate

	var identity []Predicate
	if m.Request.Id != "" {
		identity = append(identity, Equals{Field: FieldRequestId, Value: m.Request.Id})
	}
	if requestId := m.Response.Header("x-request-id"); requestId != "" {
		identity = append(identity, Equals{Field: FieldResponseRequestId, Value: requestId})
	}
	switch len(identity) {
	case 0:
	case 1:
		clauses = append(clauses, identity[0])
	default:
		clauses = append(clauses, Or{Predicates: identity})
	}

	if record.User == "" && m.UserIP != "" {
		clauses = append(clauses, Equals{Field: FieldUserIp, Value: m.UserIP})
	}

	if m.Response.StatusCode != 0 && m.Request.Method != "" && m.Request.Url != "" {
		clauses = append(clauses, And{Predicates: []Predicate{
			Equals{Field: FieldResponseStatus, Value: m.Response.StatusCode},
			Equals{Field: FieldRequestMethod, Value: m.Request.Method},
			Equals{Field: FieldRequestUrl, Value: m.Request.Url},
		}})
	}
	return clauses
}
