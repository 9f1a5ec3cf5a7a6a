package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
	FatalLevel Level = "fatal"
)

// LogRecord is a candidate log document. It is mutable until it passes
// admission, after which it is persisted as-is and never updated.
type LogRecord struct {
	Id string `json:"-"`
	// User is an opaque reference to the owning user, empty when the
	// record was not produced on behalf of anyone.
	User string `json:"user,omitempty"`
	// Domains is a snapshot of the domain ids that were relevant when
	// the record was captured. Never recomputed after persistence.
	Domains []string         `json:"domains,omitempty"`
	Err     *NormalizedError `json:"err,omitempty"`
	Message string           `json:"message,omitempty"`
	Meta    MetaPayload      `json:"meta,omitempty"`
	// RawErr carries the original error value until normalization folds
	// it into Err. Never serialized.
	RawErr    error     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// MetaPayload is the tagged union of the two recognized meta shapes. The
// shape is decided once at construction time.
type MetaPayload interface {
	isMetaPayload()
}

// HTTPMeta is the meta shape for records produced by HTTP request handlers.
// It serializes with is_http set so the document shape is self-describing.
type HTTPMeta struct {
	Level    Level        `json:"level,omitempty"`
	Request  RequestInfo  `json:"request"`
	Response ResponseInfo `json:"response"`
	UserIP   string       `json:"-"`
}

// AppMeta is the meta shape for records produced outside of HTTP handling,
// such as SMTP protocol handlers and background jobs.
type AppMeta struct {
	Level  Level            `json:"level,omitempty"`
	Err    *NormalizedError `json:"err,omitempty"`
	RawErr error            `json:"-"`
}

func (m *HTTPMeta) isMetaPayload() {}
func (m *AppMeta) isMetaPayload()  {}

type RequestInfo struct {
	Id     string `json:"id,omitempty"`
	Method string `json:"method,omitempty"`
	Url    string `json:"url,omitempty"`
}

type ResponseInfo struct {
	StatusCode int               `json:"status_code,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Header returns the response header with the given name, matched
// case-insensitively. Empty string when absent.
func (r ResponseInfo) Header(name string) string {
	if v, ok := r.Headers[name]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// lowercaseHeaders canonicalizes header keys so persisted documents agree
// with the fixed lowercase dotted paths used by dedup clauses and the index
// mapping. Producers using http.Header hand us canonical-cased keys.
func lowercaseHeaders(headers map[string]string) map[string]string {
	if headers == nil {
		return nil
	}
	lowered := make(map[string]string, len(headers))
	for k, v := range headers {
		lowered[strings.ToLower(k)] = v
	}
	return lowered
}

type clientInfo struct {
	IpAddress string `json:"ip_address,omitempty"`
}

type httpMetaDocument struct {
	IsHttp   bool         `json:"is_http"`
	Level    Level        `json:"level,omitempty"`
	Request  RequestInfo  `json:"request"`
	Response ResponseInfo `json:"response"`
	User     *clientInfo  `json:"user,omitempty"`
}

func (m *HTTPMeta) MarshalJSON() ([]byte, error) {
	doc := httpMetaDocument{
		IsHttp:  true,
		Level:   m.Level,
		Request: m.Request,
		Response: ResponseInfo{
			StatusCode: m.Response.StatusCode,
			Headers:    lowercaseHeaders(m.Response.Headers),
		},
	}
	if m.UserIP != "" {
		doc.User = &clientInfo{IpAddress: m.UserIP}
	}
	return json.Marshal(doc)
}

func (m *HTTPMeta) UnmarshalJSON(data []byte) error {
	var doc httpMetaDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	m.Level = doc.Level
	m.Request = doc.Request
	m.Response = doc.Response
	m.Response.Headers = lowercaseHeaders(doc.Response.Headers)
	if doc.User != nil {
		m.UserIP = doc.User.IpAddress
	}
	return nil
}

func (r *LogRecord) UnmarshalJSON(data []byte) error {
	type alias struct {
		User      string           `json:"user"`
		Domains   []string         `json:"domains"`
		Err       *NormalizedError `json:"err"`
		Message   string           `json:"message"`
		Meta      json.RawMessage  `json:"meta"`
		CreatedAt time.Time        `json:"created_at"`
	}
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	r.User = a.User
	r.Domains = a.Domains
	r.Err = a.Err
	r.Message = a.Message
	r.CreatedAt = a.CreatedAt
	if len(a.Meta) == 0 || string(a.Meta) == "null" {
		r.Meta = nil
		return nil
	}
	meta, err := unmarshalMetaPayload(a.Meta)
	if err != nil {
		return err
	}
	r.Meta = meta
	return nil
}

func unmarshalMetaPayload(data json.RawMessage) (MetaPayload, error) {
	var probe struct {
		IsHttp bool `json:"is_http"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to probe meta payload shape: %w", err)
	}
	if probe.IsHttp {
		var hm HTTPMeta
		if err := json.Unmarshal(data, &hm); err != nil {
			return nil, fmt.Errorf("failed to unmarshal http meta payload: %w", err)
		}
		return &hm, nil
	}
	var am AppMeta
	if err := json.Unmarshal(data, &am); err != nil {
		return nil, fmt.Errorf("failed to unmarshal app meta payload: %w", err)
	}
	return &am, nil
}
