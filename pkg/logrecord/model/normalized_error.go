package model

import (
	"errors"
	"fmt"

	pkgErrors "github.com/pkg/errors"
)

// NormalizedError is the plain, serializable representation of an error
// value. Persisted records never hold the original error.
type NormalizedError struct {
	Message string                 `json:"message"`
	Stack   string                 `json:"stack,omitempty"`
	Code    string                 `json:"code,omitempty"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

// NormalizeError converts an error value into its structured representation,
// pulling out the stack trace and any custom attached fields when the error
// chain exposes them. Nil stays nil.
func NormalizeError(err error) *NormalizedError {
	if err == nil {
		return nil
	}
	normalized := &NormalizedError{Message: err.Error()}

	var tracer interface{ StackTrace() pkgErrors.StackTrace }
	if errors.As(err, &tracer) {
		normalized.Stack = fmt.Sprintf("%+v", tracer.StackTrace())
	}
	var coder interface{ Code() string }
	if errors.As(err, &coder) {
		normalized.Code = coder.Code()
	}
	var fielder interface{ Fields() map[string]interface{} }
	if errors.As(err, &fielder) {
		normalized.Fields = fielder.Fields()
	}
	return normalized
}

// NormalizeRecordErrors replaces the raw error values carried by the record
// with their structured representations. Must run before size or duplicate
// computation since both serialize the record.
func NormalizeRecordErrors(record *LogRecord) {
	if record.RawErr != nil && record.Err == nil {
		record.Err = NormalizeError(record.RawErr)
	}
	record.RawErr = nil
	if appMeta, ok := record.Meta.(*AppMeta); ok {
		if appMeta.RawErr != nil && appMeta.Err == nil {
			appMeta.Err = NormalizeError(appMeta.RawErr)
		}
		appMeta.RawErr = nil
	}
}
