package service

import (
	"net/http"
	"strings"

	"github.com/veldtmail/loggate/pkg/logrecord/model"
)

// DefaultIgnoredContentTypes suppresses static-asset and manifest responses.
// Keep this list in sync with the access-log emitter in the web layer, which
// applies the same suppression before records ever reach admission.
var DefaultIgnoredContentTypes = []string{
	"image",
	"font",
	"text/css",
	"text/javascript",
	"application/javascript",
	"application/font",
	"application/manifest+json",
	"text/cache-manifest",
}

// ContentClassifier decides whether an HTTP record is noise that should never
// be persisted, regardless of uniqueness.
type ContentClassifier struct {
	ignoredContentTypes []string
}

func NewContentClassifier(ignoredContentTypes []string) *ContentClassifier {
	if ignoredContentTypes == nil {
		ignoredContentTypes = DefaultIgnoredContentTypes
	}
	return &ContentClassifier{ignoredContentTypes: ignoredContentTypes}
}

func (cc *ContentClassifier) IsNoise(meta *model.HTTPMeta) bool {
	contentType := meta.Response.Header("content-type")

	// Cacheable 304s carry nothing new worth logging.
	if meta.Response.StatusCode == http.StatusNotModified && contentType == "" {
		return true
	}

	if contentType != "" {
		for _, prefix := range cc.ignoredContentTypes {
			if strings.HasPrefix(contentType, prefix) {
				return true
			}
		}
	}

	// Source maps masquerade as JSON.
	if strings.HasPrefix(contentType, "application/json") {
		url := meta.Request.Url
		if strings.HasSuffix(url, ".css.map") || strings.HasSuffix(url, ".js.map") {
			return true
		}
	}

	return false
}
