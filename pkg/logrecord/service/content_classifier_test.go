package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veldtmail/loggate/pkg/logrecord/model"
)

func TestContentClassifier(t *testing.T) {
	classifier := NewContentClassifier(nil)

	t.Run("Suppresses 304 without content type", func(t *testing.T) {
		meta := &model.HTTPMeta{
			Response: model.ResponseInfo{StatusCode: 304},
		}
		assert.True(t, classifier.IsNoise(meta))
	})

	t.Run("Keeps 304 with a content type", func(t *testing.T) {
		meta := &model.HTTPMeta{
			Response: model.ResponseInfo{
				StatusCode: 304,
				Headers:    map[string]string{"content-type": "text/html"},
			},
		}
		assert.False(t, classifier.IsNoise(meta))
	})

	t.Run("Suppresses ignored content type prefixes", func(t *testing.T) {
		for _, contentType := range []string{"image/png", "text/css; charset=utf-8", "application/javascript"} {
			meta := &model.HTTPMeta{
				Response: model.ResponseInfo{
					StatusCode: 200,
					Headers:    map[string]string{"content-type": contentType},
				},
			}
			assert.True(t, classifier.IsNoise(meta), contentType)
		}
	})

	t.Run("Suppresses source maps masquerading as json", func(t *testing.T) {
		meta := &model.HTTPMeta{
			Request: model.RequestInfo{Url: "/static/app.js.map"},
			Response: model.ResponseInfo{
				StatusCode: 200,
				Headers:    map[string]string{"content-type": "application/json"},
			},
		}
		assert.True(t, classifier.IsNoise(meta))
	})

	t.Run("Keeps ordinary json responses", func(t *testing.T) {
		meta := &model.HTTPMeta{
			Request: model.RequestInfo{Url: "/api/v1/messages"},
			Response: model.ResponseInfo{
				StatusCode: 200,
				Headers:    map[string]string{"content-type": "application/json"},
			},
		}
		assert.False(t, classifier.IsNoise(meta))
	})

	t.Run("Honors a custom prefix set", func(t *testing.T) {
		custom := NewContentClassifier([]string{"text/plain"})
		meta := &model.HTTPMeta{
			Response: model.ResponseInfo{
				StatusCode: 200,
				Headers:    map[string]string{"content-type": "image/png"},
			},
		}
		assert.False(t, custom.IsNoise(meta))
	})
}
