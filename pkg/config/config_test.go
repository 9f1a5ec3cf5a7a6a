package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLoad(t *testing.T) {
	t.Run("Missing file falls back to defaults", func(t *testing.T) {
		cfg, err := Load(t.TempDir(), zap.NewNop())
		assert.NoError(t, err)
		assert.Equal(t, "8088", cfg.Server.Port)
		assert.Equal(t, []string{"http://localhost:9200"}, cfg.Elasticsearch.Addresses)
		assert.Equal(t, 20480, cfg.Admission.MaxPayloadBytes)
		assert.True(t, cfg.Cache.Enabled)
	})

	t.Run("File values override defaults", func(t *testing.T) {
		dir := t.TempDir()
		raw := []byte(`
server:
  port: "9099"
elasticsearch:
  addresses:
    - http://es-1:9200
    - http://es-2:9200
admission:
  max_payload_bytes: 10240
  ignored_content_types:
    - image
    - text/css
cache:
  enabled: false
`)
		err := os.WriteFile(filepath.Join(dir, "config.yaml"), raw, 0o644)
		assert.NoError(t, err)

		cfg, err := Load(dir, zap.NewNop())
		assert.NoError(t, err)
		assert.Equal(t, "9099", cfg.Server.Port)
		assert.Equal(t, []string{"http://es-1:9200", "http://es-2:9200"}, cfg.Elasticsearch.Addresses)
		assert.Equal(t, 10240, cfg.Admission.MaxPayloadBytes)
		assert.Equal(t, []string{"image", "text/css"}, cfg.Admission.IgnoredContentTypes)
		assert.False(t, cfg.Cache.Enabled)
	})
}

func TestLoadAndWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	err := os.WriteFile(path, []byte("admission:\n  max_payload_bytes: 10240\n"), 0o644)
	assert.NoError(t, err)

	store, err := LoadAndWatch(dir, zap.NewNop())
	assert.NoError(t, err)
	assert.Equal(t, 10240, store.Get().Admission.MaxPayloadBytes)

	err = os.WriteFile(path, []byte("admission:\n  max_payload_bytes: 4096\n"), 0o644)
	assert.NoError(t, err)

	assert.Eventually(t, func() bool {
		return store.Get().Admission.MaxPayloadBytes == 4096
	}, 5*time.Second, 20*time.Millisecond)
}
