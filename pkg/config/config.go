package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all the configuration for the service. The mapstructure tags
// tell Viper which YAML field maps to which struct field.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Admission     AdmissionConfig     `mapstructure:"admission"`
	Cache         CacheConfig         `mapstructure:"cache"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
}

type AdmissionConfig struct {
	MaxPayloadBytes     int      `mapstructure:"max_payload_bytes"`
	IgnoredContentTypes []string `mapstructure:"ignored_content_types"`
}

type CacheConfig struct {
	Enabled     bool  `mapstructure:"enabled"`
	NumCounters int64 `mapstructure:"num_counters"`
	MaxCost     int64 `mapstructure:"max_cost"`
	BufferItems int64 `mapstructure:"buffer_items"`
}

// Store wraps configuration with thread-safe access and hot-reload updates.
type Store struct {
	mu  sync.RWMutex
	cfg *Config
}

func (s *Store) Get() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cfg == nil {
		return nil
	}
	cpy := *s.cfg
	return &cpy
}

func (s *Store) set(cfg *Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8088")
	v.SetDefault("elasticsearch.addresses", []string{"http://localhost:9200"})
	v.SetDefault("admission.max_payload_bytes", 20480)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.num_counters", 100_000)
	v.SetDefault("cache.max_cost", 10_000)
	v.SetDefault("cache.buffer_items", 64)
}

func readConfig(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return v, nil
}

// LoadAndWatch loads the config from the given directory and watches for
// on-disk changes. A missing file leaves the defaults in place.
func LoadAndWatch(path string, logger *zap.Logger) (*Store, error) {
	v, err := readConfig(path)
	if err != nil {
		return nil, err
	}

	store := &Store{}
	if err := refresh(v, store); err != nil {
		return nil, err
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		if err := refresh(v, store); err != nil {
			logger.Error("Config reload failed", zap.Error(err))
		} else {
			logger.Info("Config reloaded", zap.String("file", e.Name))
		}
	})

	return store, nil
}

// Load loads once and does not watch.
func Load(path string, _ *zap.Logger) (*Config, error) {
	v, err := readConfig(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func refresh(v *viper.Viper, store *Store) error {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	store.set(&cfg)
	return nil
}
