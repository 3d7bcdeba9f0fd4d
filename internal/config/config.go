package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/windrose-etl/internal/domain"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Archive locations, one directory per network.
	BOMDataDir  string
	DESDataDir  string
	OEHDataDir  string
	EPAVDataDir string

	// CacheDir holds the normalized-table cache; empty disables it.
	CacheDir string

	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	PushgatewayURL string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	mapboxTimeoutStr := sharedcfg.EnvOrDefault("MAPBOX_TIMEOUT", "5s")
	mapboxTimeout, err := time.ParseDuration(mapboxTimeoutStr)
	if err != nil || mapboxTimeout <= 0 {
		return nil, errors.New("invalid MAPBOX_TIMEOUT")
	}

	mapboxCacheSize, err := parseMapboxCacheSize()
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		BOMDataDir:  sharedcfg.EnvOrDefault("BOM_DATA_DIR", "data/bom"),
		DESDataDir:  sharedcfg.EnvOrDefault("DES_DATA_DIR", "data/des"),
		OEHDataDir:  sharedcfg.EnvOrDefault("OEH_DATA_DIR", "data/oeh"),
		EPAVDataDir: sharedcfg.EnvOrDefault("EPAV_DATA_DIR", "data/epav"),
		CacheDir:    os.Getenv("CACHE_DIR"),

		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "rendered-wind-roses"),
		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: mapboxCacheSize,

		PushgatewayURL: os.Getenv("PUSHGATEWAY_URL"),
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

// DataDirs maps each network onto its archive directory.
func (c *Config) DataDirs() map[domain.Network]string {
	return map[domain.Network]string{
		domain.NetworkBOM:  c.BOMDataDir,
		domain.NetworkDES:  c.DESDataDir,
		domain.NetworkOEH:  c.OEHDataDir,
		domain.NetworkEPAV: c.EPAVDataDir,
	}
}

func parseMapboxCacheSize() (int, error) {
	s := os.Getenv("MAPBOX_CACHE_SIZE")
	if s == "" {
		return 1000, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid MAPBOX_CACHE_SIZE %q: must be a positive integer", s)
	}
	return n, nil
}
