package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

const (
	defaultCDLBaseURL = "https://nassgeodata.gmu.edu/axis2/services/CDLService/GetCDLValue"

	// minCDLYear is the first year with national CDL coverage.
	minCDLYear = 2008
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// CropScape upstream configuration.
	CDLBaseURL   string
	CDLTimeout   time.Duration
	CDLRateLimit float64 // requests per second
	CDLCacheSize int
	CDLStartYear int
	CDLEndYear   int

	// Kafka batch mode configuration.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSourceTopic   string
	KafkaSinkTopic     string
	KafkaGroupID       string
	BatchSize          int
	BatchFlushInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	cdlTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("CDL_TIMEOUT", "10s"))
	if err != nil || cdlTimeout <= 0 {
		return nil, errors.New("invalid CDL_TIMEOUT")
	}

	rateLimit, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("CDL_RATE_LIMIT", "2"), 64)
	if err != nil || rateLimit <= 0 {
		return nil, errors.New("invalid CDL_RATE_LIMIT: must be a positive number")
	}

	startYear, err := parseYear("CDL_START_YEAR", minCDLYear)
	if err != nil {
		return nil, err
	}
	endYear, err := parseYear("CDL_END_YEAR", 2023)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CDLBaseURL:   sharedcfg.EnvOrDefault("CDL_BASE_URL", defaultCDLBaseURL),
		CDLTimeout:   cdlTimeout,
		CDLRateLimit: rateLimit,
		CDLCacheSize: parseCacheSize(),
		CDLStartYear: startYear,
		CDLEndYear:   endYear,

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "cdl-history-requests"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "cdl-history-reports"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "cdl-history"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}

	if cfg.CDLStartYear < minCDLYear {
		return nil, fmt.Errorf("CDL_START_YEAR must be %d or later", minCDLYear)
	}
	if cfg.CDLStartYear > cfg.CDLEndYear {
		return nil, errors.New("CDL_START_YEAR must not be after CDL_END_YEAR")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	}

	return cfg, nil
}

func parseYear(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseCacheSize() int {
	if s := os.Getenv("CDL_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 5000
}
