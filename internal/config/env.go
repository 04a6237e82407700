package config

import (
	"os"
	"strconv"
)

// FromEnv overlays NEXMARK_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("NEXMARK_FORMAT"); v != "" {
		cfg.Output.Format = v
	}
	if v := os.Getenv("NEXMARK_SINK"); v != "" {
		cfg.Output.Sink = v
	}
	if v := os.Getenv("NEXMARK_OUT"); v != "" {
		cfg.Output.Path = v
	}
	if v := os.Getenv("NEXMARK_BUFFER_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Output.BufferSize = n
		}
	}
	if v := os.Getenv("NEXMARK_FSYNC"); v != "" {
		cfg.Output.Fsync = v
	}
	if v := os.Getenv("NEXMARK_EVENT_RATE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Generator.FirstEventRate = n
		}
	}
	if v := os.Getenv("NEXMARK_BASE_TIME"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Generator.BaseTime = n
		}
	}
	if v := os.Getenv("NEXMARK_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("NEXMARK_KAFKA_TOPIC"); v != "" {
		cfg.Kafka.Topic = v
	}
	if v := os.Getenv("NEXMARK_S3_BUCKET"); v != "" {
		cfg.S3.Bucket = v
	}
	if v := os.Getenv("NEXMARK_S3_REGION"); v != "" {
		cfg.S3.Region = v
	}
	if v := os.Getenv("NEXMARK_S3_ENDPOINT"); v != "" {
		cfg.S3.Endpoint = v
	}
	if v := os.Getenv("NEXMARK_S3_PREFIX"); v != "" {
		cfg.S3.Prefix = v
	}
	if v := os.Getenv("NEXMARK_PEBBLE_DIR"); v != "" {
		cfg.Pebble.Dir = v
	}
	if v := os.Getenv("NEXMARK_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("NEXMARK_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("NEXMARK_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}
