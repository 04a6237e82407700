package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rzbill/nexmark/internal/generator"
	logpkg "github.com/rzbill/nexmark/pkg/log"
)

var (
	ErrInvalidFormat = errors.New("config: invalid output format")
	ErrInvalidSink   = errors.New("config: invalid sink")
	ErrInvalidFsync  = errors.New("config: invalid fsync mode")
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	Generator generator.Config `json:"generator" yaml:"generator"`
	Output    Output           `json:"output" yaml:"output"`
	Kafka     Kafka            `json:"kafka" yaml:"kafka"`
	S3        S3               `json:"s3" yaml:"s3"`
	Pebble    Pebble           `json:"pebble" yaml:"pebble"`
	Metrics   Metrics          `json:"metrics" yaml:"metrics"`
	Log       logpkg.Config    `json:"log" yaml:"log"`
}

// Output selects the encoder and sink.
type Output struct {
	// Format is json|csv|debug|binary.
	Format string `json:"format" yaml:"format"`
	// Sink is file|stdout|kafka|s3|pebble. Empty picks file for binary and
	// stdout otherwise.
	Sink string `json:"sink" yaml:"sink"`
	// Path is the file sink destination.
	Path string `json:"path" yaml:"path"`
	// BufferSize is the binary frame buffer capacity in bytes.
	BufferSize int `json:"bufferSize" yaml:"bufferSize"`
	// Fsync is always|never for the file sink.
	Fsync string `json:"fsync" yaml:"fsync"`
}

// Kafka configures the kafka sink.
type Kafka struct {
	Brokers []string `json:"brokers" yaml:"brokers"`
	Topic   string   `json:"topic" yaml:"topic"`
}

// S3 configures the s3 sink.
type S3 struct {
	Bucket   string `json:"bucket" yaml:"bucket"`
	Region   string `json:"region" yaml:"region"`
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	Prefix   string `json:"prefix" yaml:"prefix"`
}

// Pebble configures the pebble sink.
type Pebble struct {
	// Dir defaults to DefaultDataDir()/frames.
	Dir string `json:"dir" yaml:"dir"`
}

// Metrics configures the optional Prometheus endpoint.
type Metrics struct {
	Addr string `json:"addr" yaml:"addr"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		Generator: generator.DefaultConfig(),
		Output: Output{
			Format:     "json",
			Path:       "bid.bin",
			BufferSize: 8192,
			Fsync:      "never",
		},
		Kafka: Kafka{Topic: "nexmark-bids"},
		S3:    S3{Region: "us-east-1", Prefix: "nexmark/"},
		Log:   logpkg.Config{Level: "info", Format: "text"},
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

// ResolvedSink returns the sink to use for the configured format.
func (c Config) ResolvedSink() string {
	if c.Output.Sink != "" {
		return c.Output.Sink
	}
	if c.Output.Format == "binary" {
		return "file"
	}
	return "stdout"
}

// Validate checks enumerations and required per-sink settings.
func (c Config) Validate() error {
	switch c.Output.Format {
	case "json", "csv", "debug", "rust", "binary":
	default:
		return fmt.Errorf("%w: %q (use json|csv|debug|binary)", ErrInvalidFormat, c.Output.Format)
	}
	switch c.Output.Fsync {
	case "", "always", "never":
	default:
		return fmt.Errorf("%w: %q (use always|never)", ErrInvalidFsync, c.Output.Fsync)
	}
	switch sink := c.ResolvedSink(); sink {
	case "stdout":
	case "file":
		if c.Output.Path == "" {
			return fmt.Errorf("%w: file sink requires a path", ErrInvalidSink)
		}
	case "kafka":
		if len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "" {
			return fmt.Errorf("%w: kafka sink requires brokers and topic", ErrInvalidSink)
		}
	case "s3":
		if c.S3.Bucket == "" {
			return fmt.Errorf("%w: s3 sink requires a bucket", ErrInvalidSink)
		}
	case "pebble":
	default:
		return fmt.Errorf("%w: %q (use file|stdout|kafka|s3|pebble)", ErrInvalidSink, sink)
	}
	if c.Output.Format == "binary" && c.Output.BufferSize <= 0 {
		return fmt.Errorf("config: buffer size must be positive, got %d", c.Output.BufferSize)
	}
	return nil
}

// PebbleDir returns the configured pebble directory or the default one.
func (c Config) PebbleDir() string {
	if c.Pebble.Dir != "" {
		return c.Pebble.Dir
	}
	return filepath.Join(DefaultDataDir(), "frames")
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
