package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, "json", cfg.Output.Format)
	require.Equal(t, 8192, cfg.Output.BufferSize)
	require.Equal(t, "bid.bin", cfg.Output.Path)
	require.Equal(t, uint64(10_000), cfg.Generator.FirstEventRate)
	require.Equal(t, "stdout", cfg.ResolvedSink())
	require.NoError(t, cfg.Validate())
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "nexmark.json")
	data := []byte(`{"output":{"format":"binary","bufferSize":4096},"generator":{"firstEventRate":500}}`)
	require.NoError(t, os.WriteFile(file, data, 0o644))

	cfg, err := Load(file)
	require.NoError(t, err)
	require.Equal(t, "binary", cfg.Output.Format)
	require.Equal(t, 4096, cfg.Output.BufferSize)
	require.Equal(t, uint64(500), cfg.Generator.FirstEventRate)
	// untouched fields keep defaults
	require.Equal(t, "bid.bin", cfg.Output.Path)
	require.Equal(t, uint64(46), cfg.Generator.BidProportion)
	require.Equal(t, "file", cfg.ResolvedSink())
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "nexmark.yaml")
	data := []byte(`
output:
  format: binary
  sink: kafka
kafka:
  brokers: [localhost:9092, localhost:9093]
  topic: bids
log:
  level: debug
`)
	require.NoError(t, os.WriteFile(file, data, 0o644))

	cfg, err := Load(file)
	require.NoError(t, err)
	require.Equal(t, []string{"localhost:9092", "localhost:9093"}, cfg.Kafka.Brokers)
	require.Equal(t, "bids", cfg.Kafka.Topic)
	require.Equal(t, "debug", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	t.Setenv("NEXMARK_FORMAT", "csv")
	t.Setenv("NEXMARK_BUFFER_SIZE", "1024")
	t.Setenv("NEXMARK_KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("NEXMARK_EVENT_RATE", "250")
	t.Setenv("NEXMARK_LOG_FORMAT", "json")
	FromEnv(&cfg)

	require.Equal(t, "csv", cfg.Output.Format)
	require.Equal(t, 1024, cfg.Output.BufferSize)
	require.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, uint64(250), cfg.Generator.FirstEventRate)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, ErrInvalidFormat},
		{"bad sink", func(c *Config) { c.Output.Sink = "ftp" }, ErrInvalidSink},
		{"bad fsync", func(c *Config) { c.Output.Fsync = "sometimes" }, ErrInvalidFsync},
		{"kafka without brokers", func(c *Config) { c.Output.Sink = "kafka" }, ErrInvalidSink},
		{"s3 without bucket", func(c *Config) { c.Output.Sink = "s3" }, ErrInvalidSink},
		{"file without path", func(c *Config) { c.Output.Sink = "file"; c.Output.Path = "" }, ErrInvalidSink},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}

	cfg := Default()
	cfg.Output.Format = "binary"
	cfg.Output.BufferSize = 0
	require.Error(t, cfg.Validate())
}

func TestPebbleDir(t *testing.T) {
	t.Setenv("NEXMARK_DATA_DIR", "/srv/nexmark")
	cfg := Default()
	require.Equal(t, filepath.Join("/srv/nexmark", "frames"), cfg.PebbleDir())
	cfg.Pebble.Dir = "/tmp/p"
	require.Equal(t, "/tmp/p", cfg.PebbleDir())
}
