package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	generaterun "github.com/rzbill/nexmark/internal/cmd/generate"
	cfgpkg "github.com/rzbill/nexmark/internal/config"
	logpkg "github.com/rzbill/nexmark/pkg/log"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Nexmark events",
		Example: "  nexmark generate -n 100 --no-wait\n" +
			"  nexmark generate -t bid --format binary --out bids.bin\n" +
			"  nexmark generate --filter 'kind == \"bid\" && bid.price > 1000.0'",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := cfgpkg.Load(configPath)
			if err != nil {
				return err
			}
			cfgpkg.FromEnv(&cfg)
			if err := applyFlags(&cfg, cmd.Flags()); err != nil {
				return err
			}

			logger, err := logpkg.ApplyConfig(&cfg.Log)
			if err != nil {
				lvl := logpkg.InfoLevel
				if l, e := logpkg.ParseLevel(cfg.Log.Level); e == nil {
					lvl = l
				}
				logger = logpkg.NewLogger(logpkg.WithLevel(lvl), logpkg.WithFormatter(&logpkg.TextFormatter{}))
				logger.Warn("invalid log config, using defaults", logpkg.Err(err))
			}
			// Pebble logs through the standard library logger.
			logpkg.RedirectStdLog(logger)

			typ, _ := cmd.Flags().GetString("type")
			number, _ := cmd.Flags().GetInt64("number")
			offset, _ := cmd.Flags().GetUint64("offset")
			step, _ := cmd.Flags().GetUint64("step")
			noWait, _ := cmd.Flags().GetBool("no-wait")
			expr, _ := cmd.Flags().GetString("filter")

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			_, err = generaterun.Run(ctx, generaterun.Options{
				Config: cfg,
				Type:   typ,
				Number: number,
				Offset: offset,
				Step:   step,
				NoWait: noWait,
				Filter: expr,
			}, logger)
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return nil
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringP("type", "t", "all", "Event type: all|person|auction|bid")
	f.Int64P("number", "n", -1, "Number of events to generate (negative means forever)")
	f.Uint64("offset", 0, "Start event offset")
	f.Uint64("step", 1, "Event number increment per iteration")
	f.String("format", "json", "Output format: json|csv|debug|binary")
	f.Bool("no-wait", false, "Emit events immediately instead of pacing to their timestamps")
	f.String("sink", "", "Sink: file|stdout|kafka|s3|pebble (default file for binary, stdout otherwise)")
	f.String("out", "bid.bin", "File sink path")
	f.Int("buffer-size", 8192, "Binary frame buffer capacity in bytes")
	f.String("fsync", "never", "File and pebble sink durability: always|never")
	f.String("filter", "", "CEL expression over kind, timestamp, person, auction, bid")
	f.String("config", os.Getenv("NEXMARK_CONFIG"), "Config file (JSON or YAML)")
	f.Uint64("rate", 10_000, "Events per second of logical time")
	f.String("kafka-brokers", "", "Comma-separated Kafka bootstrap brokers")
	f.String("kafka-topic", "nexmark-bids", "Kafka topic")
	f.String("s3-bucket", "", "S3 bucket")
	f.String("s3-prefix", "nexmark/", "S3 key prefix")
	f.String("s3-region", "us-east-1", "S3 region")
	f.String("s3-endpoint", "", "S3 endpoint override (MinIO, LocalStack)")
	f.String("pebble-dir", "", "Pebble sink directory (default <data dir>/frames)")
	f.String("metrics-addr", "", "Serve Prometheus metrics on this address")
	f.String("log-level", "info", "Log level: debug|info|warn|error")
	f.String("log-format", "text", "Log format: text|json")
	return cmd
}

// applyFlags overlays explicitly set flags onto cfg; unset flags leave the
// file and environment values in place.
func applyFlags(cfg *cfgpkg.Config, fs *pflag.FlagSet) error {
	var errs []error
	str := func(name string, dst *string) {
		if fs.Changed(name) {
			v, err := fs.GetString(name)
			errs = append(errs, err)
			*dst = v
		}
	}
	str("format", &cfg.Output.Format)
	str("sink", &cfg.Output.Sink)
	str("out", &cfg.Output.Path)
	str("fsync", &cfg.Output.Fsync)
	str("kafka-topic", &cfg.Kafka.Topic)
	str("s3-bucket", &cfg.S3.Bucket)
	str("s3-prefix", &cfg.S3.Prefix)
	str("s3-region", &cfg.S3.Region)
	str("s3-endpoint", &cfg.S3.Endpoint)
	str("pebble-dir", &cfg.Pebble.Dir)
	str("metrics-addr", &cfg.Metrics.Addr)
	str("log-level", &cfg.Log.Level)
	str("log-format", &cfg.Log.Format)

	if fs.Changed("kafka-brokers") {
		v, err := fs.GetString("kafka-brokers")
		errs = append(errs, err)
		cfg.Kafka.Brokers = nil
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.Kafka.Brokers = append(cfg.Kafka.Brokers, b)
			}
		}
	}
	if fs.Changed("buffer-size") {
		v, err := fs.GetInt("buffer-size")
		errs = append(errs, err)
		cfg.Output.BufferSize = v
	}
	if fs.Changed("rate") {
		v, err := fs.GetUint64("rate")
		errs = append(errs, err)
		if v == 0 {
			errs = append(errs, fmt.Errorf("--rate must be positive"))
		}
		cfg.Generator.FirstEventRate = v
	}
	return errors.Join(errs...)
}
