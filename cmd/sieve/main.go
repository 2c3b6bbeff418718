package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Omagujr8/ai-moderator/moderation/store"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	cli "github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "sieve",
		Usage:   "moderation daemon (sifts the stream)",
		Version: versioninfo.Short(),
	}

	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:    "max-metadb-connections",
			EnvVars: []string{"MAX_METADB_CONNECTIONS"},
			Value:   40,
		},
	}

	app.Commands = []*cli.Command{
		runCmd,
	}

	return app.Run(args)
}

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "run the service",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "database-url",
			Value:   "sqlite://data/sieve/moderation.db",
			EnvVars: []string{"DATABASE_URL"},
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "redis connection URL for tallies and webhook caching; in-memory fallback when empty",
			EnvVars: []string{"SIEVE_REDIS_URL", "REDIS_URL"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics APIs",
			Value:   ":3989",
			EnvVars: []string{"SIEVE_METRICS_LISTEN"},
		},
		&cli.StringFlag{
			Name:    "toxicity-host",
			Usage:   "method, hostname, and port of the toxicity classification service",
			Value:   "http://localhost:8081",
			EnvVars: []string{"SIEVE_TOXICITY_HOST"},
		},
		&cli.IntFlag{
			Name:    "toxicity-rate-limit",
			Usage:   "max requests per second to the toxicity service",
			Value:   8,
			EnvVars: []string{"SIEVE_TOXICITY_RATE_LIMIT"},
		},
		&cli.StringFlag{
			Name:    "nsfw-host",
			Usage:   "method, hostname, and port of the NSFW image detection service; empty disables image and video checks",
			EnvVars: []string{"SIEVE_NSFW_HOST"},
		},
		&cli.StringFlag{
			Name:    "nsfw-token",
			Usage:   "bearer token for the NSFW image detection service",
			EnvVars: []string{"SIEVE_NSFW_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "frames-host",
			Usage:   "method, hostname, and port of the video frame extraction service; empty disables video checks",
			EnvVars: []string{"SIEVE_FRAMES_HOST"},
		},
		&cli.StringFlag{
			Name:    "primary-lang",
			Usage:   "ISO 639-3 code of the language the active/canary text models are tuned for",
			Value:   "eng",
			EnvVars: []string{"SIEVE_PRIMARY_LANG"},
		},
		&cli.IntFlag{
			Name:    "canary-percent",
			Usage:   "percentage of primary-language text traffic routed to the canary model, 0-100",
			Value:   10,
			EnvVars: []string{"SIEVE_CANARY_PERCENT"},
		},
		&cli.Float64Flag{
			Name:    "block-threshold",
			Usage:   "score at or above which a category blocks content",
			Value:   0.90,
			EnvVars: []string{"SIEVE_BLOCK_THRESHOLD"},
		},
		&cli.IntFlag{
			Name:    "frame-interval-sec",
			Usage:   "seconds between sampled video frames",
			Value:   2,
			EnvVars: []string{"SIEVE_FRAME_INTERVAL_SEC"},
		},
		&cli.DurationFlag{
			Name:    "provider-timeout",
			Usage:   "timeout for each individual classifier call",
			Value:   30 * time.Second,
			EnvVars: []string{"SIEVE_PROVIDER_TIMEOUT"},
		},
		&cli.IntFlag{
			Name:    "parallel",
			Usage:   "number of moderation jobs to process in parallel",
			Value:   4,
			EnvVars: []string{"SIEVE_PARALLEL"},
		},
		&cli.IntFlag{
			Name:    "max-retries",
			Usage:   "max retries for a failed moderation job",
			Value:   3,
			EnvVars: []string{"SIEVE_MAX_RETRIES"},
		},
		&cli.DurationFlag{
			Name:    "retry-backoff",
			Usage:   "backoff before the first retry; doubles on each subsequent retry",
			Value:   5 * time.Second,
			EnvVars: []string{"SIEVE_RETRY_BACKOFF"},
		},
	},
	Action: func(cctx *cli.Context) error {
		ctx := context.Background()
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
		slog.SetDefault(logger)

		// Enable OTLP HTTP exporter
		// For relevant environment variables:
		// https://pkg.go.dev/go.opentelemetry.io/otel/exporters/otlp/otlptrace#readme-environment-variables
		// At a minimum, you need to set
		// OTEL_EXPORTER_OTLP_ENDPOINT=http://localhost:4318
		if ep := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); ep != "" {
			slog.Info("setting up trace exporter", "endpoint", ep)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			exp, err := otlptracehttp.New(ctx)
			if err != nil {
				log.Fatal("failed to create trace exporter", "error", err)
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				if err := exp.Shutdown(ctx); err != nil {
					slog.Error("failed to shutdown trace exporter", "error", err)
				}
			}()

			tp := tracesdk.NewTracerProvider(
				tracesdk.WithBatcher(exp),
				tracesdk.WithResource(resource.NewWithAttributes(
					semconv.SchemaURL,
					semconv.ServiceNameKey.String("sieve"),
					attribute.String("env", os.Getenv("ENVIRONMENT")),         // DataDog
					attribute.String("environment", os.Getenv("ENVIRONMENT")), // Others
					attribute.Int64("ID", 1),
				)),
			)
			otel.SetTracerProvider(tp)
		}

		db, err := store.SetupDatabase(cctx.String("database-url"), cctx.Int("max-metadb-connections"))
		if err != nil {
			return err
		}

		srv, err := NewServer(
			db,
			Config{
				Logger:            logger,
				RedisURL:          cctx.String("redis-url"),
				ToxicityHost:      cctx.String("toxicity-host"),
				ToxicityRateLimit: cctx.Int("toxicity-rate-limit"),
				NSFWHost:          cctx.String("nsfw-host"),
				NSFWToken:         cctx.String("nsfw-token"),
				FramesHost:        cctx.String("frames-host"),
				PrimaryLanguage:   cctx.String("primary-lang"),
				CanaryPercent:     cctx.Int("canary-percent"),
				BlockThreshold:    cctx.Float64("block-threshold"),
				FrameInterval:     time.Duration(cctx.Int("frame-interval-sec")) * time.Second,
				ProviderTimeout:   cctx.Duration("provider-timeout"),
				Parallel:          cctx.Int("parallel"),
				MaxRetries:        cctx.Int("max-retries"),
				RetryBackoff:      cctx.Duration("retry-backoff"),
			},
		)
		if err != nil {
			return err
		}

		go func() {
			if err := srv.RunMetrics(cctx.String("metrics-listen")); err != nil {
				slog.Error("failed to start metrics endpoint", "error", err)
				panic(fmt.Errorf("failed to start metrics endpoint: %w", err))
			}
		}()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("failed to run moderation service: %w", err)
		}
		return nil
	},
}
