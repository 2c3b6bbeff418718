package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Omagujr8/ai-moderator/moderation"
	"github.com/Omagujr8/ai-moderator/moderation/cachestore"
	"github.com/Omagujr8/ai-moderator/moderation/countstore"
	"github.com/Omagujr8/ai-moderator/moderation/store"
	"github.com/Omagujr8/ai-moderator/moderation/toxicity"
	"github.com/Omagujr8/ai-moderator/moderation/visual"
	"github.com/Omagujr8/ai-moderator/tasks"
	"github.com/Omagujr8/ai-moderator/util"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	logger *slog.Logger
	engine *moderation.Engine
	runner *tasks.Runner
	jobs   *tasks.Gormstore
	rdb    *redis.Client
}

type Config struct {
	Logger            *slog.Logger
	RedisURL          string
	ToxicityHost      string
	ToxicityRateLimit int
	NSFWHost          string
	NSFWToken         string
	FramesHost        string
	PrimaryLanguage   string
	CanaryPercent     int
	BlockThreshold    float64
	FrameInterval     time.Duration
	ProviderTimeout   time.Duration
	Parallel          int
	MaxRetries        int
	RetryBackoff      time.Duration
}

func NewServer(db *gorm.DB, config Config) (*Server, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	st, err := store.NewGormStore(db)
	if err != nil {
		return nil, fmt.Errorf("initializing content store: %v", err)
	}

	var tallies countstore.CountStore
	var cache cachestore.CacheStore
	var rdb *redis.Client
	if config.RedisURL != "" {
		opt, err := redis.ParseURL(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis URL: %v", err)
		}
		rdb = redis.NewClient(opt)
		// check redis connection
		_, err = rdb.Ping(context.TODO()).Result()
		if err != nil {
			return nil, fmt.Errorf("redis ping failed: %v", err)
		}

		cnt, err := countstore.NewRedisCountStore(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("initializing redis countstore: %v", err)
		}
		tallies = cnt

		csh, err := cachestore.NewRedisCacheStore(config.RedisURL, 30*time.Minute)
		if err != nil {
			return nil, fmt.Errorf("initializing redis cachestore: %v", err)
		}
		cache = csh
	} else {
		tallies = countstore.NewMemCountStore()
		cache = cachestore.NewMemCacheStore(5_000, 30*time.Minute)
	}

	engine := moderation.Engine{
		Logger:  logger,
		Store:   st,
		Tallies: tallies,
		Notifier: &moderation.WebhookNotifier{
			Store:  st,
			Cache:  cache,
			Client: util.RobustHTTPClient(),
		},
		Config: moderation.EngineConfig{
			PrimaryLanguage: config.PrimaryLanguage,
			CanaryPercent:   config.CanaryPercent,
			BlockThreshold:  config.BlockThreshold,
			ProviderTimeout: config.ProviderTimeout,
		},
	}

	if config.ToxicityHost != "" {
		logger.Info("configuring toxicity text classification", "host", config.ToxicityHost)
		engine.TextActive = toxicity.NewClient(config.ToxicityHost, toxicity.ModelActive, config.ToxicityRateLimit)
		engine.TextCanary = toxicity.NewClient(config.ToxicityHost, toxicity.ModelCanary, config.ToxicityRateLimit)
		engine.TextMultilingual = toxicity.NewClient(config.ToxicityHost, toxicity.ModelMultilingual, config.ToxicityRateLimit)
	}

	if config.NSFWHost != "" {
		logger.Info("configuring NSFW image scanning", "host", config.NSFWHost)
		nc := visual.NewNSFWClient(config.NSFWHost, config.NSFWToken)
		engine.Images = nc

		if config.FramesHost != "" {
			logger.Info("configuring video frame moderation", "host", config.FramesHost)
			engine.Video = &moderation.VideoModerator{
				Frames:   visual.NewFrameServiceClient(config.FramesHost),
				Images:   nc,
				Interval: config.FrameInterval,
			}
		}
	}

	if config.MaxRetries > 0 {
		tasks.MaxRetries = config.MaxRetries
	}
	if config.RetryBackoff > 0 {
		tasks.RetryBackoffBase = config.RetryBackoff
	}

	jobs, err := tasks.NewGormstore(db)
	if err != nil {
		return nil, fmt.Errorf("initializing job store: %v", err)
	}

	runner := tasks.NewRunner("sieve", jobs, engine.ProcessContent, &tasks.RunnerOptions{
		Parallel:     config.Parallel,
		PollInterval: time.Second,
	})

	s := &Server{
		logger: logger,
		engine: &engine,
		runner: runner,
		jobs:   jobs,
		rdb:    rdb,
	}

	return s, nil
}

func (s *Server) RunMetrics(listen string) error {
	http.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(listen, nil)
}

// Run starts the task runner and blocks until SIGINT or SIGTERM, then drains
// in-flight jobs before returning.
func (s *Server) Run(ctx context.Context) error {
	if err := s.jobs.LoadJobs(ctx); err != nil {
		return fmt.Errorf("loading persisted jobs: %v", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go s.runner.Start()

	<-ctx.Done()
	s.logger.Info("shutdown signal received, draining jobs")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.runner.Stop(shutdownCtx)
}
