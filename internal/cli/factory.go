package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/interviewer"
	"github.com/aretw0/interviewer/internal/config"
	"github.com/aretw0/interviewer/internal/logging"
	"github.com/aretw0/interviewer/pkg/adapters/file"
	"github.com/aretw0/interviewer/pkg/adapters/gemini"
	"github.com/aretw0/interviewer/pkg/adapters/memory"
	"github.com/aretw0/interviewer/pkg/adapters/postgres"
	"github.com/aretw0/interviewer/pkg/adapters/redis"
	"github.com/aretw0/interviewer/pkg/adapters/s3"
	"github.com/aretw0/interviewer/pkg/adapters/sqlite"
	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/pkg/generation"
	"github.com/aretw0/interviewer/pkg/persistence"
	"github.com/aretw0/interviewer/pkg/ports"
)

// NewLogger builds the application logger. Debug forces the debug level.
func NewLogger(cfg *config.Config, debug bool) *slog.Logger {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil || debug {
		level = slog.LevelDebug
	}
	return logging.New(level, cfg.Log.Format)
}

// NewGenerator connects the configured provider and applies the logging,
// retry and timeout middlewares.
func NewGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.Generator, error) {
	if cfg.LLM.Provider != config.ProviderGemini {
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLM.Provider)
	}
	client, err := gemini.New(ctx, gemini.Config{
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		BaseURL: cfg.LLM.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	return Decorate(client, cfg, logger), nil
}

// Decorate wraps gen with the configured middlewares.
// Each retry attempt gets its own timeout.
func Decorate(gen ports.Generator, cfg *config.Config, logger *slog.Logger) ports.Generator {
	return generation.Wrap(gen,
		generation.WithLogging(logger),
		generation.WithRetry(cfg.LLM.Retry.MaxAttempts, cfg.LLM.Retry.BaseDelay),
		generation.WithTimeout(cfg.LLM.Timeout),
	)
}

// OpenSink creates the configured log store, masking the configured
// redaction patterns. The returned closer releases connections and is never nil.
func OpenSink(ctx context.Context, cfg *config.Config) (ports.LogStore, func() error, error) {
	redact, err := persistence.NewRedaction(cfg.Sink.Redact)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	store, closer, err := openStore(ctx, cfg)
	if err != nil {
		return nil, closer, err
	}
	return persistence.Wrap(store, redact), closer, nil
}

func openStore(ctx context.Context, cfg *config.Config) (ports.LogStore, func() error, error) {
	noop := func() error { return nil }
	sc := cfg.Sink
	switch sc.Kind {
	case config.SinkFile:
		store, err := file.New(sc.File.Dir)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case config.SinkMemory:
		return memory.NewStore(), noop, nil
	case config.SinkRedis:
		opts := []redis.Option{redis.WithPrefix(sc.Redis.Prefix)}
		if sc.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(sc.Redis.TTL))
		}
		store := redis.New(sc.Redis.Addr, sc.Redis.Password, sc.Redis.DB, opts...)
		return store, store.Close, nil
	case config.SinkS3:
		store, err := s3.New(s3.Config{
			Endpoint:  sc.S3.Endpoint,
			Region:    sc.S3.Region,
			AccessKey: sc.S3.AccessKey,
			SecretKey: sc.S3.SecretKey,
			Bucket:    sc.S3.Bucket,
			Prefix:    sc.S3.Prefix,
			UseSSL:    sc.S3.UseSSL,
		})
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case config.SinkPostgres:
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		store, err := postgres.Open(ctx, sc.Postgres.DSN)
		if err != nil {
			return nil, noop, err
		}
		if sc.Postgres.Table != "" {
			store = store.WithTable(sc.Postgres.Table)
		}
		return store, store.Close, nil
	case config.SinkSQLite:
		store, err := sqlite.Open(ctx, sc.SQLite.Path)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown sink kind %q", sc.Kind)
}

// Profile extracts the interview profile from cfg.
func Profile(cfg *config.Config) interviewer.Profile {
	return interviewer.Profile{
		ParticipantName: cfg.Interview.ParticipantName,
		Position:        cfg.Interview.Position,
		TargetGrade:     cfg.Interview.TargetGrade,
		Experience:      cfg.Interview.Experience,
	}
}

// EngineOptions maps cfg onto engine options.
func EngineOptions(cfg *config.Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) []interviewer.Option {
	iv := cfg.Interview
	opts := []interviewer.Option{
		interviewer.WithLogger(logger),
		interviewer.WithMaxTurns(iv.MaxTurns),
		interviewer.WithStopKeywords(iv.StopKeywords...),
		interviewer.WithDifficultyBounds(iv.MinDifficulty, iv.MaxDifficulty),
		interviewer.WithTemperatures(interviewer.Temperatures{
			Classifier:  iv.Temperatures.Classifier,
			Interviewer: iv.Temperatures.Interviewer,
			Feedback:    iv.Temperatures.Feedback,
		}),
	}
	if iv.Greeting != "" {
		opts = append(opts, interviewer.WithGreetingTemplate(iv.Greeting))
	}
	for _, h := range hooks {
		opts = append(opts, interviewer.WithLifecycleHooks(h))
	}
	return opts
}
