package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/career-compass/internal/advisor"
	"github.com/jonathan/career-compass/internal/cache"
	"github.com/jonathan/career-compass/internal/config"
	"github.com/jonathan/career-compass/internal/db"
	"github.com/jonathan/career-compass/internal/facade"
	"github.com/jonathan/career-compass/internal/llm"
	"github.com/jonathan/career-compass/internal/storage"
)

// app holds the wired components shared by all subcommands.
type app struct {
	facade  *facade.Facade
	closers []func()
}

// Close releases clients and connections in reverse order of creation.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// newApp connects storage and the model client and builds the façade.
func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	a := &app{}

	store, closeStore, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeStore)

	llmCfg, err := cfg.LLMClientConfig()
	if err != nil {
		a.Close()
		return nil, err
	}
	client, err := llm.NewClient(ctx, llmCfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	a.closers = append(a.closers, func() { _ = client.Close() })

	log.Debug("components ready",
		zap.String("storage", cfg.StorageBackend),
		zap.String("provider", string(llmCfg.Provider)),
		zap.String("model", client.Model()),
	)

	adv := advisor.New(client, store, nil, log.Named("advisor"))
	ttl := facade.DefaultTTLs()
	ttl.Fallback = time.Duration(cfg.FallbackTTL)
	a.facade = facade.New(adv, cache.New(), ttl, log.Named("facade"))
	return a, nil
}

// openStorage returns the durable store selected by cfg and a function that releases it.
func openStorage(ctx context.Context, cfg *config.Config) (storage.Durable, func(), error) {
	switch cfg.StorageBackend {
	case "", config.BackendMemory:
		return storage.NewMemory(), func() {}, nil

	case config.BackendPostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("failed to prepare database: %w", err)
		}
		return database, database.Close, nil

	case config.BackendRedis:
		store, err := storage.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
