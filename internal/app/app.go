// Package app wires configuration into a storage backend, the lead store, the
// relay pool and the two services. Both binaries start from here.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"alevatex/internal/adapters/memory"
	pg "alevatex/internal/adapters/postgres"
	"alevatex/internal/adapters/redisstore"
	"alevatex/internal/adapters/relay"
	"alevatex/internal/adapters/sqlite"
	"alevatex/internal/config"
	"alevatex/internal/leadstore"
	"alevatex/internal/metrics"
	"alevatex/internal/ports"
	leadsvc "alevatex/internal/services/leads"
	"alevatex/internal/services/submissions"
	"alevatex/internal/workers/relayrunner"
)

type App struct {
	Config      config.Config
	Metrics     *metrics.Metrics
	Store       *leadstore.Store
	Relay       *relayrunner.Pool
	Submissions *submissions.Service
	Leads       *leadsvc.Service

	closer io.Closer
}

func Open(ctx context.Context, cfg config.Config, log logrus.FieldLogger, reg prometheus.Registerer) (*App, error) {
	kv, closer, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.WithField("backend", cfg.StoreBackend).Info("lead store backend ready")

	m := metrics.New(reg)
	store := leadstore.New(kv, cfg.StoreKey, log, m)
	pool := relayrunner.New(relay.New(cfg.RelayEndpoint, cfg.RelayTimeout), log, m)

	return &App{
		Config:      cfg,
		Metrics:     m,
		Store:       store,
		Relay:       pool,
		Submissions: submissions.New(store, pool, log, m),
		Leads:       leadsvc.New(store, cfg.Location(), log, m),
		closer:      closer,
	}, nil
}

func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

type closeFunc func() error

func (f closeFunc) Close() error { return f() }

func openBackend(ctx context.Context, cfg config.Config) (ports.KeyValueStore, io.Closer, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return memory.New(), nil, nil
	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		repo := sqlite.NewRepo(db)
		return repo, repo, nil
	case config.BackendPostgres:
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect error: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return db, closeFunc(func() error { db.Close(); return nil }), nil
	case config.BackendRedis:
		s, err := redisstore.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
