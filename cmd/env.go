package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/pipeline-cli/internal/model"
	"github.com/sells-group/pipeline-cli/internal/service"
	"github.com/sells-group/pipeline-cli/internal/store"
)

// env bundles the wired store, cache and service for one command run.
type env struct {
	Store store.Store
	Cache *store.Cache
	Svc   *service.Service
}

// Close releases the store and cache.
func (e *env) Close() {
	if e.Cache != nil {
		if err := e.Cache.Close(); err != nil {
			zap.L().Warn("close cache", zap.Error(err))
		}
	}
	if err := e.Store.Close(); err != nil {
		zap.L().Warn("close store", zap.Error(err))
	}
}

// initEnv opens the configured store backend, migrates it, and wires the
// service with the optional Redis cache.
func initEnv(ctx context.Context) (*env, error) {
	var st store.Store
	switch cfg.Store.Driver {
	case "sqlite":
		s, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		st = s
	case "postgres":
		s, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
		if err != nil {
			return nil, err
		}
		st = s
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}

	cache, err := store.NewCache(ctx, cfg.Cache.RedisURL, cfg.Cache.TTL())
	if err != nil {
		// A broken cache should not take the CLI down; run without it.
		zap.L().Warn("cache unavailable, continuing without it", zap.Error(err))
		cache = nil
	}

	return &env{Store: st, Cache: cache, Svc: service.New(st, cache)}, nil
}

// filterFlags holds the shared dashboard filter flag set.
type filterFlags struct {
	groups  []string
	leaders []string
	from    string
	to      string
	query   string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.groups, "group", nil, "filter by industry group (repeatable)")
	cmd.Flags().StringSliceVar(&f.leaders, "leader", nil, "filter by client leader ID (repeatable)")
	cmd.Flags().StringVar(&f.from, "from", "", "filter by created date >= (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "filter by created date <= (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.query, "query", "", "substring search on name and notes")
}

func (f filterFlags) state() model.FilterState {
	return model.FilterState{
		IndustryGroups: f.groups,
		LeaderIDs:      f.leaders,
		From:           f.from,
		To:             f.to,
		Query:          f.query,
	}
}
