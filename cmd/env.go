package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/roster-cli/internal/linkage"
	"github.com/sells-group/roster-cli/internal/match"
	"github.com/sells-group/roster-cli/internal/store"
)

// env bundles the store and services a command needs.
type env struct {
	store   store.Store
	engine  *match.Engine
	linkage *linkage.Service
}

func (e *env) Close() {
	_ = e.store.Close()
}

// initEnv opens the configured store backend, runs migrations, and wires
// the matching engine and linkage service.
func initEnv(ctx context.Context) (*env, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "memory":
		st = store.NewMemory()
	case "sqlite":
		st, err = store.NewSQLite(cfg.Store.Path)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	matchCfg := match.DefaultConfig()
	if cfg.Match.ConfigPath != "" {
		matchCfg, err = match.LoadConfig(cfg.Match.ConfigPath)
		if err != nil {
			st.Close()
			return nil, err
		}
	}

	return &env{
		store:   st,
		engine:  match.NewEngine(st, matchCfg),
		linkage: linkage.NewService(st, st, st),
	}, nil
}
