// Command server runs the planner backend.
//
// Configuration is layered: built-in defaults, a YAML config file
// (PLANNER_CONFIG or ./config.yaml), then PLANNER_* environment variable
// overrides. See pkg/config for the full list of settings.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dailydaisy/planner/pkg/accounts"
	"github.com/dailydaisy/planner/pkg/auth"
	"github.com/dailydaisy/planner/pkg/authz"
	"github.com/dailydaisy/planner/pkg/config"
	"github.com/dailydaisy/planner/pkg/storage"
	"github.com/dailydaisy/planner/pkg/storage/memory"
	"github.com/dailydaisy/planner/pkg/storage/postgres"
	transporthttp "github.com/dailydaisy/planner/pkg/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := context.Background()

	store, err := newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer store.Close()
	slog.Info("storage ready", "type", cfg.Storage.Type)

	accountsSvc := accounts.NewService(store, cfg.Auth.BcryptCost)
	tokens := auth.NewTokenService([]byte(cfg.Auth.Secret), cfg.Auth.TokenTTL)
	resolver := authz.NewResolver(store, store)

	adapter := transporthttp.NewAdapter(accountsSvc, tokens, resolver, store)

	server := transporthttp.NewServer(adapter,
		transporthttp.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		transporthttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		transporthttp.WithMetrics(cfg.Observability.Metrics.Enabled, cfg.Observability.Metrics.Path),
	)

	return server.ListenAndServe()
}

// newStore creates the configured storage backend.
func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Type {
	case "postgres":
		return postgres.New(ctx, postgres.Config{
			DSN:            cfg.Storage.Postgres.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MigrateOnStart: cfg.Storage.Postgres.MigrateOnStart,
		})
	default:
		return memory.New(), nil
	}
}
