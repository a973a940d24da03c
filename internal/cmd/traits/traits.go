// Package traits parses trait engine flags and launches the service.
package traits

import (
	"context"
	"flag"
	"fmt"
	"log"

	entrypoint "github.com/ferndale/paddock/internal/platform/cmd"
	"github.com/ferndale/paddock/internal/traits/authz"
	"github.com/ferndale/paddock/internal/traits/catalog"
	"github.com/ferndale/paddock/internal/traits/effects"
	"github.com/ferndale/paddock/internal/traits/service"
	"github.com/ferndale/paddock/internal/traits/storage/sqlite"
)

// Config holds trait engine command configuration.
type Config struct {
	DBPath         string `env:"PADDOCK_TRAITS_DB_PATH" envDefault:"traits.db"`
	BatchMode      string `env:"PADDOCK_TRAITS_BATCH_MODE" envDefault:"all_or_nothing"`
	MaxHorizonDays int    `env:"PADDOCK_TRAITS_MAX_HORIZON_DAYS" envDefault:"365"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "The trait engine SQLite database path")
	fs.StringVar(&cfg.BatchMode, "batch-mode", cfg.BatchMode, "Batch violation handling: all_or_nothing or isolate")
	fs.IntVar(&cfg.MaxHorizonDays, "max-horizon-days", cfg.MaxHorizonDays, "Maximum personality prediction horizon in days")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the trait engine service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceTraits, func(ctx context.Context) error {
		return run(ctx, cfg)
	})
}

func run(ctx context.Context, cfg Config) error {
	mode := authz.Mode(cfg.BatchMode)
	switch mode {
	case authz.ModeAllOrNothing, authz.ModeIsolate:
	default:
		return fmt.Errorf("unknown batch mode: %q", cfg.BatchMode)
	}
	if cfg.MaxHorizonDays <= 0 {
		return fmt.Errorf("max horizon days must be greater than zero")
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open trait store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close trait store: %v", err)
		}
	}()

	cat := catalog.Default()

	svcCfg := service.DefaultConfig()
	svcCfg.BatchMode = mode
	svcCfg.Stability.MaxHorizonDays = cfg.MaxHorizonDays
	svc := service.New(store, cat, effects.DefaultTable(), service.WithConfig(svcCfg))

	log.Printf("trait engine ready db=%s batch_mode=%s conditions=%d", cfg.DBPath, mode, cat.Len())
	return serve(ctx, svc)
}

// serve blocks until shutdown. The engine exposes plain Go calls; the API
// transport that drives the service is attached by the embedding process.
func serve(ctx context.Context, svc *service.Service) error {
	<-ctx.Done()
	return nil
}
