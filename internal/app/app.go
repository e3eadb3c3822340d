// Package app wires configuration, the NBP client, the rate service and
// the portfolio builder into a ready-to-use core shared by the CLI
// commands.
package app

import (
	"fmt"
	"os"

	"github.com/portfel-dev/portfel/internal/clients/nbp"
	"github.com/portfel-dev/portfel/internal/common"
	"github.com/portfel-dev/portfel/internal/interfaces"
	"github.com/portfel-dev/portfel/internal/services/portfolio"
	"github.com/portfel-dev/portfel/internal/services/rates"
	"github.com/portfel-dev/portfel/internal/storage/ratefs"
)

// App holds the initialized services and clients.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	RatesClient interfaces.RatesClient
	RateService *rates.Service
	Builder     *portfolio.Builder

	rateStore interfaces.RateStorage
}

// NewApp initializes the application core. configPath may be empty, in
// which case PORTFEL_CONFIG and then portfel.toml in the working
// directory are tried; a missing config file just means defaults.
func NewApp(configPath string) (*App, error) {
	if configPath == "" {
		configPath = os.Getenv("PORTFEL_CONFIG")
	}
	if configPath == "" {
		configPath = "portfel.toml"
	}

	cfg, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(cfg.Logging.Level)

	client := nbp.NewClient(
		nbp.WithBaseURL(cfg.Clients.NBP.BaseURL),
		nbp.WithTable(cfg.Clients.NBP.Table),
		nbp.WithRateLimit(cfg.Clients.NBP.RateLimit),
		nbp.WithTimeout(cfg.Clients.NBP.GetTimeout()),
		nbp.WithLogger(logger),
	)

	cache := rates.NewCache()

	var rateStore interfaces.RateStorage
	if cfg.Cache.Enabled {
		store, err := ratefs.NewStore(logger, cfg.Cache.Path, cfg.Cache.GetTTL())
		if err != nil {
			return nil, fmt.Errorf("failed to open rate snapshot store: %w", err)
		}
		rateStore = store

		snap, err := store.Load()
		if err != nil {
			logger.Warn().Err(err).Msg("could not load rate snapshot, starting cold")
		} else if snap != nil {
			cache.Restore(snap)
			logger.Info().Int("rates", cache.Len()).Msg("rate cache restored from snapshot")
		}
	}

	rateService := rates.NewService(client, cache, logger)
	builder := portfolio.NewBuilder(rateService, logger)

	return &App{
		Config:      cfg,
		Logger:      logger,
		RatesClient: client,
		RateService: rateService,
		Builder:     builder,
		rateStore:   rateStore,
	}, nil
}

// Close persists the rate cache snapshot when persistence is enabled.
func (a *App) Close() {
	if a.rateStore == nil {
		return
	}
	if err := a.rateStore.Save(a.RateService.Cache().Snapshot()); err != nil {
		a.Logger.Warn().Err(err).Msg("failed to save rate snapshot")
	}
}
