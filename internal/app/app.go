package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/khrees2412/jobscout/internal/config"
	"github.com/khrees2412/jobscout/internal/database"
	"github.com/khrees2412/jobscout/internal/logger"
	"github.com/khrees2412/jobscout/internal/ranker"
	"github.com/khrees2412/jobscout/internal/search"
	"github.com/khrees2412/jobscout/internal/sources"
	"go.uber.org/zap"
)

// App is the dependency container for the CLI application
type App struct {
	Store      *database.Store
	Config     *config.Config
	HTTPClient *http.Client
	Logger     *zap.Logger
	Search     *search.Service
}

// NewApp initializes and returns a new App instance
func NewApp(ctx context.Context, configPath string) (*App, error) {
	cfg, err := config.Initialize(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	store, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	httpClient := sources.NewHTTPClient()

	log.Debug("app initialized",
		zap.String("config", config.GetConfigPath()),
		zap.String("database", cfg.Database.Path))

	return &App{
		Store:      store,
		Config:     cfg,
		HTTPClient: httpClient,
		Logger:     log,
		Search:     NewSearchService(cfg, httpClient, log),
	}, nil
}

// NewSearchService wires the enabled sources and the ranker from cfg.
func NewSearchService(cfg *config.Config, client *http.Client, log *zap.Logger) *search.Service {
	srcs := sources.New(SourceSettings(cfg), client, log)
	rk := ranker.New(ranker.Options{
		Tables:       ranker.DefaultTables().Extend(cfg.Ranking.ExtraUSKeywords, cfg.Ranking.ExtraATSDomains),
		Target:       cfg.Ranking.Target,
		Floor:        cfg.Ranking.Floor,
		PerSourceCap: cfg.Ranking.PerSourceCap,
		Logger:       log.Named("ranker"),
	})
	return search.NewService(search.Options{
		Sources:     srcs,
		Ranker:      rk,
		Timeout:     cfg.Sources.Timeout,
		ExtraTitles: cfg.Ranking.ExtraTitles,
		Logger:      log,
	})
}

// SourceSettings maps the sources section of cfg.
func SourceSettings(cfg *config.Config) sources.Settings {
	return sources.Settings{
		Enabled:       cfg.Sources.Enabled,
		Timeout:       cfg.Sources.Timeout,
		AdzunaAppID:   cfg.Sources.Adzuna.AppID,
		AdzunaAppKey:  cfg.Sources.Adzuna.AppKey,
		AdzunaCountry: cfg.Sources.Adzuna.Country,
	}
}

// Close closes all resources
func (a *App) Close() error {
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
