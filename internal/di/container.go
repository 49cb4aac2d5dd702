package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"rym2spotify/internal/adapter/httpapi"
	"rym2spotify/internal/application/port/output"
	"rym2spotify/internal/application/service"
	"rym2spotify/internal/infrastructure/browser/rod"
	"rym2spotify/internal/infrastructure/extractor/rym"
	"rym2spotify/internal/infrastructure/logger"
	"rym2spotify/internal/infrastructure/pacing"
	"rym2spotify/internal/usecase/scrape"
)

type Container struct {
	Logger   output.LoggerPort
	Registry output.TaskRegistry
	Scraper  *scrape.Service
	Handler  http.Handler
}

type Config struct {
	Browser   rod.BrowserConfig
	Log       logger.Config
	BaseURL   string
	PageDelay time.Duration
	MaxPages  int
	AccessLog bool

	// Fetcher replaces the Chrome fetcher when set.
	Fetcher output.Fetcher
}

func DefaultConfig() Config {
	return Config{
		Browser:   rod.DefaultConfig(),
		Log:       logger.DefaultConfig(),
		BaseURL:   rym.DefaultBaseURL,
		PageDelay: time.Second,
		AccessLog: true,
	}
}

// NewContainer wires the application. Background jobs live as long as ctx.
func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	extractor, err := rym.NewExtractor(cfg.BaseURL)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = rod.NewFetcher(cfg.Browser, log.WithField("component", "browser"))
	}

	registry := service.NewTaskRegistry()
	runner := scrape.NewRunner(
		registry,
		fetcher,
		extractor,
		pacing.Factory(cfg.PageDelay),
		log.WithField("component", "runner"),
		scrape.RunnerConfig{MaxPages: cfg.MaxPages},
	)
	scraper := scrape.NewService(ctx, registry, runner, log.WithField("component", "scraper"))

	handler := httpapi.NewRouter(
		httpapi.NewHandler(scraper, log.WithField("component", "http")),
		httpapi.RouterConfig{
			ServiceName: "rym2spotify",
			AccessLog:   cfg.AccessLog,
			JSONLogs:    cfg.Log.Format != "console",
		},
	)

	return &Container{
		Logger:   log,
		Registry: registry,
		Scraper:  scraper,
		Handler:  handler,
	}, nil
}

func (c *Container) Close() {
	if c.Logger != nil {
		_ = c.Logger.Close()
	}
}
