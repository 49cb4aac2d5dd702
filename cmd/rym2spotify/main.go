package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"rym2spotify/internal/application/port/output"
	"rym2spotify/internal/di"
	"rym2spotify/internal/infrastructure/env"
)

const shutdownTimeout = 10 * time.Second

func main() {
	envService := env.NewEnvService()

	app := &cli.Command{
		Name:     "rym2spotify",
		Usage:    "Turn rateyourmusic.com lists into Spotify links",
		Version:  "1.0.0",
		Commands: []*cli.Command{serveCommand(envService)},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("rym2spotify: %v", err)
	}
}

func serveCommand(envService output.ConfigPort) *cli.Command {
	defaults := di.DefaultConfig()

	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address", Value: envService.GetWithDefault("ADDR", "127.0.0.1:8000")},
			&cli.BoolFlag{Name: "headless", Usage: "run Chrome without a window (no manual captcha solving)", Value: envService.GetBool("BROWSER_HEADLESS", defaults.Browser.Headless)},
			&cli.BoolFlag{Name: "no-sandbox", Usage: "disable the Chrome sandbox (containers)", Value: envService.GetBool("BROWSER_NO_SANDBOX", defaults.Browser.NoSandbox)},
			&cli.StringFlag{Name: "chrome-bin", Usage: "path to the Chrome binary", Value: envService.Get("BROWSER_BIN")},
			&cli.DurationFlag{Name: "timeout", Usage: "per-page navigation timeout", Value: envService.GetDuration("BROWSER_TIMEOUT", defaults.Browser.Timeout)},
			&cli.DurationFlag{Name: "challenge-wait", Usage: "time given to clear an anti-bot interstitial", Value: envService.GetDuration("CHALLENGE_WAIT", defaults.Browser.ChallengeWait)},
			&cli.DurationFlag{Name: "page-delay", Usage: "pause between the end of one page fetch and the start of the next", Value: envService.GetDuration("PAGE_DELAY", defaults.PageDelay)},
			&cli.IntFlag{Name: "max-pages", Usage: "stop after this many list pages (0 = no limit)", Value: envService.GetInt("MAX_PAGES", defaults.MaxPages)},
			&cli.StringFlag{Name: "snapshot-dir", Usage: "save screenshots of failed fetches here", Value: envService.Get("SNAPSHOT_DIR")},
			&cli.StringFlag{Name: "log-level", Value: envService.GetWithDefault("LOG_LEVEL", defaults.Log.Level)},
			&cli.StringFlag{Name: "log-format", Usage: "json or console", Value: envService.GetWithDefault("LOG_FORMAT", defaults.Log.Format)},
			&cli.StringFlag{Name: "log-file", Value: envService.Get("LOG_FILE")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return serve(ctx, cmd.String("addr"), configFromFlags(cmd))
		},
	}
}

func configFromFlags(cmd *cli.Command) di.Config {
	cfg := di.DefaultConfig()
	cfg.Browser.Headless = cmd.Bool("headless")
	cfg.Browser.NoSandbox = cmd.Bool("no-sandbox")
	cfg.Browser.Bin = cmd.String("chrome-bin")
	cfg.Browser.Timeout = cmd.Duration("timeout")
	cfg.Browser.ChallengeWait = cmd.Duration("challenge-wait")
	cfg.Browser.SnapshotDir = cmd.String("snapshot-dir")
	cfg.PageDelay = cmd.Duration("page-delay")
	cfg.MaxPages = cmd.Int("max-pages")
	cfg.Log.Level = cmd.String("log-level")
	cfg.Log.Format = cmd.String("log-format")
	cfg.Log.File = cmd.String("log-file")
	return cfg
}

func serve(ctx context.Context, addr string, cfg di.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer container.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           container.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		container.Logger.Info("API listening", "addr", addr, "headless", cfg.Browser.Headless)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		container.Logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Warn("HTTP shutdown incomplete", "error", err)
	}

	// ctx is done here, so in-flight jobs fail their next fetch and finish quickly.
	container.Scraper.Wait()
	return nil
}
