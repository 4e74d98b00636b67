package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/TheAndersMadsen/shopify-monitor/internal/config"
	"github.com/TheAndersMadsen/shopify-monitor/internal/fetcher"
	"github.com/TheAndersMadsen/shopify-monitor/internal/logger"
	"github.com/TheAndersMadsen/shopify-monitor/internal/monitor"
	"github.com/TheAndersMadsen/shopify-monitor/internal/notify"
	"github.com/TheAndersMadsen/shopify-monitor/internal/repository/sqlite"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	slogger := setupLogger(cfg.Env)
	bcast := logger.NewBroadcaster(slogger)

	if err := os.MkdirAll(filepath.Dir(cfg.StoragePath), 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	repo, err := sqlite.NewRepository(ctx, slogger, cfg.StoragePath)
	if err != nil {
		log.Fatalf("Failed to open state database: %v", err)
	}
	defer repo.Close() //nolint:errcheck // closing on shutdown, already logged inside

	notifiers := []notify.Notifier{notify.NewWebhook(bcast)}
	if cfg.Tg.Token != "" {
		bot, botErr := notify.NewTelegramBot(cfg.Tg.Token)
		if botErr != nil {
			log.Fatalf("Failed to init Telegram bot: %v", botErr)
		}
		notifiers = append(notifiers, notify.NewTelegram(bcast, bot, cfg.Tg.ChatID))
	}

	settings := config.NewLoader(slogger, cfg.SettingsPath)
	mon := monitor.NewMonitor(bcast, settings, repo, fetcher.NewFetcher(slogger), notifiers...)

	// Log that the application has started.
	slogger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	mon.Start()

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	// Log that a shutdown signal has been received.
	slogger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	// Stop the monitor gracefully.
	mon.Stop()

	// Log graceful shutdown completion.
	slogger.InfoContext(ctx, "Application stopped gracefully.")
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified	 or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
