// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/violetshores/vac-themes/internal/config"
	"github.com/violetshores/vac-themes/internal/email"
	"github.com/violetshores/vac-themes/internal/ratelimit"
	"github.com/violetshores/vac-themes/internal/scheduler"
	"github.com/violetshores/vac-themes/internal/themes"
)

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func main() {
	cfg, err := config.Load(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg)

	store, err := themes.NewStore(cfg.Themes.RegistryFile, cfg.Themes.DomainsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load themes")
	}
	registry, domains := store.Snapshot()
	log.Info().
		Strs("themes", registry.IDs()).
		Str("default_theme", registry.DefaultID()).
		Int("domain_patterns", len(domains.Patterns())).
		Msg("Themes loaded")

	var watcher *themes.FileWatcher
	if cfg.Themes.Watch {
		watcher, err = themes.NewFileWatcher(store, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create theme file watcher")
		}
		if err := watcher.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to watch theme files")
		}
		defer watcher.Stop()
	}

	var sender email.EmailSender
	if cfg.Email.Enabled {
		sesClient, err := email.NewSESClient(cfg.Email.AccessKeyID, cfg.Email.SecretAccessKey, cfg.Email.Region, cfg.Email.Sender)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize SES client")
		}
		sender = sesClient
	} else {
		log.Warn().Msg("Email delivery disabled; test emails will be rejected")
	}

	limiter := ratelimit.New(&ratelimit.Config{
		SendCooldown:     cfg.SendCooldown(),
		SendMaxPerHour:   cfg.RateLimit.SendMaxPerHour,
		SendMaxIPPerHour: cfg.RateLimit.SendMaxIPPerHour,
	})

	svc, err := scheduler.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize scheduler")
	}
	if err := scheduler.RegisterLimiterPruneJob(svc, limiter, cfg.RateLimit.PruneCron); err != nil {
		log.Fatal().Err(err).Msg("Failed to register limiter prune job")
	}
	log.Info().Strs("jobs", svc.Jobs()).Msg("Scheduler initialized")

	server := newServer(cfg, serverDeps{
		themes:  store,
		sender:  sender,
		limiter: limiter,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Int("port", cfg.App.Port).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		svc.Start()
		<-ctx.Done()
		return svc.Stop()
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
