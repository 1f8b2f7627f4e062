package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tutorlink/realtime/internal/archive"
	"github.com/tutorlink/realtime/internal/auth"
	"github.com/tutorlink/realtime/internal/config"
	"github.com/tutorlink/realtime/internal/connection"
	"github.com/tutorlink/realtime/internal/database"
	"github.com/tutorlink/realtime/internal/feed"
	"github.com/tutorlink/realtime/internal/notify"
	"github.com/tutorlink/realtime/internal/subscription"
	"github.com/tutorlink/realtime/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/monitor.local.yaml", "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	// Set up structured logging
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting monitor",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"tenant_id", cfg.Platform.TenantID,
		"base_url", cfg.Platform.BaseURL,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	tokens := tokenProvider(cfg.Auth)

	opts := subscription.Options{
		BaseURL: cfg.Platform.BaseURL,
		Tokens:  tokens,
		Policy: connection.Policy{
			BaseDelay:   cfg.Connection.ReconnectBaseDelay,
			MaxAttempts: cfg.Connection.ReconnectMaxAttempts,
		},
		HandshakeTimeout: cfg.Connection.HandshakeTimeout,
		WriteTimeout:     cfg.Connection.WriteTimeout,
		Logger:           logger,
	}

	// Build one facade per feature. Each owns an independent connection.
	metrics := subscription.NewMetricsFeed(opts)
	fraud := subscription.NewFraudAlertFeed(opts)
	disputes := subscription.NewDisputeFeed(opts)
	webhooks := subscription.NewWebhookHealthFeed(opts)
	balance := subscription.NewBalanceFeed(opts, cfg.Platform.UserID)

	eventBuffer := 0
	if cfg.Archive.Enabled {
		eventBuffer = cfg.Archive.BufferSize
	}
	transactions := subscription.NewTransactionFeed(opts, eventBuffer)

	approvals := subscription.NewApprovalFeed(subscription.ApprovalOptions{
		Options: opts,
		Callbacks: subscription.Callbacks{
			OnNewRequest: func(n feed.Notification) {
				logger.Info("purchase approval requested",
					"request_id", n.RequestID,
					"title", n.Title,
				)
			},
		},
		Notifier:        notify.SlogNotifier{Logger: logger},
		EnablePush:      cfg.Notifications.EnablePush,
		MinPushPriority: cfg.Notifications.MinPushPriority,
	})

	feeds := []interface {
		Connect(context.Context) error
		Disconnect()
	}{metrics, transactions, fraud, disputes, webhooks, approvals, balance}

	g, gctx := errgroup.WithContext(ctx)

	// Optional transaction archive
	if cfg.Archive.Enabled {
		logger.Info("connecting to archive database",
			"host", cfg.Archive.Postgres.Host,
			"database", cfg.Archive.Postgres.Name,
		)

		pool, err := database.Connect(ctx, cfg.Archive.Postgres)
		if err != nil {
			logger.Error("failed to connect to archive database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		journal := archive.NewTransactionJournal(
			archive.JournalConfig{
				BatchSize:     cfg.Archive.BatchSize,
				FlushInterval: cfg.Archive.FlushInterval,
			},
			transactions.Events(),
			pool,
			logger,
		)
		if err := journal.Start(ctx); err != nil {
			logger.Error("failed to start transaction journal", "error", err)
			os.Exit(1)
		}
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer stopCancel()
			journal.Stop(stopCtx)
		}()
	}

	for _, f := range feeds {
		f := f
		g.Go(func() error {
			if err := f.Connect(gctx); err != nil {
				// Connection errors are not fatal for the whole monitor;
				// the feed keeps retrying on transport failures and the
				// operator can inspect per-feed state.
				logger.Warn("initial connect failed", "error", err)
			}
			<-gctx.Done()
			f.Disconnect()
			return nil
		})
	}

	logger.Info("monitor running", "tenant_id", cfg.Platform.TenantID)

	if err := g.Wait(); err != nil {
		logger.Error("monitor exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("monitor stopped")
}

// tokenProvider selects the token source from config. A literal token wins
// over the environment and file sources.
func tokenProvider(cfg config.AuthConfig) auth.TokenProvider {
	switch {
	case cfg.Token != "":
		return auth.StaticProvider{Value: cfg.Token}
	case cfg.TokenEnv != "":
		return auth.EnvProvider{Key: cfg.TokenEnv}
	default:
		return auth.FileProvider{Path: cfg.TokenFile}
	}
}
