package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"health-directory/internal/adapters/alarm/exectone"
	"health-directory/internal/adapters/alarm/pushover"
	"health-directory/internal/adapters/alarm/wsbridge"
	"health-directory/internal/adapters/auth/supabase"
	"health-directory/internal/adapters/bus/redisbus"
	"health-directory/internal/adapters/storage/badger"
	"health-directory/internal/adapters/storage/memory"
	"health-directory/internal/adapters/storage/postgres"
	"health-directory/internal/adapters/storage/postgrest"
	"health-directory/internal/adapters/storage/records"
	"health-directory/internal/alert"
	"health-directory/internal/config"
	"health-directory/internal/domain/reminders"
	"health-directory/internal/platform/logger"
	"health-directory/internal/ports/auth"
	"health-directory/internal/ports/recordstore"
	"health-directory/internal/router"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 10 * time.Second
	supabaseTimeout = 10 * time.Second
)

func newServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the alert hub",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	if zl, ok := log.(*logger.ZapLogger); ok {
		defer func() { _ = zl.Sync() }()
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	log.Info("record store ready", map[string]any{"backend": cfg.StoreBackend})

	var verifier auth.AuthVerifier
	if cfg.AuthEnabled() {
		client, err := supabase.NewClient(supabase.Config{
			URL:     cfg.SupabaseURL,
			AnonKey: cfg.SupabaseAnonKey,
			Timeout: supabaseTimeout,
		})
		if err != nil {
			return err
		}
		verifier = supabase.NewVerifier(client, 0, 0)
	} else {
		log.Warn("auth disabled, accepting X-Debug-User-ID headers", map[string]any{"dev_role_header": cfg.DevAuth})
	}

	// Métricas
	metrics := alert.DefaultMetrics()
	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = alert.MustNewMetrics(reg)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	// Superficies de alarma
	bridge := wsbridge.New(wsbridge.Config{
		Asset:          cfg.AlertToneAsset,
		ToneDuration:   cfg.AlertToneDuration,
		AllowedOrigins: cfg.CORSOrigins,
		Logger:         log,
	})
	defer bridge.Close()

	surfaces := alert.Surfaces{bridge}
	if cfg.PushoverAPIToken != "" {
		push, err := pushover.New(pushover.Config{
			APIToken: cfg.PushoverAPIToken,
			UserKey:  cfg.PushoverUserKey,
			Logger:   log,
		})
		if err != nil {
			return err
		}
		defer push.Wait()
		surfaces = append(surfaces, push)
	}

	var player alert.Player = bridge
	if cfg.AlertToneCommand != "" {
		p, err := exectone.New(cfg.AlertToneCommand)
		if err != nil {
			return err
		}
		player = p
	}

	hub, err := alert.NewHub(alert.HubConfig{
		Source:       records.NewRemindersRepo(store),
		PollInterval: cfg.AlertPollInterval,
		Timeout:      cfg.AlertTimeout,
		Surface:      surfaces,
		Player:       player,
		Vibrator:     bridge,
		Primer:       bridge,
		ResyncSpec:   cfg.AlertResyncSpec,
		Logger:       log,
		Metrics:      metrics,
	})
	if err != nil {
		return err
	}
	bridge.SetDismisser(hub)
	hub.Start()

	var notifier reminders.ChangeNotifier = hub
	if cfg.RedisURL != "" {
		bus, err := redisbus.Dial(ctx, cfg.RedisURL, redisbus.Config{Local: hub, Logger: log})
		if err != nil {
			return err
		}
		defer func() { _ = bus.Close() }()
		if err := bus.Start(ctx); err != nil {
			return err
		}
		notifier = bus
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.NewRouter(router.Options{
			AuthVerifier:   verifier,
			DevAuth:        cfg.DevAuth,
			Store:          store,
			Alerts:         hub,
			AlertsWS:       bridge,
			Notifier:       notifier,
			Logger:         log,
			MetricsHandler: metricsHandler,
			CORSOrigins:    cfg.CORSOrigins,
		}),
		ReadTimeout: 5 * time.Second,
		// Sin WriteTimeout: /alerts/ws mantiene la conexión abierta.
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		hub.Stop(context.Background())
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Server antes que hub: hub.Stop no compite con un /alerts/enable en vuelo.
	err = srv.Shutdown(shutdownCtx)
	hub.Stop(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg config.Config) (recordstore.Store, func(), error) {
	noop := func() {}

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := postgres.Open(cfg.DBDSN)
		if err != nil {
			return nil, noop, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return postgres.NewStore(db), func() { _ = db.Close() }, nil
	case config.BackendBadger:
		s, err := badger.Open(cfg.BadgerPath)
		if err != nil {
			return nil, noop, err
		}
		return s, func() { _ = s.Close() }, nil
	case config.BackendSupabase:
		s, err := postgrest.New(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey, supabaseTimeout)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	default:
		return memory.NewStore(), noop, nil
	}
}
