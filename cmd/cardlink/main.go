package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"cardlink/internal/auth"
	"cardlink/internal/backend"
	"cardlink/internal/bus"
	"cardlink/internal/config"
	"cardlink/internal/httpapi"
	"cardlink/internal/notify"
	"cardlink/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)

	backendURL := ""
	if cfg.BackendURL != nil {
		backendURL = cfg.BackendURL.String()
	}
	client := backend.New(backend.Options{
		BaseURL:       backendURL,
		TokenProvider: auth.StaticToken(cfg.AccessToken),
		HTTPClient:    &http.Client{Timeout: cfg.HTTPTimeout},
		UserAgent:     "cardlink-gateway",
	})

	signalBus := bus.New()
	contactsSvc := &service.ContactsService{Client: client}
	foldersSvc := &service.FoldersService{Client: client}
	lifecycleSvc := &service.LifecycleService{
		Client:   client,
		Contacts: contactsSvc,
		Folders:  foldersSvc,
		Bus:      signalBus,
	}

	badge := notify.NewWatcher(contactsSvc, logger)
	badge.Mount(context.Background(), signalBus)
	defer badge.Unmount()

	router := httpapi.NewRouter(httpapi.RouterOpts{
		Logger:       logger,
		IsProd:       cfg.IsProd(),
		Contacts:     contactsSvc,
		Folders:      foldersSvc,
		Lifecycle:    lifecycleSvc,
		Badge:        badge,
		DefaultToken: cfg.AccessToken,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("gateway listening", "env", cfg.Env, "addr", cfg.Addr, "backend", backendURL)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
