package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gamedex-io/gamedex/internal/api"
	"github.com/gamedex-io/gamedex/internal/catalog"
	"github.com/gamedex-io/gamedex/internal/config"
	"github.com/gamedex-io/gamedex/internal/logbuf"
	"github.com/gamedex-io/gamedex/internal/tool"
)

func main() {
	configPath := flag.String("config", "", "Path to config JSON file")
	configURL := flag.String("config-url", os.Getenv("GAMEDEX_CONFIG_URL"), "URL of a remote config service")
	configKey := flag.String("config-key", os.Getenv("GAMEDEX_CONFIG_KEY"), "API key for remote config auth")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	// Set up logging. The level var is adjusted once the config is in.
	logLevel := new(slog.LevelVar)
	logBuf := logbuf.New(2000)
	jsonHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logbuf.NewHandler(jsonHandler, logBuf))

	// Load config (3 modes: file, remote service, env)
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else if *configURL != "" {
		logger.Info("loading config from remote service", "url", *configURL)
		cfg, err = config.LoadFromURL(*configURL, *configKey)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateServer(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}
	if *verbose {
		logLevel.Set(slog.LevelDebug)
	} else {
		logLevel.Set(logbuf.ParseLevel(cfg.Log.Level))
	}

	logger.Info("gamedexd starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	// 1. Open the catalog and seed it on first run
	store, err := catalog.NewSQLiteStore(cfg.Catalog.Path)
	if err != nil {
		logger.Error("failed to open catalog", "path", cfg.Catalog.Path, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	seeded, err := store.Seed()
	if err != nil {
		logger.Error("failed to seed catalog", "error", err)
		os.Exit(1)
	}
	if seeded > 0 {
		logger.Info("catalog seeded", "products", seeded)
	}

	// 2. Register tools
	reg := tool.NewRegistry()
	if err := tool.RegisterCatalogTools(reg, store); err != nil {
		logger.Error("failed to register tools", "error", err)
		os.Exit(1)
	}
	disp := tool.NewDispatcher(reg, logger.With("component", "dispatch"))
	logger.Info("tools registered", "count", reg.Len())

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Start API server
	srv := api.NewServer(disp, reg, api.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}, logger.With("component", "api"), logBuf)

	go safeGo(logger, "api-server", func() {
		if err := srv.Start(ctx); err != nil {
			logger.Error("api server failed", "error", err)
			os.Exit(1)
		}
	})
	logger.Info("api server started", "port", cfg.Server.Port)

	// 4. Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig)
	cancel()
	logger.Info("gamedexd stopped")
}

// safeGo runs fn with panic recovery.
func safeGo(logger *slog.Logger, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("goroutine panicked", "name", name, "panic", fmt.Sprintf("%v", r))
		}
	}()
	fn()
}
