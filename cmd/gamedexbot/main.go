package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gamedex-io/gamedex/internal/chat"
	"github.com/gamedex-io/gamedex/internal/config"
	"github.com/gamedex-io/gamedex/internal/connector"
	"github.com/gamedex-io/gamedex/internal/connector/local"
	slackconn "github.com/gamedex-io/gamedex/internal/connector/slack"
	"github.com/gamedex-io/gamedex/internal/connector/telegram"
	"github.com/gamedex-io/gamedex/internal/logbuf"
	"github.com/gamedex-io/gamedex/internal/provider"
	"github.com/gamedex-io/gamedex/internal/scheduler"
	"github.com/gamedex-io/gamedex/internal/toolapi"
)

func main() {
	configPath := flag.String("config", "", "Path to config JSON file")
	configURL := flag.String("config-url", os.Getenv("GAMEDEX_CONFIG_URL"), "URL of a remote config service")
	configKey := flag.String("config-key", os.Getenv("GAMEDEX_CONFIG_KEY"), "API key for remote config auth")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	// Set up logging. The level var is adjusted once the config is in.
	logLevel := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))

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
	if err := cfg.ValidateBot(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}
	if *verbose {
		logLevel.Set(slog.LevelDebug)
	} else {
		logLevel.Set(logbuf.ParseLevel(cfg.Log.Level))
	}

	logger.Info("gamedexbot starting", "tool_server", cfg.Bot.ToolServerURL)

	// 1. Initialize the model provider
	pcfg := cfg.Providers[cfg.Bot.Provider]
	llm, err := provider.New(pcfg.Type, pcfg.APIKey, pcfg.Model, pcfg.BaseURL)
	if err != nil {
		logger.Error("failed to init provider", "name", cfg.Bot.Provider, "error", err)
		os.Exit(1)
	}
	logger.Info("provider initialized", "name", cfg.Bot.Provider, "type", llm.Name(), "model", pcfg.Model)

	// 2. Wire the chat engine to the tool server
	tools := toolapi.NewClient(cfg.Bot.ToolServerURL, logger.With("component", "toolapi"))
	sessions := chat.NewMemoryStore(cfg.Bot.HistoryLimit)
	engine := chat.NewEngine(llm, tools, sessions, logger.With("component", "chat"))

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := engine.LoadTools(ctx); err != nil {
		logger.Warn("tool server unavailable, starting without tools", "url", cfg.Bot.ToolServerURL, "error", err)
	}

	// 3. Schedule background catalog refresh when configured
	if cfg.Bot.CatalogRefresh != "" {
		sched := scheduler.New(logger.With("component", "scheduler"))
		err := sched.AddJob("catalog-refresh", cfg.Bot.CatalogRefresh, func() {
			if err := engine.LoadTools(ctx); err != nil {
				logger.Warn("catalog refresh failed", "error", err)
			}
		})
		if err != nil {
			logger.Error("invalid catalog refresh schedule", "schedule", cfg.Bot.CatalogRefresh, "error", err)
			os.Exit(1)
		}
		go safeGo(logger, "scheduler", func() { sched.Start(ctx) })
	}

	// 4. Start connectors
	var conns []connector.Connector
	if tc := cfg.Connectors.Telegram; tc != nil {
		tgCfg := telegram.Config{Token: tc.Token, AllowFrom: tc.AllowFrom}
		if vc := tc.Voice; vc != nil {
			tgCfg.Voice = &telegram.VoiceConfig{APIKey: vc.APIKey, URL: vc.URL, Model: vc.Model}
		}
		tg, err := telegram.New(tgCfg, engine, logger.With("connector", "telegram"))
		if err != nil {
			logger.Error("failed to init telegram connector", "error", err)
			os.Exit(1)
		}
		conns = append(conns, tg)
	}
	if sc := cfg.Connectors.Slack; sc != nil {
		sl, err := slackconn.New(slackconn.Config{
			BotToken: sc.BotToken,
			AppToken: sc.AppToken,
			Channels: sc.Channels,
		}, engine, logger.With("connector", "slack"))
		if err != nil {
			logger.Error("failed to init slack connector", "error", err)
			os.Exit(1)
		}
		conns = append(conns, sl)
	}
	if lc := cfg.Connectors.Local; lc != nil {
		conns = append(conns, local.New(local.Config{
			Host:  lc.Host,
			Port:  lc.Port,
			Token: lc.Token,
		}, engine, logger.With("connector", "local")))
	}

	for _, conn := range conns {
		go safeGo(logger, conn.Name(), func() {
			if err := conn.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("connector failed", "connector", conn.Name(), "error", err)
			}
		})
		logger.Info("connector started", "connector", conn.Name())
	}

	// 5. Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig)
	cancel()
	for _, conn := range conns {
		if err := conn.Stop(); err != nil {
			logger.Warn("connector stop failed", "connector", conn.Name(), "error", err)
		}
	}
	logger.Info("gamedexbot stopped")
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
