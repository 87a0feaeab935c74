package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validJSON = `{
  "server": {
    "host": "127.0.0.1",
    "port": 9000
  },
  "catalog": {
    "path": "/tmp/gamedex-test.db"
  },
  "providers": {
    "default": {
      "api_key": "sk-test-key",
      "model": "gpt-4o"
    }
  },
  "bot": {
    "tool_server_url": "http://127.0.0.1:9000",
    "history_limit": 30,
    "catalog_refresh": "@every 5m"
  },
  "connectors": {
    "telegram": {
      "token": "123456:ABC",
      "allow_from": [100, 200]
    },
    "local": {
      "host": "127.0.0.1",
      "port": 8090
    }
  },
  "log": {
    "level": "debug"
  }
}`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	os.WriteFile(path, []byte(validJSON), 0o644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q", cfg.Server.Host)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("server.port = %d", cfg.Server.Port)
	}
	if cfg.Catalog.Path != "/tmp/gamedex-test.db" {
		t.Errorf("catalog.path = %q", cfg.Catalog.Path)
	}
	if cfg.Providers["default"].APIKey != "sk-test-key" {
		t.Errorf("provider api_key = %q", cfg.Providers["default"].APIKey)
	}
	if cfg.Bot.ToolServerURL != "http://127.0.0.1:9000" {
		t.Errorf("bot.tool_server_url = %q", cfg.Bot.ToolServerURL)
	}
	if cfg.Bot.HistoryLimit != 30 {
		t.Errorf("bot.history_limit = %d", cfg.Bot.HistoryLimit)
	}
	if cfg.Bot.CatalogRefresh != "@every 5m" {
		t.Errorf("bot.catalog_refresh = %q", cfg.Bot.CatalogRefresh)
	}
	if cfg.Connectors.Telegram == nil {
		t.Fatal("telegram connector is nil")
	}
	if cfg.Connectors.Telegram.Token != "123456:ABC" {
		t.Errorf("telegram.token = %q", cfg.Connectors.Telegram.Token)
	}
	if len(cfg.Connectors.Telegram.AllowFrom) != 2 {
		t.Errorf("telegram.allow_from = %v", cfg.Connectors.Telegram.AllowFrom)
	}
	if cfg.Connectors.Local == nil || cfg.Connectors.Local.Port != 8090 {
		t.Errorf("local connector = %+v", cfg.Connectors.Local)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q", cfg.Log.Level)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	os.WriteFile(path, []byte(`{}`), 0o644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != DefaultPort {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Catalog.Path != DefaultDBPath {
		t.Errorf("catalog.path = %q", cfg.Catalog.Path)
	}
	if cfg.Bot.ToolServerURL != DefaultToolServerURL {
		t.Errorf("bot.tool_server_url = %q", cfg.Bot.ToolServerURL)
	}
	if cfg.Bot.Provider != "default" {
		t.Errorf("bot.provider = %q", cfg.Bot.Provider)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log.level = %q", cfg.Log.Level)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/config.json")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	os.WriteFile(path, []byte("not json"), 0o644)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestValidateServer_BadPort(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Port: 99999}, Catalog: CatalogConfig{Path: "x.db"}}
	err := cfg.ValidateServer()
	if err == nil || !strings.Contains(err.Error(), "server.port") {
		t.Errorf("expected port error, got %v", err)
	}
}

func TestValidateServer_Valid(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Port: 8000}, Catalog: CatalogConfig{Path: "x.db"}}
	if err := cfg.ValidateServer(); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
}

func botConfig() *Config {
	return &Config{
		Providers: map[string]ProviderConfig{
			"default": {APIKey: "k", Model: "m"},
		},
		Bot:        BotConfig{ToolServerURL: "http://localhost:8000", Provider: "default"},
		Connectors: ConnectorConfig{Local: &LocalConfig{Port: 8090}},
	}
}

func TestValidateBot_Valid(t *testing.T) {
	if err := botConfig().ValidateBot(); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
}

func TestValidateBot_MissingProvider(t *testing.T) {
	cfg := botConfig()
	cfg.Providers = map[string]ProviderConfig{}
	err := cfg.ValidateBot()
	if err == nil || !strings.Contains(err.Error(), "at least one provider") {
		t.Errorf("expected provider error, got %v", err)
	}
}

func TestValidateBot_MissingAPIKey(t *testing.T) {
	cfg := botConfig()
	cfg.Providers["default"] = ProviderConfig{Model: "m"}
	err := cfg.ValidateBot()
	if err == nil || !strings.Contains(err.Error(), "api_key") {
		t.Errorf("expected api_key error, got %v", err)
	}
}

func TestValidateBot_UnknownProviderType(t *testing.T) {
	cfg := botConfig()
	cfg.Providers["default"] = ProviderConfig{APIKey: "k", Type: "cohere"}
	err := cfg.ValidateBot()
	if err == nil || !strings.Contains(err.Error(), "not supported") {
		t.Errorf("expected type error, got %v", err)
	}
}

func TestValidateBot_UnknownProviderRef(t *testing.T) {
	cfg := botConfig()
	cfg.Bot.Provider = "missing"
	err := cfg.ValidateBot()
	if err == nil || !strings.Contains(err.Error(), "unknown provider") {
		t.Errorf("expected reference error, got %v", err)
	}
}

func TestValidateBot_NoConnectors(t *testing.T) {
	cfg := botConfig()
	cfg.Connectors = ConnectorConfig{}
	err := cfg.ValidateBot()
	if err == nil || !strings.Contains(err.Error(), "at least one connector") {
		t.Errorf("expected connector error, got %v", err)
	}
}

func TestValidateBot_TelegramNoToken(t *testing.T) {
	cfg := botConfig()
	cfg.Connectors.Telegram = &TelegramConfig{}
	err := cfg.ValidateBot()
	if err == nil || !strings.Contains(err.Error(), "telegram.token") {
		t.Errorf("expected telegram token error, got %v", err)
	}
}

func TestValidateBot_SlackMissingTokens(t *testing.T) {
	cfg := botConfig()
	cfg.Connectors.Slack = &SlackConfig{}
	err := cfg.ValidateBot()
	if err == nil || !strings.Contains(err.Error(), "slack.bot_token") || !strings.Contains(err.Error(), "slack.app_token") {
		t.Errorf("expected slack token errors, got %v", err)
	}
}

func TestValidateBot_CollectsAllErrors(t *testing.T) {
	cfg := &Config{Bot: BotConfig{Provider: "default"}, Providers: map[string]ProviderConfig{}}
	cfg.Bot.ToolServerURL = ""
	err := cfg.ValidateBot()
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, want := range []string{"tool_server_url", "at least one provider", "at least one connector"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in error, got %v", want, err)
		}
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GAMEDEX_HOST", "127.0.0.1")
	t.Setenv("GAMEDEX_PORT", "9090")
	t.Setenv("GAMEDEX_DB_PATH", "/env/gamedex.db")
	t.Setenv("GAMEDEX_OPENAI_API_KEY", "sk-env")
	t.Setenv("GAMEDEX_MODEL", "gpt-4o-mini")
	t.Setenv("GAMEDEX_TOOL_SERVER_URL", "http://tools:9090")
	t.Setenv("GAMEDEX_CATALOG_REFRESH", "@every 10m")
	t.Setenv("GAMEDEX_TELEGRAM_TOKEN", "tg-token")
	t.Setenv("GAMEDEX_TELEGRAM_ALLOW_FROM", "100,200,300")
	t.Setenv("GAMEDEX_SLACK_BOT_TOKEN", "xoxb-1")
	t.Setenv("GAMEDEX_SLACK_APP_TOKEN", "xapp-1")
	t.Setenv("GAMEDEX_SLACK_CHANNELS", "C001, C002")
	t.Setenv("GAMEDEX_LOCAL_PORT", "8090")
	t.Setenv("GAMEDEX_LOG_LEVEL", "debug")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9090 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Catalog.Path != "/env/gamedex.db" {
		t.Errorf("catalog.path = %q", cfg.Catalog.Path)
	}
	if p := cfg.Providers["default"]; p.Type != "openai" || p.APIKey != "sk-env" || p.Model != "gpt-4o-mini" {
		t.Errorf("provider = %+v", p)
	}
	if cfg.Bot.ToolServerURL != "http://tools:9090" {
		t.Errorf("bot.tool_server_url = %q", cfg.Bot.ToolServerURL)
	}
	if cfg.Bot.CatalogRefresh != "@every 10m" {
		t.Errorf("bot.catalog_refresh = %q", cfg.Bot.CatalogRefresh)
	}
	if cfg.Connectors.Telegram == nil || len(cfg.Connectors.Telegram.AllowFrom) != 3 {
		t.Errorf("telegram = %+v", cfg.Connectors.Telegram)
	}
	if cfg.Connectors.Slack == nil || len(cfg.Connectors.Slack.Channels) != 2 {
		t.Errorf("slack = %+v", cfg.Connectors.Slack)
	}
	if cfg.Connectors.Local == nil || cfg.Connectors.Local.Port != 8090 {
		t.Errorf("local = %+v", cfg.Connectors.Local)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q", cfg.Log.Level)
	}
}

func TestLoadFromEnv_AnthropicPreferred(t *testing.T) {
	t.Setenv("GAMEDEX_ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("GAMEDEX_OPENAI_API_KEY", "sk-oai")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	p := cfg.Providers["default"]
	if p.Type != "anthropic" || p.APIKey != "sk-ant" {
		t.Errorf("expected the anthropic key to win, got %+v", p)
	}
}

func TestLoadFromEnv_BadAllowFrom(t *testing.T) {
	t.Setenv("GAMEDEX_TELEGRAM_TOKEN", "tg")
	t.Setenv("GAMEDEX_TELEGRAM_ALLOW_FROM", "100,bogus")

	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected error for a non-numeric user ID")
	}
}
