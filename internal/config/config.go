// Package config loads GameDex configuration from a JSON file, the
// environment, or a remote endpoint, and validates it per binary.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Defaults for a bare local setup.
const (
	DefaultHost          = "0.0.0.0"
	DefaultPort          = 8000
	DefaultDBPath        = "gamedex.db"
	DefaultToolServerURL = "http://localhost:8000"
)

// Config is the top-level GameDex configuration. The tool server and
// the bot read different slices of it; validation is split accordingly.
type Config struct {
	Server     ServerConfig              `json:"server"`
	Catalog    CatalogConfig             `json:"catalog"`
	Providers  map[string]ProviderConfig `json:"providers"`
	Bot        BotConfig                 `json:"bot"`
	Connectors ConnectorConfig           `json:"connectors"`
	Log        LogConfig                 `json:"log"`
}

// ServerConfig holds tool server settings.
type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// CatalogConfig holds catalog storage settings.
type CatalogConfig struct {
	Path string `json:"path"` // SQLite database file
}

// ProviderConfig holds LLM provider settings.
type ProviderConfig struct {
	Type    string `json:"type,omitempty"` // "openai" (default) or "anthropic"
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url,omitempty"`
	Model   string `json:"model,omitempty"` // empty selects the provider default
}

// BotConfig holds chat front-end settings.
type BotConfig struct {
	ToolServerURL  string `json:"tool_server_url"`
	Provider       string `json:"provider,omitempty"`        // Providers key, default "default"
	HistoryLimit   int    `json:"history_limit,omitempty"`   // messages kept per session
	CatalogRefresh string `json:"catalog_refresh,omitempty"` // cron schedule, empty disables
}

// ConnectorConfig holds settings for the chat surfaces.
type ConnectorConfig struct {
	Telegram *TelegramConfig `json:"telegram,omitempty"`
	Slack    *SlackConfig    `json:"slack,omitempty"`
	Local    *LocalConfig    `json:"local,omitempty"`
}

// TelegramConfig holds Telegram bot settings.
type TelegramConfig struct {
	Token     string       `json:"token"`
	AllowFrom []int64      `json:"allow_from,omitempty"`
	Voice     *VoiceConfig `json:"voice,omitempty"`
}

// VoiceConfig holds voice transcription settings.
type VoiceConfig struct {
	APIKey string `json:"api_key"`
	URL    string `json:"url,omitempty"`
	Model  string `json:"model,omitempty"`
}

// SlackConfig holds Slack app settings.
type SlackConfig struct {
	BotToken string   `json:"bot_token"`
	AppToken string   `json:"app_token"`
	Channels []string `json:"channels,omitempty"`
}

// LocalConfig holds settings for the local HTTP chat endpoint.
type LocalConfig struct {
	Host  string `json:"host"`
	Port  int    `json:"port"`
	Token string `json:"token,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `json:"level,omitempty"` // debug, info, warn, error
}

// Load reads configuration from a JSON file. Callers validate the
// slice they need with ValidateServer or ValidateBot.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv builds configuration from GAMEDEX_-prefixed environment
// variables, for container deployments where a config file is one more
// thing to mount.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getenv("GAMEDEX_HOST", DefaultHost),
			Port: getenvInt("GAMEDEX_PORT", DefaultPort),
		},
		Catalog: CatalogConfig{
			Path: getenv("GAMEDEX_DB_PATH", DefaultDBPath),
		},
		Providers: make(map[string]ProviderConfig),
		Bot: BotConfig{
			ToolServerURL:  getenv("GAMEDEX_TOOL_SERVER_URL", DefaultToolServerURL),
			HistoryLimit:   getenvInt("GAMEDEX_HISTORY_LIMIT", 0),
			CatalogRefresh: os.Getenv("GAMEDEX_CATALOG_REFRESH"),
		},
		Log: LogConfig{
			Level: getenv("GAMEDEX_LOG_LEVEL", "info"),
		},
	}

	if apiKey := os.Getenv("GAMEDEX_ANTHROPIC_API_KEY"); apiKey != "" {
		cfg.Providers["default"] = ProviderConfig{
			Type:   "anthropic",
			APIKey: apiKey,
			Model:  os.Getenv("GAMEDEX_MODEL"),
		}
	} else if apiKey := os.Getenv("GAMEDEX_OPENAI_API_KEY"); apiKey != "" {
		cfg.Providers["default"] = ProviderConfig{
			Type:    "openai",
			APIKey:  apiKey,
			BaseURL: os.Getenv("GAMEDEX_OPENAI_BASE_URL"),
			Model:   os.Getenv("GAMEDEX_MODEL"),
		}
	}

	if token := os.Getenv("GAMEDEX_TELEGRAM_TOKEN"); token != "" {
		tg := &TelegramConfig{Token: token}
		if ids := os.Getenv("GAMEDEX_TELEGRAM_ALLOW_FROM"); ids != "" {
			parsed, err := parseInt64List(ids)
			if err != nil {
				return nil, fmt.Errorf("config: GAMEDEX_TELEGRAM_ALLOW_FROM: %w", err)
			}
			tg.AllowFrom = parsed
		}
		if key := os.Getenv("GAMEDEX_VOICE_API_KEY"); key != "" {
			tg.Voice = &VoiceConfig{
				APIKey: key,
				URL:    os.Getenv("GAMEDEX_VOICE_URL"),
				Model:  os.Getenv("GAMEDEX_VOICE_MODEL"),
			}
		}
		cfg.Connectors.Telegram = tg
	}

	if botToken := os.Getenv("GAMEDEX_SLACK_BOT_TOKEN"); botToken != "" {
		cfg.Connectors.Slack = &SlackConfig{
			BotToken: botToken,
			AppToken: os.Getenv("GAMEDEX_SLACK_APP_TOKEN"),
			Channels: splitList(os.Getenv("GAMEDEX_SLACK_CHANNELS")),
		}
	}

	if port := getenvInt("GAMEDEX_LOCAL_PORT", 0); port != 0 {
		cfg.Connectors.Local = &LocalConfig{
			Host:  getenv("GAMEDEX_LOCAL_HOST", "127.0.0.1"),
			Port:  port,
			Token: os.Getenv("GAMEDEX_LOCAL_TOKEN"),
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills zero values so a partial config still works.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = DefaultDBPath
	}
	if c.Bot.ToolServerURL == "" {
		c.Bot.ToolServerURL = DefaultToolServerURL
	}
	if c.Bot.Provider == "" {
		c.Bot.Provider = "default"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// ValidateServer checks the fields the tool server needs.
func (c *Config) ValidateServer() error {
	var errs []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}
	if c.Catalog.Path == "" {
		errs = append(errs, "catalog.path is required")
	}

	return joinErrs(errs)
}

// ValidateBot checks the fields the chat front-end needs.
func (c *Config) ValidateBot() error {
	var errs []string

	if c.Bot.ToolServerURL == "" {
		errs = append(errs, "bot.tool_server_url is required")
	}

	if len(c.Providers) == 0 {
		errs = append(errs, "at least one provider is required")
	} else if _, ok := c.Providers[c.Bot.Provider]; !ok {
		errs = append(errs, fmt.Sprintf("bot.provider references unknown provider %q", c.Bot.Provider))
	}
	for name, p := range c.Providers {
		if p.APIKey == "" {
			errs = append(errs, fmt.Sprintf("providers.%s.api_key is required", name))
		}
		switch p.Type {
		case "", "openai", "anthropic":
		default:
			errs = append(errs, fmt.Sprintf("providers.%s.type %q is not supported", name, p.Type))
		}
	}

	if c.Connectors.Telegram == nil && c.Connectors.Slack == nil && c.Connectors.Local == nil {
		errs = append(errs, "at least one connector is required")
	}
	if c.Connectors.Telegram != nil && c.Connectors.Telegram.Token == "" {
		errs = append(errs, "connectors.telegram.token is required")
	}
	if c.Connectors.Slack != nil {
		if c.Connectors.Slack.BotToken == "" {
			errs = append(errs, "connectors.slack.bot_token is required")
		}
		if c.Connectors.Slack.AppToken == "" {
			errs = append(errs, "connectors.slack.app_token is required")
		}
	}
	if c.Connectors.Local != nil && (c.Connectors.Local.Port < 1 || c.Connectors.Local.Port > 65535) {
		errs = append(errs, fmt.Sprintf("connectors.local.port %d is out of range", c.Connectors.Local.Port))
	}

	return joinErrs(errs)
}

func joinErrs(errs []string) error {
	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func parseInt64List(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	result := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", p)
		}
		result = append(result, n)
	}
	return result, nil
}
