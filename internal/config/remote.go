package config

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// LoadFromURL fetches configuration from a remote endpoint, for fleets
// where one config service feeds every bot instance. The endpoint must
// answer GET with the same JSON document Load reads from disk.
func LoadFromURL(url, apiKey string) (*Config, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("config: create request: %w", err)
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("config: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("config: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("config: HTTP %d: %s", resp.StatusCode, string(body))
	}

	var cfg Config
	if err := json.Unmarshal(body, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse remote config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}
