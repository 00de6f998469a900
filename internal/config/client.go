package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ClientConfig is the operator profile portalctl talks to the admin API with.
type ClientConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Token    string        `yaml:"token"`
	Timeout  time.Duration `yaml:"timeout"`
	Debounce time.Duration `yaml:"debounce"`
	PageSize int           `yaml:"page_size"`
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:  "http://localhost:8080/api/v1",
		Timeout:  15 * time.Second,
		Debounce: 400 * time.Millisecond,
		PageSize: 5,
	}
}

// LoadClientConfig reads the YAML profile at path, if any, then applies
// PORTAL_BASE_URL and PORTAL_TOKEN overrides. A missing file is not an error.
func LoadClientConfig(path string) (ClientConfig, error) {
	cfg := DefaultClientConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read profile: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse profile %s: %w", path, err)
			}
		}
	}

	cfg.BaseURL = getEnv("PORTAL_BASE_URL", cfg.BaseURL)
	cfg.Token = getEnv("PORTAL_TOKEN", cfg.Token)

	if cfg.BaseURL == "" {
		return cfg, errors.New("base_url is required")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 400 * time.Millisecond
	}
	return cfg, nil
}
