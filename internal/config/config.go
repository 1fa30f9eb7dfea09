package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration, shared by the API server
// and the insight CLI.
type Config struct {
	Server struct {
		Addr       string `yaml:"addr"`
		SQLitePath string `yaml:"sqlite_path"`
		JWTSecret  string `yaml:"jwt_secret"`
	} `yaml:"server"`
	Screener struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"screener"`
	Client struct {
		APIBaseURL  string `yaml:"api_base_url"`
		PrefsFile   string `yaml:"prefs_file"`
		SweepCron   string `yaml:"sweep_cron"`
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"client"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Server.SQLitePath = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Server.JWTSecret = v
	}
	if v := os.Getenv("SCREENER_BASE_URL"); v != "" {
		cfg.Screener.BaseURL = v
	}
	if v := os.Getenv("API_BASE_URL"); v != "" {
		cfg.Client.APIBaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.SQLitePath == "" {
		cfg.Server.SQLitePath = "data/stockinsight.db"
	}
	if cfg.Screener.BaseURL == "" {
		cfg.Screener.BaseURL = "https://www.screener.in"
	}
	if cfg.Client.APIBaseURL == "" {
		cfg.Client.APIBaseURL = "http://localhost:8080"
	}
	if cfg.Client.PrefsFile == "" {
		cfg.Client.PrefsFile = "data/prefs.json"
	}
	if cfg.Client.SweepCron == "" {
		cfg.Client.SweepCron = "@every 10m"
	}
	if cfg.Client.RefreshCron == "" {
		cfg.Client.RefreshCron = "@every 30m"
	}

	return cfg, nil
}

// Validate checks that all fields the server requires are set.
func (c *Config) Validate() error {
	if c.Server.JWTSecret == "" {
		return fmt.Errorf("server.jwt_secret is required")
	}
	if c.Server.SQLitePath == "" {
		return fmt.Errorf("server.sqlite_path is required")
	}
	if c.Screener.BaseURL == "" {
		return fmt.Errorf("screener.base_url is required")
	}
	return nil
}
