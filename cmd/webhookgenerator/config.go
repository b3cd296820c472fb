package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type config struct {
	BaseURL     string `mapstructure:"base_url"`
	Source      string `mapstructure:"source"`
	Token       string `mapstructure:"token"`
	Secret      string `mapstructure:"secret"`
	Interval    string `mapstructure:"interval"`
	Seed        uint64 `mapstructure:"seed"`
	MaxChanges  int    `mapstructure:"max_changes"`
	Count       int    `mapstructure:"count"`
	CloudEvents bool   `mapstructure:"cloudevents"`
}

func loadConfig(path string) (config, error) {
	if strings.TrimSpace(path) == "" {
		return config{}, fmt.Errorf("config path is required")
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("interval", "2s")
	v.SetDefault("seed", 1)
	v.SetDefault("max_changes", 4)
	if err := v.ReadInConfig(); err != nil {
		return config{}, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Source = strings.ToLower(strings.TrimSpace(cfg.Source))
	cfg.Token = strings.TrimSpace(cfg.Token)
	cfg.Secret = strings.TrimSpace(cfg.Secret)
	cfg.Interval = strings.TrimSpace(cfg.Interval)

	if cfg.BaseURL == "" || cfg.Source == "" || cfg.Token == "" || cfg.Secret == "" {
		return config{}, fmt.Errorf("config must include base_url, source, token, secret")
	}

	parsed, err := time.ParseDuration(cfg.Interval)
	if err != nil {
		return config{}, fmt.Errorf("invalid interval duration: %w", err)
	}
	if parsed <= 0 {
		return config{}, fmt.Errorf("interval must be positive")
	}
	if cfg.MaxChanges <= 0 {
		cfg.MaxChanges = 4
	}

	return cfg, nil
}

func (c config) interval() time.Duration {
	d, _ := time.ParseDuration(c.Interval)
	return d
}
