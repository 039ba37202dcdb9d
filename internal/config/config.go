// Package config loads the bot configuration from YAML and environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/tonkolab/astrobot/core/config"
	coredatabase "github.com/tonkolab/astrobot/core/database"
)

// OpenAIConfig configures the forecast generation client.
type OpenAIConfig struct {
	APIKey                string  `yaml:"api_key" envconfig:"OPENAI_API_KEY"`
	Model                 string  `yaml:"model" envconfig:"OPENAI_MODEL"`
	RequestTimeoutSeconds int     `yaml:"request_timeout_seconds" envconfig:"OPENAI_REQUEST_TIMEOUT_SECONDS"`
	PreviewMaxTokens      int     `yaml:"preview_max_tokens"`
	FullMaxTokens         int     `yaml:"full_max_tokens"`
	PreviewTemperature    float32 `yaml:"preview_temperature"`
	FullTemperature       float32 `yaml:"full_temperature"`
}

// FunnelConfig holds the sales funnel parameters.
type FunnelConfig struct {
	PriceStars            int    `yaml:"price_stars" envconfig:"FUNNEL_PRICE_STARS"`
	PayloadTag            string `yaml:"payload_tag"`
	FollowupDelaySeconds  int    `yaml:"followup_delay_seconds" envconfig:"FUNNEL_FOLLOWUP_DELAY_SECONDS"`
	FollowupQueueSize     int    `yaml:"followup_queue_size"`
	FollowupWorkers       int    `yaml:"followup_workers"`
}

// Config is the full application configuration.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	OpenAI   OpenAIConfig        `yaml:"openai"`
	Funnel   FunnelConfig        `yaml:"funnel"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required fields and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return err
	}

	if strings.TrimSpace(cfg.OpenAI.APIKey) == "" {
		return fmt.Errorf("openai api key is required")
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4o-mini"
	}
	if cfg.OpenAI.RequestTimeoutSeconds <= 0 {
		cfg.OpenAI.RequestTimeoutSeconds = 60
	}
	if cfg.OpenAI.PreviewMaxTokens <= 0 {
		cfg.OpenAI.PreviewMaxTokens = 400
	}
	if cfg.OpenAI.FullMaxTokens <= 0 {
		cfg.OpenAI.FullMaxTokens = 1200
	}
	if cfg.OpenAI.PreviewTemperature <= 0 {
		cfg.OpenAI.PreviewTemperature = 0.9
	}
	if cfg.OpenAI.FullTemperature <= 0 {
		cfg.OpenAI.FullTemperature = 0.8
	}

	if cfg.Funnel.PriceStars <= 0 {
		cfg.Funnel.PriceStars = 99
	}
	if cfg.Funnel.PayloadTag == "" {
		cfg.Funnel.PayloadTag = "astro2026"
	}
	if cfg.Funnel.FollowupDelaySeconds <= 0 {
		cfg.Funnel.FollowupDelaySeconds = 20
	}
	if cfg.Funnel.FollowupQueueSize <= 0 {
		cfg.Funnel.FollowupQueueSize = 256
	}
	if cfg.Funnel.FollowupWorkers <= 0 {
		cfg.Funnel.FollowupWorkers = 2
	}

	return nil
}
