package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultPort            = "3000"
	DefaultHubSpotPortalID = "49024019"
	DefaultHubSpotBaseURL  = "https://api.hubapi.com"
)

// Config holds all application configuration values.
// It is built once at startup and only read afterwards.
type Config struct {
	Port             string `mapstructure:"port"`
	HubSpotToken     string `mapstructure:"hubspot_token"`
	HubSpotPortalID  string `mapstructure:"hubspot_portal_id"`
	HubSpotBaseURL   string `mapstructure:"hubspot_base_url"`
	PaymentLinksFile string `mapstructure:"payment_links_file"`
	LogLevel         string `mapstructure:"log_level"`
	LogFormat        string `mapstructure:"log_format"`
	GinMode          string `mapstructure:"gin_mode"`
}

// LoadConfig reads configuration from environment variables
func LoadConfig() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", DefaultPort)
	v.SetDefault("hubspot_token", "")
	v.SetDefault("hubspot_portal_id", DefaultHubSpotPortalID)
	v.SetDefault("hubspot_base_url", DefaultHubSpotBaseURL)
	v.SetDefault("payment_links_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("gin_mode", "release")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// An exported-but-empty variable should behave like an unset one.
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if cfg.HubSpotPortalID == "" {
		cfg.HubSpotPortalID = DefaultHubSpotPortalID
	}
	if cfg.HubSpotBaseURL == "" {
		cfg.HubSpotBaseURL = DefaultHubSpotBaseURL
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("log_format must be json or console, got %q", cfg.LogFormat)
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("gin_mode must be debug, release or test, got %q", cfg.GinMode)
	}
	if !strings.HasPrefix(cfg.HubSpotBaseURL, "http://") && !strings.HasPrefix(cfg.HubSpotBaseURL, "https://") {
		return fmt.Errorf("hubspot_base_url must be an http(s) URL, got %q", cfg.HubSpotBaseURL)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// HasHubSpotToken reports whether CRM calls can be authenticated.
func (c *Config) HasHubSpotToken() bool {
	return c.HubSpotToken != ""
}
