package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// TelegramConfig represents the configuration for the Telegram transport
type TelegramConfig struct {
	Token       string        `validate:"required"`
	PollTimeout time.Duration `validate:"gt=0"`
	MaxFileSize int64         `validate:"gt=0"`
	RateRPS     float64       `validate:"gt=0"`
	RateBurst   int           `validate:"gte=1"`
}

// Validate checks the Telegram section for values the bot cannot run with
func (c TelegramConfig) Validate() error {
	return validator.New().Struct(c)
}

// SessionConfig represents the configuration for the session store
type SessionConfig struct {
	Type             string        `validate:"required"`
	TTL              time.Duration `validate:"gt=0"`
	CleanupFrequency time.Duration `validate:"gt=0"`
}

// Validate checks the session section
func (c SessionConfig) Validate() error {
	return validator.New().Struct(c)
}

// MetricsConfig represents the configuration for the metrics exporter
type MetricsConfig struct {
	Enabled       bool
	ListenAddress string `validate:"required"`
}

// CleanerConfig represents the rule lists and weights for the analyzer
type CleanerConfig struct {
	TrackingDomains       []string
	TrackingNamePatterns  []string
	EssentialNamePatterns []string
	RetainOther           bool
	TopOffendersLimit     int `validate:"gt=0"`
	TrackingCookiePenalty int `validate:"gte=0"`
	TrackingPenaltyCap    int `validate:"gte=0,lte=100"`
	FreeTrackingDomains   int `validate:"gte=0"`
	TrackingDomainPenalty int `validate:"gte=0"`
}

// Validate checks the cleaner section
func (c CleanerConfig) Validate() error {
	return validator.New().Struct(c)
}

// SiteProfileConfig represents one recognized site in the profile section
type SiteProfileConfig struct {
	Name          string              `mapstructure:"name" validate:"required"`
	Aliases       []string            `mapstructure:"aliases" validate:"min=1"`
	Category      string              `mapstructure:"category"`
	Points        int                 `mapstructure:"points" validate:"gte=0"`
	Services      []ServiceRuleConfig `mapstructure:"services" validate:"dive"`
	ServicePoints map[string]int      `mapstructure:"service_points"`
	Auth          []string            `mapstructure:"auth"`
}

// ServiceRuleConfig maps domain fragments to one service of a site
type ServiceRuleConfig struct {
	Name string   `mapstructure:"name" validate:"required"`
	Keys []string `mapstructure:"keys" validate:"min=1"`
}

// LevelConfig maps a minimum profile score to a named tier
type LevelConfig struct {
	Name     string `mapstructure:"name" validate:"required"`
	MinScore int    `mapstructure:"min_score" validate:"gte=0"`
}

// ProfileConfig represents the site recognition and scoring section
type ProfileConfig struct {
	AuthBonus    int `validate:"gte=0"`
	ServiceOrder []string
	Levels       []LevelConfig       `validate:"min=1,dive"`
	Sites        []SiteProfileConfig `validate:"dive"`
}

// Validate checks the profile section
func (c ProfileConfig) Validate() error {
	return validator.New().Struct(c)
}

// GetTelegram returns the Telegram configuration
func (c *Config) GetTelegram() (TelegramConfig, error) {
	pollTimeout, err := c.GetDuration("telegram.poll_timeout")
	if err != nil {
		return TelegramConfig{}, fmt.Errorf("telegram.poll_timeout: %w", err)
	}
	return TelegramConfig{
		Token:       c.GetString("telegram.token"),
		PollTimeout: pollTimeout,
		MaxFileSize: c.GetInt64("telegram.max_file_size"),
		RateRPS:     c.GetFloat64("telegram.rate.rps"),
		RateBurst:   c.GetInt("telegram.rate.burst"),
	}, nil
}

// GetSession returns the session store configuration
func (c *Config) GetSession() (SessionConfig, error) {
	ttl, err := c.GetDuration("session.ttl")
	if err != nil {
		return SessionConfig{}, fmt.Errorf("session.ttl: %w", err)
	}
	cleanupFreq, err := c.GetDuration("session.cleanup_frequency")
	if err != nil {
		return SessionConfig{}, fmt.Errorf("session.cleanup_frequency: %w", err)
	}
	return SessionConfig{
		Type:             c.GetString("session.type"),
		TTL:              ttl,
		CleanupFrequency: cleanupFreq,
	}, nil
}

// GetMetrics returns the metrics exporter configuration
func (c *Config) GetMetrics() MetricsConfig {
	return MetricsConfig{
		Enabled:       c.GetBool("metrics.enabled"),
		ListenAddress: c.GetString("metrics.listen_address"),
	}
}

// GetCleaner returns the analyzer rule configuration
func (c *Config) GetCleaner() CleanerConfig {
	return CleanerConfig{
		TrackingDomains:       c.GetStringSlice("cleaner.tracking_domains"),
		TrackingNamePatterns:  c.GetStringSlice("cleaner.tracking_name_patterns"),
		EssentialNamePatterns: c.GetStringSlice("cleaner.essential_name_patterns"),
		RetainOther:           c.GetBool("cleaner.retain_other"),
		TopOffendersLimit:     c.GetInt("cleaner.top_offenders_limit"),
		TrackingCookiePenalty: c.GetInt("cleaner.score.tracking_cookie_penalty"),
		TrackingPenaltyCap:    c.GetInt("cleaner.score.tracking_penalty_cap"),
		FreeTrackingDomains:   c.GetInt("cleaner.score.free_tracking_domains"),
		TrackingDomainPenalty: c.GetInt("cleaner.score.tracking_domain_penalty"),
	}
}

// GetProfile returns the site profile configuration
func (c *Config) GetProfile() (ProfileConfig, error) {
	cfg := ProfileConfig{
		AuthBonus:    c.GetInt("profile.auth_bonus"),
		ServiceOrder: c.GetStringSlice("profile.service_order"),
	}
	if err := c.UnmarshalKey("profile.levels", &cfg.Levels); err != nil {
		return ProfileConfig{}, fmt.Errorf("profile.levels: %w", err)
	}
	if err := c.UnmarshalKey("profile.sites", &cfg.Sites); err != nil {
		return ProfileConfig{}, fmt.Errorf("profile.sites: %w", err)
	}
	return cfg, nil
}
