package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/cookiescrub/")
	v.AddConfigPath("$HOME/.cookiescrub")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("COOKIESCRUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromFile creates a configuration instance from an explicit config
// file, skipping the search paths. A missing file is an error here,
// unlike the default search.
func NewFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("COOKIESCRUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Telegram defaults
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.poll_timeout", "10s")
	v.SetDefault("telegram.max_file_size", 1048576)
	v.SetDefault("telegram.rate.rps", 0.2)
	v.SetDefault("telegram.rate.burst", 3)

	// Session defaults
	v.SetDefault("session.type", "memory")
	v.SetDefault("session.ttl", "30m")
	v.SetDefault("session.cleanup_frequency", "10m")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.listen_address", "0.0.0.0:9090")

	// Cleaner defaults
	v.SetDefault("cleaner.retain_other", false)
	v.SetDefault("cleaner.top_offenders_limit", 10)
	v.SetDefault("cleaner.tracking_domains", defaultTrackingDomains)
	v.SetDefault("cleaner.tracking_name_patterns", defaultTrackingNamePatterns)
	v.SetDefault("cleaner.essential_name_patterns", defaultEssentialNamePatterns)

	// Scoring defaults
	v.SetDefault("cleaner.score.tracking_cookie_penalty", 2)
	v.SetDefault("cleaner.score.tracking_penalty_cap", 50)
	v.SetDefault("cleaner.score.free_tracking_domains", 3)
	v.SetDefault("cleaner.score.tracking_domain_penalty", 3)

	// Profile defaults
	v.SetDefault("profile.auth_bonus", 5)
	v.SetDefault("profile.service_order", defaultServiceOrder)
	v.SetDefault("profile.levels", defaultLevels)
	v.SetDefault("profile.sites", defaultSiteProfiles)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetInt64 gets an int64 value from the configuration
func (c *Config) GetInt64(key string) int64 {
	return c.v.GetInt64(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// UnmarshalKey decodes one configuration section into a struct
func (c *Config) UnmarshalKey(key string, out interface{}) error {
	return c.v.UnmarshalKey(key, out)
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
