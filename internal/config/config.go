// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package config loads YAML configuration with defaults and named
// profiles for different review scenarios.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// Default settings
	Defaults struct {
		Format   string `yaml:"format"`
		EnableAI bool   `yaml:"enable_ai"`
		NoColor  bool   `yaml:"no_color"`
		// MaxInputBytes bounds accepted document size; 0 keeps the
		// built-in limit.
		MaxInputBytes int `yaml:"max_input_bytes"`
	} `yaml:"defaults"`

	// AI analyzer settings
	AI struct {
		Model                  string   `yaml:"model"`
		FallbackModels         []string `yaml:"fallback_models"`
		MaxInputChars          int      `yaml:"max_input_chars"`
		RequestTimeoutSeconds  int      `yaml:"request_timeout_seconds"`
		BreakerThreshold       int      `yaml:"breaker_threshold"`
		BreakerCooldownSeconds int      `yaml:"breaker_cooldown_seconds"`
	} `yaml:"ai"`

	// Moderation screening settings
	Moderation struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"moderation"`

	// Server settings
	Server struct {
		Port      int `yaml:"port"`
		RateLimit struct {
			RequestsPerWindow int `yaml:"requests_per_window"`
			WindowSeconds     int `yaml:"window_seconds"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`

	// Profiles for different review scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile represents a review profile with specific settings.
type Profile struct {
	Description string `yaml:"description"`
	Format      string `yaml:"format"`
	EnableAI    bool   `yaml:"enable_ai"`
	NoColor     bool   `yaml:"no_color"`
}

// RequestTimeout returns the AI request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.AI.RequestTimeoutSeconds) * time.Second
}

// BreakerCooldown returns the per-model breaker cooldown as a duration.
func (c *Config) BreakerCooldown() time.Duration {
	return time.Duration(c.AI.BreakerCooldownSeconds) * time.Second
}

// RateLimitWindow returns the server rate-limit window as a duration.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.Server.RateLimit.WindowSeconds) * time.Second
}

// LoadConfig loads configuration from the specified file path. An empty
// path returns the built-in defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := defaultConfig()

	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Store default values before unmarshaling
	defaultModerationEnabled := config.Moderation.Enabled

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Restore defaults if not explicitly set in config file. YAML
	// unmarshaling sets absent bool fields to false.
	if !containsField(data, "moderation", "enabled") {
		config.Moderation.Enabled = defaultModerationEnabled
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func defaultConfig() *Config {
	config := &Config{
		Profiles: make(map[string]Profile),
	}

	config.Defaults.Format = "text"
	config.Defaults.EnableAI = false
	config.Defaults.NoColor = false

	config.AI.FallbackModels = nil
	config.AI.RequestTimeoutSeconds = 60
	config.AI.BreakerCooldownSeconds = 30

	config.Moderation.Enabled = true

	config.Server.Port = 8080
	config.Server.RateLimit.RequestsPerWindow = 30
	config.Server.RateLimit.WindowSeconds = 60

	config.Profiles["quick"] = Profile{
		Description: "Rule-based review only, no remote calls",
		Format:      "text",
		EnableAI:    false,
	}
	config.Profiles["thorough"] = Profile{
		Description: "Rule-based review combined with AI analysis",
		Format:      "text",
		EnableAI:    true,
	}
	return config
}

// ValidateConfig checks settings a typo would otherwise break at runtime.
func ValidateConfig(config *Config) error {
	switch config.Defaults.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown format %q (expected text or json)", config.Defaults.Format)
	}
	if config.Server.Port < 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", config.Server.Port)
	}
	if config.Server.RateLimit.WindowSeconds < 0 {
		return fmt.Errorf("invalid rate limit window %d", config.Server.RateLimit.WindowSeconds)
	}
	for name, profile := range config.Profiles {
		switch profile.Format {
		case "", "text", "json":
		default:
			return fmt.Errorf("profile %q: unknown format %q", name, profile.Format)
		}
	}
	return nil
}

// FindConfigFile looks for a configuration file in standard locations.
func FindConfigFile() string {
	// Check current directory first
	for _, name := range []string{"clausecheck.yaml", "clausecheck.yml", "config.yaml", ".clausecheck.yaml"} {
		if fileExists(name) {
			return name
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeConfig := filepath.Join(home, ".clausecheck.yaml")
	if fileExists(homeConfig) {
		return homeConfig
	}

	// Check XDG config directory
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	for _, name := range []string{"config.yaml", "config.yml"} {
		candidate := filepath.Join(xdgConfig, "clausecheck", name)
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

// ListProfiles returns available profile names, sorted.
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles
}

// GetProfile returns a profile by name, or nil if not found.
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// containsField checks if a nested field exists in the YAML data.
func containsField(data []byte, path ...string) bool {
	var yamlData map[string]interface{}
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return false
	}

	current := yamlData
	for i, key := range path {
		value, exists := current[key]
		if !exists {
			return false
		}
		if i == len(path)-1 {
			return true
		}
		next, ok := value.(map[string]interface{})
		if !ok {
			return false
		}
		current = next
	}
	return false
}

// fileExists checks if a file exists and is not a directory.
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
