// Package config loads the siteapi YAML configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the top-level siteapi configuration file.
type YAMLConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	Storage   StorageConfig   `yaml:"storage"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig controls the HTTP server behavior.
type ServerConfig struct {
	Host            string     `yaml:"host"`
	Port            int        `yaml:"port"`
	ShutdownTimeout string     `yaml:"shutdown_timeout"`
	CORS            CORSConfig `yaml:"cors"`
}

// CORSConfig controls cross-origin resource sharing settings.
type CORSConfig struct {
	Origins []string `yaml:"origins"`
}

// AuthConfig controls token signing and the root superadmin account.
type AuthConfig struct {
	TokenSecret        string `yaml:"token_secret"`
	TokenTTLHours      int    `yaml:"token_ttl_hours"`
	SuperadminEmail    string `yaml:"superadmin_email"`
	SuperadminPassword string `yaml:"superadmin_password"`
}

// StorageConfig controls where the database and uploaded files live.
type StorageConfig struct {
	DataDir   string `yaml:"data_dir"`
	UploadDir string `yaml:"upload_dir"`
}

// SMTPConfig controls the outgoing mail account. Leave host or username
// empty to disable email notifications.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// RateLimitConfig controls throttling of public form submissions.
type RateLimitConfig struct {
	PublicPerMinute int `yaml:"public_per_minute"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LoadYAMLConfig reads and parses a YAML configuration file. Environment
// variables referenced as ${VAR_NAME} in the file are expanded before parsing.
func LoadYAMLConfig(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand environment variables: ${VAR_NAME}
	content := os.ExpandEnv(string(data))

	cfg := DefaultYAMLConfig()
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// DefaultYAMLConfig returns a YAMLConfig pre-filled with sensible defaults.
func DefaultYAMLConfig() *YAMLConfig {
	return &YAMLConfig{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ShutdownTimeout: "30s",
			CORS: CORSConfig{
				Origins: []string{"*"},
			},
		},
		Auth: AuthConfig{
			TokenTTLHours: 24,
		},
		Storage: StorageConfig{
			// DataDir left empty: commands fall back to ~/.siteapi so that
			// serve, admin, status and stop all agree on one location.
			UploadDir: "uploads",
		},
		SMTP: SMTPConfig{
			Port: 587,
		},
		RateLimit: RateLimitConfig{
			PublicPerMinute: 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// WriteDefaultConfig writes the default configuration to a YAML file.
func WriteDefaultConfig(path string) error {
	cfg := DefaultYAMLConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
