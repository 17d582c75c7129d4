package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultAdminIdentity is the only account allowed into the admin view
// unless admin_identity overrides it.
const DefaultAdminIdentity = "admin@qazzerep.kz"

// Config holds user preferences
type Config struct {
	APIURL         string `yaml:"api_url" json:"api_url"`               // Backend base origin
	PublicURL      string `yaml:"public_url" json:"public_url"`         // Origin embedded in share links
	Language       string `yaml:"language" json:"language"`             // rus, kaz or eng
	AdminIdentity  string `yaml:"admin_identity" json:"admin_identity"` // Identifier allowed into /admin
	ConfirmDelete  bool   `yaml:"confirm_delete" json:"confirm_delete"` // Require confirmation for destructive actions
	ProcessingMS   int    `yaml:"processing_floor_ms" json:"processing_floor_ms"`
	RequestTimeout int    `yaml:"request_timeout_seconds" json:"request_timeout_seconds"`

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// Dir returns ~/.qazzerep
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".qazzerep"), nil
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	logPath := ""
	if dir, err := Dir(); err == nil {
		logPath = filepath.Join(dir, "logs", "qazzerep.log")
	}

	return &Config{
		APIURL:         getEnv("QAZZEREP_API_URL", "http://localhost:8000"),
		PublicURL:      getEnv("QAZZEREP_PUBLIC_URL", "http://localhost:8080"),
		Language:       getEnv("QAZZEREP_LANG", "rus"),
		AdminIdentity:  getEnv("QAZZEREP_ADMIN", DefaultAdminIdentity),
		ConfirmDelete:  true,
		ProcessingMS:   getEnvInt("QAZZEREP_PROCESSING_FLOOR_MS", 2200),
		RequestTimeout: getEnvInt("QAZZEREP_REQUEST_TIMEOUT", 60),
		LogLevel:       getEnv("QAZZEREP_LOG_LEVEL", "INFO"),
		LogFile:        getEnv("QAZZEREP_LOG_FILE", logPath),
		LogConsole:     getEnv("QAZZEREP_LOG_CONSOLE", "false") == "true",
	}
}

// ProcessingFloor is the minimum duration of the compare animation
func (c *Config) ProcessingFloor() time.Duration {
	if c.ProcessingMS < 0 {
		return 0
	}
	return time.Duration(c.ProcessingMS) * time.Millisecond
}

// Timeout is the per-request HTTP timeout
func (c *Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// LoadEnv reads a .env file from the working directory if one exists.
// Variables already set in the environment win.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Path returns ~/.qazzerep/config.yaml
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads config from ~/.qazzerep/config.yaml
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save saves config to ~/.qazzerep/config.yaml
func (c *Config) Save() error {
	configPath, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
