package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by Credentials
const (
	EnvSchool   = "VPMOBIL_SCHOOL"
	EnvUser     = "VPMOBIL_USER"
	EnvPassword = "VPMOBIL_PASSWORD"
	EnvMode     = "VPCTL_ENV"
)

// AppConfig holds all user-defined persistent settings.
// The password is deliberately not part of it.
type AppConfig struct {
	SchoolCode   int      `json:"school_code,omitempty"`
	Username     string   `json:"username,omitempty"`
	SavedClasses []string `json:"saved_classes,omitempty"`
	DefaultClass string   `json:"default_class,omitempty"`
	AccentColor  string   `json:"accent_color,omitempty"`
}

// getConfigPath returns the absolute path to ~/.vpctl.json
func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".vpctl.json"), nil
}

// Load reads the application configuration from disk.
// Returns an empty struct if the file does not exist.
func Load() (*AppConfig, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &AppConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Save writes the application configuration back to disk.
func Save(cfg *AppConfig) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv reads a .env file from the working directory if there is one.
// Variables already set in the environment win.
func LoadEnv() bool {
	return godotenv.Load(".env") == nil
}

// Account is the login resolved from the environment and the config file
type Account struct {
	SchoolCode int
	Username   string
	Password   string
}

// ResolveAccount merges environment variables over the saved settings.
// The password only ever comes from the environment.
func ResolveAccount(cfg *AppConfig) (Account, error) {
	acc := Account{}
	if cfg != nil {
		acc.SchoolCode = cfg.SchoolCode
		acc.Username = cfg.Username
	}

	if v := os.Getenv(EnvSchool); v != "" {
		code, err := strconv.Atoi(v)
		if err != nil {
			return Account{}, fmt.Errorf("%s must be a number, got %q", EnvSchool, v)
		}
		acc.SchoolCode = code
	}
	if v := os.Getenv(EnvUser); v != "" {
		acc.Username = v
	}
	acc.Password = os.Getenv(EnvPassword)

	return acc, nil
}

// Mode returns "production" or "development" (the default)
func Mode() string {
	if os.Getenv(EnvMode) == "production" {
		return "production"
	}
	return "development"
}
