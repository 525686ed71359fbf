// Package config loads CLI configuration from config files, .env files,
// and DBAL_-prefixed environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var AppFs = afero.NewOsFs()

// Config holds the resolved tool configuration.
type Config struct {
	DatabaseURL   string
	Provider      string
	ServerVersion string
	FetchMode     string
	Debug         bool
}

// Load resolves configuration from, in increasing priority: config file,
// .env, .env.local, environment variables.
func Load() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	viper.SetConfigName(".dbal")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(home)
	viper.AddConfigPath(filepath.Join(home, ".config", "dbal"))

	viper.SetEnvPrefix("DBAL")
	viper.AutomaticEnv()

	viper.SetDefault("provider", "sqlite")
	viper.SetDefault("fetch_mode", "buffered")
	viper.SetDefault("debug", false)

	// Missing config file is fine; env and flags still apply.
	_ = viper.ReadInConfig()

	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	cfg := &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Provider:      viper.GetString("provider"),
		ServerVersion: viper.GetString("server_version"),
		FetchMode:     viper.GetString("fetch_mode"),
		Debug:         viper.GetBool("debug"),
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = viper.GetString("database_url")
	}

	return cfg, nil
}

// Save writes the configuration to ~/.config/dbal/.dbal.yaml.
func Save(cfg *Config) error {
	viper.Set("provider", cfg.Provider)
	viper.Set("server_version", cfg.ServerVersion)
	viper.Set("fetch_mode", cfg.FetchMode)
	viper.Set("debug", cfg.Debug)
	if cfg.DatabaseURL != "" {
		viper.Set("database_url", cfg.DatabaseURL)
	}

	home, err := homedir.Dir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(home, ".config", "dbal")
	if err := AppFs.MkdirAll(configPath, 0755); err != nil {
		return err
	}

	return viper.WriteConfigAs(filepath.Join(configPath, ".dbal.yaml"))
}
