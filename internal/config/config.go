// Package config loads Meridian configuration and builds the logger.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment variables.
func Load(configPath string) (*viper.Viper, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("database.path", "./data/meridian.db")

	// Widget defaults
	v.SetDefault("map.initial_timezone", "UTC")
	v.SetDefault("map.target", "00:00")
	v.SetDefault("map.update_interval", "30s")
	v.SetDefault("map.celebration_window", "5m")
	v.SetDefault("map.history_limit", 100)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("meridian")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/meridian")
	}

	// Environment variable support: MERIDIAN_SERVER_PORT=9090
	v.SetEnvPrefix("MERIDIAN")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is fine -- use defaults
	}

	return v, nil
}
