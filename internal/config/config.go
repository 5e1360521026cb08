/**
 * @description
 * This file handles configuration management for the storefront.
 * It loads settings from environment variables, providing defaults for local
 * development against a ledger service on localhost.
 */
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the storefront.
type Config struct {
	ListenAddr          string `mapstructure:"LISTEN_ADDR"`
	LedgerServiceURL    string `mapstructure:"LEDGER_SERVICE_URL"`
	LedgerAPIKey        string `mapstructure:"LEDGER_API_KEY"`
	KVBackend           string `mapstructure:"KV_BACKEND"`
	KVFileDir           string `mapstructure:"KV_FILE_DIR"`
	RedisURL            string `mapstructure:"REDIS_URL"`
	RedisKeyPrefix      string `mapstructure:"REDIS_KEY_PREFIX"`
	RabbitMQURL         string `mapstructure:"RABBITMQ_URL"`
	SubSyncJobSchedule  string `mapstructure:"SUB_SYNC_JOB_SCHEDULE"`
	CatalogJobSchedule  string `mapstructure:"CATALOG_JOB_SCHEDULE"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	viper.SetDefault("LISTEN_ADDR", ":8080")
	viper.SetDefault("KV_BACKEND", "memory")
	viper.SetDefault("KV_FILE_DIR", "./data")
	viper.SetDefault("REDIS_KEY_PREFIX", "storefront")
	viper.SetDefault("SUB_SYNC_JOB_SCHEDULE", "*/15 * * * *") // Every 15 minutes.
	viper.SetDefault("CATALOG_JOB_SCHEDULE", "0 * * * *")     // Hourly.
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("LISTEN_ADDR")
	_ = viper.BindEnv("LEDGER_SERVICE_URL")
	_ = viper.BindEnv("LEDGER_API_KEY")
	_ = viper.BindEnv("KV_BACKEND")
	_ = viper.BindEnv("KV_FILE_DIR")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("REDIS_KEY_PREFIX")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("SUB_SYNC_JOB_SCHEDULE")
	_ = viper.BindEnv("CATALOG_JOB_SCHEDULE")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.LedgerServiceURL == "" {
		return nil, fmt.Errorf("LEDGER_SERVICE_URL is required")
	}
	switch config.KVBackend {
	case "memory", "file", "redis":
	default:
		return nil, fmt.Errorf("unsupported KV_BACKEND %q", config.KVBackend)
	}
	if config.KVBackend == "redis" && config.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required when KV_BACKEND is redis")
	}

	return &config, nil
}
