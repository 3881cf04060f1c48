package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Logger    Logger    `mapstructure:"logger"`
	Server    Server    `mapstructure:"server"`
	Database  Database  `mapstructure:"database"`
	Dashboard Dashboard `mapstructure:"dashboard"`
	Upbit     Upbit     `mapstructure:"upbit"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// File, when set, additionally writes json logs to a rotated file.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the trade record store.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Dashboard holds the parameters of the analytics engine.
type Dashboard struct {
	FeeRate    float64 `mapstructure:"fee_rate"`
	TimeFormat string  `mapstructure:"time_format"`
}

// Upbit holds the configuration for the optional live price feed.
type Upbit struct {
	Enabled        bool    `mapstructure:"enabled"`
	BaseURL        string  `mapstructure:"base_url"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

// LoadConfig reads configuration from file or environment variables.
// A .env file in the working directory is loaded first when present.
func LoadConfig(path string) (config Config, err error) {
	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	err = v.ReadInConfig()
	if err != nil {
		return
	}

	err = v.Unmarshal(&config)
	return
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.max_size_mb", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age_days", 28)
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.dsn", "crypto_trades.db")
	v.SetDefault("dashboard.fee_rate", 0.0005) // upbit taker fee
	v.SetDefault("dashboard.time_format", "2006-01-02 15:04")
	v.SetDefault("upbit.base_url", "https://api.upbit.com/v1")
	v.SetDefault("upbit.rate_limit", 8) // requests per second
	v.SetDefault("upbit.rate_limit_burst", 1)
	v.SetDefault("upbit.timeout_seconds", 5)
}
