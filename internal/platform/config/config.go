package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	IsProduction  bool
	EnableDBCheck bool

	// Pool and locking
	DBMaxConns    int32
	DBLockTimeout time.Duration

	LogLevel  string
	LogFormat string

	// Dashboard
	DashboardTopCategories  int
	RecentTransactionsLimit int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", true)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_LOCK_TIMEOUT", "5s")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("DASHBOARD_TOP_CATEGORIES", 5)
	viper.SetDefault("RECENT_TRANSACTIONS_LIMIT", 5)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	maxConns := viper.GetInt("DB_MAX_CONNS")
	if maxConns <= 0 {
		log.Printf("Warning: Invalid value for DB_MAX_CONNS (%d). Defaulting to 10.\n", maxConns)
		maxConns = 10
	}
	cfg.DBMaxConns = int32(maxConns)

	lockTimeoutStr := viper.GetString("DB_LOCK_TIMEOUT")
	lockTimeout, err := time.ParseDuration(lockTimeoutStr)
	if err != nil || lockTimeout <= 0 {
		lockTimeout = 5 * time.Second
		log.Printf("Warning: Invalid value for DB_LOCK_TIMEOUT ('%s'). Defaulting to %s.\n", lockTimeoutStr, lockTimeout)
	}
	cfg.DBLockTimeout = lockTimeout

	cfg.LogLevel = viper.GetString("LOG_LEVEL")
	cfg.LogFormat = viper.GetString("LOG_FORMAT")

	cfg.DashboardTopCategories = viper.GetInt("DASHBOARD_TOP_CATEGORIES")
	if cfg.DashboardTopCategories <= 0 {
		cfg.DashboardTopCategories = 5
	}
	cfg.RecentTransactionsLimit = viper.GetInt("RECENT_TRANSACTIONS_LIMIT")
	if cfg.RecentTransactionsLimit <= 0 {
		cfg.RecentTransactionsLimit = 5
	}

	return cfg, nil
}
