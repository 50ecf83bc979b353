// Package config loads the application configuration from file and
// environment.
package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/recurra-io/recurra/internal/shared/config"
)

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server"`
	Database  sharedConfig.DatabaseConfig  `mapstructure:"database"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	Auth      sharedConfig.AuthConfig      `mapstructure:"auth"`
	Email     sharedConfig.EmailConfig     `mapstructure:"email"`
	Telegram  sharedConfig.TelegramConfig  `mapstructure:"telegram"`
	Scheduler sharedConfig.SchedulerConfig `mapstructure:"scheduler"`
	Notifier  sharedConfig.NotifierConfig  `mapstructure:"notifier"`
	SSE       sharedConfig.SSEConfig       `mapstructure:"sse"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Bare aliases for the core runtime knobs, usable without the RECURRA_
// prefix. The prefixed form wins when both are set.
var envAliases = map[string]string{
	"scheduler.tick_interval_seconds":  "TICK_INTERVAL_SECONDS",
	"scheduler.shutdown_grace_seconds": "SHUTDOWN_GRACE_SECONDS",
	"notifier.max_concurrency":         "NOTIFIER_MAX_CONCURRENCY",
	"sse.queue_depth":                  "SSE_QUEUE_DEPTH",
}

// Load loads configuration from file and environment variables. Environment
// variables use the RECURRA_ prefix with dots replaced by underscores, e.g.
// RECURRA_SCHEDULER_TICK_INTERVAL_SECONDS; the keys in envAliases also accept
// their bare names.
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("RECURRA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	for key, alias := range envAliases {
		prefixed := "RECURRA_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := viper.BindEnv(key, prefixed, alias); err != nil {
			return nil, fmt.Errorf("failed to bind env alias %s: %w", alias, err)
		}
	}

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing file is fine; defaults plus environment cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration.
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.base_url", "http://localhost:8080")
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "recurra")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.database", "recurra.db")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	viper.SetDefault("auth.jwt.secret", "change-me-in-production")
	viper.SetDefault("auth.jwt.access_exp_minutes", 43200)

	viper.SetDefault("email.smtp_host", "")
	viper.SetDefault("email.smtp_port", 587)
	viper.SetDefault("email.from_address", "reminders@localhost")
	viper.SetDefault("email.from_name", "Recurra")

	viper.SetDefault("telegram.bot_token", "")
	viper.SetDefault("telegram.polling_enabled", false)
	viper.SetDefault("telegram.polling_timeout", 30)

	viper.SetDefault("scheduler.tick_interval_seconds", 60)
	viper.SetDefault("scheduler.shutdown_grace_seconds", 10)

	viper.SetDefault("notifier.max_concurrency", 16)
	viper.SetDefault("notifier.retry_attempts", 3)
	viper.SetDefault("notifier.retry_base_ms", 2000)

	viper.SetDefault("sse.queue_depth", 64)
	viper.SetDefault("sse.heartbeat_seconds", 30)
}
