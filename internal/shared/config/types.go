package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

type TelegramConfig struct {
	BotToken       string `mapstructure:"bot_token"`
	PollingEnabled bool   `mapstructure:"polling_enabled"`
	PollingTimeout int    `mapstructure:"polling_timeout"`
}

// SchedulerConfig controls the reminder promotion tick loop.
type SchedulerConfig struct {
	TickIntervalSeconds  int `mapstructure:"tick_interval_seconds"`
	ShutdownGraceSeconds int `mapstructure:"shutdown_grace_seconds"`
}

// NotifierConfig bounds the outbound notification dispatch pool.
type NotifierConfig struct {
	MaxConcurrency int `mapstructure:"max_concurrency"`
	RetryAttempts  int `mapstructure:"retry_attempts"`
	RetryBaseMS    int `mapstructure:"retry_base_ms"`
}

// SSEConfig bounds the per-connection outbound event queues.
type SSEConfig struct {
	QueueDepth       int `mapstructure:"queue_depth"`
	HeartbeatSeconds int `mapstructure:"heartbeat_seconds"`
}
