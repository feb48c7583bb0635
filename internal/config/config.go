package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из TOML файла.
// Бизнес-политики (окно отмены, параметры OTP) здесь НЕ живут -
// они читаются из таблицы system_config при каждом вызове.
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Auth          AuthConfig          `toml:"auth"`
	OTP           OTPConfig           `toml:"otp"`
	WhatsApp      WhatsAppConfig      `toml:"whatsapp"`
	SMTP          SMTPConfig          `toml:"smtp"`
	Notifications NotificationsConfig `toml:"notifications"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN собирает строку подключения к PostgreSQL
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AuthConfig настройки выпуска сессионных токенов
type AuthConfig struct {
	JWTSecret             string `toml:"jwt_secret"`
	AccessTokenTTLMinutes int    `toml:"access_token_ttl_minutes"`
	RefreshTokenTTLDays   int    `toml:"refresh_token_ttl_days"`
}

// OTPConfig настройки OTP подсистемы.
// TestCode включает тестовый режим: фиксированный код вместо случайного,
// без cooldown и без отправки. НИКОГДА не включать в production.
type OTPConfig struct {
	TestCode string `toml:"test_code"`
}

// WhatsAppConfig настройки WhatsApp Cloud API (доставка OTP)
type WhatsAppConfig struct {
	AccessToken   string `toml:"access_token"`
	PhoneNumberID string `toml:"phone_number_id"`
	APIVersion    string `toml:"api_version"`
	TemplateName  string `toml:"template_name"`
	Timeout       int    `toml:"timeout"` // секунды
}

// SMTPConfig настройки почтовых уведомлений
type SMTPConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
}

// NotificationsConfig настройки асинхронной отправки уведомлений
type NotificationsConfig struct {
	Timeout int `toml:"timeout"` // секунды, собственный таймаут fire-and-forget отправки
}

// Load загружает конфигурацию из TOML файла и применяет дефолты
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "rmv-core-service"
	}
	if c.Auth.AccessTokenTTLMinutes == 0 {
		c.Auth.AccessTokenTTLMinutes = 15
	}
	if c.Auth.RefreshTokenTTLDays == 0 {
		c.Auth.RefreshTokenTTLDays = 7
	}
	if c.WhatsApp.APIVersion == "" {
		c.WhatsApp.APIVersion = "v21.0"
	}
	if c.WhatsApp.TemplateName == "" {
		c.WhatsApp.TemplateName = "otp_verification"
	}
	if c.WhatsApp.Timeout == 0 {
		c.WhatsApp.Timeout = 10
	}
	if c.Notifications.Timeout == 0 {
		c.Notifications.Timeout = 15
	}
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("config: auth.jwt_secret is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	return nil
}
