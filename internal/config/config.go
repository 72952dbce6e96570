package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Billing  BillingConfig  `mapstructure:"billing"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port" envconfig:"SERVER_PORT"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds" envconfig:"SERVER_TIMEOUT_SECONDS"`
	RateLimitRPS   float64  `mapstructure:"rate_limit_rps" envconfig:"SERVER_RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst" envconfig:"SERVER_RATE_LIMIT_BURST"`
	CORSOrigins    []string `mapstructure:"cors_origins" envconfig:"SERVER_CORS_ORIGINS"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host" envconfig:"DB_HOST"`
	Port     int    `mapstructure:"port" envconfig:"DB_PORT"`
	User     string `mapstructure:"user" envconfig:"DB_USER"`
	Password string `mapstructure:"password" envconfig:"DB_PASSWORD"`
	Name     string `mapstructure:"name" envconfig:"DB_NAME"`
	SSLMode  string `mapstructure:"sslmode" envconfig:"DB_SSLMODE"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type RedisConfig struct {
	URL          string `mapstructure:"url" envconfig:"REDIS_URL"`
	PoolSize     int    `mapstructure:"pool_size" envconfig:"REDIS_POOL_SIZE"`
	MinIdleConns int    `mapstructure:"min_idle_conns" envconfig:"REDIS_MIN_IDLE_CONNS"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret" envconfig:"JWT_SECRET"`
	ExpiryHours int    `mapstructure:"expiry_hours" envconfig:"JWT_EXPIRY_HOURS"`
}

func (c JWTConfig) Expiry() time.Duration {
	return time.Duration(c.ExpiryHours) * time.Hour
}

// GatewayConfig configures the payment gateway client. ReturnURL is where the
// gateway redirects the payer after checkout.
type GatewayConfig struct {
	BaseURL        string `mapstructure:"base_url" envconfig:"GATEWAY_BASE_URL"`
	APIKey         string `mapstructure:"api_key" envconfig:"GATEWAY_API_KEY"`
	ReturnURL      string `mapstructure:"return_url" envconfig:"GATEWAY_RETURN_URL"`
	CancelURL      string `mapstructure:"cancel_url" envconfig:"GATEWAY_CANCEL_URL"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" envconfig:"GATEWAY_TIMEOUT_SECONDS"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host" envconfig:"SMTP_HOST"`
	Port     int    `mapstructure:"port" envconfig:"SMTP_PORT"`
	Username string `mapstructure:"username" envconfig:"SMTP_USERNAME"`
	Password string `mapstructure:"password" envconfig:"SMTP_PASSWORD"`
	From     string `mapstructure:"from" envconfig:"SMTP_FROM"`
}

type BillingConfig struct {
	InsuranceDiscountPct int `mapstructure:"insurance_discount_pct" envconfig:"BILLING_INSURANCE_DISCOUNT_PCT"`
	UnpaidExpiryHours    int `mapstructure:"unpaid_expiry_hours" envconfig:"BILLING_UNPAID_EXPIRY_HOURS"`
}

type WorkerConfig struct {
	BillExpirySpec string `mapstructure:"bill_expiry_spec" envconfig:"WORKER_BILL_EXPIRY_SPEC"`
	ReminderSpec   string `mapstructure:"reminder_spec" envconfig:"WORKER_REMINDER_SPEC"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" envconfig:"LOG_LEVEL"`
	Pretty bool   `mapstructure:"pretty" envconfig:"LOG_PRETTY"`
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.timeout_seconds", 30)
	viper.SetDefault("server.rate_limit_rps", 50)
	viper.SetDefault("server.rate_limit_burst", 100)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.min_idle_conns", 2)
	viper.SetDefault("jwt.expiry_hours", 24)
	viper.SetDefault("gateway.timeout_seconds", 10)
	viper.SetDefault("billing.insurance_discount_pct", 10)
	viper.SetDefault("billing.unpaid_expiry_hours", 24)
	viper.SetDefault("worker.bill_expiry_spec", "@every 15m")
	viper.SetDefault("worker.reminder_spec", "0 8 * * *")
	viper.SetDefault("log.level", "info")
}

// LoadConfig reads config.yaml then applies environment overrides.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process env overrides: %w", err)
	}

	return &config, nil
}
