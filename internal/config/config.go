package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the partner service
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	NATS     NATSConfig     `mapstructure:"nats"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Tracker  TrackerConfig  `mapstructure:"tracker"`
	Services ServicesConfig `mapstructure:"services"`
	HTTP     HTTPConfig     `mapstructure:"http"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// RedisConfig holds Redis cache configuration
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL string `mapstructure:"url"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// TrackerConfig holds ClickWave tracking network configuration
type TrackerConfig struct {
	APIKey         string `mapstructure:"api_key"`
	APISecret      string `mapstructure:"api_secret"`
	PostbackSecret string `mapstructure:"postback_secret"`
	IsSandbox      bool   `mapstructure:"is_sandbox"`
}

// ServicesConfig holds URLs for other AffableLink microservices
type ServicesConfig struct {
	BillingURL string `mapstructure:"billing_url"`
}

// HTTPConfig holds HTTP surface configuration
type HTTPConfig struct {
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Automatically load environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("") // No prefix, read exact variable names

	// Bind specific environment variables
	_ = v.BindEnv("app.name", "APP_NAME")
	_ = v.BindEnv("app.env", "APP_ENV")
	_ = v.BindEnv("app.port", "APP_PORT")

	_ = v.BindEnv("database.host", "DB_HOST")
	_ = v.BindEnv("database.port", "DB_PORT")
	_ = v.BindEnv("database.user", "DB_USER")
	_ = v.BindEnv("database.password", "DB_PASSWORD")
	_ = v.BindEnv("database.name", "DB_NAME")
	_ = v.BindEnv("database.ssl_mode", "DB_SSLMODE")

	// Redis
	_ = v.BindEnv("redis.host", "REDIS_HOST")
	_ = v.BindEnv("redis.port", "REDIS_PORT")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")

	_ = v.BindEnv("nats.url", "NATS_URL")

	_ = v.BindEnv("jwt.secret", "JWT_SECRET")

	// Tracker
	_ = v.BindEnv("tracker.api_key", "CLICKWAVE_API_KEY")
	_ = v.BindEnv("tracker.api_secret", "CLICKWAVE_API_SECRET")
	_ = v.BindEnv("tracker.postback_secret", "CLICKWAVE_POSTBACK_SECRET")
	_ = v.BindEnv("tracker.is_sandbox", "CLICKWAVE_SANDBOX")

	// Services
	_ = v.BindEnv("services.billing_url", "SERVICE_BILLING_URL")

	// HTTP
	_ = v.BindEnv("http.allowed_origins", "ALLOWED_ORIGINS")

	// Set defaults
	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "service-partner")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8011")

	// Database
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.ssl_mode", "disable")

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// NATS
	v.SetDefault("nats.url", "nats://localhost:4222")

	// Tracker
	v.SetDefault("tracker.is_sandbox", true)

	// Services
	v.SetDefault("services.billing_url", "http://localhost:8007")

	// HTTP
	v.SetDefault("http.allowed_origins", "http://localhost:3000,http://localhost:3001")
}
