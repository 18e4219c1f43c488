package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis configuration (task queue backend).
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Chapa payment gateway.
	ChapaBaseURL   string `mapstructure:"CHAPA_BASE_URL"`
	ChapaSecretKey string `mapstructure:"CHAPA_SECRET_KEY"`

	// Outbound email.
	SMTPHost         string `mapstructure:"SMTP_HOST"`
	SMTPPort         int    `mapstructure:"SMTP_PORT"`
	SMTPUser         string `mapstructure:"SMTP_USER"`
	SMTPPassword     string `mapstructure:"SMTP_PASSWORD"`
	DefaultFromEmail string `mapstructure:"DEFAULT_FROM_EMAIL"`

	MaxRequestsPerMin int `mapstructure:"MAX_REQUESTS_PER_MIN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_QUEUE_DB", 0)
	viper.SetDefault("CHAPA_BASE_URL", "https://api.chapa.co")
	viper.SetDefault("SMTP_HOST", "localhost")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("DEFAULT_FROM_EMAIL", "no-reply@example.com")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
