package utils

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Email     EmailConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Booking   BookingConfig
	Scheduler SchedulerConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Debug       bool
	LogPath     string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type EmailConfig struct {
	SendGridAPIKey string
	From           string
	FromName       string
}

// RedisConfig leaves Addr empty to run without the pricing cache.
type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	PricingCacheTTL time.Duration
}

// KafkaConfig leaves Brokers empty to run without event publishing.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type BookingConfig struct {
	PerEventDefaultHours int
	ReminderWindowHours  int
}

type SchedulerConfig struct {
	SessionCleanup  string
	PaymentReminder string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "venue-booking")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("EMAIL_FROM_NAME", "Venue Booking")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("PRICING_CACHE_TTL", "10m")
	viper.SetDefault("KAFKA_TOPIC", "venue-booking.events")
	viper.SetDefault("PER_EVENT_DEFAULT_HOURS", 24)
	viper.SetDefault("REMINDER_WINDOW_HOURS", 48)
	viper.SetDefault("CRON_SESSION_CLEANUP", "0 0 * * * *")
	viper.SetDefault("CRON_PAYMENT_REMINDER", "0 0 8 * * *")

	// .env is optional, plain environment variables are enough in containers
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:        viper.GetString("APP_NAME"),
			Port:        viper.GetString("PORT"),
			Debug:       viper.GetBool("DEBUG"),
			LogPath:     viper.GetString("LOG_PATH"),
			CORSOrigins: splitList(viper.GetString("CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Email: EmailConfig{
			SendGridAPIKey: viper.GetString("SENDGRID_API_KEY"),
			From:           viper.GetString("EMAIL_FROM"),
			FromName:       viper.GetString("EMAIL_FROM_NAME"),
		},
		Redis: RedisConfig{
			Addr:            viper.GetString("REDIS_ADDR"),
			Password:        viper.GetString("REDIS_PASSWORD"),
			DB:              viper.GetInt("REDIS_DB"),
			PricingCacheTTL: viper.GetDuration("PRICING_CACHE_TTL"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(viper.GetString("KAFKA_BROKERS")),
			Topic:   viper.GetString("KAFKA_TOPIC"),
		},
		Booking: BookingConfig{
			PerEventDefaultHours: viper.GetInt("PER_EVENT_DEFAULT_HOURS"),
			ReminderWindowHours:  viper.GetInt("REMINDER_WINDOW_HOURS"),
		},
		Scheduler: SchedulerConfig{
			SessionCleanup:  viper.GetString("CRON_SESSION_CLEANUP"),
			PaymentReminder: viper.GetString("CRON_PAYMENT_REMINDER"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
