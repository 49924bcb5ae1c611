package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DBUrl            string
	PaymentKeySecret string
	WebhookSecret    string
	OpenAIAPIKey     string
	OpenAIModel      string
	SMTPHost         string
	SMTPPort         string
	EmailUser        string
	EmailPass        string
	AppEnv           string
	DisplayTZ        *time.Location
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	paymentSecret, exists := os.LookupEnv("PAYMENT_KEY_SECRET")
	if !exists || paymentSecret == "" {
		return nil, fmt.Errorf("PAYMENT_KEY_SECRET is required")
	}

	tzName := getEnv("DISPLAY_TIMEZONE", "Asia/Kolkata")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", tzName, err)
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		DBUrl:            getEnv("DB_URL", ""),
		PaymentKeySecret: paymentSecret,
		WebhookSecret:    getEnv("WEBHOOK_SECRET", ""),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4-turbo"),
		SMTPHost:         getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:         getEnv("SMTP_PORT", "587"),
		EmailUser:        getEnv("EMAIL_USER", ""),
		EmailPass:        getEnv("EMAIL_PASS", ""),
		AppEnv:           normalizeEnv(getEnv("APP_ENV", "production")),
		DisplayTZ:        loc,
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}
