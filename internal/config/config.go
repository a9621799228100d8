package config

import (
	"os"
)

type Config struct {
	DatabaseHost     string
	DatabasePort     string
	DatabaseUser     string
	DatabasePassword string
	DatabaseName     string
	ServerPort       string
	PaymentAPIKey    string
	PaymentAPIBase   string
	AppID            string
	RedemptionSecret string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		DatabaseHost:     getEnv("DATABASE_HOST", "localhost"),
		DatabasePort:     getEnv("DATABASE_PORT", "5432"),
		DatabaseUser:     getEnv("DATABASE_USER", "postgres"),
		DatabasePassword: getEnv("DATABASE_PASSWORD", "password"),
		DatabaseName:     getEnv("DATABASE_NAME", "towerclimb"),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		PaymentAPIKey:    getEnv("PAYMENT_API_KEY", ""),
		PaymentAPIBase:   getEnv("PAYMENT_API_BASE", "https://api.stripe.com"),
		AppID:            getEnv("APP_ID", "tower-climb"),
		RedemptionSecret: getEnv("REDEMPTION_SECRET", "secret"),
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
