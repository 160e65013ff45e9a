package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string
	JWTSecret  string

	// CheckoutLockTimeoutMS bounds the wait on inventory row locks
	// during checkout. 0 disables the bound.
	CheckoutLockTimeoutMS int

	// NotifyBuffer is the size of the delivery-notification queue.
	NotifyBuffer int
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:                os.Getenv("DB_HOST"),
		DBUser:                os.Getenv("DB_USER"),
		DBPassword:            os.Getenv("DB_PASSWORD"),
		DBName:                os.Getenv("DB_NAME"),
		DBPort:                os.Getenv("DB_PORT"),
		AppPort:               os.Getenv("APP_PORT"),
		AppEnv:                os.Getenv("APP_ENV"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		CheckoutLockTimeoutMS: envInt("CHECKOUT_LOCK_TIMEOUT_MS", 3000),
		NotifyBuffer:          envInt("NOTIFY_BUFFER", 64),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d", key, raw, fallback)
		return fallback
	}
	return n
}
