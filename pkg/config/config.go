package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// FCMServiceAccount is the raw service-account JSON blob. It is parsed
	// fresh on every dispatch, never cached as a key object.
	FCMServiceAccount string
	// FCMEndpoint is the push gateway base URL.
	FCMEndpoint string
	// FCMTokenURI overrides the credential's token endpoint when set.
	FCMTokenURI string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "sansynapse"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		FCMServiceAccount: getEnv("FCM_SERVICE_ACCOUNT", ""),
		FCMEndpoint:       getEnv("FCM_ENDPOINT", "https://fcm.googleapis.com"),
		FCMTokenURI:       getEnv("FCM_TOKEN_URI", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
