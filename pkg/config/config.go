package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            string
	Env             string
	AdminKey        string
	StoreDriver     string
	MongoURI        string
	MongoDatabase   string
	PostgresConnStr string
	CooldownSeconds int
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		AdminKey:        getEnv("ADMIN_KEY", "admin123"),
		StoreDriver:     getEnv("STORE_DRIVER", "memory"),
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDatabase:   getEnv("MONGO_DB", "confessit"),
		PostgresConnStr: getEnv("POSTGRES_CONN_STR", ""),
		CooldownSeconds: getEnvInt("POST_COOLDOWN_SECONDS", 60),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
