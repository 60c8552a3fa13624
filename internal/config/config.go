package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	JWTSecret     string
	OpenAIAPIKey  string
	AppEnv        string
	GinMode       string
	LogFile       string
}

// Load reads configuration from the environment, with a .env file as an
// optional local override.
func Load() *Config {
	// A missing .env is fine; deployments set real environment variables.
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8080"),
		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "taskboard"),
		JWTSecret:     getEnv("JWT_SECRET", "default-secret-key-change-me"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		AppEnv:        getEnv("APP_ENV", "development"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		LogFile:       getEnv("LOG_FILE", ""),
	}
}

// IsProduction reports whether the app runs in production mode. Internal error
// details are only surfaced to clients when this is false.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
