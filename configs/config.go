package config

import (
	"os"
	"strconv"
)

type AWS struct {
	Region     string
	AccessKey  string
	SecretKey  string
	SecretName string
}

type Generation struct {
	APIKey  string
	BaseURL string
	Model   string
}

type Publishing struct {
	DailyHourUTC   int
	CharLimit      int
	BatchSize      int
	DelaySeconds   int
	CredentialsTTL int // minutes
}

type Config struct {
	PostgresURI   string
	RedisURI      string
	FrontendURL   string
	SecretKey     string
	CookieName    string
	AdminPassword string
	AWS           AWS
	Generation    Generation
	Publishing    Publishing
}

func LoadConfig() *Config {
	return &Config{
		PostgresURI:   getEnv("POSTGRES_URI", ""),
		RedisURI:      getEnv("REDIS_URI", "127.0.0.1:6379"),
		FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:5173"),
		SecretKey:     getEnv("SECRET_KEY", ""),
		CookieName:    getEnv("COOKIE_NAME", "postdrip_session"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AWS: AWS{
			Region:     getEnv("AWS_REGION", "us-east-1"),
			AccessKey:  getEnv("AWS_ACCESS_KEY", ""),
			SecretKey:  getEnv("AWS_SECRET_KEY", ""),
			SecretName: getEnv("AWS_SECRET_NAME", "postdrip/linkedin"),
		},
		Generation: Generation{
			APIKey:  getEnv("GENERATION_API_KEY", ""),
			BaseURL: getEnv("GENERATION_BASE_URL", "https://api.openai.com/v1"),
			Model:   getEnv("GENERATION_MODEL", "gpt-4o-mini"),
		},
		Publishing: Publishing{
			DailyHourUTC:   getEnvInt("DAILY_POST_HOUR_UTC", 14),
			CharLimit:      getEnvInt("POST_CHAR_LIMIT", 280),
			BatchSize:      getEnvInt("PUBLISH_BATCH_SIZE", 10),
			DelaySeconds:   getEnvInt("PUBLISH_DELAY_SECONDS", 1),
			CredentialsTTL: getEnvInt("CREDENTIALS_TTL_MINUTES", 5),
		},
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
