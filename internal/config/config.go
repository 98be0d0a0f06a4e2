package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Assistant   AssistantConfig
	CallService CallServiceConfig
	Webhook     WebhookConfig
	Demo        DemoConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection   string
	MaxOpenConns int
	MaxIdleConns int
}

type AssistantConfig struct {
	BaseURL      string
	APIKey       string
	AssistantID  string
	PollInterval time.Duration
	PollTimeout  time.Duration
}

type CallServiceConfig struct {
	BaseURL  string
	Method   string
	Timeout  time.Duration
	Language string
}

type WebhookConfig struct {
	// AuthMode is "header" (shared-secret equality) or "hmac"
	// (HMAC-SHA256 signature over the raw body).
	AuthMode string
	Secret   string
}

// DemoConfig describes the bootstrap identity. There is no real
// authentication; requests without an explicit user resolve to this user.
type DemoConfig struct {
	Email string
	Name  string
	Phone string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection:   getEnv("DB_CONNECTION_STRING", ""),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		},
		Assistant: AssistantConfig{
			BaseURL:      getEnv("ASSISTANT_BASE_URL", "https://api.openai.com/v1"),
			APIKey:       getEnv("ASSISTANT_API_KEY", ""),
			AssistantID:  getEnv("ASSISTANT_ID", ""),
			PollInterval: getEnvAsDuration("ASSISTANT_POLL_INTERVAL", 1*time.Second),
			PollTimeout:  getEnvAsDuration("ASSISTANT_POLL_TIMEOUT", 60*time.Second),
		},
		CallService: CallServiceConfig{
			BaseURL:  getEnv("CALL_SERVICE_URL", "http://localhost:8090/rpc"),
			Method:   getEnv("CALL_SERVICE_METHOD", "placeCall"),
			Timeout:  getEnvAsDuration("CALL_SERVICE_TIMEOUT", 30*time.Second),
			Language: getEnv("CALL_SERVICE_LANGUAGE", "en"),
		},
		Webhook: WebhookConfig{
			AuthMode: getEnv("WEBHOOK_AUTH_MODE", "header"),
			Secret:   getEnv("WEBHOOK_SECRET", ""),
		},
		Demo: DemoConfig{
			Email: getEnv("DEMO_USER_EMAIL", "demo@example.com"),
			Name:  getEnv("DEMO_USER_NAME", "Demo User"),
			Phone: getEnv("DEMO_USER_PHONE", "+15550100000"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	// Accept plain seconds for compatibility with older deployments.
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
