package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

type Config struct {
	AppURL                 string
	DatabaseDSN            string
	RateLimit              int
	ShutdownTimeoutSeconds int
	RemoteTimeoutSeconds   int

	FeedBackend    string
	RedisAddr      string
	FeedChannel    string
	StreakCacheTTL int

	LogLevel string
	LogFile  string

	AuthMode      string
	AuthSecret    string
	Auth0Domain   string
	Auth0Audience string

	AssistantURL       string
	AssistantAPIKey    string
	AssistantModel     string
	AssistantMaxTokens int

	StreakTimezone     string
	StreakWorkers      int
	StreakQueueSize    int
	BoardTemplatesFile string

	StreamHeartbeatSeconds int
}

const (
	FeedBackendRedis  = "redis"
	FeedBackendMemory = "memory"

	AuthModeJWKS     = "jwks"
	AuthModeHS256    = "hs256"
	AuthModeDisabled = "disabled"
)

func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")
	redisHost := getEnv("REDIS_HOST", "127.0.0.1")
	redisPort := getEnv("REDIS_PORT", "6379")

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		DatabaseDSN:            getEnv("DATABASE_DSN", "taskflow.db"),
		RateLimit:              getEnvAsInt("RATE_LIMIT_PER_MINUTE", 600),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
		RemoteTimeoutSeconds:   getEnvAsInt("REMOTE_TIMEOUT_SECONDS", 10),

		FeedBackend:    strings.ToLower(getEnv("FEED_BACKEND", FeedBackendRedis)),
		RedisAddr:      fmt.Sprintf("%s:%s", redisHost, redisPort),
		FeedChannel:    getEnv("FEED_CHANNEL", "taskflow:changes"),
		StreakCacheTTL: getEnvAsInt("STREAK_CACHE_TTL_SECONDS", 300),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		AuthMode:      strings.ToLower(getEnv("AUTH_MODE", AuthModeJWKS)),
		AuthSecret:    getEnv("AUTH_SHARED_SECRET", ""),
		Auth0Domain:   getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience: getEnv("AUTH0_AUDIENCE", ""),

		AssistantURL:       getEnv("ASSISTANT_URL", "https://api.anthropic.com/v1/messages"),
		AssistantAPIKey:    getEnv("ASSISTANT_API_KEY", ""),
		AssistantModel:     getEnv("ASSISTANT_MODEL", "claude-sonnet-4-20250514"),
		AssistantMaxTokens: getEnvAsInt("ASSISTANT_MAX_TOKENS", 1024),

		StreakTimezone:     getEnv("STREAK_TIMEZONE", "UTC"),
		StreakWorkers:      getEnvAsInt("STREAK_WORKERS", 2),
		StreakQueueSize:    getEnvAsInt("STREAK_QUEUE_SIZE", 256),
		BoardTemplatesFile: getEnv("BOARD_TEMPLATES_FILE", ""),

		StreamHeartbeatSeconds: getEnvAsInt("STREAM_HEARTBEAT_SECONDS", 25),
	}

	validate(cfg)
	return cfg
}

func validate(cfg Config) {
	if cfg.AppURL == "" {
		log.Fatal("APP_URL must not be empty (e.g. 127.0.0.1:8080)")
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal("DATABASE_DSN must not be empty")
	}
	if cfg.RateLimit <= 0 {
		log.Fatal("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.RemoteTimeoutSeconds <= 0 {
		log.Fatal("REMOTE_TIMEOUT_SECONDS must be greater than 0")
	}
	if cfg.StreakCacheTTL < 0 {
		log.Fatal("STREAK_CACHE_TTL_SECONDS must not be negative")
	}
	switch cfg.FeedBackend {
	case FeedBackendRedis, FeedBackendMemory:
	default:
		log.Fatalf("FEED_BACKEND must be %q or %q", FeedBackendRedis, FeedBackendMemory)
	}
	switch cfg.AuthMode {
	case AuthModeJWKS:
		if cfg.Auth0Domain == "" || cfg.Auth0Audience == "" {
			log.Fatal("AUTH0_DOMAIN and AUTH0_AUDIENCE must be set when AUTH_MODE=jwks")
		}
	case AuthModeHS256:
		if cfg.AuthSecret == "" {
			log.Fatal("AUTH_SHARED_SECRET must be set when AUTH_MODE=hs256")
		}
	case AuthModeDisabled:
	default:
		log.Fatal("unsupported AUTH_MODE value")
	}
	if cfg.StreakWorkers < 0 {
		log.Fatal("STREAK_WORKERS must not be negative")
	}
	if cfg.StreakQueueSize <= 0 {
		log.Fatal("STREAK_QUEUE_SIZE must be greater than 0")
	}
	if cfg.StreamHeartbeatSeconds <= 0 {
		log.Fatal("STREAM_HEARTBEAT_SECONDS must be greater than 0")
	}
	if cfg.AssistantMaxTokens <= 0 {
		log.Fatal("ASSISTANT_MAX_TOKENS must be greater than 0")
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}
