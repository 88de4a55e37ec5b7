package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// LLM provider identifiers.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderBedrock   = "bedrock"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// LLM completion
	LLMProvider     string
	LLMModel        string
	OllamaHost      string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	BedrockRegion   string

	// Embeddings
	EmbedProvider  string
	EmbedModel     string
	EmbedDimension int

	// Tracking provider (empty base URL selects the built-in fixtures)
	TrackingBaseURL string
	TrackingAPIKey  string

	// Mail dispatch (empty base URL selects the recording transport)
	MailBaseURL  string
	MailAPIKey   string
	MailFrom     string
	CarrierFile  string

	// HTTP server
	ListenAddr string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "freight"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "agent"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		LLMProvider:     getEnv("FREIGHT_LLM_PROVIDER", ProviderOllama),
		LLMModel:        getEnv("FREIGHT_LLM_MODEL", "llama3.1"),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		BedrockRegion:   getEnv("FREIGHT_BEDROCK_REGION", "us-east-1"),

		EmbedProvider:  getEnv("FREIGHT_EMBED_PROVIDER", ProviderOllama),
		EmbedModel:     getEnv("FREIGHT_EMBED_MODEL", "all-minilm:l6-v2"),
		EmbedDimension: getEnvInt("FREIGHT_EMBED_DIMENSION", 384),

		TrackingBaseURL: getEnv("FREIGHT_TRACKING_URL", ""),
		TrackingAPIKey:  getEnv("FREIGHT_TRACKING_API_KEY", ""),

		MailBaseURL: getEnv("FREIGHT_MAIL_URL", ""),
		MailAPIKey:  getEnv("FREIGHT_MAIL_API_KEY", ""),
		MailFrom:    getEnv("FREIGHT_MAIL_FROM", "support@wwexlabs.com"),
		CarrierFile: getEnv("FREIGHT_CARRIER_FILE", ""),

		ListenAddr: getEnv("FREIGHT_LISTEN_ADDR", ":8080"),

		LogFile:  getEnv("FREIGHT_LOG_FILE", "/tmp/freightagent.log"),
		LogLevel: parseLogLevel(getEnv("FREIGHT_LOG_LEVEL", "INFO")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
