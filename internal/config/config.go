package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App           AppConfig
	Database      DatabaseConfig
	SMTP          SMTPConfig
	Keys          APIKeys
	Ai            AIConfig
	Catalog       CatalogConfig
	Transcription TranscriptionConfig
	Sync          SyncConfig
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
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type APIKeys struct {
	GoogleGemini string
	PodcastIndex string
	Deepgram     string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama", "gemini"
	LLMModel          string // e.g. "llama3", "gemini-1.5-flash"
}

type CatalogConfig struct {
	BaseURL     string
	APIKey      string
	APISecret   string
	SearchCache time.Duration
}

type TranscriptionConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	// Long audio can take tens of minutes; this bounds one transcription call,
	// not the user-facing request.
	Timeout time.Duration
}

type SyncConfig struct {
	ChunkSize    int
	ChunkOverlap int
	MaxAttempts  int
	Stream       string
	Subject      string
	Durable      string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
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
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Borrowed Brain"),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			PodcastIndex: getEnv("PODCAST_INDEX_API_KEY", ""),
			Deepgram:     getEnv("DEEPGRAM_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
		},
		Catalog: CatalogConfig{
			BaseURL:     getEnv("PODCAST_INDEX_BASE_URL", "https://api.podcastindex.org/api/1.0"),
			APIKey:      getEnv("PODCAST_INDEX_API_KEY", ""),
			APISecret:   getEnv("PODCAST_INDEX_API_SECRET", ""),
			SearchCache: getEnvAsDuration("CATALOG_SEARCH_CACHE_TTL", 10*time.Minute),
		},
		Transcription: TranscriptionConfig{
			BaseURL: getEnv("DEEPGRAM_BASE_URL", "https://api.deepgram.com/v1"),
			APIKey:  getEnv("DEEPGRAM_API_KEY", ""),
			Model:   getEnv("DEEPGRAM_MODEL", "nova-2"),
			Timeout: getEnvAsDuration("TRANSCRIPTION_TIMEOUT", 30*time.Minute),
		},
		Sync: SyncConfig{
			ChunkSize:    getEnvAsInt("SYNC_CHUNK_SIZE", 800),
			ChunkOverlap: getEnvAsInt("SYNC_CHUNK_OVERLAP", 100),
			MaxAttempts:  getEnvAsInt("SYNC_MAX_ATTEMPTS", 5),
			Stream:       getEnv("SYNC_STREAM_NAME", "SYNC_JOBS"),
			Subject:      getEnv("SYNC_SUBJECT", "sync.episode"),
			Durable:      getEnv("SYNC_DURABLE_NAME", "transcript-sync-worker"),
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
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
