package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// 向量库后端
const (
	BackendPgvector = "pgvector"
	BackendPinecone = "pinecone"
)

// ErrMissingCredential 向量库凭据缺失
var ErrMissingCredential = errors.New("vector index credential not set")

// Config 应用配置
type Config struct {
	Env              string
	Port             string
	VectorBackend    string
	DatabaseURL      string
	PineconeAPIKey   string
	PineconeHost     string
	OllamaHost       string
	OllamaModel      string
	EmbeddingDim     int
	RetrievalTimeout time.Duration
	ArtifactDir      string
	ArtifactPoll     time.Duration
	AdminSecret      string
	RateLimitRPS     float64
	RateLimitBurst   int
	ShuffleSeed      int64
}

// Load 加载配置
// 凭据只从环境变量（或 .env）读取，缺失时直接返回错误
func Load() (*Config, error) {
	timeoutSec, _ := strconv.Atoi(getEnv("RETRIEVAL_TIMEOUT_SECONDS", "15"))
	pollSec, _ := strconv.Atoi(getEnv("ARTIFACT_POLL_SECONDS", "60"))
	dim, _ := strconv.Atoi(getEnv("EMBEDDING_DIM", "384"))
	rps, _ := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "10"), 64)
	burst, _ := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "20"))

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8000"),
		VectorBackend:    getEnv("VECTOR_BACKEND", BackendPgvector),
		PineconeAPIKey:   os.Getenv("PINECONE_API_KEY"),
		PineconeHost:     getEnv("PINECONE_HOST", ""),
		OllamaHost:       getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:      getEnv("OLLAMA_MODEL", "all-minilm"),
		EmbeddingDim:     dim,
		RetrievalTimeout: time.Duration(timeoutSec) * time.Second,
		ArtifactDir:      getEnv("ARTIFACT_DIR", "./artifacts"),
		ArtifactPoll:     time.Duration(pollSec) * time.Second,
		AdminSecret:      os.Getenv("ADMIN_SECRET"),
		RateLimitRPS:     rps,
		RateLimitBurst:   burst,
		ShuffleSeed:      EnvShuffleSeed(),
	}

	switch cfg.VectorBackend {
	case BackendPgvector:
		dbPass := os.Getenv("DB_PASSWORD")
		if dbPass == "" {
			return nil, fmt.Errorf("%w: DB_PASSWORD is required for the %s backend", ErrMissingCredential, BackendPgvector)
		}
		cfg.DatabaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			getEnv("DB_USER", "postgres"),
			dbPass,
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_NAME", "cinematch"),
			getEnv("DB_SSLMODE", "disable"))
	case BackendPinecone:
		if cfg.PineconeAPIKey == "" {
			return nil, fmt.Errorf("%w: PINECONE_API_KEY is required for the %s backend", ErrMissingCredential, BackendPinecone)
		}
		if cfg.PineconeHost == "" {
			return nil, fmt.Errorf("PINECONE_HOST is required for the %s backend", BackendPinecone)
		}
	default:
		return nil, fmt.Errorf("unknown VECTOR_BACKEND %q", cfg.VectorBackend)
	}

	if cfg.RetrievalTimeout <= 0 {
		cfg.RetrievalTimeout = 15 * time.Second
	}
	if cfg.ArtifactPoll <= 0 {
		cfg.ArtifactPoll = time.Minute
	}
	if cfg.EmbeddingDim <= 0 {
		cfg.EmbeddingDim = 384
	}

	return cfg, nil
}

// EnvShuffleSeed 语料抽样种子 SHUFFLE_SEED，未设置或无法解析时为 42
// 不依赖凭据，离线构建可单独读取
func EnvShuffleSeed() int64 {
	seed, err := strconv.ParseInt(getEnv("SHUFFLE_SEED", "42"), 10, 64)
	if err != nil {
		return 42
	}
	return seed
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
