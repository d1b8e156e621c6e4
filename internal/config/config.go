package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration
type Config struct {
	// API Settings
	APITitle   string
	APIVersion string
	Port       string

	// CORS
	CORSOrigins []string

	// Corpus artifacts: "json" or "sqlite"
	CorpusBackend  string
	MetadataPath   string
	EmbeddingsPath string
	CorpusDBPath   string

	// Retrieval
	TopK int

	// Embedding resolution chain, tried in order
	EmbeddingProviders      []string
	EmbeddingDimensions     int
	EmbeddingTimeoutSeconds int

	// Hugging Face inference API (embeddings + generation)
	HFAPIURL       string
	HFAPIToken     string
	EmbeddingModel string

	// Generation
	GenerationModel          string
	GenerationTimeoutSeconds int
	GenerationMaxNewTokens   int
	GenerationTemperature    float64

	// Vertex AI (joins the chain when GCPProjectID is set)
	GCPProjectID string
	GCPLocation  string
	VertexModel  string

	// Custom HTTP embedding service
	EmbeddingServiceURL string
}

var (
	config *Config
	once   sync.Once
)

// GetConfig returns the singleton configuration instance
func GetConfig() *Config {
	once.Do(func() {
		config = loadConfig()
	})
	return config
}

func loadConfig() *Config {
	return &Config{
		APITitle:   getEnv("API_TITLE", "Gita Wisdom Query API"),
		APIVersion: getEnv("API_VERSION", "1.0.0"),
		Port:       getEnv("PORT", "8080"),

		CORSOrigins: parseList(getEnv("CORS_ORIGINS", "*")),

		CorpusBackend:  getEnv("CORPUS_BACKEND", "json"),
		MetadataPath:   getEnv("METADATA_PATH", "data/metadata.json"),
		EmbeddingsPath: getEnv("EMBEDDINGS_PATH", "data/embeddings.json"),
		CorpusDBPath:   getEnv("CORPUS_DB_PATH", "data/corpus.db"),

		TopK: getEnvInt("TOP_K", 3),

		EmbeddingProviders:      parseList(getEnv("EMBEDDING_PROVIDERS", "huggingface,custom")),
		EmbeddingDimensions:     getEnvInt("EMBEDDING_DIMENSIONS", 384),
		EmbeddingTimeoutSeconds: getEnvInt("EMBEDDING_TIMEOUT_SECONDS", 15),

		HFAPIURL:       getEnv("HF_API_URL", "https://api-inference.huggingface.co"),
		HFAPIToken:     getEnv("HF_API_TOKEN", ""),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "sentence-transformers/all-MiniLM-L6-v2"),

		GenerationModel:          getEnv("GENERATION_MODEL", "mistralai/Mistral-7B-Instruct-v0.3"),
		GenerationTimeoutSeconds: getEnvInt("GENERATION_TIMEOUT_SECONDS", 30),
		GenerationMaxNewTokens:   getEnvInt("GENERATION_MAX_NEW_TOKENS", 200),
		GenerationTemperature:    getEnvFloat("GENERATION_TEMPERATURE", 0.7),

		GCPProjectID: getEnv("GCP_PROJECT_ID", ""),
		GCPLocation:  getEnv("GCP_LOCATION", "us-central1"),
		VertexModel:  getEnv("VERTEX_MODEL", "gemini-embedding-001"),

		EmbeddingServiceURL: getEnv("EMBEDDING_SERVICE_URL", "http://localhost:8001"),
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
		i, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return i
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return defaultValue
		}
		return f
	}
	return defaultValue
}

// parseList accepts either a JSON array or a comma-separated string
func parseList(value string) []string {
	var items []string
	if err := json.Unmarshal([]byte(value), &items); err == nil {
		return items
	}
	parts := strings.Split(value, ",")
	items = make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
