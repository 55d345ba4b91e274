package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort        string
	RequestTimeout time.Duration
	LogMode        string

	JWTKey []byte
	JWTExp time.Duration

	DBDriver    string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSslMode   string
	DBConnStr   string
	AutoMigrate bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LLMProvider    string
	OllamaBaseURL  string
	ModelName      string
	EmbeddingModel string
	GeminiAPIKey   string
	GeminiModel    string
	LLMTimeout     time.Duration

	QdrantURL        string
	QdrantCollection string
	QdrantTextField  string
	VectorTimeout    time.Duration

	DatasetPath string

	StorageBackend string
	MediaRoot      string
	MediaURL       string
	GCSBucket      string
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	ProviderOllama = "ollama"
	ProviderGemini = "gemini"

	StorageLocal = "local"
	StorageGCS   = "gcs"
)

// Load reads .env (when present) and the process environment.
// The bool reports whether a .env file was found.
func Load() (*Config, bool) {
	dotenv := godotenv.Load() == nil

	cfg := &Config{
		APIPort:        getEnv("API_PORT", "8000"),
		RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 180*time.Second),
		LogMode:        getEnv("LOG_MODE", "development"),

		JWTKey: []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp: time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "user"),
		DBPassword:  getEnv("DB_PASSWORD", "password"),
		DBName:      getEnv("DB_NAME", "codetrek_db"),
		DBSslMode:   getEnv("DB_SSLMODE", "disable"),
		AutoMigrate: getEnvAsBool("AUTO_MIGRATE", false),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		LLMProvider:    strings.ToLower(getEnv("LLM_PROVIDER", ProviderOllama)),
		OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434/v1"),
		ModelName:      getEnv("MODEL_NAME", "deepseek-r1:1.5b"),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		LLMTimeout:     getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),

		QdrantURL:        getEnv("QDRANT_URL", ""),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "cp_concepts"),
		QdrantTextField:  getEnv("QDRANT_TEXT_FIELD", "document"),
		VectorTimeout:    getEnvAsDuration("VECTOR_TIMEOUT", 10*time.Second),

		DatasetPath: getEnv("DATASET_PATH", "leetcode_dataset - lc.csv"),

		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", StorageLocal)),
		MediaRoot:      getEnv("MEDIA_ROOT", "media"),
		MediaURL:       getEnv("MEDIA_URL", "/media/"),
		GCSBucket:      getEnv("GCS_BUCKET", ""),
	}

	cfg.DBConnStr = "host=" + cfg.DBHost +
		" port=" + cfg.DBPort +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" sslmode=" + cfg.DBSslMode

	return cfg, dotenv
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return fallback
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
