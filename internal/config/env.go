package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL  string
	SslCertPath  string
	JWTSecret    string
	AIAPIKey     string
	EmbedAPIKey  string
	EmbedModel   string
	EmbedDim     int
	GenModel     string
	Port         string
	TokenTTLMins int
	DataDir      string
	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string
	MemoryBudget int
	RetrieveK    int
}

// LoadConfig loads the environment variables and returns config
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		SslCertPath:  getEnv("SSL_CERT_PATH", ""),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		AIAPIKey:     getEnv("GEMINI_API_KEY", ""),
		EmbedAPIKey:  getEnv("EMBED_API_KEY", ""),
		EmbedModel:   getEnv("EMBED_MODEL", "text-embedding-004"),
		EmbedDim:     getEnvInt("EMBED_DIM", 768),
		GenModel:     getEnv("GEN_MODEL", "gemini-1.5-flash"),
		Port:         getEnv("PORT", "8080"),
		TokenTTLMins: getEnvInt("TOKEN_TTL_MINUTES", 60),
		DataDir:      getEnv("DATA_DIR", "resources/data"),
		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-2"),
		BucketName:   getEnv("BUCKET_NAME", ""),
		MemoryBudget: getEnvInt("MEMORY_TOKEN_BUDGET", 1000),
		RetrieveK:    getEnvInt("RETRIEVE_TOP_K", 5),
	}

	// Embedding can run on its own credential so retrieval keeps working
	// when the generative key is withheld.
	if cfg.EmbedAPIKey == "" {
		cfg.EmbedAPIKey = cfg.AIAPIKey
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}
