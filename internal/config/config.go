package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Cache backends accepted by CACHE_BACKEND.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Gemini generation configuration.
	GeminiAPIKey           string
	GeminiModel            string
	GeminiTimeout          time.Duration
	GeminiStructuredOutput bool

	// Region retrieval configuration.
	RegionTemperature     float64
	RegionMaxOutputTokens int
	RegionRequiredFields  []string
	RegionCacheSize       int

	CacheBackend   string
	RedisURL       string
	RedisKeyPrefix string

	KafkaBrokers     []string
	KafkaRegionTopic string
	KafkaEnabled     bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	geminiTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("GEMINI_TIMEOUT", "30s"))
	if err != nil || geminiTimeout <= 0 {
		return nil, errors.New("invalid GEMINI_TIMEOUT")
	}

	temperature, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("REGION_TEMPERATURE", "0.4"), 64)
	if err != nil || temperature < 0 || temperature > 2 {
		return nil, errors.New("invalid REGION_TEMPERATURE: must be between 0 and 2")
	}

	maxTokens, err := strconv.Atoi(sharedcfg.EnvOrDefault("REGION_MAX_OUTPUT_TOKENS", "2048"))
	if err != nil || maxTokens <= 0 {
		return nil, errors.New("invalid REGION_MAX_OUTPUT_TOKENS: must be a positive integer")
	}

	cacheSize, err := strconv.Atoi(sharedcfg.EnvOrDefault("REGION_CACHE_SIZE", "0"))
	if err != nil || cacheSize < 0 {
		return nil, errors.New("invalid REGION_CACHE_SIZE: must be zero or a positive integer")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		GeminiAPIKey:           os.Getenv("GEMINI_API_KEY"),
		GeminiModel:            sharedcfg.EnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiTimeout:          geminiTimeout,
		GeminiStructuredOutput: os.Getenv("GEMINI_STRUCTURED_OUTPUT") == "true",

		RegionTemperature:     temperature,
		RegionMaxOutputTokens: maxTokens,
		RegionRequiredFields:  parseList(sharedcfg.EnvOrDefault("REGION_REQUIRED_FIELDS", "capital,history,culture")),
		RegionCacheSize:       cacheSize,

		CacheBackend:   strings.ToLower(sharedcfg.EnvOrDefault("CACHE_BACKEND", CacheBackendMemory)),
		RedisURL:       os.Getenv("REDIS_URL"),
		RedisKeyPrefix: sharedcfg.EnvOrDefault("REDIS_KEY_PREFIX", "sharda:region:"),

		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaRegionTopic: sharedcfg.EnvOrDefault("KAFKA_REGION_TOPIC", "region-records"),
		KafkaEnabled:     os.Getenv("KAFKA_ENABLED") == "true",
	}

	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}
	if len(cfg.RegionRequiredFields) == 0 {
		return nil, errors.New("REGION_REQUIRED_FIELDS must name at least one field")
	}
	switch cfg.CacheBackend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if cfg.RedisURL == "" {
			return nil, errors.New("CACHE_BACKEND is redis but REDIS_URL is not set")
		}
	default:
		return nil, fmt.Errorf("invalid CACHE_BACKEND %q: must be memory or redis", cfg.CacheBackend)
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaRegionTopic == "" {
			return nil, errors.New("KAFKA_REGION_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
