package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server struct {
		Port    string
		Env     string
		Timeout time.Duration
		BaseURL string
	}

	// Database configuration
	Database struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
		MaxConns int
		Timeout  time.Duration
	}

	// Redis configuration (chat change-notification stream)
	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	// AI provider configuration
	AI struct {
		OpenAIKey      string
		ElevenLabsKey  string
		Model          string
		AdvisorModel   string
		RequestTimeout time.Duration
		MaxTokens      int
		Temperature    float64
	}

	// JWT configuration
	JWT struct {
		Secret string
		Expiry time.Duration
	}

	// Security configuration
	Security struct {
		RateLimit      float64
		RateLimitBurst int
		AllowedOrigins []string
		MaxBodySize    int64
	}

	// Logging configuration
	Logging struct {
		Level  string
		Format string
	}

	// Feature flags
	Features struct {
		EnableRealtimeChat     bool
		EnableVoice            bool
		EnableAIAssistantReply bool
		MaxMessagesPerFetch    int
		MaxSymptomsPerQuery    int
		MaxAudioUploadSize     int64
	}

	// Cache settings
	Cache struct {
		Enabled     bool
		TTL         time.Duration
		MaxSize     int
		PurgeWindow time.Duration
	}

	// Observability settings
	Observability struct {
		MetricsPort    string
		TracingEnabled bool
	}
}

var (
	instance *Config
	once     sync.Once
)

// New creates a new Config instance with values from environment variables.
// Uses singleton pattern to ensure only one instance exists.
func New() *Config {
	once.Do(func() {
		// Load .env file if exists
		godotenv.Load()

		instance = &Config{}

		// Server config
		instance.Server.Port = getEnvString("PORT", "8080")
		instance.Server.Env = getEnvString("APP_ENV", "development")
		instance.Server.Timeout = getEnvDuration("SERVER_TIMEOUT", 30*time.Second)
		instance.Server.BaseURL = getEnvString("BASE_URL", "http://localhost:"+instance.Server.Port)

		// Database config
		instance.Database.Host = getEnvString("DB_HOST", "localhost")
		instance.Database.Port = getEnvString("DB_PORT", "5432")
		instance.Database.User = getEnvString("DB_USER", "postgres")
		instance.Database.Password = getEnvString("DB_PASSWORD", "postgres")
		instance.Database.Name = getEnvString("DB_NAME", "health_connect")
		instance.Database.SSLMode = getEnvString("DB_SSL_MODE", "disable")
		instance.Database.MaxConns = getEnvInt("DB_MAX_CONNS", 20)
		instance.Database.Timeout = getEnvDuration("DB_TIMEOUT", 5*time.Second)

		// Redis config
		instance.Redis.Addr = getEnvString("REDIS_URL", "localhost:6379")
		instance.Redis.Password = getEnvString("REDIS_PASSWORD", "")
		instance.Redis.DB = getEnvInt("REDIS_DB", 0)

		// AI provider config
		instance.AI.OpenAIKey = getEnvString("OPENAI_API_KEY", "")
		instance.AI.ElevenLabsKey = getEnvString("ELEVENLABS_API_KEY", "")
		instance.AI.Model = getEnvString("AI_MODEL", "gpt-4o-mini")
		instance.AI.AdvisorModel = getEnvString("AI_ADVISOR_MODEL", "gpt-4o-mini")
		instance.AI.RequestTimeout = getEnvDuration("AI_REQUEST_TIMEOUT", 30*time.Second)
		instance.AI.MaxTokens = getEnvInt("AI_MAX_TOKENS", 1200)
		instance.AI.Temperature = getEnvFloat("AI_TEMPERATURE", 0.2)

		// JWT config
		instance.JWT.Secret = getEnvString("JWT_SECRET", "default-jwt-secret-do-not-use-in-production")
		instance.JWT.Expiry = getEnvDuration("JWT_EXPIRY", 24*time.Hour)

		// Security config
		instance.Security.RateLimit = float64(getEnvInt("RATE_LIMIT", 5))
		instance.Security.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", 10)
		instance.Security.AllowedOrigins = getEnvStringSlice("ALLOWED_ORIGINS", []string{"*"})
		instance.Security.MaxBodySize = getEnvInt64("MAX_BODY_SIZE", 10<<20) // 10MB

		// Logging config
		instance.Logging.Level = getEnvString("LOG_LEVEL", "info")
		instance.Logging.Format = getEnvString("LOG_FORMAT", "json")

		// Feature flags
		instance.Features.EnableRealtimeChat = getEnvBool("ENABLE_REALTIME_CHAT", true)
		instance.Features.EnableVoice = getEnvBool("ENABLE_VOICE", true)
		instance.Features.EnableAIAssistantReply = getEnvBool("ENABLE_AI_ASSISTANT_REPLY", true)
		instance.Features.MaxMessagesPerFetch = getEnvInt("MAX_MESSAGES_PER_FETCH", 200)
		instance.Features.MaxSymptomsPerQuery = getEnvInt("MAX_SYMPTOMS_PER_QUERY", 20)
		instance.Features.MaxAudioUploadSize = getEnvInt64("MAX_AUDIO_UPLOAD_SIZE", 5<<20) // 5MB

		// Cache settings
		instance.Cache.Enabled = getEnvBool("CACHE_ENABLED", true)
		instance.Cache.TTL = getEnvDuration("CACHE_TTL", 5*time.Minute)
		instance.Cache.MaxSize = getEnvInt("CACHE_MAX_SIZE", 1000)
		instance.Cache.PurgeWindow = getEnvDuration("CACHE_PURGE_WINDOW", 10*time.Minute)

		// Observability settings
		instance.Observability.MetricsPort = getEnvString("METRICS_PORT", "2112")
		instance.Observability.TracingEnabled = getEnvBool("TRACING_ENABLED", false)
	})

	return instance
}

// Get returns the singleton Config instance
func Get() *Config {
	if instance == nil {
		return New()
	}
	return instance
}

// HasDatabase reports whether database credentials are usable. When they are
// not, persistence-backed features degrade to a configuration error while the
// rest of the API stays up.
func (c *Config) HasDatabase() bool {
	return c.Database.Host != "" && c.Database.Name != ""
}

// HasAIProvider reports whether the LLM provider is configured.
func (c *Config) HasAIProvider() bool {
	return c.AI.OpenAIKey != ""
}

// Helper functions to read environment variables with default values

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
