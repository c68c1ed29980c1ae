package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the SlideGenius server.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	AI       AIConfig
	Dispatch DispatchConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// AIConfig configures the generation providers. Providers holds the fallback
// order; each provider is tried in turn until one returns usable text.
type AIConfig struct {
	Providers       []string
	GenerateTimeout time.Duration
	Temperature     float64
	MaxTokens       int
	HuggingFace     HuggingFaceConfig
	Groq            GroqConfig
	Ollama          OllamaConfig
}

type HuggingFaceConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GroqConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OllamaConfig struct {
	BaseURL string
	Model   string
}

type DispatchConfig struct {
	Workers   int
	QueueSize int
}

var validProviders = map[string]bool{
	"huggingface": true,
	"groq":        true,
	"ollama":      true,
	"mock":        true,
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("SLIDEGENIUS_PORT", 8080),
			Env:  envString("SLIDEGENIUS_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TokenTTL:  envDuration("JWT_TOKEN_TTL", 24*time.Hour),
		},
		AI: AIConfig{
			Providers:       envList("AI_PROVIDERS", []string{"huggingface", "groq", "ollama"}),
			GenerateTimeout: envDurationSecs("AI_GENERATE_TIMEOUT_SECS", 30*time.Second),
			Temperature:     envFloat("AI_TEMPERATURE", 0.7),
			MaxTokens:       envInt("AI_MAX_TOKENS", 4096),
			HuggingFace: HuggingFaceConfig{
				APIKey:  os.Getenv("HF_API_TOKEN"),
				Model:   envString("HF_MODEL_ID", "deepseek-ai/DeepSeek-V3-0324"),
				BaseURL: envString("HF_BASE_URL", "https://router.huggingface.co/v1"),
			},
			Groq: GroqConfig{
				APIKey:  os.Getenv("GROQ_API_KEY"),
				Model:   envString("GROQ_MODEL", "llama3-8b-8192"),
				BaseURL: envString("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			},
			Ollama: OllamaConfig{
				BaseURL: envString("OLLAMA_BASE_URL", "http://localhost:11434"),
				Model:   envString("OLLAMA_MODEL", "llama3.2:3b"),
			},
		},
		Dispatch: DispatchConfig{
			Workers:   envInt("DISPATCH_WORKERS", 4),
			QueueSize: envInt("DISPATCH_QUEUE_SIZE", 64),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.AI.Providers) == 0 {
		return fmt.Errorf("AI_PROVIDERS must name at least one provider")
	}
	for _, p := range c.AI.Providers {
		if !validProviders[p] {
			return fmt.Errorf("AI_PROVIDERS must contain only huggingface, groq, ollama, mock; got %q", p)
		}
		if p == "huggingface" && c.AI.HuggingFace.APIKey == "" {
			return fmt.Errorf("HF_API_TOKEN is required when AI_PROVIDERS includes huggingface")
		}
		if p == "groq" && c.AI.Groq.APIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required when AI_PROVIDERS includes groq")
		}
	}

	if c.Dispatch.Workers < 1 {
		return fmt.Errorf("DISPATCH_WORKERS must be at least 1, got %d", c.Dispatch.Workers)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}

func envList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
