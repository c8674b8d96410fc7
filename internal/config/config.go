package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the planner server.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Travel   TravelConfig
	AI       AIConfig
	Schedule ScheduleConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port int    `env:"PLANNER_PORT" envDefault:"8080"`
	Env  string `env:"PLANNER_ENV"  envDefault:"development"`
}

type StoreConfig struct {
	// Driver selects the repository backend: "postgres" or "sqlite".
	Driver     string `env:"STORE_DRIVER" envDefault:"postgres"`
	SQLitePath string `env:"SQLITE_PATH"  envDefault:"planner.db"`
}

type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS"    envDefault:"25"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS"    envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"5m"`
	MigrationsDir   string        `env:"DATABASE_MIGRATIONS_DIR"    envDefault:"migrations"`
}

type RedisConfig struct {
	URL         string        `env:"REDIS_URL"`
	EstimateTTL time.Duration `env:"REDIS_ESTIMATE_TTL" envDefault:"24h"`
}

// TravelConfig points at Nominatim-compatible geocoding and OSRM-compatible routing services.
type TravelConfig struct {
	GeocodeBaseURL  string        `env:"GEOCODE_BASE_URL"  envDefault:"https://nominatim.openstreetmap.org"`
	RoutingBaseURL  string        `env:"ROUTING_BASE_URL"  envDefault:"https://router.project-osrm.org"`
	MapsBaseURL     string        `env:"MAPS_BASE_URL"     envDefault:"https://www.google.com/maps/dir/"`
	UserAgent       string        `env:"TRAVEL_USER_AGENT" envDefault:"fieldplanner/1.0"`
	CountryCodes    string        `env:"GEOCODE_COUNTRY_CODES" envDefault:"gb"`
	Timeout         time.Duration `env:"TRAVEL_TIMEOUT"    envDefault:"10s"`
	GeocodeRPS      float64       `env:"GEOCODE_RPS"       envDefault:"1"`
	GeocodeCacheTTL time.Duration `env:"GEOCODE_CACHE_TTL" envDefault:"1h"`
	GeocodeCacheMax int           `env:"GEOCODE_CACHE_MAX" envDefault:"1000"`
}

type AIConfig struct {
	Provider             string `env:"AI_PROVIDER"`
	InferenceTimeoutSecs int    `env:"AI_INFERENCE_TIMEOUT_SECS" envDefault:"60"`
	MaxImageDimension    int    `env:"AI_MAX_IMAGE_DIMENSION"    envDefault:"1600"`
	Ollama               OllamaConfig
	OpenAI               OpenAIConfig
	Anthropic            AnthropicConfig
}

// InferenceTimeout bounds a single extraction call.
func (c AIConfig) InferenceTimeout() time.Duration {
	return time.Duration(c.InferenceTimeoutSecs) * time.Second
}

type OllamaConfig struct {
	BaseURL string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	Model   string `env:"OLLAMA_MODEL"    envDefault:"llama3.2-vision"`
}

// OpenAIConfig also serves any OpenAI-compatible endpoint (vLLM, OpenRouter) via BaseURL.
type OpenAIConfig struct {
	APIKey  string `env:"OPENAI_API_KEY"`
	BaseURL string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	Model   string `env:"OPENAI_MODEL"    envDefault:"gpt-4o"`
}

type AnthropicConfig struct {
	APIKey  string `env:"ANTHROPIC_API_KEY"`
	BaseURL string `env:"ANTHROPIC_BASE_URL" envDefault:"https://api.anthropic.com"`
	Model   string `env:"ANTHROPIC_MODEL"    envDefault:"claude-sonnet-4-5-20250929"`
}

// ScheduleConfig carries the slot business rules.
type ScheduleConfig struct {
	FirstStart    string        `env:"SLOT_FIRST_START"    envDefault:"07:30"`
	FirstEnd      string        `env:"SLOT_FIRST_END"      envDefault:"08:30"`
	SequenceStart string        `env:"SLOT_SEQUENCE_START" envDefault:"08:00"`
	Duration      time.Duration `env:"SLOT_DURATION"       envDefault:"120m"`
}

type AuthConfig struct {
	// TokenHash is a bcrypt hash of the API bearer token. Empty disables auth.
	TokenHash      string `env:"API_TOKEN_HASH"`
	RequestsPerMin int    `env:"RATE_LIMIT_PER_MIN" envDefault:"60"`
}

var validProviders = map[string]bool{
	"ollama":    true,
	"openai":    true,
	"anthropic": true,
}

// Load reads configuration from environment variables (and a .env file in the
// working directory when present) and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER is postgres")
		}
	case "sqlite":
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when STORE_DRIVER is sqlite")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be one of postgres, sqlite; got %q", c.Store.Driver)
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	for name, u := range map[string]string{
		"GEOCODE_BASE_URL": c.Travel.GeocodeBaseURL,
		"ROUTING_BASE_URL": c.Travel.RoutingBaseURL,
	} {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return fmt.Errorf("%s must start with http:// or https://, got %q", name, u)
		}
	}
	if c.Travel.GeocodeRPS <= 0 {
		return fmt.Errorf("GEOCODE_RPS must be positive, got %v", c.Travel.GeocodeRPS)
	}
	if c.Travel.Timeout <= 0 {
		return fmt.Errorf("TRAVEL_TIMEOUT must be positive, got %s", c.Travel.Timeout)
	}

	if c.AI.Provider == "" {
		return fmt.Errorf("AI_PROVIDER is required")
	}
	if !validProviders[c.AI.Provider] {
		return fmt.Errorf("AI_PROVIDER must be one of ollama, openai, anthropic; got %q", c.AI.Provider)
	}
	if c.AI.InferenceTimeoutSecs <= 0 {
		return fmt.Errorf("AI_INFERENCE_TIMEOUT_SECS must be positive, got %d", c.AI.InferenceTimeoutSecs)
	}
	// API keys are checked per request by the providers.

	if c.Schedule.Duration <= 0 {
		return fmt.Errorf("SLOT_DURATION must be positive, got %s", c.Schedule.Duration)
	}

	return nil
}
