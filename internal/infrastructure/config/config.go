package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
)

type Config struct {
	Port      string        `env:"PORT,           default=5000"`
	Env       string        `env:"ENV,            default=development"`
	LogLevel  string        `env:"LOG_LEVEL,      default=info"`
	JWTSecret string        `env:"JWT_SECRET_KEY, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,      default=720h"`

	// StoreDriver selects the account store: "mongo" or "postgres".
	StoreDriver string `env:"STORE_DRIVER, default=mongo"`

	Mongo     MongoConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	LLM       LLMConfig
	Superuser SuperuserConfig
	SMTP      SMTPConfig
	Mail      MailConfig

	DefaultPromptsLimit int64 `env:"DEFAULT_PROMPTS_LIMIT, default=5"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=aibuddy"`
}

type PostgresConfig struct {
	URL string `env:"DATABASE_URL"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type LLMConfig struct {
	Endpoint    string        `env:"LLM_ENDPOINT,    default=https://models.inference.ai.azure.com/chat/completions"`
	Model       string        `env:"LLM_MODEL,       default=gpt-4o"`
	APIToken    string        `env:"LLM_API_TOKEN"`
	Temperature float64       `env:"LLM_TEMPERATURE, default=0.7"`
	MaxTokens   int           `env:"LLM_MAX_TOKENS,  default=400"`
	Timeout     time.Duration `env:"LLM_TIMEOUT,     default=60s"`
}

type SuperuserConfig struct {
	Email    string `env:"SUPERUSER_EMAIL, default=teamaibuddy@gmail.com"`
	Password string `env:"SUPERUSER_PASSWORD"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST, default=smtp.gmail.com"`
	Port     int    `env:"SMTP_PORT, default=465"`
	Sender   string `env:"SMTP_SENDER"`
	Password string `env:"SMTP_PASSWORD"`
}

type MailConfig struct {
	Workers  int           `env:"MAIL_WORKERS,   default=4"`
	DedupTTL time.Duration `env:"MAIL_DEDUP_TTL, default=24h"`
}

// IsDevelopment reports whether human-friendly console logging should be used.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through the given lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case StoreMongo:
	case StorePostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("config: DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.DefaultPromptsLimit <= 0 {
		return fmt.Errorf("config: DEFAULT_PROMPTS_LIMIT must be positive")
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("config: LLM_TIMEOUT must be positive")
	}
	return nil
}
