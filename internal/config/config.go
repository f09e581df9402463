package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/futig/course-backend/internal/entity"
	pkgRetry "github.com/futig/course-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`
	// RequestTimeout bounds one pipeline step served over HTTP
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"30m"`

	// External service configuration. The API key may be empty at startup:
	// it is reported once and can be supplied later through PUT /credentials.
	APIKey          string             `env:"OPENAI_API_KEY"`
	LLMConnectorCfg LLMConnectorConfig `envPrefix:"LLM_"`

	// Pipeline configuration
	PipelineCfg PipelineConfig `envPrefix:"PIPELINE_"`

	// Document rendering configuration
	DocumentCfg DocumentConfig `envPrefix:"DOCUMENT_"`

	// Session configuration
	SessionCfg SessionConfig `envPrefix:"SESSION_"`

	// Chat history configuration
	HistoryCfg HistoryConfig `envPrefix:"HISTORY_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	ChatEndpoint string        `env:"CHAT_ENDPOINT" envDefault:"/v1/chat/completions"`
	Model        string        `env:"MODEL" envDefault:"gpt-3.5-turbo"`
	CallTimeout  time.Duration `env:"CALL_TIMEOUT" envDefault:"3m"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"3m"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"3m"`
	Url                   string        `env:"SERVICE_URL" envDefault:"https://api.openai.com"`
}

type PipelineConfig struct {
	Mode               entity.PipelineMode `env:"MODE" envDefault:"plan"`
	QuizQuestions      int                 `env:"QUIZ_QUESTIONS" envDefault:"5"`
	ChapterConcurrency int                 `env:"CHAPTER_CONCURRENCY" envDefault:"1"`
	CleanupPhrases     []string            `env:"CLEANUP_PHRASES" envSeparator:"|"`
}

type DocumentConfig struct {
	OutputDir string `env:"OUTPUT_DIR" envDefault:"cours"`
	Encoding  string `env:"ENCODING" envDefault:"utf8"` // utf8 or ascii
	// FontPath replaces the DejaVuSans font compiled into the binary
	FontPath string `env:"FONT_PATH"`
	// WriteFiles disables writing artifacts to OutputDir when false; they stay downloadable.
	WriteFiles bool `env:"WRITE_FILES" envDefault:"true"`
}

type SessionConfig struct {
	TTL             time.Duration `env:"TTL" envDefault:"2h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
}

type HistoryConfig struct {
	Backend  string `env:"BACKEND" envDefault:"file"` // file or postgres
	FilePath string `env:"FILE_PATH" envDefault:"chat_history.json"`

	DatabaseURL         string               `env:"DATABASE_URL"`
	DBMaxConns          int                  `env:"DB_MAX_CONNS" envDefault:"4"`
	DBMinConns          int                  `env:"DB_MIN_CONNS" envDefault:"0"`
	DBMaxConnLifetime   time.Duration        `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration        `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration        `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
	Retry               pkgRetry.RetryConfig `envPrefix:"DB_RETRY_"`
}

const (
	HistoryBackendFile     = "file"
	HistoryBackendPostgres = "postgres"
)

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	return Load(*envFlag)
}

// Load reads the env file for the given environment and parses the configuration.
// It does not touch command-line flags.
func Load(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if err := cfg.PipelineCfg.Mode.Validate(); err != nil {
		errors = append(errors, fmt.Sprintf("PIPELINE_MODE must be plan or refined, got %q", cfg.PipelineCfg.Mode))
	}

	if cfg.PipelineCfg.QuizQuestions < 1 || cfg.PipelineCfg.QuizQuestions > 20 {
		errors = append(errors, fmt.Sprintf("PIPELINE_QUIZ_QUESTIONS must be between 1 and 20, got %d", cfg.PipelineCfg.QuizQuestions))
	}

	if cfg.PipelineCfg.ChapterConcurrency < 1 || cfg.PipelineCfg.ChapterConcurrency > entity.MaxChapterCount {
		errors = append(errors, fmt.Sprintf("PIPELINE_CHAPTER_CONCURRENCY must be between 1 and %d, got %d", entity.MaxChapterCount, cfg.PipelineCfg.ChapterConcurrency))
	}

	switch cfg.DocumentCfg.Encoding {
	case "utf8", "ascii":
	default:
		errors = append(errors, fmt.Sprintf("DOCUMENT_ENCODING must be utf8 or ascii, got %q", cfg.DocumentCfg.Encoding))
	}

	if cfg.RequestTimeout <= 0 {
		errors = append(errors, "SERVER_REQUEST_TIMEOUT must be positive")
	}

	if cfg.LLMConnectorCfg.CallTimeout <= 0 {
		errors = append(errors, "LLM_CALL_TIMEOUT must be positive")
	}

	switch cfg.HistoryCfg.Backend {
	case HistoryBackendFile:
		if cfg.HistoryCfg.FilePath == "" {
			errors = append(errors, "HISTORY_FILE_PATH must be set for the file backend")
		}
	case HistoryBackendPostgres:
		if cfg.HistoryCfg.DatabaseURL == "" {
			errors = append(errors, "HISTORY_DATABASE_URL must be set for the postgres backend")
		}
		if cfg.HistoryCfg.DBMaxConns < 1 || cfg.HistoryCfg.DBMaxConns > 200 {
			errors = append(errors, fmt.Sprintf("HISTORY_DB_MAX_CONNS must be between 1 and 200, got %d", cfg.HistoryCfg.DBMaxConns))
		}
		if cfg.HistoryCfg.DBMinConns < 0 || cfg.HistoryCfg.DBMinConns > cfg.HistoryCfg.DBMaxConns {
			errors = append(errors, fmt.Sprintf("HISTORY_DB_MIN_CONNS must be between 0 and HISTORY_DB_MAX_CONNS(%d), got %d", cfg.HistoryCfg.DBMaxConns, cfg.HistoryCfg.DBMinConns))
		}
	default:
		errors = append(errors, fmt.Sprintf("HISTORY_BACKEND must be file or postgres, got %q", cfg.HistoryCfg.Backend))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
