package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// NLP providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Debug       bool   `envconfig:"DEBUG" default:"false"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	APIToken    string `envconfig:"API_TOKEN"`

	DataDir      string `envconfig:"DATA_DIR" default:"./data"`
	RecordDir    string `envconfig:"RECORD_DIR" default:"./records"`
	UniversePath string `envconfig:"UNIVERSE_PATH" default:"./universes/topix_core30.yaml"`

	TargetYear          int           `envconfig:"TARGET_YEAR" default:"2018"`
	FirstYear           int           `envconfig:"FIRST_YEAR" default:"2014"`
	MaxTextLength       int           `envconfig:"MAX_TEXT_LENGTH" default:"2000"`
	AttributeTextLength int           `envconfig:"ATTRIBUTE_TEXT_LENGTH" default:"1000"`
	SimilarityThreshold float64       `envconfig:"SIMILARITY_THRESHOLD" default:"0.8"`
	SummaryRatio        float64       `envconfig:"SUMMARY_RATIO" default:"0.25"`
	CallInterval        time.Duration `envconfig:"CALL_INTERVAL" default:"100ms"`

	NLPProvider          string `envconfig:"NLP_PROVIDER" default:"openai"`
	OpenAIAPIKey         string `envconfig:"OPENAI_API_KEY"`
	OpenAIChatModel      string `envconfig:"OPENAI_CHAT_MODEL"`
	OpenAIEmbeddingModel string `envconfig:"OPENAI_EMBEDDING_MODEL"`
	OpenAIEmbeddingDims  int    `envconfig:"OPENAI_EMBEDDING_DIMENSIONS" default:"0"`
	AnthropicAPIKey      string `envconfig:"ANTHROPIC_API_KEY"`
	AnthropicModel       string `envconfig:"ANTHROPIC_MODEL"`

	DatabaseURL  string        `envconfig:"DATABASE_URL"`
	SyncInterval time.Duration `envconfig:"SYNC_INTERVAL" default:"0"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"yuholens"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3Prefix    string `envconfig:"S3_PREFIX"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("YUHO", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the analysis parameters.
func (c *Config) Validate() error {
	var errs []error
	if c.MaxTextLength < 2 {
		errs = append(errs, fmt.Errorf("MAX_TEXT_LENGTH must be at least 2, got %d", c.MaxTextLength))
	}
	if c.AttributeTextLength <= 0 {
		errs = append(errs, fmt.Errorf("ATTRIBUTE_TEXT_LENGTH must be positive, got %d", c.AttributeTextLength))
	}
	if c.FirstYear >= c.TargetYear {
		errs = append(errs, fmt.Errorf("FIRST_YEAR %d must be before TARGET_YEAR %d", c.FirstYear, c.TargetYear))
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		errs = append(errs, fmt.Errorf("SIMILARITY_THRESHOLD must be within [0,1], got %g", c.SimilarityThreshold))
	}
	if c.SummaryRatio <= 0 || c.SummaryRatio > 1 {
		errs = append(errs, fmt.Errorf("SUMMARY_RATIO must be within (0,1], got %g", c.SummaryRatio))
	}
	if c.SyncInterval < 0 {
		errs = append(errs, fmt.Errorf("SYNC_INTERVAL must not be negative, got %s", c.SyncInterval))
	}
	if c.OpenAIEmbeddingDims < 0 {
		errs = append(errs, fmt.Errorf("OPENAI_EMBEDDING_DIMENSIONS must not be negative, got %d", c.OpenAIEmbeddingDims))
	}
	if c.CallInterval < 0 {
		errs = append(errs, fmt.Errorf("CALL_INTERVAL must not be negative, got %s", c.CallInterval))
	}
	if c.NLPProvider != ProviderOpenAI && c.NLPProvider != ProviderAnthropic {
		errs = append(errs, fmt.Errorf("NLP_PROVIDER must be %q or %q, got %q", ProviderOpenAI, ProviderAnthropic, c.NLPProvider))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// ValidateProvider checks that the selected language service has credentials.
// Only commands that call the service need it.
func (c *Config) ValidateProvider() error {
	switch c.NLPProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("YUHO_OPENAI_API_KEY is required when NLP_PROVIDER is openai")
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return errors.New("YUHO_ANTHROPIC_API_KEY is required when NLP_PROVIDER is anthropic")
		}
		if c.OpenAIAPIKey == "" {
			log.Printf("config: no OpenAI key, similarity will be judged by prompt")
		}
	}
	return nil
}

func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasSentry() bool {
	return c.SentryDSN != ""
}

// TracesSampleRate samples everything in development and 10% elsewhere.
func (c *Config) TracesSampleRate() float64 {
	if c.Environment == "development" {
		return 1.0
	}
	return 0.1
}
