package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/stylecheck/reconciler/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig
	Catalog   CatalogConfig
	RateLimit RateLimitConfig
	Retry     RetryConfig
	Batch     BatchConfig
	Cache     CacheConfig
	Output    OutputConfig
	Dataset   DatasetConfig
	Log       LogConfig
	Stub      StubConfig
}

// AppConfig selects the reconciliation job
type AppConfig struct {
	Profile     string `mapstructure:"profile"`
	Environment string `mapstructure:"environment"`
}

// CatalogConfig holds catalog API configuration
type CatalogConfig struct {
	BaseURL        string        `mapstructure:"base_url" validate:"required,url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// RateLimitConfig holds the rolling window budget. A zero budget disables limiting.
type RateLimitConfig struct {
	RequestsPerWindow int           `mapstructure:"requests_per_window" validate:"gte=0"`
	Window            time.Duration `mapstructure:"window" validate:"gt=0"`
	ResetAfterWait    bool          `mapstructure:"reset_after_wait"`
}

// RetryConfig holds the validator retry policy
type RetryConfig struct {
	MaxRateLimitRetries int           `mapstructure:"max_rate_limit_retries" validate:"gte=1"`
	RateLimitBackoff    time.Duration `mapstructure:"rate_limit_backoff" validate:"gt=0"`
	MaxTimeoutRetries   int           `mapstructure:"max_timeout_retries" validate:"gte=1"`
	TimeoutBackoff      time.Duration `mapstructure:"timeout_backoff" validate:"gt=0"`
}

// BatchConfig holds orchestration settings
type BatchConfig struct {
	Concurrency int           `mapstructure:"concurrency" validate:"gte=1,lte=100"`
	GroupPause  time.Duration `mapstructure:"group_pause" validate:"gte=0"`
}

// CacheConfig holds cache-related configuration. Zero capacity means unbounded.
type CacheConfig struct {
	Capacity int `mapstructure:"capacity" validate:"gte=0"`
}

// OutputConfig holds report destination settings
type OutputConfig struct {
	Dir      string `mapstructure:"dir" validate:"required"`
	SQLTable string `mapstructure:"sql_table" validate:"required,sqlident"`
}

// DatasetConfig optionally points at an external CSV instead of the embedded data
type DatasetConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StubConfig holds settings for the offline catalog stub server
type StubConfig struct {
	Port           string   `mapstructure:"port"`
	Fixture        string   `mapstructure:"fixture"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// NewFlagSet declares the command line flags Load understands
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("profile", "", "reconciliation profile ("+strings.Join(domain.ProfileNames(), ", ")+")")
	fs.String("output-dir", "", "directory for report files")
	fs.String("dataset", "", "external CSV to use instead of the embedded dataset")
	fs.String("base-url", "", "catalog API base URL")
	fs.Int("concurrency", 0, "lookups per batch")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	return fs
}

// flagKeys maps flag names to config keys
var flagKeys = map[string]string{
	"profile":     "app.profile",
	"output-dir":  "output.dir",
	"dataset":     "dataset.path",
	"base-url":    "catalog.base_url",
	"concurrency": "batch.concurrency",
	"log-level":   "log.level",
}

// Load loads configuration from flags, environment variables, a .env file
// and config files, in that order of precedence. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/stylecheck/")

	// Environment variable settings
	v.SetEnvPrefix("STYLECHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env when present. Variables already set win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.profile", "new-products")
	v.SetDefault("app.environment", "development")

	// Catalog defaults
	v.SetDefault("catalog.base_url", "https://caspio-pricing-proxy-ab30a049961a.herokuapp.com/api")
	v.SetDefault("catalog.request_timeout", "10s")
	v.SetDefault("catalog.user_agent", "StyleCheck/1.0")

	// Rate limit defaults
	v.SetDefault("ratelimit.requests_per_window", 30)
	v.SetDefault("ratelimit.window", "60s")
	v.SetDefault("ratelimit.reset_after_wait", true)

	// Retry defaults
	v.SetDefault("retry.max_rate_limit_retries", 3)
	v.SetDefault("retry.rate_limit_backoff", "5s")
	v.SetDefault("retry.max_timeout_retries", 2)
	v.SetDefault("retry.timeout_backoff", "1s")

	// Batch defaults
	v.SetDefault("batch.concurrency", 5)
	v.SetDefault("batch.group_pause", "500ms")

	v.SetDefault("cache.capacity", 0)

	v.SetDefault("output.dir", ".")
	v.SetDefault("output.sql_table", "products")
	v.SetDefault("dataset.path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("stub.port", "8081")
	v.SetDefault("stub.fixture", "")
	v.SetDefault("stub.allowed_origins", []string{"http://localhost:*", "http://127.0.0.1:*"})
}

// sqlIdentifier is a bare or schema-qualified table name, safe to splice into SQL unquoted
var sqlIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("sqlident", func(fl validator.FieldLevel) bool {
		return sqlIdentifier.MatchString(fl.Field().String())
	})
	return v
}

// validate validates the configuration
func validate(config *Config) error {
	if _, err := domain.LookupProfile(config.App.Profile); err != nil {
		return err
	}

	if config.Log.Format != "json" && config.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	if err := structValidator.Struct(config); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("%s failed %q check (value %v)", fe.Namespace(), strings.TrimSpace(fe.Tag()+" "+fe.Param()), fe.Value())
		}
		return err
	}

	return nil
}
