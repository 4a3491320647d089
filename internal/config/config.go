// Package config loads the application configuration from three layers:
// an optional flat .env override file, an environment-named YAML settings
// file (config.<env>.yaml), and plain environment variables with defaults.
//
// The result is a single immutable snapshot constructed once at startup and
// passed by value into every component that needs it. There is no global
// configuration state: if Load fails, the process must exit rather than run
// with partial configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Accepted database_url scheme prefixes. These are the two engines the
// repository actually ships drivers for, plus the raw SQLite file form.
var acceptedDBSchemes = []string{"sqlite://", "file:", "postgres://", "postgresql://"}

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-header settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry tracing settings.
type OTELConfig struct {
	Enabled     bool
	Endpoint    string  // OTLP gRPC endpoint, e.g. "otel:4317"
	Insecure    bool    // true when the collector has no TLS
	ServiceName string  // reported service.name
	SampleRatio float64 // trace sampling ratio in [0,1]
}

// Config is the process-wide configuration snapshot.
type Config struct {
	// Environment
	Env string // development|production|test

	// Server
	Host              string
	Port              int // 1–65535
	SSLEnabled        bool
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	APIBasePath       string

	// Persistence
	DatabaseURL string

	// Auth
	JWTSecret     string
	JWTExpiration time.Duration // stored as a duration; configured in minutes

	// Logging / Docs
	LogLevel       string
	LogPretty      bool
	SwaggerEnabled bool

	// Rate limiting
	RateRPS   float64
	RateBurst int

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// IsProduction reports whether the snapshot was loaded for production.
// Error responses include internal detail and stack traces only when this
// is false.
func (c Config) IsProduction() bool { return c.Env == "production" }

// Addr returns the host:port the server should bind.
func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load assembles and validates the configuration snapshot.
//
// Layering, lowest precedence first: built-in defaults, then the
// environment-named YAML file (absent files are fine, malformed ones are
// not), then environment variables. Before any of that, an optional .env
// file in the working directory is loaded into the process environment;
// a missing .env is ignored, any other read failure is an error.
func Load() (Config, error) {
	var cfg Config

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("reading .env override: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("env", "APP_ENV")

	env := strings.ToLower(strings.TrimSpace(v.GetString("env")))
	if env == "" {
		env = "development"
	}

	v.SetConfigName("config." + env)
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("reading config.%s.yaml: %w", env, err)
		}
		// No settings file: defaults and environment variables apply.
	}

	cfg = Config{
		Env: env,

		Host:              v.GetString("host"),
		Port:              v.GetInt("port"),
		SSLEnabled:        v.GetBool("ssl_enabled"),
		ReadTimeout:       v.GetDuration("read_timeout"),
		ReadHeaderTimeout: v.GetDuration("read_header_timeout"),
		WriteTimeout:      v.GetDuration("write_timeout"),
		IdleTimeout:       v.GetDuration("idle_timeout"),
		MaxHeaderBytes:    v.GetInt("max_header_bytes"),
		APIBasePath:       normalizeBasePath(v.GetString("api_base_path")),

		DatabaseURL: v.GetString("database_url"),

		JWTSecret:     v.GetString("jwt_secret"),
		JWTExpiration: time.Duration(v.GetInt("jwt_expiration")) * time.Minute,

		LogLevel:       strings.ToLower(v.GetString("log_level")),
		LogPretty:      v.GetBool("log_pretty"),
		SwaggerEnabled: v.GetBool("swagger_enabled"),

		RateRPS:   v.GetFloat64("rate_rps"),
		RateBurst: v.GetInt("rate_burst"),

		CORS: CORSConfig{
			AllowedOrigins: splitCSV(v.GetString("cors_allowed_origins")),
		},
		Security: SecurityConfig{
			EnableHSTS: v.GetBool("enable_hsts"),
			HSTSMaxAge: v.GetDuration("hsts_max_age"),
		},

		OTEL: OTELConfig{
			Enabled:     v.GetBool("otel.enabled"),
			Endpoint:    v.GetString("otel.endpoint"),
			Insecure:    v.GetBool("otel.insecure"),
			ServiceName: v.GetString("otel.service_name"),
			SampleRatio: v.GetFloat64("otel.sample_ratio"),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.Env {
	case "development", "production", "test":
	default:
		return cfg, fmt.Errorf("APP_ENV must be one of: development, production, test (got %q)", cfg.Env)
	}

	// --- validation ---
	if cfg.Port < 1 || cfg.Port > 65535 {
		return cfg, fmt.Errorf("port must be between 1 and 65535 (got %d)", cfg.Port)
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return cfg, errors.New("database_url is required")
	}
	if !hasAcceptedScheme(cfg.DatabaseURL) {
		return cfg, fmt.Errorf("database_url must start with one of: %s", strings.Join(acceptedDBSchemes, ", "))
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return cfg, errors.New("jwt_secret is required")
	}
	if cfg.JWTExpiration <= 0 {
		return cfg, errors.New("jwt_expiration must be a positive number of minutes")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("log_level must be one of: debug, info, warn, error, fatal, panic")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("server timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("max_header_bytes must be > 0")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("rate_rps must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("rate_burst must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("hsts_max_age must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("otel.sample_ratio must be in [0,1]")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")

	v.SetDefault("host", "")
	// No port default: a snapshot without an explicit port must fail
	// validation rather than silently serve somewhere.
	v.SetDefault("port", 0)
	v.SetDefault("ssl_enabled", false)
	v.SetDefault("read_timeout", 15*time.Second)
	v.SetDefault("read_header_timeout", 10*time.Second)
	v.SetDefault("write_timeout", 20*time.Second)
	v.SetDefault("idle_timeout", 60*time.Second)
	v.SetDefault("max_header_bytes", 1<<20)
	v.SetDefault("api_base_path", "/api/v1")

	v.SetDefault("database_url", "")

	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_expiration", 60) // minutes

	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
	v.SetDefault("swagger_enabled", false)

	v.SetDefault("rate_rps", 5.0)
	v.SetDefault("rate_burst", 10)

	v.SetDefault("cors_allowed_origins", "")
	v.SetDefault("enable_hsts", false)
	v.SetDefault("hsts_max_age", 180*24*time.Hour)

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.endpoint", "localhost:4317")
	v.SetDefault("otel.insecure", true)
	v.SetDefault("otel.service_name", "go-api-starter")
	v.SetDefault("otel.sample_ratio", 1.0)
}

func hasAcceptedScheme(url string) bool {
	for _, s := range acceptedDBSchemes {
		if strings.HasPrefix(url, s) {
			return true
		}
	}
	return false
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures a leading '/' and strips any trailing '/'
// (except for the root path itself).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}
