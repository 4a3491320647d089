package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// setRequired sets the minimum environment for Load() to succeed.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "sqlite://app.db")
	t.Setenv("JWT_SECRET", "s3cret")
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env, no configs/
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "development" || cfg.IsProduction() {
		t.Fatalf("env: %+v", cfg)
	}
	if cfg.Port != 8080 || cfg.DatabaseURL != "sqlite://app.db" || cfg.JWTSecret != "s3cret" {
		t.Fatalf("required keys: %+v", cfg)
	}
	if cfg.JWTExpiration != 60*time.Minute {
		t.Fatalf("jwt_expiration default: %v", cfg.JWTExpiration)
	}
	if cfg.APIBasePath != "/api/v1" || cfg.LogLevel != "info" {
		t.Fatalf("defaults: %+v", cfg)
	}
	if cfg.ReadTimeout != 15*time.Second || cfg.RateBurst != 10 {
		t.Fatalf("defaults: %+v", cfg)
	}
}

func TestLoad_MissingRequiredKeys(t *testing.T) {
	cases := []struct {
		name string
		skip string // env var to leave unset
		want string
	}{
		{"no port", "PORT", "port must be between 1 and 65535"},
		{"no database_url", "DATABASE_URL", "database_url is required"},
		{"no jwt_secret", "JWT_SECRET", "jwt_secret is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			if tc.skip != "PORT" {
				t.Setenv("PORT", "8080")
			}
			if tc.skip != "DATABASE_URL" {
				t.Setenv("DATABASE_URL", "sqlite://app.db")
			}
			if tc.skip != "JWT_SECRET" {
				t.Setenv("JWT_SECRET", "s3cret")
			}
			// Make sure the skipped key really is absent.
			t.Setenv(tc.skip, "")
			os.Unsetenv(tc.skip)

			if _, err := Load(); err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q error, got %v", tc.want, err)
			}
		})
	}
}

func TestLoad_PortOutOfRange(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)
	t.Setenv("PORT", "70000")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "between 1 and 65535") {
		t.Fatalf("expected port-range error, got %v", err)
	}
}

func TestLoad_RejectsUnknownDBScheme(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)
	t.Setenv("DATABASE_URL", "mongodb://localhost/app")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "database_url must start with") {
		t.Fatalf("expected scheme error, got %v", err)
	}
}

func TestLoad_AcceptedDBSchemes(t *testing.T) {
	for _, url := range []string{
		"sqlite://app.db",
		"file:app.db",
		"postgres://u:p@localhost:5432/app",
		"postgresql://u:p@localhost:5432/app",
	} {
		t.Run(url, func(t *testing.T) {
			t.Chdir(t.TempDir())
			setRequired(t)
			t.Setenv("DATABASE_URL", url)
			if _, err := Load(); err != nil {
				t.Fatalf("Load(%s): %v", url, err)
			}
		})
	}
}

func TestLoad_EnvNamedSettingsFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "configs"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := "" +
		"port: 9090\n" +
		"database_url: postgres://u:p@db:5432/app\n" +
		"jwt_secret: from-file\n" +
		"jwt_expiration: 120\n" +
		"api_base_path: api/v2/\n" +
		"log_level: warning\n"
	if err := os.WriteFile(filepath.Join(dir, "configs", "config.test.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("APP_ENV", "test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "test" || cfg.Port != 9090 || cfg.JWTSecret != "from-file" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.JWTExpiration != 2*time.Hour {
		t.Fatalf("jwt_expiration: %v", cfg.JWTExpiration)
	}
	if cfg.APIBasePath != "/api/v2" {
		t.Fatalf("base path normalization: %q", cfg.APIBasePath)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("warning should normalize to warn: %q", cfg.LogLevel)
	}
}

func TestLoad_EnvOverridesSettingsFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.test.yaml"),
		[]byte("port: 9090\ndatabase_url: sqlite://file.db\njwt_secret: from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("APP_ENV", "test")
	t.Setenv("PORT", "7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 7070 {
		t.Fatalf("environment must win over file: %+v", cfg)
	}
}

func TestLoad_MalformedSettingsFileIsFatal(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.test.yaml"),
		[]byte("port: [unclosed\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("APP_ENV", "test")
	setRequired(t)

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "config.test.yaml") {
		t.Fatalf("malformed settings file must fail Load, got %v", err)
	}
}

func TestLoad_DotEnvOverrideFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("JWT_SECRET=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "sqlite://app.db")
	// Register cleanup for JWT_SECRET, then unset so .env supplies it.
	t.Setenv("JWT_SECRET", "placeholder")
	os.Unsetenv("JWT_SECRET")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.JWTSecret != "from-dotenv" {
		t.Fatalf("expected .env value, got %q", cfg.JWTSecret)
	}
}

func TestLoad_MissingDotEnvIsIgnored(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)
	if _, err := Load(); err != nil {
		t.Fatalf("absent .env must be ignored: %v", err)
	}
}

func TestLoad_InvalidEnvName(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)
	t.Setenv("APP_ENV", "staging")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "APP_ENV") {
		t.Fatalf("expected APP_ENV error, got %v", err)
	}
}

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)
	t.Setenv("PORT", "0")
	defer func() {
		if recover() == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":        "/",
		"/":       "/",
		"api":     "/api",
		"/api/":   "/api",
		"api/v1/": "/api/v1",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Fatalf("normalizeBasePath(%q)=%q want %q", in, got, want)
		}
	}
}
