package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		JWTSecret:          "test-secret",
		TokenTTL:           time.Hour,
		DataFile:           "data/db.json",
		UploadDir:          "uploads",
		MaxUploadBytes:     10 * 1024 * 1024,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 60,
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: true},
		{name: "no persistence", mutate: func(c *Config) { c.DataFile = "" }, wantErr: true},
		{name: "database only", mutate: func(c *Config) { c.DataFile = ""; c.DatabaseURL = "postgres://localhost/hris" }},
		{name: "small body limit", mutate: func(c *Config) { c.MaxBodyBytes = 10 }, wantErr: true},
		{name: "zero rate limit", mutate: func(c *Config) { c.RateLimitPerMinute = 0 }, wantErr: true},
		{name: "production short secret", mutate: func(c *Config) { c.Environment = "production" }, wantErr: true},
		{name: "production complete", mutate: func(c *Config) {
			c.Environment = "production"
			c.JWTSecret = "0123456789abcdef0123456789abcdef"
			c.DataEncryptionKey = "0123456789abcdef0123456789abcdef"
			c.SeedAdminPassword = "Str0ng!Passw0rd"
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("HRIS_TEST_INT", "not-a-number")
	t.Setenv("HRIS_TEST_DURATION", "90s")
	if got := getEnvInt("HRIS_TEST_INT", 7); got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
	if got := getEnvDuration("HRIS_TEST_DURATION", time.Hour); got != 90*time.Second {
		t.Fatalf("expected 90s, got %s", got)
	}
	if got := getEnv("HRIS_TEST_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
