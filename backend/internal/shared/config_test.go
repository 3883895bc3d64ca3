package shared

import (
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Run("GetEnv", func(t *testing.T) {
		t.Setenv("TEST_STR", "value")
		if got := GetEnv("TEST_STR", "fallback"); got != "value" {
			t.Errorf("GetEnv = %q, want value", got)
		}
		if got := GetEnv("TEST_STR_MISSING", "fallback"); got != "fallback" {
			t.Errorf("GetEnv = %q, want fallback", got)
		}
	})

	t.Run("GetIntEnv", func(t *testing.T) {
		t.Setenv("TEST_INT", "42")
		if got := GetIntEnv("TEST_INT", 7); got != 42 {
			t.Errorf("GetIntEnv = %d, want 42", got)
		}

		t.Setenv("TEST_INT_BAD", "not-a-number")
		if got := GetIntEnv("TEST_INT_BAD", 7); got != 7 {
			t.Errorf("GetIntEnv = %d, want fallback 7 on parse failure", got)
		}
	})

	t.Run("GetDurationEnv", func(t *testing.T) {
		t.Setenv("TEST_DUR", "90s")
		if got := GetDurationEnv("TEST_DUR", time.Minute); got != 90*time.Second {
			t.Errorf("GetDurationEnv = %v, want 90s", got)
		}
		if got := GetDurationEnv("TEST_DUR_MISSING", time.Minute); got != time.Minute {
			t.Errorf("GetDurationEnv = %v, want fallback 1m", got)
		}
	})

	t.Run("GetBoolEnv", func(t *testing.T) {
		t.Setenv("TEST_BOOL", "true")
		if !GetBoolEnv("TEST_BOOL", false) {
			t.Error("GetBoolEnv = false, want true")
		}
		if GetBoolEnv("TEST_BOOL_MISSING", false) {
			t.Error("GetBoolEnv = true, want fallback false")
		}
	})
}

func TestLoadServerConfig(t *testing.T) {
	t.Run("requires mongo uri", func(t *testing.T) {
		t.Setenv("MONGO_URI", "")
		t.Setenv("JWT_SECRET", "secret")
		if _, err := LoadServerConfig("test"); err == nil {
			t.Error("expected error when MONGO_URI is unset")
		}
	})

	t.Run("requires jwt secret", func(t *testing.T) {
		t.Setenv("MONGO_URI", "mongodb://localhost:27017")
		t.Setenv("JWT_SECRET", "")
		if _, err := LoadServerConfig("test"); err == nil {
			t.Error("expected error when JWT_SECRET is unset")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("MONGO_URI", "mongodb://localhost:27017")
		t.Setenv("JWT_SECRET", "secret")

		cfg, err := LoadServerConfig("test")
		if err != nil {
			t.Fatalf("LoadServerConfig returned error: %v", err)
		}
		if cfg.MongoDB.Database != "school_records" {
			t.Errorf("Database = %q, want school_records", cfg.MongoDB.Database)
		}
		if cfg.Security.JWTExpirationHours != 24 {
			t.Errorf("JWTExpirationHours = %d, want 24", cfg.Security.JWTExpirationHours)
		}
		if cfg.Security.BCryptCost != 10 {
			t.Errorf("BCryptCost = %d, want 10", cfg.Security.BCryptCost)
		}
	})
}
