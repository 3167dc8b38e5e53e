package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, k := range []string{"PORT", "REQUEST_TIMEOUT", "CLOSE_ON_SELECT", "CORS_ORIGINS", "REDIS_ADDR"} {
			t.Setenv(k, "")
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Port != "8080" {
			t.Errorf("expected port 8080, got %s", cfg.Port)
		}
		if cfg.RequestTimeout != 30*time.Second {
			t.Errorf("expected 30s timeout, got %v", cfg.RequestTimeout)
		}
		if !cfg.CloseOnSelect {
			t.Error("expected single-select by default")
		}
		if cfg.RedisAddr != "" {
			t.Errorf("expected no redis by default, got %q", cfg.RedisAddr)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("REQUEST_TIMEOUT", "2s")
		t.Setenv("CLOSE_ON_SELECT", "false")
		t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")

		cfg, _ := Load()
		if cfg.Port != "9090" || cfg.RequestTimeout != 2*time.Second || cfg.CloseOnSelect {
			t.Errorf("overrides not applied: %+v", cfg)
		}
		want := []string{"https://a.example", "https://b.example"}
		if !reflect.DeepEqual(cfg.CORSOrigins, want) {
			t.Errorf("expected %v, got %v", want, cfg.CORSOrigins)
		}
	})

	t.Run("invalid values fall back", func(t *testing.T) {
		t.Setenv("REQUEST_TIMEOUT", "-1s")
		t.Setenv("CLOSE_ON_SELECT", "maybe")

		cfg, _ := Load()
		if cfg.RequestTimeout != 30*time.Second {
			t.Errorf("expected fallback timeout, got %v", cfg.RequestTimeout)
		}
		if !cfg.CloseOnSelect {
			t.Error("expected fallback to true")
		}
	})
}
