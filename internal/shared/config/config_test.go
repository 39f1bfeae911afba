package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVICE_NAME", "consensus-sync")

	cfg := Load()

	if cfg.Env != "local" {
		t.Fatalf("Env = %q, want local", cfg.Env)
	}
	if cfg.SupplierWSURL != "ws://localhost:8081/ws" {
		t.Fatalf("SupplierWSURL = %q", cfg.SupplierWSURL)
	}
	if cfg.ReconnectDelay != 3*time.Second {
		t.Fatalf("ReconnectDelay = %v, want 3s", cfg.ReconnectDelay)
	}
	if cfg.MetricsPort != "9096" {
		t.Fatalf("MetricsPort = %q, want 9096", cfg.MetricsPort)
	}
	if cfg.CacheEnabled || cfg.RelayEnabled {
		t.Fatal("optional integrations must default to disabled")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVICE_NAME", "consensus-sync")
	t.Setenv("SESSION_TOKEN", "tok-123")
	t.Setenv("RECONNECT_DELAY", "500ms")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("RELAY_ENABLED", "1")
	t.Setenv("SUPPLIER_WS_URL", "ws://supplier:9000/ws")

	cfg := Load()

	if cfg.SessionToken != "tok-123" {
		t.Fatalf("SessionToken = %q", cfg.SessionToken)
	}
	if cfg.ReconnectDelay != 500*time.Millisecond {
		t.Fatalf("ReconnectDelay = %v, want 500ms", cfg.ReconnectDelay)
	}
	if !cfg.CacheEnabled || !cfg.RelayEnabled {
		t.Fatal("optional integrations must honor env overrides")
	}
	if cfg.SupplierWSURL != "ws://supplier:9000/ws" {
		t.Fatalf("SupplierWSURL = %q", cfg.SupplierWSURL)
	}
}

func TestLoadBadDurationFallsBack(t *testing.T) {
	t.Setenv("SERVICE_NAME", "consensus-sync")
	t.Setenv("RECONNECT_DELAY", "not-a-duration")

	if cfg := Load(); cfg.ReconnectDelay != 3*time.Second {
		t.Fatalf("ReconnectDelay = %v, want 3s fallback", cfg.ReconnectDelay)
	}
}
