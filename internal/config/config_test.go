package config

import (
	"testing"
	"time"
)

func TestLoadTenants(t *testing.T) {
	t.Setenv("RESTAURANT_1_DOMAIN", "Pos.Alpha.Example")
	t.Setenv("RESTAURANT_1_ID", "1")
	t.Setenv("RESTAURANT_2_DOMAIN", "pos.beta.example")
	t.Setenv("RESTAURANT_2_ID", "2")
	// gap at 3 stops enumeration
	t.Setenv("RESTAURANT_4_DOMAIN", "pos.gamma.example")
	t.Setenv("RESTAURANT_4_ID", "4")

	tenants := loadTenants()
	if len(tenants) != 2 {
		t.Fatalf("tenants = %v, want 2 entries", tenants)
	}
	if tenants["pos.alpha.example"] != 1 {
		t.Error("domains must be lowercased")
	}
	if _, ok := tenants["pos.gamma.example"]; ok {
		t.Error("enumeration must stop at the first gap")
	}
}

func TestLoadTenantsEmpty(t *testing.T) {
	t.Setenv("RESTAURANT_1_DOMAIN", "")
	t.Setenv("RESTAURANT_1_ID", "")
	tenants := loadTenants()
	if len(tenants) != 0 {
		t.Errorf("tenants = %v, want empty", tenants)
	}
}

func TestLoadCacheConfigDefaults(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("CACHE_PREFIX", "")
	cfg := LoadCacheConfig()
	if !cfg.Enabled {
		t.Error("cache should default to enabled")
	}
	if cfg.TTL != 5*time.Second {
		t.Errorf("TTL = %v, want 5s", cfg.TTL)
	}
	if cfg.Prefix == "" {
		t.Error("prefix must not be empty")
	}
}

func TestLoadCacheConfigOverrides(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_TTL", "30s")
	cfg := LoadCacheConfig()
	if cfg.Enabled {
		t.Error("CACHE_ENABLED=false should disable the cache")
	}
	if cfg.TTL != 30*time.Second {
		t.Errorf("TTL = %v, want 30s", cfg.TTL)
	}
}
