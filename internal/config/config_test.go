package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Catalog.PageSize != 2 {
		t.Errorf("Expected default page size 2, got %d", cfg.Catalog.PageSize)
	}
	if cfg.Auth.JWTExpiry != 30*24*time.Hour {
		t.Errorf("Expected default JWT expiry 720h, got %v", cfg.Auth.JWTExpiry)
	}
	if cfg.Server.Port != "5000" {
		t.Errorf("Expected default port 5000, got %s", cfg.Server.Port)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CATALOG_PAGE_SIZE", "12")
	t.Setenv("CATALOG_CACHE_TTL", "2m")
	t.Setenv("STORAGE_USE_SSL", "true")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := Load()

	if cfg.Catalog.PageSize != 12 {
		t.Errorf("Expected page size 12, got %d", cfg.Catalog.PageSize)
	}
	if cfg.Catalog.CacheTTL != 2*time.Minute {
		t.Errorf("Expected cache TTL 2m, got %v", cfg.Catalog.CacheTTL)
	}
	if !cfg.Storage.UseSSL {
		t.Error("Expected storage SSL to be enabled")
	}
	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("Expected fallback to 25 open conns, got %d", cfg.Database.MaxOpenConns)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Load()
		cfg.Storage.AccessKeyID = "key"
		cfg.Storage.SecretAccessKey = "secret"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults with credentials", func(*Config) {}, false},
		{"zero page size", func(c *Config) { c.Catalog.PageSize = 0 }, true},
		{"default secret in production", func(c *Config) { c.Env = "production" }, true},
		{"production with secret", func(c *Config) { c.Env = "production"; c.Auth.Secret = "s3cr3t" }, false},
		{"missing storage credentials", func(c *Config) { c.Storage.AccessKeyID = "" }, true},
		{"memory driver", func(c *Config) { c.Database.Driver = "memory" }, false},
		{"unknown driver", func(c *Config) { c.Database.Driver = "sqlite" }, true},
		{"storage disabled", func(c *Config) { c.Storage.Enabled = false; c.Storage.AccessKeyID = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
