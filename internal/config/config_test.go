package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.App.Name != "erpdesk-api" || cfg.App.Port != "8080" {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Inventory.LowStockThreshold != 5 || cfg.Inventory.EnforceStock {
		t.Errorf("inventory = %+v", cfg.Inventory)
	}
	if cfg.JWT.ExpiryHours != 12*time.Hour {
		t.Errorf("jwt expiry = %v", cfg.JWT.ExpiryHours)
	}
	if len(cfg.CORS.AllowedMethods) != 6 {
		t.Errorf("cors methods = %v", cfg.CORS.AllowedMethods)
	}
	if cfg.CORS.AllowedHeaders != nil {
		t.Errorf("cors headers = %v, want none", cfg.CORS.AllowedHeaders)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/shop.db")
	t.Setenv("INVENTORY_ENFORCE_STOCK", "true")
	t.Setenv("INVENTORY_LOW_STOCK_THRESHOLD", "10")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("DB_LOG_LEVEL", "INFO")

	cfg := Load()

	if cfg.Database.Path != "/tmp/shop.db" {
		t.Errorf("db path = %q", cfg.Database.Path)
	}
	if cfg.Database.LogLevel != "info" {
		t.Errorf("log level = %q", cfg.Database.LogLevel)
	}
	if !cfg.Inventory.EnforceStock || cfg.Inventory.LowStockThreshold != 10 {
		t.Errorf("inventory = %+v", cfg.Inventory)
	}
	origins := cfg.CORS.AllowedOrigins
	if len(origins) != 2 || origins[1] != "http://b.test" {
		t.Errorf("origins = %v", origins)
	}
}
