package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestDecodeDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Decode(v)
	if err != nil {
		t.Fatalf("decode defaults failed: %v", err)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("expected sqlite driver, got %s", cfg.Database.Driver)
	}
	if cfg.Session.CookieName != "sf_cart" {
		t.Fatalf("unexpected cookie name: %s", cfg.Session.CookieName)
	}
	if cfg.Catalog.DefaultPageSize != 20 {
		t.Fatalf("unexpected page size: %d", cfg.Catalog.DefaultPageSize)
	}
	if cfg.Security.CheckoutRateLimit.MaxAttempts != 10 {
		t.Fatalf("unexpected checkout limit: %d", cfg.Security.CheckoutRateLimit.MaxAttempts)
	}
	if cfg.Queue.Queues["critical"] != 5 {
		t.Fatalf("unexpected queue weights: %+v", cfg.Queue.Queues)
	}
}

func TestDecodeYAMLOverrides(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	SetDefaults(v)
	raw := `
server:
  port: "9090"
database:
  driver: postgres
  dsn: "host=db user=sf dbname=sf"
session:
  cookie_name: "  "
catalog:
  low_stock_threshold: 7
`
	if err := v.ReadConfig(strings.NewReader(raw)); err != nil {
		t.Fatalf("read yaml failed: %v", err)
	}

	cfg, err := Decode(v)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Database.Driver != "postgres" {
		t.Fatalf("overrides not applied: %+v", cfg.Server)
	}
	if cfg.Session.CookieName != "sf_cart" {
		t.Fatalf("blank cookie name should fall back, got %q", cfg.Session.CookieName)
	}
	if cfg.Catalog.LowStockThreshold != 7 {
		t.Fatalf("unexpected threshold: %d", cfg.Catalog.LowStockThreshold)
	}
	if cfg.Upload.Dir != "uploads" {
		t.Fatalf("unexpected upload dir: %s", cfg.Upload.Dir)
	}
}
