package config

import "testing"

func TestLoadServerDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/market?sslmode=disable")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":3000" {
		t.Fatalf("HTTPAddr = %q, want :3000", cfg.HTTPAddr)
	}
	if cfg.Store != StorePostgres {
		t.Fatalf("Store = %q, want postgres", cfg.Store)
	}
	if !cfg.AllowNegative {
		t.Fatal("AllowNegative should default to true")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
	if cfg.TrustProxyHeaders {
		t.Fatal("TrustProxyHeaders should default to false")
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("KafkaBrokers = %v, want empty", cfg.KafkaBrokers)
	}
}

func TestLoadServerRequiresPostgresDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")

	_, err := LoadServer()
	if err == nil {
		t.Fatal("LoadServer() expected error, got nil")
	}
}

func TestLoadServerMemoryStoreNeedsNoDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("LEDGER_STORE", "memory")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.Store != StoreMemory {
		t.Fatalf("Store = %q, want memory", cfg.Store)
	}
}

func TestLoadServerRejectsUnknownStore(t *testing.T) {
	t.Setenv("LEDGER_STORE", "mongo")

	if _, err := LoadServer(); err == nil {
		t.Fatal("LoadServer() expected error for unknown store")
	}
}

func TestLoadServerParseTypes(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/market?sslmode=disable")
	t.Setenv("LEDGER_ALLOW_NEGATIVE", "false")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("UPDATE_RATE_LIMIT", "5")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.AllowNegative {
		t.Fatal("AllowNegative = true, want false")
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}
	if cfg.UpdateRateLimit != 5 {
		t.Fatalf("UpdateRateLimit = %d, want 5", cfg.UpdateRateLimit)
	}
}
