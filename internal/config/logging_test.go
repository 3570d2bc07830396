package config

import "testing"

func TestLoadLogDefaults(t *testing.T) {
	cfg, err := LoadLog()
	if err != nil {
		t.Fatalf("LoadLog() error = %v", err)
	}
	if cfg.Level != "info" {
		t.Fatalf("Level = %q, want info", cfg.Level)
	}
	if cfg.MaxMB != 10 {
		t.Fatalf("MaxMB = %d, want 10", cfg.MaxMB)
	}
}

func TestLoadLogParse(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("LOG_FILE", "/tmp/market.log")

	cfg, err := LoadLog()
	if err != nil {
		t.Fatalf("LoadLog() error = %v", err)
	}
	if cfg.Level != "debug" || !cfg.Pretty || cfg.File != "/tmp/market.log" {
		t.Fatalf("unexpected log config: %+v", cfg)
	}
}

func TestLoadLogValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    string
		wantErr bool
	}{
		{name: "upper case level", env: map[string]string{"LOG_LEVEL": " WARN "}, want: "warn"},
		{name: "blank level", env: map[string]string{"LOG_LEVEL": " "}, want: "info"},
		{name: "unknown level", env: map[string]string{"LOG_LEVEL": "loud"}, wantErr: true},
		{name: "negative size", env: map[string]string{"LOG_MAX_MB": "-1"}, wantErr: true},
		{name: "negative sampling", env: map[string]string{"LOG_SAMPLE_EVERY": "-2"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadLog()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", cfg)
				}
				return
			}
			if err != nil || cfg.Level != tt.want {
				t.Fatalf("level = %q err = %v, want %q", cfg.Level, err, tt.want)
			}
		})
	}
}

func TestLoadTest(t *testing.T) {
	t.Setenv("TEST_POSTGRES_DSN", "")
	if _, err := LoadTest(); err == nil {
		t.Fatal("expected error without TEST_POSTGRES_DSN")
	}

	t.Setenv("TEST_POSTGRES_DSN", "postgres://localhost/market_test")
	cfg, err := LoadTest()
	if err != nil {
		t.Fatalf("LoadTest() error = %v", err)
	}
	if cfg.SchemaPrefix != "vm_test" || cfg.KeepSchema {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	t.Setenv("TEST_SCHEMA_PREFIX", "bad-prefix")
	if _, err := LoadTest(); err == nil {
		t.Fatal("expected invalid prefix to be rejected")
	}
}

func TestLoadClientAppCombinesSections(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("PLAYER_ID", "player-7")

	cfg, err := LoadClientApp()
	if err != nil {
		t.Fatalf("LoadClientApp() error = %v", err)
	}
	if cfg.Log.Level != "warn" || cfg.Client.PlayerID != "player-7" {
		t.Fatalf("unexpected app config: %+v", cfg)
	}
}
