package config

import (
	"fmt"
	"regexp"

	"github.com/caarlos0/env/v11"
)

var schemaPrefixPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// TestConfig drives the Postgres-backed integration tests. Each test gets
// its own schema named <SchemaPrefix>_<nanos>.
type TestConfig struct {
	TestPostgresDSN string `env:"TEST_POSTGRES_DSN,required,notEmpty"`
	SchemaPrefix    string `env:"TEST_SCHEMA_PREFIX" envDefault:"vm_test"`
	KeepSchema      bool   `env:"TEST_KEEP_SCHEMA" envDefault:"false"`
}

func LoadTest() (TestConfig, error) {
	var cfg TestConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	if !schemaPrefixPattern.MatchString(cfg.SchemaPrefix) {
		return cfg, fmt.Errorf("TEST_SCHEMA_PREFIX %q is not a valid identifier", cfg.SchemaPrefix)
	}
	return cfg, nil
}
