// Package testutil opens throwaway Postgres schemas for integration tests.
package testutil

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"vehicle-market/internal/config"
	"vehicle-market/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// OpenTestStore migrates a fresh schema and returns a store bound to it.
// The schema is dropped when the test finishes unless TEST_KEEP_SCHEMA is
// set. Tests are skipped when TEST_POSTGRES_DSN is not set.
func OpenTestStore(t *testing.T) *store.Store {
	t.Helper()
	cfg, err := config.LoadTest()
	if err != nil {
		t.Skipf("skip test db: %v", err)
	}
	dsn := cfg.TestPostgresDSN
	schema := fmt.Sprintf("%s_%d", cfg.SchemaPrefix, time.Now().UnixNano())

	if err := execDDL(dsn, "CREATE SCHEMA %s", schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() {
		if cfg.KeepSchema {
			t.Logf("keeping schema %s", schema)
			return
		}
		_ = execDDL(dsn, "DROP SCHEMA %s CASCADE", schema)
	})

	scoped := WithSearchPath(dsn, schema)
	if err := store.Migrate(scoped); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	st, err := store.New(scoped)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(st.Close)
	return st
}

// WithSearchPath pins every connection opened from dsn to schema.
func WithSearchPath(dsn, schema string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "search_path=" + url.QueryEscape(schema)
}

func execDDL(dsn, format, schema string) error {
	if !schemaNamePattern.MatchString(schema) {
		return fmt.Errorf("schema %q does not match required pattern", schema)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()
	_, err = pool.Exec(ctx, fmt.Sprintf(format, pgx.Identifier{schema}.Sanitize()))
	return err
}
