// Package localstore persists the marketplace client's state in a small
// pebble database: the simulated clock, the time scale, the ad list and the
// theme, each under its own key.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

const (
	KeyCurrentTime = "siteCurrentTime"
	KeyTimeScale   = "timeScale"
	KeyAds         = "ads"
	KeyTheme       = "currentTheme"
)

type Store struct {
	db *pebble.DB
}

func Open(dir string) (*Store, error) {
	return open(dir, &pebble.Options{})
}

// OpenInMemory keeps everything in process memory; nothing survives Close.
func OpenInMemory() (*Store, error) {
	return open("", &pebble.Options{FS: vfs.NewMem()})
}

func open(dir string, opts *pebble.Options) (*Store, error) {
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("open local store %q: %w", dir, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load decodes the JSON value under key into out. It reports false when the
// key has never been written.
func (s *Store) Load(key string, out any) (bool, error) {
	val, closer, err := s.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	defer closer.Close()

	if err := json.Unmarshal(val, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Save writes v as JSON under key and syncs before returning.
func (s *Store) Save(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.db.Set([]byte(key), raw, pebble.Sync); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	return s.db.Delete([]byte(key), pebble.Sync)
}

// Keys lists every stored key in byte order.
func (s *Store) Keys() ([]string, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var keys []string
	for iter.First(); iter.Valid(); iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	return keys, iter.Error()
}
