package localstore

import (
	"reflect"
	"testing"
)

type sample struct {
	ID    string  `json:"id"`
	Price float64 `json:"price"`
}

func TestLoadMissingKey(t *testing.T) {
	s := openMem(t)
	var v int64
	ok, err := s.Load(KeyTimeScale, &v)
	if err != nil || ok {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}
}

func TestSaveLoadKeysAreIndependent(t *testing.T) {
	s := openMem(t)
	ads := []sample{{ID: "ad-1", Price: 500}, {ID: "ad-2", Price: 12.5}}
	if err := s.Save(KeyAds, ads); err != nil {
		t.Fatalf("save ads: %v", err)
	}
	if err := s.Save(KeyTheme, "light"); err != nil {
		t.Fatalf("save theme: %v", err)
	}
	if err := s.Save(KeyTimeScale, int64(120)); err != nil {
		t.Fatalf("save scale: %v", err)
	}

	var gotAds []sample
	if ok, err := s.Load(KeyAds, &gotAds); err != nil || !ok {
		t.Fatalf("load ads: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(gotAds, ads) {
		t.Fatalf("ads = %+v, want %+v", gotAds, ads)
	}
	var theme string
	if _, err := s.Load(KeyTheme, &theme); err != nil || theme != "light" {
		t.Fatalf("theme = %q err=%v", theme, err)
	}

	if err := s.Delete(KeyTheme); err != nil {
		t.Fatalf("delete: %v", err)
	}
	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	want := []string{KeyAds, KeyTimeScale}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
}

func TestLoadCorruptValue(t *testing.T) {
	s := openMem(t)
	if err := s.Save(KeyTimeScale, "not a number"); err != nil {
		t.Fatalf("save: %v", err)
	}
	var v int64
	if _, err := s.Load(KeyTimeScale, &v); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestStateSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Save(KeyCurrentTime, int64(1700000000000)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	var ms int64
	if ok, err := s.Load(KeyCurrentTime, &ms); err != nil || !ok || ms != 1700000000000 {
		t.Fatalf("after reopen: ms=%d ok=%v err=%v", ms, ok, err)
	}
}

func openMem(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}
