package store

import (
	"os"
	"path/filepath"
	"testing"
)

func exercise(t *testing.T, kv KV) {
	t.Helper()

	if _, ok, err := kv.Get("hoc_save"); err != nil || ok {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}
	if err := kv.Set("hoc_save", `{"cards":[]}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := kv.Get("hoc_save")
	if err != nil || !ok || v != `{"cards":[]}` {
		t.Fatalf("Get = %q, %v, %v", v, ok, err)
	}
	if err := kv.Delete("hoc_save"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := kv.Get("hoc_save"); ok {
		t.Fatal("key survived Delete")
	}
	if err := kv.Delete("hoc_save"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestFile(t *testing.T) {
	f, err := NewFile(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatal(err)
	}
	exercise(t, f)
}

func TestFileKeys(t *testing.T) {
	f, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_ = f.Set("hoc_presets", "[]")
	_ = f.Set("hoc_save", "{}")
	_ = os.WriteFile(filepath.Join(f.Dir(), "notes.txt"), []byte("x"), 0o644)

	keys, err := f.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[0] != "hoc_presets" || keys[1] != "hoc_save" {
		t.Errorf("keys = %v", keys)
	}
}

func TestFileSanitisesKeys(t *testing.T) {
	dir := t.TempDir()
	f, _ := NewFile(dir)
	if err := f.Set("../escape", "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "_escape.json")); err != nil {
		t.Errorf("sanitised file missing: %v", err)
	}
}
