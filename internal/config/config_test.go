package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardhouse", "config.toml")
	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *Default() {
		t.Errorf("config = %+v", cfg)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if strings.Contains(string(raw), "language") {
		t.Errorf("default config carries an unused language key:\n%s", raw)
	}
}

func TestLoadIgnoresUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	doc := "language = \"de\"\ntick_rate = 30\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TickRate != 30 {
		t.Errorf("tick rate = %d", cfg.TickRate)
	}
}

func TestLoadNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	doc := "tick_rate = 0\nease_factor = 3.0\ngrid_snap = 0.25\nlog_level = \"debug\"\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TickRate != 60 || cfg.EaseFactor != 0.5 {
		t.Errorf("bad values kept: %+v", cfg)
	}
	if cfg.GridSnap != 0.25 || cfg.LogLevel != "debug" || cfg.RotationStep != 0.1 {
		t.Errorf("values = %+v", cfg)
	}
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("tick_rate = = 1"), 0o644)
	if _, err := LoadConfigFrom(path); err == nil {
		t.Error("broken config loaded")
	}
}

func TestDataPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	cfg := Default()
	if got := cfg.DataPath(); got != filepath.Join("/xdg/data", "cardhouse") {
		t.Errorf("data path = %s", got)
	}
	cfg.DataDir = "/elsewhere"
	if got := cfg.DataPath(); got != "/elsewhere" {
		t.Errorf("data path = %s", got)
	}
}

func TestGetDeckPath(t *testing.T) {
	cfg := Default()
	cfg.DataDir = t.TempDir()
	if p, err := cfg.GetDeckPath(); err != nil || p != "" {
		t.Errorf("empty deck = %q, %v", p, err)
	}

	decks := filepath.Join(cfg.DataDir, "decks")
	os.MkdirAll(decks, 0o755)
	os.WriteFile(filepath.Join(decks, "aces.toml"), []byte("[deck]\n"), 0o644)

	cfg.Deck = "aces"
	if p, err := cfg.GetDeckPath(); err != nil || p != filepath.Join(decks, "aces.toml") {
		t.Errorf("library deck = %q, %v", p, err)
	}
	cfg.Deck = "nope"
	if _, err := cfg.GetDeckPath(); err == nil {
		t.Error("missing deck resolved")
	}
}
