package deck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arcanaland/cardhouse/internal/card"
)

func TestStandard(t *testing.T) {
	d := Standard()
	if len(d.Faces) != 52 {
		t.Fatalf("got %d faces, want 52", len(d.Faces))
	}
	for _, f := range d.Faces {
		if f.Color != card.ColorOf(f.Suit) {
			t.Errorf("%s of %s has colour %s", f.Rank, f.Suit, f.Color)
		}
	}
}

func TestLoadDeck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aces.toml")
	body := "[deck]\nname = \"aces\"\nsuits = [\"hearts\", \"spades\"]\nranks = [\"A\"]\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	d, err := LoadDeck(path)
	if err != nil {
		t.Fatalf("LoadDeck: %v", err)
	}
	if d.Name != "aces" || len(d.Faces) != 2 {
		t.Fatalf("got %s with %d faces", d.Name, len(d.Faces))
	}
}

func TestLoadDeckRejectsUnknownSuit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[deck]\nsuits = [\"stars\"]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDeck(path); err == nil {
		t.Fatal("expected error")
	}
}

func TestDealerIsSeeded(t *testing.T) {
	a := NewDealer(Standard(), 7)
	b := NewDealer(Standard(), 7)
	for i := 0; i < 20; i++ {
		if fa, fb := a.Deal(), b.Deal(); fa != fb {
			t.Fatalf("draw %d differs: %v vs %v", i, fa, fb)
		}
	}
}
