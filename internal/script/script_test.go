package script

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arcanaland/cardhouse/internal/savegame"
	"github.com/arcanaland/cardhouse/internal/session"
	"github.com/arcanaland/cardhouse/internal/store"
)

const build = `
tick_rate = 60

[[step]]
key = "1"

[[step]]
pointer = [0.0, 0.0]
do = "click"

[[step]]
pointer = [0.3, 0.0]
do = "click"

[[step]]
do = "settle"

[[step]]
key = "l"

[[step]]
do = "save"
`

func newSession(kv store.KV) *session.Session {
	return session.New(session.Options{KV: kv, Seed: 7})
}

func TestRunBuildsAndSaves(t *testing.T) {
	s, err := Parse(build)
	if err != nil {
		t.Fatal(err)
	}
	kv := store.NewMemory()
	sess := newSession(kv)

	var seen []int
	if err := s.Run(sess, func(i int, _ Step) { seen = append(seen, i) }); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(seen) != len(s.Steps) {
		t.Fatalf("after called %d times, want %d", len(seen), len(s.Steps))
	}

	cards := sess.Cards()
	if len(cards) != 2 {
		t.Fatalf("cards = %d, want 2", len(cards))
	}
	for _, c := range cards {
		if c.Position.Y() < 0 {
			t.Errorf("card %s below the table: %v", c.ID, c.Position)
		}
	}
	if !sess.State().Freeze {
		t.Fatalf("freeze key not applied")
	}

	snap, err := savegame.Load(kv)
	if err != nil {
		t.Fatalf("load save: %v", err)
	}
	if !snap.IsFreezeMode || len(snap.Cards) != 2 {
		t.Fatalf("snapshot = %+v", snap)
	}
	for _, c := range snap.Cards {
		if !c.Locked {
			t.Errorf("card %s saved unlocked", c.ID)
		}
	}
}

func TestCheckDefaults(t *testing.T) {
	s, err := Parse(`
[[step]]
key = "q"

[[step]]
do = "Settle"
`)
	if err != nil {
		t.Fatal(err)
	}
	if s.TickRate != 60 {
		t.Errorf("tick rate = %d", s.TickRate)
	}
	if s.Steps[0].Ticks != 1 {
		t.Errorf("default ticks = %d", s.Steps[0].Ticks)
	}
	if s.Steps[1].Do != DoSettle || s.Steps[1].Ticks != 0 {
		t.Errorf("settle step = %+v", s.Steps[1])
	}
}

func TestParseRejects(t *testing.T) {
	for _, text := range []string{
		"[[step]]\npointer = [1.0]\n",
		"[[step]]\ndo = \"jump\"\n",
		"[[step]]\nticks = -1\n",
		"[[step]\n",
	} {
		if _, err := Parse(text); err == nil {
			t.Errorf("Parse(%q) succeeded", text)
		}
	}
}

func TestLoadWithoutSaveFails(t *testing.T) {
	s, err := Parse("[[step]]\ndo = \"load\"\n")
	if err != nil {
		t.Fatal(err)
	}
	err = s.Run(newSession(store.NewMemory()), nil)
	if !errors.Is(err, savegame.ErrNoSave) {
		t.Fatalf("err = %v, want ErrNoSave", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "house.toml")
	if err := os.WriteFile(path, []byte(build), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Steps) != 6 {
		t.Fatalf("steps = %d", len(s.Steps))
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("missing file loaded")
	}
}
