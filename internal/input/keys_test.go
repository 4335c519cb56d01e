package input

import (
	"testing"

	"github.com/arcanaland/cardhouse/internal/preset"
	"github.com/arcanaland/cardhouse/internal/state"
	"github.com/arcanaland/cardhouse/internal/store"
)

func defaults(t *testing.T) *preset.Store {
	t.Helper()
	s, err := preset.Load(store.NewMemory(), state.New())
	if err != nil {
		t.Fatalf("load presets: %v", err)
	}
	return s
}

func TestMap(t *testing.T) {
	presets := defaults(t)
	tests := []struct {
		key  string
		want Command
	}{
		{"4", Command{Action: SelectPreset, PresetID: "stand_z"}},
		{"0", Command{Action: SelectPreset, PresetID: "roof_back"}},
		{"l", Command{Action: ToggleFreeze}},
		{"L", Command{Action: ToggleFreeze}},
		{"Tab", Command{Action: ToggleInteraction}},
		{"Delete", Command{Action: DeleteMode}},
		{"Backspace", Command{Action: DeleteMode}},
		{"Escape", Command{Action: PlaceMode}},
		{"esc", Command{Action: PlaceMode}},
		{"m", Command{Action: MoveMode}},
		{"Enter", Command{Action: Confirm}},
		{" ", Command{Action: ResetRotation}},
		{"q", Command{Action: Rotate, Yaw: 1}},
		{"E", Command{Action: Rotate, Yaw: -1}},
		{"r", Command{Action: Rotate, Pitch: -1}},
		{"f", Command{Action: Rotate, Pitch: 1}},
		{"z", Command{Action: Rotate, Roll: -1}},
		{"x", Command{Action: Rotate, Roll: 1}},
		{"k", Command{}},
		{"", Command{}},
	}
	for _, tt := range tests {
		if got := Map(tt.key, presets); got != tt.want {
			t.Errorf("Map(%q) = %+v, want %+v", tt.key, got, tt.want)
		}
	}
}

func TestPresetShortcutShadowsControlKey(t *testing.T) {
	presets := defaults(t)
	p, err := presets.Add()
	if err != nil {
		t.Fatal(err)
	}
	p.Shortcut = "L"
	if err := presets.Update(p); err != nil {
		t.Fatal(err)
	}

	got := Map("l", presets)
	if got.Action != SelectPreset || got.PresetID != p.ID {
		t.Errorf("Map(l) = %+v, want preset %s", got, p.ID)
	}
}

func TestSpaceShortcut(t *testing.T) {
	presets := defaults(t)
	p, err := presets.Add()
	if err != nil {
		t.Fatal(err)
	}
	p.Shortcut = " "
	if err := presets.Update(p); err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{" ", KeySpace} {
		got := Map(key, presets)
		if got.Action != SelectPreset || got.PresetID != p.ID {
			t.Errorf("Map(%q) = %+v, want preset %s", key, got, p.ID)
		}
	}
	if got := Map(KeySpace, defaults(t)); got.Action != ResetRotation {
		t.Errorf("space without a bound preset = %+v", got)
	}
}

func TestMapWithoutPresets(t *testing.T) {
	if got := Map("1", nil); got.Action != None {
		t.Errorf("Map(1) = %+v", got)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		in   string
		key  string
		size int
	}{
		{"q", "q", 1},
		{"qe", "q", 1},
		{"\t", KeyTab, 1},
		{"\r", KeyEnter, 1},
		{"\x7f", KeyBackspace, 1},
		{" ", KeySpace, 1},
		{"\x1b", KeyEscape, 1},
		{"\x1b[3~", KeyDelete, 4},
		{"\x1b[A", KeyUp, 3},
		{"\x1b[D", KeyLeft, 3},
		{"\x1b[5~", "", 4},
		{"\x03", "ctrl+c", 1},
		{"é", "é", 2},
	}
	for _, tt := range tests {
		key, n := Decode([]byte(tt.in))
		if key != tt.key || n != tt.size {
			t.Errorf("Decode(%q) = %q, %d; want %q, %d", tt.in, key, n, tt.key, tt.size)
		}
	}
	if key, n := Decode(nil); key != "" || n != 0 {
		t.Errorf("Decode(nil) = %q, %d", key, n)
	}
}
