// Package input maps discrete key events onto session actions.
package input

import (
	"strings"

	"github.com/arcanaland/cardhouse/internal/preset"
)

// Action is what a key asks the session to do.
type Action int

const (
	None Action = iota
	SelectPreset
	ToggleFreeze
	ToggleInteraction
	DeleteMode
	PlaceMode
	MoveMode
	Confirm
	Rotate
	ResetRotation
)

var actionNames = map[Action]string{
	None:              "none",
	SelectPreset:      "select-preset",
	ToggleFreeze:      "toggle-freeze",
	ToggleInteraction: "toggle-interaction",
	DeleteMode:        "delete-mode",
	PlaceMode:         "place-mode",
	MoveMode:          "move-mode",
	Confirm:           "confirm",
	Rotate:            "rotate",
	ResetRotation:     "reset-rotation",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// Command is a resolved key press.
type Command struct {
	Action   Action
	PresetID string // SelectPreset
	Yaw      int    // Rotate, in steps
	Pitch    int
	Roll     int
}

// Shortcuts resolves preset shortcuts.
type Shortcuts interface {
	MatchShortcut(key string) (preset.Preset, bool)
}

// Named keys.
const (
	KeyTab       = "tab"
	KeyDelete    = "delete"
	KeyBackspace = "backspace"
	KeyEscape    = "escape"
	KeyEnter     = "enter"
	KeySpace     = "space"
	KeyUp        = "up"
	KeyDown      = "down"
	KeyLeft      = "left"
	KeyRight     = "right"
)

var rotation = map[string]Command{
	"q": {Action: Rotate, Yaw: 1},
	"e": {Action: Rotate, Yaw: -1},
	"r": {Action: Rotate, Pitch: -1},
	"f": {Action: Rotate, Pitch: 1},
	"z": {Action: Rotate, Roll: -1},
	"x": {Action: Rotate, Roll: 1},
}

// Normalize lowercases a key name and folds the aliases browsers and
// terminals use for the same key.
func Normalize(key string) string {
	if key == " " {
		return KeySpace
	}
	k := strings.ToLower(key)
	switch k {
	case "esc":
		return KeyEscape
	case "return", "\r", "\n":
		return KeyEnter
	case "del":
		return KeyDelete
	case "\t":
		return KeyTab
	}
	return k
}

// matchShortcut compares the key as typed, before any alias folding. The
// space bar also arrives by name.
func matchShortcut(raw, normalized string, presets Shortcuts) (preset.Preset, bool) {
	if p, ok := presets.MatchShortcut(raw); ok {
		return p, true
	}
	if normalized == KeySpace && raw != " " {
		return presets.MatchShortcut(" ")
	}
	return preset.Preset{}, false
}

// Map resolves a key. Preset shortcuts are checked before anything else, so
// a preset bound to a control key shadows it.
func Map(key string, presets Shortcuts) Command {
	k := Normalize(key)
	if k == "" {
		return Command{}
	}
	if presets != nil {
		if p, ok := matchShortcut(key, k, presets); ok {
			return Command{Action: SelectPreset, PresetID: p.ID}
		}
	}

	switch k {
	case "l":
		return Command{Action: ToggleFreeze}
	case KeyTab:
		return Command{Action: ToggleInteraction}
	case KeyDelete, KeyBackspace:
		return Command{Action: DeleteMode}
	case KeyEscape:
		return Command{Action: PlaceMode}
	case "m":
		return Command{Action: MoveMode}
	case KeyEnter:
		return Command{Action: Confirm}
	case KeySpace:
		return Command{Action: ResetRotation}
	}
	if c, ok := rotation[k]; ok {
		return c
	}
	return Command{}
}
