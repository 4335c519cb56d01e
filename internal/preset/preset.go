// Package preset keeps the user-editable list of rotation presets in a
// store.KV under Key. A missing or unreadable list falls back to the
// built-in defaults; the active selection lives in the shared state.
package preset

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/arcanaland/cardhouse/internal/geom"
	"github.com/arcanaland/cardhouse/internal/state"
	"github.com/arcanaland/cardhouse/internal/store"
)

// Key is the store key the preset list is kept under.
const Key = "hoc_presets"

// ErrNotFound is returned when a preset id is unknown.
var ErrNotFound = errors.New("preset not found")

// Preset is a named, shortcut-bound base orientation for placement.
type Preset struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Icon     string     `json:"icon"`
	Shortcut string     `json:"shortcut"`
	Rotation geom.Euler `json:"rotation"`
}

// Defaults returns the built-in preset list. The caller owns the slice.
func Defaults() []Preset {
	const lean = 0.175
	const roof = 0.78
	return []Preset{
		{ID: "flat", Name: "flat", Icon: "▀", Shortcut: "1", Rotation: geom.Euler{0, 0, 0}},
		{ID: "stand_x", Name: "standX", Icon: "▮", Shortcut: "2", Rotation: geom.Euler{math.Pi / 2, 0, 0}},
		{ID: "stand_y", Name: "standY", Icon: "▬", Shortcut: "3", Rotation: geom.Euler{math.Pi / 2, math.Pi / 2, 0}},
		{ID: "stand_z", Name: "standZ", Icon: "▎", Shortcut: "4", Rotation: geom.Euler{0, 0, math.Pi / 2}},
		// long edge on the ground, leaning forward/back
		{ID: "lean_fwd", Name: "leanFwd", Icon: "◢", Shortcut: "5", Rotation: geom.Euler{0, 0, math.Pi/2 + lean}},
		{ID: "lean_back", Name: "leanBack", Icon: "◣", Shortcut: "6", Rotation: geom.Euler{0, 0, math.Pi/2 - lean}},
		// short edge on the ground, leaning sideways
		{ID: "lean_left", Name: "leanLeft", Icon: "◤", Shortcut: "7", Rotation: geom.Euler{math.Pi / 2, 0, lean}},
		{ID: "lean_right", Name: "leanRight", Icon: "◥", Shortcut: "8", Rotation: geom.Euler{math.Pi / 2, 0, -lean}},
		{ID: "roof_fwd", Name: "roofFwd", Icon: "▲", Shortcut: "9", Rotation: geom.Euler{math.Pi/2 - roof, 0, 0}},
		{ID: "roof_back", Name: "roofBack", Icon: "▼", Shortcut: "0", Rotation: geom.Euler{math.Pi/2 + roof, 0, 0}},
	}
}

// Store is the user-editable preset list. The active selection lives in the
// shared state so the placement controller sees it.
type Store struct {
	kv      store.KV
	st      *state.State
	presets []Preset
}

// Load reads the preset list from kv. The returned Store is never nil: on a
// missing key it holds the defaults, and on unreadable data it holds the
// defaults and the error says why.
func Load(kv store.KV, st *state.State) (*Store, error) {
	s := &Store{kv: kv, st: st, presets: Defaults()}

	raw, ok, err := kv.Get(Key)
	if err != nil {
		s.selectFirstIfUnset()
		return s, fmt.Errorf("error reading presets: %w", err)
	}
	if ok {
		var list []Preset
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			s.selectFirstIfUnset()
			return s, fmt.Errorf("error decoding presets: %w", err)
		}
		s.presets = list
	}
	s.selectFirstIfUnset()
	return s, nil
}

func (s *Store) selectFirstIfUnset() {
	if _, ok := s.index(s.st.PresetID); ok {
		return
	}
	if len(s.presets) > 0 {
		s.st.PresetID = s.presets[0].ID
	} else {
		s.st.PresetID = ""
	}
}

func (s *Store) persist() error {
	b, err := json.Marshal(s.presets)
	if err != nil {
		return fmt.Errorf("error encoding presets: %w", err)
	}
	return s.kv.Set(Key, string(b))
}

func (s *Store) index(id string) (int, bool) {
	if id == "" {
		return -1, false
	}
	for i, p := range s.presets {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}

// List returns a copy of the presets in order.
func (s *Store) List() []Preset {
	out := make([]Preset, len(s.presets))
	copy(out, s.presets)
	return out
}

// Get returns the preset with the given id.
func (s *Store) Get(id string) (Preset, bool) {
	i, ok := s.index(id)
	if !ok {
		return Preset{}, false
	}
	return s.presets[i], true
}

// Active returns the selected preset, or the first one if the selection is
// stale. ok is false only when the list is empty.
func (s *Store) Active() (Preset, bool) {
	if p, ok := s.Get(s.st.PresetID); ok {
		return p, true
	}
	if len(s.presets) == 0 {
		return Preset{}, false
	}
	return s.presets[0], true
}

// Select makes id the active preset.
func (s *Store) Select(id string) error {
	if _, ok := s.index(id); !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.st.PresetID = id
	return nil
}

// Add appends a blank preset and selects it.
func (s *Store) Add() (Preset, error) {
	p := Preset{
		ID:   newID(),
		Name: "New Preset",
		Icon: "★",
	}
	s.presets = append(s.presets, p)
	s.st.PresetID = p.ID
	return p, s.persist()
}

// Update replaces the preset with the same id.
func (s *Store) Update(p Preset) error {
	i, ok := s.index(p.ID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, p.ID)
	}
	s.presets[i] = p
	return s.persist()
}

// Delete removes a preset. Deleting the active preset selects the first
// remaining one, or clears the selection when none remain. Unknown ids are a
// no-op.
func (s *Store) Delete(id string) error {
	i, ok := s.index(id)
	if !ok {
		return nil
	}
	s.presets = append(s.presets[:i], s.presets[i+1:]...)
	if s.st.PresetID == id {
		if len(s.presets) > 0 {
			s.st.PresetID = s.presets[0].ID
		} else {
			s.st.PresetID = ""
		}
	}
	return s.persist()
}

// Reset restores the defaults and selects the first.
func (s *Store) Reset() error {
	s.presets = Defaults()
	s.st.PresetID = s.presets[0].ID
	return s.persist()
}

// MatchShortcut finds the first preset whose shortcut equals key, ignoring
// case. Only single-character keys can match.
func (s *Store) MatchShortcut(key string) (Preset, bool) {
	if len([]rune(key)) != 1 {
		return Preset{}, false
	}
	for _, p := range s.presets {
		if p.Shortcut != "" && strings.EqualFold(p.Shortcut, key) {
			return p, true
		}
	}
	return Preset{}, false
}

func newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
