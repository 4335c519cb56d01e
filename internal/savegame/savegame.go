// Package savegame encodes table snapshots and keeps one of them in a
// store.KV under Key.
package savegame

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/arcanaland/cardhouse/internal/card"
	"github.com/arcanaland/cardhouse/internal/store"
)

// Key is the store key the save slot uses.
const Key = "hoc_save"

var (
	// ErrNoSave means the slot is empty. Callers report it, it is not a failure.
	ErrNoSave = errors.New("no save found")
	// ErrNoCards means the stored text decoded but carried no card list.
	ErrNoCards = errors.New("save has no cards field")
)

// Snapshot is a point-in-time copy of the table.
type Snapshot struct {
	Cards        []card.Card `json:"cards"`
	IsFreezeMode bool        `json:"isFreezeMode"`
}

// Encode renders s as JSON.
func Encode(s Snapshot) (string, error) {
	if s.Cards == nil {
		s.Cards = []card.Card{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("error encoding save: %w", err)
	}
	return string(b), nil
}

// Decode parses a snapshot. A document without a cards array is rejected.
func Decode(raw string) (Snapshot, error) {
	var doc struct {
		Cards        *[]card.Card `json:"cards"`
		IsFreezeMode bool         `json:"isFreezeMode"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return Snapshot{}, fmt.Errorf("error decoding save: %w", err)
	}
	if doc.Cards == nil {
		return Snapshot{}, ErrNoCards
	}
	return Snapshot{Cards: *doc.Cards, IsFreezeMode: doc.IsFreezeMode}, nil
}

// Save writes s to the slot, replacing any previous save.
func Save(kv store.KV, s Snapshot) error {
	raw, err := Encode(s)
	if err != nil {
		return err
	}
	if err := kv.Set(Key, raw); err != nil {
		return fmt.Errorf("error writing save: %w", err)
	}
	return nil
}

// Load reads the slot. It returns ErrNoSave when nothing was saved.
func Load(kv store.KV) (Snapshot, error) {
	raw, ok, err := kv.Get(Key)
	if err != nil {
		return Snapshot{}, fmt.Errorf("error reading save: %w", err)
	}
	if !ok {
		return Snapshot{}, ErrNoSave
	}
	return Decode(raw)
}

// Exists reports whether the slot holds anything.
func Exists(kv store.KV) bool {
	_, ok, err := kv.Get(Key)
	return err == nil && ok
}
