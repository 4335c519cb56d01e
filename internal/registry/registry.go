// Package registry owns the ordered collection of placed cards. It is the
// single source of truth for which cards exist and where they were put.
package registry

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/arcanaland/cardhouse/internal/card"
	"github.com/arcanaland/cardhouse/internal/geom"
	"github.com/arcanaland/cardhouse/internal/state"
)

var (
	ErrDuplicateID = errors.New("duplicate card id")
	ErrEmptyID     = errors.New("empty card id")
)

// Registry holds cards in insertion order. Lock flags are stamped from the
// shared state at call time, never from the caller's value.
type Registry struct {
	st    *state.State
	cards []card.Card
	index map[string]int
}

// New returns an empty registry bound to st.
func New(st *state.State) *Registry {
	return &Registry{st: st, index: make(map[string]int)}
}

// Add appends c with Locked taken from the current freeze flag and returns
// the stored copy.
func (r *Registry) Add(c card.Card) (card.Card, error) {
	if c.ID == "" {
		return card.Card{}, ErrEmptyID
	}
	if _, ok := r.index[c.ID]; ok {
		return card.Card{}, fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
	}
	c.Locked = r.st.Freeze
	r.index[c.ID] = len(r.cards)
	r.cards = append(r.cards, c)
	return c, nil
}

// Remove deletes the card with the given id. It reports whether a card was
// removed.
func (r *Registry) Remove(id string) bool {
	i, ok := r.index[id]
	if !ok {
		return false
	}
	r.cards = append(r.cards[:i], r.cards[i+1:]...)
	r.reindex()
	return true
}

// UpdatePose moves a card and restamps its lock flag from the freeze flag.
func (r *Registry) UpdatePose(id string, pos mgl64.Vec3, rot geom.Euler) (card.Card, bool) {
	i, ok := r.index[id]
	if !ok {
		return card.Card{}, false
	}
	r.cards[i].Position = pos
	r.cards[i].Rotation = rot
	r.cards[i].Locked = r.st.Freeze
	return r.cards[i], true
}

// SetAllLocked sets the lock flag of every card currently held.
func (r *Registry) SetAllLocked(locked bool) {
	for i := range r.cards {
		r.cards[i].Locked = locked
	}
}

// Clear removes every card.
func (r *Registry) Clear() {
	r.cards = nil
	r.index = make(map[string]int)
}

// Replace swaps the whole collection for cards, keeping their lock flags as
// given. Used when loading a snapshot; duplicate ids are rejected.
func (r *Registry) Replace(cards []card.Card) error {
	index := make(map[string]int, len(cards))
	for i, c := range cards {
		if c.ID == "" {
			return ErrEmptyID
		}
		if _, ok := index[c.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
		}
		index[c.ID] = i
	}
	r.cards = append([]card.Card(nil), cards...)
	r.index = index
	return nil
}

// Get returns the card with the given id.
func (r *Registry) Get(id string) (card.Card, bool) {
	i, ok := r.index[id]
	if !ok {
		return card.Card{}, false
	}
	return r.cards[i], true
}

// Cards returns a copy of all cards in insertion order.
func (r *Registry) Cards() []card.Card {
	out := make([]card.Card, len(r.cards))
	copy(out, r.cards)
	return out
}

// Len returns the number of cards.
func (r *Registry) Len() int { return len(r.cards) }

func (r *Registry) reindex() {
	r.index = make(map[string]int, len(r.cards))
	for i, c := range r.cards {
		r.index[c.ID] = i
	}
}
