package validator

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/arcanaland/cardhouse/internal/card"
	"github.com/arcanaland/cardhouse/internal/deck"
	"github.com/arcanaland/cardhouse/internal/geom"
	"github.com/arcanaland/cardhouse/internal/preset"
	"github.com/arcanaland/cardhouse/internal/savegame"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

// Valid reports whether no errors were found. Warnings do not count.
func (r ValidationResults) Valid() bool {
	return len(r.Errors) == 0
}

type Validator struct {
	Snapshot *savegame.Snapshot
	Presets  []preset.Preset
	DeckPath string
	Results  ValidationResults
}

func NewSaveValidator(s savegame.Snapshot) *Validator {
	return &Validator{Snapshot: &s}
}

func NewPresetValidator(list []preset.Preset) *Validator {
	return &Validator{Presets: list}
}

func NewDeckValidator(path string) *Validator {
	return &Validator{DeckPath: path}
}

func (v *Validator) Validate() (ValidationResults, error) {
	if v.DeckPath != "" {
		if err := v.validateDeckToml(); err != nil {
			return v.Results, err
		}
	}
	if v.Snapshot != nil {
		v.validateCards()
	}
	if v.Presets != nil {
		v.validatePresets()
	}
	return v.Results, nil
}

func (v *Validator) errorf(format string, args ...any) {
	v.Results.Errors = append(v.Results.Errors, fmt.Sprintf(format, args...))
}

func (v *Validator) warnf(format string, args ...any) {
	v.Results.Warnings = append(v.Results.Warnings, fmt.Sprintf(format, args...))
}

// validateCards checks every card of a snapshot
func (v *Validator) validateCards() {
	seen := make(map[string]int)
	for i, c := range v.Snapshot.Cards {
		label := fmt.Sprintf("cards[%d]", i)
		if c.ID == "" {
			v.errorf("%s: id is required", label)
		} else if first, ok := seen[c.ID]; ok {
			v.errorf("%s: duplicate id %s (first used by cards[%d])", label, c.ID, first)
		} else {
			seen[c.ID] = i
		}

		if !c.Suit.Valid() {
			v.errorf("%s: unknown suit %q", label, c.Suit)
		} else if c.Color != card.ColorOf(c.Suit) {
			v.warnf("%s: color %q does not match suit %s", label, c.Color, c.Suit)
		}

		if !card.ValidRank(c.Rank) {
			v.errorf("%s: unknown rank %q", label, c.Rank)
		}

		if !geom.VecIsFinite(c.Position) {
			v.errorf("%s: position is not finite", label)
		} else if c.Position.Y() < 0 {
			v.warnf("%s: card is below the table (y=%.3f)", label, c.Position.Y())
		}
		if !c.Rotation.IsFinite() {
			v.errorf("%s: rotation is not finite", label)
		}

		if c.Locked != v.Snapshot.IsFreezeMode {
			v.warnf("%s: locked=%t differs from isFreezeMode=%t", label, c.Locked, v.Snapshot.IsFreezeMode)
		}
	}
}

// validatePresets checks a preset list
func (v *Validator) validatePresets() {
	if len(v.Presets) == 0 {
		v.warnf("preset list is empty")
		return
	}

	ids := make(map[string]int)
	shortcuts := make(map[string]string)
	for i, p := range v.Presets {
		label := fmt.Sprintf("presets[%d]", i)
		if p.ID == "" {
			v.errorf("%s: id is required", label)
		} else if first, ok := ids[p.ID]; ok {
			v.errorf("%s: duplicate id %s (first used by presets[%d])", label, p.ID, first)
		} else {
			ids[p.ID] = i
		}

		if p.Name == "" {
			v.warnf("%s: name is empty", label)
		}

		if n := len([]rune(p.Shortcut)); n > 1 {
			v.errorf("%s: shortcut %q must be a single character", label, p.Shortcut)
		} else if n == 1 {
			key := strings.ToLower(p.Shortcut)
			if other, ok := shortcuts[key]; ok {
				v.warnf("%s: shortcut %q is also bound to %s, the first one wins", label, p.Shortcut, other)
			} else {
				shortcuts[key] = p.ID
			}
		}

		if !p.Rotation.IsFinite() {
			v.errorf("%s: rotation is not finite", label)
		}
	}
}

func (v *Validator) validateDeckToml() error {
	if _, err := os.Stat(v.DeckPath); os.IsNotExist(err) {
		return fmt.Errorf("deck file not found: %s", v.DeckPath)
	}

	var deckConfig deck.DeckConfig
	if _, err := toml.DecodeFile(v.DeckPath, &deckConfig); err != nil {
		return fmt.Errorf("error parsing %s: %v", v.DeckPath, err)
	}

	if deckConfig.Deck.Name == "" {
		v.Results.Warnings = append(v.Results.Warnings, "deck.name is empty, \"custom\" will be used")
	}

	seenSuits := make(map[string]bool)
	for _, s := range deckConfig.Deck.Suits {
		if !card.Suit(s).Valid() {
			v.errorf("unknown suit: %s (supported: %s)", s, joinSuits())
		}
		if seenSuits[s] {
			v.warnf("suit listed twice: %s", s)
		}
		seenSuits[s] = true
	}

	seenRanks := make(map[string]bool)
	for _, r := range deckConfig.Deck.Ranks {
		if !card.ValidRank(r) {
			v.errorf("unknown rank: %s (supported: %s)", r, strings.Join(card.Ranks, ", "))
		}
		if seenRanks[r] {
			v.warnf("rank listed twice: %s", r)
		}
		seenRanks[r] = true
	}
	return nil
}

func joinSuits() string {
	names := make([]string, len(card.Suits))
	for i, s := range card.Suits {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
