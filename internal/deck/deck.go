package deck

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/arcanaland/cardhouse/internal/card"
)

// Face is the printed side of a card.
type Face struct {
	Suit  card.Suit
	Rank  string
	Color card.Color
}

// Deck is the set of faces new cards are dealt from.
type Deck struct {
	Name  string
	Faces []Face
}

// Standard returns the 52-card French deck.
func Standard() *Deck {
	return build("standard", card.Suits, card.Ranks)
}

func build(name string, suits []card.Suit, ranks []string) *Deck {
	d := &Deck{Name: name}
	for _, s := range suits {
		for _, r := range ranks {
			d.Faces = append(d.Faces, Face{Suit: s, Rank: r, Color: card.ColorOf(s)})
		}
	}
	return d
}

// LoadDeck loads a restricted deck from a TOML file:
//
//	[deck]
//	name = "aces"
//	suits = ["hearts", "spades"]
//	ranks = ["A"]
//
// Missing suits or ranks default to the full set.
func LoadDeck(path string) (*Deck, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("deck file not found: %s", path)
	}

	var cfg DeckConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	suits := card.Suits
	if len(cfg.Deck.Suits) > 0 {
		suits = nil
		for _, s := range cfg.Deck.Suits {
			suit := card.Suit(s)
			if !suit.Valid() {
				return nil, fmt.Errorf("unknown suit %q in %s", s, path)
			}
			suits = append(suits, suit)
		}
	}

	ranks := card.Ranks
	if len(cfg.Deck.Ranks) > 0 {
		for _, r := range cfg.Deck.Ranks {
			if !card.ValidRank(r) {
				return nil, fmt.Errorf("unknown rank %q in %s", r, path)
			}
		}
		ranks = cfg.Deck.Ranks
	}

	name := cfg.Deck.Name
	if name == "" {
		name = "custom"
	}
	return build(name, suits, ranks), nil
}

// DeckConfig is the on-disk deck description.
type DeckConfig struct {
	Deck DeckSection `toml:"deck"`
}

type DeckSection struct {
	Name  string   `toml:"name"`
	Suits []string `toml:"suits"`
	Ranks []string `toml:"ranks"`
}

// Dealer draws faces at random, with replacement.
type Dealer struct {
	deck *Deck
	rng  *rand.Rand
}

// NewDealer returns a dealer over d seeded with seed.
func NewDealer(d *Deck, seed int64) *Dealer {
	if d == nil || len(d.Faces) == 0 {
		d = Standard()
	}
	return &Dealer{deck: d, rng: rand.New(rand.NewSource(seed))}
}

// Deal returns the next face.
func (dl *Dealer) Deal() Face {
	return dl.deck.Faces[dl.rng.Intn(len(dl.deck.Faces))]
}
