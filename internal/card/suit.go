package card

// Suit is one of the four French suits.
type Suit string

const (
	Spades   Suit = "spades"
	Hearts   Suit = "hearts"
	Clubs    Suit = "clubs"
	Diamonds Suit = "diamonds"
)

// Suits in deck order.
var Suits = []Suit{Spades, Hearts, Clubs, Diamonds}

// Ranks in deck order.
var Ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// Color is the ink colour of a suit.
type Color string

const (
	Red   Color = "red"
	Black Color = "black"
)

// Style is the rendering lookup for a suit.
type Style struct {
	Symbol string
	Color  Color
	Ink    uint32 // 0xRRGGBB used for rank text
	Border uint32 // 0xRRGGBB used for the face border
}

var styles = map[Suit]Style{
	Spades:   {Symbol: "♠", Color: Black, Ink: 0x000000, Border: 0x000000},
	Clubs:    {Symbol: "♣", Color: Black, Ink: 0x000000, Border: 0x000000},
	Hearts:   {Symbol: "♥", Color: Red, Ink: 0xff0000, Border: 0xaa0000},
	Diamonds: {Symbol: "♦", Color: Red, Ink: 0xff0000, Border: 0xaa0000},
}

// StyleOf returns the rendering style for s. Unknown suits fall back to a
// neutral black style.
func StyleOf(s Suit) Style {
	if st, ok := styles[s]; ok {
		return st
	}
	return Style{Symbol: "•", Color: Black}
}

// ColorOf returns the colour that belongs to s.
func ColorOf(s Suit) Color {
	return StyleOf(s).Color
}

// Valid reports whether s is a known suit.
func (s Suit) Valid() bool {
	_, ok := styles[s]
	return ok
}

// ValidRank reports whether r is one of Ranks.
func ValidRank(r string) bool {
	for _, x := range Ranks {
		if x == r {
			return true
		}
	}
	return false
}
