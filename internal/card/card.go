package card

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/arcanaland/cardhouse/internal/geom"
)

// Physical card dimensions in scene units (a poker card scaled to the table).
const (
	Width     = 2.0
	Thickness = 0.02
	Height    = 2.8
)

// HalfExtents of the card box, local X = width, Y = thickness, Z = height.
var HalfExtents = mgl64.Vec3{Width / 2, Thickness / 2, Height / 2}

// Card represents a placed playing card
type Card struct {
	ID       string     `json:"id"`
	Position mgl64.Vec3 `json:"position"`
	Rotation geom.Euler `json:"rotation"`
	Suit     Suit       `json:"suit"`
	Rank     string     `json:"rank"`
	Color    Color      `json:"color"`
	Locked   bool       `json:"locked"`
}

// NewID returns a fresh card identifier.
func NewID() string {
	return uuid.NewString()
}
