// Package face draws the printed side of a card procedurally, so the toy
// needs no image assets.
package face

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/arcanaland/cardhouse/internal/card"
)

// Texture size in pixels. The aspect matches the card's width to height.
const (
	Width  = 256
	Height = 358
)

const (
	borderInset = 10
	borderWidth = 10
	centerSize  = 100 // pixel height of the centre rank
	cornerSize  = 32
)

var paper = color.RGBA{0xff, 0xff, 0xff, 0xff}

// Render draws a face for rank in the style of suit: white paper, a border
// in the suit colour, the rank large in the centre and small in two
// opposite corners.
func Render(suit card.Suit, rank string) *image.RGBA {
	style := card.StyleOf(suit)
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(paper), image.Point{}, draw.Src)

	strokeRect(img, image.Rect(borderInset, borderInset, Width-borderInset, Height-borderInset), borderWidth, rgb(style.Border))

	ink := rgb(style.Ink)
	drawText(img, rank, Width/2, Height/2, centerSize, ink)
	drawText(img, rank, 30, 50, cornerSize, ink)
	drawText(img, rank, Width-30, Height-50, cornerSize, ink)
	return img
}

// strokeRect draws the outline of r with the line centred on its edges.
func strokeRect(img *image.RGBA, r image.Rectangle, width int, c color.Color) {
	half := width / 2
	src := image.NewUniform(c)
	outer := r.Inset(-half)
	inner := r.Inset(half)
	for _, band := range []image.Rectangle{
		image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, inner.Min.Y),
		image.Rect(outer.Min.X, inner.Max.Y, outer.Max.X, outer.Max.Y),
		image.Rect(outer.Min.X, inner.Min.Y, inner.Min.X, inner.Max.Y),
		image.Rect(inner.Max.X, inner.Min.Y, outer.Max.X, inner.Max.Y),
	} {
		draw.Draw(img, band, src, image.Point{}, draw.Src)
	}
}

// drawText renders s with the bitmap face, scales it to size pixels tall and
// composites it centred on (cx, cy).
func drawText(dst *image.RGBA, s string, cx, cy, size int, c color.Color) {
	if s == "" {
		return
	}
	face := basicfont.Face7x13
	w := font.MeasureString(face, s).Ceil()
	h := face.Height
	glyphs := image.NewRGBA(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(s)

	scale := float64(size) / float64(h)
	sw, sh := uint(float64(w)*scale), uint(size)
	scaled := resize.Resize(sw, sh, glyphs, resize.NearestNeighbor)

	b := scaled.Bounds()
	at := image.Pt(cx-b.Dx()/2, cy-b.Dy()/2)
	draw.Draw(dst, b.Add(at), scaled, b.Min, draw.Over)
}

func rgb(hex uint32) color.RGBA {
	return color.RGBA{uint8(hex >> 16), uint8(hex >> 8), uint8(hex), 0xff}
}

// Cache keeps one texture per suit and rank.
type Cache struct {
	faces map[string]*image.RGBA
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{faces: make(map[string]*image.RGBA)}
}

// Get returns the texture for suit and rank, drawing it on first use.
func (c *Cache) Get(suit card.Suit, rank string) *image.RGBA {
	key := string(suit) + "/" + rank
	if img, ok := c.faces[key]; ok {
		return img
	}
	img := Render(suit, rank)
	c.faces[key] = img
	return img
}

// Len returns the number of cached textures.
func (c *Cache) Len() int { return len(c.faces) }
