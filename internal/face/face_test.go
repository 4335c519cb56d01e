package face

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arcanaland/cardhouse/internal/card"
)

func rgba(img *image.RGBA, x, y int) color.RGBA {
	return img.RGBAAt(x, y)
}

func TestRenderLayout(t *testing.T) {
	img := Render(card.Hearts, "Q")
	if b := img.Bounds(); b.Dx() != Width || b.Dy() != Height {
		t.Fatalf("size = %v", b)
	}

	if got := rgba(img, 2, 2); got != paper {
		t.Errorf("margin = %v, want paper", got)
	}
	wantBorder := color.RGBA{0xaa, 0, 0, 0xff}
	for _, p := range []image.Point{{10, 100}, {Width - 10, 100}, {128, 10}, {128, Height - 10}} {
		if got := rgba(img, p.X, p.Y); got != wantBorder {
			t.Errorf("border at %v = %v", p, got)
		}
	}
	if got := rgba(img, 20, 100); got != paper {
		t.Errorf("inside border = %v, want paper", got)
	}
}

func TestRenderInk(t *testing.T) {
	count := func(img *image.RGBA, r image.Rectangle, match func(color.RGBA) bool) int {
		n := 0
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				if match(img.RGBAAt(x, y)) {
					n++
				}
			}
		}
		return n
	}
	isRed := func(c color.RGBA) bool { return c.R > 200 && c.G < 60 && c.B < 60 }
	isBlack := func(c color.RGBA) bool { return c.R < 60 && c.G < 60 && c.B < 60 }

	red := Render(card.Diamonds, "10")
	centre := image.Rect(Width/2-60, Height/2-50, Width/2+60, Height/2+50)
	if count(red, centre, isRed) == 0 {
		t.Error("no red ink in the centre")
	}

	black := Render(card.Spades, "A")
	corner := image.Rect(15, 30, 50, 70)
	if count(black, corner, isBlack) == 0 {
		t.Error("no black ink in the corner")
	}
}

func TestCache(t *testing.T) {
	c := NewCache()
	a := c.Get(card.Clubs, "7")
	b := c.Get(card.Clubs, "7")
	if a != b || c.Len() != 1 {
		t.Errorf("cache did not reuse the texture")
	}
	c.Get(card.Hearts, "7")
	if c.Len() != 2 {
		t.Errorf("len = %d", c.Len())
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{".png": PNG, "WEBP": WebP, "tga": TGA} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat(".gif"); err == nil {
		t.Error("gif accepted")
	}
}

func TestEncode(t *testing.T) {
	img := Render(card.Hearts, "K")

	var buf bytes.Buffer
	if err := Encode(&buf, img, PNG); err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("png bounds = %v", decoded.Bounds())
	}

	buf.Reset()
	if err := Encode(&buf, img, WebP); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("RIFF")) {
		t.Error("webp output has no RIFF header")
	}

	buf.Reset()
	if err := Encode(&buf, img, TGA); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Error("empty tga output")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faces", "qh.webp")
	if err := WriteFile(path, Render(card.Hearts, "Q")); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("stat = %v, %v", fi, err)
	}
	if err := WriteFile(filepath.Join(t.TempDir(), "x.bmp"), Render(card.Hearts, "Q")); err == nil {
		t.Error("bmp accepted")
	}
}

func TestToANSI(t *testing.T) {
	art := ToANSI(Render(card.Spades, "J"), 20, 14, true)
	lines := strings.Split(strings.TrimSuffix(art, "\n"), "\n")
	if len(lines) != 14 {
		t.Fatalf("rows = %d", len(lines))
	}
	for i, l := range lines {
		if n := len([]rune(StripANSI(l))); n != 20 {
			t.Errorf("row %d has %d cells", i, n)
		}
	}
	if !strings.Contains(art, "\x1b[38;2;") {
		t.Error("no colour codes")
	}

	plain := ToANSI(Render(card.Spades, "J"), 4, 2, false)
	if plain != "▀▀▀▀\n▀▀▀▀\n" {
		t.Errorf("plain = %q", plain)
	}
}
