// Package testfont is a fixed-metric tinyfont.Fonter for layout tests.
//
// Every glyph is Advance pixels wide. Drawing a glyph lights the single pixel
// at its origin and records the call.
package testfont

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Advance is the advance width of every glyph.
const Advance = 10

// Draw records one glyph draw.
type Draw struct {
	Rune rune
	X, Y int16
}

// Font implements tinyfont.Fonter.
type Font struct {
	Draws []Draw
}

func (f *Font) GetGlyph(r rune) tinyfont.Glypher {
	return glyph{font: f, r: r}
}

func (f *Font) GetYAdvance() uint8 { return 12 }

// Reset forgets recorded draws.
func (f *Font) Reset() { f.Draws = f.Draws[:0] }

// Text returns the runes drawn with their origin at row y, in draw order.
func (f *Font) Text(y int16) string {
	var rs []rune
	for _, d := range f.Draws {
		if d.Y == y {
			rs = append(rs, d.Rune)
		}
	}
	return string(rs)
}

// First returns the first draw of r at row y.
func (f *Font) First(r rune, y int16) (Draw, bool) {
	for _, d := range f.Draws {
		if d.Rune == r && d.Y == y {
			return d, true
		}
	}
	return Draw{}, false
}

type glyph struct {
	font *Font
	r    rune
}

func (g glyph) Draw(display drivers.Displayer, x, y int16, c color.RGBA) {
	g.font.Draws = append(g.font.Draws, Draw{Rune: g.r, X: x, Y: y})
	display.SetPixel(x, y, c)
}

func (g glyph) Info() tinyfont.GlyphInfo {
	return tinyfont.GlyphInfo{
		Rune:     g.r,
		Width:    Advance,
		Height:   10,
		XAdvance: Advance,
	}
}
