// Package text measures and draws strings with tinyfont fonts.
package text

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Cursor is a pixel position. Y is the top of the text line, not the
// baseline.
type Cursor struct {
	X, Y int16
}

// Writer draws glyphs into a display framebuffer, advancing a cursor by each
// glyph's advance width.
type Writer struct {
	dev    drivers.Displayer
	font   tinyfont.Fonter
	color  color.RGBA
	ascent int16
	cursor Cursor
}

// NewWriter returns a writer drawing font into dev with color c.
func NewWriter(dev drivers.Displayer, font tinyfont.Fonter, c color.RGBA) *Writer {
	return &Writer{
		dev:    dev,
		font:   font,
		color:  c,
		ascent: ascent(font),
	}
}

// ascent is the distance from the top of a digit to the baseline. Digits are
// what this writer draws, so '0' stands in for the whole font.
func ascent(font tinyfont.Fonter) int16 {
	off := int16(font.GetGlyph('0').Info().YOffset)
	if off < 0 {
		return -off
	}
	return 0
}

// Measure returns the sum of the advance widths of the glyphs in s.
func (w *Writer) Measure(s string) int16 {
	var width int16
	for _, r := range s {
		width += int16(w.font.GetGlyph(r).Info().XAdvance)
	}
	return width
}

// LineHeight returns the font's line advance.
func (w *Writer) LineHeight() int16 {
	return int16(w.font.GetYAdvance())
}

// SetCursor moves the cursor used by the next Write.
func (w *Writer) SetCursor(p Cursor) {
	w.cursor = p
}

// Cursor returns the current cursor.
func (w *Writer) Cursor() Cursor {
	return w.cursor
}

// Write draws s at the cursor and returns the advanced cursor. An empty
// string draws nothing and leaves the cursor where it was.
func (w *Writer) Write(s string) Cursor {
	baseline := w.cursor.Y + w.ascent
	for _, r := range s {
		g := w.font.GetGlyph(r)
		g.Draw(w.dev, w.cursor.X, baseline, w.color)
		w.cursor.X += int16(g.Info().XAdvance)
	}
	return w.cursor
}

// WriteAt moves the cursor to p, draws s and returns the advanced cursor.
func (w *Writer) WriteAt(s string, p Cursor) Cursor {
	w.SetCursor(p)
	return w.Write(s)
}
