// Package fakedisplay provides an in-memory drivers.Displayer for tests.
package fakedisplay

import (
	"errors"
	"image"
	"image/color"
)

// ErrFlush is returned by Display when FailNext is set.
var ErrFlush = errors.New("fakedisplay: flush failed")

// Display is a monochrome framebuffer that remembers what was flushed.
type Display struct {
	W, H int16

	// FailNext makes the next Display call fail.
	FailNext bool

	pix     []bool
	shown   []bool
	written int // SetPixel calls since the last flush.
	flushes int
}

// New returns a blank display of the given size.
func New(w, h int16) *Display {
	n := int(w) * int(h)
	return &Display{W: w, H: h, pix: make([]bool, n), shown: make([]bool, n)}
}

func (d *Display) Size() (x, y int16) { return d.W, d.H }

func (d *Display) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= d.W || y >= d.H {
		return
	}
	d.pix[int(y)*int(d.W)+int(x)] = c.R != 0 || c.G != 0 || c.B != 0
	d.written++
}

func (d *Display) Display() error {
	if d.FailNext {
		d.FailNext = false
		return ErrFlush
	}
	copy(d.shown, d.pix)
	d.written = 0
	d.flushes++
	return nil
}

// Pixel reports whether (x, y) is lit in the framebuffer.
func (d *Display) Pixel(x, y int) bool {
	if x < 0 || y < 0 || x >= int(d.W) || y >= int(d.H) {
		return false
	}
	return d.pix[y*int(d.W)+x]
}

// Shown reports whether (x, y) was lit at the last flush.
func (d *Display) Shown(x, y int) bool {
	if x < 0 || y < 0 || x >= int(d.W) || y >= int(d.H) {
		return false
	}
	return d.shown[y*int(d.W)+x]
}

// Snapshot returns a copy of the last flushed frame.
func (d *Display) Snapshot() []bool {
	out := make([]bool, len(d.shown))
	copy(out, d.shown)
	return out
}

// Flushes returns the number of successful Display calls.
func (d *Display) Flushes() int { return d.flushes }

// Writes returns the number of SetPixel calls since the last flush.
func (d *Display) Writes() int { return d.written }

// Lit returns the bounding box of lit framebuffer pixels inside r.
func (d *Display) Lit(r image.Rectangle) image.Rectangle {
	var box image.Rectangle
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if d.Pixel(x, y) {
				box = box.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return box
}
