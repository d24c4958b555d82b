// Package compositor lays out climate readings and their unit icons on a
// monochrome display.
//
// The screen is split into a static icon column on the left and two reading
// bands to its right:
//
//	(10,12) thermometer   (30,10) 72 [°F] 22 [°C]
//	(10,42) droplet       (30,40) 45 [%]
//
// Each value is followed by its unit icon, Gap pixels after the text. The
// next value starts IconSize pixels after the icon's left edge.
package compositor

import (
	"image"
	"strconv"

	"github.com/harveysanders/picoclimate/bitmap"
	"github.com/harveysanders/picoclimate/icons"
	"github.com/harveysanders/picoclimate/screen"
	"github.com/harveysanders/picoclimate/text"
	"github.com/harveysanders/picoclimate/weather"
)

// Layout holds the fixed screen positions, in pixels.
type Layout struct {
	TemperatureIcon image.Point // Static thermometer icon.
	HumidityIcon    image.Point // Static humidity icon.

	ReadingX     int16 // Left edge of both reading bands.
	TemperatureY int16 // Top of the Fahrenheit/Celsius band.
	HumidityY    int16 // Top of the humidity band.

	Gap      int16 // Space between a value and its unit icon.
	IconSize int16 // Advance taken by a unit icon.
}

// DefaultLayout is the layout for a 128x64 panel.
func DefaultLayout() Layout {
	return Layout{
		TemperatureIcon: image.Pt(10, 12),
		HumidityIcon:    image.Pt(10, 42),
		ReadingX:        30,
		TemperatureY:    10,
		HumidityY:       40,
		Gap:             2,
		IconSize:        20,
	}
}

// IconSource resolves icon identifiers to bitmaps.
type IconSource interface {
	Get(id string) (*bitmap.Bitmap, error)
}

var _ IconSource = (*icons.Cache)(nil)

// Compositor draws frames into a canvas.
type Compositor struct {
	canvas *screen.Canvas
	writer *text.Writer
	icons  IconSource
	layout Layout
	buf    []byte // Scratch space for formatting values.
}

// New returns a compositor drawing with writer into canvas. The writer must
// target the same display as the canvas.
func New(canvas *screen.Canvas, writer *text.Writer, icons IconSource, layout Layout) *Compositor {
	return &Compositor{
		canvas: canvas,
		writer: writer,
		icons:  icons,
		layout: layout,
		buf:    make([]byte, 0, 8),
	}
}

// DrawStatic draws the icons that never change and flushes. It is called
// once at startup.
func (c *Compositor) DrawStatic() error {
	if err := c.blitIcon(icons.Temperature, c.layout.TemperatureIcon); err != nil {
		return err
	}
	if err := c.blitIcon(icons.Humidity, c.layout.HumidityIcon); err != nil {
		return err
	}
	return c.canvas.Show()
}

// Frame draws r over the previous readings and flushes exactly once. If an
// icon cannot be loaded nothing is flushed.
func (c *Compositor) Frame(r weather.Reading) error {
	l := c.layout
	c.clearReadings()

	x, err := c.placeValue(r.TempF, icons.Fahrenheit, l.ReadingX, l.TemperatureY)
	if err != nil {
		return err
	}
	x += l.IconSize
	if _, err = c.placeValue(r.TempC, icons.Celsius, x, l.TemperatureY); err != nil {
		return err
	}
	if _, err = c.placeValue(r.Humidity, icons.Percent, l.ReadingX, l.HumidityY); err != nil {
		return err
	}
	return c.canvas.Show()
}

// placeValue writes v at (x, y) and blits its unit icon right after it.
// It returns the icon's x position.
func (c *Compositor) placeValue(v int, iconID string, x, y int16) (int16, error) {
	c.buf = strconv.AppendInt(c.buf[:0], int64(v), 10)
	s := string(c.buf)

	c.writer.SetCursor(text.Cursor{X: x, Y: y})
	c.writer.Write(s)

	iconX := x + c.writer.Measure(s) + c.layout.Gap
	bm, err := c.icons.Get(iconID)
	if err != nil {
		return 0, err
	}
	c.canvas.Blit(bm, iconX, y)
	return iconX, nil
}

// clearReadings blanks both reading bands, leaving the static icon column
// alone.
func (c *Compositor) clearReadings() {
	l := c.layout
	b := c.canvas.Bounds()
	c.canvas.Fill(image.Rect(int(l.ReadingX), int(l.TemperatureY), b.Max.X, int(l.HumidityY)), false)
	c.canvas.Fill(image.Rect(int(l.ReadingX), int(l.HumidityY), b.Max.X, b.Max.Y), false)
}

func (c *Compositor) blitIcon(id string, at image.Point) error {
	bm, err := c.icons.Get(id)
	if err != nil {
		return err
	}
	c.canvas.Blit(bm, int16(at.X), int16(at.Y))
	return nil
}
