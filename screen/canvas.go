// Package screen draws bitmaps into a monochrome display framebuffer.
//
// The framebuffer itself is owned by the display driver (for example
// ssd1306.Device). Canvas only writes pixels into it and asks the driver to
// push the buffer to the panel.
package screen

import (
	"image"
	"image/color"

	"github.com/harveysanders/picoclimate/bitmap"
	"tinygo.org/x/drivers"
)

// Colors for monochrome panels. The SSD1306 driver lights a pixel when any
// channel is non-zero.
var (
	On  = color.RGBA{255, 255, 255, 255}
	Off = color.RGBA{0, 0, 0, 255}
)

// Canvas composites into a display's framebuffer.
type Canvas struct {
	dev    drivers.Displayer
	width  int16
	height int16
	frames uint32
}

// New returns a canvas drawing into dev.
func New(dev drivers.Displayer) *Canvas {
	w, h := dev.Size()
	return &Canvas{dev: dev, width: w, height: h}
}

// Displayer returns the underlying display so text can be drawn into the
// same framebuffer.
func (c *Canvas) Displayer() drivers.Displayer { return c.dev }

// Size returns the display size in pixels.
func (c *Canvas) Size() (width, height int16) { return c.width, c.height }

// Bounds returns the display rectangle.
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(c.width), int(c.height))
}

// Blit copies bm into the framebuffer with its top-left corner at (x, y).
// Every pixel is copied, so clear bits overwrite whatever was there before.
// Pixels falling outside the display are dropped.
func (c *Canvas) Blit(bm *bitmap.Bitmap, x, y int16) {
	dst := image.Rect(int(x), int(y), int(x)+bm.Width(), int(y)+bm.Height()).Intersect(c.Bounds())
	for py := dst.Min.Y; py < dst.Max.Y; py++ {
		for px := dst.Min.X; px < dst.Max.X; px++ {
			if bm.Bit(px-int(x), py-int(y)) {
				c.dev.SetPixel(int16(px), int16(py), On)
			} else {
				c.dev.SetPixel(int16(px), int16(py), Off)
			}
		}
	}
}

// Fill sets every pixel of r (clipped to the display) to on or off.
func (c *Canvas) Fill(r image.Rectangle, on bool) {
	col := Off
	if on {
		col = On
	}
	r = r.Intersect(c.Bounds())
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			c.dev.SetPixel(int16(px), int16(py), col)
		}
	}
}

// Show pushes the framebuffer to the panel.
func (c *Canvas) Show() error {
	if err := c.dev.Display(); err != nil {
		return err
	}
	c.frames++
	return nil
}

// Frames returns how many frames have been flushed successfully.
func (c *Canvas) Frames() uint32 { return c.frames }
