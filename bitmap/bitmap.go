// Package bitmap decodes the one-bit-per-pixel icon assets shown on the OLED.
//
// Icons are stored in the binary portable bitmap layout (magic "P4"): a magic
// line, at most one comment line starting with '#', a "<width> <height>" line
// and then the packed pixel rows. Rows are byte aligned and the most
// significant bit of each byte is the leftmost pixel (MONO_HLSB packing).
package bitmap

import (
	"bufio"
	"errors"
	"image"
	"io"
	"strconv"
	"strings"
)

// Magic is the token that must open every icon asset.
const Magic = "P4"

// maxDimension bounds width and height so a corrupt header cannot make us
// allocate more RAM than the board has.
const maxDimension = 1024

// FormatError reports a malformed icon asset.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "bitmap: " + e.Reason
}

func formatErr(reason string) error {
	return &FormatError{Reason: reason}
}

// Bitmap is an immutable decoded icon.
type Bitmap struct {
	width  int
	height int
	stride int    // Bytes per row.
	pix    []byte // Packed rows, len == stride*height.
}

// New returns a bitmap backed by a copy of pix. It fails if pix is shorter
// than ceil(width/8)*height; extra bytes are dropped.
func New(width, height int, pix []byte) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, formatErr("dimensions must be positive")
	}
	if width > maxDimension || height > maxDimension {
		return nil, formatErr("dimensions exceed " + strconv.Itoa(maxDimension) + " pixels")
	}
	stride := (width + 7) / 8
	need := stride * height
	if len(pix) < need {
		return nil, formatErr("pixel data truncated: want " + strconv.Itoa(need) +
			" bytes, got " + strconv.Itoa(len(pix)))
	}
	b := &Bitmap{
		width:  width,
		height: height,
		stride: stride,
		pix:    make([]byte, need),
	}
	copy(b.pix, pix)
	return b, nil
}

// Width returns the width in pixels.
func (b *Bitmap) Width() int { return b.width }

// Height returns the height in pixels.
func (b *Bitmap) Height() int { return b.height }

// Stride returns the number of bytes per packed row.
func (b *Bitmap) Stride() int { return b.stride }

// Bounds returns the bitmap rectangle anchored at the origin.
func (b *Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// Bytes returns a copy of the packed bit plane.
func (b *Bitmap) Bytes() []byte {
	out := make([]byte, len(b.pix))
	copy(out, b.pix)
	return out
}

// Bit reports whether the pixel at (x, y) is set. Points outside the bitmap
// are never set.
func (b *Bitmap) Bit(x, y int) bool {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return false
	}
	mask, index := b.maskIndex(x, y)
	return b.pix[index]&mask != 0
}

// maskIndex returns the bit mask and byte index for the pixel at (x, y).
func (b *Bitmap) maskIndex(x, y int) (byte, int) {
	return 0x80 >> uint(x&7), y*b.stride + x>>3
}

// Decode reads one icon asset from r.
func Decode(r io.Reader) (*Bitmap, error) {
	br := bufio.NewReader(r)

	magic, err := readLine(br)
	if err != nil {
		return nil, formatErr("reading magic: " + err.Error())
	}
	if magic != Magic {
		return nil, formatErr("bad magic " + strconv.Quote(magic))
	}

	dim, err := readLine(br)
	if err != nil {
		return nil, formatErr("reading dimensions: " + err.Error())
	}
	// Some assets carry a single comment line here, some carry none.
	if strings.HasPrefix(dim, "#") {
		dim, err = readLine(br)
		if err != nil {
			return nil, formatErr("reading dimensions: " + err.Error())
		}
	}
	width, height, err := parseDimensions(dim)
	if err != nil {
		return nil, err
	}

	stride := (width + 7) / 8
	pix := make([]byte, stride*height)
	n, err := io.ReadFull(br, pix)
	if err != nil {
		return nil, formatErr("pixel data truncated: want " + strconv.Itoa(len(pix)) +
			" bytes, got " + strconv.Itoa(n))
	}
	return &Bitmap{width: width, height: height, stride: stride, pix: pix}, nil
}

// readLine returns the next newline-terminated line with surrounding
// whitespace removed.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// parseDimensions parses "<width> <height>": two positive base-10 integers
// separated by exactly one space.
func parseDimensions(line string) (width, height int, err error) {
	fields := strings.Split(line, " ")
	if len(fields) != 2 {
		return 0, 0, formatErr("dimension line " + strconv.Quote(line) + " is not \"<width> <height>\"")
	}
	width, err = parsePositive(fields[0])
	if err != nil {
		return 0, 0, formatErr("width: " + err.Error())
	}
	height, err = parsePositive(fields[1])
	if err != nil {
		return 0, 0, formatErr("height: " + err.Error())
	}
	return width, height, nil
}

func parsePositive(s string) (int, error) {
	if s == "" || s[0] < '0' || s[0] > '9' {
		return 0, errors.New(strconv.Quote(s) + " is not a positive integer")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(strconv.Quote(s) + " is not a positive integer")
	}
	if v <= 0 {
		return 0, errors.New(strconv.Quote(s) + " is not positive")
	}
	if v > maxDimension {
		return 0, errors.New(strconv.Quote(s) + " exceeds " + strconv.Itoa(maxDimension))
	}
	return v, nil
}
