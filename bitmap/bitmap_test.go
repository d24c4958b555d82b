package bitmap

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// arrow is a 10x3 icon: two bytes per row, the second byte padded.
var arrow = []byte{
	0b10000000, 0b01000000,
	0b11111111, 0b11000000,
	0b10000000, 0b01000000,
}

func asset(header string, pix []byte) []byte {
	return append([]byte(header), pix...)
}

func TestDecode(t *testing.T) {
	bm, err := Decode(bytes.NewReader(asset("P4\n10 3\n", arrow)))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if bm.Width() != 10 || bm.Height() != 3 {
		t.Errorf("Expected 10x3, got %dx%d", bm.Width(), bm.Height())
	}
	if bm.Stride() != 2 {
		t.Errorf("Expected stride 2, got %d", bm.Stride())
	}
	if got := len(bm.Bytes()); got != 6 {
		t.Errorf("Expected 6 bytes of pixel data, got %d", got)
	}

	tests := []struct {
		x, y int
		want bool
	}{
		{0, 0, true},
		{1, 0, false},
		{9, 0, true},
		{8, 0, false},
		{5, 1, true},
		{9, 1, true},
		{0, 2, true},
		{4, 2, false},
		{10, 1, false}, // padding bits are outside the image
		{-1, 0, false},
		{0, 3, false},
	}
	for _, tt := range tests {
		if got := bm.Bit(tt.x, tt.y); got != tt.want {
			t.Errorf("Bit(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDecodeCommentLine(t *testing.T) {
	plain, err := Decode(bytes.NewReader(asset("P4\n10 3\n", arrow)))
	if err != nil {
		t.Fatalf("Decode without comment failed: %v", err)
	}
	commented, err := Decode(bytes.NewReader(asset("P4\n# Created by GIMP\n10 3\n", arrow)))
	if err != nil {
		t.Fatalf("Decode with comment failed: %v", err)
	}
	if plain.Width() != commented.Width() || plain.Height() != commented.Height() {
		t.Errorf("Dimensions differ: %dx%d vs %dx%d",
			plain.Width(), plain.Height(), commented.Width(), commented.Height())
	}
	if !bytes.Equal(plain.Bytes(), commented.Bytes()) {
		t.Errorf("Pixel data differs: %x vs %x", plain.Bytes(), commented.Bytes())
	}
}

func TestDecodeCRLFAndTrailingBytes(t *testing.T) {
	data := asset("P4\r\n10 3\r\n", append(append([]byte{}, arrow...), 0xFF, 0xFF))
	bm, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(bm.Bytes(), arrow) {
		t.Errorf("Expected trailing bytes dropped, got %x", bm.Bytes())
	}
}

func TestDecodeFormatErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", asset("P1\n10 3\n", arrow)},
		{"ascii magic with dims", asset("P4 10 3\n", arrow)},
		{"two comment lines", asset("P4\n# one\n# two\n10 3\n", arrow)},
		{"non-integer width", asset("P4\nten 3\n", arrow)},
		{"non-integer height", asset("P4\n10 3px\n", arrow)},
		{"single dimension", asset("P4\n10\n", arrow)},
		{"three dimensions", asset("P4\n10 3 1\n", arrow)},
		{"double space", asset("P4\n10  3\n", arrow)},
		{"zero width", asset("P4\n0 3\n", arrow)},
		{"negative height", asset("P4\n10 -3\n", arrow)},
		{"signed width", asset("P4\n+10 3\n", arrow)},
		{"huge", asset("P4\n100000 3\n", arrow)},
		{"truncated pixels", asset("P4\n10 3\n", arrow[:5])},
		{"missing dimension line", []byte("P4\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(tt.data))
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("Expected *FormatError, got %v", err)
			}
			if !strings.HasPrefix(err.Error(), "bitmap: ") {
				t.Errorf("Expected bitmap prefix, got %q", err.Error())
			}
		})
	}
}

func TestNew(t *testing.T) {
	pix := append(append([]byte{}, arrow...), 0xAA)
	bm, err := New(10, 3, pix)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	pix[0] = 0
	if !bm.Bit(0, 0) {
		t.Error("New must copy the pixel data")
	}
	out := bm.Bytes()
	out[0] = 0
	if !bm.Bit(0, 0) {
		t.Error("Bytes must return a copy")
	}
	if bm.Bounds().Dx() != 10 || bm.Bounds().Dy() != 3 {
		t.Errorf("Unexpected bounds %v", bm.Bounds())
	}

	if _, err := New(10, 3, arrow[:4]); err == nil {
		t.Error("Expected error for short pixel data")
	}
	if _, err := New(0, 3, arrow); err == nil {
		t.Error("Expected error for zero width")
	}
}
