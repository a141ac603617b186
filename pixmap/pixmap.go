/*
Package pixmap implements an in-memory pixel buffer.

A Pixmap holds width × height pixels of 1, 3 or 4 bytes each in a single
contiguous slice, row-major with the top row first. A single byte Pixmap may
carry a 256 entry palette. Copies made with Clone never share storage with
the original.
*/
package pixmap

import (
	"errors"
)

// Bytes per pixel of the supported depths.
const (
	Grayscale8 = 1
	RGB24      = 3
	RGBA32     = 4
)

var (
	// ErrInvalidDimensions is returned for a width or height below one.
	ErrInvalidDimensions = errors.New("pixmap: invalid dimensions")
	// ErrInvalidDepth is returned for bytes per pixel other than 1, 3 or 4.
	ErrInvalidDepth = errors.New("pixmap: invalid bytes per pixel")
	// ErrUnsupportedDepth is returned when a conversion cannot handle the
	// depth of the source.
	ErrUnsupportedDepth = errors.New("pixmap: unsupported bytes per pixel")
	// ErrOutOfBounds is returned when an image does not fit inside another.
	ErrOutOfBounds = errors.New("pixmap: inner image exceeds bounds of outer image")
	// ErrEmpty is returned by operations on an unallocated Pixmap.
	ErrEmpty = errors.New("pixmap: no pixel data")
	// ErrNoPalette is returned when setting a palette on a multi-byte Pixmap.
	ErrNoPalette = errors.New("pixmap: palette requires one byte per pixel")
	// ErrTooLarge is returned when a buffer would exceed MaxBytes.
	ErrTooLarge = errors.New("pixmap: image is too large")
)

// MaxBytes is the largest pixel buffer that will be allocated.
const MaxBytes = 1 << 30

// ValidDepth reports whether bpp is a supported number of bytes per pixel.
func ValidDepth(bpp int) bool {
	switch bpp {
	case Grayscale8, RGB24, RGBA32:
		return true
	}
	return false
}

// ValidSize reports whether a width × height buffer of bpp bytes per pixel is
// non-empty and no larger than MaxBytes. The product is never computed so it
// cannot overflow.
func ValidSize(width, height, bpp int) bool {
	if width <= 0 || height <= 0 || bpp <= 0 {
		return false
	}
	return height <= MaxBytes/bpp && width <= MaxBytes/bpp/height
}

// Pixmap is a pixel buffer. The zero value is an unallocated buffer on which
// Get returns the neutral pixel and Set always fails.
type Pixmap struct {
	width   int
	height  int
	bpp     int
	pix     []byte
	palette *Palette
}

// New returns a zero-filled Pixmap. Single byte pixmaps get the grayscale
// palette.
func New(width, height, bpp int) (*Pixmap, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !ValidDepth(bpp) {
		return nil, ErrInvalidDepth
	}
	if !ValidSize(width, height, bpp) {
		return nil, ErrTooLarge
	}
	p := &Pixmap{
		width:  width,
		height: height,
		bpp:    bpp,
		pix:    make([]byte, width*height*bpp),
	}
	if bpp == Grayscale8 {
		p.palette = Grayscale()
	}
	return p, nil
}

// Width returns the width in pixels.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height in pixels.
func (p *Pixmap) Height() int {
	return p.height
}

// BytesPerPixel returns the depth of each pixel in bytes.
func (p *Pixmap) BytesPerPixel() int {
	return p.bpp
}

// Pix returns the underlying pixel bytes. Writes through the returned slice
// modify the Pixmap.
func (p *Pixmap) Pix() []byte {
	return p.pix
}

// Stride returns the number of bytes in one row.
func (p *Pixmap) Stride() int {
	return p.width * p.bpp
}

// Palette returns the palette, or nil if there isn't one.
func (p *Pixmap) Palette() *Palette {
	return p.palette
}

// SetPalette stores a copy of pal. A nil palette removes it.
func (p *Pixmap) SetPalette(pal *Palette) error {
	if pal == nil {
		p.palette = nil
		return nil
	}
	if p.bpp != Grayscale8 {
		return ErrNoPalette
	}
	dup := *pal
	p.palette = &dup
	return nil
}

func (p *Pixmap) offset(x, y int) (int, bool) {
	if p.pix == nil || x < 0 || y < 0 || x >= p.width || y >= p.height {
		return 0, false
	}
	return (x + y*p.width) * p.bpp, true
}

// Get returns the pixel at (x, y). Outside the buffer the neutral, all zero,
// single byte pixel is returned.
func (p *Pixmap) Get(x, y int) Pixel {
	i, ok := p.offset(x, y)
	if !ok {
		return neutral()
	}
	c := Pixel{N: p.bpp}
	copy(c.Raw[:], p.pix[i:i+p.bpp])
	return c
}

// Set copies the first BytesPerPixel bytes of c to (x, y). It reports false
// and does nothing when (x, y) is outside the buffer.
func (p *Pixmap) Set(x, y int, c Pixel) bool {
	i, ok := p.offset(x, y)
	if !ok {
		return false
	}
	copy(p.pix[i:i+p.bpp], c.Raw[:p.bpp])
	return true
}

// Clear sets every byte of the buffer to zero.
func (p *Pixmap) Clear() {
	for i := range p.pix {
		p.pix[i] = 0
	}
}

// Clone returns a deep copy of the Pixmap.
func (p *Pixmap) Clone() *Pixmap {
	dup := &Pixmap{
		width:  p.width,
		height: p.height,
		bpp:    p.bpp,
	}
	if p.pix != nil {
		dup.pix = make([]byte, len(p.pix))
		copy(dup.pix, p.pix)
	}
	if p.palette != nil {
		pal := *p.palette
		dup.palette = &pal
	}
	return dup
}

// Equal reports whether both pixmaps have the same dimensions, depth, pixels
// and palette.
func (p *Pixmap) Equal(o *Pixmap) bool {
	if p.width != o.width || p.height != o.height || p.bpp != o.bpp || len(p.pix) != len(o.pix) {
		return false
	}
	for i := range p.pix {
		if p.pix[i] != o.pix[i] {
			return false
		}
	}
	switch {
	case p.palette == nil && o.palette == nil:
		return true
	case p.palette == nil || o.palette == nil:
		return false
	}
	return *p.palette == *o.palette
}
