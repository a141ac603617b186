package pixmap

import (
	"errors"
	"image/color"
)

// Pixel is a single pixel value of up to four bytes. N is the number of
// bytes in use and matches the bytes per pixel of the Pixmap it came from.
type Pixel struct {
	Raw [4]byte
	N   int
}

// RGBA returns a four byte pixel.
func RGBA(r, g, b, a uint8) Pixel {
	return Pixel{Raw: [4]byte{r, g, b, a}, N: 4}
}

// RGB returns a three byte pixel.
func RGB(r, g, b uint8) Pixel {
	return Pixel{Raw: [4]byte{r, g, b, 0}, N: 3}
}

// Index returns a single byte pixel, either a palette index or an intensity.
func Index(v uint8) Pixel {
	return Pixel{Raw: [4]byte{v}, N: 1}
}

// Bytes returns the in-use bytes of the pixel.
func (p Pixel) Bytes() []byte {
	return p.Raw[:p.N]
}

func neutral() Pixel {
	return Pixel{N: 1}
}

// Commonly used colors.
var (
	White = RGBA(255, 255, 255, 255)
	Black = RGBA(0, 0, 0, 255)
	Red   = RGBA(255, 0, 0, 255)
	Green = RGBA(0, 255, 0, 255)
	Blue  = RGBA(0, 0, 255, 255)
)

// PaletteSize is the number of entries in a Palette.
const PaletteSize = 256

// Palette maps a single byte pixel value to a color.
type Palette [PaletteSize]color.RGBA

// Grayscale returns the identity palette where entry i is (i, i, i, 0).
func Grayscale() *Palette {
	p := new(Palette)
	for i := range p {
		p[i] = color.RGBA{uint8(i), uint8(i), uint8(i), 0}
	}
	return p
}

// Colors returns the palette as a color.Palette. The alpha channel is forced
// opaque as it is unused by every format that stores a palette.
func (p *Palette) Colors() color.Palette {
	cp := make(color.Palette, len(p))
	for i, c := range p {
		c.A = 0xff
		cp[i] = c
	}
	return cp
}

// MarshalBinary encodes the palette as 256 consecutive (r, g, b, a) entries.
func (p *Palette) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, PaletteSize*4)
	for _, c := range p {
		b = append(b, c.R, c.G, c.B, c.A)
	}
	return b, nil
}

// UnmarshalBinary decodes a palette written by MarshalBinary.
func (p *Palette) UnmarshalBinary(b []byte) error {
	if len(b) != PaletteSize*4 {
		return errors.New("pixmap: bad palette length")
	}
	for i := range p {
		p[i] = color.RGBA{b[i*4], b[i*4+1], b[i*4+2], b[i*4+3]}
	}
	return nil
}
