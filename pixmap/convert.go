package pixmap

import (
	"image"
	"image/color"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

var _ image.Image = (*Pixmap)(nil)

// ColorModel implements image.Image.
func (p *Pixmap) ColorModel() color.Model {
	switch p.bpp {
	case Grayscale8:
		if p.palette != nil {
			return p.palette.Colors()
		}
		return color.GrayModel
	case RGBA32:
		return color.NRGBAModel
	}
	return color.RGBAModel
}

// Bounds implements image.Image.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// At implements image.Image. Four byte pixels are read as non-premultiplied
// (r, g, b, a).
func (p *Pixmap) At(x, y int) color.Color {
	c := p.Get(x, y)
	switch p.bpp {
	case Grayscale8:
		if p.palette != nil {
			e := p.palette[c.Raw[0]]
			return color.RGBA{e.R, e.G, e.B, 0xff}
		}
		return color.Gray{c.Raw[0]}
	case RGB24:
		return color.RGBA{c.Raw[0], c.Raw[1], c.Raw[2], 0xff}
	case RGBA32:
		return color.NRGBA{c.Raw[0], c.Raw[1], c.Raw[2], c.Raw[3]}
	}
	return color.Gray{}
}

// FromImage converts any image into a Pixmap of the given depth. Single byte
// pixmaps hold the luminance of each pixel.
func FromImage(m image.Image, bpp int) (*Pixmap, error) {
	b := m.Bounds()
	p, err := New(b.Dx(), b.Dy(), bpp)
	if err != nil {
		return nil, err
	}
	r := image.Rect(0, 0, b.Dx(), b.Dy())

	switch bpp {
	case Grayscale8:
		dst := image.NewGray(r)
		draw.Draw(dst, r, m, b.Min, draw.Src)
		for y := 0; y < r.Dy(); y++ {
			copy(p.pix[y*p.Stride():(y+1)*p.Stride()], dst.Pix[y*dst.Stride:])
		}
	default:
		dst := image.NewNRGBA(r)
		draw.Draw(dst, r, m, b.Min, draw.Src)
		for y := 0; y < r.Dy(); y++ {
			for x := 0; x < r.Dx(); x++ {
				i := y*dst.Stride + x*4
				copy(p.pix[(x+y*p.width)*bpp:(x+y*p.width+1)*bpp], dst.Pix[i:i+bpp])
			}
		}
	}

	return p, nil
}

// Quantize reduces any image to a single byte Pixmap with a palette of at
// most 256 colors chosen by median cut.
func Quantize(m image.Image) (*Pixmap, error) {
	b := m.Bounds()
	r := image.Rect(0, 0, b.Dx(), b.Dy())

	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(r, q.Quantize(make(color.Palette, 0, PaletteSize), m))
	draw.Draw(pm, r, m, b.Min, draw.Src)

	p, err := New(r.Dx(), r.Dy(), Grayscale8)
	if err != nil {
		return nil, err
	}

	pal := new(Palette)
	for i, c := range pm.Palette {
		pal[i] = color.RGBAModel.Convert(c).(color.RGBA)
		pal[i].A = 0
	}
	p.palette = pal

	for y := 0; y < r.Dy(); y++ {
		copy(p.pix[y*p.width:(y+1)*p.width], pm.Pix[y*pm.Stride:])
	}

	return p, nil
}
