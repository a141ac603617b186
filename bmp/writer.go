package bmp

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/bodgit/sketch/pixmap"
)

// Options are the encoding parameters.
type Options struct {
	// Palettize reduces three and four byte images to 8-bit paletted
	// images before encoding.
	Palettize bool
}

var errTooLarge = errors.New("bmp: image is too large")

type encoder struct {
	w *bufio.Writer
}

func (e *encoder) writePalette(pal *pixmap.Palette) error {
	var tmp [numColors * rgbQuad]byte
	for i, c := range pal {
		tmp[i*rgbQuad+0] = c.B
		tmp[i*rgbQuad+1] = c.G
		tmp[i*rgbQuad+2] = c.R
		tmp[i*rgbQuad+3] = c.A
	}
	_, err := e.w.Write(tmp[:])
	return err
}

func (e *encoder) encode(m *pixmap.Pixmap) error {
	bpp := m.BytesPerPixel()
	stride := m.Stride()
	pad := padding(stride)
	imageSize := (stride + pad) * m.Height()

	paletteSize := 0
	if bpp == pixmap.Grayscale8 {
		paletteSize = numColors * rgbQuad
	}

	if int64(headerLen+paletteSize)+int64(imageSize) > math.MaxUint32 || m.Width() > math.MaxInt32 || m.Height() > math.MaxInt32 {
		return errTooLarge
	}

	fh := fileHeader{
		Signature:  signature,
		FileSize:   uint32(headerLen + paletteSize + imageSize),
		DataOffset: uint32(headerLen + paletteSize),
	}
	if err := binary.Write(e.w, binary.LittleEndian, &fh); err != nil {
		return err
	}

	ih := infoHeader{
		HeaderSize:   infoHeaderLen,
		Width:        int32(m.Width()),
		Height:       int32(m.Height()),
		Planes:       1,
		BitsPerPixel: uint16(bpp * bitsPerByte),
		ImageSize:    uint32(imageSize),
		ColorsUsed:   numColors,
	}
	if err := binary.Write(e.w, binary.LittleEndian, &ih); err != nil {
		return err
	}

	if bpp == pixmap.Grayscale8 {
		pal := m.Palette()
		if pal == nil {
			pal = pixmap.Grayscale()
		}
		if err := e.writePalette(pal); err != nil {
			return err
		}
	}

	pix := m.Pix()
	row := make([]byte, stride+pad)
	for y := m.Height() - 1; y >= 0; y-- {
		line := pix[y*stride : (y+1)*stride]
		for x := 0; x < stride; x += bpp {
			for k := 0; k < bpp; k++ {
				row[x+k] = line[x+bpp-1-k]
			}
		}
		if _, err := e.w.Write(row); err != nil {
			return err
		}
	}

	return e.w.Flush()
}

// Encode writes the Pixmap m to w in BMP format. A nil o uses the zero
// Options.
func Encode(w io.Writer, m *pixmap.Pixmap, o *Options) error {
	if m.Pix() == nil {
		return pixmap.ErrEmpty
	}
	if o == nil {
		o = &Options{}
	}

	if o.Palettize && m.BytesPerPixel() != pixmap.Grayscale8 {
		var err error
		if m, err = pixmap.Quantize(m); err != nil {
			return err
		}
	}

	e := encoder{w: bufio.NewWriter(w)}

	return e.encode(m)
}
