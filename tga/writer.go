package tga

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"

	"github.com/bodgit/sketch/pixmap"
	"github.com/bodgit/sketch/rle"
)

// Options are the encoding parameters.
type Options struct {
	// RLE selects run-length encoded pixel data.
	RLE bool
}

// DefaultOptions enable run-length encoding.
var DefaultOptions = Options{RLE: true}

var errTooLarge = errors.New("tga: image is too large")

type encoder struct {
	w *bufio.Writer
}

func dataType(bpp int, compress bool) uint8 {
	switch {
	case bpp == pixmap.Grayscale8 && compress:
		return typeGrayscaleRLE
	case bpp == pixmap.Grayscale8:
		return typeGrayscale
	case compress:
		return typeTrueColorRLE
	}
	return typeTrueColor
}

func (e *encoder) encode(m *pixmap.Pixmap, o *Options) error {
	h := header{
		DataTypeCode:    dataType(m.BytesPerPixel(), o.RLE),
		Width:           uint16(m.Width()),
		Height:          uint16(m.Height()),
		BitsPerPixel:    uint8(m.BytesPerPixel() << 3),
		ImageDescriptor: descTopToBottom,
	}
	if err := binary.Write(e.w, binary.LittleEndian, &h); err != nil {
		return err
	}

	if o.RLE {
		if err := rle.Encode(e.w, m.Pix(), m.BytesPerPixel()); err != nil {
			return err
		}
	} else {
		if _, err := e.w.Write(m.Pix()); err != nil {
			return err
		}
	}

	// Developer area and extension area references
	var refs [8]byte
	if _, err := e.w.Write(refs[:]); err != nil {
		return err
	}

	if _, err := e.w.Write(footer[:]); err != nil {
		return err
	}

	return e.w.Flush()
}

// Encode writes the Pixmap m to w in TGA format. A nil o uses
// DefaultOptions.
func Encode(w io.Writer, m *pixmap.Pixmap, o *Options) error {
	if m.Pix() == nil {
		return pixmap.ErrEmpty
	}
	if m.Width() > 0xffff || m.Height() > 0xffff {
		return errTooLarge
	}
	if o == nil {
		o = &DefaultOptions
	}

	e := encoder{w: bufio.NewWriter(w)}

	return e.encode(m, o)
}
