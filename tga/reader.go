package tga

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/bodgit/sketch/pixmap"
	"github.com/bodgit/sketch/rle"
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r *bufio.Reader

	h   header
	bpp int

	image *pixmap.Pixmap
}

func (d *decoder) readHeader() error {
	var tmp [headerLen]byte
	if err := readFull(d.r, tmp[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return FormatError("short header")
		}
		return err
	}
	// The header has no padding so it decodes field by field
	if err := binary.Read(bytes.NewReader(tmp[:]), binary.LittleEndian, &d.h); err != nil {
		return err
	}

	d.bpp = int(d.h.BitsPerPixel) >> 3
	if d.h.Width == 0 || d.h.Height == 0 || !pixmap.ValidDepth(d.bpp) {
		return FormatError(fmt.Sprintf("bad bpp (or width/height) value: %dx%d/%d", d.h.Width, d.h.Height, d.h.BitsPerPixel))
	}
	if !pixmap.ValidSize(int(d.h.Width), int(d.h.Height), d.bpp) {
		return FormatError(fmt.Sprintf("image too large: %dx%d/%d", d.h.Width, d.h.Height, d.h.BitsPerPixel))
	}

	switch d.h.DataTypeCode {
	case typeTrueColor, typeGrayscale, typeTrueColorRLE, typeGrayscaleRLE:
	default:
		return UnsupportedError(fmt.Sprintf("data type %d", d.h.DataTypeCode))
	}

	return nil
}

// skip discards the image ID and any color map ahead of the pixel data.
func (d *decoder) skip() error {
	n := int64(d.h.IDLength)
	if d.h.ColorMapType != 0 {
		n += int64(d.h.ColorMapLength) * int64((int(d.h.ColorMapDepth)+7)>>3)
	}
	if _, err := io.CopyN(io.Discard, d.r, n); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = bufio.NewReader(r)

	if err := d.readHeader(); err != nil {
		return err
	}

	if configOnly {
		return nil
	}

	if err := d.skip(); err != nil {
		return err
	}

	var err error
	d.image, err = pixmap.New(int(d.h.Width), int(d.h.Height), d.bpp)
	if err != nil {
		return err
	}

	switch d.h.DataTypeCode {
	case typeTrueColor, typeGrayscale:
		err = readFull(d.r, d.image.Pix())
	case typeTrueColorRLE, typeGrayscaleRLE:
		err = rle.Decode(d.r, d.image.Pix(), d.bpp)
		if errors.Is(err, rle.ErrOverrun) {
			err = FormatError(err.Error())
		}
	}
	if err != nil {
		return err
	}

	if d.h.ImageDescriptor&descTopToBottom == 0 {
		d.image.FlipVertical()
	}
	if d.h.ImageDescriptor&descRightToLeft != 0 {
		d.image.FlipHorizontal()
	}

	return nil
}

func (d *decoder) colorModel() color.Model {
	switch d.bpp {
	case pixmap.Grayscale8:
		return pixmap.Grayscale().Colors()
	case pixmap.RGBA32:
		return color.NRGBAModel
	}
	return color.RGBAModel
}

// Decode reads a TGA image from r and returns it as a Pixmap.
func Decode(r io.Reader) (*pixmap.Pixmap, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the color model and dimensions of a TGA image without
// decoding the entire image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: d.colorModel(),
		Width:      int(d.h.Width),
		Height:     int(d.h.Height),
	}, nil
}
