package bmp

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/bodgit/sketch/pixmap"
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func discard(r io.Reader, n int64) error {
	if _, err := io.CopyN(io.Discard, r, n); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

type decoder struct {
	r io.Reader

	fh fileHeader
	ih infoHeader

	width, height int
	bpp           int
	topDown       bool

	colors  int
	palette *pixmap.Palette
	image   *pixmap.Pixmap
}

func (d *decoder) readHeader() error {
	var tmp [headerLen]byte
	if err := readFull(d.r, tmp[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return FormatError("short header")
		}
		return err
	}

	r := bytes.NewReader(tmp[:])
	if err := binary.Read(r, binary.LittleEndian, &d.fh); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &d.ih); err != nil {
		return err
	}

	if d.fh.Signature != signature {
		return FormatError("bad signature")
	}
	if d.ih.HeaderSize < infoHeaderLen {
		return UnsupportedError(fmt.Sprintf("info header size %d", d.ih.HeaderSize))
	}
	if d.ih.Planes != 1 || d.ih.Compression != 0 {
		return UnsupportedError(fmt.Sprintf("%d planes, compression %d", d.ih.Planes, d.ih.Compression))
	}

	d.width, d.height = int(d.ih.Width), int(d.ih.Height)
	if d.height < 0 {
		d.height, d.topDown = -d.height, true
	}
	if d.width <= 0 || d.height == 0 {
		return FormatError(fmt.Sprintf("bad dimensions %dx%d", d.ih.Width, d.ih.Height))
	}

	if d.ih.BitsPerPixel%bitsPerByte != 0 || !pixmap.ValidDepth(int(d.ih.BitsPerPixel)/bitsPerByte) {
		return UnsupportedError(fmt.Sprintf("%d bits per pixel", d.ih.BitsPerPixel))
	}
	d.bpp = int(d.ih.BitsPerPixel) / bitsPerByte

	if !pixmap.ValidSize(d.width, d.height, d.bpp) {
		return FormatError(fmt.Sprintf("image too large: %dx%d/%d", d.ih.Width, d.ih.Height, d.ih.BitsPerPixel))
	}

	// Skip anything beyond the 40 bytes of the info header that's understood
	return discard(d.r, int64(d.ih.HeaderSize)-infoHeaderLen)
}

func (d *decoder) readPalette() error {
	if d.ih.BitsPerPixel > bitsPerByte {
		return nil
	}

	// Zero colors used means the full 2^bits entries
	d.colors = 1 << d.ih.BitsPerPixel
	if d.ih.ColorsUsed != 0 {
		if d.ih.ColorsUsed > uint32(d.colors) {
			return FormatError(fmt.Sprintf("%d palette entries for %d bits per pixel", d.ih.ColorsUsed, d.ih.BitsPerPixel))
		}
		d.colors = int(d.ih.ColorsUsed)
	}

	var tmp [numColors * rgbQuad]byte
	if err := readFull(d.r, tmp[:d.colors*rgbQuad]); err != nil {
		return err
	}

	// Entries beyond those stored stay zero
	d.palette = new(pixmap.Palette)
	for i := 0; i < d.colors; i++ {
		// Entries are stored as BGRA
		d.palette[i] = color.RGBA{tmp[i*rgbQuad+2], tmp[i*rgbQuad+1], tmp[i*rgbQuad+0], tmp[i*rgbQuad+3]}
	}
	return nil
}

func (d *decoder) paletteSize() int64 {
	return int64(d.colors) * rgbQuad
}

func (d *decoder) readPixels() error {
	stride := d.width * d.bpp
	row := make([]byte, stride+padding(stride))
	pix := d.image.Pix()

	for i := 0; i < d.height; i++ {
		y := d.height - 1 - i
		if d.topDown {
			y = i
		}

		if err := readFull(d.r, row); err != nil {
			return err
		}

		line := pix[y*stride : (y+1)*stride]
		for x := 0; x < stride; x += d.bpp {
			for k := 0; k < d.bpp; k++ {
				line[x+k] = row[x+d.bpp-1-k]
			}
		}
	}

	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = bufio.NewReader(r)

	if err := d.readHeader(); err != nil {
		return err
	}

	if err := d.readPalette(); err != nil {
		return err
	}

	if configOnly {
		return nil
	}

	consumed := int64(fileHeaderLen) + int64(d.ih.HeaderSize) + d.paletteSize()
	if int64(d.fh.DataOffset) < consumed {
		return FormatError(fmt.Sprintf("data offset %d overlaps headers", d.fh.DataOffset))
	}
	if err := discard(d.r, int64(d.fh.DataOffset)-consumed); err != nil {
		return err
	}

	var err error
	if d.image, err = pixmap.New(d.width, d.height, d.bpp); err != nil {
		return err
	}
	if d.palette != nil {
		if err := d.image.SetPalette(d.palette); err != nil {
			return err
		}
	}

	return d.readPixels()
}

// Decode reads a BMP image from r and returns it as a Pixmap.
func Decode(r io.Reader) (*pixmap.Pixmap, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the color model and dimensions of a BMP image without
// decoding the entire image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}

	var model color.Model = color.RGBAModel
	switch {
	case d.palette != nil:
		model = d.palette.Colors()
	case d.bpp == pixmap.RGBA32:
		model = color.NRGBAModel
	}

	return image.Config{
		ColorModel: model,
		Width:      d.width,
		Height:     d.height,
	}, nil
}
