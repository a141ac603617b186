/*
Package tga implements a TGA image decoder and encoder.

Only uncompressed and run-length encoded truecolor and grayscale images with
8, 24 or 32 bits per pixel are supported. The file starts with an 18 byte
little-endian header, followed by the pixel data and, when written by this
package, a zeroed developer and extension area reference and the 18 byte
"TRUEVISION-XFILE." signature.

Pixel bytes are kept in file order, no channel swapping takes place.
Decoded images are always oriented top-down, left-to-right.
*/
package tga

import (
	"image"
	"io"
)

const headerLen = 18

// Data type codes.
const (
	typeTrueColor    = 2
	typeGrayscale    = 3
	typeTrueColorRLE = 10
	typeGrayscaleRLE = 11
)

// Image descriptor bits.
const (
	descRightToLeft = 0x10
	descTopToBottom = 0x20
)

var footer = [18]byte{'T', 'R', 'U', 'E', 'V', 'I', 'S', 'I', 'O', 'N', '-', 'X', 'F', 'I', 'L', 'E', '.', 0}

type header struct {
	IDLength        uint8
	ColorMapType    uint8
	DataTypeCode    uint8
	ColorMapOrigin  uint16
	ColorMapLength  uint16
	ColorMapDepth   uint8
	XOrigin         uint16
	YOrigin         uint16
	Width           uint16
	Height          uint16
	BitsPerPixel    uint8
	ImageDescriptor uint8
}

// FormatError reports that the input is not a valid TGA image.
type FormatError string

func (e FormatError) Error() string { return "tga: invalid format: " + string(e) }

// UnsupportedError reports that the input uses a valid but unimplemented TGA
// feature.
type UnsupportedError string

func (e UnsupportedError) Error() string { return "tga: unsupported feature: " + string(e) }

func init() {
	// There is no magic number so match on the image types this package
	// can read: no color map, and a truecolor or grayscale data type.
	for _, magic := range []string{"?\x00\x02", "?\x00\x03", "?\x00\x0a", "?\x00\x0b"} {
		image.RegisterFormat("tga", magic, decode, DecodeConfig)
	}
}

func decode(r io.Reader) (image.Image, error) {
	m, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return m, nil
}
