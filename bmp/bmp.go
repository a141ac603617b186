/*
Package bmp implements a BMP image decoder and encoder.

Files are written with a 14 byte file header and a 40 byte info header, both
little-endian, followed by a palette of 256 BGRA entries for 8-bit images,
then the pixel rows bottom-up with every row padded to a multiple of four
bytes. The bytes of each pixel are stored in reverse order so a three byte
RGB pixel is written as BGR.

Only uncompressed images with 8, 24 or 32 bits per pixel are supported.
*/
package bmp

const (
	fileHeaderLen = 14
	infoHeaderLen = 40
	headerLen     = fileHeaderLen + infoHeaderLen
	bitsPerByte   = 8
	numColors     = 256
	rgbQuad       = 4
)

var signature = [2]byte{'B', 'M'}

type fileHeader struct {
	Signature  [2]byte
	FileSize   uint32
	Reserved1  uint16
	Reserved2  uint16
	DataOffset uint32
}

type infoHeader struct {
	HeaderSize      uint32
	Width           int32
	Height          int32
	Planes          uint16
	BitsPerPixel    uint16
	Compression     uint32
	ImageSize       uint32
	XResolution     int32
	YResolution     int32
	ColorsUsed      uint32
	ColorsImportant uint32
}

// FormatError reports that the input is not a valid BMP image.
type FormatError string

func (e FormatError) Error() string { return "bmp: invalid format: " + string(e) }

// UnsupportedError reports that the input uses a valid but unimplemented BMP
// feature.
type UnsupportedError string

func (e UnsupportedError) Error() string { return "bmp: unsupported feature: " + string(e) }

// padding returns the number of zero bytes needed to align a row of n bytes
// to four bytes.
func padding(n int) int {
	if mod := n % 4; mod > 0 {
		return 4 - mod
	}
	return 0
}
