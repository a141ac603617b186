/*
Package rle implements the run-length packet stream used by TGA image data.

Each packet starts with a control byte. Values below 128 introduce a raw
packet of control+1 literal pixels, values of 128 and above introduce a run
packet holding a single pixel repeated control-127 times. A packet never
covers more than 128 pixels.
*/
package rle

import (
	"bufio"
	"errors"
	"io"
)

// MaxChunk is the maximum number of pixels covered by one packet.
const MaxChunk = 128

var (
	// ErrOverrun is returned when a packet would decode more pixels than
	// the destination holds.
	ErrOverrun = errors.New("rle: too many pixels")
	errBadSize = errors.New("rle: buffer is not a whole number of pixels")
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func checkSize(pix []byte, bpp int) error {
	if bpp <= 0 || len(pix)%bpp != 0 {
		return errBadSize
	}
	return nil
}

// Decode reads packets from r until pix, holding len(pix)/bpp pixels of bpp
// bytes each, is full. Nothing is ever written beyond the end of pix. Only
// the bytes of the packets needed are consumed when r is an io.ByteReader.
func Decode(r io.Reader, pix []byte, bpp int) error {
	if err := checkSize(pix, bpp); err != nil {
		return err
	}

	br, ok := r.(io.ByteReader)
	if !ok {
		b := bufio.NewReader(r)
		br, r = b, b
	}

	var pixel [4]byte
	for i := 0; i < len(pix); {
		header, err := br.ReadByte()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return err
		}

		if header < MaxChunk {
			n := (int(header) + 1) * bpp
			if i+n > len(pix) {
				return ErrOverrun
			}
			if err := readFull(r, pix[i:i+n]); err != nil {
				return err
			}
			i += n
			continue
		}

		n := int(header) - (MaxChunk - 1)
		if i+n*bpp > len(pix) {
			return ErrOverrun
		}
		if err := readFull(r, pixel[:bpp]); err != nil {
			return err
		}
		for ; n > 0; n-- {
			i += copy(pix[i:i+bpp], pixel[:bpp])
		}
	}

	return nil
}

func samePixel(pix []byte, i, j, bpp int) bool {
	for t := 0; t < bpp; t++ {
		if pix[i*bpp+t] != pix[j*bpp+t] {
			return false
		}
	}
	return true
}

// Encode writes pix, a sequence of bpp byte pixels, to w as packets. The
// first two pixels of a chunk decide its kind: a raw chunk stops before the
// first pair of equal pixels, a run chunk stops at the first pixel that
// differs.
func Encode(w io.Writer, pix []byte, bpp int) error {
	if err := checkSize(pix, bpp); err != nil {
		return err
	}

	npixels := len(pix) / bpp
	for cur := 0; cur < npixels; {
		length := 1
		raw := true
		for cur+length < npixels && length < MaxChunk {
			eq := samePixel(pix, cur+length-1, cur+length, bpp)
			if length == 1 {
				raw = !eq
			}
			if raw && eq {
				length--
				break
			}
			if !raw && !eq {
				break
			}
			length++
		}

		var header byte
		payload := pix[cur*bpp : (cur+1)*bpp]
		if raw {
			header = byte(length - 1)
			payload = pix[cur*bpp : (cur+length)*bpp]
		} else {
			header = byte(length + MaxChunk - 1)
		}

		if _, err := w.Write([]byte{header}); err != nil {
			return err
		}
		if _, err := w.Write(payload); err != nil {
			return err
		}

		cur += length
	}

	return nil
}
