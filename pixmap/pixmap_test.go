package pixmap

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(t *testing.T, w, h, bpp int) *Pixmap {
	t.Helper()
	p, err := New(w, h, bpp)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p.Set(x, y, RGBA(uint8(x*17^y*31), uint8(x*43+y*13), uint8(x*7^y*11), uint8(x+y)))
		}
	}
	return p
}

func TestNew(t *testing.T) {
	tables := []struct {
		name          string
		width, height int
		bpp           int
		err           error
	}{
		{"gray", 3, 2, 1, nil},
		{"rgb", 3, 2, 3, nil},
		{"rgba", 1, 1, 4, nil},
		{"zero width", 0, 2, 3, ErrInvalidDimensions},
		{"negative height", 2, -1, 3, ErrInvalidDimensions},
		{"two bytes", 2, 2, 2, ErrInvalidDepth},
		{"five bytes", 2, 2, 5, ErrInvalidDepth},
		{"too large", MaxBytes, 2, 1, ErrTooLarge},
		{"overflowing", 0x7fffffff, 0x7fffffff, 4, ErrTooLarge},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			p, err := New(table.width, table.height, table.bpp)
			if table.err != nil {
				assert.ErrorIs(t, err, table.err)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, table.width, p.Width())
			assert.Equal(t, table.height, p.Height())
			assert.Equal(t, table.bpp, p.BytesPerPixel())
			assert.Len(t, p.Pix(), table.width*table.height*table.bpp)
			for _, b := range p.Pix() {
				assert.Zero(t, b)
			}
			assert.Equal(t, table.bpp == 1, p.Palette() != nil)
		})
	}
}

func TestGetSet(t *testing.T) {
	p, err := New(4, 3, 3)
	require.NoError(t, err)

	assert.True(t, p.Set(1, 2, RGB(1, 2, 3)))
	assert.Equal(t, RGB(1, 2, 3), p.Get(1, 2))
	assert.Equal(t, []byte{1, 2, 3}, p.Pix()[(1+2*4)*3:(1+2*4)*3+3])

	// Only the first three bytes of a four byte pixel are copied
	assert.True(t, p.Set(0, 0, RGBA(9, 8, 7, 6)))
	assert.Equal(t, RGB(9, 8, 7), p.Get(0, 0))

	before := append([]byte(nil), p.Pix()...)
	for _, pt := range []image.Point{{-1, 0}, {0, -1}, {4, 0}, {0, 3}, {100, 100}} {
		assert.False(t, p.Set(pt.X, pt.Y, White))
		assert.Equal(t, Pixel{N: 1}, p.Get(pt.X, pt.Y))
	}
	assert.Equal(t, before, p.Pix())
}

func TestUnallocated(t *testing.T) {
	var p Pixmap
	assert.False(t, p.Set(0, 0, White))
	assert.Equal(t, Pixel{N: 1}, p.Get(0, 0))
	p.FlipHorizontal()
	p.FlipVertical()
	assert.ErrorIs(t, p.Scale(2, 2), ErrEmpty)
	assert.ErrorIs(t, p.ToRGB(), ErrEmpty)
}

func TestClear(t *testing.T) {
	p := gradient(t, 5, 4, 4)
	p.Clear()
	assert.Equal(t, make([]byte, 5*4*4), p.Pix())
}

func TestClone(t *testing.T) {
	p, err := New(2, 2, 1)
	require.NoError(t, err)
	p.Set(1, 1, Index(5))

	dup := p.Clone()
	assert.True(t, dup.Equal(p))

	dup.Set(0, 0, Index(9))
	dup.Palette()[5] = color.RGBA{1, 2, 3, 4}
	assert.Equal(t, Index(0), p.Get(0, 0))
	assert.Equal(t, color.RGBA{5, 5, 5, 0}, p.Palette()[5])
	assert.False(t, dup.Equal(p))
}

func TestSetPalette(t *testing.T) {
	gray, err := New(1, 1, 1)
	require.NoError(t, err)
	pal := new(Palette)
	pal[5] = color.RGBA{128, 128, 128, 0}
	require.NoError(t, gray.SetPalette(pal))
	pal[5] = color.RGBA{}
	assert.Equal(t, color.RGBA{128, 128, 128, 0}, gray.Palette()[5])

	rgb, err := New(1, 1, 3)
	require.NoError(t, err)
	assert.ErrorIs(t, rgb.SetPalette(pal), ErrNoPalette)
	assert.NoError(t, rgb.SetPalette(nil))
}

func TestFlip(t *testing.T) {
	for _, size := range []image.Point{{1, 1}, {2, 3}, {5, 4}, {7, 7}} {
		p := gradient(t, size.X, size.Y, 4)
		orig := p.Clone()

		p.FlipHorizontal()
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				assert.Equal(t, orig.Get(x, y), p.Get(size.X-1-x, y))
			}
		}
		p.FlipHorizontal()
		assert.True(t, p.Equal(orig))

		p.FlipVertical()
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				assert.Equal(t, orig.Get(x, y), p.Get(x, size.Y-1-y))
			}
		}
		p.FlipVertical()
		assert.True(t, p.Equal(orig))
	}
}

func TestScale(t *testing.T) {
	p, err := New(4, 2, 1)
	require.NoError(t, err)
	copy(p.Pix(), []byte{
		1, 2, 3, 4,
		5, 6, 7, 8,
	})

	t.Run("down", func(t *testing.T) {
		dup := p.Clone()
		require.NoError(t, dup.Scale(2, 1))
		assert.Equal(t, []byte{6, 8}, dup.Pix())
	})

	t.Run("up", func(t *testing.T) {
		dup := p.Clone()
		require.NoError(t, dup.Scale(8, 4))
		assert.Equal(t, []byte{
			1, 1, 2, 2, 3, 3, 4, 4,
			1, 1, 2, 2, 3, 3, 4, 4,
			5, 5, 6, 6, 7, 7, 8, 8,
			5, 5, 6, 6, 7, 7, 8, 8,
		}, dup.Pix())
	})

	t.Run("uneven", func(t *testing.T) {
		dup := p.Clone()
		require.NoError(t, dup.Scale(6, 3))
		assert.Equal(t, []byte{
			1, 2, 2, 3, 4, 4,
			5, 6, 6, 7, 8, 8,
			5, 6, 6, 7, 8, 8,
		}, dup.Pix())
	})

	t.Run("single source", func(t *testing.T) {
		one, err := New(1, 1, 3)
		require.NoError(t, err)
		one.Set(0, 0, RGB(1, 2, 3))
		require.NoError(t, one.Scale(3, 3))
		for y := 0; y < 3; y++ {
			for x := 0; x < 3; x++ {
				assert.Equal(t, RGB(1, 2, 3), one.Get(x, y))
			}
		}
	})

	t.Run("invalid", func(t *testing.T) {
		dup := p.Clone()
		assert.ErrorIs(t, dup.Scale(0, 1), ErrInvalidDimensions)
		assert.ErrorIs(t, dup.Scale(MaxBytes, MaxBytes), ErrTooLarge)
		assert.True(t, dup.Equal(p))
	})
}

func TestValidSize(t *testing.T) {
	assert.True(t, ValidSize(1, 1, 4))
	assert.True(t, ValidSize(MaxBytes/4, 1, 4))
	assert.False(t, ValidSize(MaxBytes/4+1, 1, 4))
	assert.True(t, ValidSize(1<<15, 1<<15, 1))
	assert.False(t, ValidSize(1<<15, 1<<15+1, 1))
	assert.False(t, ValidSize(65535, 65535, 4))
	assert.False(t, ValidSize(0x7fffffff, 0x7fffffff, 4))
	assert.False(t, ValidSize(0, 1, 1))
}

func TestPaletteBinary(t *testing.T) {
	pal := new(Palette)
	pal[5] = color.RGBA{255, 0, 0, 0}
	pal[255] = color.RGBA{1, 2, 3, 4}

	b, err := pal.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, b, PaletteSize*4)
	assert.Equal(t, []byte{255, 0, 0, 0}, b[20:24])

	out := new(Palette)
	require.NoError(t, out.UnmarshalBinary(b))
	assert.Equal(t, *pal, *out)

	assert.Error(t, out.UnmarshalBinary(b[:10]))
}

func TestDrawImage(t *testing.T) {
	src := gradient(t, 3, 2, 4)

	t.Run("inside", func(t *testing.T) {
		dst, err := New(6, 5, 4)
		require.NoError(t, err)
		require.NoError(t, dst.DrawImage(src, 3, 3))
		for y := 0; y < dst.Height(); y++ {
			for x := 0; x < dst.Width(); x++ {
				if x >= 3 && y >= 3 {
					assert.Equal(t, src.Get(x-3, y-3), dst.Get(x, y))
				} else {
					assert.Equal(t, RGBA(0, 0, 0, 0), dst.Get(x, y))
				}
			}
		}
	})

	for _, anchor := range []image.Point{{-1, 0}, {0, -1}, {4, 0}, {0, 4}, {6, 5}} {
		dst := gradient(t, 6, 5, 4)
		before := dst.Clone()
		assert.ErrorIs(t, dst.DrawImage(src, anchor.X, anchor.Y), ErrOutOfBounds)
		assert.True(t, dst.Equal(before))
	}
}

func TestToRGB(t *testing.T) {
	p, err := New(2, 1, 1)
	require.NoError(t, err)
	pal := new(Palette)
	pal[5] = color.RGBA{10, 20, 30, 40}
	pal[7] = color.RGBA{70, 80, 90, 100}
	require.NoError(t, p.SetPalette(pal))
	copy(p.Pix(), []byte{5, 7})

	require.NoError(t, p.ToRGB())
	assert.Equal(t, 3, p.BytesPerPixel())
	assert.Nil(t, p.Palette())
	assert.Equal(t, []byte{10, 20, 30, 70, 80, 90}, p.Pix())

	// Already RGB
	require.NoError(t, p.ToRGB())
	assert.Equal(t, []byte{10, 20, 30, 70, 80, 90}, p.Pix())

	rgba := gradient(t, 2, 2, 4)
	before := rgba.Clone()
	require.NoError(t, rgba.ToRGB())
	assert.True(t, rgba.Equal(before))

	bad := &Pixmap{width: 1, height: 1, bpp: 2, pix: make([]byte, 2)}
	assert.ErrorIs(t, bad.ToRGB(), ErrUnsupportedDepth)
}

func TestImageInterface(t *testing.T) {
	p := gradient(t, 3, 3, 4)
	assert.Equal(t, image.Rect(0, 0, 3, 3), p.Bounds())
	assert.Equal(t, color.NRGBA{p.Pix()[0], p.Pix()[1], p.Pix()[2], p.Pix()[3]}, p.At(0, 0))

	gray, err := New(1, 1, 1)
	require.NoError(t, err)
	gray.Set(0, 0, Index(42))
	assert.Equal(t, color.RGBA{42, 42, 42, 0xff}, gray.At(0, 0))
}

func TestFromImage(t *testing.T) {
	m := image.NewNRGBA(image.Rect(10, 10, 12, 11))
	m.SetNRGBA(10, 10, color.NRGBA{1, 2, 3, 255})
	m.SetNRGBA(11, 10, color.NRGBA{4, 5, 6, 255})

	rgb, err := FromImage(m, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, rgb.Pix())

	rgba, err := FromImage(m, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 255, 4, 5, 6, 255}, rgba.Pix())

	gray, err := FromImage(image.NewGray(image.Rect(0, 0, 2, 2)), 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, gray.Pix())
}

func TestQuantize(t *testing.T) {
	p, err := New(4, 1, 3)
	require.NoError(t, err)
	p.Set(0, 0, RGB(255, 0, 0))
	p.Set(1, 0, RGB(255, 0, 0))
	p.Set(2, 0, RGB(0, 0, 255))
	p.Set(3, 0, RGB(0, 0, 255))

	q, err := Quantize(p)
	require.NoError(t, err)
	assert.Equal(t, 1, q.BytesPerPixel())
	require.NotNil(t, q.Palette())

	require.NoError(t, q.ToRGB())
	assert.Equal(t, p.Get(0, 0), q.Get(1, 0))
	assert.Equal(t, p.Get(2, 0), q.Get(3, 0))
}
