package sketch

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/sketch/pixmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func makeTestPixmap(t *testing.T, w, h, bpp int) *pixmap.Pixmap {
	t.Helper()
	m, err := pixmap.New(w, h, bpp)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, pixmap.RGBA(uint8(x*40), uint8(y*40), uint8(x+y), 0xff))
		}
	}
	return m
}

func TestFormatOf(t *testing.T) {
	tables := []struct {
		path, want string
	}{
		{"a.tga", FormatTGA},
		{"a.TGA", FormatTGA},
		{"dir/b.bmp", FormatBMP},
		{"c.png", FormatPNG},
		{"d.jpeg", "jpeg"},
		{"d.jpg", "jpeg"},
		{"e.tif", "tiff"},
		{"f.webp", "webp"},
		{"g.txt", ""},
		{"noext", ""},
	}

	for _, table := range tables {
		assert.Equal(t, table.want, FormatOf(table.path), table.path)
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()

	for _, bpp := range []int{pixmap.Grayscale8, pixmap.RGB24, pixmap.RGBA32} {
		m := makeTestPixmap(t, 5, 3, bpp)
		for _, ext := range []string{".tga", ".bmp"} {
			file := filepath.Join(dir, "image"+ext)
			require.NoError(t, Save(file, m, nil))

			out, err := Load(file)
			require.NoError(t, err)
			assert.True(t, out.Equal(m), "bpp=%d ext=%s", bpp, ext)
		}
	}
}

func TestLoadSavePNG(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "image.png")

	m := makeTestPixmap(t, 4, 4, pixmap.RGB24)
	require.NoError(t, Save(file, m, nil))

	out, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, pixmap.RGB24, out.BytesPerPixel())
	assert.Equal(t, m.Pix(), out.Pix())
}

func TestSaveErrors(t *testing.T) {
	dir := t.TempDir()
	m := makeTestPixmap(t, 1, 1, pixmap.RGB24)

	assert.Error(t, Save(filepath.Join(dir, "image.txt"), m, nil))
	assert.Error(t, Save(filepath.Join(dir, "missing", "image.tga"), m, nil))
	assert.ErrorIs(t, Save(filepath.Join(dir, "empty.tga"), new(pixmap.Pixmap), nil), pixmap.ErrEmpty)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.tga"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	file := filepath.Join(dir, "garbage.bmp")
	require.NoError(t, os.WriteFile(file, []byte("not an image"), 0o644))
	_, err = Load(file)
	assert.Error(t, err)
}

func TestDemo(t *testing.T) {
	m, err := Demo(8)
	require.NoError(t, err)

	white := pixmap.RGB(255, 255, 255)
	red := pixmap.RGB(255, 0, 0)
	black := pixmap.RGB(0, 0, 0)

	assert.Equal(t, white, m.Get(0, 7))
	assert.Equal(t, white, m.Get(4, 7))
	assert.Equal(t, black, m.Get(5, 7))
	assert.Equal(t, white, m.Get(1, 4))
	assert.Equal(t, black, m.Get(2, 4))
	assert.Equal(t, red, m.Get(4, 3))
	assert.Equal(t, red, m.Get(7, 3))
	assert.Equal(t, red, m.Get(5, 0))
	assert.Equal(t, black, m.Get(7, 0))
	assert.Equal(t, black, m.Get(0, 0))

	_, err = Demo(0)
	assert.ErrorIs(t, err, pixmap.ErrInvalidDimensions)
}

func TestNoDatabase(t *testing.T) {
	s, err := New("", testLogger())
	require.NoError(t, err)
	defer s.Close()

	assert.ErrorIs(t, s.Import(t.TempDir()), ErrNoDatabase)
	assert.ErrorIs(t, s.Export("a", filepath.Join(t.TempDir(), "a.tga"), nil), ErrNoDatabase)
	_, err = s.List()
	assert.ErrorIs(t, err, ErrNoDatabase)
	assert.ErrorIs(t, s.Remove("a"), ErrNoDatabase)
}
