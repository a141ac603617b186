package sketch

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sketch/bmp"
	"github.com/bodgit/sketch/pixmap"
	"github.com/bodgit/sketch/tga"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Supported output formats.
const (
	FormatTGA = "tga"
	FormatBMP = "bmp"
	FormatPNG = "png"
)

// Options bundle the per-format encoding parameters.
type Options struct {
	TGA tga.Options
	BMP bmp.Options
}

// DefaultOptions write run-length encoded TGA files and truecolor BMP files.
var DefaultOptions = Options{
	TGA: tga.DefaultOptions,
}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) string {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".tga", ".bmp", ".png":
		return ext[1:]
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".tif", ".tiff":
		return "tiff"
	case ".gif", ".webp":
		return ext[1:]
	}
	return ""
}

func depthOf(m image.Image) int {
	switch m.(type) {
	case *image.Gray, *image.Gray16:
		return pixmap.Grayscale8
	}
	if o, ok := m.(interface{ Opaque() bool }); ok && o.Opaque() {
		return pixmap.RGB24
	}
	return pixmap.RGBA32
}

// Decode reads an image in the named format from r. TGA and BMP are decoded
// natively, anything else goes through image.Decode and is converted.
func Decode(r io.Reader, format string) (*pixmap.Pixmap, error) {
	switch format {
	case FormatTGA:
		return tga.Decode(r)
	case FormatBMP:
		return bmp.Decode(r)
	}

	m, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return pixmap.FromImage(m, depthOf(m))
}

// Encode writes m to w in the named format.
func Encode(w io.Writer, m *pixmap.Pixmap, format string, o *Options) error {
	if o == nil {
		o = &DefaultOptions
	}

	switch format {
	case FormatTGA:
		return tga.Encode(w, m, &o.TGA)
	case FormatBMP:
		return bmp.Encode(w, m, &o.BMP)
	case FormatPNG:
		if m.Pix() == nil {
			return pixmap.ErrEmpty
		}
		return png.Encode(w, m)
	}
	return fmt.Errorf("sketch: unsupported output format %q", format)
}

// Load reads the image file at path.
func Load(path string) (*pixmap.Pixmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sketch: unable to open: %w", err)
	}
	defer f.Close()

	m, err := Decode(f, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("sketch: %s: %w", path, err)
	}
	return m, nil
}

// Save writes m to path in the format implied by its extension.
func Save(path string, m *pixmap.Pixmap, o *Options) (err error) {
	format := FormatOf(path)
	switch format {
	case FormatTGA, FormatBMP, FormatPNG:
	default:
		return fmt.Errorf("sketch: unsupported output format for %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sketch: unable to create: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("sketch: unable to close: %w", cerr)
		}
	}()

	if err = Encode(f, m, format, o); err != nil {
		return fmt.Errorf("sketch: %s: %w", path, err)
	}
	return nil
}
