package sketch

import (
	"image"

	"github.com/bodgit/sketch/pixmap"
	"github.com/bodgit/sketch/raster"
)

// DemoSize is the default edge length of the demo scene.
const DemoSize = 800

// Demo draws the demo scene on a size × size truecolor canvas: a white right
// triangle filling the top left half, with a half size copy drawn in red
// blitted into the bottom right quadrant, then the whole canvas flipped
// vertically.
func Demo(size int) (*pixmap.Pixmap, error) {
	m, err := pixmap.New(size, size, pixmap.RGB24)
	if err != nil {
		return nil, err
	}

	half := size / 2
	inner, err := pixmap.New(half, half, pixmap.RGB24)
	if err != nil {
		return nil, err
	}

	t0, t1, t2 := image.Pt(0, 0), image.Pt(0, half), image.Pt(half, 0)
	raster.DrawTriangle(m, t0, t1, t2, pixmap.White)
	raster.DrawTriangle(inner, t0, t1, t2, pixmap.Red)

	if err := m.DrawImage(inner, half, half); err != nil {
		return nil, err
	}
	m.FlipVertical()

	return m, nil
}
