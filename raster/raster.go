/*
Package raster draws lines and filled triangles onto anything that can set
individual pixels.

DrawLine follows a half-open convention: the far endpoint of a segment is not
drawn. DrawLineInclusive draws both endpoints.
*/
package raster

import (
	"image"

	"github.com/bodgit/sketch/pixmap"
)

// Canvas is the drawing surface. *pixmap.Pixmap satisfies it. Set reports
// false for coordinates outside the Width × Height area.
type Canvas interface {
	Width() int
	Height() int
	Set(x, y int, c pixmap.Pixel) bool
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Shallow, rightwards and downwards.
func oct1(c Canvas, x0, y0, x1, y1 int, col pixmap.Pixel) bool {
	dx, dy := x1-x0, y1-y0
	d := 2*dy - dx
	y := y0
	for x := x0; x < x1; x++ {
		if !c.Set(x, y, col) {
			return false
		}
		if d > 0 {
			y++
			d -= 2 * dx
		}
		d += 2 * dy
	}
	return true
}

// Steep, rightwards and downwards.
func oct2(c Canvas, x0, y0, x1, y1 int, col pixmap.Pixel) bool {
	dx, dy := x1-x0, y1-y0
	d := 2*dx - dy
	x := x0
	for y := y0; y < y1; y++ {
		if !c.Set(x, y, col) {
			return false
		}
		if d > 0 {
			x++
			d -= 2 * dy
		}
		d += 2 * dx
	}
	return true
}

// Steep, leftwards and downwards.
func oct3(c Canvas, x0, y0, x1, y1 int, col pixmap.Pixel) bool {
	dx, dy := x0-x1, y1-y0
	d := 2*dx - dy
	x := x0
	for y := y0; y < y1; y++ {
		if !c.Set(x, y, col) {
			return false
		}
		if d > 0 {
			x--
			d -= 2 * dy
		}
		d += 2 * dx
	}
	return true
}

// Shallow, leftwards and downwards.
func oct4(c Canvas, x0, y0, x1, y1 int, col pixmap.Pixel) bool {
	dx, dy := x0-x1, y1-y0
	d := 2*dy - dx
	y := y0
	for x := x0; x > x1; x-- {
		if !c.Set(x, y, col) {
			return false
		}
		if d > 0 {
			y++
			d -= 2 * dx
		}
		d += 2 * dy
	}
	return true
}

// DrawLine draws the segment from (x0, y0) towards (x1, y1) in col.
//
// A segment of zero length sets the single pixel and reports whether it was
// inside the canvas. Horizontal and vertical segments cover the columns or
// rows from the lower coordinate up to but excluding the higher one, skipping
// anything outside the canvas. Every other segment is traced with an integer
// error accumulator chosen by octant; tracing stops at the first pixel that
// falls outside the canvas and false is returned.
func DrawLine(c Canvas, x0, y0, x1, y1 int, col pixmap.Pixel) bool {
	dx, dy := x1-x0, y1-y0

	switch {
	case dx == 0 && dy == 0:
		return c.Set(x0, y0, col)
	case dy == 0:
		if x0 > x1 {
			x0, x1 = x1, x0
		}
		if y0 < 0 || y0 >= c.Height() {
			return true
		}
		for x := max(x0, 0); x < min(x1, c.Width()); x++ {
			c.Set(x, y0, col)
		}
		return true
	case dx == 0:
		if y0 > y1 {
			y0, y1 = y1, y0
		}
		if x0 < 0 || x0 >= c.Width() {
			return true
		}
		for y := max(y0, 0); y < min(y1, c.Height()); y++ {
			c.Set(x0, y, col)
		}
		return true
	}

	steep := abs(dy) > abs(dx)

	if (dy < 0) == (dx < 0) {
		switch {
		case steep && x0 < x1:
			return oct2(c, x0, y0, x1, y1, col)
		case steep:
			return oct2(c, x1, y1, x0, y0, col)
		case x0 < x1:
			return oct1(c, x0, y0, x1, y1, col)
		default:
			return oct1(c, x1, y1, x0, y0, col)
		}
	}

	switch {
	case steep && x0 > x1:
		return oct3(c, x0, y0, x1, y1, col)
	case steep:
		return oct3(c, x1, y1, x0, y0, col)
	case x0 > x1:
		return oct4(c, x0, y0, x1, y1, col)
	default:
		return oct4(c, x1, y1, x0, y0, col)
	}
}

// DrawLineInclusive draws the segment from (x0, y0) to (x1, y1) including both
// endpoints. Pixels outside the canvas are skipped.
func DrawLineInclusive(c Canvas, x0, y0, x1, y1 int, col pixmap.Pixel) {
	steep := abs(x0-x1) < abs(y0-y1)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx, dy := x1-x0, y1-y0
	step := 1
	if dy < 0 {
		step = -1
	}

	derr, err := abs(dy)*2, 0
	y := y0
	for x := x0; x <= x1; x++ {
		if steep {
			c.Set(y, x, col)
		} else {
			c.Set(x, y, col)
		}
		err += derr
		if err > dx {
			y += step
			err -= dx * 2
		}
	}
}

// edge returns the x coordinate where the edge from a to b crosses row y,
// truncated towards zero. Edges with no height are never sampled.
func edge(a, b image.Point, y int) int {
	dy := b.Y - a.Y
	if dy == 0 {
		return a.X
	}
	return int(float64(a.X) + float64((y-a.Y)*(b.X-a.X))/float64(dy))
}

// DrawTriangle fills the triangle t0, t1, t2 in col, one scanline at a time.
// Rows from the topmost vertex down to, but excluding, the bottommost vertex
// are filled. A triangle with no height draws nothing and reports success.
func DrawTriangle(c Canvas, t0, t1, t2 image.Point, col pixmap.Pixel) bool {
	if t0.Y == t1.Y && t0.Y == t2.Y {
		return true
	}

	if t0.Y > t1.Y {
		t0, t1 = t1, t0
	}
	if t0.Y > t2.Y {
		t0, t2 = t2, t0
	}
	if t1.Y > t2.Y {
		t1, t2 = t2, t1
	}

	width, height := c.Width(), c.Height()

	span := func(y, xi, xf int) {
		if xi > xf {
			xi, xf = xf, xi
		}
		// Spans entirely off the canvas are skipped
		if xf < 0 || xi >= width {
			return
		}
		DrawLine(c, max(xi, 0), y, min(xf, width-1)+1, y, col)
	}

	// Rows above and below the canvas are never visited
	for y := max(t0.Y, 0); y < min(t1.Y, height); y++ {
		span(y, edge(t0, t2, y), edge(t0, t1, y))
	}
	for y := max(t1.Y, 0); y < min(t2.Y, height); y++ {
		span(y, edge(t0, t2, y), edge(t1, t2, y))
	}

	return true
}
