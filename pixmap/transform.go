package pixmap

// FlipHorizontal mirrors the Pixmap left to right.
func (p *Pixmap) FlipHorizontal() {
	if p.pix == nil {
		return
	}
	half := p.width >> 1
	for x := 0; x < half; x++ {
		for y := 0; y < p.height; y++ {
			c1 := p.Get(x, y)
			c2 := p.Get(p.width-1-x, y)
			p.Set(x, y, c2)
			p.Set(p.width-1-x, y, c1)
		}
	}
}

// FlipVertical mirrors the Pixmap top to bottom.
func (p *Pixmap) FlipVertical() {
	if p.pix == nil {
		return
	}
	stride := p.Stride()
	line := make([]byte, stride)
	half := p.height >> 1
	for y := 0; y < half; y++ {
		l1 := p.pix[y*stride : (y+1)*stride]
		l2 := p.pix[(p.height-1-y)*stride : (p.height-y)*stride]
		copy(line, l1)
		copy(l1, l2)
		copy(l2, line)
	}
}

// Scale resizes the Pixmap to width × height using nearest neighbour
// sampling. Each axis keeps an integer error term that accumulates the new
// size for every source pixel and emits one destination pixel each time it
// reaches the old size, so shrinking keeps the last sampled source pixel and
// growing repeats pixels and rows.
func (p *Pixmap) Scale(width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidDimensions
	}
	if p.pix == nil {
		return ErrEmpty
	}
	if !ValidSize(width, height, p.bpp) {
		return ErrTooLarge
	}

	pix := make([]byte, width*height*p.bpp)
	nstride, ostride := width*p.bpp, p.Stride()

	var nscanline, oscanline, erry int
	for y := 0; y < p.height; y++ {
		errx := 0
		nx, ox := -p.bpp, -p.bpp
		for x := 0; x < p.width; x++ {
			ox += p.bpp
			errx += width
			for errx >= p.width {
				errx -= p.width
				nx += p.bpp
				copy(pix[nscanline+nx:nscanline+nx+p.bpp], p.pix[oscanline+ox:oscanline+ox+p.bpp])
			}
		}
		erry += height
		oscanline += ostride
		for erry >= p.height {
			// More than one destination row comes from this source row
			if erry >= p.height<<1 {
				copy(pix[nscanline+nstride:nscanline+nstride<<1], pix[nscanline:nscanline+nstride])
			}
			erry -= p.height
			nscanline += nstride
		}
	}

	p.pix = pix
	p.width = width
	p.height = height
	return nil
}

// DrawImage copies all of src into the Pixmap with its top-left corner at
// (x, y). If any part of src would land outside the Pixmap nothing is
// written and ErrOutOfBounds is returned.
func (p *Pixmap) DrawImage(src *Pixmap, x, y int) error {
	if x < 0 || y < 0 || src.height+y > p.height || src.width+x > p.width {
		return ErrOutOfBounds
	}
	for sy := 0; sy < src.height; sy++ {
		for sx := 0; sx < src.width; sx++ {
			p.Set(sx+x, sy+y, src.Get(sx, sy))
		}
	}
	return nil
}

// ToRGB expands a single byte Pixmap into three bytes per pixel by looking
// up every index in the palette, discarding the palette and its alpha
// channel. Without a palette the index is treated as an intensity. Three
// and four byte pixmaps are left as they are.
func (p *Pixmap) ToRGB() error {
	switch {
	case p.pix == nil:
		return ErrEmpty
	case p.bpp == RGB24, p.bpp == RGBA32:
		return nil
	case p.bpp != Grayscale8:
		return ErrUnsupportedDepth
	}

	pal := p.palette
	if pal == nil {
		pal = Grayscale()
	}

	pix := make([]byte, p.width*p.height*RGB24)
	for i, v := range p.pix {
		c := pal[v]
		pix[i*RGB24+0] = c.R
		pix[i*RGB24+1] = c.G
		pix[i*RGB24+2] = c.B
	}

	p.pix = pix
	p.bpp = RGB24
	p.palette = nil
	return nil
}
