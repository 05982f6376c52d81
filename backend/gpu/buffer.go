package gpu

// colorBuffer is a premultiplied-alpha RGBA float32 buffer: the GPU
// backend's colour space (spec §4.14), distinct from the raster
// backend's straight-alpha pixmap. One float32 per channel keeps
// repeated blend passes (grain, stamps, offscreen composites) from
// accumulating the banding a uint8 buffer would show.
type colorBuffer struct {
	width, height int
	pix           []float32 // len == width*height*4, premultiplied RGBA
}

func newColorBuffer(w, h int) *colorBuffer {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &colorBuffer{width: w, height: h, pix: make([]float32, w*h*4)}
}

func (c *colorBuffer) resize(w, h int) {
	*c = *newColorBuffer(w, h)
}

func (c *colorBuffer) clear() {
	for i := range c.pix {
		c.pix[i] = 0
	}
}

func (c *colorBuffer) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.width && y < c.height
}

func (c *colorBuffer) at(x, y int) (r, g, b, a float32) {
	i := (y*c.width + x) * 4
	return c.pix[i], c.pix[i+1], c.pix[i+2], c.pix[i+3]
}

// blendPx composites premultiplied src (r,g,b,a, each already
// scaled by coverage/opacity/global alpha) onto the pixel at (x,y)
// using the requested porter-duff-ish mode.
func (c *colorBuffer) blendPx(x, y int, r, g, b, a float32, mode blendMode) {
	if !c.inBounds(x, y) || a <= 0 {
		return
	}
	i := (y*c.width + x) * 4
	dr, dg, db, da := c.pix[i], c.pix[i+1], c.pix[i+2], c.pix[i+3]

	var or, og, ob, oa float32
	switch mode {
	case blendDestinationIn:
		or, og, ob, oa = dr*a, dg*a, db*a, da*a
	case blendDestinationOut:
		inv := 1 - a
		or, og, ob, oa = dr*inv, dg*inv, db*inv, da*inv
	case blendMultiply:
		// Multiply blends colour channels then composites source-over,
		// matching the raster backend's treatment of BlendMultiply.
		mr := r * dr
		mg := g * dg
		mb := b * db
		or = mr*a + dr*(1-a)
		og = mg*a + dg*(1-a)
		ob = mb*a + db*(1-a)
		oa = a + da*(1-a)
	default: // source-over
		inv := 1 - a
		or = r + dr*inv
		og = g + dg*inv
		ob = b + db*inv
		oa = a + da*inv
	}
	c.pix[i], c.pix[i+1], c.pix[i+2], c.pix[i+3] = or, og, ob, oa
}

type blendMode int

const (
	blendSourceOver blendMode = iota
	blendDestinationIn
	blendDestinationOut
	blendMultiply
)
