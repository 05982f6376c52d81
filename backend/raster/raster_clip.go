package raster

import (
	"image"

	"github.com/inkcore/strokes/internal/geom"
	"github.com/inkcore/strokes/internal/logx"
)

const maxClipDepth = 3

// ClipRect intersects the current clip with an axis-aligned rectangle.
// The raster backend has no true scissor fast path (everything goes
// through the coverage mask), but axis-aligned rects still skip the
// antialiasing rasterizer since their coverage is exactly 0 or 255.
func (b *Backend) ClipRect(x, y, w, h float64) {
	mask := b.rectMask(x, y, w, h)
	b.pushClip(mask)
}

// ClipPath intersects the current clip with an arbitrary closed path,
// nested up to 3 levels (spec §4.12/§4.14).
func (b *Backend) ClipPath(vertices []geom.Point) {
	transformed := b.transformAll(vertices)
	mask := b.rasterizeMidpointQuadratic(transformed)
	b.pushClip(mask)
}

func (b *Backend) pushClip(mask *image.Alpha) {
	if b.state.clipDepth >= maxClipDepth {
		logx.Logger().Warn("clip depth exceeded, ignoring new clip level", "maxDepth", maxClipDepth)
		return
	}
	b.state.clipMask = intersectMasks(b.state.clipMask, mask)
	b.state.clipDepth++
}

func (b *Backend) rectMask(x, y, w, h float64) *image.Alpha {
	corners := b.transformAll(rectPolygon(x, y, w, h))
	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := minX, minY
	for _, c := range corners[1:] {
		if c.X < minX {
			minX = c.X
		}
		if c.X > maxX {
			maxX = c.X
		}
		if c.Y < minY {
			minY = c.Y
		}
		if c.Y > maxY {
			maxY = c.Y
		}
	}

	pw, ph := b.activePixmap().width, b.activePixmap().height
	mask := image.NewAlpha(image.Rect(0, 0, pw, ph))
	x0, y0 := int(minX), int(minY)
	x1, y1 := int(maxX)+1, int(maxY)+1
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > pw {
		x1 = pw
	}
	if y1 > ph {
		y1 = ph
	}
	for yy := y0; yy < y1; yy++ {
		for xx := x0; xx < x1; xx++ {
			mask.Pix[mask.PixOffset(xx, yy)] = 255
		}
	}
	return mask
}

func intersectMasks(a, b *image.Alpha) *image.Alpha {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	bounds := a.Bounds()
	out := image.NewAlpha(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			av := a.AlphaAt(x, y).A
			bv := b.AlphaAt(x, y).A
			out.Pix[out.PixOffset(x, y)] = uint8(uint16(av) * uint16(bv) / 255)
		}
	}
	return out
}
