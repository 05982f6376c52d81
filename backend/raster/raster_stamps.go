package raster

import (
	"math"

	"github.com/inkcore/strokes/backend"
	"github.com/inkcore/strokes/internal/geom"
)

// stampThreshold matches C8's per-particle drop threshold: below it a
// stamp contributes no visible ink and is skipped. C9 applies no such
// threshold itself, so its stamps below it are skipped here as well.
const stampThreshold = 0.05

// DrawStamps draws one textured quad per entry in quads, each scaled by
// Size and alpha-modulated by Opacity, centered at (X,Y).
func (b *Backend) DrawStamps(texture *backend.TextureHandle, quads []backend.StampQuad) {
	if texture == nil || b.nextTexID == 0 {
		return
	}
	data, ok := b.textures[b.nextTexID]
	if !ok {
		return
	}
	src := &pixmap{width: data.Width, height: data.Height, pix: data.Pixels}
	for _, q := range quads {
		if q.Opacity < stampThreshold {
			continue
		}
		savedAlpha := b.state.alpha
		b.state.alpha *= q.Opacity
		b.blitPixmap(src, q.X-q.Size/2, q.Y-q.Size/2, q.Size, q.Size)
		b.state.alpha = savedAlpha
	}
}

// DrawStampDiscs draws a solid-colour disc per entry, skipping any disc
// with a non-positive radius.
func (b *Backend) DrawStampDiscs(c backend.Color, discs []backend.DiscQuad) {
	for _, d := range discs {
		if d.R <= 0 {
			continue
		}
		b.rasterizeAndComposite(discPolygon(d.CX, d.CY, d.R), c)
	}
}

// DrawLines draws a batch of segments at uniform width and colour,
// used for paper-background rulings rather than stroke ink.
func (b *Backend) DrawLines(segments []backend.LineSegment, c backend.Color, width float64) {
	hw := width / 2
	for _, s := range segments {
		dx, dy := s.X2-s.X1, s.Y2-s.Y1
		length := math.Hypot(dx, dy)
		if length < 1e-9 {
			continue
		}
		nx, ny := -dy/length*hw, dx/length*hw
		quad := []geom.Point{
			geom.Pt(s.X1+nx, s.Y1+ny),
			geom.Pt(s.X2+nx, s.Y2+ny),
			geom.Pt(s.X2-nx, s.Y2-ny),
			geom.Pt(s.X1-nx, s.Y1-ny),
		}
		b.rasterizeAndComposite(quad, c)
	}
}

// DrawCircles draws a batch of solid-colour circles.
func (b *Backend) DrawCircles(discs []backend.DiscQuad, c backend.Color) {
	for _, d := range discs {
		if d.R <= 0 {
			continue
		}
		b.rasterizeAndComposite(discPolygon(d.CX, d.CY, d.R), c)
	}
}

const discSegments = 24

func discPolygon(cx, cy, r float64) []geom.Point {
	pts := make([]geom.Point, discSegments)
	for i := 0; i < discSegments; i++ {
		theta := 2 * math.Pi * float64(i) / discSegments
		pts[i] = geom.Pt(cx+r*math.Cos(theta), cy+r*math.Sin(theta))
	}
	return pts
}
