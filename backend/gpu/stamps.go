package gpu

import (
	"math"

	"github.com/inkcore/strokes/backend"
	"github.com/inkcore/strokes/internal/geom"
)

const stampThreshold = 0.05

// DrawStamps submits one quad per [x,y,size,opacity] instance, the
// software-executed equivalent of the instanced stamp program.
func (b *Backend) DrawStamps(texture *backend.TextureHandle, quads []backend.StampQuad) {
	tex, ok := b.textures[texture]
	if !ok || b.lost {
		return
	}
	b.pipelines.bind(b.pipelines.Stamp())
	for _, q := range quads {
		if q.Opacity < stampThreshold {
			continue
		}
		savedAlpha := b.state.alpha
		b.state.alpha = geom.Clamp(savedAlpha*q.Opacity, 0, 1)
		b.blitFloatTexture(tex, q.X-q.Size/2, q.Y-q.Size/2, q.Size, q.Size)
		b.state.alpha = savedAlpha
	}
}

// DrawStampDiscs and DrawCircles both rasterize solid discs through
// the instanced circle program; DrawStampDiscs is the textureless
// ink-pool/dot path, DrawCircles is its background-helper alias.
func (b *Backend) DrawStampDiscs(c backend.Color, discs []backend.DiscQuad) {
	b.drawDiscs(c, discs)
}

func (b *Backend) DrawCircles(discs []backend.DiscQuad, c backend.Color) {
	b.drawDiscs(c, discs)
}

func (b *Backend) drawDiscs(c backend.Color, discs []backend.DiscQuad) {
	if b.lost {
		return
	}
	b.pipelines.bind(b.pipelines.Circle())
	for _, d := range discs {
		if d.R <= 0 {
			continue
		}
		b.fillResolvedPathSpace(discPolygon(d.CX, d.CY, d.R), c)
	}
}

const discSegments = 24

func discPolygon(cx, cy, r float64) []geom.Point {
	pts := make([]geom.Point, discSegments)
	for i := range pts {
		theta := 2 * math.Pi * float64(i) / float64(discSegments)
		pts[i] = geom.Pt(cx+r*math.Cos(theta), cy+r*math.Sin(theta))
	}
	return pts
}

// DrawLines draws one quad per segment through the line program.
func (b *Backend) DrawLines(segments []backend.LineSegment, c backend.Color, width float64) {
	if b.lost {
		return
	}
	b.pipelines.bind(b.pipelines.Line())
	half := width / 2
	for _, s := range segments {
		dx, dy := s.X2-s.X1, s.Y2-s.Y1
		length := geom.V2(dx, dy).Length()
		if length < 1e-9 {
			continue
		}
		perp := geom.V2(dx, dy).Normalize().Perp().Scale(half)
		quad := []geom.Point{
			geom.Pt(s.X1+perp.X, s.Y1+perp.Y),
			geom.Pt(s.X2+perp.X, s.Y2+perp.Y),
			geom.Pt(s.X2-perp.X, s.Y2-perp.Y),
			geom.Pt(s.X1-perp.X, s.Y1-perp.Y),
		}
		b.fillResolvedPathSpace(quad, c)
	}
}
