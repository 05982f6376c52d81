package raster

import (
	"image"

	"golang.org/x/image/vector"

	"github.com/inkcore/strokes/internal/geom"
)

// MaskToPath keeps pixels inside the path and clears pixels outside it,
// on the active target directly. Unlike ClipPath this does not nest and
// has no effect on the clip-mask state seen by subsequent draws (spec
// §4.12): it's a one-shot erase applied to whatever has already been
// painted.
func (b *Backend) MaskToPath(vertices []geom.Point) {
	transformed := b.transformAll(vertices)
	cov := b.rasterizeMidpointQuadratic(transformed)
	b.eraseOutsideCoverage(cov)
}

// MaskToTriangles is MaskToPath's winding-normalized triangle-list form.
func (b *Backend) MaskToTriangles(vertices []geom.Point) {
	if len(vertices) < 3 {
		return
	}
	transformed := b.transformAll(vertices)
	w, h := b.activePixmap().width, b.activePixmap().height
	z := &vector.Rasterizer{}
	z.Reset(w, h)
	for i := 0; i+2 < len(transformed); i += 3 {
		tri := transformed[i : i+3]
		windNormalize(tri)
		moveTo(z, tri[0])
		lineTo(z, tri[1])
		lineTo(z, tri[2])
		z.ClosePath()
	}
	cov := drawCoverage(z, w, h)
	b.eraseOutsideCoverage(cov)
}

// eraseOutsideCoverage zeroes every pixel not covered by cov, leaving
// covered pixels untouched; it reads the active target directly rather
// than compositing a new colour over it.
func (b *Backend) eraseOutsideCoverage(cov *image.Alpha) {
	p := b.activePixmap()
	bounds := cov.Bounds()
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			var coverage uint8
			if image.Pt(x, y).In(bounds) {
				coverage = cov.AlphaAt(x, y).A
			}
			if coverage >= 255 {
				continue
			}
			i := (y*p.width + x) * 4
			if coverage == 0 {
				p.pix[i+0], p.pix[i+1], p.pix[i+2], p.pix[i+3] = 0, 0, 0, 0
				continue
			}
			scale := float64(coverage) / 255
			p.pix[i+0] = uint8(float64(p.pix[i+0]) * scale)
			p.pix[i+1] = uint8(float64(p.pix[i+1]) * scale)
			p.pix[i+2] = uint8(float64(p.pix[i+2]) * scale)
			p.pix[i+3] = uint8(float64(p.pix[i+3]) * scale)
		}
	}
}
