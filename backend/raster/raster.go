// Package raster implements the Software Raster Backend (C13): the
// Drawing Backend Interface (C12) over a 2D pixel buffer, using
// golang.org/x/image/vector for antialiased path coverage the same way
// a 2D canvas API's fill() does.
package raster

import (
	"image"

	"golang.org/x/image/math/f32"
	"golang.org/x/image/vector"

	"github.com/inkcore/strokes/backend"
	"github.com/inkcore/strokes/internal/geom"
	"github.com/inkcore/strokes/internal/logx"
)

func vecF32(p geom.Point) f32.Vec2 { return f32.Vec2{float32(p.X), float32(p.Y)} }

func init() {
	backend.Register(backend.NameRaster, func() backend.Backend { return New(1, 1) })
}

type blendMode int

const (
	blendSourceOver blendMode = iota
	blendDestinationIn
	blendDestinationOut
	blendMultiply
)

func fromBackendBlend(m backend.BlendMode) blendMode {
	switch m {
	case backend.BlendDestinationIn:
		return blendDestinationIn
	case backend.BlendDestinationOut:
		return blendDestinationOut
	case backend.BlendMultiply:
		return blendMultiply
	default:
		return blendSourceOver
	}
}

type state struct {
	transform geom.Matrix
	alpha     float64
	blend     blendMode
	clipDepth int
	clipMask  *image.Alpha // nil means unclipped
}

// Backend is the Software Raster Backend (C13).
type Backend struct {
	pix   *pixmap
	state state
	stack []state

	fillColor   backend.Color
	strokeColor backend.Color
	lineWidth   float64

	offscreens      map[string]*offscreenTarget
	offscreenStack  []*offscreenTarget
	activeOffscreen *offscreenTarget

	grainPatterns map[uint64]*pixmap // lazily cached per texture id

	textures  map[uint64]*ImageSourceData
	nextTexID uint64
	shadowSet bool
	shadow    shadowStyle
}

// ImageSourceData is the raster backend's private texture storage:
// the decoded RGBA pixels behind a backend.TextureHandle.
type ImageSourceData struct {
	Width, Height int
	Pixels        []byte // straight alpha RGBA8
}

type offscreenTarget struct {
	id     string
	pix    *pixmap
	saved  state
	prevOS *offscreenTarget
}

// New creates a raster backend sized width x height.
func New(width, height int) *Backend {
	return &Backend{
		pix:           newPixmap(width, height),
		state:         state{transform: geom.Identity(), alpha: 1, blend: blendSourceOver},
		offscreens:    make(map[string]*offscreenTarget),
		grainPatterns: make(map[uint64]*pixmap),
		textures:      make(map[uint64]*ImageSourceData),
	}
}

func (b *Backend) Name() string { return backend.NameRaster }

func (b *Backend) Init() error {
	logx.Logger().Debug("raster backend initialized", "width", b.pix.width, "height", b.pix.height)
	return nil
}

func (b *Backend) Close() {}

func (b *Backend) Width() int  { return b.activePixmap().width }
func (b *Backend) Height() int { return b.activePixmap().height }

func (b *Backend) Resize(width, height int) {
	if b.activeOffscreen != nil {
		b.activeOffscreen.pix.resize(width, height)
		return
	}
	b.pix.resize(width, height)
}

func (b *Backend) activePixmap() *pixmap {
	if b.activeOffscreen != nil {
		return b.activeOffscreen.pix
	}
	return b.pix
}

// Image exposes the main canvas as a standard image.Image for callers
// outside this package (snapshotting to PNG, pixel assertions in
// tests) without reaching into backend-private storage.
func (b *Backend) Image() image.Image { return b.pix }

// --- Transform stack ---

func (b *Backend) Save() {
	b.stack = append(b.stack, b.state)
}

func (b *Backend) Restore() {
	if len(b.stack) == 0 {
		return
	}
	b.state = b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
}

func (b *Backend) SetTransform(m geom.Matrix) { b.state.transform = m }

func (b *Backend) ComposeTransform(m geom.Matrix) { b.state.transform = b.state.transform.Multiply(m) }

func (b *Backend) Translate(x, y float64) { b.ComposeTransform(geom.Translate(x, y)) }

func (b *Backend) Scale(x, y float64) { b.ComposeTransform(geom.Scale(x, y)) }

func (b *Backend) GetTransform() geom.Matrix { return b.state.transform }

// --- Style ---

func (b *Backend) SetFillColor(c backend.Color)   { b.fillColor = c }
func (b *Backend) SetStrokeColor(c backend.Color) { b.strokeColor = c }
func (b *Backend) SetLineWidth(w float64)         { b.lineWidth = w }
func (b *Backend) SetAlpha(a float64)             { b.state.alpha = geom.Clamp01(a) }
func (b *Backend) SetBlendMode(m backend.BlendMode) { b.state.blend = fromBackendBlend(m) }

// --- Drawing ---

func (b *Backend) Clear() {
	p := b.activePixmap()
	p.clear(0, 0, 0, 0)
}

func (b *Backend) FillRect(x, y, w, h float64) {
	b.FillPath(rectPolygon(x, y, w, h))
}

func (b *Backend) StrokeRect(x, y, w, h float64) {
	hw := b.lineWidth / 2
	outer := rectPolygon(x-hw, y-hw, w+2*hw, h+2*hw)
	inner := rectPolygon(x+hw, y+hw, w-2*hw, h-2*hw)
	ring := append(append([]geom.Point{}, outer...), reversed(inner)...)
	b.rasterizeAndComposite(ring, b.strokeColor)
}

func rectPolygon(x, y, w, h float64) []geom.Point {
	return []geom.Point{
		geom.Pt(x, y), geom.Pt(x+w, y), geom.Pt(x+w, y+h), geom.Pt(x, y+h),
	}
}

func reversed(pts []geom.Point) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// FillPath implements spec §4.13's midpoint-quadratic path construction:
// start at the midpoint of v0v1, then for each i>=1 emit a quadratic
// Bezier through vi ending at the midpoint of vi,vi+1, and close back
// through v0. This smooths the polygon vertices C5/C6 hand it instead
// of drawing a faceted polyline.
func (b *Backend) FillPath(vertices []geom.Point) {
	if len(vertices) < 3 {
		return
	}
	transformed := b.transformAll(vertices)
	cov := b.rasterizeMidpointQuadratic(transformed)
	if b.shadowSet {
		b.compositeShadow(cov)
	}
	b.compositeCoverage(cov, b.fillColor)
}

// FillTriangles builds one sub-path per triangle, winding-normalized so
// overlapping triangles merge under non-zero winding rather than
// cancelling (spec §4.13).
func (b *Backend) FillTriangles(vertices []geom.Point) {
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
	b.compositeCoverage(cov, b.fillColor)
}

// windNormalize flips a triangle's vertex order so every triangle has
// the same winding, letting the rasterizer's non-zero fill merge
// overlapping triangles instead of cancelling them pairwise.
func windNormalize(tri []geom.Point) {
	cross := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
	if cross < 0 {
		tri[1], tri[2] = tri[2], tri[1]
	}
}

func (b *Backend) rasterizeMidpointQuadratic(v []geom.Point) *image.Alpha {
	w, h := b.activePixmap().width, b.activePixmap().height
	z := &vector.Rasterizer{}
	z.Reset(w, h)

	n := len(v)
	mid := func(i, j int) geom.Point { return v[i].Lerp(v[j], 0.5) }

	start := mid(0, 1)
	moveTo(z, start)
	for i := 1; i < n; i++ {
		next := mid(i, (i+1)%n)
		quadTo(z, v[i], next)
	}
	quadTo(z, v[0], start)
	z.ClosePath()
	return drawCoverage(z, w, h)
}

func moveTo(z *vector.Rasterizer, p geom.Point) { z.MoveTo(vecF32(p)) }
func lineTo(z *vector.Rasterizer, p geom.Point) { z.LineTo(vecF32(p)) }
func quadTo(z *vector.Rasterizer, ctrl, end geom.Point) {
	z.QuadTo(vecF32(ctrl), vecF32(end))
}

func (b *Backend) transformAll(pts []geom.Point) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = b.state.transform.TransformPoint(p)
	}
	return out
}

func (b *Backend) rasterizeAndComposite(pts []geom.Point, c backend.Color) {
	transformed := b.transformAll(pts)
	cov := b.rasterizeMidpointQuadratic(transformed)
	b.compositeCoverage(cov, c)
}

// compositeCoverage blends c over every covered pixel, scaled by the
// antialiased coverage value, current alpha, blend mode, and active
// clip mask.
func (b *Backend) compositeCoverage(cov *image.Alpha, c backend.Color) {
	p := b.activePixmap()
	clip := b.state.clipMask
	bounds := cov.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			coverage := float64(cov.AlphaAt(x, y).A) / 255
			if coverage <= 0 {
				continue
			}
			if clip != nil {
				coverage *= float64(clip.AlphaAt(x, y).A) / 255
				if coverage <= 0 {
					continue
				}
			}
			p.blendPixel(x, y, c.R, c.G, c.B, c.A*coverage, b.state.alpha, b.state.blend)
		}
	}
}

func drawCoverage(z *vector.Rasterizer, w, h int) *image.Alpha {
	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst
}
