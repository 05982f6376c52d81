// Package gpu implements the GPU Backend (C14): the Drawing Backend
// Interface (C12) over a shader pipeline, using the stencil protocol
// (non-zero winding in bits 0-4, nested clip level in bits 5-7) for
// fills and clips. Grounded on backend/wgpu/{pipeline,device,renderer}.go
// and backend/native/{hal_render_pass,hal_pipeline_cache,hal_texture}.go
// in the teacher, adapted from their self-contained core-ID device
// lifecycle. Full HAL buffer binding and draw submission is, per the
// teacher's own gpu_fine.go, not yet wired through this module's
// chosen wgpu version; compositing below happens against this
// package's own colour/stencil buffers so every Backend method is
// fully functional while the pipelines above dedup and would bind the
// matching GPU state once draw submission lands.
package gpu

import (
	"github.com/inkcore/strokes/backend"
	"github.com/inkcore/strokes/backend/gpu/stencil"
	"github.com/inkcore/strokes/internal/geom"
	"github.com/inkcore/strokes/internal/logx"
)

func init() {
	backend.Register(backend.NameGPU, func() backend.Backend { return New(1, 1) })
}

type state struct {
	transform     geom.Matrix
	alpha         float64
	blend         blendMode
	clipDepth     int
	requiredLevel int
}

const maxClipDepth = 3

// Backend is the GPU Backend (C14).
type Backend struct {
	ds        *deviceState
	shaders   *shaderModules
	pipelines *pipelineCache

	width, height int
	color         *colorBuffer
	stencilBuf    []uint8

	state state
	stack []state

	fillColor   backend.Color
	strokeColor backend.Color
	lineWidth   float64

	offscreens      map[string]*gpuOffscreen
	offscreenStack  []*gpuOffscreen
	activeOffscreen *gpuOffscreen

	textures      map[*backend.TextureHandle]*gpuTexture
	grainPatterns map[*backend.TextureHandle]*colorBuffer

	shadowSet bool
	shadow    shadowStyle

	lost bool
}

type gpuTexture struct {
	width, height int
	pix           []float32 // premultiplied RGBA
}

type gpuOffscreen struct {
	target *backend.OffscreenTarget
	color  *colorBuffer
	stencilBuf []uint8
	saved  state
	prevOS *gpuOffscreen
}

// New constructs a GPU backend sized width x height. The device itself
// is created lazily in Init, matching the teacher's NativeBackend
// (resources are nil until Init succeeds).
func New(width, height int) *Backend {
	return &Backend{
		width:         max1(width),
		height:        max1(height),
		color:         newColorBuffer(width, height),
		stencilBuf:    make([]uint8, max1(width)*max1(height)),
		state:         state{transform: geom.Identity(), alpha: 1, blend: blendSourceOver},
		offscreens:    make(map[string]*gpuOffscreen),
		textures:      make(map[*backend.TextureHandle]*gpuTexture),
		grainPatterns: make(map[*backend.TextureHandle]*colorBuffer),
	}
}

func max1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

func (b *Backend) Name() string { return backend.NameGPU }

// Init creates the GPU instance/adapter/device/queue and compiles the
// six shader programs. On failure the backend remains usable only
// through Close; callers should fall back to the raster backend per
// spec §4.14's documented degradation path.
func (b *Backend) Init() error {
	ds, err := createDeviceState("strokes-gpu-device")
	if err != nil {
		return err
	}
	shaders, err := newShaderModules()
	if err != nil {
		ds.close()
		return err
	}
	b.ds = ds
	b.shaders = shaders
	b.pipelines = newPipelineCache(ds.device, shaders)
	logx.Logger().Info("gpu backend initialized", "width", b.width, "height", b.height)
	return nil
}

func (b *Backend) Close() {
	if b.ds != nil {
		b.ds.close()
		b.ds = nil
	}
	b.lost = false
}

// Lost reports whether the device has been marked lost; the caller
// must discard this Backend and construct + Init a new one (spec
// §4.14's context-loss handling - the backend never attempts to
// self-heal a lost device).
func (b *Backend) Lost() bool { return b.lost }

// MarkLost flags the backend as having lost its device, e.g. in
// response to a host-reported GPU context loss event. Subsequent
// drawing calls become no-ops.
func (b *Backend) MarkLost() {
	b.lost = true
	logx.Logger().Warn("gpu backend: device lost")
}

func (b *Backend) Width() int  { return b.activeColor().width }
func (b *Backend) Height() int { return b.activeColor().height }

func (b *Backend) Resize(width, height int) {
	width, height = max1(width), max1(height)
	if b.activeOffscreen != nil {
		b.activeOffscreen.color.resize(width, height)
		b.activeOffscreen.stencilBuf = make([]uint8, width*height)
		return
	}
	b.width, b.height = width, height
	b.color.resize(width, height)
	b.stencilBuf = make([]uint8, width*height)
}

func (b *Backend) activeColor() *colorBuffer {
	if b.activeOffscreen != nil {
		return b.activeOffscreen.color
	}
	return b.color
}

func (b *Backend) activeStencil() []uint8 {
	if b.activeOffscreen != nil {
		return b.activeOffscreen.stencilBuf
	}
	return b.stencilBuf
}

// --- Transform stack ---

func (b *Backend) Save() { b.stack = append(b.stack, b.state) }

func (b *Backend) Restore() {
	if len(b.stack) == 0 {
		return
	}
	b.state = b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
}

func (b *Backend) SetTransform(m geom.Matrix)     { b.state.transform = m }
func (b *Backend) ComposeTransform(m geom.Matrix) { b.state.transform = b.state.transform.Multiply(m) }
func (b *Backend) Translate(x, y float64)         { b.ComposeTransform(geom.Translate(x, y)) }
func (b *Backend) Scale(x, y float64)             { b.ComposeTransform(geom.Scale(x, y)) }
func (b *Backend) GetTransform() geom.Matrix      { return b.state.transform }

// --- Style ---

func (b *Backend) SetFillColor(c backend.Color)   { b.fillColor = c }
func (b *Backend) SetStrokeColor(c backend.Color) { b.strokeColor = c }
func (b *Backend) SetLineWidth(w float64)         { b.lineWidth = w }
func (b *Backend) SetAlpha(a float64)             { b.state.alpha = geom.Clamp(a, 0, 1) }

func (b *Backend) SetBlendMode(m backend.BlendMode) {
	switch m {
	case backend.BlendDestinationIn:
		b.state.blend = blendDestinationIn
	case backend.BlendDestinationOut:
		b.state.blend = blendDestinationOut
	case backend.BlendMultiply:
		b.state.blend = blendMultiply
	default:
		b.state.blend = blendSourceOver
	}
}

// --- Drawing ---

func (b *Backend) Clear() {
	if b.lost {
		return
	}
	b.activeColor().clear()
	buf := b.activeStencil()
	for i := range buf {
		buf[i] = 0
	}
}

func (b *Backend) FillRect(x, y, w, h float64) {
	b.FillPath(rectPolygon(x, y, w, h))
}

func (b *Backend) StrokeRect(x, y, w, h float64) {
	if b.lost {
		return
	}
	hw := b.lineWidth / 2
	outer := rectPolygon(x-hw, y-hw, w+2*hw, h+2*hw)
	inner := rectPolygon(x+hw, y+hw, w-2*hw, h-2*hw)
	ring := append(append([]geom.Point{}, outer...), reversePts(inner)...)
	b.fillResolvedPathSpace(ring, b.strokeColor)
}

func rectPolygon(x, y, w, h float64) []geom.Point {
	return []geom.Point{geom.Pt(x, y), geom.Pt(x+w, y), geom.Pt(x+w, y+h), geom.Pt(x, y+h)}
}

func reversePts(pts []geom.Point) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// FillPath resolves non-zero winding through the stencil buffer: a
// centroid fan of triangles is rasterized with incr/decr-wrap ops the
// way a GPU stencil pass accumulates winding, then the covered region
// is resolved against the active clip level and composited with
// fillColor. This is the software-executed equivalent of the six
// shader programs' solid pipeline plus the stencil test/resolve state
// a real draw call would configure.
func (b *Backend) FillPath(vertices []geom.Point) {
	if b.lost || len(vertices) < 3 {
		return
	}
	b.pipelines.bind(b.pipelines.Solid())
	transformed := b.transformAll(vertices)
	if b.shadowSet {
		b.fillResolvedOffset(transformed, b.shadow.color, b.shadow.offsetX, b.shadow.offsetY)
	}
	b.fillResolved(transformed, b.fillColor)
}

// FillTriangles treats the vertex list as independent triangles (3 at
// a time) and increments winding for every triangle whatever its
// orientation, so overlapping triangles merge under non-zero winding
// instead of cancelling.
func (b *Backend) FillTriangles(vertices []geom.Point) {
	if b.lost || len(vertices) < 3 {
		return
	}
	b.pipelines.bind(b.pipelines.Solid())
	transformed := b.transformAll(vertices)
	minX, minY, maxX, maxY := boundsOf(transformed)
	for _, tri := range chunk3(transformed) {
		rasterizeTriangleStencil(b.activeStencil(), b.activeColor().width, b.activeColor().height, tri, true)
	}
	b.resolveAndComposite(minX, minY, maxX, maxY, b.fillColor, b.state.blend)
}

func chunk3(v []geom.Point) [][3]geom.Point {
	out := make([][3]geom.Point, 0, len(v)/3)
	for i := 0; i+2 < len(v); i += 3 {
		out = append(out, [3]geom.Point{v[i], v[i+1], v[i+2]})
	}
	return out
}

// fillResolved fans vertices around their centroid into triangles,
// accumulates winding, resolves, composites c, then clears the
// winding bits it just wrote (keeping clip bits intact) so the next
// fill starts from a clean stencil the way a real pass would glClear
// (STENCIL) or re-test with a fresh reference value.
func (b *Backend) fillResolved(vertices []geom.Point, c backend.Color) {
	minX, minY, maxX, maxY := boundsOf(vertices)
	stencilFan(b.activeStencil(), b.activeColor().width, b.activeColor().height, vertices)
	b.resolveAndComposite(minX, minY, maxX, maxY, c, b.state.blend)
}

// fillResolvedPathSpace transforms vertices through the current
// transform before resolving, for callers (StrokeRect, disc/line
// helpers) that build their geometry in path space rather than
// pre-transforming it themselves.
func (b *Backend) fillResolvedPathSpace(vertices []geom.Point, c backend.Color) {
	b.fillResolved(b.transformAll(vertices), c)
}

// fillResolvedOffset is fillResolved shifted by (ox,oy), used for the
// drop-shadow underlay so the shadow stencil pass doesn't disturb the
// fill's own resolve region.
func (b *Backend) fillResolvedOffset(vertices []geom.Point, c backend.Color, ox, oy float64) {
	shifted := make([]geom.Point, len(vertices))
	for i, p := range vertices {
		shifted[i] = geom.Pt(p.X+ox, p.Y+oy)
	}
	b.fillResolved(shifted, c)
}

func boundsOf(pts []geom.Point) (minX, minY, maxX, maxY int) {
	fx0, fy0 := pts[0].X, pts[0].Y
	fx1, fy1 := fx0, fy0
	for _, p := range pts[1:] {
		if p.X < fx0 {
			fx0 = p.X
		}
		if p.X > fx1 {
			fx1 = p.X
		}
		if p.Y < fy0 {
			fy0 = p.Y
		}
		if p.Y > fy1 {
			fy1 = p.Y
		}
	}
	return int(fx0) - 1, int(fy0) - 1, int(fx1) + 1, int(fy1) + 1
}

// stencilFan rasterizes vertices as a centroid-fan of triangles,
// incrementing/decrementing each covered pixel's wrapped winding
// counter per triangle, matching spec §4.14's "bits 0-4 winding
// counter" stencil protocol.
func stencilFan(buf []uint8, w, h int, vertices []geom.Point) {
	centroid := geom.Pt(0, 0)
	for _, p := range vertices {
		centroid.X += p.X
		centroid.Y += p.Y
	}
	n := float64(len(vertices))
	centroid.X /= n
	centroid.Y /= n

	tris := make([][3]geom.Point, 0, len(vertices))
	for i := range vertices {
		j := (i + 1) % len(vertices)
		tris = append(tris, [3]geom.Point{centroid, vertices[i], vertices[j]})
	}
	stencilTriangles(buf, w, h, tris)
}

func stencilTriangles(buf []uint8, w, h int, tris [][3]geom.Point) {
	for _, tri := range tris {
		incr := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])) >= 0
		rasterizeTriangleStencil(buf, w, h, tri, incr)
	}
}

// rasterizeTriangleStencil applies IncrWrap (or DecrWrap) to every
// pixel whose centre lies inside tri, via a barycentric test.
func rasterizeTriangleStencil(buf []uint8, w, h int, tri [3]geom.Point, incr bool) {
	minX, minY, maxX, maxY := boundsOf(tri[:])
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > w {
		maxX = w
	}
	if maxY > h {
		maxY = h
	}
	a, bb, c := tri[0], tri[1], tri[2]
	denom := bb.Sub(a).Cross(c.Sub(a))
	if denom == 0 {
		return
	}
	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			p := geom.Pt(float64(x)+0.5, float64(y)+0.5)
			w1 := bb.Sub(a).Cross(p.Sub(a)) / denom
			w2 := p.Sub(a).Cross(c.Sub(a)) / denom
			w0 := 1 - w1 - w2
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			idx := y*w + x
			if incr {
				buf[idx] = stencil.IncrWrap(buf[idx])
			} else {
				buf[idx] = stencil.DecrWrap(buf[idx])
			}
		}
	}
}

// resolveAndComposite reads the stencil buffer over the given bbox,
// composites c wherever Inside() holds for the active clip level, and
// clears just the winding bits it resolved.
func (b *Backend) resolveAndComposite(minX, minY, maxX, maxY int, c backend.Color, mode blendMode) {
	col := b.activeColor()
	buf := b.activeStencil()
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > col.width {
		maxX = col.width
	}
	if maxY > col.height {
		maxY = col.height
	}
	pr, pg, pb, pa := premultiply(c)
	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			idx := y*col.width + x
			v := buf[idx]
			if stencil.Inside(v, b.state.requiredLevel) {
				col.blendPx(x, y, pr*float32(b.state.alpha), pg*float32(b.state.alpha), pb*float32(b.state.alpha), pa*float32(b.state.alpha), mode)
			}
			buf[idx] = stencil.SetClipLevel(0, int(stencil.ClipLevel(v)))
		}
	}
}

func premultiply(c backend.Color) (r, g, bch, a float32) {
	fr, fg, fb, fa := c.Premultiply()
	return float32(fr), float32(fg), float32(fb), float32(fa)
}

func (b *Backend) transformAll(pts []geom.Point) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = b.state.transform.TransformPoint(p)
	}
	return out
}

// --- Clipping ---

func (b *Backend) ClipRect(x, y, w, h float64) {
	b.ClipPath(rectPolygon(x, y, w, h))
}

func (b *Backend) ClipPath(vertices []geom.Point) {
	if b.lost || len(vertices) < 3 {
		return
	}
	if b.state.clipDepth >= maxClipDepth {
		logx.Logger().Warn("gpu backend: clip depth exceeded, ignoring nested clip", "max", maxClipDepth)
		return
	}
	transformed := b.transformAll(vertices)
	newLevel := b.state.clipDepth + 1
	minX, minY, maxX, maxY := boundsOf(transformed)
	markClipLevel(b.activeStencil(), b.activeColor().width, b.activeColor().height, transformed, minX, minY, maxX, maxY, newLevel)
	b.state.clipDepth = newLevel
	b.state.requiredLevel = newLevel
}

// markClipLevel writes newLevel into the clip-level bits of every
// pixel inside the polygon (via a winding-number point test), leaving
// pixels outside at their previous level so stencil.Inside's >=
// comparison intersects nested clips automatically.
func markClipLevel(buf []uint8, w, h int, vertices []geom.Point, minX, minY, maxX, maxY, level int) {
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > w {
		maxX = w
	}
	if maxY > h {
		maxY = h
	}
	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			p := geom.Pt(float64(x)+0.5, float64(y)+0.5)
			if !pointInPolygon(p, vertices) {
				continue
			}
			idx := y*w + x
			if int(stencil.ClipLevel(buf[idx])) < level-1 {
				continue
			}
			buf[idx] = stencil.SetClipLevel(buf[idx], level)
		}
	}
}

func pointInPolygon(p geom.Point, vertices []geom.Point) bool {
	winding := 0
	for i := range vertices {
		j := (i + 1) % len(vertices)
		a, c := vertices[i], vertices[j]
		if a.Y <= p.Y {
			if c.Y > p.Y && isLeft(a, c, p) > 0 {
				winding++
			}
		} else {
			if c.Y <= p.Y && isLeft(a, c, p) < 0 {
				winding--
			}
		}
	}
	return winding != 0
}

func isLeft(a, b, p geom.Point) float64 {
	return b.Sub(a).Cross(p.Sub(a))
}

// --- Masking (non-nesting, does not touch clip state) ---

func (b *Backend) MaskToPath(vertices []geom.Point) {
	b.maskTo(vertices)
}

func (b *Backend) MaskToTriangles(vertices []geom.Point) {
	if b.lost || len(vertices) < 3 {
		return
	}
	tris := chunk3(b.transformAll(vertices))
	col := b.activeColor()
	for y := 0; y < col.height; y++ {
		for x := 0; x < col.width; x++ {
			pt := geom.Pt(float64(x)+0.5, float64(y)+0.5)
			covered := false
			for t := 0; t < len(tris) && !covered; t++ {
				covered = pointInPolygon(pt, tris[t][:])
			}
			if !covered {
				i := (y*col.width + x) * 4
				col.pix[i], col.pix[i+1], col.pix[i+2], col.pix[i+3] = 0, 0, 0, 0
			}
		}
	}
}

// maskTo zeroes the active colour buffer's alpha wherever the
// polygon does not cover, per-pixel, matching the raster backend's
// MaskToPath semantics but over premultiplied channels.
func (b *Backend) maskTo(vertices []geom.Point) {
	if b.lost || len(vertices) < 3 {
		return
	}
	transformed := b.transformAll(vertices)
	col := b.activeColor()
	for y := 0; y < col.height; y++ {
		for x := 0; x < col.width; x++ {
			pt := geom.Pt(float64(x)+0.5, float64(y)+0.5)
			if pointInPolygon(pt, transformed) {
				continue
			}
			i := (y*col.width + x) * 4
			col.pix[i], col.pix[i+1], col.pix[i+2], col.pix[i+3] = 0, 0, 0, 0
		}
	}
}
