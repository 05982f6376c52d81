package dispatch

import (
	"math"

	"github.com/inkcore/strokes/backend"
	"github.com/inkcore/strokes/internal/geom"
	"github.com/inkcore/strokes/internal/inkpool"
	"github.com/inkcore/strokes/internal/lod"
	"github.com/inkcore/strokes/internal/outline"
	"github.com/inkcore/strokes/internal/pathcache"
	"github.com/inkcore/strokes/internal/penconfig"
	"github.com/inkcore/strokes/internal/stamp"
)

// shadingFloor is the preset.shading threshold below which the
// ink-shaded fountain branch degrades to a plain fill (spec §4.15
// step 2's "if preset.shading <= 0, fall back to a plain fill").
const shadingFloor = 0

// offscreenMargin is the padding, in world units (the outline's own
// coordinate space, not device pixels), that the grain isolation pass
// expands a stroke's bbox by before sizing its offscreen region.
const offscreenMargin = 2

// ColorResolver adjusts a resolved style colour for the page's current
// dark/light mode (e.g. inverting near-black ink to near-white). It is
// the dispatcher's hook into the colour/background resolver
// collaborators external to this module.
type ColorResolver interface {
	Resolve(c backend.Color, darkMode bool) backend.Color
}

// Dispatcher renders strokes against any backend.Backend without ever
// inspecting its concrete type, resolving each stroke's style and
// routing it through the pipeline its pen config calls for (spec
// §4.15).
type Dispatcher struct {
	Registry *penconfig.Registry
	Styles   StyleResolver
	Colors   ColorResolver // optional
	Mode     Mode          // optional; ModeAuto (zero value) is full fidelity
}

// New builds a Dispatcher over a pen config registry and style
// resolver. Styles may be nil, in which case every stroke renders with
// DefaultStyle.
func New(registry *penconfig.Registry, styles StyleResolver) *Dispatcher {
	if registry == nil {
		registry = penconfig.NewRegistry()
	}
	return &Dispatcher{Registry: registry, Styles: styles}
}

// Render decides and drives one stroke's rendering pipeline against b.
// cache is the shared stroke path cache (C11); grainCtx/stampCtx supply
// the textures the grain and stamp pipelines composite, and may be nil
// when a stroke's pen config never reaches for them.
func (d *Dispatcher) Render(b backend.Backend, stroke Stroke, level lod.Level, darkMode bool, cache *pathcache.Cache, grainCtx *GrainContext, stampCtx *StampContext) {
	style := d.resolveStyle(stroke)
	if d.Colors != nil {
		style.Color = d.Colors.Resolve(style.Color, darkMode)
	}
	cfg := d.Registry.Get(style.Pen)
	scfg := scaledConfig(cfg, style)
	pipe := effectivePipeline(d.Mode, pipelineFor(cfg))

	switch {
	case pipe == pipelineStamps && cfg.InkStamp != nil && level == lod.Level0:
		d.renderInkShadedFountain(b, stroke, style, scfg, cache, stampCtx)
	case pipe == pipelineStamps && cfg.Stamp != nil && level == lod.Level0:
		d.renderPencilStamp(b, stroke, style, scfg, stampCtx)
	default:
		d.renderVertexPath(b, stroke, style, cfg, scfg, level, cache, grainCtx)
	}
}

func (d *Dispatcher) resolveStyle(stroke Stroke) PenStyle {
	style := DefaultStyle()
	if d.Styles != nil {
		if s, ok := d.Styles.Resolve(stroke.StyleRef); ok {
			style = s
		}
	}
	applyOverrides(&style, stroke.StyleOverrides)
	return style
}

// outlineStrategy resolves which generator a config+style pair uses,
// honouring the italic fallback-to-standard rule (outline.Resolve).
func outlineStrategy(cfg penconfig.Config) outline.StrategyID {
	requested := outline.Standard
	if cfg.OutlineStrategy == string(outline.Italic) {
		requested = outline.Italic
	}
	return outline.Resolve(requested, cfg.NibAngle != nil, cfg.NibThickness > 0)
}

// resolveOutline returns the closed polygon or italic sides for a
// stroke at the given LOD, writing through cache on a miss (spec
// §4.15 step 4's "obtain ... from the strategy via cache"). It also
// returns the full-resolution centerline (the x,y of every decoded
// point), which the ink-pool and ink-shading passes reuse.
func (d *Dispatcher) resolveOutline(stroke Stroke, cfg penconfig.Config, level lod.Level, cache *pathcache.Cache) (outline.Result, []geom.Point) {
	pts := decodedPoints(stroke)
	centerline := make([]geom.Point, len(pts))
	for i, p := range pts {
		centerline[i] = geom.Pt(p.X, p.Y)
	}

	key := pathcache.Key{StrokeID: stroke.ID, LOD: int(level)}
	if polygon, left, right, italic, ok := cache.Get(key); ok {
		if italic {
			return outline.Result{Italic: true, LeftSide: left, RightSide: right}, centerline
		}
		return outline.Result{Polygon: polygon}, centerline
	}

	strategy := outlineStrategy(cfg)
	angles := tangentAngles(pts)
	widths, _, pressures := attributesFor(pts, cfg, angles)

	reduced := lod.Simplify(centerline, level)
	idx := matchIndices(centerline, reduced)
	samples := outlineSamples(centerline, idx, widths, angles)
	redPressures := make([]float64, len(idx))
	for i, orig := range idx {
		redPressures[i] = pressures[orig]
	}

	var nibAngle float64
	if cfg.NibAngle != nil {
		nibAngle = *cfg.NibAngle
	}
	result := outline.Generate(strategy, samples, redPressures,
		outline.RoundParams{Smoothing: cfg.Smoothing, TaperStart: cfg.TaperStart, TaperEnd: cfg.TaperEnd},
		outline.ItalicParams{
			NibAngle:     nibAngle,
			NibWidth:     cfg.BaseWidth,
			NibThickness: cfg.NibThickness,
			Smoothing:    cfg.Smoothing,
			TaperStart:   cfg.TaperStart,
			TaperEnd:     cfg.TaperEnd,
		})

	if result.Italic {
		cache.SetItalicSides(key, result.LeftSide, result.RightSide)
	} else {
		cache.SetOutline(key, result.Polygon)
	}
	return result, centerline
}

// fillOutline submits an outline.Result through the right C12
// primitive: a closed polygon goes through FillPath, italic sides
// through FillTriangles as a per-segment strip (spec §4.6's note that
// self-intersecting italic strokes need the triangle form).
func fillOutline(b backend.Backend, r outline.Result) {
	if r.Italic {
		b.FillTriangles(italicTriangles(r.LeftSide, r.RightSide))
		return
	}
	b.FillPath(r.Polygon)
}

func maskOutline(b backend.Backend, r outline.Result) {
	if r.Italic {
		b.MaskToTriangles(italicTriangles(r.LeftSide, r.RightSide))
		return
	}
	b.MaskToPath(r.Polygon)
}

// renderVertexPath implements spec §4.15 step 4: the outline-fill
// branch, with its grain-isolation and highlighter sub-branches, plus
// the fountain-round ink-pool overlay at lod 0.
func (d *Dispatcher) renderVertexPath(b backend.Backend, stroke Stroke, style PenStyle, cfg, scfg penconfig.Config, level lod.Level, cache *pathcache.Cache, grainCtx *GrainContext) {
	result, centerline := d.resolveOutline(stroke, scfg, level, cache)

	switch {
	case d.Mode != ModeBasic && level == lod.Level0 && cfg.Grain != nil && cfg.Grain.Enabled:
		base := cfg.Grain.Strength
		strength := grainToTextureStrength(base, style.Grain)
		if strength > 0 && grainCtx != nil && grainCtx.Texture != nil {
			d.renderGrainIsolated(b, result, style, strength, grainCtx)
		} else {
			plainFill(b, result, style)
		}
	case cfg.HighlighterMode:
		b.Save()
		b.SetAlpha(cfg.BaseOpacity)
		b.SetBlendMode(backend.BlendMultiply)
		b.SetFillColor(style.Color)
		fillOutline(b, result)
		b.Restore()
	default:
		plainFill(b, result, style)
	}

	if d.Mode != ModeBasic && !result.Italic && cfg.InkPreset != nil && level == lod.Level0 {
		d.paintInkPools(b, stroke, centerline, style, scfg)
	}
}

func plainFill(b backend.Backend, result outline.Result, style PenStyle) {
	b.SetFillColor(style.Color)
	b.SetAlpha(style.Opacity)
	fillOutline(b, result)
	b.SetAlpha(1)
}

// renderGrainIsolated composites the stroke in isolation: fill solid
// into an offscreen region sized to the outline's world-space bbox
// expanded by offscreenMargin world units (the region is not measured
// in device pixels), clip to the outline, apply grain, then composite
// back (spec §4.15 step 4's grain sub-branch).
func (d *Dispatcher) renderGrainIsolated(b backend.Backend, result outline.Result, style PenStyle, strength float64, grainCtx *GrainContext) {
	bounds := outlineBounds(result)
	region := expandBBox(bounds, offscreenMargin)
	w := int(math.Ceil(region[2] - region[0]))
	h := int(math.Ceil(region[3] - region[1]))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	target := b.GetOffscreen("dispatch-grain", w, h)
	b.BeginOffscreen(target)
	b.Translate(-region[0], -region[1])
	b.SetFillColor(style.Color)
	b.SetAlpha(style.Opacity)
	fillOutline(b, result)
	clipOutline(b, result)
	b.ApplyGrain(grainCtx.Texture, grainCtx.AnchorX-region[0], grainCtx.AnchorY-region[1], strength)
	b.EndOffscreen()

	b.DrawOffscreen(target, region[0], region[1], float64(w), float64(h))
}

// clipOutline narrows the active clip to an outline's extent. ClipPath
// only accepts a single closed ring, so an italic result's two sides
// are stitched into one polygon (left side forward, right side
// reversed) rather than submitted as a triangle strip.
func clipOutline(b backend.Backend, r outline.Result) {
	if !r.Italic {
		b.ClipPath(r.Polygon)
		return
	}
	ring := make([]geom.Point, 0, len(r.LeftSide)+len(r.RightSide))
	ring = append(ring, r.LeftSide...)
	for i := len(r.RightSide) - 1; i >= 0; i-- {
		ring = append(ring, r.RightSide[i])
	}
	b.ClipPath(ring)
}

func outlineBounds(r outline.Result) [4]float64 {
	if r.Italic {
		pts := make([]geom.Point, 0, len(r.LeftSide)+len(r.RightSide))
		pts = append(pts, r.LeftSide...)
		pts = append(pts, r.RightSide...)
		return bboxOf(pts)
	}
	return bboxOf(r.Polygon)
}

// paintInkPools runs the ink pool detector over a fountain stroke's
// round (non-italic) outline and paints each pool as a filled disc at
// the style opacity times the pool's own opacity (spec §4.10's deposit
// sites, §4.15's "paint its pools on top"). The disc is one flat
// colour out to the pool's radius; no radial falloff is drawn.
func (d *Dispatcher) paintInkPools(b backend.Backend, stroke Stroke, centerline []geom.Point, style PenStyle, cfg penconfig.Config) {
	pts := decodedPoints(stroke)
	if len(pts) == 0 {
		return
	}
	pressures := make([]float64, len(pts))
	timestamps := make([]float64, len(pts))
	for i, p := range pts {
		pressures[i] = p.Pressure
		timestamps[i] = p.TimestampMS
	}
	pools := inkpool.Detect(centerline, pressures, timestamps, cfg.BaseWidth)
	for _, p := range pools {
		b.SetAlpha(style.Opacity * p.Opacity)
		b.DrawCircles([]backend.DiscQuad{{CX: p.Center.X, CY: p.Center.Y, R: p.Radius}}, style.Color)
	}
	b.SetAlpha(1)
}

// renderPencilStamp implements spec §4.15 step 3: scatter stamps for
// the whole stroke, submitted as one batch, no outline generated.
func (d *Dispatcher) renderPencilStamp(b backend.Backend, stroke Stroke, style PenStyle, cfg penconfig.Config, stampCtx *StampContext) {
	if stampCtx == nil || stampCtx.ScatterTexture == nil || cfg.Stamp == nil {
		return
	}
	pts := decodedPoints(stroke)
	angles := tangentAngles(pts)
	widths, _, pressures := attributesFor(pts, cfg, angles)
	halfWidths := make([]float64, len(widths))
	for i, w := range widths {
		halfWidths[i] = w / 2
	}
	centerline := make([]geom.Point, len(pts))
	for i, p := range pts {
		centerline[i] = geom.Pt(p.X, p.Y)
	}

	acc := &stamp.ScatterAccumulator{}
	particles := stamp.ComputeScatter(centerline, halfWidths, pressures, stamp.ScatterParams{
		Spacing:    cfg.Stamp.Spacing,
		GrainValue: style.Grain,
	}, acc)

	quads := make([]backend.StampQuad, len(particles))
	for i, p := range particles {
		quads[i] = backend.StampQuad{X: p.X, Y: p.Y, Size: p.Size, Opacity: p.Opacity * style.Opacity}
	}
	b.DrawStamps(stampCtx.ScatterTexture, quads)
}

// renderInkShadedFountain implements spec §4.15 step 2.
func (d *Dispatcher) renderInkShadedFountain(b backend.Backend, stroke Stroke, style PenStyle, cfg penconfig.Config, cache *pathcache.Cache, stampCtx *StampContext) {
	result, centerline := d.resolveOutline(stroke, cfg, lod.Level0, cache)

	if cfg.InkPreset == nil || cfg.InkPreset.Shading <= shadingFloor {
		plainFill(b, result, style)
		return
	}
	if stampCtx == nil || stampCtx.InkTexture == nil || cfg.InkStamp == nil {
		plainFill(b, result, style)
		return
	}

	bounds := outlineBounds(result)
	region := expandBBox(bounds, 1.5*style.WidthWU)
	w := int(math.Ceil(region[2] - region[0]))
	h := int(math.Ceil(region[3] - region[1]))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	pts := decodedPoints(stroke)
	angles := tangentAngles(pts)
	widths, _, _ := attributesFor(pts, cfg, angles)
	timestamps := make([]float64, len(pts))
	for i, p := range pts {
		timestamps[i] = p.TimestampMS
	}

	acc := &stamp.InkShadingAccumulator{}
	particles := stamp.ComputeInkShading(centerline, widths, timestamps, stamp.InkShadingParams{
		StyleWidth:        style.WidthWU,
		Preset:            *cfg.InkPreset,
		StampSizeFraction: cfg.InkStamp.StampSizeFraction,
	}, acc)

	quads := make([]backend.StampQuad, len(particles))
	for i, p := range particles {
		quads[i] = backend.StampQuad{X: p.X - region[0], Y: p.Y - region[1], Size: p.Size, Opacity: p.Opacity * style.Opacity}
	}

	target := b.GetOffscreen("dispatch-ink-shaded", w, h)
	b.BeginOffscreen(target)
	b.DrawStamps(stampCtx.InkTexture, quads)
	shifted := shiftResult(result, -region[0], -region[1])
	maskOutline(b, shifted)
	b.EndOffscreen()

	b.DrawOffscreen(target, region[0], region[1], float64(w), float64(h))
}

func shiftResult(r outline.Result, dx, dy float64) outline.Result {
	if r.Italic {
		return outline.Result{Italic: true, LeftSide: shiftPts(r.LeftSide, dx, dy), RightSide: shiftPts(r.RightSide, dx, dy)}
	}
	return outline.Result{Polygon: shiftPts(r.Polygon, dx, dy)}
}

func shiftPts(pts []geom.Point, dx, dy float64) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = geom.Pt(p.X+dx, p.Y+dy)
	}
	return out
}
