package dispatch

import (
	"math"

	"github.com/inkcore/strokes/internal/codec"
	"github.com/inkcore/strokes/internal/geom"
	"github.com/inkcore/strokes/internal/outline"
	"github.com/inkcore/strokes/internal/penconfig"
	"github.com/inkcore/strokes/internal/penengine"
)

// decodedPoints decodes and quantizes a stroke's stored samples. The
// result is not cached: the outline pass, the ink-pool pass and the
// stamp passes each call it, so a stroke that goes through more than
// one of them is decoded more than once.
func decodedPoints(stroke Stroke) []codec.Point {
	return codec.Quantize(codec.Decode(stroke.Pts))
}

// scaledConfig applies a stroke's style on top of its pen-type
// defaults: width_wu drives the base width directly, a positive
// pressure_curve, smoothing or tilt_sensitivity and an ink preset on the
// style replace the pen config's values (the pressure-width range stays
// the pen type's quirk), and an explicit nib angle/thickness on the
// style overrides the pen config's resting values (penconfig's own doc
// comment on NibAngle: "overridable by style").
func scaledConfig(cfg penconfig.Config, style PenStyle) penconfig.Config {
	out := cfg
	if style.WidthWU > 0 {
		out.BaseWidth = style.WidthWU
	}
	if style.PressureCurve > 0 {
		out.PressureCurve = style.PressureCurve
	}
	if style.Smoothing > 0 {
		out.Smoothing = style.Smoothing
	}
	if style.TiltSensitivity > 0 {
		out.TiltSensitivity = style.TiltSensitivity
	}
	if style.NibAngleRad != nil {
		out.NibAngle = style.NibAngleRad
	}
	if style.NibThickness > 0 {
		out.NibThickness = style.NibThickness
	}
	if style.InkPreset != nil {
		out.InkPreset = style.InkPreset
	}
	return out
}

// tangentAngles returns the stroke-direction angle (radians) at each
// point via a central difference, falling back to the one adjacent
// segment at the endpoints.
func tangentAngles(points []codec.Point) []float64 {
	n := len(points)
	angles := make([]float64, n)
	if n == 0 {
		return angles
	}
	if n == 1 {
		return angles
	}
	for i := 0; i < n; i++ {
		lo, hi := i-1, i+1
		if lo < 0 {
			lo = i
		}
		if hi >= n {
			hi = i
		}
		dx := points[hi].X - points[lo].X
		dy := points[hi].Y - points[lo].Y
		if dx == 0 && dy == 0 {
			if i > 0 {
				angles[i] = angles[i-1]
			}
			continue
		}
		angles[i] = math.Atan2(dy, dx)
	}
	return angles
}

// attributesFor runs the pen engine over every point, returning
// parallel width/opacity slices plus the per-point pressures the
// outline and stamp computers also need.
func attributesFor(points []codec.Point, cfg penconfig.Config, angles []float64) (widths, opacities, pressures []float64) {
	n := len(points)
	widths = make([]float64, n)
	opacities = make([]float64, n)
	pressures = make([]float64, n)
	var prev *codec.Point
	for i := range points {
		attrs := penengine.Compute(points[i], cfg, prev, angles[i])
		widths[i] = attrs.Width
		opacities[i] = attrs.Opacity
		pressures[i] = points[i].Pressure
		p := points[i]
		prev = &p
	}
	return widths, opacities, pressures
}

// outlineSamples packs a LOD-reduced centerline, looking up each
// reduced point's half-width/angle from the full-resolution idx
// mapping matchIndices produced, into the Sample slice outline.Generate
// consumes.
func outlineSamples(centerline []geom.Point, idx []int, widths, angles []float64) []outline.Sample {
	out := make([]outline.Sample, len(idx))
	for i, orig := range idx {
		out[i] = outline.Sample{
			Point:     centerline[orig],
			HalfWidth: widths[orig] / 2,
			Angle:     angles[orig],
		}
	}
	return out
}

// italicTriangles flattens two parallel nib sides into a per-segment
// triangle strip (two triangles per quad), the form FillTriangles and
// MaskToTriangles both expect.
func italicTriangles(left, right []geom.Point) []geom.Point {
	n := len(left)
	if n != len(right) || n < 2 {
		return nil
	}
	tris := make([]geom.Point, 0, (n-1)*6)
	for i := 0; i < n-1; i++ {
		a0, a1 := left[i], left[i+1]
		b0, b1 := right[i], right[i+1]
		tris = append(tris, a0, b0, a1)
		tris = append(tris, a1, b0, b1)
	}
	return tris
}

// expandBBox grows a centerline bbox by margin on every side.
func expandBBox(bbox [4]float64, margin float64) [4]float64 {
	return [4]float64{bbox[0] - margin, bbox[1] - margin, bbox[2] + margin, bbox[3] + margin}
}

// matchIndices maps a reduced point slice (an in-order subsequence of
// original, as lod.Simplify always produces) back to indices into
// original, so per-point attributes computed at full resolution can be
// looked up for the simplified outline without recomputing the pen
// engine over a different sample set.
func matchIndices(original, reduced []geom.Point) []int {
	out := make([]int, 0, len(reduced))
	j := 0
	for i := 0; i < len(original) && j < len(reduced); i++ {
		if original[i] == reduced[j] {
			out = append(out, i)
			j++
		}
	}
	return out
}

// bboxOf computes the axis-aligned bbox of a point slice, in the
// points' own coordinate space.
func bboxOf(points []geom.Point) [4]float64 {
	if len(points) == 0 {
		return [4]float64{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return [4]float64{minX, minY, maxX, maxY}
}
