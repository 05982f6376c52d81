// Package outline generates fillable stroke outlines from a sequence of
// per-sample half-widths and centerline points: the Round Outline
// Generator (C5, envelope inflation) and the Italic Outline Generator
// (C6, projected-ellipse nib), dispatched through the Outline Strategy
// Registry (C7).
//
// Both generators share the same control flow — direction smoothing,
// width EMA, tapering — adapted from the forward/backward offset-path
// construction of a fixed-width stroker to a per-sample variable
// half-width envelope.
package outline

import (
	"math"

	"github.com/inkcore/strokes/internal/geom"
)

// Result is the tagged OutlineResult variant from spec §3: either a
// closed round polygon, or the two italic sides kept separate so the
// dispatcher can feed a closed polygon to fillPath or a per-segment
// triangle strip to fillTriangles.
type Result struct {
	Italic bool
	// Polygon holds the closed round outline when !Italic.
	Polygon []geom.Point
	// LeftSide/RightSide hold the italic nib sides when Italic.
	// len(LeftSide) == len(RightSide).
	LeftSide  []geom.Point
	RightSide []geom.Point
}

// Sample is one centerline point with its pen-engine-computed half-width
// and the local stroke direction (radians) at that point.
type Sample struct {
	Point     geom.Point
	HalfWidth float64
	Angle     float64
}

// smoothDirections applies a symmetric low-pass filter of radius k over
// the per-sample tangent vectors (not angles, to avoid wraparound
// artifacts), then re-derives the smoothed angle.
func smoothDirections(samples []Sample, k int) []float64 {
	n := len(samples)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	dirs := make([]geom.Vec2, n)
	for i, s := range samples {
		dirs[i] = geom.V2(math.Cos(s.Angle), math.Sin(s.Angle))
	}
	for i := 0; i < n; i++ {
		var acc geom.Vec2
		count := 0
		for j := i - k; j <= i+k; j++ {
			if j < 0 || j >= n {
				continue
			}
			acc = acc.Add(dirs[j])
			count++
		}
		if count == 0 || acc.LengthSquared() < 1e-18 {
			out[i] = samples[i].Angle
			continue
		}
		out[i] = acc.Normalize().Angle()
	}
	return out
}

// emaSmooth applies an exponential moving average with the given
// smoothing factor (0 = no smoothing, closer to 1 = heavier smoothing)
// over a sequence of scalar values, forward pass only (as the original
// live-preview renderer processes samples in arrival order).
func emaSmooth(values []float64, factor float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = factor*out[i-1] + (1-factor)*values[i]
	}
	return out
}

// taper multiplies half-widths by a linear ramp toward zero over the
// first taperStart and last taperEnd world units of arc length.
func taper(samples []Sample, halfWidths []float64, taperStart, taperEnd float64) {
	n := len(samples)
	if n == 0 {
		return
	}
	// cumulative arc length from the start
	cum := make([]float64, n)
	for i := 1; i < n; i++ {
		cum[i] = cum[i-1] + samples[i].Point.Distance(samples[i-1].Point)
	}
	total := cum[n-1]
	for i := 0; i < n; i++ {
		if taperStart > 0 && cum[i] < taperStart {
			halfWidths[i] *= cum[i] / taperStart
		}
		distFromEnd := total - cum[i]
		if taperEnd > 0 && distFromEnd < taperEnd {
			halfWidths[i] *= distFromEnd / taperEnd
		}
	}
}
