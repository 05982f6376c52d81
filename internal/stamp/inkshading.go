package stamp

import (
	"math"

	"github.com/inkcore/strokes/internal/geom"
	"github.com/inkcore/strokes/internal/penconfig"
)

// InkShadingAccumulator mirrors ScatterAccumulator for the ink-shading
// computer, so a growing fountain stroke resumes from where the last
// call left off.
type InkShadingAccumulator struct {
	LastPointIndex int
	Remainder      float64
	StampCount     uint32
}

// InkShadingParams configures C9 for one fountain stroke.
type InkShadingParams struct {
	StyleWidth        float64
	Preset            penconfig.InkPreset
	StampSizeFraction float64 // cfg.InkStamp.StampSizeFraction
}

// ComputeInkShading implements C9: nib-projected deposits with
// velocity-dependent deposit strength, position jitter, and alpha
// dither. projectedNibWidths and timestampsMS are parallel to points;
// every stamp participates in deposit buildup (no opacity threshold).
func ComputeInkShading(points []geom.Point, projectedNibWidths []float64, timestampsMS []float64, params InkShadingParams, acc *InkShadingAccumulator) []Particle {
	n := len(points)
	if n < 2 || acc.LastPointIndex >= n-1 {
		return nil
	}

	minFloor := 0.5 * params.StyleWidth * params.StampSizeFraction

	var out []Particle
	for segIdx := acc.LastPointIndex; segIdx < n-1; segIdx++ {
		a, b := points[segIdx], points[segIdx+1]
		segLen := a.Distance(b)
		dt := timestampsMS[segIdx+1] - timestampsMS[segIdx]
		const eps = 1e-6
		if dt < eps {
			dt = eps
		}
		v := segLen / dt
		speedFactor := math.Min(1, v/1.5)

		nibWidth := (projectedNibWidths[segIdx] + projectedNibWidths[segIdx+1]) / 2
		size := math.Max(minFloor, nibWidth*params.StampSizeFraction)
		step := math.Max(size*0.05, params.StampSizeFraction*size)
		if step < 1e-6 {
			step = 1e-6
		}

		deposit := math.Max(0.01, params.Preset.BaseOpacity-speedFactor*0.17*params.Preset.Shading)

		dist := acc.Remainder
		for dist < segLen {
			t := dist / segLen
			center := a.Lerp(b, t)

			idx := acc.StampCount
			acc.StampCount++

			jitterX := hashJitter(idx, 1) * params.Preset.Feathering * size
			jitterY := hashJitter(idx, 2) * params.Preset.Feathering * size
			ditherFactor := 1 + hashJitter(idx, 3)*0.10

			px := center.X + jitterX
			py := center.Y + jitterY
			opacity := deposit * ditherFactor

			out = append(out, Particle{X: px, Y: py, Size: size, Opacity: opacity})

			dist += step
		}
		acc.Remainder = dist - segLen
	}
	acc.LastPointIndex = n - 1
	return out
}
