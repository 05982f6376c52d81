package stamp

import (
	"math"

	"github.com/inkcore/strokes/internal/geom"
)

// ScatterAccumulator carries incremental state across live sample
// arrivals so a growing stroke's earlier stamps never get recomputed.
type ScatterAccumulator struct {
	LastPointIndex int
	Remainder      float64
	StampCount     uint32
}

// ScatterParams configures the scatter stamp computer for one pencil
// stroke.
type ScatterParams struct {
	Spacing    float64 // cfg.Stamp.Spacing
	GrainValue float64 // style.grain, in [0,1]
}

// ComputeScatter implements C8: walks the stroke's segments starting
// from acc.LastPointIndex, stepping by spacing*particleSize, and at
// each step emits a center-biased ring of particles inside the local
// stroke disk. points/halfWidths/pressures must be parallel slices
// already in stroke order (quantized samples, per spec §4.1). acc is
// mutated in place so a later call with more points resumes instead of
// restarting.
func ComputeScatter(points []geom.Point, halfWidths []float64, pressures []float64, params ScatterParams, acc *ScatterAccumulator) []Particle {
	n := len(points)
	if n < 2 || acc.LastPointIndex >= n-1 {
		return nil
	}

	var out []Particle
	for segIdx := acc.LastPointIndex; segIdx < n-1; segIdx++ {
		a, b := points[segIdx], points[segIdx+1]
		segLen := a.Distance(b)
		if segLen < 1e-9 {
			acc.Remainder = 0
			continue
		}
		diameter := halfWidths[segIdx] + halfWidths[segIdx+1] // avg half-width * 2
		size := math.Max(0.6, diameter*0.08)
		step := params.Spacing * size
		if step < 1e-6 {
			step = 1e-6
		}

		radius := diameter / 2
		particleCount := int(math.Max(1, math.Round(1.5*diameter/size)))

		dist := acc.Remainder
		for dist < segLen {
			t := dist / segLen
			center := a.Lerp(b, t)
			pressure := lerp(pressures[segIdx], pressures[segIdx+1], t)
			localHalfWidth := lerp(halfWidths[segIdx], halfWidths[segIdx+1], t)
			localDiameter := localHalfWidth * 2
			localRadius := localDiameter / 2
			if localRadius <= 0 {
				localRadius = radius
			}

			for j := 0; j < particleCount; j++ {
				idx := acc.StampCount
				acc.StampCount++
				h1 := weylHash(idx, weylPrime1)
				h2 := weylHash(idx, weylPrime2)

				r := localRadius * math.Pow(h1, 0.8)
				theta := 2 * math.Pi * h2
				px := center.X + r*math.Cos(theta)
				py := center.Y + r*math.Sin(theta)

				edgeFalloff := 1 - (r/localRadius)*(r/localRadius)
				alpha := grainNoise(px, py, params.GrainValue, localDiameter) * pressureOpacity(pressure) * edgeFalloff
				if alpha < 0.05 {
					continue
				}
				out = append(out, Particle{X: px, Y: py, Size: size, Opacity: alpha})
			}

			dist += step
		}
		acc.Remainder = dist - segLen
	}
	acc.LastPointIndex = n - 1
	return out
}
