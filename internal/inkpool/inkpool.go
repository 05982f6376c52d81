// Package inkpool detects ink-pooling sites along a fountain stroke
// (C10): the pen-down and pen-up dwell always pool, and interior
// samples where the pen lingers and turns sharply pool too. The
// detector only proposes placements; it does not render them.
package inkpool

import (
	"math"

	"github.com/inkcore/strokes/internal/geom"
)

// Pool is one circular ink deposit: its centre, its radius, and the
// opacity it is painted at.
type Pool struct {
	Center  geom.Point
	Radius  float64
	Opacity float64
}

const (
	velocityThreshold  = 0.3 // px/ms
	curvatureThreshold = 0.5 // rad
)

// Detect walks a fountain stroke's quantized samples and returns the
// ordered list of pools: a start pool, an end pool, and one pool per
// qualifying interior sample (spec §4.10).
func Detect(points []geom.Point, pressures []float64, timestampsMS []float64, width float64) []Pool {
	n := len(points)
	if n == 0 {
		return nil
	}
	if n == 1 {
		p := pressures[0]
		return []Pool{
			{Center: points[0], Radius: math.Max(0.5, 1.5*width*p), Opacity: 0.15 * p},
			{Center: points[0], Radius: math.Max(0.5, 1.5*width*p), Opacity: 0.15 * p},
		}
	}

	pools := make([]Pool, 0, n)

	startPressure := pressures[0]
	pools = append(pools, Pool{
		Center:  points[0],
		Radius:  math.Max(0.5, 1.5*width*startPressure),
		Opacity: 0.15 * startPressure,
	})

	for i := 1; i < n-1; i++ {
		v := velocityAt(points, timestampsMS, i)
		if v > velocityThreshold {
			continue
		}
		curv := curvatureAt(points, i)
		if curv < curvatureThreshold {
			continue
		}
		dwell := 1 - v/velocityThreshold
		p := pressures[i]
		pools = append(pools, Pool{
			Center:  points[i],
			Radius:  math.Max(0.5, 1.5*width*p*dwell),
			Opacity: 0.15 * p * dwell,
		})
	}

	endPressure := pressures[n-1]
	pools = append(pools, Pool{
		Center:  points[n-1],
		Radius:  math.Max(0.5, 1.5*width*endPressure),
		Opacity: 0.15 * endPressure,
	})

	return pools
}

// velocityAt estimates instantaneous speed (px/ms) at sample i using
// the surrounding segment.
func velocityAt(points []geom.Point, timestampsMS []float64, i int) float64 {
	dist := points[i-1].Distance(points[i+1])
	dt := timestampsMS[i+1] - timestampsMS[i-1]
	const eps = 1e-6
	if dt < eps {
		dt = eps
	}
	return dist / dt
}

// curvatureAt returns the turn angle (radians) at sample i between the
// incoming and outgoing segment directions.
func curvatureAt(points []geom.Point, i int) float64 {
	in := points[i].Sub(points[i-1])
	out := points[i+1].Sub(points[i])
	inN := in.Normalize()
	outN := out.Normalize()
	if inN.LengthSquared() < 1e-18 || outN.LengthSquared() < 1e-18 {
		return 0
	}
	dot := geom.Clamp(inN.Dot(outN), -1, 1)
	return math.Acos(dot)
}
