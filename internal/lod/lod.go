// Package lod implements the LOD Simplifier (C2): selecting a zoom band
// and reducing point count per band with iterative Ramer-Douglas-Peucker
// simplification.
package lod

import "github.com/inkcore/strokes/internal/geom"

// Level is a discrete level-of-detail band.
type Level int

const (
	Level0 Level = iota // original points
	Level1              // RDP epsilon 2.0
	Level2              // RDP epsilon 5.0
	Level3              // endpoints only
)

// zoom thresholds, highest zoom (most detail) first.
const (
	threshold1 = 0.5
	threshold2 = 0.25
	threshold3 = 0.10
)

const (
	epsilon1 = 2.0
	epsilon2 = 5.0
)

// SelectLevel maps a zoom factor to a simplification level.
func SelectLevel(zoom float64) Level {
	switch {
	case zoom >= threshold1:
		return Level0
	case zoom >= threshold2:
		return Level1
	case zoom >= threshold3:
		return Level2
	default:
		return Level3
	}
}

// Simplify reduces points according to the given level. Level0 returns
// the input unchanged; Level1/2 run RDP at epsilon 2.0/5.0 world units;
// Level3 returns only the first and last point.
func Simplify(points []geom.Point, level Level) []geom.Point {
	switch level {
	case Level0:
		return points
	case Level1:
		return rdp(points, epsilon1)
	case Level2:
		return rdp(points, epsilon2)
	case Level3:
		if len(points) == 0 {
			return points
		}
		if len(points) == 1 {
			return []geom.Point{points[0]}
		}
		return []geom.Point{points[0], points[len(points)-1]}
	default:
		return points
	}
}

// CacheKey returns the path-cache key for a (strokeID, level) pair, per
// spec §4.2: strokeID alone at level 0, "<id>-lod<n>" otherwise.
func CacheKey(strokeID string, level Level) string {
	if level == Level0 {
		return strokeID
	}
	switch level {
	case Level1:
		return strokeID + "-lod1"
	case Level2:
		return strokeID + "-lod2"
	case Level3:
		return strokeID + "-lod3"
	default:
		return strokeID
	}
}

// rdp runs iterative Ramer-Douglas-Peucker simplification using an
// explicit stack of (lo,hi) index ranges rather than recursion, and a
// keep-bitmap marking retained indices. Both endpoints are always kept.
func rdp(points []geom.Point, eps float64) []geom.Point {
	n := len(points)
	if n < 3 {
		return points
	}

	keep := make([]bool, n)
	keep[0] = true
	keep[n-1] = true

	type span struct{ lo, hi int }
	stack := []span{{0, n - 1}}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		lo, hi := s.lo, s.hi
		if hi-lo < 2 {
			continue
		}

		maxDist := -1.0
		maxIdx := -1
		a, b := points[lo], points[hi]
		for i := lo + 1; i < hi; i++ {
			d := perpendicularDistance(points[i], a, b)
			if d > maxDist {
				maxDist = d
				maxIdx = i
			}
		}

		if maxDist > eps {
			keep[maxIdx] = true
			stack = append(stack, span{lo, maxIdx}, span{maxIdx, hi})
		}
	}

	out := make([]geom.Point, 0, n)
	for i, k := range keep {
		if k {
			out = append(out, points[i])
		}
	}
	return out
}

// perpendicularDistance returns the distance from p to the infinite line
// through a-b (or to a itself when a==b).
func perpendicularDistance(p, a, b geom.Point) float64 {
	ab := b.Sub(a)
	length := ab.Length()
	if length < 1e-12 {
		return p.Distance(a)
	}
	ap := p.Sub(a)
	// |ap x ab| / |ab|
	cross := ap.X*ab.Y - ap.Y*ab.X
	if cross < 0 {
		cross = -cross
	}
	return cross / length
}
