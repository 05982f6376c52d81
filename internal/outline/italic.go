package outline

import (
	"math"

	"github.com/inkcore/strokes/internal/geom"
)

const italicSmoothingLowPassRadius = 2

// dejitterEpsilon is the RDP epsilon (world units) for the optional
// light de-jitter pass, applied only to baked strokes (spec §4.6) —
// live strokes skip it to avoid flicker as new samples arrive.
const dejitterEpsilon = 1.25e-3

// ItalicParams configures the projected-ellipse nib outline.
type ItalicParams struct {
	NibAngle     float64 // radians, the pen's resting nib angle
	NibWidth     float64 // W: the nib's long-axis half-extent driver (style base width)
	NibThickness float64 // nib_thickness fraction; NibHeight = NibWidth*NibThickness
	Smoothing    float64 // EMA factor for width smoothing
	TaperStart   float64
	TaperEnd     float64
	Baked        bool // apply the light de-jitter pass only when true
}

// GenerateItalic builds the projected-ellipse nib outline (C6): width
// projection, EMA smoothing, taper, width floor, corner repair (dip
// elimination, perpendicular sign consistency, Gaussian smoothing), and
// pinch expansion. Returns both sides separately per spec §4.6 so the
// dispatcher can choose fillPath (closed polygon) or fillTriangles
// (per-segment strip, needed for self-intersecting italic strokes).
func GenerateItalic(samples []Sample, pressures []float64, p ItalicParams) Result {
	n := len(samples)
	if n == 0 {
		return Result{Italic: true}
	}
	nibHeight := p.NibWidth * p.NibThickness
	floor := nibHeight * 0.5

	if n == 1 {
		side := discSide(samples[0].Point, math.Max(floor, nibHeight))
		return Result{Italic: true, LeftSide: side, RightSide: side}
	}

	if p.Baked {
		samples, pressures = dejitter(samples, pressures, dejitterEpsilon)
		n = len(samples)
	}

	angles := smoothDirections(samples, italicSmoothingLowPassRadius)

	rawWidths := make([]float64, n)
	for i := range samples {
		delta := angles[i] - p.NibAngle
		absSin := math.Abs(math.Sin(delta))
		raw := p.NibWidth*absSin + nibHeight*(1-absSin)
		pressFactor := lerp(0.5, 1.0, clamp01(pressures[i]))
		rawWidths[i] = raw * pressFactor
	}

	widths := emaSmooth(rawWidths, p.Smoothing)
	taper(samples, widths, p.TaperStart, p.TaperEnd)
	for i := range widths {
		if widths[i] < floor {
			widths[i] = floor
		}
	}

	perps := make([]geom.Vec2, n)
	for i := range angles {
		perps[i] = geom.V2(math.Cos(angles[i]), math.Sin(angles[i])).Perp()
	}

	eliminateWidthDips(widths)
	enforceSignConsistency(perps)
	gaussianSmoothPerps(perps, widths)

	left := make([]geom.Point, n)
	right := make([]geom.Point, n)
	for i := 0; i < n; i++ {
		offset := perps[i].Scale(widths[i])
		left[i] = samples[i].Point.AddVec(offset)
		right[i] = samples[i].Point.AddVec(offset.Neg())
	}

	pinchExpand(left, right, samples, perps, nibHeight*0.3)

	return Result{Italic: true, LeftSide: left, RightSide: right}
}

// eliminateWidthDips raises any interior half-width that dips below the
// average of its neighbours, for up to 8 passes (spec §4.6 pass 1).
func eliminateWidthDips(widths []float64) {
	n := len(widths)
	if n < 3 {
		return
	}
	for pass := 0; pass < 8; pass++ {
		changed := false
		for i := 1; i < n-1; i++ {
			mean := (widths[i-1] + widths[i+1]) / 2
			if widths[i] < mean {
				widths[i] = mean
				changed = true
			}
		}
		if !changed {
			break
		}
	}
}

// enforceSignConsistency negates each perpendicular whose dot product
// with the previous (already-consistent) perpendicular is negative,
// using a sliding reference so the outline rotates smoothly through
// closed curves without flips (spec §4.6 pass 2).
func enforceSignConsistency(perps []geom.Vec2) {
	for i := 1; i < len(perps); i++ {
		if perps[i].Dot(perps[i-1]) < 0 {
			perps[i] = perps[i].Neg()
		}
	}
}

// gaussianKernelRadius is the ±3 window for perpendicular smoothing
// (spec §4.6 pass 3).
const gaussianKernelRadius = 3

// gaussianSmoothPerps smooths the perpendicular direction field with a
// ±3 Gaussian kernel (sigma = local half-width / 2.5) and renormalizes.
func gaussianSmoothPerps(perps []geom.Vec2, widths []float64) {
	n := len(perps)
	out := make([]geom.Vec2, n)
	for i := 0; i < n; i++ {
		sigma := widths[i] / 2.5
		if sigma < 1e-9 {
			out[i] = perps[i]
			continue
		}
		var acc geom.Vec2
		var wsum float64
		for j := i - gaussianKernelRadius; j <= i+gaussianKernelRadius; j++ {
			if j < 0 || j >= n {
				continue
			}
			d := float64(j - i)
			w := math.Exp(-(d * d) / (2 * sigma * sigma))
			acc = acc.Add(perps[j].Scale(w))
			wsum += w
		}
		if wsum > 0 {
			acc = acc.Scale(1 / wsum)
		}
		out[i] = acc.Normalize()
		if out[i].LengthSquared() < 1e-18 {
			out[i] = perps[i]
		}
	}
	copy(perps, out)
}

// pinchExpand opens any left/right pair closer than minGap, pushing
// them apart along the local perpendicular direction (the "nearest
// non-degenerate pair" direction, since the perpendicular field is
// already sign-consistent and smoothly varying across the curve).
func pinchExpand(left, right []geom.Point, samples []Sample, perps []geom.Vec2, minGap float64) {
	for i := range left {
		gap := left[i].Distance(right[i])
		if gap >= minGap || minGap <= 0 {
			continue
		}
		dir := perps[i]
		if dir.LengthSquared() < 1e-18 {
			dir = geom.V2(0, 1)
		}
		half := minGap / 2
		left[i] = samples[i].Point.AddVec(dir.Scale(half))
		right[i] = samples[i].Point.AddVec(dir.Neg().Scale(half))
	}
}

func discSide(center geom.Point, radius float64) []geom.Point {
	const sides = 8
	out := make([]geom.Point, sides)
	for i := 0; i < sides; i++ {
		a := 2 * math.Pi * float64(i) / sides
		out[i] = center.AddVec(geom.V2(math.Cos(a), math.Sin(a)).Scale(radius))
	}
	return out
}

// dejitter runs RDP simplification over the centerline only when baking
// (never for live strokes, which would flicker), carrying pressures
// along with the kept indices.
func dejitter(samples []Sample, pressures []float64, eps float64) ([]Sample, []float64) {
	n := len(samples)
	if n < 3 {
		return samples, pressures
	}
	pts := make([]geom.Point, n)
	for i, s := range samples {
		pts[i] = s.Point
	}
	keep := rdpKeepMask(pts, eps)

	outSamples := make([]Sample, 0, n)
	outPressures := make([]float64, 0, n)
	for i, k := range keep {
		if k {
			outSamples = append(outSamples, samples[i])
			outPressures = append(outPressures, pressures[i])
		}
	}
	return outSamples, outPressures
}

// rdpKeepMask is a small local copy of iterative RDP (see internal/lod
// for the canonical C2 implementation) so this package doesn't need to
// import the LOD simplifier just for its one de-jitter use.
func rdpKeepMask(points []geom.Point, eps float64) []bool {
	n := len(points)
	keep := make([]bool, n)
	if n == 0 {
		return keep
	}
	keep[0] = true
	keep[n-1] = true
	if n < 3 {
		for i := range keep {
			keep[i] = true
		}
		return keep
	}

	type span struct{ lo, hi int }
	stack := []span{{0, n - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.hi-s.lo < 2 {
			continue
		}
		a, b := points[s.lo], points[s.hi]
		maxDist, maxIdx := -1.0, -1
		for i := s.lo + 1; i < s.hi; i++ {
			d := perpDist(points[i], a, b)
			if d > maxDist {
				maxDist, maxIdx = d, i
			}
		}
		if maxDist > eps {
			keep[maxIdx] = true
			stack = append(stack, span{s.lo, maxIdx}, span{maxIdx, s.hi})
		}
	}
	return keep
}

func perpDist(p, a, b geom.Point) float64 {
	ab := b.Sub(a)
	length := ab.Length()
	if length < 1e-12 {
		return p.Distance(a)
	}
	ap := p.Sub(a)
	cross := ap.X*ab.Y - ap.Y*ab.X
	if cross < 0 {
		cross = -cross
	}
	return cross / length
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
