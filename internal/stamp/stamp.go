// Package stamp computes per-particle stroke deposits: the scatter
// stamp computer (C8, pencil-type pens) and the ink-shading stamp
// computer (C9, fountain-type pens). Both walk a stroke's segments and
// emit [x,y,size,opacity] tuples meant for batched submission to a
// drawing backend's draw_stamps primitive.
package stamp

import (
	"math"

	"github.com/inkcore/strokes/internal/geom"
)

// Particle is one stamp placement.
type Particle struct {
	X, Y, Size, Opacity float64
}

// weylPrime1/2 seed the two independent hash streams used to derive a
// deterministic, platform-independent low-discrepancy sequence from a
// monotonically incrementing stamp index.
const (
	weylPrime1 uint32 = 0x9E3779B9 // golden-ratio constant
	weylPrime2 uint32 = 0x85EBCA6B // murmur3 finalizer constant
)

// hash32 is a fixed-point integer finalizer (murmur3-style avalanche)
// giving well-distributed bits for any 32-bit input.
func hash32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// weylHash returns a deterministic value in [0,1) for the given stamp
// index and prime stream.
func weylHash(index uint32, prime uint32) float64 {
	h := hash32(index * prime)
	return float64(h) / float64(math.MaxUint32)
}

// latticeHash hashes an integer lattice point to [0,1) for value noise.
func latticeHash(ix, iy int32) float64 {
	h := hash32(uint32(ix)*374761393 + uint32(iy)*668265263)
	return float64(h) / float64(math.MaxUint32)
}

func smoothstep(t float64) float64 { return t * t * (3 - 2*t) }

// valueNoise2D samples 2D value noise at the given world position and
// lattice scale (world units per cell), bilinearly interpolated between
// smoothed lattice corners.
func valueNoise2D(x, y, scale float64) float64 {
	if scale < 1e-9 {
		scale = 1e-9
	}
	sx, sy := x/scale, y/scale
	x0, y0 := math.Floor(sx), math.Floor(sy)
	fx, fy := sx-x0, sy-y0
	u, v := smoothstep(fx), smoothstep(fy)

	ix0, iy0 := int32(x0), int32(y0)
	n00 := latticeHash(ix0, iy0)
	n10 := latticeHash(ix0+1, iy0)
	n01 := latticeHash(ix0, iy0+1)
	n11 := latticeHash(ix0+1, iy0+1)

	nx0 := lerp(n00, n10, u)
	nx1 := lerp(n01, n11, u)
	return lerp(nx0, nx1, v)
}

// grainNoise implements spec §4.8's two-scale value-noise grain
// texture: a coarse octave at 3*diameter and a fine octave at
// 1.2*diameter, mixed 0.7/0.3. grainValue in [0,1] moves the output
// from a wide-swing base of 0.5 (grainValue=0) to a steady 1.0
// (grainValue=1).
func grainNoise(x, y, grainValue, diameter float64) float64 {
	coarse := valueNoise2D(x, y, 3*diameter)
	fine := valueNoise2D(x, y, 1.2*diameter)
	mixed := 0.7*coarse + 0.3*fine

	base := 0.5 + 0.5*grainValue
	swing := 1 - grainValue
	centered := (mixed - 0.5) * 2 * swing
	return base + centered*0.5
}

// pressureOpacity maps a curved pressure value to a particle opacity
// multiplier; deposit strength tracks pressure linearly.
func pressureOpacity(p float64) float64 { return geom.Clamp01(p) }

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// hashJitter derives a signed unit-range jitter value from a stamp
// index and a stream selector, used for position jitter and alpha
// dither in the ink-shading computer.
func hashJitter(index uint32, stream uint32) float64 {
	h := hash32(index*weylPrime1 ^ stream*weylPrime2)
	return float64(h)/float64(math.MaxUint32)*2 - 1
}
