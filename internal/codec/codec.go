// Package codec implements the stroke sample codec (C1): decoding a
// compressed byte sequence into StrokePoints and re-encoding them with a
// fixed quantization so that decode(encode(p)) is deterministic and
// round-trip stable. Live samples are passed through Quantize before
// preview rendering so previews match the eventual baked stroke.
package codec

import (
	"encoding/binary"
	"math"
)

// Point is a single captured stroke sample.
type Point struct {
	X, Y        float64
	Pressure    float64 // [0,1]
	TiltX       float64 // degrees
	TiltY       float64 // degrees
	Twist       float64 // degrees, barrel rotation
	TimestampMS float64
}

// Quantization resolution. Chosen so that round-tripping through
// encode/decode never perturbs a point by more than the stated amount —
// small enough to be visually lossless, fixed so the codec is
// deterministic across platforms (no floating accumulation).
const (
	posScale     = 256.0  // 1/256 world unit
	pressScale   = 255.0  // 1/255
	angleScale   = 2.0    // 1/2 degree
	timeScaleMS  = 1.0    // integer ms
)

// Encode serializes points to a compact little-endian byte form.
// Each point is 7 int32 fields = 28 bytes:
// quantized X, Y, pressure, tiltX, tiltY, twist, timestamp,
// after a 4-byte uint32 count header.
func Encode(points []Point) []byte {
	buf := make([]byte, 4+len(points)*28)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(points)))
	off := 4
	for _, p := range points {
		putQ(buf[off:], p.X, posScale)
		putQ(buf[off+4:], p.Y, posScale)
		putQ(buf[off+8:], clamp01(p.Pressure), pressScale)
		putQ(buf[off+12:], p.TiltX, angleScale)
		putQ(buf[off+16:], p.TiltY, angleScale)
		putQ(buf[off+20:], p.Twist, angleScale)
		putQ(buf[off+24:], p.TimestampMS, timeScaleMS)
		off += 28
	}
	return buf
}

// Decode parses bytes produced by Encode back into Points.
// Decoding a malformed (too-short) buffer returns as many whole points
// as fit and ignores the remainder instead of erroring, matching the
// MalformedInput policy of ignoring rather than panicking.
func Decode(data []byte) []Point {
	if len(data) < 4 {
		return nil
	}
	count := int(binary.LittleEndian.Uint32(data[0:4]))
	avail := (len(data) - 4) / 28
	if count > avail {
		count = avail
	}
	points := make([]Point, count)
	off := 4
	for i := 0; i < count; i++ {
		points[i] = Point{
			X:           getQ(data[off:], posScale),
			Y:           getQ(data[off+4:], posScale),
			Pressure:    getQ(data[off+8:], pressScale),
			TiltX:       getQ(data[off+12:], angleScale),
			TiltY:       getQ(data[off+16:], angleScale),
			Twist:       getQ(data[off+20:], angleScale),
			TimestampMS: getQ(data[off+24:], timeScaleMS),
		}
		off += 28
	}
	return points
}

// Quantize passes live samples through Encode/Decode so active-preview
// rendering matches the quantization a baked stroke will have.
func Quantize(points []Point) []Point {
	return Decode(Encode(points))
}

// BBox computes the centerline bounding box [minX,minY,maxX,maxY].
// Returns a zero-area box at the origin for an empty sequence.
func BBox(points []Point) [4]float64 {
	if len(points) == 0 {
		return [4]float64{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return [4]float64{minX, minY, maxX, maxY}
}

func putQ(b []byte, v, scale float64) {
	q := int32(math.Round(v * scale))
	binary.LittleEndian.PutUint32(b[:4], uint32(q))
}

func getQ(b []byte, scale float64) float64 {
	q := int32(binary.LittleEndian.Uint32(b[:4]))
	return float64(q) / scale
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
