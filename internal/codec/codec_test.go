package codec

import (
	"math"
	"testing"
)

func pointsClose(a, b Point, eps float64) bool {
	return math.Abs(a.X-b.X) < eps &&
		math.Abs(a.Y-b.Y) < eps &&
		math.Abs(a.Pressure-b.Pressure) < eps &&
		math.Abs(a.TiltX-b.TiltX) < eps &&
		math.Abs(a.TiltY-b.TiltY) < eps &&
		math.Abs(a.Twist-b.Twist) < eps &&
		math.Abs(a.TimestampMS-b.TimestampMS) < eps
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
	}{
		{"empty", nil},
		{"single", []Point{{X: 1.5, Y: 2.5, Pressure: 0.5, TiltX: 10, TiltY: -20, Twist: 90, TimestampMS: 1234}}},
		{"multiple", []Point{
			{X: 0, Y: 0, Pressure: 0, TiltX: 0, TiltY: 0, Twist: 0, TimestampMS: 0},
			{X: 100.25, Y: -50.125, Pressure: 1.0, TiltX: 60, TiltY: 60, Twist: 359.5, TimestampMS: 500},
			{X: -10, Y: 10, Pressure: 0.333, TiltX: -45, TiltY: 45, Twist: 180, TimestampMS: 1000},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded := Decode(Encode(tt.points))
			if len(decoded) != len(tt.points) {
				t.Fatalf("len = %d, want %d", len(decoded), len(tt.points))
			}
			for i := range tt.points {
				if !pointsClose(decoded[i], tt.points[i], 1.0/250) {
					t.Errorf("point %d = %+v, want ~%+v", i, decoded[i], tt.points[i])
				}
			}
		})
	}
}

// TestEncodeDecode_Idempotent checks the codec round-trip invariant from
// spec §8.1: decode(encode(p)) == decode(encode(decode(encode(p)))).
func TestEncodeDecode_Idempotent(t *testing.T) {
	points := []Point{
		{X: 1.23456, Y: 9.87654, Pressure: 0.42, TiltX: 33.3, TiltY: -12.1, Twist: 271.9, TimestampMS: 42},
		{X: -200, Y: 300.7, Pressure: 1, TiltX: 0, TiltY: 0, Twist: 0, TimestampMS: 999},
	}

	once := Decode(Encode(points))
	twice := Decode(Encode(once))

	if len(once) != len(twice) {
		t.Fatalf("len mismatch: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("point %d not idempotent: %+v vs %+v", i, once[i], twice[i])
		}
	}
}

func TestQuantize_MatchesEncodeDecode(t *testing.T) {
	points := []Point{{X: 1.001, Y: 2.002, Pressure: 0.75, TimestampMS: 16}}
	got := Quantize(points)
	want := Decode(Encode(points))
	if len(got) != len(want) || got[0] != want[0] {
		t.Errorf("Quantize() = %+v, want %+v", got, want)
	}
}

func TestDecode_TruncatedBuffer(t *testing.T) {
	full := Encode([]Point{{X: 1, Y: 2}, {X: 3, Y: 4}})
	truncated := full[:4+28] // header + exactly one point's worth

	got := Decode(truncated)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}

	tooShort := full[:2]
	if got := Decode(tooShort); got != nil {
		t.Errorf("Decode(tooShort) = %v, want nil", got)
	}
}

func TestBBox(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   [4]float64
	}{
		{"empty", nil, [4]float64{0, 0, 0, 0}},
		{"single", []Point{{X: 5, Y: 5}}, [4]float64{5, 5, 5, 5}},
		{"spread", []Point{{X: 0, Y: 0}, {X: 10, Y: -5}, {X: -3, Y: 20}}, [4]float64{-3, -5, 10, 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BBox(tt.points)
			if got != tt.want {
				t.Errorf("BBox() = %v, want %v", got, tt.want)
			}
		})
	}
}
