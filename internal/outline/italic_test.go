package outline

import (
	"math"
	"testing"

	"github.com/inkcore/strokes/internal/geom"
)

func straightItalicSamples(n int) []Sample {
	out := make([]Sample, n)
	for i := 0; i < n; i++ {
		out[i] = Sample{Point: geom.Pt(float64(i)*10, 0), Angle: 0}
	}
	return out
}

func fullPressures(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

func TestGenerateItalic_EmptyInput(t *testing.T) {
	res := GenerateItalic(nil, nil, ItalicParams{})
	if !res.Italic {
		t.Error("expected Italic=true even for empty input")
	}
	if res.LeftSide != nil || res.RightSide != nil {
		t.Error("expected nil sides for empty input")
	}
}

func TestGenerateItalic_SinglePoint(t *testing.T) {
	res := GenerateItalic([]Sample{{Point: geom.Pt(1, 1)}}, []float64{1}, ItalicParams{
		NibWidth:     4,
		NibThickness: 0.25,
	})
	if len(res.LeftSide) != len(res.RightSide) {
		t.Fatalf("side length mismatch: %d vs %d", len(res.LeftSide), len(res.RightSide))
	}
	if len(res.LeftSide) == 0 {
		t.Fatal("expected a non-empty disc side for a single sample")
	}
}

func TestGenerateItalic_SidesHaveEqualLength(t *testing.T) {
	samples := straightItalicSamples(12)
	res := GenerateItalic(samples, fullPressures(12), ItalicParams{
		NibAngle:     0,
		NibWidth:     4,
		NibThickness: 0.25,
		Smoothing:    0.2,
	})
	if len(res.LeftSide) != len(res.RightSide) {
		t.Fatalf("side length mismatch: %d vs %d", len(res.LeftSide), len(res.RightSide))
	}
	if !res.Italic {
		t.Error("expected Italic=true")
	}
}

// TestGenerateItalic_WidthFloor verifies spec's italic width-floor
// invariant: every half-width projected onto the outline is at least
// nib_h*0.5, so the nib never vanishes to a hairline regardless of
// pressure, angle or taper.
func TestGenerateItalic_WidthFloor(t *testing.T) {
	samples := straightItalicSamples(30)
	nibWidth, nibThickness := 4.0, 0.25
	nibHeight := nibWidth * nibThickness
	floor := nibHeight * 0.5

	pressures := make([]float64, len(samples))
	for i := range pressures {
		pressures[i] = 0.0 // minimum pressure: the stress case for the floor
	}

	res := GenerateItalic(samples, pressures, ItalicParams{
		NibAngle:     0, // aligned with stroke direction -> minimal raw width term (nib_h only)
		NibWidth:     nibWidth,
		NibThickness: nibThickness,
		Smoothing:    0,
		TaperStart:   15,
		TaperEnd:     15,
	})

	for i := range res.LeftSide {
		d := res.LeftSide[i].Distance(samples[i].Point)
		if d < floor-1e-6 {
			t.Errorf("left half-width at %d = %v, want >= floor %v", i, d, floor)
		}
	}
}

func TestGenerateItalic_WidthVariesWithNibAngleDelta(t *testing.T) {
	samples := straightItalicSamples(10)
	pressures := fullPressures(10)

	aligned := GenerateItalic(samples, pressures, ItalicParams{
		NibAngle:     0, // delta = 0 -> narrow (nib_h dominated) outline
		NibWidth:     6,
		NibThickness: 0.2,
	})
	perpendicular := GenerateItalic(samples, pressures, ItalicParams{
		NibAngle:     math.Pi / 2, // delta = pi/2 -> wide (nib_w dominated) outline
		NibWidth:     6,
		NibThickness: 0.2,
	})

	mid := 5
	alignedWidth := aligned.LeftSide[mid].Distance(samples[mid].Point)
	perpWidth := perpendicular.LeftSide[mid].Distance(samples[mid].Point)
	if !(perpWidth > alignedWidth) {
		t.Errorf("perpendicular-delta width %v should exceed aligned-delta width %v", perpWidth, alignedWidth)
	}
}
