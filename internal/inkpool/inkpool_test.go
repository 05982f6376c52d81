package inkpool

import (
	"testing"

	"github.com/inkcore/strokes/internal/geom"
)

func TestDetect_EmptyInput(t *testing.T) {
	if got := Detect(nil, nil, nil, 2); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestDetect_AlwaysEmitsStartAndEndPools(t *testing.T) {
	points := []geom.Point{
		geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(20, 0), geom.Pt(30, 0),
	}
	pressures := []float64{0.5, 0.5, 0.5, 0.5}
	timestamps := []float64{0, 10, 20, 30}

	pools := Detect(points, pressures, timestamps, 2)
	if len(pools) < 2 {
		t.Fatalf("expected at least start+end pools, got %d", len(pools))
	}
	if pools[0].Center != points[0] {
		t.Errorf("first pool should be the start pool at %v, got %v", points[0], pools[0].Center)
	}
	if pools[len(pools)-1].Center != points[len(points)-1] {
		t.Errorf("last pool should be the end pool at %v, got %v", points[len(points)-1], pools[len(pools)-1].Center)
	}
}

func TestDetect_DwellingSharpTurnProducesInteriorPool(t *testing.T) {
	// A stroke that pauses (tiny, slow segment) then turns sharply.
	points := []geom.Point{
		geom.Pt(0, 0),
		geom.Pt(10, 0),
		geom.Pt(10.01, 0.01), // near-stationary dwell point
		geom.Pt(10, 10),
		geom.Pt(20, 10),
	}
	pressures := []float64{0.6, 0.6, 0.6, 0.6, 0.6}
	timestamps := []float64{0, 10, 500, 510, 520} // long pause around index 2

	pools := Detect(points, pressures, timestamps, 2)
	if len(pools) <= 2 {
		t.Fatalf("expected an interior pool beyond start/end, got %d pools", len(pools))
	}
}

func TestDetect_FastStraightStrokeHasOnlyStartAndEnd(t *testing.T) {
	points := []geom.Point{
		geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(20, 0), geom.Pt(30, 0),
	}
	pressures := []float64{0.5, 0.5, 0.5, 0.5}
	timestamps := []float64{0, 1, 2, 3} // fast, straight: no dwell, no curvature

	pools := Detect(points, pressures, timestamps, 2)
	if len(pools) != 2 {
		t.Errorf("expected exactly start+end pools for a fast straight stroke, got %d", len(pools))
	}
}
