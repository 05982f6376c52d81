package stamp

import (
	"testing"

	"github.com/inkcore/strokes/internal/geom"
)

func straightLinePts(n int, step float64) []geom.Point {
	out := make([]geom.Point, n)
	for i := range out {
		out[i] = geom.Pt(float64(i)*step, 0)
	}
	return out
}

func constFloats(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestComputeScatter_TooFewPointsProducesNothing(t *testing.T) {
	acc := &ScatterAccumulator{}
	out := ComputeScatter([]geom.Point{{X: 0, Y: 0}}, []float64{1}, []float64{1}, ScatterParams{Spacing: 0.5}, acc)
	if out != nil {
		t.Errorf("expected nil output for a single point, got %v", out)
	}
}

func TestComputeScatter_ProducesParticlesWithinDisk(t *testing.T) {
	pts := straightLinePts(10, 20)
	widths := constFloats(10, 3)
	pressures := constFloats(10, 0.8)
	acc := &ScatterAccumulator{}

	out := ComputeScatter(pts, widths, pressures, ScatterParams{Spacing: 0.5, GrainValue: 0.4}, acc)
	if len(out) == 0 {
		t.Fatal("expected at least one particle for a 180-world-unit stroke")
	}
	for _, p := range out {
		if p.Opacity < 0.05 {
			t.Errorf("particle opacity %v below the 0.05 drop threshold should have been filtered", p.Opacity)
		}
		if p.Size <= 0 {
			t.Errorf("particle size = %v, want > 0", p.Size)
		}
	}
	if acc.LastPointIndex != len(pts)-1 {
		t.Errorf("accumulator LastPointIndex = %d, want %d", acc.LastPointIndex, len(pts)-1)
	}
}

func TestComputeScatter_IncrementalResumeMatchesOneShot(t *testing.T) {
	pts := straightLinePts(12, 15)
	widths := constFloats(12, 2.5)
	pressures := constFloats(12, 0.6)

	oneShotAcc := &ScatterAccumulator{}
	oneShot := ComputeScatter(pts, widths, pressures, ScatterParams{Spacing: 0.6, GrainValue: 0.2}, oneShotAcc)

	incAcc := &ScatterAccumulator{}
	first := ComputeScatter(pts[:6], widths[:6], pressures[:6], ScatterParams{Spacing: 0.6, GrainValue: 0.2}, incAcc)
	second := ComputeScatter(pts, widths, pressures, ScatterParams{Spacing: 0.6, GrainValue: 0.2}, incAcc)
	incremental := append(first, second...)

	if len(incremental) != len(oneShot) {
		t.Fatalf("incremental produced %d particles, one-shot produced %d", len(incremental), len(oneShot))
	}
}

func TestComputeScatter_NoNewPointsIsNoop(t *testing.T) {
	pts := straightLinePts(5, 20)
	widths := constFloats(5, 2)
	pressures := constFloats(5, 0.5)
	acc := &ScatterAccumulator{}
	ComputeScatter(pts, widths, pressures, ScatterParams{Spacing: 0.5}, acc)

	out := ComputeScatter(pts, widths, pressures, ScatterParams{Spacing: 0.5}, acc)
	if out != nil {
		t.Errorf("expected nil output when no new points were added, got %d particles", len(out))
	}
}
