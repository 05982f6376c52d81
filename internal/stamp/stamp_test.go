package stamp

import "testing"

func TestWeylHash_DeterministicAndInRange(t *testing.T) {
	for _, idx := range []uint32{0, 1, 2, 100, 1 << 20} {
		h1a := weylHash(idx, weylPrime1)
		h1b := weylHash(idx, weylPrime1)
		if h1a != h1b {
			t.Errorf("weylHash(%d) not deterministic: %v vs %v", idx, h1a, h1b)
		}
		if h1a < 0 || h1a >= 1 {
			t.Errorf("weylHash(%d) = %v, want in [0,1)", idx, h1a)
		}
	}
}

func TestWeylHash_DistinctStreamsDiverge(t *testing.T) {
	same := 0
	for idx := uint32(0); idx < 50; idx++ {
		if weylHash(idx, weylPrime1) == weylHash(idx, weylPrime2) {
			same++
		}
	}
	if same > 2 {
		t.Errorf("expected the two hash streams to diverge, %d/50 collided", same)
	}
}

func TestGrainNoise_GrainZeroHasWideSwing(t *testing.T) {
	var minV, maxV float64 = 1, 0
	for x := 0.0; x < 50; x += 1.7 {
		for y := 0.0; y < 50; y += 2.3 {
			v := grainNoise(x, y, 0, 5)
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
	}
	if maxV-minV < 0.3 {
		t.Errorf("grain_value=0 swing = %v, want wide swing (>0.3)", maxV-minV)
	}
}

func TestGrainNoise_GrainOneIsNearConstant(t *testing.T) {
	var minV, maxV float64 = 1, 0
	for x := 0.0; x < 50; x += 1.7 {
		for y := 0.0; y < 50; y += 2.3 {
			v := grainNoise(x, y, 1, 5)
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
	}
	if maxV-minV > 0.05 {
		t.Errorf("grain_value=1 swing = %v, want near-zero swing", maxV-minV)
	}
	if minV < 0.95 || maxV > 1.05 {
		t.Errorf("grain_value=1 base should be ~1.0, got range [%v,%v]", minV, maxV)
	}
}
