package gpu

import (
	"testing"

	"github.com/gogpu/wgpu/core"

	"github.com/inkcore/strokes/backend"
	"github.com/inkcore/strokes/backend/gpu/stencil"
	"github.com/inkcore/strokes/internal/geom"
)

func solidSquare(x, y, w, h float64) []geom.Point {
	return []geom.Point{geom.Pt(x, y), geom.Pt(x+w, y), geom.Pt(x+w, y+h), geom.Pt(x, y+h)}
}

// newTestBackend constructs a Backend with its pipeline cache wired
// but without a real device, exercising every drawing call against the
// CPU-backed colour/stencil buffers directly - device creation itself
// is covered by createDeviceState's grounding in device.go, not by
// these buffer-level tests.
func newTestBackend(w, h int) *Backend {
	b := New(w, h)
	b.pipelines = newPipelineCache(core.DeviceID{}, nil)
	return b
}

func TestFillRect_FillsInteriorLeavesExteriorTransparent(t *testing.T) {
	b := newTestBackend(32, 32)
	b.SetFillColor(backend.Color{R: 1, G: 0, B: 0, A: 1})
	b.FillRect(8, 8, 16, 16)

	_, _, _, a := b.color.at(16, 16)
	if a == 0 {
		t.Fatal("expected interior pixel to be opaque")
	}
	_, _, _, a2 := b.color.at(1, 1)
	if a2 != 0 {
		t.Errorf("expected exterior pixel to be transparent, alpha=%v", a2)
	}
}

func TestFillPath_ResolvesStencilWindingAndClearsIt(t *testing.T) {
	b := newTestBackend(16, 16)
	b.SetFillColor(backend.Color{R: 0, G: 1, B: 0, A: 1})
	b.FillPath(solidSquare(2, 2, 10, 10))

	idx := 8*16 + 8
	if stencil.Winding(b.stencilBuf[idx]) != 0 {
		t.Errorf("expected winding bits cleared after resolve, got %d", stencil.Winding(b.stencilBuf[idx]))
	}
	_, _, _, a := b.color.at(8, 8)
	if a == 0 {
		t.Error("expected filled pixel to be opaque")
	}
}

func TestClipPath_NestingBeyondDepthIsIgnored(t *testing.T) {
	b := newTestBackend(16, 16)
	for i := 0; i < maxClipDepth+2; i++ {
		b.ClipRect(0, 0, 16, 16)
	}
	if b.state.clipDepth != maxClipDepth {
		t.Errorf("clipDepth = %d, want capped at %d", b.state.clipDepth, maxClipDepth)
	}
}

func TestClipRect_RestrictsSubsequentFills(t *testing.T) {
	b := newTestBackend(32, 32)
	b.ClipRect(0, 0, 16, 32)
	b.SetFillColor(backend.Color{R: 1, G: 1, B: 1, A: 1})
	b.FillRect(0, 0, 32, 32)

	_, _, _, inside := b.color.at(4, 16)
	if inside == 0 {
		t.Error("expected pixel inside clip rect to be painted")
	}
	_, _, _, outside := b.color.at(24, 16)
	if outside != 0 {
		t.Errorf("expected pixel outside clip rect to stay untouched, alpha=%v", outside)
	}
}

func TestSaveRestore_RestoresTransformAndClipRequirement(t *testing.T) {
	b := newTestBackend(16, 16)
	b.Save()
	b.ClipRect(0, 0, 8, 8)
	b.Translate(5, 5)
	b.Restore()

	if b.state.requiredLevel != 0 {
		t.Error("expected clip requirement to be restored to 0")
	}
	if b.state.transform != geom.Identity() {
		t.Error("expected transform to be restored to identity")
	}
}

func TestOffscreen_RoundTripDrawsBackIntoMainCanvas(t *testing.T) {
	b := newTestBackend(16, 16)
	target := b.GetOffscreen("layer1", 8, 8)

	b.BeginOffscreen(target)
	b.SetFillColor(backend.Color{R: 1, G: 0, B: 0, A: 1})
	b.FillRect(0, 0, 8, 8)
	b.EndOffscreen()

	if b.activeOffscreen != nil {
		t.Fatal("expected EndOffscreen to restore the main canvas as active")
	}

	b.DrawOffscreen(target, 0, 0, 16, 16)
	_, _, _, a := b.color.at(8, 8)
	if a == 0 {
		t.Error("expected offscreen content composited back into the main canvas")
	}
}

func TestMaskToPath_ClearsPixelsOutsidePath(t *testing.T) {
	b := newTestBackend(16, 16)
	b.SetFillColor(backend.Color{R: 1, G: 1, B: 1, A: 1})
	b.FillRect(0, 0, 16, 16)

	b.MaskToPath(solidSquare(4, 4, 4, 4))

	_, _, _, a := b.color.at(1, 1)
	if a != 0 {
		t.Errorf("expected pixel outside mask path to be cleared, alpha=%v", a)
	}
}

func TestCreateTexture_PremultipliesStraightAlphaInput(t *testing.T) {
	b := newTestBackend(4, 4)
	src := &backend.ImageSource{
		Width: 1, Height: 1,
		Pixels:        []byte{255, 0, 0, 128},
		Premultiplied: false,
	}
	h := b.CreateTexture(src)
	tex := b.textures[h]
	if tex.pix[0] <= 0.4 || tex.pix[0] >= 0.6 {
		t.Errorf("premultiplied red channel = %v, want ~0.5", tex.pix[0])
	}
}

func TestDrawStampDiscs_SkipsNonPositiveRadius(t *testing.T) {
	b := newTestBackend(16, 16)
	b.DrawStampDiscs(backend.Color{R: 1, A: 1}, []backend.DiscQuad{{CX: 8, CY: 8, R: 0}})
	_, _, _, a := b.color.at(8, 8)
	if a != 0 {
		t.Error("expected zero-radius disc to draw nothing")
	}
}

func TestPipelineCache_DedupSkipsRedundantRebind(t *testing.T) {
	pc := newPipelineCache(core.DeviceID{}, nil)
	pc.bind(pc.Solid())
	pc.bind(pc.Solid())
	pc.bind(pc.Texture())
	rebinds, skipped := pc.stats()
	if rebinds != 2 {
		t.Errorf("rebinds = %d, want 2", rebinds)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
}
