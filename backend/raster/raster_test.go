package raster

import (
	"testing"

	"github.com/inkcore/strokes/backend"
	"github.com/inkcore/strokes/internal/geom"
)

func solidSquare(x, y, w, h float64) []geom.Point {
	return []geom.Point{
		geom.Pt(x, y), geom.Pt(x+w, y), geom.Pt(x+w, y+h), geom.Pt(x, y+h),
	}
}

func TestFillRect_FillsInteriorLeavesExteriorTransparent(t *testing.T) {
	b := New(32, 32)
	b.SetFillColor(backend.Color{R: 1, G: 0, B: 0, A: 1})
	b.FillRect(8, 8, 16, 16)

	inside := b.pix.At(16, 16)
	_, _, _, a := inside.RGBA()
	if a == 0 {
		t.Fatal("expected interior pixel to be opaque")
	}
	outside := b.pix.At(1, 1)
	_, _, _, a2 := outside.RGBA()
	if a2 != 0 {
		t.Errorf("expected exterior pixel to be transparent, alpha=%d", a2)
	}
}

func TestFillTriangles_OverlappingTrianglesMergeUnderNonZeroWinding(t *testing.T) {
	b := New(16, 16)
	b.SetFillColor(backend.Color{R: 0, G: 1, B: 0, A: 1})
	// The same triangle twice, the second copy with opposite winding:
	// without winding normalization the two would cancel.
	sq := solidSquare(2, 2, 10, 10)
	tris := append(append([]geom.Point{}, sq[:3]...), sq[0], sq[2], sq[1])
	b.FillTriangles(tris)

	c := b.pix.At(5, 5)
	_, _, _, a := c.RGBA()
	if a == 0 {
		t.Error("expected triangle interior to be filled")
	}
}

func TestClipRect_RestrictsSubsequentFills(t *testing.T) {
	b := New(32, 32)
	b.ClipRect(0, 0, 16, 32)
	b.SetFillColor(backend.Color{R: 1, G: 1, B: 1, A: 1})
	b.FillRect(0, 0, 32, 32)

	insideClip := b.pix.At(4, 16)
	_, _, _, a1 := insideClip.RGBA()
	if a1 == 0 {
		t.Error("expected pixel inside clip rect to be painted")
	}
	outsideClip := b.pix.At(24, 16)
	_, _, _, a2 := outsideClip.RGBA()
	if a2 != 0 {
		t.Errorf("expected pixel outside clip rect to stay untouched, alpha=%d", a2)
	}
}

func TestClipPath_NestingBeyondDepthIsIgnoredNotCrashed(t *testing.T) {
	b := New(16, 16)
	for i := 0; i < maxClipDepth+2; i++ {
		b.ClipRect(0, 0, 16, 16)
	}
	if b.state.clipDepth != maxClipDepth {
		t.Errorf("clipDepth = %d, want capped at %d", b.state.clipDepth, maxClipDepth)
	}
}

func TestSaveRestore_RestoresClipAndTransform(t *testing.T) {
	b := New(16, 16)
	b.Save()
	b.ClipRect(0, 0, 8, 8)
	b.Translate(5, 5)
	b.Restore()

	if b.state.clipMask != nil {
		t.Error("expected clip mask to be cleared after Restore")
	}
	if b.state.transform != geom.Identity() {
		t.Error("expected transform to be restored to identity")
	}
}

func TestOffscreen_RoundTripDrawsBackIntoMainCanvas(t *testing.T) {
	b := New(16, 16)
	target := b.GetOffscreen("layer1", 8, 8)

	b.BeginOffscreen(target)
	b.SetFillColor(backend.Color{R: 1, G: 0, B: 0, A: 1})
	b.FillRect(0, 0, 8, 8)
	b.EndOffscreen()

	if b.activeOffscreen != nil {
		t.Fatal("expected EndOffscreen to restore the main canvas as active")
	}

	b.DrawOffscreen(target, 0, 0, 16, 16)
	c := b.pix.At(8, 8)
	_, _, _, a := c.RGBA()
	if a == 0 {
		t.Error("expected offscreen content composited back into the main canvas")
	}
}

func TestMaskToPath_ClearsPixelsOutsidePath(t *testing.T) {
	b := New(16, 16)
	b.SetFillColor(backend.Color{R: 1, G: 1, B: 1, A: 1})
	b.FillRect(0, 0, 16, 16)

	b.MaskToPath(solidSquare(4, 4, 4, 4))

	outside := b.pix.At(1, 1)
	_, _, _, a := outside.RGBA()
	if a != 0 {
		t.Errorf("expected pixel outside mask path to be cleared, alpha=%d", a)
	}
}

func TestDrawStampDiscs_SkipsNonPositiveRadius(t *testing.T) {
	b := New(16, 16)
	b.DrawStampDiscs(backend.Color{R: 1, A: 1}, []backend.DiscQuad{{CX: 8, CY: 8, R: 0}})
	c := b.pix.At(8, 8)
	_, _, _, a := c.RGBA()
	if a != 0 {
		t.Error("expected zero-radius disc to draw nothing")
	}
}

func TestCreateTexture_UnpremultipliesStoredPixels(t *testing.T) {
	b := New(4, 4)
	src := &backend.ImageSource{
		Width: 1, Height: 1,
		Pixels:        []byte{128, 0, 0, 128},
		Premultiplied: true,
	}
	b.CreateTexture(src)
	data := b.textures[b.nextTexID]
	if data.Pixels[0] != 255 {
		t.Errorf("unpremultiplied red = %d, want 255", data.Pixels[0])
	}
}
