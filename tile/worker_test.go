package tile

import (
	"testing"

	"github.com/inkcore/strokes/dispatch"
	"github.com/inkcore/strokes/internal/codec"
	"github.com/inkcore/strokes/internal/penconfig"
)

func strokeFromPoints(id string, pageIndex int, pts []codec.Point) dispatch.Stroke {
	bbox := codec.BBox(pts)
	return dispatch.Stroke{
		ID:         id,
		PageIndex:  pageIndex,
		StyleRef:   id,
		BBox:       bbox,
		PointCount: len(pts),
		Pts:        codec.Encode(pts),
	}
}

func straightLine(n int, x0, y0, x1, y1 float64) []codec.Point {
	pts := make([]codec.Point, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		pts[i] = codec.Point{
			X: x0 + (x1-x0)*t, Y: y0 + (y1-y0)*t,
			Pressure: 0.5, TimestampMS: float64(i) * 8,
		}
	}
	return pts
}

func letterPage() Page {
	return Page{Index: 0, X: 0, Y: 0, Width: 612, Height: 792, BackgroundColor: "white"}
}

func threeStrokeSnapshot() DocSnapshot {
	style := dispatch.PenStyle{Pen: penconfig.Ballpoint, WidthWU: 2, Opacity: 1}
	return DocSnapshot{
		Pages: []Page{letterPage()},
		Styles: map[string]dispatch.PenStyle{
			"in":   style,
			"out":  style,
			"edge": style,
		},
		Strokes: []dispatch.Stroke{
			strokeFromPoints("in", 0, straightLine(8, 50, 50, 200, 250)),
			strokeFromPoints("out", 0, straightLine(8, 5000, 5000, 5100, 5100)),
			strokeFromPoints("edge", 0, straightLine(8, 500, 500, 520, 520)),
		},
	}
}

// TestWorker_RenderTileReturnsOnlyOverlappingStrokes is scenario S6: a
// single-page document with 3 strokes, one render_tile covering a
// 512x512-world tile at zoom band 0, expects exactly the strokes whose
// bbox intersects the tile bounds back in StrokeIDsRendered.
func TestWorker_RenderTileReturnsOnlyOverlappingStrokes(t *testing.T) {
	w := NewWorker(ColorResolvers{})
	snapshot := threeStrokeSnapshot()

	if r := w.Handle(DocUpdateMessage{Snapshot: snapshot}); r != nil {
		t.Fatalf("doc_update should produce no reply, got %#v", r)
	}

	req := RenderTileRequest{
		TileKey:        "0/0/0",
		WorldX:         0,
		WorldY:         0,
		WorldW:         512,
		WorldH:         512,
		ZoomBand:       0,
		TilePhysicalPx: 512,
		StrokeIDs:      map[string]struct{}{"in": {}, "out": {}, "edge": {}},
	}

	result := w.Handle(RenderTileMessage{Request: req})

	tileResult, ok := result.(TileResultMessage)
	if !ok {
		t.Fatalf("expected TileResultMessage, got %#v", result)
	}
	if tileResult.TileKey != req.TileKey {
		t.Errorf("tile key mismatch: got %q want %q", tileResult.TileKey, req.TileKey)
	}
	if tileResult.Bitmap == nil {
		t.Fatal("expected a non-nil bitmap")
	}
	bounds := tileResult.Bitmap.Bounds()
	if bounds.Dx() != 512 || bounds.Dy() != 512 {
		t.Errorf("expected a 512x512 bitmap, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	got := map[string]bool{}
	for _, id := range tileResult.StrokeIDsRendered {
		got[id] = true
	}
	if !got["in"] || !got["edge"] {
		t.Errorf("expected in-bounds strokes rendered, got %v", tileResult.StrokeIDsRendered)
	}
	if got["out"] {
		t.Errorf("expected out-of-bounds stroke excluded, got %v", tileResult.StrokeIDsRendered)
	}
}

// TestWorker_CancelProducesTileError verifies an advisory cancel
// flagged before a render_tile request is handled surfaces as a
// tile_error instead of a tile_result (spec §9: cancel is checked
// between strokes, never interrupts a render already in flight, but
// a render that hasn't started yet must not silently succeed).
func TestWorker_CancelProducesTileError(t *testing.T) {
	w := NewWorker(ColorResolvers{})
	w.Handle(DocUpdateMessage{Snapshot: threeStrokeSnapshot()})

	key := TileKey("0/0/0")
	w.Handle(CancelMessage{TileKey: key})

	req := RenderTileRequest{
		TileKey:        key,
		WorldX:         0,
		WorldY:         0,
		WorldW:         512,
		WorldH:         512,
		TilePhysicalPx: 512,
		StrokeIDs:      map[string]struct{}{"in": {}},
	}
	result := w.Handle(RenderTileMessage{Request: req})

	if _, ok := result.(TileErrorMessage); !ok {
		t.Fatalf("expected TileErrorMessage after cancel, got %#v", result)
	}

	// the cancel flag is per-tile-key and is cleared once consumed, so a
	// fresh request for the same key must succeed.
	result2 := w.Handle(RenderTileMessage{Request: req})
	if _, ok := result2.(TileResultMessage); !ok {
		t.Fatalf("expected a fresh request to succeed after cancel was consumed, got %#v", result2)
	}
}

// TestWorker_InitReturnsReady verifies the init handshake.
func TestWorker_InitReturnsReady(t *testing.T) {
	w := NewWorker(ColorResolvers{})
	if _, ok := w.Handle(InitMessage{}).(ReadyResult); !ok {
		t.Fatal("expected ReadyResult from init")
	}
}
