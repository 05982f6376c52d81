package tile

import (
	"context"
	"testing"
	"time"
)

// TestCoordinator_RenderTileRoundTrip exercises the full message path
// through a real worker goroutine: doc_update broadcast, then a
// render_tile that must come back as a tile_result before the test
// timeout.
func TestCoordinator_RenderTileRoundTrip(t *testing.T) {
	c := NewCoordinator(2, ColorResolvers{})
	defer c.Close()

	c.Broadcast(DocUpdateMessage{Snapshot: threeStrokeSnapshot()})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result, err := c.RenderTile(ctx, RenderTileRequest{
		TileKey:        "0/0/0",
		WorldW:         512,
		WorldH:         512,
		TilePhysicalPx: 512,
		StrokeIDs:      map[string]struct{}{"in": {}, "out": {}, "edge": {}},
	})
	if err != nil {
		t.Fatalf("RenderTile: %v", err)
	}
	tileResult, ok := result.(TileResultMessage)
	if !ok {
		t.Fatalf("expected TileResultMessage, got %#v", result)
	}
	if len(tileResult.StrokeIDsRendered) == 0 {
		t.Error("expected at least one stroke rendered")
	}
}

// TestCoordinator_BackpressureLimitsOneInFlightPerWorker verifies a
// single worker cannot have more than inFlightLimit render_tile
// requests accepted before the first completes: with one worker, a
// second request should not be picked up until the first's reply
// channel has been read and its in-flight slot released. This is
// exercised indirectly: concurrent requests against a 1-worker
// coordinator must all eventually complete (serialized), never
// deadlocking or racing the slot counter.
func TestCoordinator_BackpressureLimitsOneInFlightPerWorker(t *testing.T) {
	c := NewCoordinator(1, ColorResolvers{})
	defer c.Close()

	c.Broadcast(DocUpdateMessage{Snapshot: threeStrokeSnapshot()})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	done := make(chan error, 3)
	for i := 0; i < 3; i++ {
		key := TileKey("0/0/0")
		go func() {
			_, err := c.RenderTile(ctx, RenderTileRequest{
				TileKey:        key,
				WorldW:         512,
				WorldH:         512,
				TilePhysicalPx: 64,
				StrokeIDs:      map[string]struct{}{"in": {}},
			})
			done <- err
		}()
	}

	for i := 0; i < 3; i++ {
		if err := <-done; err != nil {
			t.Errorf("request %d failed: %v", i, err)
		}
	}
}
