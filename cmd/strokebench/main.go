// Command strokebench exercises the stroke rendering pipeline end to
// end: it builds a small synthetic document, drives it through the
// tile worker pipeline the same way a host application would, and
// saves each rendered tile as a PNG.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/inkcore/strokes/backend"
	"github.com/inkcore/strokes/colorresolve"
	"github.com/inkcore/strokes/dispatch"
	"github.com/inkcore/strokes/internal/codec"
	"github.com/inkcore/strokes/internal/logx"
	"github.com/inkcore/strokes/internal/penconfig"
	"github.com/inkcore/strokes/tile"
)

func main() {
	var (
		out      = flag.String("out", "strokebench-out", "output directory for rendered tile PNGs")
		tilePx   = flag.Int("tile-px", 512, "physical pixel size of each rendered tile")
		workers  = flag.Int("workers", 2, "number of tile worker goroutines")
		strokes  = flag.Int("strokes", 200, "number of synthetic strokes to generate")
		pipeline = flag.String("pipeline", "", "pipeline mode: \"\" (auto), basic, advanced, stamps")
		verbose  = flag.Bool("v", false, "log at debug level")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := os.MkdirAll(*out, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "strokebench:", err)
		os.Exit(1)
	}

	snapshot := syntheticDocument(*strokes, dispatch.Mode(*pipeline))

	coordinator := tile.NewCoordinator(*workers, tile.ColorResolvers{
		Colors:      colorresolve.ColorTable{},
		Backgrounds: colorresolve.NewBackgroundTable(),
	})
	defer coordinator.Close()

	if err := coordinator.Init(nil); err != nil {
		fmt.Fprintln(os.Stderr, "strokebench: init:", err)
		os.Exit(1)
	}
	coordinator.Broadcast(tile.DocUpdateMessage{Snapshot: snapshot})

	ids := make(map[string]struct{}, len(snapshot.Strokes))
	for _, s := range snapshot.Strokes {
		ids[s.ID] = struct{}{}
	}

	const bands = 3
	start := time.Now()
	rendered := 0
	for band := tile.ZoomBand(0); band < bands; band++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		key := tile.NewTileKey(band, 0, 0)
		result, err := coordinator.RenderTile(ctx, tile.RenderTileRequest{
			TileKey:        key,
			WorldW:         612,
			WorldH:         792,
			ZoomBand:       band,
			TilePhysicalPx: *tilePx,
			StrokeIDs:      ids,
		})
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "strokebench: render band %d: %v\n", band, err)
			continue
		}
		tileResult, ok := result.(tile.TileResultMessage)
		if !ok {
			if errResult, ok := result.(tile.TileErrorMessage); ok {
				fmt.Fprintf(os.Stderr, "strokebench: band %d errored: %s\n", band, errResult.ErrorText)
			} else {
				fmt.Fprintf(os.Stderr, "strokebench: band %d: unexpected result %#v\n", band, result)
			}
			continue
		}

		path := filepath.Join(*out, fmt.Sprintf("band%d.png", band))
		if err := savePNG(path, tileResult); err != nil {
			fmt.Fprintln(os.Stderr, "strokebench:", err)
			continue
		}
		rendered++
		fmt.Printf("band %d: %d strokes -> %s\n", band, len(tileResult.StrokeIDsRendered), path)
	}

	fmt.Printf("rendered %d/%d tiles in %s\n", rendered, bands, time.Since(start).Round(time.Millisecond))
}

func savePNG(path string, result tile.TileResultMessage) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return png.Encode(f, result.Bitmap)
}

// syntheticDocument builds a single US-Letter page of wavy strokes
// cycling through four of the built-in pen types (ballpoint, pencil,
// fountain, highlighter), for benchmarking the full
// pipeline without needing a host-supplied document.
func syntheticDocument(n int, mode dispatch.Mode) tile.DocSnapshot {
	pens := []penconfig.PenType{penconfig.Ballpoint, penconfig.Pencil, penconfig.Fountain, penconfig.Highlighter}

	styles := make(map[string]dispatch.PenStyle, len(pens))
	for _, p := range pens {
		styles[styleName(p)] = dispatch.PenStyle{
			Pen:     p,
			Color:   backend.Color{A: 1},
			WidthWU: 2.5,
			Opacity: 1,
		}
	}

	pageW, pageH := 612.0, 792.0
	strokes := make([]dispatch.Stroke, 0, n)
	for i := 0; i < n; i++ {
		pen := pens[i%len(pens)]
		y := pageH * (float64(i%20) + 1) / 21
		strokes = append(strokes, wavyStroke(fmt.Sprintf("s%d", i), styleName(pen), y, pageW))
	}

	return tile.DocSnapshot{
		Strokes: strokes,
		Styles:  styles,
		Pages: []tile.Page{
			{Index: 0, X: 0, Y: 0, Width: pageW, Height: pageH, BackgroundColor: "white"},
		},
		LayoutDirection: "ltr",
		Pipeline:        mode,
	}
}

func styleName(p penconfig.PenType) string {
	return fmt.Sprintf("pen-%d", p)
}

func wavyStroke(id, styleRef string, y, width float64) dispatch.Stroke {
	const n = 24
	pts := make([]codec.Point, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		pts[i] = codec.Point{
			X:           t * width,
			Y:           y + 8*math.Sin(t*4*math.Pi),
			Pressure:    0.4 + 0.3*math.Sin(t*2*math.Pi),
			TimestampMS: float64(i) * 10,
		}
	}
	bbox := codec.BBox(pts)
	return dispatch.Stroke{
		ID:         id,
		StyleRef:   styleRef,
		BBox:       bbox,
		PointCount: n,
		Pts:        codec.Encode(pts),
	}
}
