package tile

import (
	"github.com/inkcore/strokes/backend"
	"github.com/inkcore/strokes/backend/raster"
	"github.com/inkcore/strokes/colorresolve"
	"github.com/inkcore/strokes/dispatch"
	"github.com/inkcore/strokes/internal/geom"
	"github.com/inkcore/strokes/internal/lod"
	"github.com/inkcore/strokes/internal/logx"
	"github.com/inkcore/strokes/internal/pathcache"
	"github.com/inkcore/strokes/internal/penconfig"
)

// pathCacheCapacity bounds a worker's private outline cache; eviction
// just costs a re-generate on next use, not a correctness issue.
const pathCacheCapacity = 512

// deskFillColor is the coordinator-agnostic backdrop painted behind
// every page before page backgrounds, matching the teacher's own
// light default canvas colour.
var deskFillColor = backend.Color{R: 0.82, G: 0.82, B: 0.84, A: 1}
var deskFillColorDark = backend.Color{R: 0.12, G: 0.12, B: 0.13, A: 1}

// Worker owns every private resource spec §4.16 enumerates: its own
// path cache, pen registry, dispatcher, grain/stamp textures and a
// worker-local software backend. It never touches the GPU backend
// (spec §4.16: "GPU is not used inside workers").
type Worker struct {
	backend    *raster.Backend
	cache      *pathcache.Cache
	dispatcher *dispatch.Dispatcher

	backgrounds colorresolve.BackgroundResolver

	doc DocSnapshot

	grainTexture *backend.TextureHandle
	grainAnchors map[string][2]float64

	stampEnabled    bool
	stampTexture    *backend.TextureHandle
	inkStampEnabled bool
	inkTexture      *backend.TextureHandle

	cancelAll bool
	canceled  map[TileKey]bool
}

// NewWorker builds a worker with fresh private state. resolvers may be
// the zero value, in which case style colours pass through unchanged
// and page backgrounds default to plain white paper.
func NewWorker(resolvers ColorResolvers) *Worker {
	w := &Worker{
		backend:      raster.New(1, 1),
		cache:        pathcache.New(pathCacheCapacity),
		grainAnchors: make(map[string][2]float64),
		canceled:     make(map[TileKey]bool),
		backgrounds:  resolvers.Backgrounds,
	}
	w.dispatcher = &dispatch.Dispatcher{Registry: penconfig.NewRegistry(), Colors: resolvers.Colors}
	return w
}

// Handle processes one protocol message and returns the Result to send
// back, or nil for messages that produce no reply (doc_update,
// grain_update, stamp_init, ink_stamp_init, cancel, destroy).
func (w *Worker) Handle(msg Message) Result {
	switch m := msg.(type) {
	case InitMessage:
		if m.GrainImage != nil {
			w.grainTexture = w.backend.CreateTexture(m.GrainImage)
		}
		return ReadyResult{}

	case DocUpdateMessage:
		w.doc = m.Snapshot
		w.dispatcher.Styles = styleTable(m.Snapshot.Styles)
		w.dispatcher.Mode = m.Snapshot.Pipeline
		w.cache.Clear("")
		return nil

	case GrainUpdateMessage:
		if m.Update.GrainImage != nil {
			if w.grainTexture != nil {
				w.backend.DeleteTexture(w.grainTexture)
			}
			w.grainTexture = w.backend.CreateTexture(m.Update.GrainImage)
		}
		// Overrides are not applied: the worker keeps no per-pen grain
		// strength table and only replaces the grain texture.
		return nil

	case StampInitMessage:
		w.stampEnabled = m.Enabled
		if !m.Enabled {
			if w.stampTexture != nil {
				w.backend.DeleteTexture(w.stampTexture)
				w.stampTexture = nil
			}
		} else if m.Texture != nil {
			w.stampTexture = w.backend.CreateTexture(m.Texture)
		}
		return nil

	case InkStampInitMessage:
		w.inkStampEnabled = m.Enabled
		if !m.Enabled {
			if w.inkTexture != nil {
				w.backend.DeleteTexture(w.inkTexture)
				w.inkTexture = nil
			}
		} else if m.Texture != nil {
			w.inkTexture = w.backend.CreateTexture(m.Texture)
		}
		return nil

	case RenderTileMessage:
		return w.renderTile(m.Request)

	case CancelMessage:
		if m.TileKey == "" {
			w.cancelAll = true
		} else {
			w.canceled[m.TileKey] = true
		}
		return nil

	case DestroyMessage:
		w.backend.Close()
		return nil

	default:
		logx.Logger().Warn("tile worker: unknown message, ignoring")
		return nil
	}
}

// renderTile implements spec §4.16's 5-step tile algorithm.
func (w *Worker) renderTile(req RenderTileRequest) Result {
	defer func() {
		delete(w.canceled, req.TileKey)
	}()

	size := req.TilePhysicalPx
	if size < 1 {
		size = TileWidth
	}
	w.backend.Resize(size, size)
	w.backend.Clear()

	scale := float64(size) / req.WorldW
	if req.WorldW <= 0 {
		scale = 1
	}
	w.backend.SetTransform(geom.Matrix{
		A: scale, B: 0, C: -req.WorldX * scale,
		D: 0, E: scale, F: -req.WorldY * scale,
	})

	level := lodForZoomBand(req.ZoomBand)

	w.paintBackgrounds(req)

	rendered := w.paintStrokes(req, level)

	if w.canceled[req.TileKey] || w.cancelAll {
		return TileErrorMessage{TileKey: req.TileKey, ErrorText: "canceled"}
	}

	return TileResultMessage{
		TileKey:           req.TileKey,
		Bitmap:            w.backend.Image(),
		StrokeIDsRendered: rendered,
	}
}

// paintBackgrounds paints the desk fill, then every page rect
// overlapping the tile's world bounds: shadow, paper fill, pattern
// clipped to the page (spec §4.16 step 3).
func (w *Worker) paintBackgrounds(req RenderTileRequest) {
	desk := deskFillColor
	if req.IsDarkMode {
		desk = deskFillColorDark
	}
	w.backend.Save()
	w.backend.SetTransform(geom.Identity())
	w.backend.SetFillColor(desk)
	w.backend.FillRect(0, 0, float64(w.backend.Width()), float64(w.backend.Height()))
	w.backend.Restore()

	for _, page := range w.doc.Pages {
		if !rectsOverlap(page.X, page.Y, page.Width, page.Height, req.WorldX, req.WorldY, req.WorldW, req.WorldH) {
			continue
		}
		w.paintPage(page, req.IsDarkMode)
	}
}

func (w *Worker) paintPage(page Page, darkMode bool) {
	bg := resolveBackground(w.backgrounds, page, darkMode)

	w.backend.SetShadow(0, 2, 6, backend.Color{A: 0.25})
	w.backend.SetFillColor(bg.PaperColor)
	w.backend.FillRect(page.X, page.Y, page.Width, page.Height)
	w.backend.ClearShadow()

	w.backend.Save()
	w.backend.ClipRect(page.X, page.Y, page.Width, page.Height)
	if w.grainTexture != nil {
		w.backend.ApplyGrain(w.grainTexture, page.X, page.Y, paperPatternStrength(bg.PatternTheme))
	}
	w.backend.Restore()
}

// paperPatternStrength translates a pattern theme into the grain
// strength used to texture the page paper itself (distinct from a
// stroke's own grain pass); the dark theme uses a slightly stronger
// pattern since lighter backgrounds wash out low-contrast textures.
func paperPatternStrength(theme colorresolve.PatternTheme) float64 {
	if theme == colorresolve.PatternDark {
		return 0.35
	}
	return 0.25
}

func resolveBackground(r colorresolve.BackgroundResolver, page Page, darkMode bool) colorresolve.Background {
	if r == nil {
		paper := backend.Color{R: 1, G: 1, B: 1, A: 1}
		if darkMode {
			paper = backend.Color{R: 0.1, G: 0.1, B: 0.1, A: 1}
		}
		return colorresolve.Background{PaperColor: paper, PatternTheme: colorresolve.PatternLight}
	}
	return r.Resolve(page.BackgroundColor, page.BackgroundColorTheme, darkMode)
}

// paintStrokes paints every stroke in req.StrokeIDs whose bbox
// overlaps the tile's world bounds, under a clip to its page (spec
// §4.16 step 4), in document order, and returns the ids actually
// painted.
func (w *Worker) paintStrokes(req RenderTileRequest, level lod.Level) []string {
	pageRect := make(map[int]Page, len(w.doc.Pages))
	for _, p := range w.doc.Pages {
		pageRect[p.Index] = p
	}

	var rendered []string
	var currentPage int
	clipped := false

	endClip := func() {
		if clipped {
			w.backend.Restore()
			clipped = false
		}
	}
	defer endClip()

	for _, stroke := range w.doc.Strokes {
		if w.cancelAll || w.canceled[req.TileKey] {
			break
		}
		if _, want := req.StrokeIDs[stroke.ID]; !want {
			continue
		}
		if !rectsOverlap(stroke.BBox[0], stroke.BBox[1], stroke.BBox[2]-stroke.BBox[0], stroke.BBox[3]-stroke.BBox[1],
			req.WorldX, req.WorldY, req.WorldW, req.WorldH) {
			continue
		}

		if !clipped || stroke.PageIndex != currentPage {
			endClip()
			if page, ok := pageRect[stroke.PageIndex]; ok {
				w.backend.Save()
				w.backend.ClipRect(page.X, page.Y, page.Width, page.Height)
				clipped = true
			}
			currentPage = stroke.PageIndex
		}

		var grainCtx *dispatch.GrainContext
		if w.grainTexture != nil {
			anchor := w.grainAnchors[stroke.ID]
			if stroke.GrainAnchor != nil {
				anchor = *stroke.GrainAnchor
			}
			grainCtx = &dispatch.GrainContext{Texture: w.grainTexture, AnchorX: anchor[0], AnchorY: anchor[1]}
		}
		var stampCtx *dispatch.StampContext
		if w.stampEnabled || w.inkStampEnabled {
			stampCtx = &dispatch.StampContext{ScatterTexture: w.stampTexture, InkTexture: w.inkTexture}
		}

		w.dispatcher.Render(w.backend, stroke, level, req.IsDarkMode, w.cache, grainCtx, stampCtx)
		rendered = append(rendered, stroke.ID)
	}
	return rendered
}
