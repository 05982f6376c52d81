// Package tile implements the Tile Worker Pipeline (C16): a
// coordinator driving N worker goroutines, each rendering independent
// screen tiles against its own private backend instance over a typed
// message protocol (spec §4.16, §9's "model workers as threads with a
// channel of messages and a result channel").
package tile

import (
	"image"

	"github.com/inkcore/strokes/backend"
	"github.com/inkcore/strokes/colorresolve"
	"github.com/inkcore/strokes/dispatch"
)

// TileKey identifies one render_tile request; opaque to this package
// (spec §9: "a plain string is used in the source"). Callers are free
// to encode (zoom_band, tx, ty) or any other scheme into it.
type TileKey string

// ZoomBand is a coarse zoom tier a render_tile request targets; it
// selects a LOD via zoomBandBaseZoom, distinct from the continuous
// zoom factor lod.SelectLevel consumes directly.
type ZoomBand int

// Page is one page/layout provider entry (spec §6): a world-space rect
// plus the background parameters the background resolver reads.
type Page struct {
	Index                int
	X, Y, Width, Height  float64 // world-space rect
	BackgroundColor      string
	BackgroundColorTheme string
}

// DocSnapshot is the main->worker doc_update payload: a full
// replacement of a worker's document view. Replacing it invalidates
// the worker's path cache, since cached outlines are keyed by
// stroke_id and a new snapshot may reuse ids for different strokes.
type DocSnapshot struct {
	Strokes         []dispatch.Stroke
	Styles          map[string]dispatch.PenStyle
	Pages           []Page
	LayoutDirection string
	Pipeline        dispatch.Mode // "" (auto/stamps), "basic", "advanced"
}

// styleTable adapts a plain map into dispatch.StyleResolver.
type styleTable map[string]dispatch.PenStyle

func (t styleTable) Resolve(styleRef string) (dispatch.PenStyle, bool) {
	s, ok := t[styleRef]
	return s, ok
}

// GrainUpdate is the main->worker grain_update payload. Overrides is
// an associative list, not a map, because the wire transport this
// protocol models does not structurally clone maps (spec §4.16).
type GrainUpdate struct {
	GrainImage *backend.ImageSource
	Overrides  []GrainStrengthOverride
}

// GrainStrengthOverride is one (pen_type, multiplier) pair from a
// grain_update message.
type GrainStrengthOverride struct {
	Pen        string
	Multiplier float64
}

// RenderTileRequest is the main->worker render_tile payload.
type RenderTileRequest struct {
	TileKey         TileKey
	WorldX, WorldY  float64 // world-space origin of the tile
	WorldW, WorldH  float64 // world-space size the tile covers
	ZoomBand        ZoomBand
	TilePhysicalPx  int // physical pixel size of the square tile
	IsDarkMode      bool
	StrokeIDs       map[string]struct{} // strokes eligible for this tile
}

// Message is the main->worker protocol: init, doc_update, grain_update,
// stamp_init, ink_stamp_init, render_tile, cancel, destroy (spec
// §4.16). Each concrete type below implements it as a marker.
type Message interface{ isMessage() }

type InitMessage struct{ GrainImage *backend.ImageSource }
type DocUpdateMessage struct{ Snapshot DocSnapshot }
type GrainUpdateMessage struct{ Update GrainUpdate }
type StampInitMessage struct {
	Enabled bool
	Texture *backend.ImageSource
}
type InkStampInitMessage struct {
	Enabled bool
	Texture *backend.ImageSource
}
type RenderTileMessage struct{ Request RenderTileRequest }

// CancelMessage cancels one outstanding render (TileKey set) or every
// outstanding render (TileKey == ""). Advisory only (spec §9): a
// worker renders synchronously and checks the flag only between
// strokes.
type CancelMessage struct{ TileKey TileKey }
type DestroyMessage struct{}

func (InitMessage) isMessage()         {}
func (DocUpdateMessage) isMessage()    {}
func (GrainUpdateMessage) isMessage()  {}
func (StampInitMessage) isMessage()    {}
func (InkStampInitMessage) isMessage() {}
func (RenderTileMessage) isMessage()   {}
func (CancelMessage) isMessage()       {}
func (DestroyMessage) isMessage()      {}

// Result is the worker->main protocol: ready, tile_result, tile_error.
type Result interface{ isResult() }

type ReadyResult struct{}

// TileResultMessage carries the rendered tile back as an image.Image:
// the raster backend's own pixmap (which already satisfies
// image.Image) read through directly rather than copied, matching
// spec §4.16's "bitmap transferred zero-copy". StrokeIDsRendered is
// the subset of the request's StrokeIDs whose bbox actually intersects
// the tile's world bounds (spec §4.16's output contract), letting the
// coordinator invalidate composition precisely.
type TileResultMessage struct {
	TileKey           TileKey
	Bitmap            image.Image
	StrokeIDsRendered []string
}

type TileErrorMessage struct {
	TileKey   TileKey
	ErrorText string
}

func (ReadyResult) isResult()       {}
func (TileResultMessage) isResult() {}
func (TileErrorMessage) isResult()  {}

// ColorResolvers bundles the two external collaborators spec §6 names,
// shared by reference across every worker a Coordinator spawns so a
// single host-supplied pair of resolvers backs the whole pool.
type ColorResolvers struct {
	Colors      colorresolve.ColorResolver
	Backgrounds colorresolve.BackgroundResolver
}
