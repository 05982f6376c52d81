// Package dispatch implements the Stroke Dispatcher (C15): given a
// backend satisfying the capability set in package backend, a stroke's
// compressed samples and style, and the shared path cache, it decides
// which rendering pipeline a stroke takes and drives the backend
// through it. The dispatcher never branches on concrete backend type —
// it only ever calls methods on the backend.Backend interface, mirroring
// the interface's own doc comment that it exists precisely so callers
// don't have to.
package dispatch

import (
	"github.com/inkcore/strokes/backend"
	"github.com/inkcore/strokes/internal/penconfig"
)

// Stroke is the persisted, immutable-after-capture stroke record (spec
// §3's Stroke type): compressed samples plus the references needed to
// resolve its rendering style.
type Stroke struct {
	ID             string
	PageIndex      int
	StyleRef       string
	StyleOverrides *StyleOverrides
	BBox           [4]float64 // centerline extent: minX,minY,maxX,maxY
	GrainAnchor    *[2]float64
	PointCount     int
	Pts            []byte // codec.Encode output
}

// PenStyle is the per-stroke style record (spec §3's PenStyle):
// everything a user can set independent of the pen-type defaults in
// penconfig.Config.
type PenStyle struct {
	Pen             penconfig.PenType
	Color           backend.Color
	WidthWU         float64
	Opacity         float64 // [0,1]
	Smoothing       float64
	PressureCurve   float64
	TiltSensitivity float64
	NibAngleRad     *float64 // overrides cfg.NibAngle when set
	NibThickness    float64  // overrides cfg.NibThickness when > 0
	NibPressure     float64
	InkPreset       *penconfig.InkPreset // overrides cfg.InkPreset when set
	Grain           float64              // [0,1] style-level grain modulator
}

// StyleOverrides is the sparse per-stroke patch applied on top of the
// style a StyleRef resolves to (spec §3's style_overrides?).
type StyleOverrides struct {
	Color   *backend.Color
	WidthWU *float64
	Opacity *float64
	Grain   *float64
}

// StyleResolver looks up the PenStyle a stroke's StyleRef names. A
// missing ref is reported via ok=false; Dispatcher falls back to the
// built-in default so a stroke always renders something (spec §4.15
// step 1's "built-in default on missing lookup").
type StyleResolver interface {
	Resolve(styleRef string) (PenStyle, bool)
}

// DefaultStyle is returned when a StyleResolver has no entry for a
// stroke's style_ref.
func DefaultStyle() PenStyle {
	return PenStyle{
		Pen:     penconfig.Ballpoint,
		Color:   backend.Color{A: 1},
		WidthWU: 2.0,
		Opacity: 1.0,
	}
}

func applyOverrides(style *PenStyle, o *StyleOverrides) {
	if o == nil {
		return
	}
	if o.Color != nil {
		style.Color = *o.Color
	}
	if o.WidthWU != nil {
		style.WidthWU = *o.WidthWU
	}
	if o.Opacity != nil {
		style.Opacity = *o.Opacity
	}
	if o.Grain != nil {
		style.Grain = *o.Grain
	}
}

// GrainContext supplies the grain pass's paper-texture handle and the
// stroke's grain anchor offset (spec §3's grain_anchor), so repeated
// strokes on the same page share one consistent noise phase.
type GrainContext struct {
	Texture        *backend.TextureHandle
	AnchorX, AnchorY float64
}

// StampContext supplies the pre-coloured textures the stamp pipelines
// deposit: a solid scatter dot for pencil-type pens and a pre-coloured
// ink tile for fountain-type pens. Producing these textures (colour
// resolution, dark-mode adjustment) is an external collaborator's job;
// the dispatcher only consumes the handles.
type StampContext struct {
	ScatterTexture *backend.TextureHandle
	InkTexture     *backend.TextureHandle
}
