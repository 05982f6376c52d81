package raster

import (
	"github.com/inkcore/strokes/backend"
	"github.com/inkcore/strokes/internal/geom"
)

// GetOffscreen returns the offscreen target registered under id,
// creating it on first use and reallocating its pixmap if the
// requested size changed. Idempotent by id, matching the GPU backend's
// framebuffer-pool semantics.
func (b *Backend) GetOffscreen(id string, w, h int) *backend.OffscreenTarget {
	t, ok := b.offscreens[id]
	if !ok {
		t = &offscreenTarget{id: id, pix: newPixmap(w, h)}
		b.offscreens[id] = t
	} else if t.pix.width != w || t.pix.height != h {
		t.pix.resize(w, h)
	}
	return &backend.OffscreenTarget{ID: id, Width: w, Height: h}
}

// BeginOffscreen pushes target onto the render-target stack: subsequent
// drawing calls affect target's pixmap instead of the main canvas (or
// the previously active offscreen), with its own fresh transform/style
// state, until the matching EndOffscreen.
func (b *Backend) BeginOffscreen(target *backend.OffscreenTarget) {
	t, ok := b.offscreens[target.ID]
	if !ok {
		return
	}
	t.saved = b.state
	t.prevOS = b.activeOffscreen
	b.offscreenStack = append(b.offscreenStack, b.activeOffscreen)
	b.activeOffscreen = t
	b.state = state{transform: geom.Identity(), alpha: 1, blend: blendSourceOver}
}

// EndOffscreen pops back to the previously active render target.
func (b *Backend) EndOffscreen() {
	if b.activeOffscreen == nil {
		return
	}
	prev := b.activeOffscreen.prevOS
	b.state = b.activeOffscreen.saved
	b.activeOffscreen = prev
	if n := len(b.offscreenStack); n > 0 {
		b.offscreenStack = b.offscreenStack[:n-1]
	}
}

// DrawOffscreen composites an offscreen target's pixmap into the
// currently active target as an image, honouring the current
// transform, alpha and blend mode.
func (b *Backend) DrawOffscreen(target *backend.OffscreenTarget, dx, dy, dw, dh float64) {
	t, ok := b.offscreens[target.ID]
	if !ok {
		return
	}
	b.blitPixmap(t.pix, dx, dy, dw, dh)
}
