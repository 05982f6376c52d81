package gpu

import (
	"github.com/inkcore/strokes/backend"
	"github.com/inkcore/strokes/internal/geom"
)

// GetOffscreen creates or resizes an FBO-equivalent render target
// keyed by id: its own colour buffer and stencil buffer, matching the
// raster backend's idempotent GetOffscreen, generalized to carry a
// stencil plane since the GPU backend's fills need one per target.
func (b *Backend) GetOffscreen(id string, w, h int) *backend.OffscreenTarget {
	w, h = max1(w), max1(h)
	if existing, ok := b.offscreens[id]; ok {
		existing.color.resize(w, h)
		existing.stencilBuf = make([]uint8, w*h)
		existing.target.Width, existing.target.Height = w, h
		return existing.target
	}
	os := &gpuOffscreen{
		target:     &backend.OffscreenTarget{ID: id, Width: w, Height: h},
		color:      newColorBuffer(w, h),
		stencilBuf: make([]uint8, w*h),
	}
	b.offscreens[id] = os
	return os.target
}

func (b *Backend) BeginOffscreen(target *backend.OffscreenTarget) {
	if target == nil {
		return
	}
	os, ok := b.offscreens[target.ID]
	if !ok {
		return
	}
	os.saved = b.state
	os.prevOS = b.activeOffscreen
	b.activeOffscreen = os
	b.state = state{transform: geom.Identity(), alpha: 1, blend: blendSourceOver}
}

func (b *Backend) EndOffscreen() {
	if b.activeOffscreen == nil {
		return
	}
	os := b.activeOffscreen
	b.state = os.saved
	b.activeOffscreen = os.prevOS
}

// DrawOffscreen composites an offscreen target's colour buffer into
// the active target at (dx,dy,dw,dh), the software-executed
// equivalent of the texture program blitting an FBO's colour
// attachment.
func (b *Backend) DrawOffscreen(target *backend.OffscreenTarget, dx, dy, dw, dh float64) {
	if target == nil || b.lost {
		return
	}
	os, ok := b.offscreens[target.ID]
	if !ok {
		return
	}
	b.pipelines.bind(b.pipelines.Texture())
	b.blitPremultiplied(os.color, dx, dy, dw, dh)
}
