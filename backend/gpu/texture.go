package gpu

import "github.com/inkcore/strokes/backend"

// CreateTexture uploads source's pixels, premultiplying on ingest
// since this backend's internal colour space is premultiplied
// (spec §4.14's colour-space split from the raster backend's straight
// alpha). The returned handle's pointer identity is the lookup key:
// TextureHandle carries no exported id outside package backend, so
// handle-keyed storage here replaces the raster backend's "most
// recently created texture" fallback with an exact per-handle cache.
func (b *Backend) CreateTexture(source *backend.ImageSource) *backend.TextureHandle {
	pix := make([]float32, source.Width*source.Height*4)
	for i := 0; i+3 < len(source.Pixels); i += 4 {
		r := float32(source.Pixels[i+0]) / 255
		g := float32(source.Pixels[i+1]) / 255
		bch := float32(source.Pixels[i+2]) / 255
		a := float32(source.Pixels[i+3]) / 255
		if !source.Premultiplied {
			r *= a
			g *= a
			bch *= a
		}
		pix[i+0], pix[i+1], pix[i+2], pix[i+3] = r, g, bch, a
	}
	handle := &backend.TextureHandle{Width: source.Width, Height: source.Height}
	b.textures[handle] = &gpuTexture{width: source.Width, height: source.Height, pix: pix}
	return handle
}

func (b *Backend) DeleteTexture(h *backend.TextureHandle) {
	delete(b.textures, h)
	delete(b.grainPatterns, h)
}

// DrawImage blits a created texture into the destination rect.
func (b *Backend) DrawImage(src *backend.TextureHandle, dx, dy, dw, dh float64) {
	if b.lost {
		return
	}
	tex, ok := b.textures[src]
	if !ok {
		return
	}
	b.pipelines.bind(b.pipelines.Texture())
	b.blitFloatTexture(tex, dx, dy, dw, dh)
}

// blitPremultiplied nearest-samples a colorBuffer (an offscreen
// target's colour attachment) into the destination rect.
func (b *Backend) blitPremultiplied(src *colorBuffer, dx, dy, dw, dh float64) {
	b.blitTexture(src.pix, src.width, src.height, dx, dy, dw, dh)
}

func (b *Backend) blitFloatTexture(tex *gpuTexture, dx, dy, dw, dh float64) {
	b.blitTexture(tex.pix, tex.width, tex.height, dx, dy, dw, dh)
}

func (b *Backend) blitTexture(srcPix []float32, srcW, srcH int, dx, dy, dw, dh float64) {
	dst := b.activeColor()
	corners := b.transformAll(rectPolygon(dx, dy, dw, dh))
	minX, minY, maxX, maxY := boundsOf(corners)
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > dst.width {
		maxX = dst.width
	}
	if maxY > dst.height {
		maxY = dst.height
	}
	fMinX, fMinY, fMaxX, fMaxY := corners[0].X, corners[0].Y, corners[0].X, corners[0].Y
	for _, c := range corners[1:] {
		if c.X < fMinX {
			fMinX = c.X
		}
		if c.X > fMaxX {
			fMaxX = c.X
		}
		if c.Y < fMinY {
			fMinY = c.Y
		}
		if c.Y > fMaxY {
			fMaxY = c.Y
		}
	}
	spanX, spanY := fMaxX-fMinX, fMaxY-fMinY
	if spanX <= 0 || spanY <= 0 {
		return
	}
	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			u := (float64(x) + 0.5 - fMinX) / spanX
			v := (float64(y) + 0.5 - fMinY) / spanY
			if u < 0 || u >= 1 || v < 0 || v >= 1 {
				continue
			}
			sx := clampi(int(u*float64(srcW)), 0, srcW-1)
			sy := clampi(int(v*float64(srcH)), 0, srcH-1)
			si := (sy*srcW + sx) * 4
			r, g, bch, a := srcPix[si], srcPix[si+1], srcPix[si+2], srcPix[si+3]
			dst.blendPx(x, y, r*float32(b.state.alpha), g*float32(b.state.alpha), bch*float32(b.state.alpha), a*float32(b.state.alpha), b.state.blend)
		}
	}
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// shadowStyle mirrors the raster backend's drop-shadow underlay.
type shadowStyle struct {
	offsetX, offsetY, blur float64
	color                  backend.Color
}

func (b *Backend) SetShadow(offsetX, offsetY, blur float64, c backend.Color) {
	b.shadowSet = true
	b.shadow = shadowStyle{offsetX: offsetX, offsetY: offsetY, blur: blur, color: c}
}

func (b *Backend) ClearShadow() {
	b.shadowSet = false
	b.shadow = shadowStyle{}
}
