package raster

import (
	"math"

	"github.com/inkcore/strokes/backend"
)

const grainPatternSize = 64

// ApplyGrain erases a fraction of the current target's alpha using a
// tiled copy of texture's pattern, offset by (offsetX,offsetY) and
// scaled down (scale 0.3) the way paper grain is applied over ink
// rather than under it. The repeating pattern is cached per texture id
// since it doesn't change between calls.
func (b *Backend) ApplyGrain(texture *backend.TextureHandle, offsetX, offsetY, strength float64) {
	if texture == nil || strength <= 0 || b.nextTexID == 0 {
		return
	}
	pattern := b.grainPattern(b.nextTexID)
	if pattern == nil {
		return
	}
	dst := b.activePixmap()
	const scale = 0.3
	for y := 0; y < dst.height; y++ {
		for x := 0; x < dst.width; x++ {
			u := (float64(x)-offsetX)*scale/float64(pattern.width) - math.Floor((float64(x)-offsetX)*scale/float64(pattern.width))
			v := (float64(y)-offsetY)*scale/float64(pattern.height) - math.Floor((float64(y)-offsetY)*scale/float64(pattern.height))
			sx := int(u * float64(pattern.width))
			sy := int(v * float64(pattern.height))
			si := (sy*pattern.width + sx) * 4
			grainAlpha := float64(pattern.pix[si+3]) / 255
			dst.blendPixel(x, y, 0, 0, 0, grainAlpha, strength, blendDestinationOut)
		}
	}
}

func (b *Backend) grainPattern(texID uint64) *pixmap {
	if p, ok := b.grainPatterns[texID]; ok {
		return p
	}
	data, ok := b.textures[texID]
	if !ok {
		return nil
	}
	p := &pixmap{width: grainPatternSize, height: grainPatternSize, pix: make([]uint8, grainPatternSize*grainPatternSize*4)}
	for y := 0; y < grainPatternSize; y++ {
		for x := 0; x < grainPatternSize; x++ {
			sx := x % data.Width
			sy := y % data.Height
			si := (sy*data.Width + sx) * 4
			di := (y*grainPatternSize + x) * 4
			copy(p.pix[di:di+4], data.Pixels[si:si+4])
		}
	}
	b.grainPatterns[texID] = p
	return p
}
