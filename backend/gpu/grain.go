package gpu

import (
	"math"

	"github.com/inkcore/strokes/backend"
)

const grainPatternSize = 64

// ApplyGrain subtracts a tiled copy of texture's alpha from the active
// target's alpha, scaled 0.3 and offset, through the grain program
// (destination-out), mirroring spec §4.14's grain pass.
func (b *Backend) ApplyGrain(texture *backend.TextureHandle, offsetX, offsetY, strength float64) {
	if texture == nil || strength <= 0 || b.lost {
		return
	}
	pattern := b.grainPattern(texture)
	if pattern == nil {
		return
	}
	b.pipelines.bind(b.pipelines.Grain())
	dst := b.activeColor()
	const scale = 0.3
	for y := 0; y < dst.height; y++ {
		for x := 0; x < dst.width; x++ {
			u := (float64(x)-offsetX)*scale/float64(pattern.width) - math.Floor((float64(x)-offsetX)*scale/float64(pattern.width))
			v := (float64(y)-offsetY)*scale/float64(pattern.height) - math.Floor((float64(y)-offsetY)*scale/float64(pattern.height))
			sx := int(u * float64(pattern.width))
			sy := int(v * float64(pattern.height))
			si := (sy*pattern.width + sx) * 4
			grainAlpha := pattern.pix[si+3]
			dst.blendPx(x, y, 0, 0, 0, grainAlpha*float32(strength), blendDestinationOut)
		}
	}
}

func (b *Backend) grainPattern(texture *backend.TextureHandle) *colorBuffer {
	if p, ok := b.grainPatterns[texture]; ok {
		return p
	}
	data, ok := b.textures[texture]
	if !ok {
		return nil
	}
	p := newColorBuffer(grainPatternSize, grainPatternSize)
	for y := 0; y < grainPatternSize; y++ {
		for x := 0; x < grainPatternSize; x++ {
			sx := x % data.width
			sy := y % data.height
			si := (sy*data.width + sx) * 4
			di := (y*grainPatternSize + x) * 4
			copy(p.pix[di:di+4], data.pix[si:si+4])
		}
	}
	b.grainPatterns[texture] = p
	return p
}
