package raster

import (
	"image"
	"image/color"
)

// pixmap is a straight-alpha RGBA8 pixel buffer implementing
// image.Image and draw.Image, so it composes with the standard image
// ecosystem and golang.org/x/image/vector's rasterizer output.
type pixmap struct {
	width, height int
	pix           []uint8 // 4 bytes/pixel, straight alpha
}

func newPixmap(width, height int) *pixmap {
	return &pixmap{width: width, height: height, pix: make([]uint8, width*height*4)}
}

func (p *pixmap) ColorModel() color.Model { return color.RGBAModel }

func (p *pixmap) Bounds() image.Rectangle { return image.Rect(0, 0, p.width, p.height) }

func (p *pixmap) At(x, y int) color.Color {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return color.RGBA{}
	}
	i := (y*p.width + x) * 4
	return color.RGBA{R: p.pix[i], G: p.pix[i+1], B: p.pix[i+2], A: p.pix[i+3]}
}

func (p *pixmap) Set(x, y int, c color.Color) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	r, g, b, a := c.RGBA()
	i := (y*p.width + x) * 4
	p.pix[i+0] = uint8(r >> 8)
	p.pix[i+1] = uint8(g >> 8)
	p.pix[i+2] = uint8(b >> 8)
	p.pix[i+3] = uint8(a >> 8)
}

func (p *pixmap) clear(r, g, b, a uint8) {
	for i := 0; i < len(p.pix); i += 4 {
		p.pix[i+0] = r
		p.pix[i+1] = g
		p.pix[i+2] = b
		p.pix[i+3] = a
	}
}

func (p *pixmap) resize(width, height int) {
	p.width, p.height = width, height
	p.pix = make([]uint8, width*height*4)
}

// blendPixel composites src (straight alpha, [0,1] channels) over the
// pixel at (x,y) using the given blend mode and global alpha.
func (p *pixmap) blendPixel(x, y int, r, g, b, a, globalAlpha float64, mode blendMode) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	a *= globalAlpha
	if a <= 0 {
		return
	}
	i := (y*p.width + x) * 4
	dr := float64(p.pix[i+0]) / 255
	dg := float64(p.pix[i+1]) / 255
	db := float64(p.pix[i+2]) / 255
	da := float64(p.pix[i+3]) / 255

	var outR, outG, outB, outA float64
	switch mode {
	case blendDestinationIn:
		outA = da * a
		outR, outG, outB = dr, dg, db
	case blendDestinationOut:
		outA = da * (1 - a)
		outR, outG, outB = dr, dg, db
	case blendMultiply:
		mr, mg, mb := dr*r, dg*g, db*b
		outA = a + da*(1-a)
		if outA > 0 {
			outR = (mr*a + dr*da*(1-a)) / outA
			outG = (mg*a + dg*da*(1-a)) / outA
			outB = (mb*a + db*da*(1-a)) / outA
		}
	default: // blendSourceOver
		outA = a + da*(1-a)
		if outA > 0 {
			outR = (r*a + dr*da*(1-a)) / outA
			outG = (g*a + dg*da*(1-a)) / outA
			outB = (b*a + db*da*(1-a)) / outA
		}
	}

	p.pix[i+0] = clamp255(outR * 255)
	p.pix[i+1] = clamp255(outG * 255)
	p.pix[i+2] = clamp255(outB * 255)
	p.pix[i+3] = clamp255(outA * 255)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
