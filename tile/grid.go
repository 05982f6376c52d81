package tile

import "github.com/inkcore/strokes/internal/lod"

// TileWidth/TileHeight are the default tile dimensions in physical
// pixels, matching internal/parallel's 64x64 tile grid (chosen there
// for L1-cache residency); the tile worker protocol doesn't mandate a
// fixed size (tile_physical_px is part of every request), but this is
// the default a coordinator without its own opinion should use.
const (
	TileWidth  = 64
	TileHeight = 64
)

// zoom bands, finest (band 0, most detail) first, mirroring
// lod.SelectLevel's own threshold ladder one level per band.
const (
	bandZoom0 = 1.0  // full detail
	bandZoom1 = 0.4  // matches lod.Level1's threshold range
	bandZoom2 = 0.2  // matches lod.Level2's threshold range
	bandZoom3 = 0.05 // matches lod.Level3's threshold range
)

// zoomBandBaseZoom maps a tile's discrete zoom band to the zoom factor
// lod.SelectLevel expects, so a tile's LOD is chosen the same way a
// continuously-zooming viewport would pick one (spec §4.16 step 2).
func zoomBandBaseZoom(band ZoomBand) float64 {
	switch {
	case band <= 0:
		return bandZoom0
	case band == 1:
		return bandZoom1
	case band == 2:
		return bandZoom2
	default:
		return bandZoom3
	}
}

func lodForZoomBand(band ZoomBand) lod.Level {
	return lod.SelectLevel(zoomBandBaseZoom(band))
}

// rectsOverlap reports whether two axis-aligned world-space rects
// intersect, used to cull pages and strokes outside a tile's bounds
// before paying for any paint call (spec §4.16 steps 3-4).
func rectsOverlap(x1, y1, w1, h1, x2, y2, w2, h2 float64) bool {
	if w1 <= 0 || h1 <= 0 || w2 <= 0 || h2 <= 0 {
		return false
	}
	return x1 < x2+w2 && x2 < x1+w1 && y1 < y2+h2 && y2 < y1+h1
}
