// Package penengine computes per-sample width and opacity (C4): pressure
// curve, tilt widening, velocity thinning, and nib projection for italic
// pens.
package penengine

import (
	"math"

	"github.com/inkcore/strokes/internal/codec"
	"github.com/inkcore/strokes/internal/penconfig"
)

// Attributes is the per-sample rendering width/opacity pair.
type Attributes struct {
	Width   float64
	Opacity float64
}

const minWidth = 0.1

// Compute implements spec §4.4 steps 1-7. prev may be nil for the first
// sample in a stroke (thinning is skipped in that case). strokeAngle is
// the tangent direction at this sample, required only when cfg.NibAngle
// is set.
func Compute(pt codec.Point, cfg penconfig.Config, prev *codec.Point, strokeAngle float64) Attributes {
	p := math.Pow(clamp01(pt.Pressure), cfg.PressureCurve)

	width := cfg.BaseWidth * lerp(cfg.PressureWidthRange.Min, cfg.PressureWidthRange.Max, p)

	opacity := cfg.BaseOpacity
	if cfg.PressureOpacityRange != nil {
		opacity = cfg.BaseOpacity * lerp(cfg.PressureOpacityRange.Min, cfg.PressureOpacityRange.Max, p)
	}

	if cfg.TiltSensitivity > 0 {
		t := math.Min(1, math.Hypot(pt.TiltX, pt.TiltY)/70)
		width *= 1 + 3*t*cfg.TiltSensitivity
		opacity *= 1 - 0.6*t*cfg.TiltSensitivity
	}

	if cfg.NibAngle != nil {
		w := cfg.BaseWidth
		thick := w * cfg.NibThickness
		effectiveNibAngle := *cfg.NibAngle
		if cfg.UseBarrelRotation && pt.Twist != 0 {
			effectiveNibAngle = pt.Twist * math.Pi / 180
		}
		delta := strokeAngle - effectiveNibAngle
		width = math.Hypot(w*math.Sin(delta), thick*math.Cos(delta)) * lerp(0.5, 1.0, p)
	}

	if prev != nil && cfg.Thinning > 0 {
		dx := pt.X - prev.X
		dy := pt.Y - prev.Y
		dt := pt.TimestampMS - prev.TimestampMS
		const eps = 1e-6
		if dt < eps {
			dt = eps
		}
		v := math.Hypot(dx, dy) / dt
		width *= 1 - math.Min(1, v/3)*cfg.Thinning*0.5
	}

	if width < minWidth {
		width = minWidth
	}
	opacity = clamp01(opacity)

	return Attributes{Width: width, Opacity: opacity}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
