package penengine

import (
	"math"
	"testing"

	"github.com/inkcore/strokes/internal/codec"
	"github.com/inkcore/strokes/internal/penconfig"
)

func ballpointConfig() penconfig.Config {
	return penconfig.NewRegistry().Get(penconfig.Ballpoint)
}

func TestCompute_WidthScalesWithPressure(t *testing.T) {
	cfg := ballpointConfig()
	low := Compute(codec.Point{Pressure: 0.1}, cfg, nil, 0)
	high := Compute(codec.Point{Pressure: 0.9}, cfg, nil, 0)
	if !(low.Width < high.Width) {
		t.Errorf("low pressure width %v should be < high pressure width %v", low.Width, high.Width)
	}
}

func TestCompute_OpacityClamped(t *testing.T) {
	cfg := ballpointConfig()
	cfg.PressureOpacityRange = &penconfig.Range{Min: 0, Max: 2} // deliberately out of range
	attrs := Compute(codec.Point{Pressure: 1}, cfg, nil, 0)
	if attrs.Opacity < 0 || attrs.Opacity > 1 {
		t.Errorf("Opacity = %v, want within [0,1]", attrs.Opacity)
	}
}

func TestCompute_WidthFloor(t *testing.T) {
	cfg := ballpointConfig()
	cfg.PressureWidthRange = penconfig.Range{Min: 0, Max: 0}
	cfg.BaseWidth = 0
	attrs := Compute(codec.Point{Pressure: 0}, cfg, nil, 0)
	if attrs.Width < 0.1 {
		t.Errorf("Width = %v, want >= 0.1 floor", attrs.Width)
	}
}

func TestCompute_TiltWidensAndDims(t *testing.T) {
	cfg := ballpointConfig()
	cfg.TiltSensitivity = 1.0
	flat := Compute(codec.Point{Pressure: 0.5, TiltX: 0, TiltY: 0}, cfg, nil, 0)
	tilted := Compute(codec.Point{Pressure: 0.5, TiltX: 50, TiltY: 50}, cfg, nil, 0)
	if !(tilted.Width > flat.Width) {
		t.Errorf("tilted width %v should exceed flat width %v", tilted.Width, flat.Width)
	}
	if !(tilted.Opacity < flat.Opacity) {
		t.Errorf("tilted opacity %v should be less than flat opacity %v", tilted.Opacity, flat.Opacity)
	}
}

func TestCompute_NibProjection(t *testing.T) {
	cfg := ballpointConfig()
	angle := math.Pi / 6
	cfg.NibAngle = &angle
	cfg.NibThickness = 0.25
	cfg.BaseWidth = 4.0

	// Stroke direction aligned with nib angle: delta=0 -> width governed
	// by thickness term (cos(0)=1) alone, scaled by thickness.
	aligned := Compute(codec.Point{Pressure: 1}, cfg, nil, angle)
	// Stroke direction perpendicular to nib: delta=pi/2 -> width governed
	// by the full base width term (sin(pi/2)=1).
	perpendicular := Compute(codec.Point{Pressure: 1}, cfg, nil, angle+math.Pi/2)

	if !(perpendicular.Width > aligned.Width) {
		t.Errorf("perpendicular width %v should exceed aligned width %v", perpendicular.Width, aligned.Width)
	}
}

func TestCompute_BarrelRotationOverridesNibAngle(t *testing.T) {
	cfg := ballpointConfig()
	angle := 0.0
	cfg.NibAngle = &angle
	cfg.NibThickness = 0.3
	cfg.UseBarrelRotation = true
	cfg.BaseWidth = 4.0

	withTwist := Compute(codec.Point{Pressure: 1, Twist: 90}, cfg, nil, 0)
	withoutTwist := Compute(codec.Point{Pressure: 1, Twist: 0}, cfg, nil, 0)

	if withTwist == withoutTwist {
		t.Error("expected barrel rotation (twist!=0) to change the effective nib angle")
	}
}

func TestCompute_VelocityThinning(t *testing.T) {
	cfg := ballpointConfig()
	cfg.Thinning = 1.0

	prev := codec.Point{X: 0, Y: 0, TimestampMS: 0}
	slow := codec.Point{X: 1, Y: 0, Pressure: 0.5, TimestampMS: 100}
	fast := codec.Point{X: 100, Y: 0, Pressure: 0.5, TimestampMS: 1}

	slowAttrs := Compute(slow, cfg, &prev, 0)
	fastAttrs := Compute(fast, cfg, &prev, 0)

	if !(fastAttrs.Width < slowAttrs.Width) {
		t.Errorf("fast stroke width %v should be thinner than slow stroke width %v", fastAttrs.Width, slowAttrs.Width)
	}
}

func TestCompute_NoPrevSkipsThinning(t *testing.T) {
	cfg := ballpointConfig()
	cfg.Thinning = 1.0
	attrs := Compute(codec.Point{Pressure: 0.5}, cfg, nil, 0)
	if attrs.Width <= 0 {
		t.Errorf("Width = %v, want > 0", attrs.Width)
	}
}
