// Package penconfig is the Pen Config Registry (C3): a read-only
// mapping from pen type to its rendering parameters. Lookup never
// fails — an unknown style falls back to the built-in ballpoint
// default, so a stroke always produces some output.
//
// The per-pen-type table is shaped after pen-parameter switches seen in
// handwriting exporters for pressure-sampled tablets (base width,
// opacity, and per-type quirks keyed by pen type), generalized here to
// the width/opacity/taper/grain/stamp/ink/tilt fields the renderer
// needs.
package penconfig

// PenType identifies a drawing instrument.
type PenType int

const (
	Ballpoint PenType = iota
	FeltTip
	Pencil
	Fountain
	Highlighter
	Brush
)

// PressureCurveDefault is the default pressure exponent used when a
// config doesn't override it.
const PressureCurveDefault = 1.0

// Range is an inclusive [Min,Max] interpolation range.
type Range struct {
	Min, Max float64
}

// GrainConfig controls the grain/paper-texture pass.
type GrainConfig struct {
	Enabled  bool
	Strength float64 // [0,1] base strength before style.grain modulation
}

// StampConfig drives the scatter stamp computer (C8), used by pencil.
type StampConfig struct {
	Spacing float64 // step multiplier against particle size
}

// InkStampConfig drives the ink-shading stamp computer (C9), used by
// fountain pens with a nib.
type InkStampConfig struct {
	Spacing           float64
	StampSizeFraction float64
}

// TiltScatterConfig widens/narrows scatter based on stylus tilt.
type TiltScatterConfig struct {
	Enabled bool
}

// InkPreset selects fountain-pen deposit behaviour (spec §3,
// InkPresetConfig).
type InkPreset struct {
	Name            string
	Shading         float64
	EdgeDarkening   float64
	GrainInfluence  float64
	Feathering      float64
	BaseOpacity     float64
}

var StandardInkPreset = InkPreset{
	Name:           "standard",
	Shading:        0.6,
	EdgeDarkening:  0.3,
	GrainInfluence: 0.2,
	Feathering:     0.15,
	BaseOpacity:    0.85,
}

// Config is the static, per-pen-type parameter bundle (spec §3
// PenConfig).
type Config struct {
	BaseWidth           float64
	PressureWidthRange  Range
	PressureOpacityRange *Range // nullable
	Thinning            float64
	Streamline          float64
	Smoothing           float64
	TaperStart          float64
	TaperEnd            float64
	TiltSensitivity     float64
	PressureCurve       float64
	BaseOpacity         float64
	HighlighterMode     bool

	NibAngle           *float64
	NibThickness       float64
	UseBarrelRotation  bool

	Grain      *GrainConfig
	Stamp      *StampConfig
	InkStamp   *InkStampConfig
	TiltScatter *TiltScatterConfig

	InkPreset *InkPreset

	// OutlineStrategy is "standard" or "italic" (C7).
	OutlineStrategy string
}

func ptr(f float64) *float64 { return &f }

// Registry is the read-only PenType -> Config table.
type Registry struct {
	configs map[PenType]Config
}

// NewRegistry builds the default registry.
func NewRegistry() *Registry {
	r := &Registry{configs: make(map[PenType]Config, 6)}

	r.configs[Ballpoint] = Config{
		BaseWidth:          2.0,
		PressureWidthRange: Range{0.6, 1.3},
		Thinning:           0.3,
		Streamline:         0.5,
		Smoothing:          0.65,
		TaperStart:         2,
		TaperEnd:           2,
		TiltSensitivity:    0,
		PressureCurve:      PressureCurveDefault,
		BaseOpacity:        1.0,
		OutlineStrategy:    "standard",
	}

	r.configs[FeltTip] = Config{
		BaseWidth:          3.6, // 2.0 * 1.8, matching the fineliner multiplier
		PressureWidthRange: Range{0.8, 1.1},
		Thinning:           0.1,
		Streamline:         0.5,
		Smoothing:          0.6,
		TaperStart:         1,
		TaperEnd:           1,
		PressureCurve:      PressureCurveDefault,
		BaseOpacity:        1.0,
		OutlineStrategy:    "standard",
	}

	r.configs[Pencil] = Config{
		BaseWidth:          2.2,
		PressureWidthRange: Range{0.5, 1.2},
		Thinning:           0.2,
		Streamline:         0.4,
		Smoothing:          0.5,
		TaperStart:         3,
		TaperEnd:           3,
		PressureCurve:      1.3,
		BaseOpacity:        0.9,
		Grain:              &GrainConfig{Enabled: true, Strength: 0.4},
		Stamp:              &StampConfig{Spacing: 0.4},
		TiltScatter:        &TiltScatterConfig{Enabled: true},
		OutlineStrategy:    "standard",
	}

	r.configs[Fountain] = Config{
		BaseWidth:            2.4,
		PressureWidthRange:   Range{0.5, 1.6},
		PressureOpacityRange: &Range{0.7, 1.0},
		Thinning:             0.15,
		Streamline:           0.55,
		Smoothing:            0.7,
		TaperStart:           4,
		TaperEnd:             4,
		TiltSensitivity:      0.5,
		PressureCurve:        PressureCurveDefault,
		BaseOpacity:          1.0,
		NibAngle:             ptr(0.3927), // pi/8, overridable by style
		NibThickness:         0.3,
		UseBarrelRotation:    true,
		InkStamp:             &InkStampConfig{Spacing: 0.35, StampSizeFraction: 0.9},
		InkPreset:            &StandardInkPreset,
		OutlineStrategy:      "italic",
	}

	r.configs[Highlighter] = Config{
		BaseWidth:          15.0,
		PressureWidthRange: Range{1.0, 1.0},
		Thinning:           0,
		Streamline:         0.3,
		Smoothing:          0.3,
		TaperStart:         0,
		TaperEnd:           0,
		PressureCurve:      PressureCurveDefault,
		BaseOpacity:        0.3,
		HighlighterMode:    true,
		OutlineStrategy:    "standard",
	}

	r.configs[Brush] = Config{
		BaseWidth:          4.0,
		PressureWidthRange: Range{0.2, 2.0},
		Thinning:           0.4,
		Streamline:         0.6,
		Smoothing:          0.55,
		TaperStart:         5,
		TaperEnd:           5,
		TiltSensitivity:    0.3,
		PressureCurve:      1.5,
		BaseOpacity:        1.0,
		OutlineStrategy:    "standard",
	}

	return r
}

// Get returns the config for a pen type, falling back to the ballpoint
// default for unknown types so lookup never fails.
func (r *Registry) Get(pen PenType) Config {
	if cfg, ok := r.configs[pen]; ok {
		return cfg
	}
	return r.configs[Ballpoint]
}

// Default returns the built-in fallback configuration (ballpoint).
func (r *Registry) Default() Config {
	return r.configs[Ballpoint]
}
