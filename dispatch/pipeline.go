package dispatch

import "github.com/inkcore/strokes/internal/penconfig"

// pipeline names the submission batch a pen config routes through,
// named after the GPU backend's program set (spec §4.15's
// pipeline="stamps" / pipeline="basic").
type pipeline string

const (
	pipelineBasic  pipeline = "basic"
	pipelineStamps pipeline = "stamps"
)

// pipelineFor derives a pen config's pipeline: any type with a scatter
// or ink-stamp config routes through the stamps pipeline, everything
// else is a plain outline fill.
func pipelineFor(cfg penconfig.Config) pipeline {
	if cfg.Stamp != nil || cfg.InkStamp != nil {
		return pipelineStamps
	}
	return pipelineBasic
}

// Mode is the host-configurable pipeline option from spec §6: "basic"
// drops grain and ink pools and forces every pen through a plain
// vertex fill; "advanced" restores grain and ink pools but still
// forces stamp-pipeline pens (pencil, fountain) through a vertex fill
// instead of scattering stamps; "stamps" (or the zero value, ModeAuto)
// is full fidelity, routing each pen through whatever pipelineFor
// derives from its config.
type Mode string

const (
	ModeAuto     Mode = ""
	ModeBasic    Mode = "basic"
	ModeAdvanced Mode = "advanced"
	ModeStamps   Mode = "stamps"
)

// effectivePipeline applies a Dispatcher's Mode ceiling on top of a pen
// config's natural pipeline.
func effectivePipeline(mode Mode, natural pipeline) pipeline {
	if mode == ModeBasic || mode == ModeAdvanced {
		return pipelineBasic
	}
	return natural
}

// grainToTextureStrength scales a pen config's base grain strength by
// the stroke's own style.grain modulator: grain=0 softens the pass to
// 60% of baseStrength, grain=1 pushes it to 140%, matching the
// scatter computer's own grainNoise swing-vs-steady modulation
// (internal/stamp's grainNoise) so grain behaves consistently whether
// it thins particle opacity or a texture-based pass.
func grainToTextureStrength(baseStrength, styleGrain float64) float64 {
	g := styleGrain
	if g < 0 {
		g = 0
	}
	if g > 1 {
		g = 1
	}
	return baseStrength * (0.6 + 0.8*g)
}
