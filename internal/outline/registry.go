package outline

// StrategyID identifies an outline generation strategy.
type StrategyID string

const (
	Standard StrategyID = "standard"
	Italic   StrategyID = "italic"
)

// Resolve picks the strategy to use for a pen style. Italic falls back
// to standard whenever the style is missing the nib parameters the
// projected-ellipse generator needs (spec §4.7).
func Resolve(requested StrategyID, hasNibAngle, hasNibThickness bool) StrategyID {
	if requested == Italic && hasNibAngle && hasNibThickness {
		return Italic
	}
	return Standard
}

// RoundParams bundles the arguments GenerateRound needs beyond the
// sample slice, so the registry's dispatch signature matches Italic's.
type RoundParams struct {
	Smoothing  float64
	TaperStart float64
	TaperEnd   float64
}

// Generate dispatches to the resolved strategy. italicParams is ignored
// when the resolved strategy is Standard and may be zero-valued.
func Generate(strategy StrategyID, samples []Sample, pressures []float64, round RoundParams, italic ItalicParams) Result {
	switch strategy {
	case Italic:
		return GenerateItalic(samples, pressures, italic)
	default:
		return GenerateRound(samples, round.Smoothing, round.TaperStart, round.TaperEnd)
	}
}
