package outline

import "testing"

func TestResolve_ItalicRequiresNibParams(t *testing.T) {
	cases := []struct {
		name            string
		hasNibAngle     bool
		hasNibThickness bool
		want            StrategyID
	}{
		{"both present", true, true, Italic},
		{"missing angle", false, true, Standard},
		{"missing thickness", true, false, Standard},
		{"missing both", false, false, Standard},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Resolve(Italic, c.hasNibAngle, c.hasNibThickness)
			if got != c.want {
				t.Errorf("Resolve = %v, want %v", got, c.want)
			}
		})
	}
}

func TestResolve_StandardRequestedStaysStandard(t *testing.T) {
	if got := Resolve(Standard, true, true); got != Standard {
		t.Errorf("Resolve(Standard, ...) = %v, want Standard", got)
	}
}

func TestGenerate_DispatchesByStrategy(t *testing.T) {
	samples := straightSamples(5, 3)
	pressures := fullPressures(5)

	roundRes := Generate(Standard, samples, pressures, RoundParams{}, ItalicParams{})
	if roundRes.Italic {
		t.Error("Standard dispatch produced an Italic result")
	}

	italicSamples := straightItalicSamples(5)
	italicRes := Generate(Italic, italicSamples, pressures, RoundParams{}, ItalicParams{
		NibWidth:     4,
		NibThickness: 0.25,
	})
	if !italicRes.Italic {
		t.Error("Italic dispatch produced a non-Italic result")
	}
}
