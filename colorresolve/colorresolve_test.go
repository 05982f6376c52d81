package colorresolve

import (
	"testing"

	"github.com/inkcore/strokes/backend"
)

func TestColorTable_ResolveInvertsNearBlackOnlyInDarkMode(t *testing.T) {
	table := ColorTable{}
	black := backend.Color{R: 0.05, G: 0.05, B: 0.05, A: 1}

	if got := table.Resolve(black, false); got != black {
		t.Errorf("light mode: expected colour unchanged, got %+v", got)
	}

	got := table.Resolve(black, true)
	if got.R < 0.5 || got.A != 1 {
		t.Errorf("dark mode: expected near-black lightened with alpha preserved, got %+v", got)
	}

	red := backend.Color{R: 0.8, G: 0.1, B: 0.1, A: 1}
	if got := table.Resolve(red, true); got != red {
		t.Errorf("dark mode: expected non-black colour unchanged, got %+v", got)
	}
}

func TestBackgroundTable_UnknownNameFallsBackToWhite(t *testing.T) {
	bg := NewBackgroundTable()
	got := bg.Resolve("not-a-real-color", "light", false)
	if got.PaperColor != bg.Palette["white"] {
		t.Errorf("expected fallback to white paper, got %+v", got.PaperColor)
	}
	if got.PatternTheme != PatternLight {
		t.Errorf("expected light pattern theme, got %v", got.PatternTheme)
	}
}

func TestBackgroundTable_DarkModeForcesDarkTheme(t *testing.T) {
	bg := NewBackgroundTable()
	got := bg.Resolve("cream", "light", true)
	if got.PatternTheme != PatternDark {
		t.Errorf("expected dark mode to force dark pattern theme, got %v", got.PatternTheme)
	}
}
