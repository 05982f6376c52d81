// Package colorresolve implements the colour and background resolver
// collaborators spec §6 describes as inputs supplied by the host: a
// style colour resolver (a style's colour plus a dark-mode flag maps
// to a concrete colour) and a background resolver (a page's named
// background colour, theme, and dark-mode flag map to a paper colour
// and pattern theme). Neither collaborator is owned by the rendering
// core; this package provides the interfaces the core's dispatcher and
// tile worker consume plus a small built-in table good enough to drive
// the pipeline without a host-supplied implementation.
package colorresolve

import "github.com/inkcore/strokes/backend"

// PatternTheme selects which tiled background pattern asset a page
// paints with (spec §6's pattern_theme ∈ {light, dark}).
type PatternTheme string

const (
	PatternLight PatternTheme = "light"
	PatternDark  PatternTheme = "dark"
)

// Background is the resolved paint for one page's background: a flat
// paper colour plus which pattern asset variant to clip over it.
type Background struct {
	PaperColor   backend.Color
	PatternTheme PatternTheme
}

// ColorResolver maps a style colour and the page's dark-mode flag to a
// concrete colour. This is the exact shape dispatch.ColorResolver
// expects, so any ColorResolver here plugs directly into a Dispatcher.
type ColorResolver interface {
	Resolve(c backend.Color, darkMode bool) backend.Color
}

// BackgroundResolver maps (backgroundColor, backgroundColorTheme,
// darkMode) to a concrete Background, for the tile worker's page
// background painting step (spec §4.16 step 3).
type BackgroundResolver interface {
	Resolve(backgroundColor, backgroundColorTheme string, darkMode bool) Background
}

// nearBlackThreshold is the channel ceiling below which a colour is
// treated as "ink black" and gets inverted for dark mode.
const nearBlackThreshold = 0.15

// darkModeInkLightness is the lightness ColorTable.Resolve substitutes
// for near-black ink colours when darkMode is set.
const darkModeInkLightness = 0.92

// ColorTable is a minimal ColorResolver: colours close to black are
// lightened for dark-mode legibility, everything else passes through
// unchanged. A host with a real semantic colour palette supplies its
// own ColorResolver instead.
type ColorTable struct{}

func (ColorTable) Resolve(c backend.Color, darkMode bool) backend.Color {
	if !darkMode || !isNearBlack(c) {
		return c
	}
	return backend.Color{R: darkModeInkLightness, G: darkModeInkLightness, B: darkModeInkLightness, A: c.A}
}

func isNearBlack(c backend.Color) bool {
	return c.R < nearBlackThreshold && c.G < nearBlackThreshold && c.B < nearBlackThreshold
}

// darkInversionFactor controls how strongly BackgroundTable darkens a
// light-mode paper colour to derive its dark-mode counterpart.
const darkInversionFactor = 0.85

// BackgroundTable is a minimal BackgroundResolver backed by a small
// named palette (e.g. "white", "cream", "gray"); unknown names fall
// back to white paper, matching spec §7's MissingResource policy of
// degrading gracefully rather than failing the tile render.
type BackgroundTable struct {
	Palette map[string]backend.Color
}

// NewBackgroundTable returns a BackgroundTable seeded with the
// standard notebook paper colours.
func NewBackgroundTable() *BackgroundTable {
	return &BackgroundTable{
		Palette: map[string]backend.Color{
			"white": {R: 1, G: 1, B: 1, A: 1},
			"cream": {R: 0.98, G: 0.96, B: 0.89, A: 1},
			"gray":  {R: 0.5, G: 0.5, B: 0.5, A: 1},
		},
	}
}

func (t *BackgroundTable) Resolve(backgroundColor, backgroundColorTheme string, darkMode bool) Background {
	paper, ok := t.Palette[backgroundColor]
	if !ok {
		paper = t.Palette["white"]
	}
	theme := PatternLight
	if backgroundColorTheme == string(PatternDark) {
		theme = PatternDark
	}
	if darkMode {
		paper = darken(paper)
		theme = PatternDark
	}
	return Background{PaperColor: paper, PatternTheme: theme}
}

func darken(c backend.Color) backend.Color {
	return backend.Color{R: 1 - c.R*darkInversionFactor, G: 1 - c.G*darkInversionFactor, B: 1 - c.B*darkInversionFactor, A: c.A}
}
