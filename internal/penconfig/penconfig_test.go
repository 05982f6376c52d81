package penconfig

import "testing"

func TestRegistry_Get_KnownTypes(t *testing.T) {
	r := NewRegistry()
	for _, pen := range []PenType{Ballpoint, FeltTip, Pencil, Fountain, Highlighter, Brush} {
		cfg := r.Get(pen)
		if cfg.BaseWidth <= 0 {
			t.Errorf("pen %v: BaseWidth = %v, want > 0", pen, cfg.BaseWidth)
		}
		if cfg.OutlineStrategy != "standard" && cfg.OutlineStrategy != "italic" {
			t.Errorf("pen %v: OutlineStrategy = %q, want standard or italic", pen, cfg.OutlineStrategy)
		}
	}
}

func TestRegistry_Get_UnknownFallsBackToBallpoint(t *testing.T) {
	r := NewRegistry()
	unknown := PenType(9999)
	got := r.Get(unknown)
	want := r.Get(Ballpoint)
	if got != want {
		t.Errorf("Get(unknown) = %+v, want ballpoint default %+v", got, want)
	}
}

func TestRegistry_Fountain_HasNibAndInkPreset(t *testing.T) {
	r := NewRegistry()
	cfg := r.Get(Fountain)
	if cfg.NibAngle == nil {
		t.Fatal("Fountain config missing NibAngle")
	}
	if cfg.InkPreset == nil {
		t.Fatal("Fountain config missing InkPreset")
	}
	if cfg.OutlineStrategy != "italic" {
		t.Errorf("Fountain OutlineStrategy = %q, want italic", cfg.OutlineStrategy)
	}
}

func TestRegistry_Highlighter_IsHighlighterMode(t *testing.T) {
	r := NewRegistry()
	cfg := r.Get(Highlighter)
	if !cfg.HighlighterMode {
		t.Error("Highlighter config: HighlighterMode = false, want true")
	}
	if cfg.BaseOpacity != 0.3 {
		t.Errorf("Highlighter BaseOpacity = %v, want 0.3", cfg.BaseOpacity)
	}
}

func TestRegistry_Pencil_HasStampAndGrain(t *testing.T) {
	r := NewRegistry()
	cfg := r.Get(Pencil)
	if cfg.Stamp == nil {
		t.Error("Pencil config missing Stamp")
	}
	if cfg.Grain == nil || !cfg.Grain.Enabled {
		t.Error("Pencil config missing enabled Grain")
	}
}
