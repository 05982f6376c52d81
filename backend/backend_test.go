package backend

import "testing"

func TestParseHex_ThreeDigit(t *testing.T) {
	c, err := ParseHex("#f0a")
	if err != nil {
		t.Fatal(err)
	}
	if c.R != 1 || c.G != 0 || c.A != 1 {
		t.Errorf("got %+v", c)
	}
}

func TestParseHex_SixDigit(t *testing.T) {
	c, err := ParseHex("#ff0080")
	if err != nil {
		t.Fatal(err)
	}
	if c.R != 1 || c.B != float64(0x80)/255 || c.A != 1 {
		t.Errorf("got %+v", c)
	}
}

func TestParseHex_EightDigitWithAlpha(t *testing.T) {
	c, err := ParseHex("#ff008080")
	if err != nil {
		t.Fatal(err)
	}
	if c.A != float64(0x80)/255 {
		t.Errorf("alpha = %v, want %v", c.A, float64(0x80)/255)
	}
}

func TestParseHex_RejectsMissingHash(t *testing.T) {
	if _, err := ParseHex("ff0080"); err == nil {
		t.Error("expected an error for a colour string missing '#'")
	}
}

func TestParseHex_RejectsBadLength(t *testing.T) {
	if _, err := ParseHex("#ff00f"); err == nil {
		t.Error("expected an error for an unsupported hex length")
	}
}

func TestColor_Premultiply(t *testing.T) {
	c := Color{R: 1, G: 0.5, B: 0.25, A: 0.5}
	r, g, b, a := c.Premultiply()
	if r != 0.5 || g != 0.25 || b != 0.125 || a != 0.5 {
		t.Errorf("premultiply = (%v,%v,%v,%v)", r, g, b, a)
	}
}

func TestRegistry_DefaultNilWhenOnlyFactoryReturnsNil(t *testing.T) {
	Unregister(NameGPU)
	Unregister(NameRaster)
	defer func() {
		Unregister(NameGPU)
		Unregister(NameRaster)
	}()

	Register(NameRaster, func() Backend { return nil })
	if Default() != nil {
		t.Fatal("expected nil when the only registered factory returns nil")
	}
}

func TestRegistry_GetUnregisteredReturnsNil(t *testing.T) {
	Unregister("nonexistent")
	if Get("nonexistent") != nil {
		t.Error("expected nil for an unregistered backend name")
	}
}
