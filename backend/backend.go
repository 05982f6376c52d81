// Package backend declares the Drawing Backend Interface (C12): the
// capability-set contract that both the Software Raster Backend (C13)
// and the GPU Backend (C14) implement, so the Stroke Dispatcher never
// branches on which concrete backend it holds.
package backend

import (
	"errors"
	"fmt"

	"github.com/inkcore/strokes/internal/geom"
)

// Sentinel backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend cannot
	// be constructed on the current platform (e.g. no GPU context).
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrDeviceLost is returned by GPU-backed operations after the
	// underlying device has been lost; the caller must recreate the
	// backend (spec §4.14's context-loss handling).
	ErrDeviceLost = errors.New("backend: device lost")
)

// BlendMode selects the framebuffer blend function for subsequent
// drawing operations.
type BlendMode int

const (
	BlendSourceOver BlendMode = iota
	BlendDestinationIn
	BlendDestinationOut
	BlendMultiply
)

// Color is a straight-alpha sRGB colour, parsed once from a hex string
// and cached premultiplied by backends that need it.
type Color struct {
	R, G, B, A float64 // [0,1]
}

// Premultiply returns the (r,g,b,a) tuple with colour channels
// multiplied by alpha, as required by the GPU backend's colour space.
func (c Color) Premultiply() (r, g, b, a float64) {
	return c.R * c.A, c.G * c.A, c.B * c.A, c.A
}

// ParseHex parses #RGB, #RGBA, #RRGGBB or #RRGGBBAA into a Color.
func ParseHex(s string) (Color, error) {
	if len(s) == 0 || s[0] != '#' {
		return Color{}, fmt.Errorf("backend: invalid colour %q: missing '#'", s)
	}
	hex := s[1:]
	expand := func(c byte) (byte, byte) { return c, c }

	var r, g, b, a byte
	a = 0xff
	switch len(hex) {
	case 3, 4:
		rh, rl := expand(hex[0])
		gh, gl := expand(hex[1])
		bh, bl := expand(hex[2])
		var err error
		if r, err = hexByte(rh, rl); err != nil {
			return Color{}, err
		}
		if g, err = hexByte(gh, gl); err != nil {
			return Color{}, err
		}
		if b, err = hexByte(bh, bl); err != nil {
			return Color{}, err
		}
		if len(hex) == 4 {
			ah, al := expand(hex[3])
			if a, err = hexByte(ah, al); err != nil {
				return Color{}, err
			}
		}
	case 6, 8:
		var err error
		if r, err = hexByte(hex[0], hex[1]); err != nil {
			return Color{}, err
		}
		if g, err = hexByte(hex[2], hex[3]); err != nil {
			return Color{}, err
		}
		if b, err = hexByte(hex[4], hex[5]); err != nil {
			return Color{}, err
		}
		if len(hex) == 8 {
			if a, err = hexByte(hex[6], hex[7]); err != nil {
				return Color{}, err
			}
		}
	default:
		return Color{}, fmt.Errorf("backend: invalid colour %q: unsupported length", s)
	}

	return Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}, nil
}

func hexByte(hi, lo byte) (byte, error) {
	h, err := hexNibble(hi)
	if err != nil {
		return 0, err
	}
	l, err := hexNibble(lo)
	if err != nil {
		return 0, err
	}
	return h<<4 | l, nil
}

func hexNibble(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, fmt.Errorf("backend: invalid hex digit %q", c)
	}
}

// TextureHandle is an opaque backend-owned texture reference. Handles
// are shared by reference for the duration of a rendering call and
// must not outlive the issuing backend's Destroy.
type TextureHandle struct {
	Width, Height int
	backendID     uint64
}

// OffscreenTarget is an opaque backend-owned render target: an
// auxiliary canvas for the raster backend, or a framebuffer + colour
// texture + optional MSAA renderbuffer + stencil for the GPU backend.
type OffscreenTarget struct {
	ID            string
	Width, Height int
	backendID     uint64
}

// StampQuad is one [x,y,size,opacity] instance submitted to DrawStamps.
type StampQuad struct {
	X, Y, Size, Opacity float64
}

// DiscQuad is one [cx,cy,r] instance submitted to DrawStampDiscs or
// DrawCircles.
type DiscQuad struct {
	CX, CY, R float64
}

// LineSegment is one [x1,y1,x2,y2] entry submitted to DrawLines.
type LineSegment struct {
	X1, Y1, X2, Y2 float64
}

// Backend is the Drawing Backend Interface (C12). All primitives obey
// the current transform unless documented otherwise; Clip/Mask
// operations work in the coordinate space active when they're called.
type Backend interface {
	Name() string
	Init() error
	Close()

	Width() int
	Height() int
	Resize(width, height int)

	// Transform stack.
	Save()
	Restore()
	SetTransform(m geom.Matrix)
	ComposeTransform(m geom.Matrix)
	Translate(x, y float64)
	Scale(x, y float64)
	GetTransform() geom.Matrix

	// Style.
	SetFillColor(c Color)
	SetStrokeColor(c Color)
	SetLineWidth(w float64)
	SetAlpha(a float64)
	SetBlendMode(m BlendMode)

	// Drawing.
	Clear()
	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
	FillPath(vertices []geom.Point)
	FillTriangles(vertices []geom.Point)
	DrawImage(src *TextureHandle, dx, dy, dw, dh float64)

	// Clipping (nested, up to 3 levels).
	ClipRect(x, y, w, h float64)
	ClipPath(vertices []geom.Point)

	// Masking (non-nesting; does not affect stencil clip state).
	MaskToPath(vertices []geom.Point)
	MaskToTriangles(vertices []geom.Point)

	// Offscreen targets.
	GetOffscreen(id string, w, h int) *OffscreenTarget
	BeginOffscreen(target *OffscreenTarget)
	EndOffscreen()
	DrawOffscreen(target *OffscreenTarget, dx, dy, dw, dh float64)

	// Stamps.
	DrawStamps(texture *TextureHandle, quads []StampQuad)
	DrawStampDiscs(c Color, discs []DiscQuad)

	// Grain.
	ApplyGrain(texture *TextureHandle, offsetX, offsetY, strength float64)

	// Textures.
	CreateTexture(source *ImageSource) *TextureHandle
	DeleteTexture(h *TextureHandle)

	// Background helpers.
	DrawLines(segments []LineSegment, c Color, width float64)
	DrawCircles(discs []DiscQuad, c Color)

	// Shadow (no-op permissible on the GPU backend).
	SetShadow(offsetX, offsetY, blur float64, c Color)
	ClearShadow()
}

// ImageSource is a minimal backend-agnostic pixel source for
// CreateTexture: row-major RGBA8 bytes, premultiplied or not per
// Premultiplied.
type ImageSource struct {
	Width, Height int
	Pixels        []byte // len == Width*Height*4
	Premultiplied bool
}
