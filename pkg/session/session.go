package session

import (
	"image"

	"github.com/gravestench/dune/pkg/font"
	"github.com/gravestench/dune/pkg/framebuffer"
	"github.com/gravestench/dune/pkg/globe"
	"github.com/gravestench/dune/pkg/hnm"
	"github.com/gravestench/dune/pkg/palette"
	"github.com/gravestench/dune/pkg/sprite"
)

// Session owns the mutable state of one rendering context: the surface
// being composed, the index map recording which object drew each pixel,
// the palette the resources load into and the palette currently on screen.
// A Session is not safe for concurrent use.
type Session struct {
	Frame   *framebuffer.Framebuffer
	Index   *framebuffer.IndexMap
	Palette *palette.Palette
	Screen  *palette.Palette
}

// New creates a session with a w*h surface and black palettes
func New(w, h int) *Session {
	return &Session{
		Frame:   framebuffer.New(w, h),
		Index:   framebuffer.NewIndexMap(w, h),
		Palette: palette.New(),
		Screen:  palette.New(),
	}
}

// NewScreen creates a session the size of the game screen
func NewScreen() *Session {
	return New(framebuffer.ScreenWidth, framebuffer.ScreenHeight)
}

// BeginFrame clears the surface and the index map
func (s *Session) BeginFrame() {
	s.Frame.Clear()
	s.Index.Clear()
}

// DrawSprite draws sprite id of sheet, recording opts.Index in the
// session's index map
func (s *Session) DrawSprite(sheet *sprite.Sheet, id int, opts sprite.DrawOptions) error {
	opts.IndexMap = s.Index

	return sheet.DrawSpriteWith(s.Frame, id, opts)
}

// DrawGlobe projects the globe into the surface
func (s *Session) DrawGlobe(r *globe.Renderer, rotation uint16, tilt int16) error {
	return r.Draw(s.Frame, rotation, tilt)
}

// DrawText renders s with f at (x, y)
func (s *Session) DrawText(f *font.Font, style font.Style, x, y int, text string) {
	f.Draw(s.Frame, style, x, y, text)
}

// DrawVideoFrame decodes frame of d into the surface. Palette blocks of
// the frame update the session palette.
func (s *Session) DrawVideoFrame(d *hnm.Decoder, frame int) error {
	return d.DecodeFrame(frame, s.Frame, s.Palette)
}

// LoadPalette applies the palette update of sheet to the session palette
func (s *Session) LoadPalette(sheet *sprite.Sheet) error {
	return sheet.ApplyPaletteUpdate(s.Palette)
}

// ShowPalette puts the session palette on screen at once
func (s *Session) ShowPalette() {
	*s.Screen = *s.Palette
}

// FadeStep moves the on-screen palette one step towards the session
// palette. It reports whether the two now match.
func (s *Session) FadeStep(speed int16) bool {
	s.Screen.Transition(s.Palette, 0, palette.NumColors, speed)

	return *s.Screen == *s.Palette
}

// HitTest returns the index recorded at (x, y) by the last sprite drawn there
func (s *Session) HitTest(x, y int) (int, bool) {
	return s.Index.Get(x, y)
}

// Image returns the surface in the on-screen palette
func (s *Session) Image() *image.Paletted {
	return s.Frame.Image(s.Screen)
}

// ScaledImage returns the surface in the on-screen palette, enlarged by
// sx, sy
func (s *Session) ScaledImage(sx, sy int) *image.RGBA {
	return s.Frame.ScaledImage(s.Screen, sx, sy)
}
