package dune

import (
	"github.com/gravestench/dune/pkg/archive"
	"github.com/gravestench/dune/pkg/font"
	"github.com/gravestench/dune/pkg/framebuffer"
	"github.com/gravestench/dune/pkg/globe"
	"github.com/gravestench/dune/pkg/hnm"
	"github.com/gravestench/dune/pkg/hsq"
	"github.com/gravestench/dune/pkg/palette"
	"github.com/gravestench/dune/pkg/session"
	"github.com/gravestench/dune/pkg/sprite"
)

type (
	Archive     = archive.Archive
	Font        = font.Font
	TextStyle   = font.Style
	Framebuffer = framebuffer.Framebuffer
	IndexMap    = framebuffer.IndexMap
	Rect        = framebuffer.Rect
	Palette     = palette.Palette
	Color       = palette.Color
	Sprite      = sprite.Sprite
	Sheet       = sprite.Sheet
	DrawOptions = sprite.DrawOptions
	Globe       = globe.Renderer
	Video       = hnm.Decoder
	Session     = session.Session
)

func Unpack(data []byte) ([]byte, error) {
	return hsq.Unpack(data)
}

func SheetFromBytes(data []byte) (*Sheet, error) {
	return sprite.FromPossiblyCompressed(data)
}

func NewGlobe(globdata, mapData, tablat []byte) (*Globe, error) {
	return globe.New(globdata, mapData, tablat)
}

func NewVideo(data []byte, pal *Palette) (*Video, error) {
	return hnm.New(data, pal)
}

func NewFont(data []byte) (*Font, error) {
	return font.New(data)
}

func NewSession() *Session {
	return session.NewScreen()
}

// LoadSheet reads name from a and decodes it as a sprite sheet
func LoadSheet(a Archive, name string) (*Sheet, error) {
	data, err := archive.Read(a, name)
	if err != nil {
		return nil, err
	}

	return sprite.FromBytes(data)
}
