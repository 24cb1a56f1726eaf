package blit

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravestench/dune/pkg/framebuffer"
)

const background = 0xee

// 3x2 4bpp sprite, pitch 2:
//
//	1 2 3
//	. 4 5
var sprite4bpp = []byte{0x21, 0x03, 0x40, 0x05}

func newScreen() *framebuffer.Framebuffer {
	fb := framebuffer.NewScreen()
	for i := range fb.Pixels() {
		fb.Pixels()[i] = background
	}

	return fb
}

func changed(fb *framebuffer.Framebuffer) (n int) {
	for _, p := range fb.Pixels() {
		if p != background {
			n++
		}
	}

	return n
}

func TestPitch(t *testing.T) {
	assert.Equal(t, 4, Pitch(4, 7))
	assert.Equal(t, 4, Pitch(4, 8))
	assert.Equal(t, 6, Pitch(4, 9))
	assert.Equal(t, 2, Pitch(4, 1))

	for _, n := range []int{1, 7, 320} {
		assert.Equal(t, n, Pitch(8, n))
	}
}

func TestUnRLE(t *testing.T) {
	out, err := UnRLE([]byte{0x02, 0xaa, 0xbb, 0xcc, 0xfe, 0x11}, 6, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa, 0xbb, 0xcc, 0x11, 0x11, 0x11}, out)

	out, err = UnRLE([]byte{0x01, 0x21, 0x03, 0xff, 0x50}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x21, 0x03, 0x50, 0x50}, out)
}

func TestUnRLE_RunSpillsIntoNextRow(t *testing.T) {
	// the run overshoots row 0; row 1 still reads a full pitch
	out, err := UnRLE([]byte{0xfd, 0x11, 0x01, 0x22, 0x33}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x11, 0x11, 0x11, 0x11, 0x22, 0x33}, out)

	_, err = UnRLE([]byte{0xfd, 0x11}, 2, 2)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestUnRLE_OvershootLengthensOutput(t *testing.T) {
	out, err := UnRLE([]byte{0xfa, 0x07}, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x07, 0x07, 0x07, 0x07, 0x07, 0x07, 0x07}, out)
}

func TestUnRLE_Truncated(t *testing.T) {
	for _, data := range [][]byte{
		{},
		{0x02, 0xaa, 0xbb},
		{0xfe},
		{0x02, 0xaa, 0xbb, 0xcc},
	} {
		_, err := UnRLE(data, 6, 1)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF, "% x", data)
	}
}

func TestDraw_4bpp(t *testing.T) {
	fb := newScreen()

	err := Draw(fb, sprite4bpp, Options{X: 5, Y: 5, Width: 3, Height: 2, PalOffset: 0x10})
	require.NoError(t, err)

	assert.Equal(t, byte(0x11), fb.Get(5, 5))
	assert.Equal(t, byte(0x12), fb.Get(6, 5))
	assert.Equal(t, byte(0x13), fb.Get(7, 5))
	assert.Equal(t, byte(background), fb.Get(5, 6))
	assert.Equal(t, byte(0x14), fb.Get(6, 6))
	assert.Equal(t, byte(0x15), fb.Get(7, 6))
	assert.Equal(t, 5, changed(fb))
}

func TestDraw_4bppRLE(t *testing.T) {
	rle := []byte{0x01, 0x21, 0x03, 0x01, 0x40, 0x05}

	plain, packed := newScreen(), newScreen()
	require.NoError(t, Draw(plain, sprite4bpp, Options{X: 1, Y: 2, Width: 3, Height: 2}))
	require.NoError(t, Draw(packed, rle, Options{X: 1, Y: 2, Width: 3, Height: 2, RLE: true}))

	assert.Equal(t, plain.Pixels(), packed.Pixels())

	err := Draw(newScreen(), rle[:4], Options{Width: 3, Height: 2, RLE: true})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestDraw_ShortSource(t *testing.T) {
	err := Draw(newScreen(), sprite4bpp[:3], Options{Width: 3, Height: 2})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	err = Draw(newScreen(), []byte{1, 2, 3}, Options{Width: 2, Height: 2, PalOffset: Mode8bpp})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	// the final row does not need its padding byte
	err = Draw(newScreen(), sprite4bpp[:3], Options{Width: 1, Height: 2})
	assert.NoError(t, err)
}

func TestDraw_FlipSymmetry(t *testing.T) {
	for _, scale := range []uint8{0, 6} {
		src := make([]byte, 4*Pitch(4, 7))
		for i := range src {
			src[i] = byte(i*37 + 11)
		}

		opts := Options{X: 20, Y: 30, Width: 7, Height: 4, Scale: scale}
		w, h := 7, 4
		if scale != 0 {
			w, h = (7<<8)/0x200, (4<<8)/0x200
		}

		plain, flipped := newScreen(), newScreen()
		require.NoError(t, Draw(plain, src, opts))

		opts.FlipX, opts.FlipY = true, true
		require.NoError(t, Draw(flipped, src, opts))

		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				assert.Equal(t, plain.Get(20+x, 30+y), flipped.Get(20+w-1-x, 30+h-1-y), "scale %d at %d,%d", scale, x, y)
			}
		}

		assert.Equal(t, changed(plain), changed(flipped))
	}
}

func TestDraw_FlipX(t *testing.T) {
	fb := newScreen()
	require.NoError(t, Draw(fb, sprite4bpp, Options{Width: 3, Height: 2, FlipX: true}))

	assert.Equal(t, byte(3), fb.Get(0, 0))
	assert.Equal(t, byte(1), fb.Get(2, 0))
	assert.Equal(t, byte(5), fb.Get(0, 1))
	assert.Equal(t, byte(background), fb.Get(2, 1))
}

func TestDraw_TransparencyNeverWrites(t *testing.T) {
	for _, opts := range []Options{
		{X: 5, Y: 5},
		{X: 5, Y: 5, FlipX: true},
		{X: 5, Y: 5, FlipY: true},
		{X: 5, Y: 5, FlipX: true, FlipY: true},
		{X: 5, Y: 5, Clip: &framebuffer.Rect{X0: 0, Y0: 0, X1: 100, Y1: 100}},
	} {
		fb := newScreen()
		m := framebuffer.NewIndexMap(framebuffer.ScreenWidth, framebuffer.ScreenHeight)

		opts.Width, opts.Height = 3, 2
		opts.Index, opts.IndexMap = 3, m
		require.NoError(t, Draw(fb, sprite4bpp, opts))

		// the transparent source pixel is (0, 1)
		x, y := 5, 6
		if opts.FlipX {
			x = 7
		}
		if opts.FlipY {
			y = 5
		}

		assert.Equal(t, byte(background), fb.Get(x, y))
		_, ok := m.Get(x, y)
		assert.False(t, ok)
		assert.Equal(t, 5, changed(fb))
	}
}

func TestDraw_ScaledTransparency(t *testing.T) {
	src := make([]byte, 8*Pitch(4, 8))

	fb := newScreen()
	m := framebuffer.NewIndexMap(framebuffer.ScreenWidth, framebuffer.ScreenHeight)
	require.NoError(t, Draw(fb, src, Options{Width: 8, Height: 8, Scale: 3, IndexMap: m}))

	assert.Equal(t, 0, changed(fb))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			_, ok := m.Get(x, y)
			assert.False(t, ok)
		}
	}
}

func TestDraw_ClipContainment(t *testing.T) {
	clip := framebuffer.Rect{X0: 6, Y0: 5, X1: 8, Y1: 6}

	fb := newScreen()
	require.NoError(t, Draw(fb, sprite4bpp, Options{X: 5, Y: 5, Width: 3, Height: 2, Clip: &clip}))

	assert.Equal(t, 2, changed(fb))
	assert.Equal(t, byte(2), fb.Get(6, 5))
	assert.Equal(t, byte(3), fb.Get(7, 5))

	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			if fb.Get(x, y) != background {
				assert.True(t, clip.Contains(x, y))
			}
		}
	}
}

func TestDraw_EmptyClip(t *testing.T) {
	for _, clip := range []framebuffer.Rect{
		{X0: 10, Y0: 10, X1: 10, Y1: 20},
		{X0: 50, Y0: 50, X1: 0, Y1: 0},
		{X0: 400, Y0: 0, X1: 500, Y1: 200},
	} {
		clip := clip
		fb := newScreen()
		require.NoError(t, Draw(fb, sprite4bpp, Options{X: 5, Y: 5, Width: 3, Height: 2, Clip: &clip}))
		assert.Equal(t, 0, changed(fb))
	}
}

func TestDraw_SurfaceEdges(t *testing.T) {
	fb := newScreen()

	require.NoError(t, Draw(fb, sprite4bpp, Options{X: -1, Y: -1, Width: 3, Height: 2}))
	assert.Equal(t, byte(4), fb.Get(0, 0))
	assert.Equal(t, byte(5), fb.Get(1, 0))
	assert.Equal(t, 2, changed(fb))

	fb = newScreen()
	require.NoError(t, Draw(fb, sprite4bpp, Options{X: 318, Y: 199, Width: 3, Height: 2}))
	assert.Equal(t, byte(1), fb.Get(318, 199))
	assert.Equal(t, byte(2), fb.Get(319, 199))
	assert.Equal(t, 2, changed(fb))
}

func TestDraw_8bpp(t *testing.T) {
	src := []byte{0, 7, 8, 0}

	fb := newScreen()
	require.NoError(t, Draw(fb, src, Options{Width: 2, Height: 2, PalOffset: Mode8bppTransparent}))
	assert.Equal(t, byte(background), fb.Get(0, 0))
	assert.Equal(t, byte(7), fb.Get(1, 0))
	assert.Equal(t, byte(8), fb.Get(0, 1))
	assert.Equal(t, byte(background), fb.Get(1, 1))

	fb = newScreen()
	require.NoError(t, Draw(fb, src, Options{Width: 2, Height: 2, PalOffset: Mode8bpp}))
	assert.Equal(t, byte(0), fb.Get(0, 0))
	assert.Equal(t, byte(0), fb.Get(1, 1))
	assert.Equal(t, 4, changed(fb))

	fb = newScreen()
	require.NoError(t, Draw(fb, []byte{0xfe, 0x09}, Options{Width: 3, Height: 1, RLE: true, PalOffset: Mode8bpp}))
	assert.Equal(t, byte(9), fb.Get(2, 0))
	assert.Equal(t, 3, changed(fb))
}

func TestDraw_8bppScaledIsNoop(t *testing.T) {
	fb := newScreen()
	m := framebuffer.NewIndexMap(framebuffer.ScreenWidth, framebuffer.ScreenHeight)

	err := Draw(fb, []byte{1, 2, 3, 4}, Options{Width: 2, Height: 2, Scale: 1, PalOffset: Mode8bpp, IndexMap: m})
	require.NoError(t, err)
	assert.Equal(t, 0, changed(fb))

	// the RLE stream is not even looked at
	err = Draw(fb, nil, Options{Width: 2, Height: 2, Scale: 1, RLE: true, PalOffset: Mode8bpp})
	assert.NoError(t, err)
}

func TestDraw_ScaledSize(t *testing.T) {
	src := make([]byte, 8*Pitch(4, 8))
	for i := range src {
		src[i] = 0x11
	}

	for code, want := range map[uint8]int{0: 64, 1: 49, 4: 25, 6: 16, 7: 9} {
		fb := newScreen()
		require.NoError(t, Draw(fb, src, Options{X: 10, Y: 10, Width: 8, Height: 8, Scale: code}))
		assert.Equal(t, want, changed(fb), "scale code %d", code)
	}
}

func TestDraw_ScaledSampling(t *testing.T) {
	// one row: nibbles 1..8
	src := []byte{0x21, 0x43, 0x65, 0x87}

	fb := newScreen()
	require.NoError(t, Draw(fb, src, Options{Width: 8, Height: 1, Scale: 6}))
	assert.Equal(t, 0, changed(fb), "height 1 shrinks to nothing at x2")

	src = append(src, src...)
	require.NoError(t, Draw(fb, src, Options{Width: 8, Height: 2, Scale: 6}))
	assert.Equal(t, []byte{1, 3, 5, 7}, fb.Pixels()[:4])
	assert.Equal(t, 4, changed(fb))
}

func TestDraw_IndexMap(t *testing.T) {
	fb := newScreen()
	m := framebuffer.NewIndexMap(framebuffer.ScreenWidth, framebuffer.ScreenHeight)

	require.NoError(t, Draw(fb, sprite4bpp, Options{X: 5, Y: 5, Width: 3, Height: 2, Index: 9, IndexMap: m}))

	idx, ok := m.Get(7, 6)
	assert.True(t, ok)
	assert.Equal(t, 9, idx)

	_, ok = m.Get(5, 6)
	assert.False(t, ok)
}

func TestDraw_InvalidArguments(t *testing.T) {
	assert.Panics(t, func() { _ = Draw(newScreen(), sprite4bpp, Options{Width: 0, Height: 2}) })
	assert.Panics(t, func() { _ = Draw(newScreen(), sprite4bpp, Options{Width: 3, Height: 0}) })
	assert.Error(t, Draw(newScreen(), sprite4bpp, Options{Width: 3, Height: 2, Scale: 8}))
}
