package mask

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromImageBinarizes(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 1))
	img.SetGray(0, 0, color.Gray{Y: 0})
	img.SetGray(1, 0, color.Gray{Y: 127})
	img.SetGray(2, 0, color.Gray{Y: 128})
	img.SetGray(3, 0, color.Gray{Y: 255})

	m := FromImage(img)
	assert.False(t, m.At(0, 0))
	assert.False(t, m.At(1, 0))
	assert.True(t, m.At(2, 0))
	assert.True(t, m.At(3, 0))
}

func TestBinarizationIdempotent(t *testing.T) {
	m := New(8, 8)
	m.FillRect(image.Rect(2, 2, 6, 6))

	again := FromImage(m.ToGray())
	assert.Equal(t, m.Pix, again.Pix)
}

func TestBoundsAndArea(t *testing.T) {
	m := New(10, 10)
	m.FillRect(image.Rect(3, 4, 7, 8))

	assert.Equal(t, 16, m.Area())
	assert.InDelta(t, 0.16, m.AreaFraction(), 1e-9)

	r, ok := m.Bounds()
	require.True(t, ok)
	assert.Equal(t, image.Rect(3, 4, 7, 8), r)
}

func TestBoundsEmpty(t *testing.T) {
	_, ok := New(5, 5).Bounds()
	assert.False(t, ok)
}

func TestUnionDimensionMismatch(t *testing.T) {
	a := New(4, 4)
	b := New(5, 5)
	err := a.Union(b)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestUnionCombines(t *testing.T) {
	a := New(4, 4)
	a.Set(0, 0, true)
	b := New(4, 4)
	b.Set(3, 3, true)

	require.NoError(t, a.Union(b))
	assert.True(t, a.At(0, 0))
	assert.True(t, a.At(3, 3))
	assert.Equal(t, 2, a.Area())
}

func TestResizeRebinarizes(t *testing.T) {
	m := New(16, 16)
	m.FillRect(image.Rect(4, 4, 12, 12))

	r := Resize(m, 8, 8)
	assert.Equal(t, 8, r.Width)
	assert.Equal(t, 8, r.Height)
	for _, v := range r.Pix {
		assert.Contains(t, []uint8{0, 255}, v)
	}
	assert.Positive(t, r.Area())
}

func TestExtractAppliesAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	m := New(10, 10)
	m.FillRect(image.Rect(2, 2, 5, 5))

	c, err := Extract(img, m, 0)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(2, 2, 5, 5), c.Rect)
	assert.Equal(t, 3, c.Image.Bounds().Dx())
	// inside the mask stays opaque
	_, _, _, a := c.Image.At(0, 0).RGBA()
	assert.NotZero(t, a)
}

func TestExtractPadClampsToImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	m := New(10, 10)
	m.FillRect(image.Rect(0, 0, 3, 3))

	c, err := Extract(img, m, 5)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), c.Rect)
}

func TestExtractEmptyMask(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	_, err := Extract(img, New(10, 10), 5)
	require.ErrorIs(t, err, ErrEmptyMask)
}

func TestCutRect(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	c := CutRect(img, image.Rect(2, 2, 8, 6))
	assert.Equal(t, 6, c.Image.Bounds().Dx())
	assert.Equal(t, 4, c.Image.Bounds().Dy())
	assert.Equal(t, 24, c.Mask.Area())
}
