package segment

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// combinedMask builds a flat-color combined mask on a black background.
func combinedMask(w, h int, regions map[color.NRGBA]image.Rectangle) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.NRGBA{A: 255}), image.Point{}, draw.Src)
	for c, r := range regions {
		draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
	}
	return img
}

func TestDecomposeSplitsColors(t *testing.T) {
	img := combinedMask(100, 100, map[color.NRGBA]image.Rectangle{
		{R: 200, G: 40, B: 40, A: 255}: image.Rect(10, 10, 60, 60), // 2500 px
		{R: 40, G: 200, B: 40, A: 255}: image.Rect(60, 60, 95, 95), // 1225 px
	})

	segs := Decompose(img, DefaultDecomposerConfig())
	require.Len(t, segs, 2)

	// largest first, ids sequential in that order
	assert.Equal(t, 0, segs[0].ID)
	assert.Equal(t, 2500, segs[0].Mask.Area())
	assert.Equal(t, 1, segs[1].ID)
	assert.Equal(t, 1225, segs[1].Mask.Area())

	assert.InDelta(t, 0.35, segs[0].Center.X, 1e-9)
	assert.InDelta(t, 0.25, segs[0].AreaFraction, 1e-9)
}

func TestDecomposeIgnoresBackgroundColors(t *testing.T) {
	img := combinedMask(100, 100, map[color.NRGBA]image.Rectangle{
		{R: 5, G: 5, B: 5, A: 255}:       image.Rect(0, 0, 50, 50),   // near-black
		{R: 250, G: 250, B: 250, A: 255}: image.Rect(50, 50, 100, 100), // near-white
		{R: 60, G: 120, B: 180, A: 255}:  image.Rect(10, 60, 50, 95),
	})

	segs := Decompose(img, DefaultDecomposerConfig())
	require.Len(t, segs, 1)
	assert.Equal(t, 40*35, segs[0].Mask.Area())
}

func TestDecomposeDropsSmallSegments(t *testing.T) {
	img := combinedMask(100, 100, map[color.NRGBA]image.Rectangle{
		{R: 200, G: 40, B: 40, A: 255}: image.Rect(0, 0, 10, 10), // 100 px, below default 500
	})
	segs := Decompose(img, DefaultDecomposerConfig())
	assert.Empty(t, segs)

	cfg := DefaultDecomposerConfig()
	cfg.MinArea = 50
	segs = Decompose(img, cfg)
	assert.Len(t, segs, 1)
}

func TestDecomposeDisjointness(t *testing.T) {
	img := combinedMask(80, 80, map[color.NRGBA]image.Rectangle{
		{R: 200, G: 40, B: 40, A: 255}: image.Rect(0, 0, 40, 80),
		{R: 40, G: 200, B: 40, A: 255}: image.Rect(40, 0, 80, 40),
		{R: 40, G: 40, B: 200, A: 255}: image.Rect(40, 40, 80, 80),
	})
	cfg := DefaultDecomposerConfig()
	cfg.MinArea = 100

	segs := Decompose(img, cfg)
	require.Len(t, segs, 3)

	for i := range segs {
		for j := i + 1; j < len(segs); j++ {
			for k, v := range segs[i].Mask.Pix {
				if v != 0 {
					assert.Zero(t, segs[j].Mask.Pix[k],
						"segments %d and %d share pixel %d", segs[i].ID, segs[j].ID, k)
				}
			}
		}
	}
}

func TestDecomposeShiftedSubImage(t *testing.T) {
	full := combinedMask(120, 120, map[color.NRGBA]image.Rectangle{
		{R: 200, G: 40, B: 40, A: 255}: image.Rect(30, 30, 80, 80), // 2500 px
	})
	sub, ok := full.SubImage(image.Rect(20, 20, 120, 120)).(*image.NRGBA)
	require.True(t, ok)
	require.NotEqual(t, image.Point{}, sub.Bounds().Min)

	segs := Decompose(sub, DefaultDecomposerConfig())
	require.Len(t, segs, 1)
	assert.Equal(t, 2500, segs[0].Mask.Area())
	// Geometry is relative to the viewport, not the parent image.
	assert.InDelta(t, 0.35, segs[0].Center.X, 1e-2)
}

func TestDecomposeEmptyImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 50, 50))
	assert.Empty(t, Decompose(img, DefaultDecomposerConfig()))
}
