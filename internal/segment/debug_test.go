package segment

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/stagehand/internal/mask"
	"github.com/MeKo-Tech/stagehand/internal/utils"
)

func TestRenderOverlayTintsSegmentPixels(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	m := mask.New(20, 20)
	m.FillRect(image.Rect(0, 0, 10, 10))
	segs := []Segment{{ID: 0, Mask: m, Box: utils.Box{Width: 0.5, Height: 0.5}}}

	out := RenderOverlay(img, segs, 0.5)
	require.NotNil(t, out)

	inside := out.NRGBAAt(5, 5)
	outside := out.NRGBAAt(15, 15)
	assert.NotEqual(t, inside, outside)
	assert.EqualValues(t, 255, inside.A)
}

func TestRenderOverlayNoSegments(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	out := RenderOverlay(img, nil, 0.5)
	assert.Equal(t, img.Bounds(), out.Bounds())
}
