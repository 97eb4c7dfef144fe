package click

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/stagehand/internal/mask"
	"github.com/MeKo-Tech/stagehand/internal/oracle"
	"github.com/MeKo-Tech/stagehand/internal/utils"
)

func roomImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 180, G: 170, B: 160, A: 255})
		}
	}
	return img
}

func objectMask(r image.Rectangle) image.Image {
	g := image.NewGray(image.Rect(0, 0, 100, 100))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			g.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	return g
}

func TestSegmentSingleCombinedCall(t *testing.T) {
	var gotPoints []image.Point
	double := &oracle.Double{
		SegmentAtPointsFunc: func(_ context.Context, _ image.Image, pts []image.Point) (image.Image, error) {
			gotPoints = pts
			return objectMask(image.Rect(30, 40, 60, 80)), nil
		},
	}
	s, err := NewSegmenter(DefaultConfig(), double)
	require.NoError(t, err)

	res, err := s.Segment(context.Background(), roomImage(), []utils.Point{
		{X: 0.4, Y: 0.6},
		{X: 0.5, Y: 0.7},
	})
	require.NoError(t, err)

	// one oracle call regardless of point count
	assert.Equal(t, []string{"segment_points"}, double.Calls)
	require.Len(t, gotPoints, 2)
	assert.Equal(t, image.Pt(40, 60), gotPoints[0])

	// bbox (30,40)-(60,80) padded by 5 px per side
	assert.InDelta(t, 0.25, res.Box.X, 1e-9)
	assert.InDelta(t, 0.35, res.Box.Y, 1e-9)
	assert.Equal(t, 40, res.Cutout.Bounds().Dx())
	assert.Equal(t, 50, res.Cutout.Bounds().Dy())
	assert.Equal(t, res.Cutout.Bounds().Dx(), res.Mask.Width)
}

func TestSegmentEmptyMask(t *testing.T) {
	double := &oracle.Double{
		SegmentAtPointsFunc: func(_ context.Context, _ image.Image, _ []image.Point) (image.Image, error) {
			return image.NewGray(image.Rect(0, 0, 100, 100)), nil
		},
	}
	s, err := NewSegmenter(DefaultConfig(), double)
	require.NoError(t, err)

	_, err = s.Segment(context.Background(), roomImage(), []utils.Point{{X: 0.1, Y: 0.1}})
	require.ErrorIs(t, err, mask.ErrEmptyMask)
}

func TestSegmentOracleFailure(t *testing.T) {
	s, err := NewSegmenter(DefaultConfig(), &oracle.Double{})
	require.NoError(t, err)

	_, err = s.Segment(context.Background(), roomImage(), []utils.Point{{X: 0.5, Y: 0.5}})
	require.ErrorIs(t, err, oracle.ErrUnavailable)
}

func TestSegmentNoPoints(t *testing.T) {
	s, err := NewSegmenter(DefaultConfig(), &oracle.Double{})
	require.NoError(t, err)

	_, err = s.Segment(context.Background(), roomImage(), nil)
	require.Error(t, err)
}

func TestSegmentResizesMismatchedOracleMask(t *testing.T) {
	double := &oracle.Double{
		SegmentAtPointsFunc: func(_ context.Context, _ image.Image, _ []image.Point) (image.Image, error) {
			// oracle answers at its own working resolution
			g := image.NewGray(image.Rect(0, 0, 50, 50))
			for y := 10; y < 40; y++ {
				for x := 10; x < 40; x++ {
					g.SetGray(x, y, color.Gray{Y: 255})
				}
			}
			return g, nil
		},
	}
	s, err := NewSegmenter(DefaultConfig(), double)
	require.NoError(t, err)

	res, err := s.Segment(context.Background(), roomImage(), []utils.Point{{X: 0.5, Y: 0.5}})
	require.NoError(t, err)
	assert.Positive(t, res.Mask.Area())
	assert.Equal(t, res.Cutout.Bounds().Dx(), res.Mask.Width)
}
