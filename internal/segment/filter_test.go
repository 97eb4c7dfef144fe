package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MeKo-Tech/stagehand/internal/utils"
)

func segWithBox(id int, b utils.Box, area float64) Segment {
	return Segment{
		ID:           id,
		Box:          b,
		Center:       b.Center(),
		AreaFraction: area,
		Confidence:   1.0,
	}
}

func TestFilterRejectsStructuralSurface(t *testing.T) {
	s := segWithBox(0, utils.Box{X: 0, Y: 0.3, Width: 1, Height: 0.7}, 0.6)
	assert.False(t, IsLikelyFurniture(s, DefaultFilterConfig()))
}

func TestFilterRejectsCeiling(t *testing.T) {
	// top-biased strip: vertical center 0.1 < 0.2
	s := segWithBox(0, utils.Box{X: 0, Y: 0.05, Width: 1.0, Height: 0.1}, 0.1)
	assert.False(t, IsLikelyFurniture(s, DefaultFilterConfig()))
}

func TestFilterRejectsFloorTrim(t *testing.T) {
	// aspect 0.9/0.09 = 10 > 8 and height 0.09 < 0.1
	s := segWithBox(0, utils.Box{X: 0.05, Y: 0.85, Width: 0.9, Height: 0.09}, 0.05)
	assert.False(t, IsLikelyFurniture(s, DefaultFilterConfig()))
}

func TestFilterRejectsWallEdge(t *testing.T) {
	// aspect 0.05/0.6 < 0.15, hugging the left edge
	s := segWithBox(0, utils.Box{X: 0.01, Y: 0.3, Width: 0.05, Height: 0.6}, 0.03)
	assert.False(t, IsLikelyFurniture(s, DefaultFilterConfig()))

	// same shape away from both edges passes
	s2 := segWithBox(1, utils.Box{X: 0.4, Y: 0.3, Width: 0.05, Height: 0.6}, 0.03)
	assert.True(t, IsLikelyFurniture(s2, DefaultFilterConfig()))
}

func TestFilterCallerThresholds(t *testing.T) {
	cfg := DefaultFilterConfig()
	cfg.MinAreaPercent = 0.05
	cfg.StabilityThreshold = 0.8

	small := segWithBox(0, utils.Box{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2}, 0.01)
	assert.False(t, IsLikelyFurniture(small, cfg))

	shaky := segWithBox(1, utils.Box{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2}, 0.1)
	shaky.Confidence = 0.5
	assert.False(t, IsLikelyFurniture(shaky, cfg))
}

func TestFilterPreservesOrderAndIDs(t *testing.T) {
	segs := []Segment{
		segWithBox(0, utils.Box{X: 0.1, Y: 0.4, Width: 0.3, Height: 0.3}, 0.09),
		segWithBox(1, utils.Box{X: 0, Y: 0.05, Width: 1.0, Height: 0.1}, 0.1), // ceiling
		segWithBox(2, utils.Box{X: 0.5, Y: 0.5, Width: 0.3, Height: 0.3}, 0.09),
	}
	out := Filter(segs, DefaultFilterConfig())
	assert.Len(t, out, 2)
	assert.Equal(t, 0, out[0].ID)
	assert.Equal(t, 2, out[1].ID)
}
