package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/stagehand/internal/catalog"
	"github.com/MeKo-Tech/stagehand/internal/segment"
	"github.com/MeKo-Tech/stagehand/internal/utils"
)

func seg(id int, b utils.Box) segment.Segment {
	return segment.Segment{ID: id, Box: b, Center: b.Center(), Confidence: 1}
}

func boxPtr(b utils.Box) *utils.Box { return &b }

func TestAssignPrefersClosestSegment(t *testing.T) {
	segs := []segment.Segment{
		seg(0, utils.Box{X: 0.1, Y: 0.1, Width: 0.2, Height: 0.2}),
		seg(1, utils.Box{X: 0.6, Y: 0.6, Width: 0.2, Height: 0.2}),
	}
	products := []catalog.Product{
		{ID: "sofa", Box: boxPtr(utils.Box{X: 0.55, Y: 0.55, Width: 0.3, Height: 0.3})},
	}

	got := Assign(products, segs, DefaultConfig())
	require.Len(t, got, 1)
	assert.True(t, got[0].Matched)
	assert.Equal(t, 1, got[0].SegmentID)
}

func TestAssignInjective(t *testing.T) {
	shared := utils.Box{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2}
	segs := []segment.Segment{seg(0, shared)}
	products := []catalog.Product{
		{ID: "a", Box: boxPtr(shared)},
		{ID: "b", Box: boxPtr(shared)},
	}

	got := Assign(products, segs, DefaultConfig())
	require.Len(t, got, 2)
	assert.True(t, got[0].Matched, "first-listed product wins")
	assert.False(t, got[1].Matched)
	assert.Equal(t, -1, got[1].SegmentID)

	seen := map[int]bool{}
	for _, a := range got {
		if a.Matched {
			assert.False(t, seen[a.SegmentID], "segment assigned twice")
			seen[a.SegmentID] = true
		}
	}
}

func TestAssignEligibilityByDistanceOnly(t *testing.T) {
	// no overlap, center distance ~0.28 < 0.3
	segs := []segment.Segment{
		seg(0, utils.Box{X: 0.5, Y: 0.3, Width: 0.1, Height: 0.1}),
	}
	products := []catalog.Product{
		{ID: "p", Box: boxPtr(utils.Box{X: 0.25, Y: 0.3, Width: 0.1, Height: 0.1})},
	}
	got := Assign(products, segs, DefaultConfig())
	assert.True(t, got[0].Matched)

	// same shape but too far away
	far := []catalog.Product{
		{ID: "p", Box: boxPtr(utils.Box{X: 0.0, Y: 0.8, Width: 0.1, Height: 0.1})},
	}
	got = Assign(far, segs, DefaultConfig())
	assert.False(t, got[0].Matched)
}

func TestAssignTieBreaksByDecompositionOrder(t *testing.T) {
	// two segments equidistant from the product box center; segment 0 is
	// earlier in decomposition order and must win
	segs := []segment.Segment{
		seg(0, utils.Box{X: 0.3, Y: 0.4, Width: 0.1, Height: 0.2}),
		seg(1, utils.Box{X: 0.6, Y: 0.4, Width: 0.1, Height: 0.2}),
	}
	products := []catalog.Product{
		{ID: "p", Box: boxPtr(utils.Box{X: 0.45, Y: 0.4, Width: 0.1, Height: 0.2})},
	}
	got := Assign(products, segs, DefaultConfig())
	require.True(t, got[0].Matched)
	assert.Equal(t, 0, got[0].SegmentID)
}

func TestAssignProductWithoutBox(t *testing.T) {
	segs := []segment.Segment{seg(0, utils.Box{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2})}
	products := []catalog.Product{{ID: "p"}}
	got := Assign(products, segs, DefaultConfig())
	require.Len(t, got, 1)
	assert.False(t, got[0].Matched)
}

func TestAssignNoSegments(t *testing.T) {
	products := []catalog.Product{{ID: "p", Box: boxPtr(utils.Box{X: 0.1, Y: 0.1, Width: 0.2, Height: 0.2})}}
	got := Assign(products, nil, DefaultConfig())
	require.Len(t, got, 1)
	assert.False(t, got[0].Matched)
	assert.Zero(t, MatchedCount(got))
}
