// Package match pairs catalog products with decomposed segments. The pass is
// deliberately greedy and order-dependent rather than globally optimal:
// downstream consumers rely on first-listed-product-wins tie-breaking.
package match

import (
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/MeKo-Tech/stagehand/internal/catalog"
	"github.com/MeKo-Tech/stagehand/internal/segment"
)

// Config holds matcher tunables.
type Config struct {
	// MaxCenterDistance makes a segment eligible even without box overlap
	// when its center lies within this fraction of the image diagonal.
	MaxCenterDistance float64 `mapstructure:"max_center_distance" yaml:"max_center_distance" json:"max_center_distance"`
}

// DefaultConfig returns the default matcher settings.
func DefaultConfig() Config {
	return Config{MaxCenterDistance: 0.3}
}

// Assignment links one product to at most one segment. SegmentID is -1 and
// Matched false when no eligible segment existed.
type Assignment struct {
	ProductID string
	SegmentID int
	Matched   bool
	Distance  float64
}

// Assign greedily pairs products with segments in product order. Each segment
// is used at most once; a segment is eligible for a product iff its box
// intersects the product's box or its center lies within MaxCenterDistance.
// Products without a box receive no assignment. Ties on distance resolve to
// the earliest segment in decomposition order (largest area first).
func Assign(products []catalog.Product, segs []segment.Segment, cfg Config) []Assignment {
	out := make([]Assignment, 0, len(products))
	if len(segs) == 0 {
		for _, p := range products {
			out = append(out, Assignment{ProductID: p.ID, SegmentID: -1})
		}
		return out
	}

	// Distance matrix: products x segments, center-to-center.
	dist := mat.NewDense(len(products), len(segs), nil)
	for i, p := range products {
		for j, s := range segs {
			if p.Box == nil {
				dist.Set(i, j, -1)
				continue
			}
			dist.Set(i, j, p.Box.Center().DistanceTo(s.Center))
		}
	}

	used := make([]bool, len(segs))
	for i, p := range products {
		a := Assignment{ProductID: p.ID, SegmentID: -1}
		if p.Box != nil {
			best := -1
			bestDist := 0.0
			for j, s := range segs {
				if used[j] {
					continue
				}
				d := dist.At(i, j)
				if p.Box.IntersectionArea(s.Box) <= 0 && d >= cfg.MaxCenterDistance {
					continue
				}
				if best == -1 || d < bestDist {
					best = j
					bestDist = d
				}
			}
			if best >= 0 {
				used[best] = true
				a.SegmentID = segs[best].ID
				a.Matched = true
				a.Distance = bestDist
			}
		}
		if !a.Matched {
			slog.Debug("No eligible segment for product", "product", p.ID)
		}
		out = append(out, a)
	}
	return out
}

// MatchedCount returns how many assignments carry a segment.
func MatchedCount(assignments []Assignment) int {
	n := 0
	for _, a := range assignments {
		if a.Matched {
			n++
		}
	}
	return n
}
