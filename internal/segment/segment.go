// Package segment decomposes a combined color-coded segmentation mask into
// discrete per-object segments and filters out segments unlikely to be
// furniture.
package segment

import (
	"github.com/MeKo-Tech/stagehand/internal/mask"
	"github.com/MeKo-Tech/stagehand/internal/utils"
)

// Segment is one discrete detected object: its binary mask plus derived
// geometry. Segments are immutable after creation and live for one request.
type Segment struct {
	ID           int
	Mask         *mask.Mask
	Box          utils.Box
	Center       utils.Point
	AreaFraction float64
	Confidence   float64
	Label        string
}
