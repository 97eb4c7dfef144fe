package segment

import (
	"image"
	"log/slog"
	"sort"

	"github.com/MeKo-Tech/stagehand/internal/mask"
	"github.com/MeKo-Tech/stagehand/internal/utils"
)

// DecomposerConfig holds the tunables of combined-mask decomposition. The
// color-keyed format is a best-effort heuristic, so the background exclusion
// and noise thresholds stay configurable rather than hard-coded.
type DecomposerConfig struct {
	// MinChannelSum excludes near-black colors (background) whose R+G+B
	// falls below this value.
	MinChannelSum int `mapstructure:"min_channel_sum" yaml:"min_channel_sum" json:"min_channel_sum"`

	// MaxChannelSum excludes near-white colors (background) whose R+G+B
	// exceeds this value.
	MaxChannelSum int `mapstructure:"max_channel_sum" yaml:"max_channel_sum" json:"max_channel_sum"`

	// MinArea drops segments below this pixel count, removing
	// anti-aliasing noise along object edges.
	MinArea int `mapstructure:"min_area" yaml:"min_area" json:"min_area"`
}

// DefaultDecomposerConfig returns the default decomposition settings.
func DefaultDecomposerConfig() DecomposerConfig {
	return DecomposerConfig{
		MinChannelSum: 30,
		MaxChannelSum: 700,
		MinArea:       500,
	}
}

// colorStats accumulates per-color pixel statistics during the first pass.
type colorStats struct {
	count                  int
	minX, minY, maxX, maxY int
}

// Decompose splits a combined mask image, where each object is rendered as a
// distinct flat RGB color, into discrete per-object segments. Segments are
// sorted by area descending and assigned sequential ids in that order; their
// source-color pixel sets are disjoint by construction.
func Decompose(img image.Image, cfg DecomposerConfig) []Segment {
	src := utils.ToNRGBA(img)
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	// Pass 1: count pixels per color, tracking bounding boxes, before
	// allocating any masks. Anti-aliased edges produce many rare colors.
	stats := make(map[uint32]*colorStats)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			r, g, bl := row[x*4], row[x*4+1], row[x*4+2]
			sum := int(r) + int(g) + int(bl)
			if sum < cfg.MinChannelSum || sum > cfg.MaxChannelSum {
				continue
			}
			key := uint32(r)<<16 | uint32(g)<<8 | uint32(bl)
			st, ok := stats[key]
			if !ok {
				st = &colorStats{minX: x, minY: y, maxX: x, maxY: y}
				stats[key] = st
			}
			st.count++
			if x < st.minX {
				st.minX = x
			}
			if x > st.maxX {
				st.maxX = x
			}
			if y < st.minY {
				st.minY = y
			}
			if y > st.maxY {
				st.maxY = y
			}
		}
	}

	keys := make([]uint32, 0, len(stats))
	for key, st := range stats {
		if st.count >= cfg.MinArea {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		slog.Debug("Decomposition found no segments above minimum area",
			"colors", len(stats), "min_area", cfg.MinArea)
		return nil
	}

	// Pass 2: build exact-match masks only for surviving colors.
	masks := make(map[uint32]*mask.Mask, len(keys))
	for _, key := range keys {
		masks[key] = mask.New(w, h)
	}
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			key := uint32(row[x*4])<<16 | uint32(row[x*4+1])<<8 | uint32(row[x*4+2])
			if m, ok := masks[key]; ok {
				m.Pix[y*w+x] = 255
			}
		}
	}

	// Largest first: furniture tends to dominate the frame.
	sort.Slice(keys, func(i, j int) bool {
		if stats[keys[i]].count != stats[keys[j]].count {
			return stats[keys[i]].count > stats[keys[j]].count
		}
		return keys[i] < keys[j]
	})

	segs := make([]Segment, 0, len(keys))
	for i, key := range keys {
		st := stats[key]
		box := utils.BoxFromRect(image.Rect(st.minX, st.minY, st.maxX+1, st.maxY+1), w, h)
		segs = append(segs, Segment{
			ID:           i,
			Mask:         masks[key],
			Box:          box,
			Center:       box.Center(),
			AreaFraction: float64(st.count) / float64(w*h),
			Confidence:   1.0,
		})
	}
	slog.Debug("Decomposed combined mask", "segments", len(segs), "colors", len(stats))
	return segs
}
