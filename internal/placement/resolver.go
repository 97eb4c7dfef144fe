// Package placement produces the binary mask handed to the inpainting oracle
// for one target furniture item. Resolution walks a fixed fallback chain:
// pixel-accurate oracle segmentation, then detected-bounding-box rectangle,
// then a dimension-derived perspective-corrected estimate. The last tier
// cannot fail, so a mask is always produced.
package placement

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/MeKo-Tech/stagehand/internal/catalog"
	"github.com/MeKo-Tech/stagehand/internal/mask"
	"github.com/MeKo-Tech/stagehand/internal/metrics"
	"github.com/MeKo-Tech/stagehand/internal/oracle"
	"github.com/MeKo-Tech/stagehand/internal/utils"
)

// Provenance records which tier produced a placement mask.
type Provenance string

const (
	ProvenanceAISegmentation    Provenance = "ai-segmentation"
	ProvenanceBoundingBox       Provenance = "bounding-box"
	ProvenanceDimensionEstimate Provenance = "dimension-estimate"
)

// Action is the generation intent a mask is resolved for.
type Action string

const (
	ActionAdd        Action = "add"
	ActionReplaceOne Action = "replace_one"
	ActionReplaceAll Action = "replace_all"
)

// IsReplace reports whether the action replaces existing items.
func (a Action) IsReplace() bool {
	return a == ActionReplaceOne || a == ActionReplaceAll
}

// Config holds resolver tunables. All sizing happens on the fixed working
// canvas.
type Config struct {
	// CanvasWidth and CanvasHeight define the working canvas every mask
	// is sized to before an oracle call.
	CanvasWidth  int `mapstructure:"canvas_width" yaml:"canvas_width" json:"canvas_width"`
	CanvasHeight int `mapstructure:"canvas_height" yaml:"canvas_height" json:"canvas_height"`

	// RoomWidthInches is the assumed real-world width of the framed room,
	// anchoring the inches-to-pixels scale.
	RoomWidthInches float64 `mapstructure:"room_width_inches" yaml:"room_width_inches" json:"room_width_inches"`

	// ReplacePadRatio expands detected boxes for replace actions. Kept
	// tight so neighboring items are not captured. Add actions never reach
	// the box tier; their slack comes from DimensionPadRatio.
	ReplacePadRatio float64 `mapstructure:"replace_pad_ratio" yaml:"replace_pad_ratio" json:"replace_pad_ratio"`

	// DimensionPadRatio pads each axis of a dimension-derived footprint.
	DimensionPadRatio float64 `mapstructure:"dimension_pad_ratio" yaml:"dimension_pad_ratio" json:"dimension_pad_ratio"`

	// MinFootprintRatio and MaxFootprintRatio clamp each axis of a
	// dimension-derived footprint as a fraction of the canvas.
	MinFootprintRatio float64 `mapstructure:"min_footprint_ratio" yaml:"min_footprint_ratio" json:"min_footprint_ratio"`
	MaxFootprintRatio float64 `mapstructure:"max_footprint_ratio" yaml:"max_footprint_ratio" json:"max_footprint_ratio"`

	// VerticalCompression squashes the height axis to approximate an
	// elevated camera angle.
	VerticalCompression float64 `mapstructure:"vertical_compression" yaml:"vertical_compression" json:"vertical_compression"`

	// AnchorX and AnchorY place a dimension-derived rectangle when no
	// detected box supplies a center. AnchorY sits below center as a
	// floor-level bias.
	AnchorX float64 `mapstructure:"anchor_x" yaml:"anchor_x" json:"anchor_x"`
	AnchorY float64 `mapstructure:"anchor_y" yaml:"anchor_y" json:"anchor_y"`
}

// DefaultConfig returns the default resolver settings.
func DefaultConfig() Config {
	return Config{
		CanvasWidth:         512,
		CanvasHeight:        512,
		RoomWidthInches:     144,
		ReplacePadRatio:     0.02,
		DimensionPadRatio:   0.10,
		MinFootprintRatio:   0.10,
		MaxFootprintRatio:   0.45,
		VerticalCompression: 0.7,
		AnchorX:             0.5,
		AnchorY:             0.6,
	}
}

// Validate checks config consistency.
func (c Config) Validate() error {
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return fmt.Errorf("canvas dimensions must be positive, got %dx%d", c.CanvasWidth, c.CanvasHeight)
	}
	if c.RoomWidthInches <= 0 {
		return fmt.Errorf("room width must be positive, got %v", c.RoomWidthInches)
	}
	if c.MinFootprintRatio <= 0 || c.MaxFootprintRatio > 1 || c.MinFootprintRatio > c.MaxFootprintRatio {
		return fmt.Errorf("footprint clamp [%v,%v] is invalid", c.MinFootprintRatio, c.MaxFootprintRatio)
	}
	return nil
}

// perspectiveMultiplier approximates camera-distance foreshortening for a
// qualitative depth position.
func perspectiveMultiplier(pos catalog.DepthPosition) float64 {
	switch pos {
	case catalog.DepthForeground:
		return 1.3
	case catalog.DepthBackground:
		return 0.7
	default:
		return 1.0
	}
}

// Request describes one mask-resolution call.
type Request struct {
	// Image is the room photograph the mask is resolved against.
	Image image.Image

	// Category is the text label for the segmentation tier. For replace
	// actions this is the existing item's category, because the same mask
	// both erases and later fills; for add it is the new product's.
	Category string

	// Product supplies dimensions and depth position for the estimate
	// tier. Optional; the category table covers the rest.
	Product *catalog.Product

	// Action selects padding and which tiers apply.
	Action Action

	// ExistingBoxes are detected boxes of the item(s) being replaced.
	ExistingBoxes []utils.Box
}

// Result is a placement mask plus the tier that produced it, sized to the
// working canvas.
type Result struct {
	Mask       *mask.Mask
	Provenance Provenance
}

// Resolver resolves placement masks. The segmenter is optional; when absent
// the segmentation tier is skipped.
type Resolver struct {
	cfg       Config
	segmenter oracle.AutoSegmenter
	table     *DimensionTable
}

// NewResolver creates a resolver. A nil table selects the embedded default.
func NewResolver(cfg Config, segmenter oracle.AutoSegmenter, table *DimensionTable) (*Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if table == nil {
		var err error
		table, err = DefaultDimensionTable()
		if err != nil {
			return nil, err
		}
	}
	return &Resolver{cfg: cfg, segmenter: segmenter, table: table}, nil
}

// Resolve produces exactly one placement mask for the request, trying each
// tier in order. Oracle failures and degenerate geometry are recovered by
// falling through; the dimension tier always succeeds.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Result, error) {
	if req.Image == nil {
		return nil, fmt.Errorf("placement: nil input image")
	}

	if m := r.trySegmentation(ctx, req); m != nil {
		metrics.RecordPlacementTier(string(ProvenanceAISegmentation), string(req.Action))
		return &Result{Mask: m, Provenance: ProvenanceAISegmentation}, nil
	}
	if m := r.tryBoundingBox(req); m != nil {
		metrics.RecordPlacementTier(string(ProvenanceBoundingBox), string(req.Action))
		return &Result{Mask: m, Provenance: ProvenanceBoundingBox}, nil
	}
	m := r.estimateFromDimensions(req)
	metrics.RecordPlacementTier(string(ProvenanceDimensionEstimate), string(req.Action))
	return &Result{Mask: m, Provenance: ProvenanceDimensionEstimate}, nil
}

// trySegmentation runs the pixel-segmentation tier. Returns nil to fall
// through.
func (r *Resolver) trySegmentation(ctx context.Context, req Request) *mask.Mask {
	if r.segmenter == nil || req.Category == "" {
		return nil
	}
	// The oracle sees the working canvas, not the source resolution.
	frame := utils.ResizeTo(req.Image, r.cfg.CanvasWidth, r.cfg.CanvasHeight)
	soft, err := r.segmenter.SegmentLabel(ctx, frame, req.Category)
	if err != nil {
		slog.Warn("Segmentation tier failed, falling through",
			"category", req.Category, "error", err)
		return nil
	}
	m := mask.Resize(mask.FromImage(soft), r.cfg.CanvasWidth, r.cfg.CanvasHeight)
	if m.Area() == 0 {
		slog.Warn("Segmentation tier returned empty mask, falling through", "category", req.Category)
		return nil
	}
	return m
}

// tryBoundingBox rasterizes the detected box(es) as a padded filled
// rectangle. Skipped for add actions and when no boxes exist; a degenerate
// box falls through.
func (r *Resolver) tryBoundingBox(req Request) *mask.Mask {
	if len(req.ExistingBoxes) == 0 || !req.Action.IsReplace() {
		return nil
	}

	box := req.ExistingBoxes[0]
	if req.Action == ActionReplaceAll {
		for _, b := range req.ExistingBoxes[1:] {
			box = box.Union(b)
		}
	}

	rect := box.Expand(r.cfg.ReplacePadRatio).ToRect(r.cfg.CanvasWidth, r.cfg.CanvasHeight)

	m := mask.New(r.cfg.CanvasWidth, r.cfg.CanvasHeight)
	m.FillRect(rect)
	if m.Area() == 0 {
		slog.Warn("Bounding-box tier produced empty mask, falling through", "box", box)
		return nil
	}
	return m
}

// estimateFromDimensions derives a centered rectangle from real-world
// dimensions. Always produces a non-empty mask.
func (r *Resolver) estimateFromDimensions(req Request) *mask.Mask {
	dims := r.lookupDimensions(req)
	pos := catalog.DepthCenter
	if req.Product != nil && req.Product.Position != "" {
		pos = req.Product.Position
	}

	scale := float64(r.cfg.CanvasWidth) / r.cfg.RoomWidthInches
	persp := perspectiveMultiplier(pos)

	wpx := dims.Width * scale * persp
	hpx := dims.Height * scale * persp * r.cfg.VerticalCompression

	wpx *= 1 + r.cfg.DimensionPadRatio
	hpx *= 1 + r.cfg.DimensionPadRatio

	wpx = clampFloat(wpx,
		r.cfg.MinFootprintRatio*float64(r.cfg.CanvasWidth),
		r.cfg.MaxFootprintRatio*float64(r.cfg.CanvasWidth))
	hpx = clampFloat(hpx,
		r.cfg.MinFootprintRatio*float64(r.cfg.CanvasHeight),
		r.cfg.MaxFootprintRatio*float64(r.cfg.CanvasHeight))

	center := utils.Point{X: r.cfg.AnchorX, Y: r.cfg.AnchorY}
	if len(req.ExistingBoxes) > 0 {
		center = req.ExistingBoxes[0].Center()
	}
	cx := center.X * float64(r.cfg.CanvasWidth)
	cy := center.Y * float64(r.cfg.CanvasHeight)

	rect := image.Rect(
		int(math.Round(cx-wpx/2)),
		int(math.Round(cy-hpx/2)),
		int(math.Round(cx+wpx/2)),
		int(math.Round(cy+hpx/2)),
	)

	m := mask.New(r.cfg.CanvasWidth, r.cfg.CanvasHeight)
	m.FillRect(rect)
	slog.Debug("Dimension-estimate mask",
		"category", req.Category, "position", string(pos),
		"width_px", int(wpx), "height_px", int(hpx))
	return m
}

func (r *Resolver) lookupDimensions(req Request) catalog.Dimensions {
	if req.Product != nil && req.Product.Dimensions != nil && req.Product.Dimensions.Valid() {
		return *req.Product.Dimensions
	}
	return r.table.Lookup(req.Category)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
