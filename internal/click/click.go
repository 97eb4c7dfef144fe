// Package click resolves a single discrete object mask from user click
// points, independent of the automatic segmentation pipeline.
package click

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/MeKo-Tech/stagehand/internal/mask"
	"github.com/MeKo-Tech/stagehand/internal/oracle"
	"github.com/MeKo-Tech/stagehand/internal/utils"
)

// Config holds point-prompt segmentation settings.
type Config struct {
	// PadPixels expands the cutout bounding box on each side.
	PadPixels int `mapstructure:"pad_pixels" yaml:"pad_pixels" json:"pad_pixels"`

	// SmoothRadius optionally de-jags the oracle mask before the cutout.
	// Zero disables smoothing.
	SmoothRadius float64 `mapstructure:"smooth_radius" yaml:"smooth_radius" json:"smooth_radius"`
}

// DefaultConfig returns the default click segmentation settings.
func DefaultConfig() Config {
	return Config{PadPixels: 5, SmoothRadius: 0}
}

// Result is the object resolved at the clicked point(s): an RGBA cutout with
// the mask applied as alpha, the cropped mask, and the normalized location.
type Result struct {
	Cutout *image.NRGBA
	Mask   *mask.Mask
	Box    utils.Box
}

// Segmenter resolves click selections through the point-prompt oracle.
type Segmenter struct {
	cfg    Config
	oracle oracle.PointSegmenter
}

// NewSegmenter creates a click segmenter.
func NewSegmenter(cfg Config, o oracle.PointSegmenter) (*Segmenter, error) {
	if o == nil {
		return nil, fmt.Errorf("click: nil point segmenter")
	}
	return &Segmenter{cfg: cfg, oracle: o}, nil
}

// Segment resolves the object under the given normalized points with one
// combined oracle call. Returns mask.ErrEmptyMask when no pixel of the
// oracle's answer exceeds the binarize threshold; an explicit click that
// found nothing has no fallback tier.
func (s *Segmenter) Segment(ctx context.Context, img image.Image, points []utils.Point) (*Result, error) {
	if img == nil {
		return nil, fmt.Errorf("click: nil input image")
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("click: no points supplied")
	}

	b := img.Bounds()
	pixels := make([]image.Point, len(points))
	for i, p := range points {
		pixels[i] = p.ToPixel(b.Dx(), b.Dy())
	}

	soft, err := s.oracle.SegmentAtPoints(ctx, img, pixels)
	if err != nil {
		return nil, fmt.Errorf("point segmentation: %w", err)
	}

	m := mask.FromImage(soft)
	if m.Width != b.Dx() || m.Height != b.Dy() {
		m = mask.Resize(m, b.Dx(), b.Dy())
	}
	if s.cfg.SmoothRadius > 0 {
		m = mask.Smooth(m, s.cfg.SmoothRadius)
	}
	if m.Area() == 0 {
		return nil, fmt.Errorf("click at %d point(s): %w", len(points), mask.ErrEmptyMask)
	}

	cut, err := mask.Extract(img, m, s.cfg.PadPixels)
	if err != nil {
		return nil, fmt.Errorf("extracting cutout: %w", err)
	}
	slog.Debug("Click segmentation resolved",
		"points", len(points), "area", cut.Mask.Area(),
		"rect", cut.Rect.String())
	return &Result{
		Cutout: cut.Image,
		Mask:   cut.Mask,
		Box:    utils.BoxFromRect(cut.Rect, b.Dx(), b.Dy()),
	}, nil
}
