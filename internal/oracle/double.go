package oracle

import (
	"context"
	"image"

	"github.com/MeKo-Tech/stagehand/internal/catalog"
)

// Double is a scriptable in-memory oracle implementing every capability.
// Nil function fields report ErrUnavailable, which is also how tests simulate
// a down oracle for fallback paths.
type Double struct {
	SegmentAutoFunc     func(ctx context.Context, img image.Image) (image.Image, error)
	SegmentLabelFunc    func(ctx context.Context, img image.Image, label string) (image.Image, error)
	SegmentAtPointsFunc func(ctx context.Context, img image.Image, points []image.Point) (image.Image, error)
	DetectBoxesFunc     func(ctx context.Context, img image.Image, products []catalog.Product) ([]Detection, error)
	InpaintFunc         func(ctx context.Context, img, mask image.Image, prompt, negativePrompt string) (image.Image, error)
	DescribeFunc        func(ctx context.Context, imageURL string) (string, error)

	// Calls records the capability names invoked, in order.
	Calls []string
}

func (d *Double) SegmentAuto(ctx context.Context, img image.Image) (image.Image, error) {
	d.Calls = append(d.Calls, "segment_auto")
	if d.SegmentAutoFunc == nil {
		return nil, ErrUnavailable
	}
	return d.SegmentAutoFunc(ctx, img)
}

func (d *Double) SegmentLabel(ctx context.Context, img image.Image, label string) (image.Image, error) {
	d.Calls = append(d.Calls, "segment_label")
	if d.SegmentLabelFunc == nil {
		return nil, ErrUnavailable
	}
	return d.SegmentLabelFunc(ctx, img, label)
}

func (d *Double) SegmentAtPoints(ctx context.Context, img image.Image, points []image.Point) (image.Image, error) {
	d.Calls = append(d.Calls, "segment_points")
	if d.SegmentAtPointsFunc == nil {
		return nil, ErrUnavailable
	}
	return d.SegmentAtPointsFunc(ctx, img, points)
}

func (d *Double) DetectBoxes(ctx context.Context, img image.Image, products []catalog.Product) ([]Detection, error) {
	d.Calls = append(d.Calls, "detect_boxes")
	if d.DetectBoxesFunc == nil {
		return nil, ErrUnavailable
	}
	return d.DetectBoxesFunc(ctx, img, products)
}

func (d *Double) Inpaint(ctx context.Context, img, mask image.Image, prompt, negativePrompt string) (image.Image, error) {
	d.Calls = append(d.Calls, "inpaint")
	if d.InpaintFunc == nil {
		return nil, ErrUnavailable
	}
	return d.InpaintFunc(ctx, img, mask, prompt, negativePrompt)
}

func (d *Double) DescribeProduct(ctx context.Context, imageURL string) (string, error) {
	d.Calls = append(d.Calls, "describe")
	if d.DescribeFunc == nil {
		return "", ErrUnavailable
	}
	return d.DescribeFunc(ctx, imageURL)
}

var (
	_ AutoSegmenter    = (*Double)(nil)
	_ PointSegmenter   = (*Double)(nil)
	_ BoxDetector      = (*Double)(nil)
	_ Inpainter        = (*Double)(nil)
	_ ProductDescriber = (*Double)(nil)

	_ AutoSegmenter    = (*Client)(nil)
	_ PointSegmenter   = (*Client)(nil)
	_ BoxDetector      = (*Client)(nil)
	_ Inpainter        = (*Client)(nil)
	_ ProductDescriber = (*Client)(nil)
)
