// Package oracle defines the external model capabilities the engine consumes.
// Every oracle is a black-box, blocking, independently cancellable network
// call; implementations are constructor-injected so each capability can be
// substituted with a test double. The engine performs no retries; retry and
// backoff policy belongs to the calling collaborator.
package oracle

import (
	"context"
	"errors"
	"image"

	"github.com/MeKo-Tech/stagehand/internal/catalog"
	"github.com/MeKo-Tech/stagehand/internal/utils"
)

// ErrUnavailable indicates a network failure, timeout or non-200 response
// from an oracle.
var ErrUnavailable = errors.New("oracle unavailable")

// ErrEmptyResult indicates the oracle responded but found nothing.
var ErrEmptyResult = errors.New("oracle returned empty result")

// AutoSegmenter is the pixel-segmentation oracle.
type AutoSegmenter interface {
	// SegmentAuto returns a combined mask image where each detected object
	// is rendered as a distinct flat color.
	SegmentAuto(ctx context.Context, img image.Image) (image.Image, error)

	// SegmentLabel returns a soft single-channel mask of the objects
	// matching a furniture-category text label.
	SegmentLabel(ctx context.Context, img image.Image, label string) (image.Image, error)
}

// PointSegmenter resolves an object mask from click points. All points are
// passed in one call.
type PointSegmenter interface {
	SegmentAtPoints(ctx context.Context, img image.Image, points []image.Point) (image.Image, error)
}

// Detection is one vision-proposed product location.
type Detection struct {
	ProductID string    `json:"product_id"`
	Box       utils.Box `json:"box"`
}

// BoxDetector is the vision oracle proposing product bounding boxes.
type BoxDetector interface {
	DetectBoxes(ctx context.Context, img image.Image, products []catalog.Product) ([]Detection, error)
}

// Inpainter is the generative region-fill oracle.
type Inpainter interface {
	Inpaint(ctx context.Context, img, mask image.Image, prompt, negativePrompt string) (image.Image, error)
}

// ProductDescriber enriches placement prompts with a description of the
// product photo.
type ProductDescriber interface {
	DescribeProduct(ctx context.Context, imageURL string) (string, error)
}
