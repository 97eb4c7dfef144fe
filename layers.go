package stagehand

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"

	"github.com/MeKo-Tech/stagehand/internal/catalog"
	"github.com/MeKo-Tech/stagehand/internal/mask"
	"github.com/MeKo-Tech/stagehand/internal/match"
	"github.com/MeKo-Tech/stagehand/internal/oracle"
	"github.com/MeKo-Tech/stagehand/internal/segment"
)

// Layer is one extracted object: an RGBA cutout with its mask, location and
// how it was obtained. ProductID is empty for unlabeled generic layers.
type Layer struct {
	ProductID    string
	Name         string
	Cutout       *image.NRGBA
	Mask         *image.Gray
	Box          Box
	Center       Point
	AreaFraction float64
	Provenance   string
}

// LayerResult is the extract-layers output: the background with extracted
// object pixels cleared, plus one layer per resolved object.
type LayerResult struct {
	Background *image.NRGBA
	Layers     []Layer
}

// ExtractLayers decomposes the photograph into per-object layers and
// associates them with the given products. Products that match a segment get
// a pixel-accurate cutout; products with only a detected box degrade to a
// rectangular crop; when no product matches at all, every surviving segment
// is exposed as an unlabeled generic layer instead.
func (e *Engine) ExtractLayers(ctx context.Context, img image.Image, products []ProductRef) (*LayerResult, error) {
	if img == nil {
		return nil, fmt.Errorf("stagehand: nil input image")
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	segs := e.decomposeImage(ctx, img, w, h)

	catProducts := make([]catalog.Product, len(products))
	for i, p := range products {
		catProducts[i] = toCatalogProduct(p)
	}
	e.fillMissingBoxes(ctx, img, catProducts)

	assignments := match.Assign(catProducts, segs, e.cfg.Matcher)

	background := imaging.Clone(img)
	var layers []Layer

	if match.MatchedCount(assignments) == 0 && len(segs) > 0 {
		// Degenerate case: nothing matched, expose every surviving
		// segment as a generic layer keyed by segment id.
		slog.Debug("No product matched any segment, exposing generic layers", "segments", len(segs))
		for _, s := range segs {
			layer, ok := e.segmentLayer(img, s, catalog.Product{})
			if !ok {
				continue
			}
			layers = append(layers, layer)
			clearMasked(background, s.Mask)
		}
		return &LayerResult{Background: background, Layers: layers}, nil
	}

	segByID := make(map[int]segment.Segment, len(segs))
	for _, s := range segs {
		segByID[s.ID] = s
	}

	for i, a := range assignments {
		p := catProducts[i]
		if a.Matched {
			s := segByID[a.SegmentID]
			layer, ok := e.segmentLayer(img, s, p)
			if !ok {
				continue
			}
			layers = append(layers, layer)
			clearMasked(background, s.Mask)
			continue
		}
		if p.Box == nil {
			continue
		}
		// No eligible segment: degrade to a plain rectangular crop of
		// the product's own detected box.
		rect := p.Box.ToRect(w, h)
		if rect.Empty() {
			continue
		}
		cut := mask.CutRect(img, rect)
		layers = append(layers, Layer{
			ProductID:    p.ID,
			Name:         p.Name,
			Cutout:       cut.Image,
			Mask:         cut.Mask.ToGray(),
			Box:          Box(*p.Box),
			Center:       Point(p.Box.Center()),
			AreaFraction: p.Box.Area(),
			Provenance:   ProvenanceBoundingBox,
		})
	}
	return &LayerResult{Background: background, Layers: layers}, nil
}

// decomposeImage runs the automatic segmentation oracle and decomposes its
// combined mask at the source image's resolution. Oracle failure degrades to
// an empty segment list; callers fall back to box crops.
func (e *Engine) decomposeImage(ctx context.Context, img image.Image, w, h int) []segment.Segment {
	if e.oracles.Auto == nil {
		return nil
	}
	combined, err := e.oracles.Auto.SegmentAuto(ctx, img)
	if err != nil {
		slog.Warn("Automatic segmentation unavailable, degrading to box crops", "error", err)
		return nil
	}
	cb := combined.Bounds()
	if cb.Dx() != w || cb.Dy() != h {
		// Nearest neighbor keeps the flat color coding intact.
		combined = imaging.Resize(combined, w, h, imaging.NearestNeighbor)
	}
	segs := segment.Decompose(combined, e.cfg.Decomposer)
	return segment.Filter(segs, e.cfg.Filter)
}

// fillMissingBoxes asks the vision oracle to localize products that came
// without boxes. Best-effort; failures leave the products box-less.
func (e *Engine) fillMissingBoxes(ctx context.Context, img image.Image, products []catalog.Product) {
	if e.oracles.Boxes == nil {
		return
	}
	var missing []catalog.Product
	for _, p := range products {
		if p.Box == nil {
			missing = append(missing, p)
		}
	}
	if len(missing) == 0 {
		return
	}
	detections, err := e.oracles.Boxes.DetectBoxes(ctx, img, missing)
	if err != nil {
		slog.Warn("Box detection unavailable", "error", err)
		return
	}
	byID := make(map[string]oracle.Detection, len(detections))
	for _, d := range detections {
		byID[d.ProductID] = d
	}
	for i := range products {
		if products[i].Box != nil {
			continue
		}
		if d, ok := byID[products[i].ID]; ok {
			box := d.Box.Clamp()
			products[i].Box = &box
		}
	}
}

// segmentLayer builds a pixel-accurate layer from one segment.
func (e *Engine) segmentLayer(img image.Image, s segment.Segment, p catalog.Product) (Layer, bool) {
	cut, err := mask.Extract(img, s.Mask, 0)
	if err != nil {
		slog.Warn("Skipping empty segment cutout", "segment", s.ID, "error", err)
		return Layer{}, false
	}
	name := p.Name
	if name == "" {
		name = fmt.Sprintf("object-%d", s.ID)
	}
	return Layer{
		ProductID:    p.ID,
		Name:         name,
		Cutout:       cut.Image,
		Mask:         cut.Mask.ToGray(),
		Box:          Box(s.Box),
		Center:       Point(s.Center),
		AreaFraction: s.AreaFraction,
		Provenance:   ProvenanceAISegmentation,
	}, true
}

// clearMasked zeroes the alpha of background pixels covered by the mask, so
// callers can re-composite layers over it.
func clearMasked(background *image.NRGBA, m *mask.Mask) {
	w := background.Bounds().Dx()
	if m.Width != w || m.Height != background.Bounds().Dy() {
		return
	}
	for y := 0; y < m.Height; y++ {
		row := background.Pix[y*background.Stride : y*background.Stride+w*4]
		for x := 0; x < m.Width; x++ {
			if m.Pix[y*m.Width+x] != 0 {
				row[x*4+3] = 0
			}
		}
	}
}

// RenderSegmentOverlay produces a colorized debug overlay of the segments the
// decomposer and filter would keep for this image.
func (e *Engine) RenderSegmentOverlay(ctx context.Context, img image.Image) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("stagehand: nil input image")
	}
	b := img.Bounds()
	segs := e.decomposeImage(ctx, img, b.Dx(), b.Dy())
	if segs == nil && e.oracles.Auto == nil {
		return nil, fmt.Errorf("stagehand: overlay requires the automatic segmentation oracle")
	}
	return segment.RenderOverlay(img, segs, 0.5), nil
}
