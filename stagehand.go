// Package stagehand locates furniture objects in a room photograph,
// associates them with catalog products, and resolves pixel-accurate
// placement masks for an external image-generation oracle.
//
// Everything crossing this boundary follows the wire contract: boxes and
// points are normalized [0,1] floats and masks are single-channel 0/255
// rasters. The segmentation, vision and inpainting models are consumed as
// injected oracle capabilities; see the Oracles struct.
package stagehand

import (
	"context"
	"fmt"
	"image"

	"github.com/MeKo-Tech/stagehand/internal/catalog"
	"github.com/MeKo-Tech/stagehand/internal/click"
	"github.com/MeKo-Tech/stagehand/internal/config"
	"github.com/MeKo-Tech/stagehand/internal/oracle"
	"github.com/MeKo-Tech/stagehand/internal/placement"
	"github.com/MeKo-Tech/stagehand/internal/replace"
	"github.com/MeKo-Tech/stagehand/internal/utils"
)

// Box is an axis-aligned bounding box in normalized [0,1] coordinates.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a normalized [0,1] coordinate, top-left origin.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dimensions are real-world product dimensions in inches.
type Dimensions struct {
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
}

// ProductRef identifies a catalog product at the engine boundary.
type ProductRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`

	// Box is the vision oracle's proposed location, when known.
	Box *Box `json:"box,omitempty"`

	// Dimensions are real-world inches, when known.
	Dimensions *Dimensions `json:"dimensions,omitempty"`

	// Position is "foreground", "center" or "background".
	Position string `json:"position,omitempty"`

	// ImageURL is the catalog photo used for prompt enrichment.
	ImageURL string `json:"image_url,omitempty"`
}

// Action selects the generation intent for mask resolution.
type Action string

const (
	ActionAdd        Action = Action(placement.ActionAdd)
	ActionReplaceOne Action = Action(placement.ActionReplaceOne)
	ActionReplaceAll Action = Action(placement.ActionReplaceAll)
)

// Provenance values reported on placement masks and layers.
const (
	ProvenanceAISegmentation    = string(placement.ProvenanceAISegmentation)
	ProvenanceBoundingBox       = string(placement.ProvenanceBoundingBox)
	ProvenanceDimensionEstimate = string(placement.ProvenanceDimensionEstimate)
)

// Oracles bundles the injected external model capabilities. Any may be nil;
// operations degrade or fail according to which capabilities they need.
type Oracles struct {
	Auto     oracle.AutoSegmenter
	Points   oracle.PointSegmenter
	Boxes    oracle.BoxDetector
	Inpaint  oracle.Inpainter
	Describe oracle.ProductDescriber
}

// OraclesFromClient wires every capability to one HTTP oracle client.
func OraclesFromClient(c *oracle.Client) Oracles {
	return Oracles{Auto: c, Points: c, Boxes: c, Inpaint: c, Describe: c}
}

// Engine is the stateless entry point. All operations are request-scoped
// computations over immutable inputs; one Engine is safe for concurrent use.
type Engine struct {
	cfg          *config.Config
	oracles      Oracles
	resolver     *placement.Resolver
	clicker      *click.Segmenter
	orchestrator *replace.Orchestrator
}

// New creates an engine. A nil config selects defaults.
func New(cfg *config.Config, oracles Oracles) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("stagehand: %w", err)
	}

	resolver, err := placement.NewResolver(cfg.Placement, oracles.Auto, nil)
	if err != nil {
		return nil, fmt.Errorf("stagehand: %w", err)
	}

	e := &Engine{cfg: cfg, oracles: oracles, resolver: resolver}
	if oracles.Points != nil {
		e.clicker, err = click.NewSegmenter(cfg.Click, oracles.Points)
		if err != nil {
			return nil, fmt.Errorf("stagehand: %w", err)
		}
	}
	if oracles.Inpaint != nil {
		e.orchestrator, err = replace.NewOrchestrator(resolver, oracles.Inpaint, oracles.Describe)
		if err != nil {
			return nil, fmt.Errorf("stagehand: %w", err)
		}
	}
	return e, nil
}

// PlacementMask is a resolved region to regenerate, sized to the working
// canvas, with the tier that produced it.
type PlacementMask struct {
	Mask       *image.Gray `json:"-"`
	Provenance string      `json:"provenance"`
}

// ResolvePlacementMask produces the mask for one target item. For replace
// actions the target should be the existing item (its category labels the
// segmentation tier); for add it is the new product.
func (e *Engine) ResolvePlacementMask(ctx context.Context, img image.Image, target ProductRef, action Action, existingBoxes []Box) (*PlacementMask, error) {
	product := toCatalogProduct(target)
	res, err := e.resolver.Resolve(ctx, placement.Request{
		Image:         img,
		Category:      product.CategoryLabel(),
		Product:       &product,
		Action:        placement.Action(action),
		ExistingBoxes: toUtilsBoxes(existingBoxes),
	})
	if err != nil {
		return nil, err
	}
	return &PlacementMask{Mask: res.Mask.ToGray(), Provenance: string(res.Provenance)}, nil
}

// ReplaceResult reports a replace or add operation's final image and how far
// the session progressed.
type ReplaceResult struct {
	Image        image.Image
	PhaseReached string
	RemovalState string
}

// ReplaceItem removes the existing item(s) and places the new product in two
// sequential passes. Requires the inpainting oracle.
func (e *Engine) ReplaceItem(ctx context.Context, img image.Image, target ProductRef, existing []ProductRef, replaceAll bool) (*ReplaceResult, error) {
	if e.orchestrator == nil {
		return nil, fmt.Errorf("stagehand: replace requires an inpainting oracle")
	}

	existingCategory := ""
	var existingBoxes []utils.Box
	for _, item := range existing {
		p := toCatalogProduct(item)
		if existingCategory == "" {
			existingCategory = p.CategoryLabel()
		}
		if p.Box != nil {
			existingBoxes = append(existingBoxes, *p.Box)
		}
	}

	// Best-effort: locate the existing items when the caller has no boxes.
	if len(existingBoxes) == 0 && e.oracles.Boxes != nil && len(existing) > 0 {
		products := make([]catalog.Product, len(existing))
		for i, item := range existing {
			products[i] = toCatalogProduct(item)
		}
		if detections, err := e.oracles.Boxes.DetectBoxes(ctx, img, products); err == nil {
			for _, d := range detections {
				existingBoxes = append(existingBoxes, d.Box)
			}
		}
	}

	out, err := e.orchestrator.Replace(ctx, replace.Request{
		Image:            img,
		Product:          toCatalogProduct(target),
		ExistingCategory: existingCategory,
		ExistingBoxes:    existingBoxes,
		ReplaceAll:       replaceAll,
	})
	if out == nil {
		return nil, err
	}
	return &ReplaceResult{
		Image:        out.Image,
		PhaseReached: string(out.PhaseReached),
		RemovalState: string(out.RemovalState),
	}, err
}

// AddItem places the new product in a single pass against the unmodified
// image, bypassing the removal phase. Requires the inpainting oracle.
func (e *Engine) AddItem(ctx context.Context, img image.Image, target ProductRef) (*ReplaceResult, error) {
	if e.orchestrator == nil {
		return nil, fmt.Errorf("stagehand: add requires an inpainting oracle")
	}
	out, err := e.orchestrator.Place(ctx, img, toCatalogProduct(target))
	if out == nil {
		return nil, err
	}
	return &ReplaceResult{
		Image:        out.Image,
		PhaseReached: string(out.PhaseReached),
		RemovalState: string(out.RemovalState),
	}, err
}

// ClickResult is the object resolved at clicked point(s).
type ClickResult struct {
	Cutout *image.NRGBA
	Mask   *image.Gray
	Box    Box
}

// SegmentClick resolves a single object from one or more click points with
// one combined oracle call. Requires the point-prompt oracle. Returns an
// error wrapping mask.ErrEmptyMask when nothing is found at the points.
func (e *Engine) SegmentClick(ctx context.Context, img image.Image, points []Point) (*ClickResult, error) {
	if e.clicker == nil {
		return nil, fmt.Errorf("stagehand: click segmentation requires a point-prompt oracle")
	}
	pts := make([]utils.Point, len(points))
	for i, p := range points {
		pts[i] = utils.Point(p)
	}
	res, err := e.clicker.Segment(ctx, img, pts)
	if err != nil {
		return nil, err
	}
	return &ClickResult{
		Cutout: res.Cutout,
		Mask:   res.Mask.ToGray(),
		Box:    Box(res.Box),
	}, nil
}

// LoadImage opens and decodes a room photograph from disk. JPEG, PNG and BMP
// are supported; anything else is rejected by extension before decoding.
func LoadImage(path string) (image.Image, error) {
	return utils.LoadImage(path)
}

// SavePNG writes a generated image to disk as PNG.
func SavePNG(img image.Image, path string) error {
	return utils.SavePNG(img, path)
}

func toCatalogProduct(p ProductRef) catalog.Product {
	out := catalog.Product{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Position: catalog.DepthPosition(p.Position),
		ImageURL: p.ImageURL,
	}
	if p.Box != nil {
		b := utils.Box(*p.Box)
		out.Box = &b
	}
	if p.Dimensions != nil {
		d := catalog.Dimensions(*p.Dimensions)
		out.Dimensions = &d
	}
	return out
}

func toUtilsBoxes(boxes []Box) []utils.Box {
	if len(boxes) == 0 {
		return nil
	}
	out := make([]utils.Box, len(boxes))
	for i, b := range boxes {
		out[i] = utils.Box(b)
	}
	return out
}
