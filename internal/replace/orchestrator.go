package replace

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/MeKo-Tech/stagehand/internal/catalog"
	"github.com/MeKo-Tech/stagehand/internal/metrics"
	"github.com/MeKo-Tech/stagehand/internal/oracle"
	"github.com/MeKo-Tech/stagehand/internal/placement"
	"github.com/MeKo-Tech/stagehand/internal/utils"
)

// Request describes one replace operation.
type Request struct {
	// Image is the room photograph, already at working-canvas size or not;
	// the orchestrator resolves masks at the canvas size the resolver is
	// configured for.
	Image image.Image

	// Product is the new item being placed.
	Product catalog.Product

	// ExistingCategory is the detected category of the item(s) being
	// removed, used as the removal segmentation label.
	ExistingCategory string

	// ExistingBoxes locate the item(s) being removed.
	ExistingBoxes []utils.Box

	// ReplaceAll removes every detected instance instead of the first.
	ReplaceAll bool
}

// Outcome is the orchestrator's result: the final image and how far the
// session got. PhaseReached is StatePlaced on full success,
// StatePlacementFailed when phase B failed (the working image is returned
// unchanged), and reflects a silently degraded removal otherwise.
type Outcome struct {
	Image        image.Image
	PhaseReached State
	RemovalState State
}

// Orchestrator runs the two sequential phases. Phase A failure is non-fatal:
// processing continues on the original image. Only phase B failure surfaces
// to the caller.
type Orchestrator struct {
	resolver  *placement.Resolver
	inpainter oracle.Inpainter
	describer oracle.ProductDescriber // optional
}

// NewOrchestrator creates an orchestrator. The describer may be nil, which
// skips prompt enrichment.
func NewOrchestrator(resolver *placement.Resolver, inpainter oracle.Inpainter, describer oracle.ProductDescriber) (*Orchestrator, error) {
	if resolver == nil {
		return nil, fmt.Errorf("replace: nil resolver")
	}
	if inpainter == nil {
		return nil, fmt.Errorf("replace: nil inpainter")
	}
	return &Orchestrator{resolver: resolver, inpainter: inpainter, describer: describer}, nil
}

// Replace removes the existing item(s) and places the new product. The two
// phases are strictly sequential; the optional description lookup runs as a
// sibling task since it depends only on the product.
func (o *Orchestrator) Replace(ctx context.Context, req Request) (*Outcome, error) {
	if req.Image == nil {
		return nil, fmt.Errorf("replace: nil input image")
	}

	descCh := o.startDescription(ctx, req.Product)

	state := StatePending
	working := req.Image

	// Phase A: erase the existing item(s). The bounding-box tier is
	// primary here, so detected boxes drive the mask; the segmentation
	// tier still gets first chance when an oracle is wired.
	action := placement.ActionReplaceOne
	if req.ReplaceAll {
		action = placement.ActionReplaceAll
	}
	removalMask, err := o.resolver.Resolve(ctx, placement.Request{
		Image:         working,
		Category:      req.ExistingCategory,
		Action:        action,
		ExistingBoxes: req.ExistingBoxes,
	})
	if err != nil {
		return nil, fmt.Errorf("resolving removal mask: %w", err)
	}

	cleaned, err := o.inpainter.Inpaint(ctx, working, removalMask.Mask.ToGray(),
		removalPrompt(req.ExistingCategory), removalNegativePrompt())
	metrics.RecordReplacePhase("removal", err)
	if err != nil {
		// Non-fatal: keep going with the unmodified image.
		slog.Warn("Removal inpaint failed, continuing with original image",
			"category", req.ExistingCategory, "error", err)
		state = StateRemovalFailed
	} else {
		working = cleaned
		state = StateRemoved
		slog.Debug("Removal phase complete", "provenance", string(removalMask.Provenance))
	}
	removalState := state

	// Phase B: place the new product. The mask comes from the product's
	// own category and dimensions, not from the removed box.
	placed, err := o.placePhase(ctx, working, req.Product, <-descCh)
	if err != nil {
		return &Outcome{Image: working, PhaseReached: StatePlacementFailed, RemovalState: removalState}, err
	}
	return &Outcome{Image: placed, PhaseReached: StatePlaced, RemovalState: removalState}, nil
}

// Place performs the single-pass add flow: resolve a placement mask against
// the unmodified image and inpaint once. Add actions bypass the removal
// phase entirely.
func (o *Orchestrator) Place(ctx context.Context, img image.Image, product catalog.Product) (*Outcome, error) {
	if img == nil {
		return nil, fmt.Errorf("replace: nil input image")
	}
	placed, err := o.placePhase(ctx, img, product, <-o.startDescription(ctx, product))
	if err != nil {
		return &Outcome{Image: img, PhaseReached: StatePlacementFailed, RemovalState: StatePending}, err
	}
	return &Outcome{Image: placed, PhaseReached: StatePlaced, RemovalState: StatePending}, nil
}

// placePhase resolves the new product's mask and fills it. The mask comes
// from the product's own category and dimensions.
func (o *Orchestrator) placePhase(ctx context.Context, working image.Image, product catalog.Product, description string) (image.Image, error) {
	placementMask, err := o.resolver.Resolve(ctx, placement.Request{
		Image:    working,
		Category: product.CategoryLabel(),
		Product:  &product,
		Action:   placement.ActionAdd,
	})
	if err != nil {
		return nil, fmt.Errorf("resolving placement mask: %w", err)
	}

	placed, err := o.inpainter.Inpaint(ctx, working, placementMask.Mask.ToGray(),
		placementPrompt(product, description), placementNegativePrompt())
	metrics.RecordReplacePhase("placement", err)
	if err != nil {
		slog.Warn("Placement inpaint failed", "product", product.ID, "error", err)
		return nil, fmt.Errorf("placement phase: %w", err)
	}

	slog.Debug("Placement phase complete",
		"product", product.ID, "provenance", string(placementMask.Provenance))
	return placed, nil
}

// startDescription fetches the product description concurrently with phase A.
// The channel always receives exactly one value; failures degrade to an
// empty description.
func (o *Orchestrator) startDescription(ctx context.Context, p catalog.Product) <-chan string {
	ch := make(chan string, 1)
	if o.describer == nil || p.ImageURL == "" {
		ch <- ""
		return ch
	}
	go func() {
		desc, err := o.describer.DescribeProduct(ctx, p.ImageURL)
		if err != nil {
			slog.Debug("Product description unavailable", "product", p.ID, "error", err)
			desc = ""
		}
		ch <- desc
	}()
	return ch
}
