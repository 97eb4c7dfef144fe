// Package catalog defines the product reference passed across the engine
// boundary. The catalog itself (storage, lookup) is an external collaborator;
// this is only the in-flight shape.
package catalog

import "github.com/MeKo-Tech/stagehand/internal/utils"

// DepthPosition is a qualitative camera-distance hint for a product.
type DepthPosition string

const (
	DepthForeground DepthPosition = "foreground"
	DepthCenter     DepthPosition = "center"
	DepthBackground DepthPosition = "background"
)

// Dimensions are real-world product dimensions in inches.
type Dimensions struct {
	Width  float64 `json:"width"  yaml:"width"`
	Depth  float64 `json:"depth"  yaml:"depth"`
	Height float64 `json:"height" yaml:"height"`
}

// Valid reports whether the dimensions carry usable width and height.
func (d Dimensions) Valid() bool { return d.Width > 0 && d.Height > 0 }

// Product is a catalog item reference as seen by the engine.
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`

	// Box is the vision oracle's proposed location, when available.
	Box *utils.Box `json:"box,omitempty"`

	// Dimensions are real-world inches, when known.
	Dimensions *Dimensions `json:"dimensions,omitempty"`

	// Position is the qualitative depth hint ("foreground"/"center"/"background").
	Position DepthPosition `json:"position,omitempty"`

	// ImageURL is the catalog photo used for prompt enrichment.
	ImageURL string `json:"image_url,omitempty"`
}

// CategoryLabel returns the text label used for segmentation and prompts:
// the explicit category when set, otherwise the display name.
func (p Product) CategoryLabel() string {
	if p.Category != "" {
		return p.Category
	}
	return p.Name
}
