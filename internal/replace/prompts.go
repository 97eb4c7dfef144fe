package replace

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/stagehand/internal/catalog"
)

// removalPrompt asks the inpainting oracle to synthesize plausible empty
// space where the removed item stood.
func removalPrompt(category string) string {
	if category == "" {
		category = "furniture"
	}
	return fmt.Sprintf(
		"empty room interior where the %s was removed, seamless floor and wall continuation, "+
			"consistent lighting and shadows, photorealistic", category)
}

// removalNegativePrompt discourages the oracle from regenerating furniture
// inside the cleared region.
func removalNegativePrompt() string {
	return "furniture, sofa, chair, table, objects, clutter, people, text, watermark"
}

// placementPrompt describes the new product, optionally enriched by a vision
// description of its catalog photo.
func placementPrompt(p catalog.Product, description string) string {
	parts := []string{p.Name}
	if p.Category != "" && !strings.EqualFold(p.Category, p.Name) {
		parts = append(parts, p.Category)
	}
	if description != "" {
		parts = append(parts, description)
	}
	parts = append(parts,
		"placed naturally in the room, matching perspective and lighting, photorealistic interior photo")
	return strings.Join(parts, ", ")
}

// placementNegativePrompt keeps placement output clean.
func placementNegativePrompt() string {
	return "distorted geometry, floating furniture, duplicate objects, text, watermark, cartoon"
}
