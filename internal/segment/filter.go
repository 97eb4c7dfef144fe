package segment

// FilterConfig holds the furniture filter heuristics. The structural
// thresholds reject walls, floors and ceiling fixtures; MinAreaPercent and
// StabilityThreshold are caller-supplied per request.
type FilterConfig struct {
	// MinAreaPercent rejects segments whose area fraction falls below it.
	MinAreaPercent float64 `mapstructure:"min_area_percent" yaml:"min_area_percent" json:"min_area_percent"`

	// StabilityThreshold rejects segments whose confidence falls below it.
	StabilityThreshold float64 `mapstructure:"stability_threshold" yaml:"stability_threshold" json:"stability_threshold"`

	// MaxAreaFraction rejects segments covering more than this fraction of
	// the image (likely a structural surface).
	MaxAreaFraction float64 `mapstructure:"max_area_fraction" yaml:"max_area_fraction" json:"max_area_fraction"`

	// MinVerticalCenter rejects segments centered above this height
	// (likely ceiling or a fixture).
	MinVerticalCenter float64 `mapstructure:"min_vertical_center" yaml:"min_vertical_center" json:"min_vertical_center"`

	// TrimAspect and TrimMaxHeight together reject wide flat strips
	// (likely floor trim).
	TrimAspect    float64 `mapstructure:"trim_aspect" yaml:"trim_aspect" json:"trim_aspect"`
	TrimMaxHeight float64 `mapstructure:"trim_max_height" yaml:"trim_max_height" json:"trim_max_height"`

	// EdgeAspect and EdgeMargin together reject tall thin segments hugging
	// a lateral image edge (likely a wall edge).
	EdgeAspect float64 `mapstructure:"edge_aspect" yaml:"edge_aspect" json:"edge_aspect"`
	EdgeMargin float64 `mapstructure:"edge_margin" yaml:"edge_margin" json:"edge_margin"`
}

// DefaultFilterConfig returns the default furniture filter settings.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MinAreaPercent:     0,
		StabilityThreshold: 0,
		MaxAreaFraction:    0.5,
		MinVerticalCenter:  0.2,
		TrimAspect:         8,
		TrimMaxHeight:      0.1,
		EdgeAspect:         0.15,
		EdgeMargin:         0.05,
	}
}

// IsLikelyFurniture reports whether the segment survives every rejection
// heuristic.
func IsLikelyFurniture(s Segment, cfg FilterConfig) bool {
	if s.AreaFraction < cfg.MinAreaPercent {
		return false
	}
	if s.Confidence < cfg.StabilityThreshold {
		return false
	}
	if s.AreaFraction > cfg.MaxAreaFraction {
		return false
	}
	if s.Center.Y < cfg.MinVerticalCenter {
		return false
	}
	if s.Box.Height > 0 {
		aspect := s.Box.Width / s.Box.Height
		if aspect > cfg.TrimAspect && s.Box.Height < cfg.TrimMaxHeight {
			return false
		}
		if aspect < cfg.EdgeAspect &&
			(s.Box.X < cfg.EdgeMargin || s.Box.X+s.Box.Width > 1-cfg.EdgeMargin) {
			return false
		}
	}
	return true
}

// Filter returns the segments that pass IsLikelyFurniture. It is a pure
// predicate: order is preserved and ids are not renumbered.
func Filter(segs []Segment, cfg FilterConfig) []Segment {
	out := make([]Segment, 0, len(segs))
	for _, s := range segs {
		if IsLikelyFurniture(s, cfg) {
			out = append(out, s)
		}
	}
	return out
}
