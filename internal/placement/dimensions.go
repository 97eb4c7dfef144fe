package placement

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/stagehand/internal/catalog"
)

//go:embed dimensions.yaml
var dimensionsYAML []byte

// DimensionTable maps furniture category names to typical real-world
// dimensions, used when a product carries none of its own.
type DimensionTable struct {
	entries map[string]catalog.Dimensions
	// names holds entry keys longest-first, so substring matching prefers
	// the most specific category ("coffee table" before "table").
	names []string
	def   catalog.Dimensions
}

var (
	defaultTableOnce sync.Once
	defaultTable     *DimensionTable
	defaultTableErr  error
)

// DefaultDimensionTable returns the embedded category table. Parsed once;
// the embedded data is validated by tests, so failure here is a build defect.
func DefaultDimensionTable() (*DimensionTable, error) {
	defaultTableOnce.Do(func() {
		defaultTable, defaultTableErr = ParseDimensionTable(dimensionsYAML)
	})
	return defaultTable, defaultTableErr
}

// ParseDimensionTable reads a YAML category table. A "default" entry is
// required; it backs lookups for unknown categories.
func ParseDimensionTable(data []byte) (*DimensionTable, error) {
	var raw map[string]catalog.Dimensions
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing dimension table: %w", err)
	}

	folder := cases.Fold()
	t := &DimensionTable{entries: make(map[string]catalog.Dimensions, len(raw))}
	found := false
	for k, v := range raw {
		key := folder.String(strings.TrimSpace(k))
		if key == "default" {
			t.def = v
			found = true
			continue
		}
		if !v.Valid() {
			return nil, fmt.Errorf("dimension table entry %q has no usable width/height", k)
		}
		t.entries[key] = v
	}
	if !found || !t.def.Valid() {
		return nil, fmt.Errorf("dimension table is missing a valid default entry")
	}
	for name := range t.entries {
		t.names = append(t.names, name)
	}
	sort.Slice(t.names, func(i, j int) bool {
		if len(t.names[i]) != len(t.names[j]) {
			return len(t.names[i]) > len(t.names[j])
		}
		return t.names[i] < t.names[j]
	})
	return t, nil
}

// Lookup resolves typical dimensions for a category label. Matching is
// case-folded; a label that embeds a known category ("3-seat sofa") matches
// by substring. Unknown labels fall back to the default entry, so Lookup
// always succeeds.
func (t *DimensionTable) Lookup(category string) catalog.Dimensions {
	key := cases.Fold().String(strings.TrimSpace(category))
	if d, ok := t.entries[key]; ok {
		return d
	}
	for _, name := range t.names {
		if strings.Contains(key, name) {
			return t.entries[name]
		}
	}
	return t.def
}
