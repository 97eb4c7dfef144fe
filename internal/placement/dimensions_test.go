package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDimensionTableParses(t *testing.T) {
	table, err := DefaultDimensionTable()
	require.NoError(t, err)

	sofa := table.Lookup("sofa")
	assert.InDelta(t, 84, sofa.Width, 1e-9)
	assert.InDelta(t, 30, sofa.Height, 1e-9)
}

func TestLookupIsCaseFolded(t *testing.T) {
	table, err := DefaultDimensionTable()
	require.NoError(t, err)

	assert.Equal(t, table.Lookup("sofa"), table.Lookup("SOFA"))
	assert.Equal(t, table.Lookup("coffee table"), table.Lookup("Coffee Table"))
}

func TestLookupMatchesBySubstring(t *testing.T) {
	table, err := DefaultDimensionTable()
	require.NoError(t, err)

	assert.Equal(t, table.Lookup("sofa"), table.Lookup("3-seat leather sofa"))
	// prefers the most specific category name
	assert.Equal(t, table.Lookup("coffee table"), table.Lookup("round coffee table"))
}

func TestLookupUnknownFallsBackToDefault(t *testing.T) {
	table, err := DefaultDimensionTable()
	require.NoError(t, err)

	d := table.Lookup("flux capacitor")
	assert.True(t, d.Valid())
	assert.InDelta(t, 36, d.Width, 1e-9)
}

func TestParseDimensionTableRequiresDefault(t *testing.T) {
	_, err := ParseDimensionTable([]byte("sofa: {width: 84, depth: 36, height: 30}\n"))
	assert.Error(t, err)
}

func TestParseDimensionTableRejectsInvalidEntry(t *testing.T) {
	data := []byte("default: {width: 36, depth: 24, height: 30}\nbroken: {width: 0, depth: 0, height: 0}\n")
	_, err := ParseDimensionTable(data)
	assert.Error(t, err)
}
