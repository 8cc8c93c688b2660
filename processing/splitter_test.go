package processing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStitchContextFillsNeighborText(t *testing.T) {
	segments := StitchContext([]ScriptPart{
		{Text: "The ocean covers most of the planet.", SearchQuery: "ocean aerial"},
		{Text: "Beneath the surface, life thrives.", SearchQuery: "coral reef"},
		{Text: "Much of it remains unexplored.", SearchQuery: "deep sea"},
	})
	require.Len(t, segments, 3)

	assert.Empty(t, segments[0].PreviousText)
	assert.Equal(t, "Beneath the surface, life thrives.", segments[0].NextText)

	assert.Equal(t, "The ocean covers most of the planet.", segments[1].PreviousText)
	assert.Equal(t, "Much of it remains unexplored.", segments[1].NextText)

	assert.Equal(t, "Beneath the surface, life thrives.", segments[2].PreviousText)
	assert.Empty(t, segments[2].NextText)
}

func TestStitchContextDropsEmptyParts(t *testing.T) {
	segments := StitchContext([]ScriptPart{
		{Text: "First part.", SearchQuery: "city"},
		{Text: "   ", SearchQuery: "blank"},
		{Text: "No query part.", SearchQuery: ""},
		{Text: "Last part.", SearchQuery: "sunset"},
	})
	require.Len(t, segments, 2)

	// Neighbor context is stitched over the kept parts, not the raw list.
	assert.Equal(t, "First part.", segments[0].Text)
	assert.Equal(t, "Last part.", segments[0].NextText)
	assert.Equal(t, "First part.", segments[1].PreviousText)
}

func TestStitchContextSinglePart(t *testing.T) {
	segments := StitchContext([]ScriptPart{{Text: "Only part.", SearchQuery: "forest"}})
	require.Len(t, segments, 1)
	assert.Empty(t, segments[0].PreviousText)
	assert.Empty(t, segments[0].NextText)
}

func TestStitchContextAllEmpty(t *testing.T) {
	assert.Empty(t, StitchContext([]ScriptPart{{Text: "", SearchQuery: ""}}))
	assert.Empty(t, StitchContext(nil))
}

func TestWordCountForLength(t *testing.T) {
	assert.Equal(t, 50, wordCountForLength("15s"))
	assert.Equal(t, 200, wordCountForLength("1m"))
	assert.Equal(t, 1000, wordCountForLength("5min"))
	assert.Equal(t, 50, wordCountForLength("2h"))
	assert.Equal(t, 50, wordCountForLength(""))
}
