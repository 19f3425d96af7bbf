package pysrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEdits(t *testing.T) {
	t.Parallel()

	source := []byte("abcdef")

	// Order of the edit list must not matter.
	out, err := ApplyEdits(source, []Edit{
		{Start: 4, End: 5, Text: "E"},
		{Start: 1, End: 2, Text: "B"},
	})
	require.NoError(t, err)
	assert.Equal(t, "aBcdEf", string(out))
}

func TestApplyEdits_Insertion(t *testing.T) {
	t.Parallel()

	out, err := ApplyEdits([]byte("ac"), []Edit{{Start: 1, End: 1, Text: "b"}})
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out))
}

func TestApplyEdits_InsertionAtDeletionStart(t *testing.T) {
	t.Parallel()

	// A zero-width insert at the start of a deleted span lands before it.
	out, err := ApplyEdits([]byte("hello"), []Edit{
		{Start: 1, End: 1, Text: "X"},
		{Start: 1, End: 4, Text: ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "hXo", string(out))
}

func TestApplyEdits_Overlap(t *testing.T) {
	t.Parallel()

	_, err := ApplyEdits([]byte("abcdef"), []Edit{
		{Start: 0, End: 3, Text: "x"},
		{Start: 2, End: 4, Text: "y"},
	})
	assert.Error(t, err)
}

func TestApplyEdits_OutOfBounds(t *testing.T) {
	t.Parallel()

	_, err := ApplyEdits([]byte("ab"), []Edit{{Start: 1, End: 5, Text: "x"}})
	assert.Error(t, err)
}

func TestLineOffsets(t *testing.T) {
	t.Parallel()

	source := []byte("one\ntwo\nthree\n")
	offsets := LineOffsets(source)

	assert.Equal(t, 0, offsets[1])
	assert.Equal(t, 4, offsets[2])
	assert.Equal(t, 8, offsets[3])

	start, end := LineSpan(source, offsets, 2, 2)
	assert.Equal(t, "two\n", string(source[start:end]))

	start, end = LineSpan(source, offsets, 1, 3)
	assert.Equal(t, "one\ntwo\nthree\n", string(source[start:end]))
}
