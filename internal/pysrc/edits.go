package pysrc

import (
	"fmt"
	"sort"
)

// Edit replaces the byte range [Start, End) of a source buffer with Text.
// An insertion is an edit with Start == End. Transformers assemble every
// change to a file as a list of edits and apply them in a single pass, so
// insertions and deletions cannot desynchronize each other's offsets.
type Edit struct {
	Start int
	End   int
	Text  string
}

// ApplyEdits applies a set of non-overlapping edits to the source buffer
// and returns the new content. Edits may be given in any order.
func ApplyEdits(source []byte, edits []Edit) ([]byte, error) {
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	for i, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(source) {
			return nil, fmt.Errorf("edit [%d,%d) out of bounds (source is %d bytes)", e.Start, e.End, len(source))
		}
		if i > 0 && e.Start < sorted[i-1].End {
			return nil, fmt.Errorf("overlapping edits at byte %d", e.Start)
		}
	}

	var out []byte
	prev := 0
	for _, e := range sorted {
		out = append(out, source[prev:e.Start]...)
		out = append(out, e.Text...)
		prev = e.End
	}
	out = append(out, source[prev:]...)
	return out, nil
}

// LineOffsets returns the byte offset of the start of every 1-based line.
// Index 0 is unused.
func LineOffsets(source []byte) []int {
	offsets := []int{0, 0}
	for i, b := range source {
		if b == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// LineSpan converts an inclusive 1-based line range into the byte range
// covering those lines including the trailing newline of the last one.
func LineSpan(source []byte, offsets []int, startLine, endLine int) (int, int) {
	start := offsets[startLine]
	var end int
	if endLine+1 < len(offsets) {
		end = offsets[endLine+1]
	} else {
		end = len(source)
	}
	return start, end
}
