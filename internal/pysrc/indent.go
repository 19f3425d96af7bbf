package pysrc

import "strings"

// IndentOf returns the leading whitespace of a line.
func IndentOf(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	return line[:len(line)-len(trimmed)]
}

// IsBlank reports whether a line contains only whitespace.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// CommonIndent returns the longest indentation shared by all non-blank
// lines. Blank lines are ignored so stray empty lines inside a block do
// not defeat dedenting.
func CommonIndent(lines []string) string {
	common := ""
	first := true
	for _, line := range lines {
		if IsBlank(line) {
			continue
		}
		indent := IndentOf(line)
		if first {
			common = indent
			first = false
			continue
		}
		for !strings.HasPrefix(indent, common) {
			common = common[:len(common)-1]
		}
	}
	return common
}

// Dedent strips the common leading indentation from a fragment so it
// parses as a standalone top-level block. Blank lines become empty.
func Dedent(lines []string) []string {
	common := CommonIndent(lines)
	out := make([]string, len(lines))
	for i, line := range lines {
		if IsBlank(line) {
			out[i] = ""
			continue
		}
		out[i] = strings.TrimPrefix(line, common)
	}
	return out
}

// Reindent prefixes every non-blank line with the given indentation.
func Reindent(lines []string, indent string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if IsBlank(line) {
			out[i] = ""
			continue
		}
		out[i] = indent + line
	}
	return out
}

// ShiftIndent moves a fragment from one base indentation to another,
// preserving each line's depth relative to the old base: the new indent is
// newBase + (original - oldBase).
func ShiftIndent(lines []string, oldBase, newBase string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if IsBlank(line) {
			out[i] = ""
			continue
		}
		rest := strings.TrimPrefix(line, oldBase)
		out[i] = newBase + rest
	}
	return out
}
