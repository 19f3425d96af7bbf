// Package analysis implements the static analyses the refactoring
// transformers rely on: variable flow classification, inline safety
// checking, method mining, and constructor dependency detection.
package analysis

import "sort"

// NameSet is a set of identifier names.
type NameSet map[string]bool

// NewNameSet builds a set from a list of names.
func NewNameSet(names []string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s[n] = true
	}
	return s
}

// Add inserts a name.
func (s NameSet) Add(name string) { s[name] = true }

// Has reports membership.
func (s NameSet) Has(name string) bool { return s[name] }

// Sorted returns the names in sorted order.
func (s NameSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Minus returns s - other.
func (s NameSet) Minus(other NameSet) NameSet {
	out := make(NameSet)
	for n := range s {
		if !other[n] {
			out[n] = true
		}
	}
	return out
}

// Intersect returns s ∩ other.
func (s NameSet) Intersect(other NameSet) NameSet {
	out := make(NameSet)
	for n := range s {
		if other[n] {
			out[n] = true
		}
	}
	return out
}

// DefaultBuiltins returns the builtin vocabulary of the subject language.
// The analyzer takes the set as configuration rather than reading a package
// constant, so a different subject language can swap it out.
func DefaultBuiltins() []string {
	return []string{
		"abs", "all", "any", "ascii", "bin", "bool", "bytearray", "bytes",
		"callable", "chr", "classmethod", "compile", "complex", "delattr",
		"dict", "dir", "divmod", "enumerate", "eval", "exec", "filter",
		"float", "format", "frozenset", "getattr", "globals", "hasattr",
		"hash", "help", "hex", "id", "input", "int", "isinstance",
		"issubclass", "iter", "len", "list", "locals", "map", "max",
		"memoryview", "min", "next", "object", "oct", "open", "ord", "pow",
		"print", "property", "range", "repr", "reversed", "round", "set",
		"setattr", "slice", "sorted", "staticmethod", "str", "sum", "super",
		"tuple", "type", "vars", "zip",
		"True", "False", "None", "NotImplemented", "Ellipsis",
		"Exception", "BaseException", "ValueError", "TypeError", "KeyError",
		"IndexError", "AttributeError", "RuntimeError", "StopIteration",
		"NotImplementedError", "OSError", "IOError", "ZeroDivisionError",
	}
}

// DefaultSideEffectCalls returns the primitive calls treated as observable
// side effects by the inline safety checker.
func DefaultSideEffectCalls() []string {
	return []string{"print", "open", "write", "input", "exec", "eval"}
}
