// Package pysrc wraps tree-sitter parsing of Python source files and
// provides the text-level utilities (dedent, re-indent, span edits) that
// the refactoring transformers build on.
package pysrc

import (
	"errors"
	"os"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// ErrSyntax indicates the source text does not parse as valid Python.
var ErrSyntax = errors.New("python syntax error")

// Tree is the parsed representation of one file's text. It owns the
// underlying tree-sitter tree and must be closed after use. Trees are
// created per invocation and never cached.
type Tree struct {
	source []byte
	lines  []string
	tree   *sitter.Tree
	root   *sitter.Node
}

var pythonLanguage = sitter.NewLanguage(python.Language())

// Parse parses Python source text. It returns ErrSyntax (wrapped) when the
// parse tree contains error or missing nodes, so callers can distinguish
// broken input from I/O failures.
func Parse(source []byte) (*Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(pythonLanguage)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, ErrSyntax
	}

	root := tree.RootNode()
	if root.HasError() || hasSyntaxError(root) {
		tree.Close()
		return nil, ErrSyntax
	}

	return &Tree{
		source: source,
		lines:  strings.Split(string(source), "\n"),
		tree:   tree,
		root:   root,
	}, nil
}

// hasSyntaxError reports whether any node in the tree is an error or a
// missing node. Recovery from a dangling block header ("if True:" with no
// body) inserts a missing node that the root's error flag alone does not
// surface.
func hasSyntaxError(node *sitter.Node) bool {
	if node.IsError() || node.IsMissing() {
		return true
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if hasSyntaxError(node.Child(uint(i))) {
			return true
		}
	}
	return false
}

// ParseFile reads and parses a Python file.
func ParseFile(path string) (*Tree, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(source)
}

// Validate reports whether the candidate text parses cleanly. Every
// transformer runs generated output through this gate before any write.
func Validate(source []byte) error {
	t, err := Parse(source)
	if err != nil {
		return err
	}
	t.Close()
	return nil
}

// ParseExpr parses a single Python expression. It fails if the text is not
// exactly one expression statement.
func ParseExpr(text string) (*Tree, *sitter.Node, error) {
	t, err := Parse([]byte(text))
	if err != nil {
		return nil, nil, err
	}
	if t.root.NamedChildCount() != 1 {
		t.Close()
		return nil, nil, ErrSyntax
	}
	stmt := t.root.NamedChild(0)
	if stmt.Kind() != "expression_statement" || stmt.NamedChildCount() != 1 {
		t.Close()
		return nil, nil, ErrSyntax
	}
	expr := stmt.NamedChild(0)
	// Assignments also live inside expression_statement nodes.
	if expr.Kind() == "assignment" || expr.Kind() == "augmented_assignment" {
		t.Close()
		return nil, nil, ErrSyntax
	}
	return t, expr, nil
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// Root returns the module node.
func (t *Tree) Root() *sitter.Node { return t.root }

// Source returns the raw source bytes the tree was parsed from.
func (t *Tree) Source() []byte { return t.source }

// Lines returns the source split on newlines (no trailing separators).
func (t *Tree) Lines() []string { return t.lines }

// LineCount returns the number of source lines.
func (t *Tree) LineCount() int { return len(t.lines) }

// Text returns the source text covered by a node.
func (t *Tree) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(t.source[node.StartByte():node.EndByte()])
}

// SliceLines returns lines startLine..endLine (1-indexed, inclusive).
func (t *Tree) SliceLines(startLine, endLine int) []string {
	if startLine < 1 || startLine > len(t.lines) {
		return nil
	}
	end := endLine
	if end > len(t.lines) {
		end = len(t.lines)
	}
	out := make([]string, end-startLine+1)
	copy(out, t.lines[startLine-1:end])
	return out
}

// StartLine returns a node's 1-based start line.
func StartLine(node *sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}

// EndLine returns a node's 1-based end line.
func EndLine(node *sitter.Node) int {
	return int(node.EndPosition().Row) + 1
}
