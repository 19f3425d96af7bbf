package pysrc

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Walk recursively visits every node in the tree. The visitor returns false
// to skip a node's children.
func Walk(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		Walk(node.Child(uint(i)), visitor)
	}
}

// FindChildByKind finds the first direct child with the given node kind.
func FindChildByKind(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// FindChildrenByKind finds all direct children with the given node kind.
func FindChildrenByKind(node *sitter.Node, kind string) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == kind {
			results = append(results, child)
		}
	}
	return results
}

// Definition unwraps a decorated_definition to the def/class it decorates.
// For any other node it returns the node itself.
func Definition(node *sitter.Node) *sitter.Node {
	if node == nil || node.Kind() != "decorated_definition" {
		return node
	}
	if def := node.ChildByFieldName("definition"); def != nil {
		return def
	}
	return node
}

// NameOf returns the identifier text of a def/class node's name field,
// looking through decorators.
func (t *Tree) NameOf(node *sitter.Node) string {
	def := Definition(node)
	if def == nil {
		return ""
	}
	return t.Text(def.ChildByFieldName("name"))
}

// FindFunction locates a module-level function definition by name. The
// returned node is the function_definition; the second value is the
// outermost node including decorators (identical when undecorated).
func (t *Tree) FindFunction(name string) (*sitter.Node, *sitter.Node) {
	return t.findDefinition("function_definition", name)
}

// FindClass locates a module-level class definition by name, with the same
// return convention as FindFunction.
func (t *Tree) FindClass(name string) (*sitter.Node, *sitter.Node) {
	return t.findDefinition("class_definition", name)
}

func (t *Tree) findDefinition(kind, name string) (*sitter.Node, *sitter.Node) {
	for i := 0; i < int(t.root.NamedChildCount()); i++ {
		child := t.root.NamedChild(uint(i))
		def := Definition(child)
		if def.Kind() != kind {
			continue
		}
		if t.Text(def.ChildByFieldName("name")) == name {
			return def, child
		}
	}
	return nil, nil
}

// ClassBody returns the block node of a class definition.
func ClassBody(class *sitter.Node) *sitter.Node {
	if class == nil {
		return nil
	}
	return class.ChildByFieldName("body")
}

// EnclosingDefinitions returns every function or class definition whose
// line span fully covers [startLine, endLine], ordered outermost first.
func (t *Tree) EnclosingDefinitions(startLine, endLine int) []*sitter.Node {
	var covering []*sitter.Node
	Walk(t.root, func(n *sitter.Node) bool {
		kind := n.Kind()
		if kind != "function_definition" && kind != "class_definition" {
			return true
		}
		if StartLine(n) < startLine && EndLine(n) >= endLine {
			covering = append(covering, n)
		}
		return true
	})
	return covering
}
