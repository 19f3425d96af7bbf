package analysis

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/cortex-refactor/internal/pysrc"
)

// Flow is the raw result of walking a statement range: every identifier
// read, every name bound, and every assignment target. Nested function and
// class bodies are opaque: their names are recorded as defined but their
// bodies are not descended into.
type Flow struct {
	Used     NameSet
	Defined  NameSet
	Assigned NameSet
}

// VariableFlow classifies the variables of a statement range relative to
// the code that runs after it.
//
// Invariants, by construction: Outputs ⊆ Defined and Locals ∩ Outputs = ∅.
type VariableFlow struct {
	Inputs  []string // read in the range, not locally defined, not builtin
	Outputs []string // assigned in the range and read afterwards
	Locals  []string // defined in the range and dead afterwards
}

// FlowAnalyzer walks syntax trees and classifies identifiers. The builtin
// vocabulary is injected configuration, not a package constant.
type FlowAnalyzer struct {
	builtins NameSet
}

// NewFlowAnalyzer creates an analyzer with the given builtin names.
func NewFlowAnalyzer(builtins []string) *FlowAnalyzer {
	return &FlowAnalyzer{builtins: NewNameSet(builtins)}
}

// Analyze walks the tree rooted at node and returns its raw flow sets.
func (a *FlowAnalyzer) Analyze(tree *pysrc.Tree, node *sitter.Node) *Flow {
	flow := &Flow{
		Used:     make(NameSet),
		Defined:  make(NameSet),
		Assigned: make(NameSet),
	}
	a.walk(tree, node, flow)
	return flow
}

// Classify combines the flow of an extracted fragment with the names read
// after it to produce the input/output/local partition.
func (a *FlowAnalyzer) Classify(fragment *Flow, usedAfter NameSet) *VariableFlow {
	inputs := fragment.Used.Minus(fragment.Defined).Minus(a.builtins)
	outputs := fragment.Assigned.Intersect(usedAfter)
	locals := fragment.Defined.Minus(outputs)

	return &VariableFlow{
		Inputs:  inputs.Sorted(),
		Outputs: outputs.Sorted(),
		Locals:  locals.Sorted(),
	}
}

func (a *FlowAnalyzer) walk(tree *pysrc.Tree, node *sitter.Node, flow *Flow) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "function_definition", "class_definition":
		// Opaque scope: the name is a binding, the body is not entered.
		if name := node.ChildByFieldName("name"); name != nil {
			flow.Defined.Add(tree.Text(name))
		}
		return

	case "lambda":
		// Lambda parameters shadow outer names; treat the whole lambda as
		// opaque the same way named functions are.
		return

	case "assignment":
		a.collectTargets(tree, node.ChildByFieldName("left"), flow)
		a.walk(tree, node.ChildByFieldName("right"), flow)
		if t := node.ChildByFieldName("type"); t != nil {
			a.walk(tree, t, flow)
		}
		return

	case "augmented_assignment":
		// x += 1 both reads and writes x.
		left := node.ChildByFieldName("left")
		a.walkUses(tree, left, flow)
		a.collectTargets(tree, left, flow)
		a.walk(tree, node.ChildByFieldName("right"), flow)
		return

	case "named_expression":
		a.collectTargets(tree, node.ChildByFieldName("name"), flow)
		a.walk(tree, node.ChildByFieldName("value"), flow)
		return

	case "for_statement", "for_in_clause":
		a.collectTargets(tree, node.ChildByFieldName("left"), flow)
		a.walk(tree, node.ChildByFieldName("right"), flow)
		if body := node.ChildByFieldName("body"); body != nil {
			a.walk(tree, body, flow)
		}
		// Comprehension clauses carry trailing if conditions as extra
		// named children; cover them generically.
		if node.Kind() == "for_in_clause" {
			return
		}
		if alt := node.ChildByFieldName("alternative"); alt != nil {
			a.walk(tree, alt, flow)
		}
		return

	case "as_pattern":
		// except ValueError as e / with open(p) as f: the value is a read,
		// the alias is a binding.
		a.walk(tree, node.NamedChild(0), flow)
		if alias := node.ChildByFieldName("alias"); alias != nil {
			a.collectTargets(tree, alias, flow)
		}
		return

	case "import_statement", "import_from_statement":
		a.collectImportBindings(tree, node, flow)
		return

	case "global_statement", "nonlocal_statement":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			flow.Used.Add(tree.Text(node.NamedChild(uint(i))))
		}
		return

	case "attribute":
		// obj.attr reads obj; the attribute name is not an identifier use.
		a.walk(tree, node.ChildByFieldName("object"), flow)
		return

	case "keyword_argument":
		a.walk(tree, node.ChildByFieldName("value"), flow)
		return

	case "identifier":
		flow.Used.Add(tree.Text(node))
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		a.walk(tree, node.Child(uint(i)), flow)
	}
}

// walkUses records identifier reads without creating bindings.
func (a *FlowAnalyzer) walkUses(tree *pysrc.Tree, node *sitter.Node, flow *Flow) {
	if node == nil {
		return
	}
	pysrc.Walk(node, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "identifier":
			flow.Used.Add(tree.Text(n))
		case "attribute":
			a.walk(tree, n.ChildByFieldName("object"), flow)
			return false
		}
		return true
	})
}

// collectTargets records the names bound by an assignment-like target.
// Attribute and subscript targets mutate existing objects rather than bind
// names, so only their bases count as reads.
func (a *FlowAnalyzer) collectTargets(tree *pysrc.Tree, node *sitter.Node, flow *Flow) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "identifier":
		name := tree.Text(node)
		flow.Defined.Add(name)
		flow.Assigned.Add(name)
	case "pattern_list", "tuple_pattern", "list_pattern":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			a.collectTargets(tree, node.NamedChild(uint(i)), flow)
		}
	case "list_splat_pattern":
		a.collectTargets(tree, node.NamedChild(0), flow)
	case "as_pattern_target":
		// The grammar aliases the target expression; a plain alias has no
		// children and its own text is the bound name.
		if node.NamedChildCount() == 0 {
			name := tree.Text(node)
			flow.Defined.Add(name)
			flow.Assigned.Add(name)
			return
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			a.collectTargets(tree, node.NamedChild(uint(i)), flow)
		}
	case "attribute", "subscript":
		a.walk(tree, node, flow)
	}
}

// collectImportBindings records names bound by import statements.
func (a *FlowAnalyzer) collectImportBindings(tree *pysrc.Tree, node *sitter.Node, flow *Flow) {
	bind := func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Kind() {
		case "aliased_import":
			if alias := n.ChildByFieldName("alias"); alias != nil {
				flow.Defined.Add(tree.Text(alias))
			}
		case "dotted_name":
			// import a.b.c binds a.
			if first := n.NamedChild(0); first != nil {
				flow.Defined.Add(tree.Text(first))
			}
		case "identifier":
			flow.Defined.Add(tree.Text(n))
		}
	}

	if node.Kind() == "import_from_statement" {
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(uint(i))
			if mod := node.ChildByFieldName("module_name"); mod != nil && child.StartByte() == mod.StartByte() {
				continue
			}
			bind(child)
		}
		return
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		bind(node.NamedChild(uint(i)))
	}
}
