package analysis

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/cortex-refactor/internal/pysrc"
)

// Unsafe-reason vocabulary for inline candidates. Callers surface these
// strings verbatim.
const (
	ReasonDefaultArgs      = "has default arguments"
	ReasonVarArgs          = "has *args or **kwargs"
	ReasonRecursive        = "is recursive"
	ReasonGenerator        = "is a generator function"
	ReasonGlobal           = "uses global statement"
	ReasonNonlocal         = "uses nonlocal statement"
	ReasonAttributeMutate  = "modifies object attributes"
	ReasonSubscriptMutate  = "modifies subscript"
	ReasonMultipleReturns  = "has multiple return statements"
	ReasonBodyBeforeReturn = "has statements preceding its return"
)

// ReasonSideEffectCall formats the unsafe reason for a call to a known
// side-effecting primitive.
func ReasonSideEffectCall(name string) string {
	return fmt.Sprintf("calls side-effect function '%s'", name)
}

// FunctionInfo describes an inline candidate.
type FunctionInfo struct {
	Name         string
	Params       []string
	BodyLines    []string // dedented body, trailing bare pass stripped
	ReturnExpr   string   // empty when the function has no return
	IsSafe       bool
	UnsafeReason string

	// Span of the whole definition including decorators, 1-based inclusive.
	StartLine int
	EndLine   int
}

// SafetyChecker decides whether a function can be inlined without changing
// observable behavior. The side-effect call set is injected configuration.
type SafetyChecker struct {
	sideEffects NameSet
}

// NewSafetyChecker creates a checker with the given side-effecting call names.
func NewSafetyChecker(sideEffectCalls []string) *SafetyChecker {
	return &SafetyChecker{sideEffects: NewNameSet(sideEffectCalls)}
}

// AnalyzeFunction builds the FunctionInfo for a module-level function.
// It returns nil when no function with that name exists.
func (c *SafetyChecker) AnalyzeFunction(tree *pysrc.Tree, name string) *FunctionInfo {
	def, outer := tree.FindFunction(name)
	if def == nil {
		return nil
	}

	info := &FunctionInfo{
		Name:      name,
		StartLine: pysrc.StartLine(outer),
		EndLine:   pysrc.EndLine(outer),
		IsSafe:    true,
	}

	c.checkParameters(tree, def, info)
	stmts := c.extractBody(tree, def, info)
	if info.IsSafe {
		c.checkBody(tree, def, info)
	}
	// A return-bearing body must be exactly that return. More specific
	// reasons found above win because markUnsafe keeps the first one.
	if info.ReturnExpr != "" && stmts > 1 {
		c.markUnsafe(info, ReasonBodyBeforeReturn)
	}
	return info
}

func (c *SafetyChecker) markUnsafe(info *FunctionInfo, reason string) {
	if info.IsSafe {
		info.IsSafe = false
		info.UnsafeReason = reason
	}
}

func (c *SafetyChecker) checkParameters(tree *pysrc.Tree, def *sitter.Node, info *FunctionInfo) {
	params := def.ChildByFieldName("parameters")
	if params == nil {
		return
	}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(uint(i))
		switch p.Kind() {
		case "identifier":
			info.Params = append(info.Params, tree.Text(p))
		case "typed_parameter":
			if id := pysrc.FindChildByKind(p, "identifier"); id != nil {
				info.Params = append(info.Params, tree.Text(id))
			}
		case "default_parameter", "typed_default_parameter":
			c.markUnsafe(info, ReasonDefaultArgs)
			if id := p.ChildByFieldName("name"); id != nil {
				info.Params = append(info.Params, tree.Text(id))
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			c.markUnsafe(info, ReasonVarArgs)
		}
	}
}

// extractBody records the dedented body lines minus any trailing bare pass,
// and the trailing return expression if the body ends in a return. It
// returns the number of surviving statements.
func (c *SafetyChecker) extractBody(tree *pysrc.Tree, def *sitter.Node, info *FunctionInfo) int {
	body := def.ChildByFieldName("body")
	if body == nil {
		return 0
	}

	statements := make([]*sitter.Node, 0, body.NamedChildCount())
	for i := 0; i < int(body.NamedChildCount()); i++ {
		statements = append(statements, body.NamedChild(uint(i)))
	}
	// Trailing bare pass carries no behavior.
	for len(statements) > 0 && statements[len(statements)-1].Kind() == "pass_statement" {
		statements = statements[:len(statements)-1]
	}
	if len(statements) == 0 {
		return 0
	}

	first := statements[0]
	last := statements[len(statements)-1]
	raw := tree.SliceLines(pysrc.StartLine(first), pysrc.EndLine(last))
	info.BodyLines = pysrc.Dedent(raw)

	if last.Kind() == "return_statement" {
		if expr := last.NamedChild(0); expr != nil {
			info.ReturnExpr = tree.Text(expr)
		}
	}
	return len(statements)
}

func (c *SafetyChecker) checkBody(tree *pysrc.Tree, def *sitter.Node, info *FunctionInfo) {
	body := def.ChildByFieldName("body")
	if body == nil {
		return
	}

	returns := 0
	pysrc.Walk(body, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "function_definition", "class_definition", "lambda":
			// Nested scopes keep their own semantics.
			return false

		case "return_statement":
			returns++

		case "yield":
			c.markUnsafe(info, ReasonGenerator)

		case "global_statement":
			c.markUnsafe(info, ReasonGlobal)

		case "nonlocal_statement":
			c.markUnsafe(info, ReasonNonlocal)

		case "call":
			if callee := c.calleeName(tree, n); callee != "" {
				if callee == info.Name {
					c.markUnsafe(info, ReasonRecursive)
				} else if c.sideEffects.Has(callee) {
					c.markUnsafe(info, ReasonSideEffectCall(callee))
				}
			}

		case "assignment", "augmented_assignment":
			c.checkMutation(n.ChildByFieldName("left"), info)
		}
		return true
	})

	if returns > 1 {
		c.markUnsafe(info, ReasonMultipleReturns)
	}
}

// calleeName resolves the name a call dispatches on: the identifier for a
// bare call, the attribute name for a method call.
func (c *SafetyChecker) calleeName(tree *pysrc.Tree, call *sitter.Node) string {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	switch fn.Kind() {
	case "identifier":
		return tree.Text(fn)
	case "attribute":
		return tree.Text(fn.ChildByFieldName("attribute"))
	}
	return ""
}

func (c *SafetyChecker) checkMutation(target *sitter.Node, info *FunctionInfo) {
	if target == nil {
		return
	}
	switch target.Kind() {
	case "attribute":
		c.markUnsafe(info, ReasonAttributeMutate)
	case "subscript":
		c.markUnsafe(info, ReasonSubscriptMutate)
	case "pattern_list", "tuple_pattern", "list_pattern":
		for i := 0; i < int(target.NamedChildCount()); i++ {
			c.checkMutation(target.NamedChild(uint(i)), info)
		}
	}
}

// HasParams reports whether the parameter list is non-empty.
func (f *FunctionInfo) HasParams() bool { return len(f.Params) > 0 }

// BodyText returns the dedented body as a single string.
func (f *FunctionInfo) BodyText() string { return strings.Join(f.BodyLines, "\n") }
