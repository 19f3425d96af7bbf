package refactor

import (
	"fmt"
	"strings"
	"unicode"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/cortex-refactor/internal/pysrc"
)

// MoveMethodOptions controls a method move.
type MoveMethodOptions struct {
	SourceClass  string
	MethodName   string
	TargetClass  string
	InstanceName string // receiver attribute holding the target instance; defaults to snake_case(TargetClass)
	UpdateCalls  bool   // rewrite receiver.m(...) to receiver.<instance>.m(...) inside the source class
}

// MoveMethod relocates a method from one class to another in the same
// file. All edits are assembled against the original buffer and applied in
// one pass, so the insert and the delete cannot desynchronize.
func (e *Engine) MoveMethod(path string, opts MoveMethodOptions) (*MoveResult, error) {
	tree, lerr := e.load(path)
	if lerr != nil {
		return nil, lerr
	}
	defer tree.Close()

	sourceClass, _ := tree.FindClass(opts.SourceClass)
	if sourceClass == nil {
		return nil, errKind(KindTargetNotFound, "class %s not found", opts.SourceClass)
	}
	targetClass, _ := tree.FindClass(opts.TargetClass)
	if targetClass == nil {
		return nil, errKind(KindTargetNotFound, "class %s not found", opts.TargetClass)
	}

	sourceMethods, _ := e.methods.AnalyzeClass(tree, opts.SourceClass)
	info, ok := sourceMethods[opts.MethodName]
	if !ok {
		return nil, errKind(KindTargetNotFound, "method %s.%s not found", opts.SourceClass, opts.MethodName)
	}

	// Safety checks run before any mutation is assembled.
	if info.IsAbstract {
		return nil, &Error{Kind: KindUnsafeOperation, Reason: "abstract method"}
	}
	targetMethods, _ := e.methods.AnalyzeClass(tree, opts.TargetClass)
	if _, exists := targetMethods[opts.MethodName]; exists {
		return nil, errKind(KindAlreadyExists, "%s already defines %s", opts.TargetClass, opts.MethodName)
	}

	if opts.InstanceName == "" {
		opts.InstanceName = snakeCase(opts.TargetClass)
	}

	source := tree.Source()
	offsets := pysrc.LineOffsets(source)

	methodLines := tree.SliceLines(info.StartLine, info.EndLine)
	sourceBase := pysrc.CommonIndent(methodLines)
	targetBase := classBodyIndent(tree, targetClass)
	moved := pysrc.ShiftIndent(methodLines, sourceBase, targetBase)
	movedText := strings.Join(moved, "\n")

	var edits []pysrc.Edit

	// Removal, with a placeholder when the source class would be left
	// without any meaningful member.
	removeStart, removeEnd := pysrc.LineSpan(source, offsets, info.StartLine, info.EndLine)
	placeholder := ""
	if classLeftEmpty(tree, sourceClass, info.StartLine, info.EndLine) {
		placeholder = sourceBase + "pass\n"
	}
	edits = append(edits, pysrc.Edit{Start: removeStart, End: removeEnd, Text: placeholder})

	// Insertion at the end of the target class body.
	insertLine := pysrc.EndLine(pysrc.ClassBody(targetClass)) + 1
	insertOffset := lineStartOffset(source, offsets, insertLine)
	edits = append(edits, pysrc.Edit{Start: insertOffset, End: insertOffset, Text: "\n" + movedText + "\n"})

	updated := 0
	if opts.UpdateCalls {
		receivers := make(map[string]bool)
		for _, m := range sourceMethods {
			if m.Receiver != "" {
				receivers[m.Receiver] = true
			}
		}
		callEdits, n := e.receiverCallEdits(tree, sourceClass, receivers, info.StartLine, info.EndLine, opts.MethodName, opts.InstanceName)
		edits = append(edits, callEdits...)
		updated = n
	}

	newSource, err := pysrc.ApplyEdits(source, edits)
	if err != nil {
		return nil, errWrap(KindSyntaxErrorInOutput, err)
	}

	description := fmt.Sprintf("moved %s.%s to %s", opts.SourceClass, opts.MethodName, opts.TargetClass)
	if cerr := e.commit(path, source, newSource, "move_method", description); cerr != nil {
		return nil, cerr
	}

	return &MoveResult{
		FilePath:         path,
		MethodName:       opts.MethodName,
		SourceClass:      opts.SourceClass,
		TargetClass:      opts.TargetClass,
		MovedMethodText:  movedText,
		CallSitesUpdated: updated,
		PlaceholderAdded: placeholder != "",
	}, nil
}

// classBodyIndent returns the indentation of the target class's members.
func classBodyIndent(tree *pysrc.Tree, class *sitter.Node) string {
	body := pysrc.ClassBody(class)
	if body != nil && body.NamedChildCount() > 0 {
		first := body.NamedChild(0)
		return pysrc.IndentOf(tree.Lines()[pysrc.StartLine(first)-1])
	}
	classIndent := pysrc.IndentOf(tree.Lines()[pysrc.StartLine(class)-1])
	return classIndent + bodyIndent
}

// classLeftEmpty reports whether removing the given line span leaves the
// class with no meaningful members. A bare pass or a leading docstring
// does not count as meaningful.
func classLeftEmpty(tree *pysrc.Tree, class *sitter.Node, removeStart, removeEnd int) bool {
	body := pysrc.ClassBody(class)
	if body == nil {
		return true
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(uint(i))
		if pysrc.StartLine(child) >= removeStart && pysrc.EndLine(child) <= removeEnd {
			continue
		}
		switch child.Kind() {
		case "pass_statement", "comment":
			continue
		case "expression_statement":
			if i == 0 && child.NamedChildCount() == 1 && child.NamedChild(0).Kind() == "string" {
				continue
			}
		}
		return false
	}
	return true
}

// receiverCallEdits rewrites receiver.method(...) dispatches inside the
// remaining source class to go through the target instance attribute.
func (e *Engine) receiverCallEdits(tree *pysrc.Tree, sourceClass *sitter.Node, receivers map[string]bool, skipStart, skipEnd int, methodName, instanceName string) ([]pysrc.Edit, int) {
	var edits []pysrc.Edit
	body := pysrc.ClassBody(sourceClass)

	pysrc.Walk(body, func(n *sitter.Node) bool {
		if n.Kind() != "call" {
			return true
		}
		if pysrc.StartLine(n) >= skipStart && pysrc.EndLine(n) <= skipEnd {
			return true
		}
		fn := n.ChildByFieldName("function")
		if fn == nil || fn.Kind() != "attribute" {
			return true
		}
		obj := fn.ChildByFieldName("object")
		attr := fn.ChildByFieldName("attribute")
		if obj == nil || attr == nil || obj.Kind() != "identifier" {
			return true
		}
		if !receivers[tree.Text(obj)] || tree.Text(attr) != methodName {
			return true
		}
		edits = append(edits, pysrc.Edit{
			Start: int(obj.EndByte()),
			End:   int(obj.EndByte()),
			Text:  "." + instanceName,
		})
		return true
	})
	return edits, len(edits)
}

// snakeCase converts a CamelCase class name to its conventional instance
// attribute name.
func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
