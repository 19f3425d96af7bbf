package refactor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mvp-joe/cortex-refactor/internal/analysis"
	"github.com/mvp-joe/cortex-refactor/internal/pysrc"
)

const bodyIndent = "    " // one nesting level

// ExtractFunction lifts the inclusive 1-based line range [startLine,
// endLine] of the file into a new top-level-style function, replacing the
// range with a call statement. Variable flow analysis decides the
// parameter list (inputs), the returned names (outputs), and which names
// stay local.
func (e *Engine) ExtractFunction(path string, startLine, endLine int, name string, addReturn bool) (*ExtractResult, error) {
	if err := e.validIdentifier(name); err != nil {
		return nil, err
	}

	tree, lerr := e.load(path)
	if lerr != nil {
		return nil, lerr
	}
	defer tree.Close()

	if startLine < 1 || startLine > endLine || endLine > tree.LineCount() {
		return nil, errKind(KindInvalidRange, "lines %d-%d out of range (file has %d lines)", startLine, endLine, tree.LineCount())
	}

	fragment := tree.SliceLines(startLine, endLine)
	baseIndent := pysrc.CommonIndent(fragment)
	dedented := pysrc.Dedent(fragment)

	fragTree, err := pysrc.Parse([]byte(strings.Join(dedented, "\n")))
	if err != nil {
		return nil, errKind(KindInvalidRange, "lines %d-%d do not form a complete block", startLine, endLine)
	}
	defer fragTree.Close()

	fragFlow := e.flow.Analyze(fragTree, fragTree.Root())
	usedAfter := e.usedAfter(tree, endLine)
	flow := e.flow.Classify(fragFlow, usedAfter)

	functionText := buildFunctionText(name, flow, dedented, addReturn)
	callSite := buildCallSite(baseIndent, name, flow)
	insertAt := e.insertionLine(tree, startLine, endLine)

	source := tree.Source()
	offsets := pysrc.LineOffsets(source)
	insertOffset := lineStartOffset(source, offsets, insertAt)
	rangeStart, rangeEnd := pysrc.LineSpan(source, offsets, startLine, endLine)

	updated, err := pysrc.ApplyEdits(source, []pysrc.Edit{
		{Start: insertOffset, End: insertOffset, Text: functionText + "\n"},
		{Start: rangeStart, End: rangeEnd, Text: callSite + "\n"},
	})
	if err != nil {
		return nil, errKind(KindInvalidRange, "%v", err)
	}

	description := fmt.Sprintf("extracted lines %d-%d into function %s", startLine, endLine, name)
	if cerr := e.commit(path, source, updated, "extract_function", description); cerr != nil {
		return nil, cerr
	}

	return &ExtractResult{
		FilePath:     path,
		FunctionName: name,
		FunctionText: functionText,
		CallSite:     strings.TrimLeft(callSite, " \t"),
		InsertedAt:   insertAt,
		Flow:         flow,
	}, nil
}

// usedAfter collects the names read by everything after the extracted
// range in the file. When the remainder does not parse standalone (it can
// start mid-construct), fall back to a token scan, which over-approximates
// uses and therefore never under-reports outputs.
func (e *Engine) usedAfter(tree *pysrc.Tree, endLine int) analysis.NameSet {
	if endLine >= tree.LineCount() {
		return make(analysis.NameSet)
	}

	remainder := pysrc.Dedent(tree.SliceLines(endLine+1, tree.LineCount()))
	text := strings.Join(remainder, "\n")

	if remTree, err := pysrc.Parse([]byte(text)); err == nil {
		defer remTree.Close()
		return e.flow.Analyze(remTree, remTree.Root()).Used
	}

	used := make(analysis.NameSet)
	for _, word := range identifierWords(text) {
		used.Add(word)
	}
	return used
}

// lineStartOffset returns the byte offset where the given 1-based line
// starts, clamping past-the-end lines to EOF.
func lineStartOffset(source []byte, offsets []int, line int) int {
	if line >= len(offsets) {
		return len(source)
	}
	return offsets[line]
}

var wordRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

func identifierWords(text string) []string {
	return wordRe.FindAllString(text, -1)
}

func buildFunctionText(name string, flow *analysis.VariableFlow, body []string, addReturn bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "def %s(%s):\n", name, strings.Join(flow.Inputs, ", "))
	for _, line := range pysrc.Reindent(body, bodyIndent) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if addReturn && len(flow.Outputs) > 0 {
		fmt.Fprintf(&b, "%sreturn %s\n", bodyIndent, strings.Join(flow.Outputs, ", "))
	}
	return b.String()
}

func buildCallSite(indent, name string, flow *analysis.VariableFlow) string {
	call := fmt.Sprintf("%s(%s)", name, strings.Join(flow.Inputs, ", "))
	if len(flow.Outputs) > 0 {
		return fmt.Sprintf("%s%s = %s", indent, strings.Join(flow.Outputs, ", "), call)
	}
	return indent + call
}

// insertionLine picks where the new definition goes: immediately before
// the outermost function or class enclosing the extracted range, else
// before the first top-level function or class, else just after the
// leading import block. The outermost definition sits at module level,
// so the generated def always lands at column zero.
func (e *Engine) insertionLine(tree *pysrc.Tree, startLine, endLine int) int {
	enclosing := tree.EnclosingDefinitions(startLine, endLine)
	if len(enclosing) > 0 {
		outermost := enclosing[0]
		// Keep decorators attached to their definition.
		if parent := outermost.Parent(); parent != nil && parent.Kind() == "decorated_definition" {
			outermost = parent
		}
		return pysrc.StartLine(outermost)
	}

	root := tree.Root()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(uint(i))
		def := pysrc.Definition(child)
		kind := def.Kind()
		if kind == "function_definition" || kind == "class_definition" {
			if line := pysrc.StartLine(child); line < startLine || line > endLine {
				return line
			}
		}
	}

	return afterLeadingImports(tree)
}

// afterLeadingImports returns the first line after the contiguous run of
// module docstring and import statements at the top of the file.
func afterLeadingImports(tree *pysrc.Tree) int {
	line := 1
	root := tree.Root()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(uint(i))
		switch child.Kind() {
		case "import_statement", "import_from_statement", "future_import_statement", "comment":
			line = pysrc.EndLine(child) + 1
			continue
		case "expression_statement":
			// Module docstring.
			if i == 0 && child.NamedChildCount() == 1 && child.NamedChild(0).Kind() == "string" {
				line = pysrc.EndLine(child) + 1
				continue
			}
		}
		break
	}
	return line
}
