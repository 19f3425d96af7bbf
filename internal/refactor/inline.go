package refactor

import (
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/cortex-refactor/internal/analysis"
	"github.com/mvp-joe/cortex-refactor/internal/pysrc"
)

// CanInline reports whether the named function is safe to inline, and the
// unsafe reason when it is not.
func (e *Engine) CanInline(path, name string) (bool, string, error) {
	tree, lerr := e.load(path)
	if lerr != nil {
		return false, "", lerr
	}
	defer tree.Close()

	info := e.safety.AnalyzeFunction(tree, name)
	if info == nil {
		return false, "", errKind(KindTargetNotFound, "function %s not found", name)
	}
	return info.IsSafe, info.UnsafeReason, nil
}

type callSite struct {
	start, end int // byte span of the call expression
	stmtStart  int // line span of the whole statement, when the call is one
	stmtEnd    int
	isStmt     bool
	indent     string
	args       map[string]string // parameter -> argument text
}

// InlineFunction replaces every bare call to the named function with its
// substituted return expression (or body, for functions that return
// nothing), optionally deleting the definition afterwards.
func (e *Engine) InlineFunction(path, name string, removeFunction bool) (*InlineResult, error) {
	tree, lerr := e.load(path)
	if lerr != nil {
		return nil, lerr
	}
	defer tree.Close()

	info := e.safety.AnalyzeFunction(tree, name)
	if info == nil {
		return nil, errKind(KindTargetNotFound, "function %s not found", name)
	}
	if !info.IsSafe {
		return nil, &Error{Kind: KindUnsafeOperation, Reason: info.UnsafeReason}
	}

	sites := e.findCallSites(tree, info)
	if len(sites) == 0 {
		return nil, errKind(KindNoCallSites, "no call sites found for %s", name)
	}
	// Nested calls like f(f(x)) would produce overlapping edits. Rewrite
	// only the outermost ones; the inner call text travels inside the
	// bound argument.
	sites = outermostSites(sites)

	source := tree.Source()
	offsets := pysrc.LineOffsets(source)

	// Assembling one edit list and applying it in a single sorted pass is
	// equivalent to rewriting sites in reverse order: earlier offsets never
	// shift under later ones.
	var edits []pysrc.Edit
	for _, site := range sites {
		edit, err := e.siteEdit(source, offsets, info, site)
		if err != nil {
			return nil, err
		}
		edits = append(edits, edit)
	}

	if removeFunction {
		endLine := info.EndLine
		for endLine < tree.LineCount() && pysrc.IsBlank(tree.Lines()[endLine]) {
			endLine++
		}
		start, end := pysrc.LineSpan(source, offsets, info.StartLine, endLine)
		edits = append(edits, pysrc.Edit{Start: start, End: end})
	}

	updated, err := pysrc.ApplyEdits(source, edits)
	if err != nil {
		return nil, errWrap(KindSyntaxErrorInOutput, err)
	}

	description := fmt.Sprintf("inlined %d call(s) to %s", len(sites), name)
	if cerr := e.commit(path, source, updated, "inline_function", description); cerr != nil {
		return nil, cerr
	}

	return &InlineResult{
		FilePath:     path,
		FunctionName: name,
		InlinedCount: len(sites),
		Removed:      removeFunction,
	}, nil
}

// findCallSites locates bare (unqualified) calls to the function outside
// its own definition.
func (e *Engine) findCallSites(tree *pysrc.Tree, info *analysis.FunctionInfo) []callSite {
	source := tree.Source()
	offsets := pysrc.LineOffsets(source)
	defStart, defEnd := pysrc.LineSpan(source, offsets, info.StartLine, info.EndLine)

	var sites []callSite
	pysrc.Walk(tree.Root(), func(n *sitter.Node) bool {
		if n.Kind() != "call" {
			return true
		}
		fn := n.ChildByFieldName("function")
		if fn == nil || fn.Kind() != "identifier" || tree.Text(fn) != info.Name {
			return true
		}
		if int(n.StartByte()) >= defStart && int(n.EndByte()) <= defEnd {
			return true
		}

		site := callSite{
			start: int(n.StartByte()),
			end:   int(n.EndByte()),
			args:  e.bindArguments(tree, n, info),
		}
		if parent := n.Parent(); parent != nil && parent.Kind() == "expression_statement" && parent.NamedChildCount() == 1 {
			site.isStmt = true
			site.stmtStart = pysrc.StartLine(parent)
			site.stmtEnd = pysrc.EndLine(parent)
			site.indent = pysrc.IndentOf(tree.Lines()[site.stmtStart-1])
		}
		sites = append(sites, site)
		return true
	})
	return sites
}

// outermostSites drops every call site strictly contained in another
// site's span.
func outermostSites(sites []callSite) []callSite {
	keep := make([]callSite, 0, len(sites))
	for _, s := range sites {
		nested := false
		for _, o := range sites {
			if o.start == s.start && o.end == s.end {
				continue
			}
			if o.start <= s.start && s.end <= o.end {
				nested = true
				break
			}
		}
		if !nested {
			keep = append(keep, s)
		}
	}
	return keep
}

// bindArguments maps parameter names to the raw argument expressions of a
// call, positionally then by keyword.
func (e *Engine) bindArguments(tree *pysrc.Tree, call *sitter.Node, info *analysis.FunctionInfo) map[string]string {
	bound := make(map[string]string)
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return bound
	}

	positional := 0
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(uint(i))
		switch arg.Kind() {
		case "comment":
		case "keyword_argument":
			name := tree.Text(arg.ChildByFieldName("name"))
			bound[name] = tree.Text(arg.ChildByFieldName("value"))
		default:
			if positional < len(info.Params) {
				bound[info.Params[positional]] = tree.Text(arg)
				positional++
			}
		}
	}
	return bound
}

// siteEdit builds the edit replacing one call site.
func (e *Engine) siteEdit(source []byte, offsets []int, info *analysis.FunctionInfo, site callSite) (pysrc.Edit, *Error) {
	if info.ReturnExpr != "" {
		text, serr := e.substituteExpr(info.ReturnExpr, site.args)
		if serr != nil {
			return pysrc.Edit{}, serr
		}
		return pysrc.Edit{Start: site.start, End: site.end, Text: text}, nil
	}

	// No return value: splice the body in as statements. This only works
	// where the call itself is a whole statement.
	body, serr := e.substituteBody(info.BodyLines, site.args)
	if serr != nil {
		return pysrc.Edit{}, serr
	}
	if site.isStmt {
		start, end := pysrc.LineSpan(source, offsets, site.stmtStart, site.stmtEnd)
		if len(body) == 0 {
			body = []string{"pass"}
		}
		text := strings.Join(pysrc.Reindent(body, site.indent), "\n") + "\n"
		return pysrc.Edit{Start: start, End: end, Text: text}, nil
	}

	// An embedded call to a value-less function evaluates to None.
	return pysrc.Edit{Start: site.start, End: site.end, Text: "None"}, nil
}

// substituteExpr rewrites parameters to argument text inside an expression
// using identifier-level tree substitution. When the substituted text no
// longer parses as an expression, it falls back to word-boundary text
// substitution as a degraded mode, and only when every argument is a
// simple token that cannot collide with string literal contents.
func (e *Engine) substituteExpr(expr string, args map[string]string) (string, *Error) {
	if len(args) == 0 {
		return expr, nil
	}

	if out, ok := treeSubstitute(expr, args, true); ok {
		return out, nil
	}
	if !simpleArgs(args) {
		return "", errKind(KindUnsafeOperation, "cannot substitute complex arguments into %q", expr)
	}
	return wordSubstitute(expr, args), nil
}

func (e *Engine) substituteBody(body []string, args map[string]string) ([]string, *Error) {
	if len(body) == 0 || len(args) == 0 {
		return body, nil
	}

	text := strings.Join(body, "\n")
	if out, ok := treeSubstitute(text, args, false); ok {
		return strings.Split(out, "\n"), nil
	}
	if !simpleArgs(args) {
		return nil, errKind(KindUnsafeOperation, "cannot substitute complex arguments into function body")
	}
	return strings.Split(wordSubstitute(text, args), "\n"), nil
}

var simpleTokenRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*|[0-9]+(\.[0-9]+)?|"[^"\\]*"|'[^'\\]*')$`)

func simpleArgs(args map[string]string) bool {
	for _, arg := range args {
		if !simpleTokenRe.MatchString(arg) {
			return false
		}
	}
	return true
}

// treeSubstitute parses text, replaces matching identifier nodes, and
// reports false when either parse fails.
func treeSubstitute(text string, args map[string]string, exprOnly bool) (string, bool) {
	tree, err := pysrc.Parse([]byte(text))
	if err != nil {
		return "", false
	}
	defer tree.Close()

	var edits []pysrc.Edit
	collectIdentifierEdits(tree, tree.Root(), args, &edits)

	out, err := pysrc.ApplyEdits(tree.Source(), edits)
	if err != nil {
		return "", false
	}

	if exprOnly {
		t, _, perr := pysrc.ParseExpr(string(out))
		if perr != nil {
			return "", false
		}
		t.Close()
	} else if perr := pysrc.Validate(out); perr != nil {
		return "", false
	}
	return string(out), true
}

// collectIdentifierEdits walks like the flow analyzer: attribute names and
// keyword-argument names are not identifier uses, so they are never
// substituted.
func collectIdentifierEdits(tree *pysrc.Tree, node *sitter.Node, args map[string]string, edits *[]pysrc.Edit) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "attribute":
		collectIdentifierEdits(tree, node.ChildByFieldName("object"), args, edits)
		return
	case "keyword_argument":
		collectIdentifierEdits(tree, node.ChildByFieldName("value"), args, edits)
		return
	case "identifier":
		if repl, ok := args[tree.Text(node)]; ok {
			*edits = append(*edits, pysrc.Edit{Start: int(node.StartByte()), End: int(node.EndByte()), Text: repl})
		}
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		collectIdentifierEdits(tree, node.Child(uint(i)), args, edits)
	}
}

// wordSubstitute is the degraded fallback: plain word-boundary text
// replacement.
func wordSubstitute(text string, args map[string]string) string {
	for param, arg := range args {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(param) + `\b`)
		text = re.ReplaceAllString(text, arg)
	}
	return text
}
