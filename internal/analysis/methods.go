package analysis

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/cortex-refactor/internal/pysrc"
)

// MethodInfo describes one method of a class: its span including
// decorators, its receiver-coupling (attributes read and sibling methods
// called through the receiver), and the flags the move safety checks need.
type MethodInfo struct {
	Name          string
	Params        []string // receiver excluded
	StartLine     int
	EndLine       int
	IsAbstract    bool
	IsStatic      bool
	IsClassMethod bool
	Receiver      string  // usually "self"; empty for static methods
	AttrsRead     NameSet // receiver.attr reads
	Dependencies  NameSet // receiver.m() calls
}

// MethodAnalyzer mines the methods of a class definition.
type MethodAnalyzer struct{}

// NewMethodAnalyzer creates a method analyzer.
func NewMethodAnalyzer() *MethodAnalyzer {
	return &MethodAnalyzer{}
}

// AnalyzeClass returns MethodInfo for every method of the named
// module-level class, keyed by method name. The second result is false
// when the class does not exist.
func (a *MethodAnalyzer) AnalyzeClass(tree *pysrc.Tree, className string) (map[string]*MethodInfo, bool) {
	class, _ := tree.FindClass(className)
	if class == nil {
		return nil, false
	}

	methods := make(map[string]*MethodInfo)
	body := pysrc.ClassBody(class)
	if body == nil {
		return methods, true
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(uint(i))
		def := pysrc.Definition(child)
		if def.Kind() != "function_definition" {
			continue
		}
		info := a.analyzeMethod(tree, child, def)
		methods[info.Name] = info
	}
	return methods, true
}

func (a *MethodAnalyzer) analyzeMethod(tree *pysrc.Tree, outer, def *sitter.Node) *MethodInfo {
	info := &MethodInfo{
		Name:         tree.Text(def.ChildByFieldName("name")),
		StartLine:    pysrc.StartLine(outer),
		EndLine:      pysrc.EndLine(outer),
		AttrsRead:    make(NameSet),
		Dependencies: make(NameSet),
	}

	a.readDecorators(tree, outer, info)

	params := def.ChildByFieldName("parameters")
	var names []string
	if params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			p := params.NamedChild(uint(i))
			if name := parameterName(tree, p); name != "" {
				names = append(names, name)
			}
		}
	}
	if info.IsStatic {
		info.Params = names
	} else if len(names) > 0 {
		info.Receiver = names[0]
		info.Params = names[1:]
	}

	if body := def.ChildByFieldName("body"); body != nil && info.Receiver != "" {
		a.traceReceiver(tree, body, info)
	}
	return info
}

func (a *MethodAnalyzer) readDecorators(tree *pysrc.Tree, outer *sitter.Node, info *MethodInfo) {
	if outer.Kind() != "decorated_definition" {
		return
	}
	for _, dec := range pysrc.FindChildrenByKind(outer, "decorator") {
		text := tree.Text(dec)
		switch {
		case strings.Contains(text, "abstractmethod"):
			info.IsAbstract = true
		case strings.Contains(text, "staticmethod"):
			info.IsStatic = true
		case strings.Contains(text, "classmethod"):
			info.IsClassMethod = true
		}
	}
}

// traceReceiver records which receiver attributes the method reads and
// which sibling methods it calls. A receiver call's attribute counts as a
// dispatch, not a data read.
func (a *MethodAnalyzer) traceReceiver(tree *pysrc.Tree, body *sitter.Node, info *MethodInfo) {
	if body == nil {
		return
	}

	switch body.Kind() {
	case "function_definition", "class_definition":
		return

	case "call":
		fn := body.ChildByFieldName("function")
		if fn != nil && fn.Kind() == "attribute" {
			obj := fn.ChildByFieldName("object")
			if obj != nil && obj.Kind() == "identifier" && tree.Text(obj) == info.Receiver {
				info.Dependencies.Add(tree.Text(fn.ChildByFieldName("attribute")))
				a.traceReceiver(tree, body.ChildByFieldName("arguments"), info)
				return
			}
		}

	case "attribute":
		a.recordAttrRead(tree, body, info)
	}

	for i := 0; i < int(body.ChildCount()); i++ {
		a.traceReceiver(tree, body.Child(uint(i)), info)
	}
}

func (a *MethodAnalyzer) recordAttrRead(tree *pysrc.Tree, n *sitter.Node, info *MethodInfo) {
	if n.Kind() != "attribute" {
		return
	}
	obj := n.ChildByFieldName("object")
	if obj != nil && obj.Kind() == "identifier" && tree.Text(obj) == info.Receiver {
		info.AttrsRead.Add(tree.Text(n.ChildByFieldName("attribute")))
	}
}

func parameterName(tree *pysrc.Tree, p *sitter.Node) string {
	switch p.Kind() {
	case "identifier":
		return tree.Text(p)
	case "typed_parameter":
		if id := pysrc.FindChildByKind(p, "identifier"); id != nil {
			return tree.Text(id)
		}
	case "default_parameter", "typed_default_parameter":
		if id := p.ChildByFieldName("name"); id != nil {
			return tree.Text(id)
		}
	case "list_splat_pattern", "dictionary_splat_pattern":
		if id := pysrc.FindChildByKind(p, "identifier"); id != nil {
			return tree.Text(id)
		}
	}
	return ""
}
