package analysis

import (
	"unicode"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/cortex-refactor/internal/pysrc"
)

// DependencyInfo records one hardcoded dependency instantiation found in a
// constructor: an assignment of the shape receiver.attr = Type(args...).
type DependencyInfo struct {
	ClassName string
	TypeName  string
	AttrName  string
	Line      int    // 1-based line of the assignment
	Start     int    // byte span of the assignment
	End       int
	Source    string // raw assignment text
	CallText  string // raw Type(args...) text
	Args      []string
	KwArgs    []string
	HasParams bool
}

// DependencyDetector statically detects hardcoded dependency construction
// inside constructors.
type DependencyDetector struct{}

// NewDependencyDetector creates a detector.
func NewDependencyDetector() *DependencyDetector {
	return &DependencyDetector{}
}

// AnalyzeDependencies scans every class constructor in the tree and
// returns the detected dependencies keyed by class name. Classes whose
// constructors instantiate nothing are absent from the map.
func (d *DependencyDetector) AnalyzeDependencies(tree *pysrc.Tree) map[string][]DependencyInfo {
	result := make(map[string][]DependencyInfo)

	root := tree.Root()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		def := pysrc.Definition(root.NamedChild(uint(i)))
		if def.Kind() != "class_definition" {
			continue
		}
		className := tree.Text(def.ChildByFieldName("name"))
		deps := d.analyzeConstructor(tree, def, className)
		if len(deps) > 0 {
			result[className] = deps
		}
	}
	return result
}

// FindConstructor returns the __init__ definition of a class, or nil.
func (d *DependencyDetector) FindConstructor(tree *pysrc.Tree, class *sitter.Node) *sitter.Node {
	body := pysrc.ClassBody(class)
	if body == nil {
		return nil
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		def := pysrc.Definition(body.NamedChild(uint(i)))
		if def.Kind() == "function_definition" && tree.Text(def.ChildByFieldName("name")) == "__init__" {
			return def
		}
	}
	return nil
}

func (d *DependencyDetector) analyzeConstructor(tree *pysrc.Tree, class *sitter.Node, className string) []DependencyInfo {
	init := d.FindConstructor(tree, class)
	if init == nil {
		return nil
	}

	receiver := receiverName(tree, init)
	if receiver == "" {
		return nil
	}

	var deps []DependencyInfo
	body := init.ChildByFieldName("body")
	pysrc.Walk(body, func(n *sitter.Node) bool {
		if n.Kind() == "function_definition" || n.Kind() == "class_definition" {
			return false
		}
		if n.Kind() != "assignment" {
			return true
		}
		if dep, ok := d.matchInstantiation(tree, n, receiver); ok {
			dep.ClassName = className
			deps = append(deps, dep)
		}
		return true
	})
	return deps
}

// matchInstantiation matches receiver.attr = Type(args...). Only bare
// capitalized callees count as type instantiation; calls through modules
// or factories are left alone.
func (d *DependencyDetector) matchInstantiation(tree *pysrc.Tree, assign *sitter.Node, receiver string) (DependencyInfo, bool) {
	left := assign.ChildByFieldName("left")
	right := assign.ChildByFieldName("right")
	if left == nil || right == nil || left.Kind() != "attribute" || right.Kind() != "call" {
		return DependencyInfo{}, false
	}

	obj := left.ChildByFieldName("object")
	if obj == nil || obj.Kind() != "identifier" || tree.Text(obj) != receiver {
		return DependencyInfo{}, false
	}

	fn := right.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "identifier" {
		return DependencyInfo{}, false
	}
	typeName := tree.Text(fn)
	if typeName == "" || !unicode.IsUpper(rune(typeName[0])) {
		return DependencyInfo{}, false
	}

	dep := DependencyInfo{
		TypeName: typeName,
		AttrName: tree.Text(left.ChildByFieldName("attribute")),
		Line:     pysrc.StartLine(assign),
		Start:    int(assign.StartByte()),
		End:      int(assign.EndByte()),
		Source:   tree.Text(assign),
		CallText: tree.Text(right),
	}

	if args := right.ChildByFieldName("arguments"); args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			arg := args.NamedChild(uint(i))
			if arg.Kind() == "comment" {
				continue
			}
			if arg.Kind() == "keyword_argument" {
				dep.KwArgs = append(dep.KwArgs, tree.Text(arg))
			} else {
				dep.Args = append(dep.Args, tree.Text(arg))
			}
		}
	}
	dep.HasParams = len(dep.Args)+len(dep.KwArgs) > 0
	return dep, true
}

// receiverName returns the first parameter of a method definition.
func receiverName(tree *pysrc.Tree, def *sitter.Node) string {
	params := def.ChildByFieldName("parameters")
	if params == nil || params.NamedChildCount() == 0 {
		return ""
	}
	return parameterName(tree, params.NamedChild(0))
}
