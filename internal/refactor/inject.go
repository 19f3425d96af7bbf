package refactor

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/cortex-refactor/internal/analysis"
	"github.com/mvp-joe/cortex-refactor/internal/pysrc"
)

// AnalyzeDependencies reports the hardcoded dependency instantiations of
// every class constructor in the file, keyed by class name.
func (e *Engine) AnalyzeDependencies(path string) (map[string][]analysis.DependencyInfo, error) {
	tree, lerr := e.load(path)
	if lerr != nil {
		return nil, lerr
	}
	defer tree.Close()

	return e.deps.AnalyzeDependencies(tree), nil
}

// InjectDependencies rewrites a class constructor so its hardcoded
// dependency instantiations become constructor parameters, and emits a
// companion container scaffold that wires the dependencies back together.
//
// With keepDefaults the new parameters are optional and the constructor
// falls back to the original instantiation, preserving zero-argument
// construction; without it the parameters are required passthroughs.
func (e *Engine) InjectDependencies(path, className string, dependencyNames []string, keepDefaults bool) (*InjectResult, error) {
	tree, lerr := e.load(path)
	if lerr != nil {
		return nil, lerr
	}
	defer tree.Close()

	class, _ := tree.FindClass(className)
	if class == nil {
		return nil, errKind(KindTargetNotFound, "class %s not found", className)
	}
	init := e.deps.FindConstructor(tree, class)
	if init == nil {
		return nil, errKind(KindTargetNotFound, "class %s has no constructor", className)
	}

	deps := e.deps.AnalyzeDependencies(tree)[className]
	deps = filterDependencies(deps, dependencyNames)
	if len(deps) == 0 {
		return nil, errKind(KindNoDependenciesFound, "no injectable dependencies found in %s", className)
	}

	params := init.ChildByFieldName("parameters")
	existing := existingParamNames(tree, params)

	var selected []analysis.DependencyInfo
	for _, dep := range deps {
		if existing.Has(dep.AttrName) {
			continue
		}
		selected = append(selected, dep)
	}
	if len(selected) == 0 {
		return nil, errKind(KindNoDependenciesFound, "all dependencies of %s are already parameters", className)
	}

	source := tree.Source()
	var edits []pysrc.Edit

	// Widen the constructor signature.
	var paramText strings.Builder
	for _, dep := range selected {
		if keepDefaults {
			fmt.Fprintf(&paramText, ", %s=None", dep.AttrName)
		} else {
			fmt.Fprintf(&paramText, ", %s", dep.AttrName)
		}
	}
	closeParen := int(params.EndByte()) - 1
	edits = append(edits, pysrc.Edit{Start: closeParen, End: closeParen, Text: paramText.String()})

	// Rewrite each instantiation into a parameter binding. The detector
	// recorded the exact byte span, so statements sharing a line are safe.
	for _, dep := range selected {
		var replacement string
		if keepDefaults {
			replacement = fmt.Sprintf("self.%s = %s or %s", dep.AttrName, dep.AttrName, dep.CallText)
		} else {
			replacement = fmt.Sprintf("self.%s = %s", dep.AttrName, dep.AttrName)
		}
		edits = append(edits, pysrc.Edit{Start: dep.Start, End: dep.End, Text: replacement})
	}

	// Companion container scaffold, appended unless the name is taken.
	containerName := className + "Container"
	containerText := buildContainer(containerName, className, selected)
	injected := make([]string, 0, len(selected))
	for _, dep := range selected {
		injected = append(injected, dep.AttrName)
	}

	if taken, _ := tree.FindClass(containerName); taken == nil {
		end := len(source)
		text := "\n\n" + containerText
		if end > 0 && source[end-1] == '\n' {
			text = "\n" + containerText
		}
		edits = append(edits, pysrc.Edit{Start: end, End: end, Text: text})
	}

	updated, err := pysrc.ApplyEdits(source, edits)
	if err != nil {
		return nil, errWrap(KindSyntaxErrorInOutput, err)
	}

	description := fmt.Sprintf("injected %s into %s constructor", strings.Join(injected, ", "), className)
	if cerr := e.commit(path, source, updated, "constructor_injection", description); cerr != nil {
		return nil, cerr
	}

	return &InjectResult{
		FilePath:      path,
		ClassName:     className,
		Injected:      injected,
		ContainerName: containerName,
		ContainerText: containerText,
	}, nil
}

func filterDependencies(deps []analysis.DependencyInfo, names []string) []analysis.DependencyInfo {
	if len(names) == 0 {
		return deps
	}
	want := analysis.NewNameSet(names)
	var out []analysis.DependencyInfo
	for _, dep := range deps {
		if want.Has(dep.AttrName) {
			out = append(out, dep)
		}
	}
	return out
}

func existingParamNames(tree *pysrc.Tree, params *sitter.Node) analysis.NameSet {
	names := make(analysis.NameSet)
	if params == nil {
		return names
	}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(uint(i))
		switch p.Kind() {
		case "identifier":
			names.Add(tree.Text(p))
		case "typed_parameter", "list_splat_pattern", "dictionary_splat_pattern":
			if id := pysrc.FindChildByKind(p, "identifier"); id != nil {
				names.Add(tree.Text(id))
			}
		case "default_parameter", "typed_default_parameter":
			if id := p.ChildByFieldName("name"); id != nil {
				names.Add(tree.Text(id))
			}
		}
	}
	return names
}

// buildContainer renders the dependency container scaffold: one lazily
// initialized slot and accessor per dependency, plus a factory that wires
// the refactored class back together.
func buildContainer(containerName, className string, deps []analysis.DependencyInfo) string {
	var b strings.Builder

	fmt.Fprintf(&b, "class %s:\n", containerName)
	fmt.Fprintf(&b, "    \"\"\"Provides shared instances for %s dependencies.\"\"\"\n\n", className)

	b.WriteString("    def __init__(self):\n")
	for _, dep := range deps {
		fmt.Fprintf(&b, "        self._%s = None\n", dep.AttrName)
	}
	b.WriteString("\n")

	for _, dep := range deps {
		fmt.Fprintf(&b, "    def %s(self):\n", dep.AttrName)
		fmt.Fprintf(&b, "        if self._%s is None:\n", dep.AttrName)
		fmt.Fprintf(&b, "            self._%s = %s\n", dep.AttrName, dep.CallText)
		fmt.Fprintf(&b, "        return self._%s\n\n", dep.AttrName)
	}

	accessors := make([]string, 0, len(deps))
	for _, dep := range deps {
		accessors = append(accessors, fmt.Sprintf("%s=self.%s()", dep.AttrName, dep.AttrName))
	}
	fmt.Fprintf(&b, "    def create_%s(self):\n", snakeCase(className))
	fmt.Fprintf(&b, "        return %s(%s)\n", className, strings.Join(accessors, ", "))

	return b.String()
}
