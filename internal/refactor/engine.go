// Package refactor implements the four mechanically-verified source
// transformations: extract function, inline function, move method, and
// constructor dependency injection. Every operation shares one invariant:
// no write without a successful re-parse of the generated output.
package refactor

import (
	"errors"
	"log"
	"os"
	"regexp"

	"github.com/mvp-joe/cortex-refactor/internal/analysis"
	"github.com/mvp-joe/cortex-refactor/internal/config"
	"github.com/mvp-joe/cortex-refactor/internal/history"
	"github.com/mvp-joe/cortex-refactor/internal/pysrc"
)

// Sink receives an immutable record of every successful transform. The
// engine only produces records; rollback belongs to the sink's owner.
type Sink interface {
	Record(*history.FixRecord) error
}

// Engine ties the parser, the analyzers, and the history sink together.
// One Engine serves any number of sequential operations; concurrent calls
// against the same file are the caller's problem to serialize.
type Engine struct {
	cfg      *config.Config
	sink     Sink
	flow     *analysis.FlowAnalyzer
	safety   *analysis.SafetyChecker
	methods  *analysis.MethodAnalyzer
	deps     *analysis.DependencyDetector
	identRe  *regexp.Regexp
	keywords analysis.NameSet
}

// New creates an engine. sink may be nil to disable history recording.
func New(cfg *config.Config, sink Sink) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Engine{
		cfg:     cfg,
		sink:    sink,
		flow:    analysis.NewFlowAnalyzer(cfg.Analysis.Builtins),
		safety:  analysis.NewSafetyChecker(cfg.Analysis.SideEffectCalls),
		methods: analysis.NewMethodAnalyzer(),
		deps:    analysis.NewDependencyDetector(),
		identRe: regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`),
		keywords: analysis.NewNameSet([]string{
			"False", "None", "True", "and", "as", "assert", "async",
			"await", "break", "class", "continue", "def", "del", "elif",
			"else", "except", "finally", "for", "from", "global", "if",
			"import", "in", "is", "lambda", "nonlocal", "not", "or",
			"pass", "raise", "return", "try", "while", "with", "yield",
		}),
	}
}

// load reads and parses the target file, mapping failures onto the error
// taxonomy.
func (e *Engine) load(path string) (*pysrc.Tree, *Error) {
	tree, err := pysrc.ParseFile(path)
	if err == nil {
		return tree, nil
	}
	if errors.Is(err, pysrc.ErrSyntax) {
		return nil, errWrap(KindSyntaxErrorInSource, err)
	}
	if os.IsNotExist(err) {
		return nil, errKind(KindFileNotFound, "no such file: %s", path)
	}
	return nil, errWrap(KindFileNotFound, err)
}

// commit gates candidate output through a re-parse, writes the file, and
// emits a history record. Nothing is written when the re-parse fails, so
// a bad transform leaves the file byte-identical.
func (e *Engine) commit(path string, original, updated []byte, kind, description string) *Error {
	if err := pysrc.Validate(updated); err != nil {
		return errWrap(KindSyntaxErrorInOutput, err)
	}

	info, err := os.Stat(path)
	mode := os.FileMode(0o644)
	if err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, updated, mode); err != nil {
		return errWrap(KindFileNotFound, err)
	}

	if e.sink != nil {
		record := &history.FixRecord{
			FilePath:        path,
			Kind:            kind,
			OriginalContent: string(original),
			NewContent:      string(updated),
			Description:     description,
			CanRollback:     true,
		}
		if err := e.sink.Record(record); err != nil {
			// The file edit already succeeded; a sink failure must not
			// make the refactoring report as failed.
			log.Printf("history record failed for %s: %v", path, err)
		}
	}
	return nil
}

// validIdentifier checks a candidate name against the subject language's
// identifier rules plus the configured naming policy.
func (e *Engine) validIdentifier(name string) *Error {
	if !e.identRe.MatchString(name) {
		return errKind(KindInvalidIdentifier, "%q is not a valid identifier", name)
	}
	if e.keywords.Has(name) {
		return errKind(KindInvalidIdentifier, "%q is a reserved keyword", name)
	}
	if !e.cfg.Naming.AllowUnderscorePrefix && name[0] == '_' {
		return errKind(KindInvalidIdentifier, "%q starts with an underscore", name)
	}
	return nil
}
