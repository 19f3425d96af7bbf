package refactor

import "github.com/mvp-joe/cortex-refactor/internal/analysis"

// Results are only ever returned on success; failure paths return a typed
// *Error instead, so no result is ever partially populated.

// ExtractResult describes a successful function extraction.
type ExtractResult struct {
	FilePath     string
	FunctionName string
	FunctionText string // the generated def, as inserted
	CallSite     string // the statement that replaced the extracted lines
	InsertedAt   int    // 1-based line the definition was inserted before
	Flow         *analysis.VariableFlow
}

// InlineResult describes a successful function inlining.
type InlineResult struct {
	FilePath     string
	FunctionName string
	InlinedCount int  // call sites rewritten
	Removed      bool // whether the definition was deleted
}

// MoveResult describes a successful method move.
type MoveResult struct {
	FilePath         string
	MethodName       string
	SourceClass      string
	TargetClass      string
	MovedMethodText  string // the method as it appears in the target class
	CallSitesUpdated int
	PlaceholderAdded bool // source class was left memberless and got a pass
}

// InjectResult describes a successful constructor-injection refactoring.
type InjectResult struct {
	FilePath      string
	ClassName     string
	Injected      []string // attribute names turned into parameters
	ContainerName string
	ContainerText string // the generated dependency container scaffold
}
