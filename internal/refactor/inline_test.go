package refactor

// Test Plan for function inlining:
// - A single-return function is substituted into its call sites
// - Arguments bind positionally and by keyword
// - Value-less functions splice their body into statement-position calls
// - Nested calls rewrite only the outermost site
// - Unsafe functions, missing functions, and functions without callers
//   are rejected without touching the file
// - remove_function deletes the definition and its trailing blank lines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/cortex-refactor/internal/analysis"
)

func TestInline_SingleCallSite(t *testing.T) {
	t.Parallel()

	source := `def double(x):
    return x * 2

result = double(5)
`
	path := writeSource(t, source)
	e := New(nil, nil)

	res, err := e.InlineFunction(path, "double", false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.InlinedCount)
	assert.False(t, res.Removed)

	got := readSource(t, path)
	assert.Contains(t, got, "result = 5 * 2\n")
	assert.Contains(t, got, "def double(x):", "definition stays without remove")
}

func TestInline_RemoveFunction(t *testing.T) {
	t.Parallel()

	source := `def double(x):
    return x * 2

result = double(5)
`
	path := writeSource(t, source)
	e := New(nil, nil)

	res, err := e.InlineFunction(path, "double", true)
	require.NoError(t, err)
	assert.True(t, res.Removed)
	assert.Equal(t, "result = 5 * 2\n", readSource(t, path))
}

func TestInline_MultipleSitesAndKeywords(t *testing.T) {
	t.Parallel()

	source := `def area(w, h):
    return w * h

a = area(2, 3)
b = area(w=4, h=5)
c = area(6, h=7) + 1
`
	path := writeSource(t, source)
	e := New(nil, nil)

	res, err := e.InlineFunction(path, "area", false)
	require.NoError(t, err)
	assert.Equal(t, 3, res.InlinedCount)

	got := readSource(t, path)
	assert.Contains(t, got, "a = 2 * 3\n")
	assert.Contains(t, got, "b = 4 * 5\n")
	assert.Contains(t, got, "c = 6 * 7 + 1\n")
}

func TestInline_StatementBodySplice(t *testing.T) {
	t.Parallel()

	source := `def record(values):
    values.append(1)
    values.append(2)

items = []
record(items)
`
	path := writeSource(t, source)
	e := New(nil, nil)

	res, err := e.InlineFunction(path, "record", false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.InlinedCount)

	got := readSource(t, path)
	assert.Contains(t, got, "items = []\nitems.append(1)\nitems.append(2)\n")
}

func TestInline_IndentedBodySplice(t *testing.T) {
	t.Parallel()

	source := `def reset(box):
    box.clear()

def use(box):
    if box:
        reset(box)
    return box
`
	path := writeSource(t, source)
	e := New(nil, nil)

	_, err := e.InlineFunction(path, "reset", false)
	require.NoError(t, err)

	got := readSource(t, path)
	assert.Contains(t, got, "    if box:\n        box.clear()\n")
}

func TestInline_NestedCallsRewriteOutermost(t *testing.T) {
	t.Parallel()

	source := `def double(x):
    return x * 2

result = double(double(3))
`
	path := writeSource(t, source)
	e := New(nil, nil)

	res, err := e.InlineFunction(path, "double", false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.InlinedCount, "the inner call travels inside the argument")

	got := readSource(t, path)
	assert.Contains(t, got, "result = double(3) * 2\n")
}

func TestInline_BodyBeforeReturnRejected(t *testing.T) {
	t.Parallel()

	source := `def shift(x):
    y = x + 1
    return y

value = shift(2)
`
	path := writeSource(t, source)
	e := New(nil, nil)

	_, err := e.InlineFunction(path, "shift", false)
	rerr := requireKind(t, err, KindUnsafeOperation)
	assert.Equal(t, analysis.ReasonBodyBeforeReturn, rerr.Reason)
	assert.Equal(t, source, readSource(t, path))
}

func TestInline_NoCallSites(t *testing.T) {
	t.Parallel()

	source := `def orphan(x):
    return x + 1

y = 2
`
	path := writeSource(t, source)
	e := New(nil, nil)

	_, err := e.InlineFunction(path, "orphan", false)
	requireKind(t, err, KindNoCallSites)
	assert.Equal(t, source, readSource(t, path))
}

func TestInline_TargetNotFound(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "x = 1\n")
	e := New(nil, nil)

	_, err := e.InlineFunction(path, "ghost", false)
	requireKind(t, err, KindTargetNotFound)
}

func TestInline_UnsafeRejected(t *testing.T) {
	t.Parallel()

	source := `def risky(x=1):
    return x

y = risky()
`
	path := writeSource(t, source)
	e := New(nil, nil)

	_, err := e.InlineFunction(path, "risky", false)
	rerr := requireKind(t, err, KindUnsafeOperation)
	assert.Equal(t, analysis.ReasonDefaultArgs, rerr.Reason)
	assert.Equal(t, source, readSource(t, path))
}

func TestInline_SitesInsideOtherFunctions(t *testing.T) {
	t.Parallel()

	source := `def helper(x):
    return x + 1

def outer(n):
    return helper(n)

z = helper(3)
`
	path := writeSource(t, source)
	e := New(nil, nil)

	res, err := e.InlineFunction(path, "helper", false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.InlinedCount, "calls in other functions count too")

	got := readSource(t, path)
	assert.Contains(t, got, "    return n + 1\n")
	assert.Contains(t, got, "z = 3 + 1\n")
}

func TestCanInline(t *testing.T) {
	t.Parallel()

	source := `def clean(x):
    return x

def dirty():
    print("hi")
`
	path := writeSource(t, source)
	e := New(nil, nil)

	ok, reason, err := e.CanInline(path, "clean")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, reason)

	ok, reason, err = e.CanInline(path, "dirty")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, analysis.ReasonSideEffectCall("print"), reason)

	_, _, err = e.CanInline(path, "ghost")
	requireKind(t, err, KindTargetNotFound)
}
