package analysis

// Test Plan for the inline safety checker:
// - A simple pure function with one return is safe
// - Every unsafe reason fires on the construct it names
// - Params, body lines, and the return expression are extracted
// - Trailing bare pass is stripped from the body

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/cortex-refactor/internal/pysrc"
)

func analyzeFn(t *testing.T, source, name string) *FunctionInfo {
	t.Helper()
	tree, err := pysrc.Parse([]byte(source))
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return NewSafetyChecker(DefaultSideEffectCalls()).AnalyzeFunction(tree, name)
}

func TestSafety_SimpleFunctionIsSafe(t *testing.T) {
	t.Parallel()

	info := analyzeFn(t, "def double(n):\n    return n * 2\n", "double")
	require.NotNil(t, info)

	assert.True(t, info.IsSafe)
	assert.Empty(t, info.UnsafeReason)
	assert.Equal(t, []string{"n"}, info.Params)
	assert.Equal(t, "n * 2", info.ReturnExpr)
}

func TestSafety_MissingFunction(t *testing.T) {
	t.Parallel()

	info := analyzeFn(t, "x = 1\n", "absent")
	assert.Nil(t, info)
}

func TestSafety_UnsafeReasons(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		source string
		reason string
	}{
		{"defaults", "def f(a, b=1):\n    return a + b\n", ReasonDefaultArgs},
		{"varargs", "def f(*args):\n    return args\n", ReasonVarArgs},
		{"kwargs", "def f(**kwargs):\n    return kwargs\n", ReasonVarArgs},
		{"recursive", "def f(n):\n    return f(n - 1)\n", ReasonRecursive},
		{"generator", "def f(n):\n    yield n\n", ReasonGenerator},
		{"global", "def f():\n    global counter\n    counter = 1\n", ReasonGlobal},
		{"nonlocal", "def f():\n    nonlocal state\n    state = 1\n", ReasonNonlocal},
		{"side effect print", "def f(x):\n    print(x)\n    return x\n", ReasonSideEffectCall("print")},
		{"side effect write", "def f(handle, x):\n    handle.write(x)\n    return x\n", ReasonSideEffectCall("write")},
		{"attribute mutation", "def f(obj):\n    obj.count = 1\n    return obj\n", ReasonAttributeMutate},
		{"subscript mutation", "def f(items):\n    items[0] = 1\n    return items\n", ReasonSubscriptMutate},
		{"augmented attribute", "def f(obj):\n    obj.count += 1\n    return obj\n", ReasonAttributeMutate},
		{"multiple returns", "def f(x):\n    if x:\n        return 1\n    return 2\n", ReasonMultipleReturns},
		{"statements before return", "def f(x):\n    y = x + 1\n    return y\n", ReasonBodyBeforeReturn},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			info := analyzeFn(t, tc.source, "f")
			require.NotNil(t, info)
			assert.False(t, info.IsSafe)
			assert.Equal(t, tc.reason, info.UnsafeReason)
		})
	}
}

func TestSafety_ZeroReturnsIsSafe(t *testing.T) {
	t.Parallel()

	info := analyzeFn(t, "def f(x):\n    y = x + 1\n", "f")
	require.NotNil(t, info)

	assert.True(t, info.IsSafe)
	assert.Empty(t, info.ReturnExpr)
	assert.Equal(t, []string{"y = x + 1"}, info.BodyLines)
}

func TestSafety_TrailingPassStripped(t *testing.T) {
	t.Parallel()

	info := analyzeFn(t, "def f(x):\n    y = x\n    pass\n", "f")
	require.NotNil(t, info)

	assert.Equal(t, []string{"y = x"}, info.BodyLines)
}

func TestSafety_ReasonFormatting(t *testing.T) {
	t.Parallel()

	assert.Equal(t, fmt.Sprintf("calls side-effect function '%s'", "open"), ReasonSideEffectCall("open"))
}
