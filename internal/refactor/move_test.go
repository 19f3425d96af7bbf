package refactor

// Test Plan for method moves:
// - The method is removed from the source class and appended to the
//   target class body in one pass
// - update_call_sites rewrites receiver dispatches through the target
//   instance attribute, defaulting to snake_case of the target class
// - A source class left memberless gets a pass placeholder
// - Abstract methods, existing target methods, and missing names are
//   rejected without touching the file

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/cortex-refactor/internal/pysrc"
)

const orderSource = `class Order:
    def __init__(self, total):
        self.total = total
        self.shipping_calculator = ShippingCalculator()

    def checkout(self):
        return self.total + self.compute_shipping()

    def compute_shipping(self):
        return self.total * 0.1


class ShippingCalculator:
    def __init__(self):
        self.rate = 0.1
`

func TestMove_WithCallSiteUpdates(t *testing.T) {
	t.Parallel()

	path := writeSource(t, orderSource)
	e := New(nil, nil)

	res, err := e.MoveMethod(path, MoveMethodOptions{
		SourceClass: "Order",
		MethodName:  "compute_shipping",
		TargetClass: "ShippingCalculator",
		UpdateCalls: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.CallSitesUpdated)
	assert.False(t, res.PlaceholderAdded)
	assert.Contains(t, res.MovedMethodText, "def compute_shipping(self):")

	got := readSource(t, path)
	assert.Contains(t, got, "self.total + self.shipping_calculator.compute_shipping()")

	tree, perr := pysrc.Parse([]byte(got))
	require.NoError(t, perr)
	defer tree.Close()

	order, _ := e.methods.AnalyzeClass(tree, "Order")
	_, stillThere := order["compute_shipping"]
	assert.False(t, stillThere)

	calc, _ := e.methods.AnalyzeClass(tree, "ShippingCalculator")
	_, landed := calc["compute_shipping"]
	assert.True(t, landed)
}

func TestMove_ExplicitInstanceName(t *testing.T) {
	t.Parallel()

	path := writeSource(t, orderSource)
	e := New(nil, nil)

	_, err := e.MoveMethod(path, MoveMethodOptions{
		SourceClass:  "Order",
		MethodName:   "compute_shipping",
		TargetClass:  "ShippingCalculator",
		InstanceName: "calc",
		UpdateCalls:  true,
	})
	require.NoError(t, err)
	assert.Contains(t, readSource(t, path), "self.calc.compute_shipping()")
}

func TestMove_PlaceholderForEmptiedClass(t *testing.T) {
	t.Parallel()

	source := `class Helper:
    def lift(self, x):
        return x + 1


class Worker:
    def run(self):
        return 0
`
	path := writeSource(t, source)
	e := New(nil, nil)

	res, err := e.MoveMethod(path, MoveMethodOptions{
		SourceClass: "Helper",
		MethodName:  "lift",
		TargetClass: "Worker",
	})
	require.NoError(t, err)
	assert.True(t, res.PlaceholderAdded)

	got := readSource(t, path)
	assert.Contains(t, got, "class Helper:\n    pass\n")
	assert.Contains(t, got, "def lift(self, x):")
	require.NoError(t, pysrc.Validate([]byte(got)))
}

func TestMove_AbstractRejected(t *testing.T) {
	t.Parallel()

	source := `class Base:
    @abstractmethod
    def run(self):
        pass


class Impl:
    pass
`
	path := writeSource(t, source)
	e := New(nil, nil)

	_, err := e.MoveMethod(path, MoveMethodOptions{
		SourceClass: "Base",
		MethodName:  "run",
		TargetClass: "Impl",
	})
	rerr := requireKind(t, err, KindUnsafeOperation)
	assert.Equal(t, "abstract method", rerr.Reason)
	assert.Equal(t, source, readSource(t, path))
}

func TestMove_TargetCollision(t *testing.T) {
	t.Parallel()

	source := `class A:
    def ping(self):
        return 1


class B:
    def ping(self):
        return 2
`
	path := writeSource(t, source)
	e := New(nil, nil)

	_, err := e.MoveMethod(path, MoveMethodOptions{
		SourceClass: "A",
		MethodName:  "ping",
		TargetClass: "B",
	})
	requireKind(t, err, KindAlreadyExists)
	assert.Equal(t, source, readSource(t, path))
}

func TestMove_MissingNames(t *testing.T) {
	t.Parallel()

	path := writeSource(t, orderSource)
	e := New(nil, nil)

	cases := []MoveMethodOptions{
		{SourceClass: "Ghost", MethodName: "compute_shipping", TargetClass: "ShippingCalculator"},
		{SourceClass: "Order", MethodName: "compute_shipping", TargetClass: "Ghost"},
		{SourceClass: "Order", MethodName: "ghost", TargetClass: "ShippingCalculator"},
	}
	for _, opts := range cases {
		_, err := e.MoveMethod(path, opts)
		requireKind(t, err, KindTargetNotFound)
	}
	assert.Equal(t, orderSource, readSource(t, path))
}

func TestSnakeCase(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"ShippingCalculator": "shipping_calculator",
		"Cache":              "cache",
		"db":                 "db",
	}
	for in, want := range cases {
		assert.Equal(t, want, snakeCase(in))
	}
}
