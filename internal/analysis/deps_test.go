package analysis

// Test Plan for the dependency detector:
// - Constructor instantiations of the shape self.attr = Type(...) are found
// - Plain value assignments and lowercase callees are ignored
// - Positional and keyword constructor arguments are captured
// - Classes without a constructor or without instantiations are absent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/cortex-refactor/internal/pysrc"
)

func TestDeps_ServiceFixture(t *testing.T) {
	t.Parallel()

	tree, err := pysrc.ParseFile("../../testdata/code/python/service.py")
	require.NoError(t, err)
	defer tree.Close()

	result := NewDependencyDetector().AnalyzeDependencies(tree)
	require.Len(t, result, 1, "only Service hardcodes dependencies")

	deps := result["Service"]
	require.Len(t, deps, 3)

	db := deps[0]
	assert.Equal(t, "Service", db.ClassName)
	assert.Equal(t, "Database", db.TypeName)
	assert.Equal(t, "db", db.AttrName)
	assert.Equal(t, 20, db.Line)
	assert.Equal(t, `Database("postgres://localhost/app")`, db.CallText)
	assert.Equal(t, []string{`"postgres://localhost/app"`}, db.Args)
	assert.Empty(t, db.KwArgs)
	assert.True(t, db.HasParams)

	cache := deps[1]
	assert.Equal(t, "Cache", cache.TypeName)
	assert.Empty(t, cache.Args)
	assert.Equal(t, []string{"size=256"}, cache.KwArgs)
	assert.True(t, cache.HasParams)

	mailer := deps[2]
	assert.Equal(t, "Mailer", mailer.TypeName)
	assert.Equal(t, "mailer", mailer.AttrName)
	assert.False(t, mailer.HasParams)
}

func TestDeps_IgnoresNonInstantiations(t *testing.T) {
	t.Parallel()

	source := `class App:
    def __init__(self):
        self.count = 0
        self.conn = connect("db")
        self.client = http.Client()
        local = Database()
`
	tree, err := pysrc.Parse([]byte(source))
	require.NoError(t, err)
	defer tree.Close()

	result := NewDependencyDetector().AnalyzeDependencies(tree)
	assert.Empty(t, result, "lowercase, qualified and non-receiver targets are skipped")
}

func TestDeps_FindConstructor(t *testing.T) {
	t.Parallel()

	tree, err := pysrc.ParseFile("../../testdata/code/python/service.py")
	require.NoError(t, err)
	defer tree.Close()

	d := NewDependencyDetector()

	class, _ := tree.FindClass("Service")
	require.NotNil(t, class)
	init := d.FindConstructor(tree, class)
	require.NotNil(t, init)
	assert.Equal(t, 19, pysrc.StartLine(init))

	mailer, _ := tree.FindClass("Mailer")
	require.NotNil(t, mailer)
	assert.Nil(t, d.FindConstructor(tree, mailer))
}
