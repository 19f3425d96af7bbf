package refactor

// Test Plan for constructor injection:
// - Hardcoded instantiations become constructor parameters, with the
//   original construction kept as a default when asked
// - The companion container is appended with lazy accessors and a factory
// - A second run finds nothing left to inject, so the transform is
//   idempotent
// - Name filters, missing classes, and dependency-free constructors map
//   onto the error taxonomy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/cortex-refactor/internal/pysrc"
)

const serviceSource = `class Database:
    def __init__(self, url="sqlite://"):
        self.url = url


class Cache:
    def __init__(self, size):
        self.size = size


class Mailer:
    pass


class Service:
    def __init__(self):
        self.db = Database("postgres://localhost/app")
        self.cache = Cache(size=256)
        self.mailer = Mailer()
        self.retries = 3
`

func TestInject_KeepDefaults(t *testing.T) {
	t.Parallel()

	path := writeSource(t, serviceSource)
	e := New(nil, nil)

	res, err := e.InjectDependencies(path, "Service", nil, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"db", "cache", "mailer"}, res.Injected)
	assert.Equal(t, "ServiceContainer", res.ContainerName)

	got := readSource(t, path)
	assert.Contains(t, got, "def __init__(self, db=None, cache=None, mailer=None):")
	assert.Contains(t, got, `self.db = db or Database("postgres://localhost/app")`)
	assert.Contains(t, got, "self.cache = cache or Cache(size=256)")
	assert.Contains(t, got, "self.mailer = mailer or Mailer()")
	assert.Contains(t, got, "self.retries = 3", "plain values stay untouched")

	assert.Contains(t, got, "class ServiceContainer:")
	assert.Contains(t, got, "self._db = None")
	assert.Contains(t, got, "def db(self):")
	assert.Contains(t, got, `self._db = Database("postgres://localhost/app")`)
	assert.Contains(t, got, "def create_service(self):")
	assert.Contains(t, got, "return Service(db=self.db(), cache=self.cache(), mailer=self.mailer())")

	require.NoError(t, pysrc.Validate([]byte(got)))
}

func TestInject_SemicolonSharedLine(t *testing.T) {
	t.Parallel()

	source := `class Database:
    def __init__(self):
        pass


class Service:
    def __init__(self):
        self.retries = 3; self.db = Database()
`
	path := writeSource(t, source)
	e := New(nil, nil)

	res, err := e.InjectDependencies(path, "Service", []string{"db"}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"db"}, res.Injected)

	got := readSource(t, path)
	assert.Contains(t, got, "self.retries = 3; self.db = db or Database()",
		"the neighboring statement on the line survives")
	require.NoError(t, pysrc.Validate([]byte(got)))
}

func TestInject_RequiredParameters(t *testing.T) {
	t.Parallel()

	path := writeSource(t, serviceSource)
	e := New(nil, nil)

	_, err := e.InjectDependencies(path, "Service", nil, false)
	require.NoError(t, err)

	got := readSource(t, path)
	assert.Contains(t, got, "def __init__(self, db, cache, mailer):")
	assert.Contains(t, got, "self.db = db\n")
	assert.NotContains(t, got, "db or Database")
}

func TestInject_Idempotent(t *testing.T) {
	t.Parallel()

	path := writeSource(t, serviceSource)
	e := New(nil, nil)

	_, err := e.InjectDependencies(path, "Service", nil, true)
	require.NoError(t, err)
	after := readSource(t, path)

	// The rewritten constructor holds no bare instantiations anymore, so
	// re-analysis is empty and a second run changes nothing.
	deps, err := e.AnalyzeDependencies(path)
	require.NoError(t, err)
	assert.NotContains(t, deps, "Service")

	_, err = e.InjectDependencies(path, "Service", nil, true)
	requireKind(t, err, KindNoDependenciesFound)
	assert.Equal(t, after, readSource(t, path))
}

func TestInject_NameFilter(t *testing.T) {
	t.Parallel()

	path := writeSource(t, serviceSource)
	e := New(nil, nil)

	res, err := e.InjectDependencies(path, "Service", []string{"db"}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"db"}, res.Injected)

	got := readSource(t, path)
	assert.Contains(t, got, "def __init__(self, db=None):")
	assert.Contains(t, got, "self.cache = Cache(size=256)", "unselected dependencies stay hardcoded")
}

func TestInject_ContainerNameTaken(t *testing.T) {
	t.Parallel()

	source := serviceSource + `

class ServiceContainer:
    pass
`
	path := writeSource(t, source)
	e := New(nil, nil)

	res, err := e.InjectDependencies(path, "Service", nil, true)
	require.NoError(t, err)
	assert.NotEmpty(t, res.ContainerText)

	got := readSource(t, path)
	assert.Equal(t, 1, strings.Count(got, "class ServiceContainer"), "existing container is left alone")
}

func TestInject_Errors(t *testing.T) {
	t.Parallel()

	path := writeSource(t, serviceSource)
	e := New(nil, nil)

	_, err := e.InjectDependencies(path, "Ghost", nil, true)
	requireKind(t, err, KindTargetNotFound)

	_, err = e.InjectDependencies(path, "Mailer", nil, true)
	requireKind(t, err, KindTargetNotFound) // no constructor

	_, err = e.InjectDependencies(path, "Database", nil, true)
	requireKind(t, err, KindNoDependenciesFound)

	_, err = e.InjectDependencies(path, "Service", []string{"retries"}, true)
	requireKind(t, err, KindNoDependenciesFound)

	assert.Equal(t, serviceSource, readSource(t, path))
}

func TestAnalyzeDependencies(t *testing.T) {
	t.Parallel()

	path := writeSource(t, serviceSource)
	e := New(nil, nil)

	deps, err := e.AnalyzeDependencies(path)
	require.NoError(t, err)
	require.Len(t, deps["Service"], 3)
	assert.Equal(t, "Database", deps["Service"][0].TypeName)
}
