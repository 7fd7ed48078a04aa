package grundzeug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickguletskii/grundzeug"
)

// scripted is a plugin that answers Reduce and Postprocess from
// functions and records every call.
type scripted struct {
	name        string
	reduce      func(level int) grundzeug.Message
	postprocess func() grundzeug.Message
	reduced     []int
	processed   int
}

func (p *scripted) Name() string { return p.name }

func (p *scripted) Register(grundzeug.Key, grundzeug.Registration, *grundzeug.Container) (bool, error) {
	return false, nil
}

func (p *scripted) InitialState(grundzeug.Key, *grundzeug.Container) any { return 0 }

func (p *scripted) Reduce(_ grundzeug.Key, state any, _, _ *grundzeug.Container) (grundzeug.Message, error) {
	level := state.(int)
	p.reduced = append(p.reduced, level)
	m := grundzeug.NotFound(nil)
	if p.reduce != nil {
		m = p.reduce(level)
	}
	if m.Verdict != grundzeug.VerdictReturn {
		m.State = level + 1
	}
	return m, nil
}

func (p *scripted) Postprocess(grundzeug.Key, any, *grundzeug.Container) (grundzeug.Message, error) {
	p.processed++
	if p.postprocess != nil {
		return p.postprocess(), nil
	}
	return grundzeug.NotFound(nil), nil
}

func (p *scripted) Registrations(*grundzeug.Container) []grundzeug.Entry { return nil }

func chain(c *grundzeug.Container, depth int) *grundzeug.Container {
	for i := 0; i < depth; i++ {
		c = c.Child()
	}
	return c
}

func TestContinueStopsLevel(t *testing.T) {
	t.Parallel()
	first := &scripted{name: "first", reduce: func(int) grundzeug.Message { return grundzeug.Continue(nil) }}
	second := &scripted{
		name:        "second",
		postprocess: func() grundzeug.Message { return grundzeug.Return(grundzeug.NewValueResolver("default")) },
	}
	root := grundzeug.New(grundzeug.WithPlugins(first, second))
	leaf := chain(root, 2)

	v, err := leaf.Resolve(grundzeug.Of[string]())
	require.NoError(t, err)
	assert.Equal(t, "default", v)
	assert.Equal(t, []int{0, 1, 2}, first.reduced, "first plugin sees every level")
	assert.Empty(t, second.reduced, "a Continue skips the remaining plugins at that level")
	assert.Equal(t, 1, first.processed)
	assert.Equal(t, 1, second.processed)
}

func TestNotFoundLetsNextPluginRun(t *testing.T) {
	t.Parallel()
	first := &scripted{name: "first"}
	second := &scripted{name: "second", reduce: func(level int) grundzeug.Message {
		if level == 1 {
			return grundzeug.Return(grundzeug.NewValueResolver("found"))
		}
		return grundzeug.NotFound(nil)
	}}
	root := grundzeug.New(grundzeug.WithPlugins(first, second))
	leaf := chain(root, 3)

	v, err := leaf.Resolve(grundzeug.Of[string]())
	require.NoError(t, err)
	assert.Equal(t, "found", v)
	assert.Equal(t, []int{0, 1}, first.reduced)
	assert.Equal(t, []int{0, 1}, second.reduced)
	assert.Zero(t, first.processed, "postprocess does not run after a Return")
}

func TestPostprocessFirstReturnWins(t *testing.T) {
	t.Parallel()
	first := &scripted{name: "first", postprocess: func() grundzeug.Message {
		return grundzeug.Return(grundzeug.NewValueResolver("first"))
	}}
	second := &scripted{name: "second", postprocess: func() grundzeug.Message {
		return grundzeug.Return(grundzeug.NewValueResolver("second"))
	}}
	c := grundzeug.New(grundzeug.WithPlugins(first, second))
	v, err := c.Resolve(grundzeug.Of[string]())
	require.NoError(t, err)
	assert.Equal(t, "first", v)
	assert.Zero(t, second.processed)
}

func TestResolverCaching(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		resolver grundzeug.Resolver
		walks    int
	}{
		{name: "cacheable", resolver: grundzeug.NewValueResolver(1), walks: 1},
		{name: "not cacheable", resolver: &grundzeug.ValueResolver{Value: 1, NoCache: true}, walks: 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &scripted{name: "p", reduce: func(int) grundzeug.Message { return grundzeug.Return(tc.resolver) }}
			c := grundzeug.New(grundzeug.WithPlugins(p))
			for i := 0; i < 3; i++ {
				v, err := c.Resolve(grundzeug.Of[int]())
				require.NoError(t, err)
				assert.Equal(t, 1, v)
			}
			assert.Len(t, p.reduced, tc.walks)
		})
	}
}

func TestRegistrationPurgesCache(t *testing.T) {
	t.Parallel()
	root := grundzeug.New()
	child := root.Child()
	require.NoError(t, root.RegisterInstance(grundzeug.Of[string](), "root"))

	v, err := grundzeug.ResolveAs[string](child)
	require.NoError(t, err)
	assert.Equal(t, "root", v)

	require.NoError(t, child.RegisterInstance(grundzeug.Of[string](), "child"))
	v, err = grundzeug.ResolveAs[string](child)
	require.NoError(t, err)
	assert.Equal(t, "child", v)
}

func TestStorageIsPerContainer(t *testing.T) {
	t.Parallel()
	root := grundzeug.New()
	child := root.Child()
	p := &scripted{name: "p"}
	type bag struct{ n int }
	grundzeug.Storage(root, p, func() *bag { return &bag{} }).n = 5
	assert.Equal(t, 5, grundzeug.Storage(root, p, func() *bag { return &bag{} }).n)
	assert.Equal(t, 0, grundzeug.Storage(child, p, func() *bag { return &bag{} }).n)
}

func TestSpecialPluginInjector(t *testing.T) {
	t.Parallel()
	root := grundzeug.New()
	child := root.Child()
	require.NoError(t, child.RegisterInstance(grundzeug.Of[int](), 9))

	inj, err := grundzeug.ResolveAs[grundzeug.Injector](child)
	require.NoError(t, err)
	v, err := inj.Resolve(grundzeug.Of[int]())
	require.NoError(t, err)
	assert.Equal(t, 9, v, "the injector is bound to the requesting container")

	assert.Empty(t, (&grundzeug.SpecialPlugin{}).Registrations(child))
}

func TestBeanList(t *testing.T) {
	t.Parallel()
	root := grundzeug.New()
	child := root.Child()
	grandchild := child.Child()
	list := grundzeug.ListOf[string]()
	require.NoError(t, root.RegisterInstance(list, "r1"))
	require.NoError(t, root.RegisterInstance(list, "r2"))
	require.NoError(t, child.RegisterFactory(list, func(*grundzeug.Container) (any, error) { return "c1", nil }))

	got, err := grundzeug.ResolveList[string](grandchild)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "r1", "r2"}, got)

	v, err := root.Resolve(list)
	require.NoError(t, err)
	assert.Equal(t, grundzeug.BeanList{"r1", "r2"}, v)

	empty, err := grundzeug.ResolveList[int](grandchild)
	require.NoError(t, err)
	assert.Empty(t, empty)

	// a list registration does not make the element type resolvable
	_, found, err := root.TryResolve(grundzeug.Of[string]())
	require.NoError(t, err)
	assert.False(t, found)

	entries := (&grundzeug.BeanListPlugin{}).Registrations(root)
	assert.Empty(t, entries, "storage belongs to the installed plugin instance")
	for _, p := range root.Plugins() {
		if grundzeug.PluginName(p) == "bean-list" {
			assert.Len(t, p.Registrations(root), 2)
		}
	}
}

func TestPluginInstancesHaveTheirOwnStorage(t *testing.T) {
	t.Parallel()
	a, b := &grundzeug.SingleValuePlugin{}, &grundzeug.SingleValuePlugin{}
	la, lb := &grundzeug.BeanListPlugin{}, &grundzeug.BeanListPlugin{}
	require.NotSame(t, a, b)
	require.NotSame(t, la, lb)

	c := grundzeug.New(grundzeug.WithPlugins(la, lb, a, b))
	require.NoError(t, c.RegisterInstance(grundzeug.Of[int](), 1))
	require.NoError(t, c.RegisterInstance(grundzeug.ListOf[int](), 2))

	assert.Len(t, a.Registrations(c), 1)
	assert.Empty(t, b.Registrations(c), "only the first plugin accepted the registration")
	assert.Len(t, la.Registrations(c), 1)
	assert.Empty(t, lb.Registrations(c))

	v, err := c.Resolve(grundzeug.Of[int]())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	list, err := grundzeug.ResolveList[int](c)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, list, "the second list plugin adds nothing")
}

func TestBeanListTransientElements(t *testing.T) {
	t.Parallel()
	root := grundzeug.New()
	n := 0
	require.NoError(t, root.RegisterFactory(grundzeug.ListOf[int](), func(*grundzeug.Container) (any, error) {
		n++
		return n, nil
	}, grundzeug.WithLifecycle(grundzeug.Transient)))

	first, err := grundzeug.ResolveList[int](root)
	require.NoError(t, err)
	second, err := grundzeug.ResolveList[int](root)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, first)
	assert.Equal(t, []int{2}, second)
}

func TestClosedDuringResolution(t *testing.T) {
	t.Parallel()
	var leaf *grundzeug.Container
	closer := &scripted{
		name: "closer",
		postprocess: func() grundzeug.Message {
			leaf.Close()
			return grundzeug.Return(grundzeug.NewValueResolver("last"))
		},
	}
	leaf = grundzeug.New(grundzeug.WithPlugins(closer)).Child()

	v, err := leaf.Resolve(grundzeug.Of[string]())
	require.NoError(t, err)
	assert.Equal(t, "last", v)
	assert.True(t, leaf.Closed())

	_, err = leaf.Resolve(grundzeug.Of[string]())
	assert.ErrorIs(t, err, grundzeug.ErrClosed)
}
