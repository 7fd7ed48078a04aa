package grundzeug_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickguletskii/grundzeug"
)

type greeter interface {
	Greet() string
}

type english struct{ name string }

func (e english) Greet() string { return "hello " + e.name }

func TestRegisterAndResolve(t *testing.T) {
	t.Parallel()
	c := grundzeug.New()
	require.NoError(t, c.RegisterInstance(grundzeug.Of[int](), 7))
	require.NoError(t, c.RegisterInstance(nil, "implicit"))
	require.NoError(t, c.RegisterInstance(grundzeug.Of[greeter](), english{name: "bob"}))

	v, err := c.Resolve(grundzeug.Of[int]())
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	s, err := grundzeug.ResolveAs[string](c)
	require.NoError(t, err)
	assert.Equal(t, "implicit", s)

	g, err := grundzeug.ResolveAs[greeter](c)
	require.NoError(t, err)
	assert.Equal(t, "hello bob", g.Greet())
}

func TestNearestRegistrationWins(t *testing.T) {
	t.Parallel()
	root := grundzeug.New()
	child := root.Child()
	grandchild := child.Child()
	require.NoError(t, root.RegisterInstance(grundzeug.Of[string](), "root"))
	require.NoError(t, child.RegisterInstance(grundzeug.Of[string](), "child"))

	cases := []struct {
		name string
		c    *grundzeug.Container
		want string
	}{
		{name: "root", c: root, want: "root"},
		{name: "child", c: child, want: "child"},
		{name: "grandchild", c: grandchild, want: "child"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := grundzeug.ResolveAs[string](tc.c)
			require.NoError(t, err)
			assert.Equal(t, tc.want, v)
		})
	}
}

func TestNamedAndUnnamedAreDistinct(t *testing.T) {
	t.Parallel()
	c := grundzeug.New()
	require.NoError(t, c.RegisterInstance(grundzeug.Of[string](), "plain"))
	require.NoError(t, c.RegisterInstance(grundzeug.Of[string](), "primary", grundzeug.Named("primary")))

	v, err := grundzeug.ResolveAs[string](c)
	require.NoError(t, err)
	assert.Equal(t, "plain", v)

	v, err = grundzeug.ResolveNamedAs[string](c, "primary")
	require.NoError(t, err)
	assert.Equal(t, "primary", v)

	_, found, err := c.TryResolveNamed(grundzeug.Of[string](), "secondary")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDuplicateRegistration(t *testing.T) {
	t.Parallel()
	root := grundzeug.New()
	require.NoError(t, root.RegisterInstance(grundzeug.Of[int](), 1))
	err := root.RegisterInstance(grundzeug.Of[int](), 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, grundzeug.ErrDuplicateRegistration))
	var dup *grundzeug.DuplicateRegistrationError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, root.ID(), dup.Container)

	// the same key on a child is shadowing, not a duplicate
	require.NoError(t, root.Child().RegisterInstance(grundzeug.Of[int](), 3))
}

func TestResolveMissing(t *testing.T) {
	t.Parallel()
	c := grundzeug.New()
	v, found, err := c.TryResolve(grundzeug.Of[int]())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, v)

	_, err = c.Resolve(grundzeug.Of[int]())
	assert.True(t, errors.Is(err, grundzeug.ErrResolutionFailed))
	var rf *grundzeug.ResolutionFailedError
	require.True(t, errors.As(err, &rf))
	assert.Equal(t, grundzeug.KeyOf(grundzeug.Of[int]()), rf.Key)
}

func TestResolveSelf(t *testing.T) {
	t.Parallel()
	root := grundzeug.New()
	child := root.Child()
	v, err := grundzeug.ResolveAs[*grundzeug.Container](child)
	require.NoError(t, err)
	assert.Same(t, child, v)

	// only the unnamed contract is special
	_, found, err := child.TryResolveNamed(grundzeug.Of[*grundzeug.Container](), "other")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHierarchyNavigation(t *testing.T) {
	t.Parallel()
	root := grundzeug.New()
	a := root.Child()
	b := root.Child()
	aa := a.Child()

	assert.Nil(t, root.Parent())
	assert.Same(t, root, a.Parent())
	assert.Same(t, root, aa.Root())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, []*grundzeug.Container{a, b}, root.Children())
	assert.Equal(t, []*grundzeug.Container{aa}, a.Children())

	a.Close()
	assert.Equal(t, []*grundzeug.Container{b}, root.Children())
}

func TestClosedContainer(t *testing.T) {
	t.Parallel()
	root := grundzeug.New()
	require.NoError(t, root.RegisterInstance(grundzeug.Of[int](), 1))
	child := root.Child()
	grandchild := child.Child()
	child.Close()
	child.Close()
	assert.True(t, child.Closed())

	_, err := child.Resolve(grundzeug.Of[int]())
	assert.ErrorIs(t, err, grundzeug.ErrClosed)
	assert.ErrorIs(t, child.RegisterInstance(grundzeug.Of[string](), "x"), grundzeug.ErrClosed)

	// closing does not cascade
	v, err := grundzeug.ResolveAs[int](grandchild)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestPluginOrder(t *testing.T) {
	t.Parallel()
	root := grundzeug.New()
	names := func() []string {
		var out []string
		for _, p := range root.Plugins() {
			out = append(out, grundzeug.PluginName(p))
		}
		return out
	}
	assert.Equal(t, []string{"bean-list", "single-value", "special"}, names())

	root.Child().AddPlugin(grundzeug.NewConverterPlugin())
	assert.Equal(t, []string{"converter", "bean-list", "single-value", "special"}, names())
}

func TestUnclaimedRegistration(t *testing.T) {
	t.Parallel()
	c := grundzeug.New(grundzeug.WithPlugins(&grundzeug.SpecialPlugin{}))
	err := c.RegisterInstance(grundzeug.Of[int](), 1)
	assert.ErrorIs(t, err, grundzeug.ErrUnclaimedRegistration)
}

func TestResolveAsWrongType(t *testing.T) {
	t.Parallel()
	c := grundzeug.New()
	require.NoError(t, c.RegisterInstance(grundzeug.Of[greeter](), nil))
	g, err := grundzeug.ResolveAs[greeter](c)
	require.NoError(t, err)
	assert.Nil(t, g)

	require.NoError(t, c.RegisterInstance(grundzeug.Of[int](), "not an int"))
	_, err = grundzeug.ResolveAs[int](c)
	assert.Error(t, err)
}

func TestDebugHook(t *testing.T) {
	t.Parallel()
	var lines []string
	c := grundzeug.New(grundzeug.WithDebug(func(format string, args ...any) {
		lines = append(lines, format)
	}))
	require.NoError(t, c.RegisterInstance(grundzeug.Of[int](), 1))
	_, err := c.Resolve(grundzeug.Of[int]())
	require.NoError(t, err)
	_, err = c.Resolve(grundzeug.Of[int]())
	require.NoError(t, err)
	assert.Contains(t, lines, "container %s: %s registered %s as %s")
	assert.Contains(t, lines, "container %s: resolve %s: level %d (%s): %s: %s")
	assert.Contains(t, lines, "container %s: resolve %s from cache")
}
