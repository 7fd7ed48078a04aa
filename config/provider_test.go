package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickguletskii/grundzeug"
	"github.com/nickguletskii/grundzeug/config"
)

const yamlDoc = `
foo:
  bar:
    baz: 42
    boo: "32"
`

const tomlDoc = `
[foo.bar]
baz = 42
boo = "32"
`

const jsonDoc = `{"foo": {"bar": {"baz": 42, "boo": "32"}}}`

func TestParsers(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		parse func([]byte) (*config.Tree, error)
		doc   string
	}{
		{name: "yaml", parse: config.ParseYAML, doc: yamlDoc},
		{name: "toml", parse: config.ParseTOML, doc: tomlDoc},
		{name: "json", parse: config.ParseJSON, doc: jsonDoc},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tree, err := tc.parse([]byte(tc.doc))
			require.NoError(t, err)
			c := grundzeug.New()
			config.Install(c, nil)
			require.NoError(t, config.RegisterProvider(c, tree))
			assert.Equal(t, example{Property: 42, DefaultProperty: 32}, resolve[example](t, c, exampleClass))

			_, err = tc.parse([]byte("{{{ not a document"))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	files := map[string]string{
		"a.yaml": yamlDoc,
		"b.toml": tomlDoc,
		"c.json": jsonDoc,
		"d.env":  "FOO_BAR_BAZ=42\nFOO_BAR_BOO=32\n",
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		p, err := config.LoadFile(path)
		require.NoError(t, err, name)
		c := grundzeug.New()
		config.Install(c, nil)
		require.NoError(t, config.RegisterProvider(c, p))
		assert.Equal(t, example{Property: 42, DefaultProperty: 32}, resolve[example](t, c, exampleClass), name)
	}

	_, err := config.LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.ini"), nil, 0o600))
	_, err = config.LoadFile(filepath.Join(dir, "x.ini"))
	assert.Error(t, err)
}

func TestTreeSet(t *testing.T) {
	t.Parallel()
	tree := config.NewTree(nil)
	require.NoError(t, tree.Set(config.ParsePath("a.b.c"), 1))
	require.NoError(t, tree.Set(config.ParsePath("a.d"), 2))
	v, ok := tree.Lookup(config.ParsePath("a.b.c"))
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, map[string]any{"a": map[string]any{"b": map[string]any{"c": 1}, "d": 2}}, tree.Map())

	assert.Error(t, tree.Set(config.ParsePath("a.d.e"), 3), "a.d is not a map")
	assert.Error(t, tree.Set(nil, 3))

	_, ok = tree.Lookup(config.ParsePath("a.b.c.d"))
	assert.False(t, ok)
	root, ok := tree.Lookup(nil)
	assert.True(t, ok)
	assert.Equal(t, tree.Map(), root)
}

func TestEnv(t *testing.T) {
	env := config.NewEnv("APP_")
	assert.Equal(t, "APP_FOO_BAR_BAZ", env.VariableName(config.ParsePath("foo.bar.baz")))
	assert.Equal(t, "APP_HTTP_READ_TIMEOUT", env.VariableName(config.Path{"http", "read-timeout"}))

	t.Setenv("APP_FOO_BAR_BAZ", "7")
	c := grundzeug.New()
	config.Install(c, nil)
	require.NoError(t, config.RegisterProvider(c, env))
	assert.Equal(t, example{Property: 7, DefaultProperty: 3}, resolve[example](t, c, exampleClass))
}

func TestDotenv(t *testing.T) {
	t.Parallel()
	env, err := config.ParseDotenv(strings.NewReader("# comment\nX_FOO_BAR_BAZ=11\nexport X_FOO_BAR_BOO=12\n"), "X_")
	require.NoError(t, err)
	c := grundzeug.New()
	config.Install(c, nil)
	require.NoError(t, config.RegisterProvider(c, env))
	assert.Equal(t, example{Property: 11, DefaultProperty: 12}, resolve[example](t, c, exampleClass))

	dir := t.TempDir()
	first := filepath.Join(dir, "first.env")
	second := filepath.Join(dir, "second.env")
	require.NoError(t, os.WriteFile(first, []byte("FOO_BAR_BAZ=1\n"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("FOO_BAR_BAZ=2\nFOO_BAR_BOO=2\n"), 0o600))
	loaded, err := config.LoadDotenv("", first, second)
	require.NoError(t, err)
	v, ok := loaded.Lookup(config.ParsePath("foo.bar.baz"))
	assert.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestFlags(t *testing.T) {
	t.Parallel()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := config.NewFlags(fs, "D.")
	reg := config.NewRegistry()
	require.NoError(t, flags.BindFlags(reg, exampleClass, exampleClass))

	baz := fs.Lookup("D.foo.bar.baz")
	require.NotNil(t, baz)
	assert.Equal(t, "the answer", baz.Usage)
	assert.Equal(t, "3", fs.Lookup("D.foo.bar.boo").DefValue)

	require.NoError(t, fs.Parse([]string{"--D.foo.bar.baz=99"}))

	root := grundzeug.New()
	config.Install(root, reg)
	require.NoError(t, config.RegisterProvider(root, config.NewTree(map[string]any{
		"foo": map[string]any{"bar": map[string]any{"baz": 1, "boo": 2}},
	})))
	child := root.Child()
	require.NoError(t, config.RegisterProvider(child, flags))
	assert.Equal(t, example{Property: 99, DefaultProperty: 2}, resolve[example](t, child, exampleClass),
		"only flags given on the command line answer")
}

func TestProviderFunc(t *testing.T) {
	t.Parallel()
	p := config.ProviderFunc(func(path config.Path) (any, bool) {
		if path.String() == "foo.bar.baz" {
			return "5", true
		}
		return nil, false
	})
	c := grundzeug.New()
	config.Install(c, nil)
	require.NoError(t, config.RegisterProvider(c, p))
	assert.Equal(t, 5, resolve[int](t, c, exampleClass.Field("Property")))
}

func TestPath(t *testing.T) {
	t.Parallel()
	p := config.ParsePath("a..b.")
	assert.Equal(t, config.Path{"a", "b"}, p)
	assert.Equal(t, "a.b.c", p.Join(config.Path{"c"}).String())
	assert.True(t, p.Equal(config.Path{"a", "b"}))
	assert.False(t, p.Equal(config.Path{"a"}))
	assert.Empty(t, config.ParsePath(""))
	assert.Equal(t, config.Path{"x", "y", "z"}, config.Class[example]("x.y", "z").Prefix())
}
