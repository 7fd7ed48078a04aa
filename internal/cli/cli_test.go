package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickguletskii/grundzeug"
)

func writeFile(t *testing.T, dir, name, body string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	var out, logs bytes.Buffer
	c := New(&out, &logs, LogInfo)
	cmd := c.RootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&logs)
	cmd.SetErr(&logs)
	err := cmd.Execute()
	return out.String(), err
}

func TestGetLayers(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	base := writeFile(t, dir, "base.yaml", "foo:\n  bar:\n    baz: 42\n    boo: 32\n")
	override := writeFile(t, dir, "override.toml", "[foo.bar]\nbaz = 62\n")
	dotenv := writeFile(t, dir, "local.env", "APP_FOO_BAR_BOO=7\n")

	cases := []struct {
		name string
		args []string
		want string
	}{
		{name: "single file", args: []string{"get", "foo.bar.baz", "-f", base}, want: "42\n"},
		{name: "later file wins", args: []string{"get", "foo.bar.baz", "-f", base, "-f", override}, want: "62\n"},
		{name: "untouched key", args: []string{"get", "foo.bar.boo", "-f", base, "-f", override}, want: "32\n"},
		{name: "dotenv", args: []string{"get", "foo.bar.boo", "-f", base, "--dotenv", dotenv, "--env-prefix", "APP_"}, want: "\"7\"\n"},
		{name: "set", args: []string{"get", "foo.bar.baz", "-f", base, "--set", "foo.bar.baz=1"}, want: "\"1\"\n"},
		{name: "json", args: []string{"get", "foo.bar", "--json", "-f", base}, want: "{\n  \"baz\": 42,\n  \"boo\": 32\n}\n"},
		{name: "yaml", args: []string{"get", "foo", "-f", base}, want: "bar:\n    baz: 42\n    boo: 32\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := run(t, tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestGetErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	base := writeFile(t, dir, "base.json", `{"foo": 1}`)

	_, err := run(t, "get", "missing", "-f", base)
	assert.ErrorContains(t, err, "missing configuration keys missing")

	_, err = run(t, "get", "foo", "--set", "novalue")
	assert.ErrorContains(t, err, "expected path=value")

	_, err = run(t, "get", "foo", "-f", filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)

	_, err = run(t, "get")
	assert.Error(t, err)
}

func TestGetDump(t *testing.T) {
	t.Parallel()
	base := writeFile(t, t.TempDir(), "base.yaml", "foo: 42\n")
	out, err := run(t, "get", "foo", "--dump", "-f", base)
	require.NoError(t, err)
	assert.Equal(t, "(int) 42\n", out)
}

func TestRegistrations(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", "x: 1\n")
	b := writeFile(t, dir, "b.yaml", "x: 2\n")
	out, err := run(t, "registrations", "-f", a, "-f", b)
	require.NoError(t, err)
	assert.Contains(t, out, "DEPTH")
	assert.Contains(t, out, "configuration")
	assert.Regexp(t, `(?m)^0 .*configuration`, out)
	assert.Regexp(t, `(?m)^1 .*configuration`, out)
}

func TestTraceHook(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	c := New(&bytes.Buffer{}, &logs, LogInfo)
	assert.Nil(t, c.traceHook())

	c.SetLogLevel(LogDebug)
	hook := c.traceHook()
	require.NotNil(t, hook)
	hook("container %s: hello", "x")
	assert.Contains(t, logs.String(), "container x: hello")
}

func TestHierarchyPlugins(t *testing.T) {
	t.Parallel()
	base := writeFile(t, t.TempDir(), "base.yaml", "foo: 1\n")
	c := New(&bytes.Buffer{}, &bytes.Buffer{}, LogInfo)
	c.layers.files = []string{base}
	h, err := c.buildHierarchy()
	require.NoError(t, err)

	var names []string
	for _, p := range h.leaf.Plugins() {
		names = append(names, grundzeug.PluginName(p))
	}
	assert.Equal(t, []string{"configuration", "bean-list", "single-value", "special"}, names)
	assert.Same(t, h.root, h.leaf.Parent())
}
