package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/nickguletskii/grundzeug"
)

// Provider is a source of configuration values.  Lookup returns false
// when the provider has nothing at path; a provider that holds an
// explicit null returns (nil, true).
type Provider interface {
	Lookup(path Path) (any, bool)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(path Path) (any, bool)

func (f ProviderFunc) Lookup(path Path) (any, bool) { return f(path) }

// RegisterProvider adds p to the providers of c.  Providers registered
// later on the same container take precedence over earlier ones, and
// providers on a container take precedence over those of its ancestors.
// The configuration plugin must already be installed.
func RegisterProvider(c *grundzeug.Container, p Provider) error {
	return c.RegisterInstance(providersContract, p)
}

var providersContract = grundzeug.ListOf[Provider]()

// Tree answers lookups by indexing nested maps: foo.bar.baz is
// root["foo"]["bar"]["baz"].  Parsers produce Trees.
type Tree struct {
	root map[string]any
}

var _ Provider = &Tree{}

// NewTree wraps root, which may be nil.
func NewTree(root map[string]any) *Tree {
	if root == nil {
		root = make(map[string]any)
	}
	return &Tree{root: root}
}

func (t *Tree) Lookup(path Path) (any, bool) {
	var cur any = t.root
	for _, seg := range path {
		next, ok := child(cur, seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func child(node any, seg string) (any, bool) {
	switch m := node.(type) {
	case map[string]any:
		v, ok := m[seg]
		return v, ok
	case map[any]any:
		v, ok := m[seg]
		return v, ok
	default:
		return nil, false
	}
}

// Set stores value at path, creating intermediate maps.  It fails if a
// prefix of path holds something other than a map.
func (t *Tree) Set(path Path, value any) error {
	if len(path) == 0 {
		return errors.New("cannot set the empty path")
	}
	cur := t.root
	for i, seg := range path[:len(path)-1] {
		next, ok := cur[seg]
		if !ok {
			m := make(map[string]any)
			cur[seg] = m
			cur = m
			continue
		}
		m, ok := next.(map[string]any)
		if !ok {
			return errors.Errorf("cannot set %s: %s is not a map", path, path[:i+1])
		}
		cur = m
	}
	cur[path[len(path)-1]] = value
	return nil
}

// Map returns the underlying nested map.
func (t *Tree) Map() map[string]any { return t.root }

// LoadFile reads a configuration file, choosing the parser by
// extension: .yaml, .yml, .toml, .json, and .env for dotenv files.
func LoadFile(path string) (Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read configuration")
	}
	var p Provider
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		p, err = ParseYAML(data)
	case ".toml":
		p, err = ParseTOML(data)
	case ".json":
		p, err = ParseJSON(data)
	case ".env":
		p, err = ParseDotenv(strings.NewReader(string(data)), "")
	default:
		return nil, errors.Errorf("%s: unknown configuration format %q", path, ext)
	}
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return p, nil
}
