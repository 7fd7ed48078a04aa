package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Flags answers lookups from command-line flags named after the full
// configuration path, with an optional prefix: --D.http.port.  Only
// flags that were set on the command line answer, so unset flags fall
// through to the next provider.
type Flags struct {
	fs     *pflag.FlagSet
	prefix string
}

var _ Provider = &Flags{}

// NewFlags reads flags from fs.
func NewFlags(fs *pflag.FlagSet, prefix string) *Flags {
	return &Flags{fs: fs, prefix: prefix}
}

// FlagName is the flag consulted for path.
func (f *Flags) FlagName(path Path) string {
	return f.prefix + path.String()
}

// BindFlags defines one string flag per leaf field of each class.  The
// field's description is the usage text and its default is shown as the
// flag default.  Flags that are already defined are left alone, so the
// same class may be bound twice.
func (f *Flags) BindFlags(reg *Registry, classes ...ClassContract) error {
	for _, cc := range classes {
		m, err := reg.Describe(cc)
		if err != nil {
			return errors.Wrap(err, "bind flags")
		}
		for _, leaf := range m.Leaves() {
			name := f.FlagName(leaf.Path)
			if f.fs.Lookup(name) != nil {
				continue
			}
			f.fs.String(name, leaf.Default, leaf.Description)
		}
	}
	return nil
}

func (f *Flags) Lookup(path Path) (any, bool) {
	fl := f.fs.Lookup(f.FlagName(path))
	if fl == nil || !fl.Changed {
		return nil, false
	}
	return fl.Value.String(), true
}
