package config

import (
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Env looks values up in environment variables.  The path foo.bar-baz
// with prefix APP_ is the variable APP_FOO_BAR_BAZ: segments are joined
// with underscores, upper-cased, and anything that is not a letter or
// digit becomes an underscore.
type Env struct {
	Prefix string
	vars   map[string]string
}

var _ Provider = &Env{}

// NewEnv reads the process environment on every lookup.
func NewEnv(prefix string) *Env {
	return &Env{Prefix: prefix}
}

// ParseDotenv reads a dotenv file once.  Its variables are looked up
// with the same naming rule as Env.
func ParseDotenv(r io.Reader, prefix string) (*Env, error) {
	vars, err := godotenv.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse dotenv")
	}
	return &Env{Prefix: prefix, vars: vars}, nil
}

// LoadDotenv reads one or more dotenv files; later files win, as with
// godotenv.Read.
func LoadDotenv(prefix string, files ...string) (*Env, error) {
	vars, err := godotenv.Read(files...)
	if err != nil {
		return nil, errors.Wrap(err, "read dotenv")
	}
	return &Env{Prefix: prefix, vars: vars}, nil
}

// VariableName is the variable consulted for path.
func (e *Env) VariableName(path Path) string {
	var b strings.Builder
	b.WriteString(e.Prefix)
	for i, seg := range path {
		if i > 0 {
			b.WriteByte('_')
		}
		for _, r := range strings.ToUpper(seg) {
			if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
				b.WriteRune(r)
			} else {
				b.WriteByte('_')
			}
		}
	}
	return b.String()
}

func (e *Env) Lookup(path Path) (any, bool) {
	name := e.VariableName(path)
	if e.vars != nil {
		v, ok := e.vars[name]
		return v, ok
	}
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil, false
	}
	return v, true
}
