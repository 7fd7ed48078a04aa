package config

import (
	"reflect"
	"strings"

	"github.com/muir/reflectutils"

	"github.com/nickguletskii/grundzeug"
)

// ClassContract requests a whole configuration struct read from under a
// path prefix.  The same struct type under two prefixes gives two
// different contracts, which is how one struct describes several
// sections of a configuration file.
type ClassContract struct {
	Type   reflect.Type
	prefix string
}

var _ grundzeug.Contract = ClassContract{}

// Class returns the contract for configuration struct T read from under
// prefix.  Each prefix argument may itself be dotted.
//
//	type Server struct {
//		Host string `config:"host" default:"localhost"`
//		Port int    `config:"port" validate:"port"`
//	}
//	v, err := c.Resolve(config.Class[Server]("http.server"))
//	server := v.(Server)
func Class[T any](prefix ...string) ClassContract {
	return ClassOf(reflect.TypeOf((*T)(nil)).Elem(), joinPrefix(prefix))
}

// ClassOf is Class for a reflect.Type.
func ClassOf(t reflect.Type, prefix Path) ClassContract {
	return ClassContract{Type: t, prefix: prefix.key()}
}

func joinPrefix(prefix []string) Path {
	var p Path
	for _, s := range prefix {
		p = append(p, ParsePath(s)...)
	}
	return p
}

func (ClassContract) Kind() grundzeug.ContractKind { return grundzeug.KindConfigurationClass }

func (cc ClassContract) String() string {
	return "Config[" + typeName(cc.Type) + " @ " + cc.Prefix().String() + "]"
}

// Prefix is the path every field of the class is relative to.
func (cc ClassContract) Prefix() Path {
	if cc.prefix == "" {
		return nil
	}
	return Path(strings.Split(cc.prefix, "\x1f"))
}

// Field returns the contract for a single field of the class.  name is
// the Go field name; fields of nested classes are reached with dots, as
// in "Database.Port".  Fields promoted from embedded structs are named
// directly.
func (cc ClassContract) Field(name string) FieldContract {
	return FieldContract{Class: cc, Field: name}
}

// FieldContract requests one configuration value.  It is either a field
// of a ClassContract, in which case it carries the field's conversion,
// default and validation rules, or a raw path (see Raw).
type FieldContract struct {
	Class ClassContract
	Field string
	raw   string
}

var _ grundzeug.Contract = FieldContract{}

// Raw returns the contract for whatever value the providers hold at
// path, unconverted and unvalidated.
func Raw(path ...string) FieldContract {
	return FieldContract{raw: joinPrefix(path).key()}
}

func (FieldContract) Kind() grundzeug.ContractKind { return grundzeug.KindConfigurationField }

func (fc FieldContract) String() string {
	if fc.IsRaw() {
		return "Config[" + fc.RawPath().String() + "]"
	}
	return fc.Class.String() + "." + fc.Field
}

// IsRaw reports whether the contract was made with Raw.
func (fc FieldContract) IsRaw() bool { return fc.Class.Type == nil }

// RawPath is the path given to Raw.
func (fc FieldContract) RawPath() Path {
	if fc.raw == "" {
		return nil
	}
	return Path(strings.Split(fc.raw, "\x1f"))
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return reflectutils.TypeName(t)
}
