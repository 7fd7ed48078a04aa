package config

import (
	"reflect"
	"strings"

	"github.com/muir/reflectutils"
	"github.com/pkg/errors"
)

// ClassMeta describes a configuration struct placed under a prefix.
type ClassMeta struct {
	Type   reflect.Type
	Prefix Path
	Fields []*FieldMeta
}

// FieldMeta describes one tagged field.  Nested is set when the field is
// itself a configuration class, in which case Path is that class's
// prefix.
type FieldMeta struct {
	Name        string
	Index       []int
	Type        reflect.Type
	Path        Path
	HasDefault  bool
	Default     string
	Description string
	Rules       []RuleRef
	Nested      *ClassMeta

	rules []Rule
}

// RuleRef is a validation rule as written in a tag.
type RuleRef struct {
	Name  string
	Param string
}

func (r RuleRef) String() string {
	if r.Param == "" {
		return r.Name
	}
	return r.Name + ":" + r.Param
}

// Leaves returns every non-nested field, depth first, nested classes
// expanded in place.
func (m *ClassMeta) Leaves() []*FieldMeta {
	var out []*FieldMeta
	for _, f := range m.Fields {
		if f.Nested != nil {
			out = append(out, f.Nested.Leaves()...)
			continue
		}
		out = append(out, f)
	}
	return out
}

// Lookup finds a field by Go name; dots descend into nested classes.
func (m *ClassMeta) Lookup(name string) (*FieldMeta, bool) {
	head, rest, more := strings.Cut(name, ".")
	for _, f := range m.Fields {
		if f.Name != head {
			continue
		}
		if !more {
			return f, true
		}
		if f.Nested == nil {
			return nil, false
		}
		return f.Nested.Lookup(rest)
	}
	return nil, false
}

// leaves of a single field: itself, or the leaves of its nested class.
func (f *FieldMeta) leaves() []*FieldMeta {
	if f.Nested != nil {
		return f.Nested.Leaves()
	}
	return []*FieldMeta{f}
}

const (
	tagConfig      = "config"
	tagDefault     = "default"
	tagDescription = "description"
	tagValidate    = "validate"
)

func (r *Registry) describe(t reflect.Type, prefix Path) (*ClassMeta, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, errors.Errorf("configuration class %s is not a struct", typeName(t))
	}
	m := &ClassMeta{Type: t, Prefix: prefix}
	seen := make(map[string]string)
	var err error
	reflectutils.WalkStructElements(t, func(field reflect.StructField) bool {
		if err != nil {
			return false
		}
		tag, ok := field.Tag.Lookup(tagConfig)
		if !ok {
			// embedded structs contribute their fields
			return field.Anonymous && field.Type.Kind() == reflect.Struct
		}
		if tag == "-" {
			return false
		}
		if !field.IsExported() {
			err = errors.Errorf("%s.%s: configuration fields must be exported", typeName(t), field.Name)
			return false
		}
		rel := ParsePath(tag)
		if len(rel) == 0 {
			err = errors.Errorf("%s.%s: empty configuration path", typeName(t), field.Name)
			return false
		}
		fm := &FieldMeta{
			Name:        field.Name,
			Index:       field.Index,
			Type:        field.Type,
			Path:        prefix.Join(rel),
			Description: field.Tag.Get(tagDescription),
		}
		if prev, dup := seen[fm.Path.key()]; dup {
			err = errors.Errorf("%s: fields %s and %s share the configuration path %s",
				typeName(t), prev, field.Name, fm.Path)
			return false
		}
		seen[fm.Path.key()] = field.Name
		fm.Default, fm.HasDefault = field.Tag.Lookup(tagDefault)

		if isClass(field.Type) {
			if fm.HasDefault {
				err = errors.Errorf("%s.%s: a nested configuration class cannot have a default, give its fields defaults instead",
					typeName(t), field.Name)
				return false
			}
			fm.Nested, err = r.describe(field.Type, fm.Path)
			if err != nil {
				err = errors.Wrap(err, field.Name)
				return false
			}
		}
		if v, ok := field.Tag.Lookup(tagValidate); ok {
			fm.Rules, err = parseRules(v)
			if err == nil {
				fm.rules, err = r.compileRules(fm.Rules)
			}
			if err != nil {
				err = errors.Wrapf(err, "%s.%s", typeName(t), field.Name)
				return false
			}
		}
		m.Fields = append(m.Fields, fm)
		return false
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// isClass reports whether a field type is a nested configuration class:
// a struct with at least one config tag of its own (embedded structs
// count).
func isClass(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	found := false
	reflectutils.WalkStructElements(t, func(field reflect.StructField) bool {
		if _, ok := field.Tag.Lookup(tagConfig); ok {
			found = true
			return false
		}
		return !found && field.Anonymous && field.Type.Kind() == reflect.Struct
	})
	return found
}

func parseRules(tag string) ([]RuleRef, error) {
	var out []RuleRef
	for _, part := range strings.Split(tag, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, param, _ := strings.Cut(part, ":")
		if name == "" {
			return nil, errors.Errorf("validation rule %q has no name", part)
		}
		out = append(out, RuleRef{Name: name, Param: param})
	}
	return out, nil
}
