package config

import (
	"github.com/pkg/errors"

	"github.com/nickguletskii/grundzeug"
)

// RuleFactory builds a Rule from the parameter written after the colon
// in a validate tag ("min:3" gives "3").
type RuleFactory func(param string) (Rule, error)

// Registry holds everything the configuration plugin needs to know
// beyond the providers: named validation rules, the conversion
// collaborator and computed class metadata.  A Registry is not safe for
// concurrent use.
type Registry struct {
	rules      map[string]RuleFactory
	classes    map[ClassContract]*ClassMeta
	converters Converters
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRule adds or replaces a named validation rule.
func WithRule(name string, f RuleFactory) RegistryOption {
	return func(r *Registry) {
		r.rules[name] = f
	}
}

// WithConverters replaces DefaultConverters.
func WithConverters(c Converters) RegistryOption {
	return func(r *Registry) {
		r.converters = c
	}
}

// NewRegistry returns a registry with the built-in rules and
// DefaultConverters.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		rules:      builtinRules(),
		classes:    make(map[ClassContract]*ClassMeta),
		converters: DefaultConverters{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Describe returns the metadata for a class contract.  Results are
// memoized.  Rules named in tags are looked up here, so a rule has to
// be known to the registry before the first class using it is
// described.
func (r *Registry) Describe(contract ClassContract) (*ClassMeta, error) {
	if m, ok := r.classes[contract]; ok {
		return m, nil
	}
	m, err := r.describe(contract.Type, contract.Prefix())
	if err != nil {
		return nil, err
	}
	r.classes[contract] = m
	return m, nil
}

// Field returns the metadata for a field contract.  Raw contracts have
// no metadata.
func (r *Registry) Field(contract FieldContract) (*FieldMeta, error) {
	if contract.IsRaw() {
		return nil, errors.Errorf("%s is a raw path", contract)
	}
	m, err := r.Describe(contract.Class)
	if err != nil {
		return nil, err
	}
	f, ok := m.Lookup(contract.Field)
	if !ok {
		return nil, errors.Errorf("%s has no configuration field %s", contract.Class, contract.Field)
	}
	return f, nil
}

// Converters is the conversion collaborator in use.
func (r *Registry) Converters() Converters { return r.converters }

func (r *Registry) compileRules(refs []RuleRef) ([]Rule, error) {
	out := make([]Rule, 0, len(refs))
	for _, ref := range refs {
		f, ok := r.rules[ref.Name]
		if !ok {
			return nil, errors.Errorf("unknown validation rule %q", ref.Name)
		}
		rule, err := f(ref.Param)
		if err != nil {
			return nil, errors.Wrapf(err, "validation rule %s", ref)
		}
		out = append(out, rule)
	}
	return out, nil
}

// validate runs a field's rules and then the type check.
func validate(c *grundzeug.Container, f *FieldMeta, value any) error {
	for i, rule := range f.rules {
		if err := rule(c, value); err != nil {
			return asValidationError(f.Path, f.Rules[i].String(), err)
		}
	}
	if err := typeCheck(f.Type, value); err != nil {
		return asValidationError(f.Path, "type", err)
	}
	return nil
}
