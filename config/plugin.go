package config

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/nickguletskii/grundzeug"
)

// Plugin resolves ClassContract and FieldContract keys from the
// Providers registered along the container chain.  The only thing it
// accepts as a registration is a provider under ListOf[Provider]().
//
// Values are collected per path, so a child container's provider that
// only knows one key overrides that key and nothing else: the rest is
// still read from the parent's providers.  Paths nobody provides fall
// back to the field's default; paths without a default cause a
// MissingKeysError.  Values are converted and validated on every
// resolution, so configuration resolvers are never cached.
type Plugin struct {
	registry *Registry
}

var _ grundzeug.Plugin = &Plugin{}

// NewPlugin returns a plugin using reg, or a fresh NewRegistry when reg
// is nil.
func NewPlugin(reg *Registry) *Plugin {
	if reg == nil {
		reg = NewRegistry()
	}
	return &Plugin{registry: reg}
}

// Install adds a new configuration plugin to c's hierarchy and returns
// it.
func Install(c *grundzeug.Container, reg *Registry) *Plugin {
	p := NewPlugin(reg)
	c.AddPlugin(p)
	return p
}

// Registry is the metadata registry the plugin uses.
func (p *Plugin) Registry() *Registry { return p.registry }

func (p *Plugin) Name() string { return "configuration" }

var providersKey = grundzeug.KeyOf(providersContract)

type providerList struct {
	regs []grundzeug.Registration
}

func (p *Plugin) providers(c *grundzeug.Container) *providerList {
	return grundzeug.Storage(c, p, func() *providerList { return &providerList{} })
}

func (p *Plugin) Register(key grundzeug.Key, reg grundzeug.Registration, c *grundzeug.Container) (bool, error) {
	if key != providersKey {
		return false, nil
	}
	l := p.providers(c)
	l.regs = append(l.regs, reg)
	return true, nil
}

func (p *Plugin) Registrations(c *grundzeug.Container) []grundzeug.Entry {
	l := p.providers(c)
	out := make([]grundzeug.Entry, len(l.regs))
	for i, reg := range l.regs {
		out[i] = grundzeug.Entry{Key: providersKey, Registration: reg}
	}
	return out
}

func applies(key grundzeug.Key) bool {
	if key.Named() {
		return false
	}
	switch key.Contract.(type) {
	case ClassContract, FieldContract:
		return true
	default:
		return false
	}
}

// collection is the fold state: the paths still missing and the values
// found so far.
type collection struct {
	err       error
	order     []Path
	needed    map[string]Path
	collected map[string]any
}

func (s *collection) done() bool { return len(s.needed) == 0 }

func (p *Plugin) InitialState(key grundzeug.Key, _ *grundzeug.Container) any {
	if !applies(key) {
		return nil
	}
	s := &collection{
		needed:    make(map[string]Path),
		collected: make(map[string]any),
	}
	paths, err := p.paths(key.Contract)
	if err != nil {
		s.err = err
		return s
	}
	for _, path := range paths {
		if _, dup := s.needed[path.key()]; dup {
			continue
		}
		s.order = append(s.order, path)
		s.needed[path.key()] = path
	}
	return s
}

func (p *Plugin) paths(contract grundzeug.Contract) ([]Path, error) {
	var leaves []*FieldMeta
	switch c := contract.(type) {
	case ClassContract:
		m, err := p.registry.Describe(c)
		if err != nil {
			return nil, err
		}
		leaves = m.Leaves()
	case FieldContract:
		if c.IsRaw() {
			return []Path{c.RawPath()}, nil
		}
		f, err := p.registry.Field(c)
		if err != nil {
			return nil, err
		}
		leaves = f.leaves()
	}
	out := make([]Path, len(leaves))
	for i, l := range leaves {
		out[i] = l.Path
	}
	return out, nil
}

// Reduce consults the providers registered on ancestor, most recently
// registered first.  Providers are produced through the requesting
// container.
func (p *Plugin) Reduce(key grundzeug.Key, state any, requesting, ancestor *grundzeug.Container) (grundzeug.Message, error) {
	if !applies(key) {
		return grundzeug.NotFound(state), nil
	}
	s := state.(*collection)
	if s.err != nil {
		return grundzeug.Message{}, s.err
	}
	regs := p.providers(ancestor).regs
	for i := len(regs) - 1; i >= 0 && !s.done(); i-- {
		bean, err := regs[i].Produce(requesting)
		if err != nil {
			return grundzeug.Message{}, err
		}
		provider, ok := bean.(Provider)
		if !ok {
			return grundzeug.Message{}, errors.Errorf("%s registration produced a %s", providersKey, typeNameOf(bean))
		}
		for k, path := range s.needed {
			if v, ok := provider.Lookup(path); ok {
				s.collected[k] = v
				delete(s.needed, k)
			}
		}
	}
	if s.done() {
		return grundzeug.Return(p.resolver(key.Contract, s, requesting)), nil
	}
	return grundzeug.Continue(s), nil
}

func (p *Plugin) Postprocess(key grundzeug.Key, state any, requesting *grundzeug.Container) (grundzeug.Message, error) {
	if !applies(key) {
		return grundzeug.NotFound(state), nil
	}
	s := state.(*collection)
	if s.err != nil {
		return grundzeug.Message{}, s.err
	}
	if missing := p.missing(key.Contract, s); len(missing) > 0 {
		return grundzeug.Message{}, newMissingKeysError(key.Contract.String(), missing)
	}
	return grundzeug.Return(p.resolver(key.Contract, s, requesting)), nil
}

// missing lists the needed paths that have no default.
func (p *Plugin) missing(contract grundzeug.Contract, s *collection) []Path {
	defaults := make(map[string]bool)
	switch c := contract.(type) {
	case ClassContract:
		if m, err := p.registry.Describe(c); err == nil {
			for _, l := range m.Leaves() {
				defaults[l.Path.key()] = l.HasDefault
			}
		}
	case FieldContract:
		if !c.IsRaw() {
			if f, err := p.registry.Field(c); err == nil {
				for _, l := range f.leaves() {
					defaults[l.Path.key()] = l.HasDefault
				}
			}
		}
	}
	var out []Path
	for _, path := range s.order {
		if _, stillNeeded := s.needed[path.key()]; stillNeeded && !defaults[path.key()] {
			out = append(out, path)
		}
	}
	return out
}

func (p *Plugin) resolver(contract grundzeug.Contract, s *collection, requesting *grundzeug.Container) grundzeug.Resolver {
	return &resolver{plugin: p, contract: contract, values: s.collected, requesting: requesting}
}

// resolver builds the bean from collected values.  Building (defaults,
// conversion, validation) happens in Get, on every call.
type resolver struct {
	plugin     *Plugin
	contract   grundzeug.Contract
	values     map[string]any
	requesting *grundzeug.Container
}

func (r *resolver) Cacheable() bool { return false }

func (r *resolver) Get() (any, error) {
	reg := r.plugin.registry
	switch c := r.contract.(type) {
	case ClassContract:
		m, err := reg.Describe(c)
		if err != nil {
			return nil, err
		}
		v, err := r.build(m)
		if err != nil {
			return nil, err
		}
		return v.Interface(), nil
	case FieldContract:
		if c.IsRaw() {
			return r.values[c.RawPath().key()], nil
		}
		f, err := reg.Field(c)
		if err != nil {
			return nil, err
		}
		if f.Nested != nil {
			v, err := r.build(f.Nested)
			if err != nil {
				return nil, err
			}
			return v.Interface(), nil
		}
		return r.leaf(f)
	default:
		return nil, errors.Errorf("configuration cannot resolve %s", r.contract)
	}
}

func (r *resolver) build(m *ClassMeta) (reflect.Value, error) {
	out := reflect.New(m.Type).Elem()
	for _, f := range m.Fields {
		var (
			v   any
			err error
		)
		if f.Nested != nil {
			var nested reflect.Value
			nested, err = r.build(f.Nested)
			if err != nil {
				return reflect.Value{}, err
			}
			out.FieldByIndex(f.Index).Set(nested)
			continue
		}
		v, err = r.leaf(f)
		if err != nil {
			return reflect.Value{}, err
		}
		if v != nil {
			out.FieldByIndex(f.Index).Set(reflect.ValueOf(v))
		}
	}
	return out, nil
}

// leaf produces the converted, validated value of one field.
func (r *resolver) leaf(f *FieldMeta) (any, error) {
	raw, ok := r.values[f.Path.key()]
	if !ok {
		if !f.HasDefault {
			return nil, newMissingKeysError(r.contract.String(), []Path{f.Path})
		}
		raw = f.Default
	}
	v, err := convert(r.requesting, r.plugin.registry.converters, raw, f.Type)
	if err != nil {
		return nil, &ValidationError{Path: f.Path, Rule: "convert", Message: err.Error(), Cause: err}
	}
	if err := validate(r.requesting, f, v); err != nil {
		return nil, err
	}
	return v, nil
}
