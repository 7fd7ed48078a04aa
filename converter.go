package grundzeug

import (
	"reflect"

	"github.com/pkg/errors"
)

// Converter turns a value of one type into another.  Converters are
// registered under a ConverterContract and resolved by the
// ConverterPlugin, which picks the most specific compatible one.
type Converter interface {
	Convert(value any) (any, error)
}

// ConverterFunc adapts a function to Converter.
type ConverterFunc func(value any) (any, error)

func (f ConverterFunc) Convert(value any) (any, error) { return f(value) }

// Identity returns a converter that hands its input back.
func Identity() Converter {
	return ConverterFunc(func(v any) (any, error) { return v, nil })
}

// Cast returns a converter into T using Go conversion rules, for
// example int64 to int or a named string type to string.
func Cast[T any]() Converter {
	to := reflect.TypeOf((*T)(nil)).Elem()
	return ConverterFunc(func(v any) (any, error) {
		rv := reflect.ValueOf(v)
		if !rv.IsValid() {
			return reflect.Zero(to).Interface(), nil
		}
		if !rv.Type().ConvertibleTo(to) {
			return nil, errors.Errorf("cannot convert %s to %s", typeName(rv.Type()), typeName(to))
		}
		return rv.Convert(to).Interface(), nil
	})
}

// ConverterPlugin resolves ConverterContract keys.  A registered
// Converter[F2, T2] can serve a request for Converter[F1, T1] when F1
// substitutes F2 and T2 substitutes T1.  Among several compatible
// registrations the most specific one wins; see EliminateDominated.
//
// Registering Converter[any, string] and Converter[Base, string] and
// asking for Converter[Derived, string] yields the Base converter.
type ConverterPlugin struct {
	*AmbiguousPlugin
}

// NewConverterPlugin returns a plugin ready for Container.AddPlugin.
func NewConverterPlugin() *ConverterPlugin {
	return &ConverterPlugin{AmbiguousPlugin: NewAmbiguousPlugin("converter", converterStrategy{})}
}

type converterStrategy struct{}

func (converterStrategy) Supports(key Key) bool {
	return !key.Named() && key.kind() == KindConverter
}

func (converterStrategy) Compatible(requested, registered Key) bool {
	req, ok1 := requested.Contract.(ConverterContract)
	reg, ok2 := registered.Contract.(ConverterContract)
	if !ok1 || !ok2 {
		return false
	}
	return CanSubstitute(req.From, reg.From) && CanSubstitute(reg.To, req.To)
}

// Choose eliminates candidates that have more specific overrides.  With
// Converter[any, string] and Converter[int, string] the any converter is
// dominated.  When asking for Converter[int, Base] with candidates
// Converter[int, Base] and Converter[int, Derived], the Base converter
// wins because it is closer to the requested result type.
func (converterStrategy) Choose(requested Key, candidates []Candidate) (*Candidate, error) {
	return EliminateDominated(requested, candidates, func(a, b Candidate) bool {
		ca := a.Key.Contract.(ConverterContract)
		cb := b.Key.Contract.(ConverterContract)
		return CanSubstitute(ca.From, cb.From) && CanSubstitute(cb.To, ca.To)
	})
}
