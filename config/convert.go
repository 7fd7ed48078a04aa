package config

import (
	"fmt"
	"reflect"

	"github.com/muir/reflectutils"
	"github.com/pkg/errors"

	"github.com/nickguletskii/grundzeug"
)

// Converters finds a way to turn provider values (usually strings,
// numbers, slices and maps from a parser) into field types.  found is
// false when no conversion is known, in which case the value is used
// as is and the type check decides.
type Converters interface {
	Converter(c *grundzeug.Container, from, to reflect.Type) (conv grundzeug.Converter, found bool, err error)
}

// DefaultConverters tries, in order:
//
//   - nothing to do when from is assignable to to;
//   - a converter resolved from the container for ConverterContract{from, to};
//   - parsing, when from is a string;
//   - Go conversion between numeric kinds, or between types of the same kind,
//     failing when the number does not fit the target;
//   - formatting, when to is a string and from is a number or a bool;
//   - element by element for slices.
type DefaultConverters struct{}

var _ Converters = DefaultConverters{}

func (d DefaultConverters) Converter(c *grundzeug.Container, from, to reflect.Type) (grundzeug.Converter, bool, error) {
	if from.AssignableTo(to) {
		return grundzeug.Identity(), true, nil
	}
	bean, found, err := c.TryResolve(grundzeug.ConverterContract{From: from, To: to})
	if err != nil {
		return nil, false, err
	}
	if found {
		conv, ok := bean.(grundzeug.Converter)
		if !ok {
			return nil, false, errors.Errorf("converter from %s to %s is a %s", typeName(from), typeName(to), typeNameOf(bean))
		}
		return conv, true, nil
	}
	if from.Kind() == reflect.String {
		if conv, ok := stringConverter(to); ok {
			return conv, true, nil
		}
	}
	if from.ConvertibleTo(to) && (numeric(from) && numeric(to) || from.Kind() == to.Kind()) {
		return grundzeug.ConverterFunc(func(v any) (any, error) {
			return convertExact(reflect.ValueOf(v), to)
		}), true, nil
	}
	if to.Kind() == reflect.String && (numeric(from) || from.Kind() == reflect.Bool) {
		return grundzeug.ConverterFunc(func(v any) (any, error) {
			return reflect.ValueOf(fmt.Sprint(v)).Convert(to).Interface(), nil
		}), true, nil
	}
	if (from.Kind() == reflect.Slice || from.Kind() == reflect.Array) && to.Kind() == reflect.Slice {
		return d.sliceConverter(c, to), true, nil
	}
	return nil, false, nil
}

func stringConverter(to reflect.Type) (grundzeug.Converter, bool) {
	setter, err := reflectutils.MakeStringSetter(to)
	if err != nil {
		return nil, false
	}
	return grundzeug.ConverterFunc(func(v any) (any, error) {
		target := reflect.New(to).Elem()
		if err := setter(target, reflect.ValueOf(v).String()); err != nil {
			return nil, err
		}
		return target.Interface(), nil
	}), true
}

func (d DefaultConverters) sliceConverter(c *grundzeug.Container, to reflect.Type) grundzeug.Converter {
	return grundzeug.ConverterFunc(func(v any) (any, error) {
		in := reflect.ValueOf(v)
		out := reflect.MakeSlice(to, in.Len(), in.Len())
		for i := 0; i < in.Len(); i++ {
			converted, err := convert(c, d, in.Index(i).Interface(), to.Elem())
			if err != nil {
				return nil, errors.Wrapf(err, "element %d", i)
			}
			if converted == nil {
				continue
			}
			cv := reflect.ValueOf(converted)
			if !cv.Type().AssignableTo(to.Elem()) {
				return nil, errors.Errorf("element %d: cannot use %s as %s", i, typeName(cv.Type()), typeName(to.Elem()))
			}
			out.Index(i).Set(cv)
		}
		return out.Interface(), nil
	})
}

// convertExact applies Go conversion.  Between different numeric kinds
// the result must convert back to the input, so overflow, truncation of
// fractions and negative values for unsigned targets are errors.
func convertExact(v reflect.Value, to reflect.Type) (any, error) {
	out := v.Convert(to)
	if v.Kind() == to.Kind() || !numeric(v.Type()) || !numeric(to) {
		return out.Interface(), nil
	}
	if unsigned(to) && negative(v) || !out.Convert(v.Type()).Equal(v) {
		return nil, errors.Errorf("%v does not fit in a %s", v.Interface(), typeName(to))
	}
	return out.Interface(), nil
}

func unsigned(t reflect.Type) bool {
	// nolint:exhaustive
	switch t.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}

func negative(v reflect.Value) bool {
	// nolint:exhaustive
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() < 0
	case reflect.Float32, reflect.Float64:
		return v.Float() < 0
	default:
		return false
	}
}

func numeric(t reflect.Type) bool {
	// nolint:exhaustive
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// convert applies whatever conversion convs knows for value's dynamic
// type.  nil stays nil.
func convert(c *grundzeug.Container, convs Converters, value any, to reflect.Type) (any, error) {
	if value == nil {
		return nil, nil
	}
	conv, found, err := convs.Converter(c, reflect.TypeOf(value), to)
	if err != nil {
		return nil, err
	}
	if !found {
		return value, nil
	}
	return conv.Convert(value)
}
