package config

import (
	"reflect"

	"github.com/muir/reflectutils"
)

// AsMap returns the configuration fields of a configuration struct (or
// pointer to one) keyed by Go field name.  Nested classes become nested
// maps.  Anything else yields nil.
func AsMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	out := make(map[string]any)
	reflectutils.WalkStructElements(rv.Type(), func(field reflect.StructField) bool {
		tag, ok := field.Tag.Lookup(tagConfig)
		if !ok {
			return field.Anonymous && field.Type.Kind() == reflect.Struct
		}
		if tag == "-" || !field.IsExported() {
			return false
		}
		fv := rv.FieldByIndex(field.Index)
		if isClass(field.Type) {
			out[field.Name] = AsMap(fv.Interface())
		} else {
			out[field.Name] = fv.Interface()
		}
		return false
	})
	return out
}
