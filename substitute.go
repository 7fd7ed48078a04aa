package grundzeug

import "reflect"

// CanSubstitute reports whether a value of type a may be used where b is
// declared: the types are identical or b is an interface that a
// implements.  Every type substitutes any.
func CanSubstitute(a, b reflect.Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a == b {
		return true
	}
	if b.Kind() == reflect.Interface {
		return a.Implements(b)
	}
	return false
}
