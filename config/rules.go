package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/nickguletskii/grundzeug"
)

// Rule validates a converted configuration value.  It receives the
// container the value was requested from, so rules can depend on other
// beans.  A rule that returns an error other than a *ValidationError
// has it wrapped in one.
type Rule func(c *grundzeug.Container, value any) error

func builtinRules() map[string]RuleFactory {
	return map[string]RuleFactory{
		"required": noParam(requiredRule),
		"min":      boundRule("min", func(v, bound float64) bool { return v >= bound }, "less than"),
		"max":      boundRule("max", func(v, bound float64) bool { return v <= bound }, "greater than"),
		"oneof":    oneOfRule,
		"match":    matchRule,
		"port":     noParam(portRule),
	}
}

func noParam(rule Rule) RuleFactory {
	return func(param string) (Rule, error) {
		if param != "" {
			return nil, errors.Errorf("takes no parameter, got %q", param)
		}
		return rule, nil
	}
}

func requiredRule(_ *grundzeug.Container, value any) error {
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.IsZero() {
		return errors.New("value is required")
	}
	return nil
}

// boundRule compares numbers by value and strings, slices and maps by
// length.
func boundRule(name string, ok func(v, bound float64) bool, failure string) RuleFactory {
	return func(param string) (Rule, error) {
		bound, err := strconv.ParseFloat(param, 64)
		if err != nil {
			return nil, errors.Errorf("%s needs a numeric parameter, got %q", name, param)
		}
		return func(_ *grundzeug.Container, value any) error {
			n, what, err := magnitude(value)
			if err != nil {
				return err
			}
			if !ok(n, bound) {
				return errors.Errorf("%s %v is %s %s", what, n, failure, param)
			}
			return nil
		}, nil
	}
}

func magnitude(value any) (float64, string, error) {
	v := reflect.ValueOf(value)
	// nolint:exhaustive
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), "value", nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), "value", nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), "value", nil
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return float64(v.Len()), "length", nil
	default:
		return 0, "", errors.Errorf("cannot compare a %s", typeNameOf(value))
	}
}

func oneOfRule(param string) (Rule, error) {
	allowed := strings.Split(param, ",")
	if param == "" {
		return nil, errors.New("oneof needs a list of values")
	}
	return func(_ *grundzeug.Container, value any) error {
		s := fmt.Sprint(value)
		for _, a := range allowed {
			if s == strings.TrimSpace(a) {
				return nil
			}
		}
		return errors.Errorf("%q is not one of %s", s, param)
	}, nil
}

func matchRule(param string) (Rule, error) {
	re, err := regexp.Compile(param)
	if err != nil {
		return nil, errors.Wrap(err, "match")
	}
	return func(_ *grundzeug.Container, value any) error {
		s, ok := value.(string)
		if !ok {
			return errors.Errorf("match applies to strings, not %s", typeNameOf(value))
		}
		if !re.MatchString(s) {
			return errors.Errorf("%q does not match %s", s, param)
		}
		return nil
	}, nil
}

func portRule(_ *grundzeug.Container, value any) error {
	n, what, err := magnitude(value)
	if err != nil || what != "value" {
		return errors.Errorf("a port must be a number, not %s", typeNameOf(value))
	}
	if n < 1 || n > 65535 || n != float64(int(n)) {
		return errors.Errorf("%v is not a valid port", n)
	}
	return nil
}

// typeCheck is the final rule of every field: the value must be usable
// as the field's type.
func typeCheck(t reflect.Type, value any) error {
	if value == nil {
		// nolint:exhaustive
		switch t.Kind() {
		case reflect.Interface, reflect.Ptr, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
			return nil
		}
		return errors.Errorf("nil is not a valid %s", typeName(t))
	}
	if !reflect.TypeOf(value).AssignableTo(t) {
		return errors.Errorf("value should be a %s but it is a %s", typeName(t), typeNameOf(value))
	}
	return nil
}

func typeNameOf(v any) string {
	return typeName(reflect.TypeOf(v))
}
