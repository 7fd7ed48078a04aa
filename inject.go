package grundzeug

import (
	"reflect"
	"strings"

	"github.com/muir/reflectutils"
	"github.com/pkg/errors"
)

// Injector is what the container exposes to code that wants beans
// without holding a *Container.  Resolving Of[Injector]() from a
// container yields an Injector bound to that container.
type Injector interface {
	Resolve(contract Contract) (any, error)
	ResolveNamed(contract Contract, name string) (any, error)
	TryResolve(contract Contract) (any, bool, error)

	// Call invokes fn with every parameter resolved from the container
	// and returns fn's results.  A trailing error result is returned as
	// the error, unmodified.
	//
	// Parameters are resolved as unnamed TypeContracts, except that a
	// struct (or pointer to struct) that embeds In is built and filled
	// field by field, and a variadic ...T parameter receives the
	// ListOf T beans.
	Call(fn any) ([]any, error)

	// Fill sets the fields of the struct that target points to.  Only
	// fields with an `inject` tag are set unless the struct embeds In,
	// in which case every exported field is.  The tag is
	// `inject:"[name][,optional]"`; `inject:"-"` skips the field.
	// Fields of embedded structs are filled as if they were declared on
	// the outer struct.
	Fill(target any) error
}

// In marks a struct as a parameter object: embed it and every exported
// field is injected.
//
//	type deps struct {
//		grundzeug.In
//		DB     *sql.DB
//		Logger Logger `inject:"audit,optional"`
//	}
type In struct{}

var inType = reflect.TypeOf(In{})

var errorType = reflect.TypeOf((*error)(nil)).Elem()

type boundInjector struct {
	c *Container
}

var _ Injector = boundInjector{}

func (b boundInjector) Resolve(contract Contract) (any, error) { return b.c.Resolve(contract) }
func (b boundInjector) ResolveNamed(contract Contract, name string) (any, error) {
	return b.c.ResolveNamed(contract, name)
}
func (b boundInjector) TryResolve(contract Contract) (any, bool, error) { return b.c.TryResolve(contract) }
func (b boundInjector) Call(fn any) ([]any, error)                      { return b.c.Call(fn) }
func (b boundInjector) Fill(target any) error                           { return b.c.Fill(target) }

// Call is Injector.Call on c.
func (c *Container) Call(fn any) ([]any, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, errors.Errorf("Call: %s is not a function", typeNameOf(fn))
	}
	out, err := c.call(v)
	if err != nil {
		return nil, err
	}
	t := v.Type()
	if t.NumOut() > 0 && t.Out(t.NumOut()-1) == errorType {
		last := out[len(out)-1]
		out = out[:len(out)-1]
		if !last.IsNil() {
			return interfaces(out), last.Interface().(error)
		}
	}
	return interfaces(out), nil
}

func interfaces(values []reflect.Value) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v.Interface()
	}
	return out
}

func (c *Container) call(fn reflect.Value) ([]reflect.Value, error) {
	t := fn.Type()
	args := make([]reflect.Value, t.NumIn())
	for i := 0; i < t.NumIn(); i++ {
		in := t.In(i)
		if t.IsVariadic() && i == t.NumIn()-1 {
			arg, err := c.variadicArg(in)
			if err != nil {
				return nil, err
			}
			args[i] = arg
			continue
		}
		arg, err := c.argument(in)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}
	if t.IsVariadic() {
		return fn.CallSlice(args), nil
	}
	return fn.Call(args), nil
}

func (c *Container) argument(t reflect.Type) (reflect.Value, error) {
	if embedsIn(t) {
		v, err := c.build(t)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v), nil
	}
	v, err := c.ResolveKey(KeyOf(TypeOf(t)))
	if err != nil {
		return reflect.Value{}, err
	}
	return valueFor(t, v, TypeOf(t))
}

func (c *Container) variadicArg(slice reflect.Type) (reflect.Value, error) {
	key := KeyOf(ListContract{Elem: slice.Elem()})
	v, err := c.ResolveKey(key)
	if err != nil {
		return reflect.Value{}, err
	}
	list, ok := v.(BeanList)
	if !ok {
		return reflect.Value{}, errors.Errorf("%s resolved to %T", key, v)
	}
	out := reflect.MakeSlice(slice, len(list), len(list))
	for i, e := range list {
		ev, err := valueFor(slice.Elem(), e, key.Contract)
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(ev)
	}
	return out, nil
}

// valueFor turns a resolved bean into a value of type t.  A nil bean is
// the zero value.
func valueFor(t reflect.Type, bean any, contract Contract) (reflect.Value, error) {
	if bean == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(bean)
	if !v.Type().AssignableTo(t) {
		return reflect.Value{}, errors.Errorf("%s resolved to %s which is not assignable to %s",
			contract, typeName(v.Type()), typeName(t))
	}
	return v, nil
}

// Fill is Injector.Fill on c.
func (c *Container) Fill(target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return errors.Errorf("Fill: %s is not a pointer to a struct", typeNameOf(target))
	}
	return c.fillValue(v.Elem())
}

type injectTag struct {
	skip     bool
	name     string
	optional bool
}

func parseInjectTag(tag string) (injectTag, error) {
	if tag == "-" {
		return injectTag{skip: true}, nil
	}
	parts := strings.Split(tag, ",")
	t := injectTag{name: strings.TrimSpace(parts[0])}
	for _, p := range parts[1:] {
		switch strings.TrimSpace(p) {
		case "optional":
			t.optional = true
		case "":
		default:
			return t, errors.Errorf("unknown inject tag option %q", p)
		}
	}
	return t, nil
}

func (c *Container) fillValue(v reflect.Value) error {
	all := embedsIn(v.Type())
	var firstErr error
	reflectutils.WalkStructElements(v.Type(), func(field reflect.StructField) bool {
		if firstErr != nil {
			return false
		}
		tagValue, tagged := field.Tag.Lookup("inject")
		if field.Anonymous && !tagged {
			return field.Type.Kind() == reflect.Struct
		}
		if !tagged && !all {
			return false
		}
		if !field.IsExported() {
			if tagged {
				firstErr = errors.Errorf("field %s is tagged for injection but not exported", field.Name)
			}
			return false
		}
		tag, err := parseInjectTag(tagValue)
		if err != nil {
			firstErr = errors.Wrap(err, field.Name)
			return false
		}
		if tag.skip {
			return false
		}
		key := Key{Contract: TypeOf(field.Type), Name: tag.name}
		bean, found, err := c.TryResolveKey(key)
		if err != nil {
			firstErr = err
			return false
		}
		if !found {
			if !tag.optional {
				firstErr = &ResolutionFailedError{Key: key}
			}
			return false
		}
		fv, err := valueFor(field.Type, bean, key.Contract)
		if err != nil {
			firstErr = errors.Wrap(err, field.Name)
			return false
		}
		v.FieldByIndex(field.Index).Set(fv)
		return false
	})
	return firstErr
}

// embedsIn reports whether t, or the struct t points to, embeds In.
func embedsIn(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type == inType {
			return true
		}
	}
	return false
}

func constructible(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// build allocates a struct (or pointer to struct) of type t and fills it.
func (c *Container) build(t reflect.Type) (any, error) {
	if t.Kind() == reflect.Ptr {
		p := reflect.New(t.Elem())
		if err := c.fillValue(p.Elem()); err != nil {
			return nil, err
		}
		return p.Interface(), nil
	}
	p := reflect.New(t)
	if err := c.fillValue(p.Elem()); err != nil {
		return nil, err
	}
	return p.Elem().Interface(), nil
}

// FactoryOf turns a constructor into a Factory.  fn must return exactly
// one value, optionally followed by an error; its parameters are
// injected as by Injector.Call from the container the lifecycle hands
// the factory.
func FactoryOf(fn any) (Factory, error) {
	f, _, err := constructorFactory(fn)
	return f, err
}

func constructorFactory(fn any) (Factory, reflect.Type, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, nil, errors.Errorf("constructor %s is not a function", typeNameOf(fn))
	}
	t := v.Type()
	switch {
	case t.NumOut() == 1 && t.Out(0) != errorType:
	case t.NumOut() == 2 && t.Out(1) == errorType:
	default:
		return nil, nil, errors.Errorf("constructor %s must return a value, optionally followed by an error", typeName(t))
	}
	hasErr := t.NumOut() == 2
	factory := func(c *Container) (any, error) {
		out, err := c.call(v)
		if err != nil {
			return nil, err
		}
		if hasErr && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return out[0].Interface(), nil
	}
	return factory, t.Out(0), nil
}
