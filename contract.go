package grundzeug

import (
	"fmt"
	"reflect"

	"github.com/muir/reflectutils"
)

// ContractKind is the closed set of contract shapes that plugins
// dispatch on.  The kind is fixed when a contract is created so that
// plugins can decide whether a key belongs to them with a switch rather
// than by inspecting types at resolution time.
type ContractKind int

const (
	// KindType is an ordinary Go type.
	KindType ContractKind = iota
	// KindList is "all beans registered for T", see ListOf.
	KindList
	// KindConverter is "a converter from A to B", see ConverterOf.
	KindConverter
	// KindConfigurationClass is a configuration struct under a path prefix.
	KindConfigurationClass
	// KindConfigurationField is a single field of a configuration class.
	KindConfigurationField
)

func (k ContractKind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindList:
		return "list"
	case KindConverter:
		return "converter"
	case KindConfigurationClass:
		return "configuration-class"
	case KindConfigurationField:
		return "configuration-field"
	default:
		return fmt.Sprintf("ContractKind(%d)", int(k))
	}
}

// Contract identifies what kind of bean is requested.  Implementations
// must be comparable because contracts are part of map keys.
type Contract interface {
	Kind() ContractKind
	String() string
}

// TypeContract is a contract for a plain Go type.
type TypeContract struct {
	Type reflect.Type
}

var _ Contract = TypeContract{}

func (TypeContract) Kind() ContractKind { return KindType }
func (tc TypeContract) String() string  { return typeName(tc.Type) }

// ListContract requests every bean registered for Elem across the
// container chain.  Registrations made with a ListContract accumulate
// instead of colliding.
type ListContract struct {
	Elem reflect.Type
}

var _ Contract = ListContract{}

func (ListContract) Kind() ContractKind { return KindList }
func (lc ListContract) String() string  { return "BeanList[" + typeName(lc.Elem) + "]" }

// ConverterContract requests a Converter that accepts From and produces To.
type ConverterContract struct {
	From reflect.Type
	To   reflect.Type
}

var _ Contract = ConverterContract{}

func (ConverterContract) Kind() ContractKind { return KindConverter }
func (cc ConverterContract) String() string {
	return "Converter[" + typeName(cc.From) + ", " + typeName(cc.To) + "]"
}

// Of returns the contract for type T.  Interfaces work as expected:
// Of[io.Reader]() is the contract for io.Reader itself.
func Of[T any]() TypeContract {
	return TypeContract{Type: reflect.TypeOf((*T)(nil)).Elem()}
}

// TypeOf returns the contract for t.
func TypeOf(t reflect.Type) TypeContract {
	return TypeContract{Type: t}
}

// ListOf returns the aggregate contract for beans of type T.
func ListOf[T any]() ListContract {
	return ListContract{Elem: reflect.TypeOf((*T)(nil)).Elem()}
}

// ConverterOf returns the contract for a converter from F to T.
func ConverterOf[F any, T any]() ConverterContract {
	return ConverterContract{
		From: reflect.TypeOf((*F)(nil)).Elem(),
		To:   reflect.TypeOf((*T)(nil)).Elem(),
	}
}

func typeNameOf(v any) string {
	return typeName(reflect.TypeOf(v))
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return reflectutils.TypeName(t)
}

// Key identifies a registration: a contract plus an optional name.
// The empty name means the registration is unnamed.
type Key struct {
	Contract Contract
	Name     string
}

// KeyOf builds an unnamed key.
func KeyOf(contract Contract) Key {
	return Key{Contract: contract}
}

// Named reports whether the key carries a bean name.
func (k Key) Named() bool { return k.Name != "" }

func (k Key) String() string {
	var c string
	if k.Contract == nil {
		c = "<nil>"
	} else {
		c = k.Contract.String()
	}
	if k.Name == "" {
		return c
	}
	return c + "(" + k.Name + ")"
}

func (k Key) kind() ContractKind {
	if k.Contract == nil {
		return KindType
	}
	return k.Contract.Kind()
}
