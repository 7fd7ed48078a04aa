package grundzeug

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Lifecycle selects how a registration turns its source into a bean.
type Lifecycle int

const (
	// ScopedSingleton runs the factory once, with the container the
	// registration was made on, and every requester (descendants
	// included) sees that one value.  It is the default.
	ScopedSingleton Lifecycle = iota
	// Transient runs the factory, with the requesting container, every
	// time the bean is resolved.
	Transient
	// Hierarchical runs the factory once per requesting container.
	Hierarchical
	// Instance holds a pre-built value.  It is chosen implicitly by
	// RegisterInstance.
	Instance
)

func (l Lifecycle) String() string {
	switch l {
	case ScopedSingleton:
		return "scoped-singleton"
	case Transient:
		return "transient"
	case Hierarchical:
		return "hierarchical"
	case Instance:
		return "instance"
	default:
		return fmt.Sprintf("Lifecycle(%d)", int(l))
	}
}

// Factory produces a bean.  The container passed in is the one the
// lifecycle dictates: the owning container for ScopedSingleton and the
// requesting container for Transient and Hierarchical.  Errors are
// returned to the caller of Resolve unmodified.
type Factory func(c *Container) (any, error)

// Registration is a stored recipe for producing a bean for a key.
type Registration interface {
	Key() Key
	// Owner is the container the registration was made on.
	Owner() *Container
	Lifecycle() Lifecycle
	// Produce returns the bean as seen from requesting, which is the
	// owner or one of its descendants.
	Produce(requesting *Container) (any, error)
}

type registrationBase struct {
	key   Key
	owner *Container
}

func (r registrationBase) Key() Key          { return r.key }
func (r registrationBase) Owner() *Container { return r.owner }

type instanceRegistration struct {
	registrationBase
	value any
}

func (r *instanceRegistration) Lifecycle() Lifecycle { return Instance }

func (r *instanceRegistration) Produce(*Container) (any, error) {
	return r.value, nil
}

type singletonRegistration struct {
	registrationBase
	factory Factory
	done    bool
	value   any
}

func (r *singletonRegistration) Lifecycle() Lifecycle { return ScopedSingleton }

func (r *singletonRegistration) Produce(*Container) (any, error) {
	if r.done {
		return r.value, nil
	}
	v, err := r.factory(r.owner)
	if err != nil {
		return nil, err
	}
	r.value = v
	r.done = true
	return v, nil
}

type transientRegistration struct {
	registrationBase
	factory Factory
}

func (r *transientRegistration) Lifecycle() Lifecycle { return Transient }

func (r *transientRegistration) Produce(requesting *Container) (any, error) {
	return r.factory(requesting)
}

// hierarchicalRegistration memoizes per requesting container.  The memo
// is indexed by container ID and pruned by the arena when that container
// is closed; it never keeps the requesting container itself alive.
type hierarchicalRegistration struct {
	registrationBase
	factory Factory
	values  map[uuid.UUID]any
}

func (r *hierarchicalRegistration) Lifecycle() Lifecycle { return Hierarchical }

func (r *hierarchicalRegistration) Produce(requesting *Container) (any, error) {
	id := requesting.ID()
	if v, ok := r.values[id]; ok {
		return v, nil
	}
	v, err := r.factory(requesting)
	if err != nil {
		return nil, err
	}
	values := r.values
	if requesting.h.arena.onRelease(id, func() { delete(values, id) }) {
		values[id] = v
	}
	return v, nil
}

func newRegistration(owner *Container, key Key, lifecycle Lifecycle, factory Factory) (Registration, error) {
	base := registrationBase{key: key, owner: owner}
	switch lifecycle {
	case ScopedSingleton:
		return &singletonRegistration{registrationBase: base, factory: factory}, nil
	case Transient:
		return &transientRegistration{registrationBase: base, factory: factory}, nil
	case Hierarchical:
		return &hierarchicalRegistration{
			registrationBase: base,
			factory:          factory,
			values:           make(map[uuid.UUID]any),
		}, nil
	case Instance:
		return nil, errors.Errorf("lifecycle %s needs a value, use RegisterInstance", lifecycle)
	default:
		return nil, errors.Errorf("unknown lifecycle %s", lifecycle)
	}
}
