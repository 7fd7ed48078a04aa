package grundzeug

import (
	"reflect"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// hierarchy is shared by reference between a root and all of its
// descendants.
type hierarchy struct {
	plugins []Plugin
	arena   *arena
	debugf  func(format string, args ...any)
}

// Container is one scope in a tree of scopes.  It holds registrations
// (inside plugin storage) and a cache of resolvers.  A container refers
// to its parent; parents only know their children through a weak
// association, so a subtree can be dropped independently.
//
// Containers are not safe for concurrent use.  The expected pattern is
// to register everything first and resolve afterwards; callers that
// resolve from several goroutines must add their own locking.
type Container struct {
	id      uuid.UUID
	parent  *Container
	h       *hierarchy
	storage map[Plugin]any
	cache   map[Key]Resolver
	closed  bool
}

var _ Injector = &Container{}

var selfKey = KeyOf(Of[*Container]())

// DefaultPlugins returns a fresh copy of the plugin list a root gets
// when WithPlugins is not used.
func DefaultPlugins() []Plugin {
	return []Plugin{
		&BeanListPlugin{},
		&SingleValuePlugin{},
		&SpecialPlugin{},
	}
}

// New creates a root container.
func New(opts ...Option) *Container {
	h := &hierarchy{
		plugins: DefaultPlugins(),
		arena:   newArena(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return newContainer(nil, h)
}

func newContainer(parent *Container, h *hierarchy) *Container {
	c := &Container{
		id:      uuid.New(),
		parent:  parent,
		h:       h,
		storage: make(map[Plugin]any),
		cache:   make(map[Key]Resolver),
	}
	h.arena.add(c)
	return c
}

// Child creates a container whose parent is c.
func (c *Container) Child() *Container {
	child := newContainer(c, c.h)
	c.debugf("container %s: new child %s", c.shortID(), child.shortID())
	return child
}

// ID is the container's unique identity.
func (c *Container) ID() uuid.UUID { return c.id }

// Parent returns the parent container or nil for a root.
func (c *Container) Parent() *Container { return c.parent }

// Root walks up to the root of the hierarchy.
func (c *Container) Root() *Container {
	r := c
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Children returns the children of c that are still alive and not
// closed, in creation order.
func (c *Container) Children() []*Container {
	return c.h.arena.children(c.id)
}

// Close destroys the container.  Values that Hierarchical registrations
// memoized for this container are released, and further registrations
// and resolutions on it fail with ErrClosed.  Children are not closed.
func (c *Container) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.cache = nil
	c.h.arena.free(c.id)
	c.debugf("container %s: closed", c.shortID())
}

// Closed reports whether Close was called.
func (c *Container) Closed() bool { return c.closed }

// AddPlugin inserts p at the front of the hierarchy's plugin list.
// Plugins always belong to the root, so calling this on a child has the
// same effect as calling it on the root.  Add plugins before resolving.
func (c *Container) AddPlugin(p Plugin) *Container {
	c.h.plugins = append([]Plugin{p}, c.h.plugins...)
	return c
}

// Plugins returns a copy of the active plugin list in order.
func (c *Container) Plugins() []Plugin {
	return append([]Plugin(nil), c.h.plugins...)
}

// RegisterInstance registers a pre-built value.  A nil contract means
// the dynamic type of value.
func (c *Container) RegisterInstance(contract Contract, value any, opts ...RegisterOption) error {
	if contract == nil {
		if value == nil {
			return errors.New("RegisterInstance needs a contract for a nil value")
		}
		contract = TypeOf(reflect.TypeOf(value))
	}
	o := collectRegisterOptions(opts)
	key := Key{Contract: contract, Name: o.name}
	return c.register(key, &instanceRegistration{
		registrationBase: registrationBase{key: key, owner: c},
		value:            value,
	})
}

// RegisterFactory registers a factory with the lifecycle chosen by the
// options (ScopedSingleton by default).
func (c *Container) RegisterFactory(contract Contract, factory Factory, opts ...RegisterOption) error {
	if contract == nil {
		return errors.New("RegisterFactory needs a contract")
	}
	if factory == nil {
		return errors.Errorf("RegisterFactory(%s): nil factory", contract)
	}
	o := collectRegisterOptions(opts)
	key := Key{Contract: contract, Name: o.name}
	reg, err := newRegistration(c, key, o.lifecycle, factory)
	if err != nil {
		return errors.Wrap(err, key.String())
	}
	return c.register(key, reg)
}

// RegisterConstructor registers a function whose parameters are
// injected from the container (see Injector.Call).  The function must
// return the bean, optionally followed by an error.  A nil contract
// means the function's first result type.
func (c *Container) RegisterConstructor(contract Contract, fn any, opts ...RegisterOption) error {
	factory, out, err := constructorFactory(fn)
	if err != nil {
		return err
	}
	if contract == nil {
		contract = TypeOf(out)
	}
	return c.RegisterFactory(contract, factory, opts...)
}

// RegisterType registers a struct (or pointer to struct) type that is
// allocated and field-injected (see Injector.Fill) on production.  A nil
// contract means typ itself.
func (c *Container) RegisterType(contract Contract, typ reflect.Type, opts ...RegisterOption) error {
	if typ == nil {
		return errors.New("RegisterType needs a type")
	}
	if !constructible(typ) {
		return errors.Errorf("RegisterType: %s is not a struct or a pointer to a struct", typeName(typ))
	}
	if contract == nil {
		contract = TypeOf(typ)
	}
	return c.RegisterFactory(contract, func(requesting *Container) (any, error) {
		return requesting.build(typ)
	}, opts...)
}

// register offers the registration to each plugin in order.  The first
// plugin to claim it wins and the cached resolver for key on this
// container, if any, is dropped.
func (c *Container) register(key Key, reg Registration) error {
	if c.closed {
		return ErrClosed
	}
	for _, p := range c.h.plugins {
		claimed, err := p.Register(key, reg, c)
		if err != nil {
			return err
		}
		if claimed {
			delete(c.cache, key)
			c.debugf("container %s: %s registered %s as %s", c.shortID(), PluginName(p), key, reg.Lifecycle())
			return nil
		}
	}
	return errors.Wrap(ErrUnclaimedRegistration, key.String())
}

// TryResolve resolves an unnamed contract.  found is false when no
// plugin produced a bean; err is reserved for real failures such as an
// ambiguous resolution or a factory error.
func (c *Container) TryResolve(contract Contract) (value any, found bool, err error) {
	return c.TryResolveKey(KeyOf(contract))
}

// TryResolveNamed resolves a named contract.
func (c *Container) TryResolveNamed(contract Contract, name string) (any, bool, error) {
	return c.TryResolveKey(Key{Contract: contract, Name: name})
}

// Resolve is TryResolve that fails with a ResolutionFailedError when
// nothing is found.
func (c *Container) Resolve(contract Contract) (any, error) {
	return c.ResolveKey(KeyOf(contract))
}

// ResolveNamed is TryResolveNamed that fails with a ResolutionFailedError
// when nothing is found.
func (c *Container) ResolveNamed(contract Contract, name string) (any, error) {
	return c.ResolveKey(Key{Contract: contract, Name: name})
}

// ResolveKey resolves key or fails with a ResolutionFailedError.
func (c *Container) ResolveKey(key Key) (any, error) {
	v, found, err := c.TryResolveKey(key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &ResolutionFailedError{Key: key}
	}
	return v, nil
}

// TryResolveKey runs the resolution walk:
//
//  1. the unnamed *Container contract resolves to c itself;
//  2. a cached resolver for key is asked for a fresh value;
//  3. every plugin creates its initial state;
//  4. for c and then each ancestor, plugins run Reduce in order.
//     Return ends the resolution.  NotFound records the state and moves
//     to the next plugin.  Continue records the state and moves straight
//     to the next ancestor: plugins after it do not run at this level
//     and keep their previous state;
//  5. once ancestors run out, plugins run Postprocess in order and the
//     first Return wins;
//  6. otherwise nothing was found.
//
// A returned resolver is cached on c when it is cacheable.
func (c *Container) TryResolveKey(key Key) (any, bool, error) {
	if c.closed {
		return nil, false, ErrClosed
	}
	if key == selfKey {
		return c, true, nil
	}
	if r, ok := c.cache[key]; ok {
		c.debugf("container %s: resolve %s from cache", c.shortID(), key)
		return get(r)
	}

	plugins := c.h.plugins
	states := make([]any, len(plugins))
	for i, p := range plugins {
		states[i] = p.InitialState(key, c)
	}

	level := 0
	for ancestor := c; ancestor != nil; ancestor = ancestor.parent {
	levelLoop:
		for i, p := range plugins {
			msg, err := p.Reduce(key, states[i], c, ancestor)
			if err != nil {
				return nil, false, err
			}
			if c.debugEnabled() {
				c.debugf("container %s: resolve %s: level %d (%s): %s: %s",
					c.shortID(), key, level, ancestor.shortID(), PluginName(p), describeMessage(msg))
			}
			switch msg.Verdict {
			case VerdictReturn:
				return c.finish(key, p, msg.Resolver)
			case VerdictContinue:
				states[i] = msg.State
				break levelLoop
			default:
				states[i] = msg.State
			}
		}
		level++
	}

	for i, p := range plugins {
		msg, err := p.Postprocess(key, states[i], c)
		if err != nil {
			return nil, false, err
		}
		if c.debugEnabled() {
			c.debugf("container %s: resolve %s: postprocess: %s: %s",
				c.shortID(), key, PluginName(p), describeMessage(msg))
		}
		if msg.Verdict == VerdictReturn {
			return c.finish(key, p, msg.Resolver)
		}
	}
	return nil, false, nil
}

func (c *Container) finish(key Key, p Plugin, r Resolver) (any, bool, error) {
	if r == nil {
		return nil, false, errors.Errorf("plugin %s returned no resolver for %s", PluginName(p), key)
	}
	// a plugin may have closed c during the walk
	if r.Cacheable() && !c.closed {
		c.cache[key] = r
	}
	return get(r)
}

func get(r Resolver) (any, bool, error) {
	v, err := r.Get()
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// Injector returns the Injector bound to c.  It is also what resolving
// Of[Injector]() from c yields.
func (c *Container) Injector() Injector {
	return boundInjector{c: c}
}

// ResolveAs resolves Of[T]() and asserts the result to T.
func ResolveAs[T any](c *Container) (T, error) {
	return resolveAs[T](c, KeyOf(Of[T]()))
}

// ResolveNamedAs resolves the named bean for Of[T]() as a T.
func ResolveNamedAs[T any](c *Container, name string) (T, error) {
	return resolveAs[T](c, Key{Contract: Of[T](), Name: name})
}

func resolveAs[T any](c *Container, key Key) (T, error) {
	var zero T
	v, err := c.ResolveKey(key)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	typed, ok := v.(T)
	if !ok {
		return zero, errors.Errorf("%s resolved to %T", key, v)
	}
	return typed, nil
}

// ResolveList resolves ListOf[T]() and asserts every element to T.
func ResolveList[T any](c *Container) ([]T, error) {
	key := KeyOf(ListOf[T]())
	v, err := c.ResolveKey(key)
	if err != nil {
		return nil, err
	}
	list, ok := v.(BeanList)
	if !ok {
		return nil, errors.Errorf("%s resolved to %T", key, v)
	}
	out := make([]T, len(list))
	for i, e := range list {
		typed, ok := e.(T)
		if !ok && e != nil {
			return nil, errors.Errorf("%s: element %d is %T", key, i, e)
		}
		out[i] = typed
	}
	return out, nil
}
