// Obligatory // comment

/*

Package grundzeug is a hierarchical dependency resolution engine.
Beans are registered on containers; containers form a tree; resolving
a contract walks from the requesting container up to the root and lets
a list of plugins decide what, if anything, is produced.

Containers

A root is created with New and descendants with Child.  A registration
made on a container is visible to that container and every descendant,
and a registration on a nearer container shadows the same key further
up:

	root := grundzeug.New()
	_ = root.RegisterInstance(grundzeug.Of[string](), "from root")
	child := root.Child()
	_ = child.RegisterInstance(grundzeug.Of[string](), "from child")
	v, _ := grundzeug.ResolveAs[string](child) // "from child"

Registrations are keyed by a Contract plus an optional name.  Of[T]
is the contract for type T, ListOf[T] collects every T registered along
the chain, and ConverterOf[F, T] asks for a Converter from F to T.

Lifecycles

RegisterInstance stores a value.  RegisterFactory, RegisterConstructor
and RegisterType take a lifecycle:

ScopedSingleton (the default) runs the factory once with the container
the registration was made on.

Transient runs the factory with the requesting container every time.

Hierarchical runs the factory once per requesting container and
forgets the value when that container is closed.

Plugins

Resolution is a fold.  Every plugin seeds a state, then sees each
container from the requester up to the root, and may answer Return,
NotFound or Continue.  Return ends the resolution.  NotFound lets the
next plugin look at the same container.  Continue moves on to the next
container without consulting the remaining plugins at this one.  When
the walk runs out of containers, each plugin gets a Postprocess call to
produce a default.

The default plugins are BeanListPlugin, SingleValuePlugin and
SpecialPlugin, in that order.  NewConverterPlugin and the configuration
plugin in the config sub-package are added with AddPlugin, which puts
them in front.

AmbiguousPlugin is the base for plugins that match registrations by
compatibility instead of by key, collecting all candidates and keeping
the most specific one.

Injection

An Injector (resolve Of[Injector]() or call Container.Injector) calls
functions with resolved parameters and fills tagged struct fields:

	type Service struct {
		DB    *sql.DB `inject:""`
		Audit Logger  `inject:"audit,optional"`
	}

Concurrency

Containers are not safe for concurrent use.  Register first, then
resolve, and add locking if resolution happens on several goroutines.

*/
package grundzeug
