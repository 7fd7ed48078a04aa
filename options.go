package grundzeug

// Option configures a root container.  Options passed to New apply to
// the whole hierarchy.
type Option func(*hierarchy)

// WithPlugins replaces the default plugin list (Bean-List, Single-Value,
// Special).  Order matters: earlier plugins get the first chance to
// claim registrations and to answer at every ancestor level.
func WithPlugins(plugins ...Plugin) Option {
	return func(h *hierarchy) {
		h.plugins = append([]Plugin(nil), plugins...)
	}
}

// WithDebug installs a trace hook that receives a line for each
// registration and each step of every resolution walk.  The engine
// never logs on its own.
func WithDebug(debugf func(format string, args ...any)) Option {
	return func(h *hierarchy) {
		h.debugf = debugf
	}
}

// RegisterOption adjusts a single registration.
type RegisterOption func(*registerOptions)

type registerOptions struct {
	name      string
	lifecycle Lifecycle
}

// Named registers the bean under a name.  Named and unnamed
// registrations of the same contract are different keys.
func Named(name string) RegisterOption {
	return func(o *registerOptions) {
		o.name = name
	}
}

// WithLifecycle selects the lifecycle for RegisterFactory,
// RegisterConstructor and RegisterType.  The default is ScopedSingleton.
func WithLifecycle(l Lifecycle) RegisterOption {
	return func(o *registerOptions) {
		o.lifecycle = l
	}
}

func collectRegisterOptions(opts []RegisterOption) registerOptions {
	o := registerOptions{lifecycle: ScopedSingleton}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
