package grundzeug

// Plugin is an extension that handles a class of contracts.  Plugins are
// installed on the root container and apply to the whole hierarchy.  A
// plugin itself holds no per-container data; it keeps that in the
// storage each container hands out (see Storage).
//
// Resolution calls InitialState once per plugin, then Reduce once per
// (plugin, ancestor) pair walking from the requesting container up to
// the root, then Postprocess once per plugin if nothing returned.  See
// Container.TryResolve for the exact ordering rules.
type Plugin interface {
	// Register claims reg for key on c.  Returning false lets the next
	// plugin try.  A plugin that claims a key it already holds on c
	// must fail with a DuplicateRegistrationError unless it supports
	// multiple registrations per key.
	Register(key Key, reg Registration, c *Container) (bool, error)

	// InitialState seeds this plugin's fold state for one resolution.
	InitialState(key Key, requesting *Container) any

	// Reduce examines one ancestor level.
	Reduce(key Key, state any, requesting, ancestor *Container) (Message, error)

	// Postprocess runs after the walk for defaulting behavior.  Only
	// Return and NotFound are meaningful here.
	Postprocess(key Key, state any, requesting *Container) (Message, error)

	// Registrations enumerates what this plugin stores on c.
	Registrations(c *Container) []Entry
}

// NamedPlugin may be implemented by plugins to give tooling a stable name.
type NamedPlugin interface {
	Name() string
}

// Entry is one (key, registration) pair reported by Plugin.Registrations.
type Entry struct {
	Key          Key
	Registration Registration
}

// Verdict is the outcome of a Reduce or Postprocess step.
type Verdict int

const (
	// VerdictNotFound: nothing here, let the next plugin at this level try.
	VerdictNotFound Verdict = iota
	// VerdictContinue: keep walking; no further plugins run at this level.
	VerdictContinue
	// VerdictReturn: stop everything and use the resolver.
	VerdictReturn
)

func (v Verdict) String() string {
	switch v {
	case VerdictNotFound:
		return "not-found"
	case VerdictContinue:
		return "continue"
	case VerdictReturn:
		return "return"
	default:
		return "unknown"
	}
}

// Message is the tagged result of a Reduce or Postprocess step.
type Message struct {
	Verdict  Verdict
	Resolver Resolver
	State    any
}

// Return ends resolution with r.
func Return(r Resolver) Message {
	return Message{Verdict: VerdictReturn, Resolver: r}
}

// Continue records state and moves the walk to the next ancestor.
func Continue(state any) Message {
	return Message{Verdict: VerdictContinue, State: state}
}

// NotFound records state and lets the next plugin at this level run.
func NotFound(state any) Message {
	return Message{Verdict: VerdictNotFound, State: state}
}

// Storage returns the plugin-private value p keeps on c, creating it
// with init on first use.  Storage is never shared between containers.
func Storage[T any](c *Container, p Plugin, init func() T) T {
	if v, ok := c.storage[p]; ok {
		return v.(T)
	}
	v := init()
	c.storage[p] = v
	return v
}

// keyedRegistry is the storage shape used by the exact-key plugins.  It
// remembers insertion order so enumeration is deterministic.
type keyedRegistry struct {
	order []Key
	regs  map[Key]Registration
}

func newKeyedRegistry() *keyedRegistry {
	return &keyedRegistry{regs: make(map[Key]Registration)}
}

func (r *keyedRegistry) add(key Key, reg Registration) {
	r.order = append(r.order, key)
	r.regs[key] = reg
}

func (r *keyedRegistry) entries() []Entry {
	out := make([]Entry, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, Entry{Key: k, Registration: r.regs[k]})
	}
	return out
}

// PluginName is what tooling and debugging show for p.
func PluginName(p Plugin) string {
	if n, ok := p.(NamedPlugin); ok {
		return n.Name()
	}
	return typeNameOf(p)
}
