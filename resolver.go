package grundzeug

// Resolver is a lazy handle returned by a plugin.  The container calls
// Get to obtain the bean and, when Cacheable is true, keeps the resolver
// (not the bean) in its cache so that later hits call Get again.
type Resolver interface {
	Get() (any, error)
	Cacheable() bool
}

// ValueResolver always yields the same precomputed value.  It is
// cacheable unless NoCache is set.
type ValueResolver struct {
	Value   any
	NoCache bool
}

// NewValueResolver returns a cacheable resolver for v.
func NewValueResolver(v any) *ValueResolver {
	return &ValueResolver{Value: v}
}

func (r *ValueResolver) Get() (any, error) { return r.Value, nil }
func (r *ValueResolver) Cacheable() bool   { return !r.NoCache }

// RegistrationResolver calls a registration through the container that
// originally asked for it.  Caching this resolver does not freeze the
// bean: a Transient registration still runs its factory on every Get.
type RegistrationResolver struct {
	Registration Registration
	Requesting   *Container
}

func (r *RegistrationResolver) Get() (any, error) {
	return r.Registration.Produce(r.Requesting)
}

func (r *RegistrationResolver) Cacheable() bool { return true }

// BeanList is the value produced for a ListContract.  Beans registered
// on the requesting container come first, then its parent's, and so on.
type BeanList []any

// ListResolver aggregates other resolvers into a BeanList.
type ListResolver struct {
	Elements []Resolver
}

func (r *ListResolver) Get() (any, error) {
	out := make(BeanList, 0, len(r.Elements))
	for _, e := range r.Elements {
		v, err := e.Get()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Cacheable is true only if every element is cacheable.
func (r *ListResolver) Cacheable() bool {
	for _, e := range r.Elements {
		if !e.Cacheable() {
			return false
		}
	}
	return true
}
