package grundzeug

// AmbiguityStrategy supplies the contract-specific decisions of an
// AmbiguousPlugin.
type AmbiguityStrategy interface {
	// Supports filters the keys the plugin governs.
	Supports(key Key) bool
	// Compatible reports whether a registration made under registered
	// may serve a request for requested.
	Compatible(requested, registered Key) bool
	// Choose picks one of the candidates, which are ordered nearest
	// container first.  A nil result means not found.
	Choose(requested Key, candidates []Candidate) (*Candidate, error)
}

// Candidate is a compatible registration collected during the walk.
type Candidate struct {
	Key          Key
	Registration Registration
	Requesting   *Container
}

// AmbiguousPlugin is the reusable half of plugins that match by
// compatibility instead of key equality: it collects every compatible
// registration across the whole chain and lets the strategy pick the
// most specific one once the walk is over.
type AmbiguousPlugin struct {
	Strategy AmbiguityStrategy
	name     string
}

var _ Plugin = &AmbiguousPlugin{}

// NewAmbiguousPlugin wraps strategy.  The name is used by tooling.
func NewAmbiguousPlugin(name string, strategy AmbiguityStrategy) *AmbiguousPlugin {
	return &AmbiguousPlugin{Strategy: strategy, name: name}
}

func (p *AmbiguousPlugin) Name() string { return p.name }

type candidateState struct {
	order []Key
	found map[Key]Candidate
}

func (p *AmbiguousPlugin) registry(c *Container) *keyedRegistry {
	return Storage(c, p, newKeyedRegistry)
}

func (p *AmbiguousPlugin) Register(key Key, reg Registration, c *Container) (bool, error) {
	if !p.Strategy.Supports(key) {
		return false, nil
	}
	r := p.registry(c)
	if _, ok := r.regs[key]; ok {
		return false, &DuplicateRegistrationError{Key: key, Container: c.ID()}
	}
	r.add(key, reg)
	return true, nil
}

func (p *AmbiguousPlugin) InitialState(Key, *Container) any {
	return &candidateState{found: make(map[Key]Candidate)}
}

// Reduce never short-circuits, so every level is scanned exactly once.
// A key already collected from a nearer container shadows the same key
// further up.
func (p *AmbiguousPlugin) Reduce(key Key, state any, requesting, ancestor *Container) (Message, error) {
	if !p.Strategy.Supports(key) {
		return NotFound(state), nil
	}
	s := state.(*candidateState)
	r := p.registry(ancestor)
	for _, k := range r.order {
		if _, shadowed := s.found[k]; shadowed {
			continue
		}
		if !p.Strategy.Compatible(key, k) {
			continue
		}
		s.order = append(s.order, k)
		s.found[k] = Candidate{Key: k, Registration: r.regs[k], Requesting: requesting}
	}
	return Continue(s), nil
}

func (p *AmbiguousPlugin) Postprocess(key Key, state any, _ *Container) (Message, error) {
	if !p.Strategy.Supports(key) {
		return NotFound(nil), nil
	}
	s := state.(*candidateState)
	if len(s.order) == 0 {
		return NotFound(nil), nil
	}
	candidates := make([]Candidate, len(s.order))
	for i, k := range s.order {
		candidates[i] = s.found[k]
	}
	best, err := p.Strategy.Choose(key, candidates)
	if err != nil {
		return Message{}, err
	}
	if best == nil {
		return NotFound(nil), nil
	}
	return Return(&RegistrationResolver{Registration: best.Registration, Requesting: best.Requesting}), nil
}

func (p *AmbiguousPlugin) Registrations(c *Container) []Entry {
	return p.registry(c).entries()
}

// EliminateDominated drops every candidate for which dominates(other,
// candidate) holds for some other surviving candidate, and returns the
// single survivor.  Zero survivors is not found; more than one is an
// AmbiguousResolutionError.  Candidates already dominated neither
// dominate others nor are examined again, so two candidates that
// dominate each other leave the earlier one standing.
func EliminateDominated(requested Key, candidates []Candidate, dominates func(a, b Candidate) bool) (*Candidate, error) {
	dominated := make([]bool, len(candidates))
	for i := range candidates {
		if dominated[i] {
			continue
		}
		for j := range candidates {
			if i == j || dominated[j] {
				continue
			}
			if dominates(candidates[i], candidates[j]) {
				dominated[j] = true
			}
		}
	}
	var survivors []int
	for i, d := range dominated {
		if !d {
			survivors = append(survivors, i)
		}
	}
	switch len(survivors) {
	case 0:
		return nil, nil
	case 1:
		return &candidates[survivors[0]], nil
	default:
		keys := make([]Key, len(survivors))
		for i, s := range survivors {
			keys[i] = candidates[s].Key
		}
		return nil, &AmbiguousResolutionError{Key: requested, Candidates: keys}
	}
}
