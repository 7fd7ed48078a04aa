package grundzeug

// BeanListPlugin handles ListContract keys.  Any number of beans may be
// registered for the same list key on the same container.  Resolving the
// key yields every bean registered on the requesting container and all
// of its ancestors, nearest container first and registration order
// within a container.
type BeanListPlugin struct {
	_ byte // instances are storage keys and need distinct addresses
}

var _ Plugin = &BeanListPlugin{}

type listRegistry struct {
	order []Key
	regs  map[Key][]Registration
}

func (p *BeanListPlugin) Name() string { return "bean-list" }

func (p *BeanListPlugin) registry(c *Container) *listRegistry {
	return Storage(c, p, func() *listRegistry {
		return &listRegistry{regs: make(map[Key][]Registration)}
	})
}

func (p *BeanListPlugin) Register(key Key, reg Registration, c *Container) (bool, error) {
	if key.kind() != KindList {
		return false, nil
	}
	r := p.registry(c)
	if _, ok := r.regs[key]; !ok {
		r.order = append(r.order, key)
	}
	r.regs[key] = append(r.regs[key], reg)
	return true, nil
}

func (p *BeanListPlugin) InitialState(Key, *Container) any {
	return []Resolver(nil)
}

func (p *BeanListPlugin) Reduce(key Key, state any, requesting, ancestor *Container) (Message, error) {
	if key.kind() != KindList {
		return NotFound(state), nil
	}
	collected := state.([]Resolver)
	for _, reg := range p.registry(ancestor).regs[key] {
		collected = append(collected, &RegistrationResolver{Registration: reg, Requesting: requesting})
	}
	return Continue(collected), nil
}

func (p *BeanListPlugin) Postprocess(key Key, state any, _ *Container) (Message, error) {
	if key.kind() != KindList {
		return NotFound(state), nil
	}
	return Return(&ListResolver{Elements: state.([]Resolver)}), nil
}

func (p *BeanListPlugin) Registrations(c *Container) []Entry {
	r := p.registry(c)
	var out []Entry
	for _, k := range r.order {
		for _, reg := range r.regs[k] {
			out = append(out, Entry{Key: k, Registration: reg})
		}
	}
	return out
}
