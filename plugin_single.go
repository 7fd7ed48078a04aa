package grundzeug

// SingleValuePlugin stores at most one registration per key per
// container.  A registration on a nearer container shadows the same key
// on every ancestor.
type SingleValuePlugin struct {
	_ byte // instances are storage keys and need distinct addresses
}

var _ Plugin = &SingleValuePlugin{}

func (p *SingleValuePlugin) Name() string { return "single-value" }

func (p *SingleValuePlugin) registry(c *Container) *keyedRegistry {
	return Storage(c, p, newKeyedRegistry)
}

func (p *SingleValuePlugin) Register(key Key, reg Registration, c *Container) (bool, error) {
	r := p.registry(c)
	if _, ok := r.regs[key]; ok {
		return false, &DuplicateRegistrationError{Key: key, Container: c.ID()}
	}
	r.add(key, reg)
	return true, nil
}

func (p *SingleValuePlugin) InitialState(Key, *Container) any { return nil }

func (p *SingleValuePlugin) Reduce(key Key, state any, requesting, ancestor *Container) (Message, error) {
	if reg, ok := p.registry(ancestor).regs[key]; ok {
		return Return(&RegistrationResolver{Registration: reg, Requesting: requesting}), nil
	}
	return NotFound(nil), nil
}

func (p *SingleValuePlugin) Postprocess(Key, any, *Container) (Message, error) {
	return NotFound(nil), nil
}

func (p *SingleValuePlugin) Registrations(c *Container) []Entry {
	return p.registry(c).entries()
}
