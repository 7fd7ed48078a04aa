package grundzeug

// SpecialPlugin resolves beans that describe the container itself
// rather than anything registered in it.  Today that is the Injector
// bound to the requesting container.  Nothing can be registered with it.
type SpecialPlugin struct {
	_ byte // instances are storage keys and need distinct addresses
}

var _ Plugin = &SpecialPlugin{}

var injectorKey = KeyOf(Of[Injector]())

func (p *SpecialPlugin) Name() string { return "special" }

func (p *SpecialPlugin) Register(Key, Registration, *Container) (bool, error) {
	return false, nil
}

func (p *SpecialPlugin) InitialState(Key, *Container) any { return nil }

func (p *SpecialPlugin) Reduce(key Key, state any, requesting, _ *Container) (Message, error) {
	if key == injectorKey {
		return Return(NewValueResolver(requesting.Injector())), nil
	}
	return NotFound(nil), nil
}

func (p *SpecialPlugin) Postprocess(Key, any, *Container) (Message, error) {
	return NotFound(nil), nil
}

func (p *SpecialPlugin) Registrations(*Container) []Entry { return nil }
