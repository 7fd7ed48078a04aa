package grundzeug

import "fmt"

func (c *Container) debugEnabled() bool {
	return c.h.debugf != nil
}

func (c *Container) debugf(format string, args ...any) {
	if c.h.debugf == nil {
		return
	}
	c.h.debugf(format, args...)
}

// shortID is enough of a container ID to tell containers apart in traces.
func (c *Container) shortID() string {
	return c.id.String()[:8]
}

func describeMessage(m Message) string {
	if m.Verdict == VerdictReturn && m.Resolver != nil {
		return fmt.Sprintf("%s (%T, cacheable=%t)", m.Verdict, m.Resolver, m.Resolver.Cacheable())
	}
	return m.Verdict.String()
}
