package config

import "strings"

// Path is an absolute or relative configuration key, one segment per
// level of nesting: Path{"foo", "bar", "baz"} is foo.bar.baz.
type Path []string

// ParsePath splits a dotted path.  Empty segments are dropped, so ""
// is the empty path.
func ParsePath(s string) Path {
	var p Path
	for _, seg := range strings.Split(s, ".") {
		if seg != "" {
			p = append(p, seg)
		}
	}
	return p
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

// Join returns a new path with rel appended to p.
func (p Path) Join(rel Path) Path {
	out := make(Path, 0, len(p)+len(rel))
	out = append(out, p...)
	return append(out, rel...)
}

// Equal compares segment by segment.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// key is the map key used while collecting values.  Segments may
// contain dots (YAML allows that) so the separator is a control
// character.
func (p Path) key() string {
	return strings.Join(p, "\x1f")
}
