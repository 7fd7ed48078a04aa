package grundzeug

import (
	"sort"
	"weak"

	"github.com/google/uuid"
)

// arena tracks every container of one hierarchy by ID.  It is how
// parents find their children and how per-container memo entries are
// released, without anything here keeping a container alive: entries
// hold weak pointers, and state that belongs to a container is dropped
// through release hooks when that container is closed.
type arena struct {
	entries map[uuid.UUID]*arenaEntry
	seq     uint64
}

type arenaEntry struct {
	ref     weak.Pointer[Container]
	parent  uuid.UUID
	seq     uint64
	release []func()
}

func newArena() *arena {
	return &arena{entries: make(map[uuid.UUID]*arenaEntry)}
}

func (a *arena) add(c *Container) {
	a.sweep()
	a.seq++
	var parent uuid.UUID
	if c.parent != nil {
		parent = c.parent.id
	}
	a.entries[c.id] = &arenaEntry{
		ref:    weak.Make(c),
		parent: parent,
		seq:    a.seq,
	}
}

// onRelease registers fn to run when id is freed.  It returns false if
// id is not (or no longer) live, in which case fn is not kept.
func (a *arena) onRelease(id uuid.UUID, fn func()) bool {
	e, ok := a.entries[id]
	if !ok {
		return false
	}
	e.release = append(e.release, fn)
	return true
}

func (a *arena) free(id uuid.UUID) {
	e, ok := a.entries[id]
	if !ok {
		return
	}
	delete(a.entries, id)
	for _, fn := range e.release {
		fn()
	}
}

// sweep frees entries whose container was garbage collected without
// being closed.
func (a *arena) sweep() {
	for id, e := range a.entries {
		if e.ref.Value() == nil {
			a.free(id)
		}
	}
}

func (a *arena) live(id uuid.UUID) bool {
	_, ok := a.entries[id]
	return ok
}

// children returns the live children of id in creation order.
func (a *arena) children(id uuid.UUID) []*Container {
	type found struct {
		seq uint64
		c   *Container
	}
	var list []found
	for _, e := range a.entries {
		if e.parent != id {
			continue
		}
		if c := e.ref.Value(); c != nil {
			list = append(list, found{seq: e.seq, c: c})
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].seq < list[j].seq })
	out := make([]*Container, len(list))
	for i, f := range list {
		out[i] = f.c
	}
	return out
}
