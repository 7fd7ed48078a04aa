// Package inspect reports what is registered in a container hierarchy.
package inspect

import (
	"github.com/google/uuid"

	"github.com/nickguletskii/grundzeug"
)

// Row is one registration as seen from the container a snapshot was
// taken from.  Depth 0 is that container, 1 its parent, and so on.
type Row struct {
	Container uuid.UUID `json:"container"`
	Depth     int       `json:"depth"`
	Plugin    string    `json:"plugin"`
	Key       string    `json:"key"`
	Lifecycle string    `json:"lifecycle"`
}

// Snapshot lists the registrations of every plugin on c and each of its
// ancestors, nearest container first and in plugin order within a
// container.
func Snapshot(c *grundzeug.Container) []Row {
	rows := []Row{}
	plugins := c.Plugins()
	depth := 0
	for cur := c; cur != nil; cur = cur.Parent() {
		for _, p := range plugins {
			for _, e := range p.Registrations(cur) {
				rows = append(rows, Row{
					Container: cur.ID(),
					Depth:     depth,
					Plugin:    grundzeug.PluginName(p),
					Key:       e.Key.String(),
					Lifecycle: e.Registration.Lifecycle().String(),
				})
			}
		}
		depth++
	}
	return rows
}

// Node is a container and its live children.
type Node struct {
	ID            uuid.UUID `json:"id"`
	Registrations int       `json:"registrations"`
	Children      []Node    `json:"children,omitempty"`
}

// Tree describes the whole hierarchy c belongs to, starting at its root.
func Tree(c *grundzeug.Container) Node {
	return node(c.Root(), c.Plugins())
}

func node(c *grundzeug.Container, plugins []grundzeug.Plugin) Node {
	n := Node{ID: c.ID()}
	for _, p := range plugins {
		n.Registrations += len(p.Registrations(c))
	}
	for _, child := range c.Children() {
		n.Children = append(n.Children, node(child, plugins))
	}
	return n
}
