package timeline

import "fmt"

// Ref identifies a link endpoint. It is implemented by *[Node], [NodeID] and
// [Label].
type Ref interface {
	resolve(t *Timeline) (int, bool)
}

// NodeID refers to a node by id.
type NodeID int

// Label refers to the first node created with the label.
type Label string

func (id NodeID) resolve(t *Timeline) (int, bool) {
	_, ok := t.Node(int(id))
	return int(id), ok
}

func (l Label) resolve(t *Timeline) (int, bool) {
	id, ok := t.byLabel[string(l)]
	return id, ok
}

// A *Node resolves by id, so it must belong to the same timeline.
func (n *Node) resolve(t *Timeline) (int, bool) {
	if n == nil {
		return 0, false
	}
	got, ok := t.Node(n.ID)
	return n.ID, ok && got == n
}

func describe(r Ref) string {
	switch v := r.(type) {
	case NodeID:
		return fmt.Sprintf("id %d", int(v))
	case Label:
		return fmt.Sprintf("label %q", string(v))
	case *Node:
		if v == nil {
			return "<nil node>"
		}
		return fmt.Sprintf("node %d (%q)", v.ID, v.Label)
	default:
		return fmt.Sprintf("%v", r)
	}
}
