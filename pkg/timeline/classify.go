package timeline

import "github.com/matzehuels/sankeytimeline/pkg/circuit"

// classify decides whether a freshly inserted link is circular and, if so,
// which side it is routed on. It sees the adjacency including the new link.
// Only links placed by balancing count towards the side totals.
func (t *Timeline) classify(l *Link) {
	l.Circular = l.SelfLoop() || t.closesCircuit(l.Source, l.Target)
	if !l.Circular {
		return
	}

	src, tgt := t.nodes[l.Source], t.nodes[l.Target]
	switch {
	case src.side != SideNone:
		l.Side = src.side
	case tgt.side != SideNone:
		l.Side = tgt.side
	case t.topCount < t.bottomCount:
		l.Side = SideTop
		t.topCount++
	default:
		l.Side = SideBottom
		t.bottomCount++
	}

	src.side, tgt.side = l.Side, l.Side
	src.circular++
	if tgt != src {
		tgt.circular++
	}
}

func (t *Timeline) closesCircuit(from, to int) bool {
	edges := make([][2]int, len(t.links))
	for i, l := range t.links {
		edges[i] = [2]int{l.Source, l.Target}
	}
	return circuit.Closes(circuit.Adjacency(len(t.nodes), edges), from, to)
}
