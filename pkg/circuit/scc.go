package circuit

import "sort"

// leastComponent finds the strongly connected components of the subgraph
// induced by vertices >= s and returns the one holding the least vertex among
// components that can carry a circuit (more than one vertex, or a self-loop).
// The returned slice is sorted, so comp[0] is that least vertex. It returns
// nil when no such component exists.
func leastComponent(adj [][]int, s int) []int {
	t := &tarjan{
		adj:     adj,
		lo:      s,
		index:   make([]int, len(adj)),
		low:     make([]int, len(adj)),
		onStack: make([]bool, len(adj)),
	}
	for i := range t.index {
		t.index[i] = -1
	}
	for v := s; v < len(adj); v++ {
		if t.index[v] < 0 {
			t.connect(v)
		}
	}

	var best []int
	for _, comp := range t.comps {
		if len(comp) == 1 && !hasSelfLoop(adj, comp[0]) {
			continue
		}
		sort.Ints(comp)
		if best == nil || comp[0] < best[0] {
			best = comp
		}
	}
	return best
}

func hasSelfLoop(adj [][]int, v int) bool {
	for _, w := range adj[v] {
		if w == v {
			return true
		}
	}
	return false
}

type tarjan struct {
	adj     [][]int
	lo      int
	next    int
	index   []int
	low     []int
	onStack []bool
	stack   []int
	comps   [][]int
}

func (t *tarjan) connect(v int) {
	t.index[v] = t.next
	t.low[v] = t.next
	t.next++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.adj[v] {
		if w < t.lo {
			continue
		}
		if t.index[w] < 0 {
			t.connect(w)
			t.low[v] = min(t.low[v], t.low[w])
		} else if t.onStack[w] {
			t.low[v] = min(t.low[v], t.index[w])
		}
	}

	if t.low[v] == t.index[v] {
		var comp []int
		for {
			w := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[w] = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		t.comps = append(t.comps, comp)
	}
}
