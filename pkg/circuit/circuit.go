package circuit

import "sort"

// Circuit is a closed walk [s, v1, ..., vk, s] where s is the least vertex.
type Circuit []int

// ClosingEdge returns the last step of the circuit.
func (c Circuit) ClosingEdge() (from, to int) {
	return c[len(c)-2], c[len(c)-1]
}

// Adjacency builds a deduplicated adjacency list over n vertices from a list
// of directed edges. Parallel edges collapse into one; neighbor lists are
// sorted so enumeration order is deterministic. Edges that reference vertices
// outside [0, n) are ignored.
func Adjacency(n int, edges [][2]int) [][]int {
	adj := make([][]int, n)
	seen := make(map[[2]int]bool, len(edges))
	for _, e := range edges {
		if e[0] < 0 || e[0] >= n || e[1] < 0 || e[1] >= n || seen[e] {
			continue
		}
		seen[e] = true
		adj[e[0]] = append(adj[e[0]], e[1])
	}
	for _, nbrs := range adj {
		sort.Ints(nbrs)
	}
	return adj
}

// Elementary returns all elementary circuits of the graph, self-loops
// included. Circuits are grouped by least vertex in ascending order.
func Elementary(adj [][]int) []Circuit {
	n := len(adj)
	j := &johnson{
		adj:     adj,
		blocked: make([]bool, n),
		blockOf: make([]map[int]bool, n),
		member:  make([]bool, n),
	}
	for i := range j.blockOf {
		j.blockOf[i] = make(map[int]bool)
	}

	for s := 0; s < n; s++ {
		comp := leastComponent(adj, s)
		if comp == nil {
			break
		}
		s = comp[0]
		for i := range j.member {
			j.member[i] = false
		}
		for _, v := range comp {
			j.member[v] = true
			j.blocked[v] = false
			clear(j.blockOf[v])
		}
		j.start = s
		j.circuit(s)
	}
	return j.out
}

// Closes reports whether the edge from -> to is the closing edge of some
// elementary circuit of adj. It agrees with scanning [Elementary] output but
// only needs one reachability search: the edge closes a circuit iff it is a
// self-loop, or to < from and from is reachable from to through vertices no
// smaller than to.
func Closes(adj [][]int, from, to int) bool {
	if from == to {
		return true
	}
	if to > from {
		return false
	}
	seen := make([]bool, len(adj))
	stack := []int{to}
	seen[to] = true
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if v == from {
			return true
		}
		for _, w := range adj[v] {
			if w >= to && !seen[w] {
				seen[w] = true
				stack = append(stack, w)
			}
		}
	}
	return false
}

type johnson struct {
	adj     [][]int
	start   int
	stack   []int
	blocked []bool
	blockOf []map[int]bool
	member  []bool
	out     []Circuit
}

func (j *johnson) circuit(v int) bool {
	found := false
	j.stack = append(j.stack, v)
	j.blocked[v] = true

	for _, w := range j.adj[v] {
		if !j.member[w] {
			continue
		}
		if w == j.start {
			c := make(Circuit, len(j.stack)+1)
			copy(c, j.stack)
			c[len(c)-1] = j.start
			j.out = append(j.out, c)
			found = true
		} else if !j.blocked[w] && j.circuit(w) {
			found = true
		}
	}

	if found {
		j.unblock(v)
	} else {
		for _, w := range j.adj[v] {
			if j.member[w] {
				j.blockOf[w][v] = true
			}
		}
	}
	j.stack = j.stack[:len(j.stack)-1]
	return found
}

func (j *johnson) unblock(u int) {
	j.blocked[u] = false
	for w := range j.blockOf[u] {
		delete(j.blockOf[u], w)
		if j.blocked[w] {
			j.unblock(w)
		}
	}
}
