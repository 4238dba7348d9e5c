package graph

// SCCDecomposition splits the part of a graph reachable from a set of start
// nodes into strongly connected components. Components are numbered in
// reverse topological order: an edge from component i leads to a component j <= i.
type SCCDecomposition[T comparable] struct {
	Components [][]T
	of         map[T]int
	graph      Graph[T]
}

// ComponentOf returns the index of the component of a node, or -1 for nodes
// outside the decomposed part of the graph.
func (scc SCCDecomposition[T]) ComponentOf(node T) int {
	if i, ok := scc.of[node]; ok {
		return i
	}
	return -1
}

// IsCyclic holds if the component has more than one node, or a self-loop.
func (scc SCCDecomposition[T]) IsCyclic(i int) bool {
	comp := scc.Components[i]
	if len(comp) > 1 {
		return true
	}
	for _, e := range scc.graph.Edges(comp[0]) {
		if e == comp[0] {
			return true
		}
	}
	return false
}

// SCC decomposes the subgraph reachable from the start nodes with Tarjan's algorithm.
func (G Graph[T]) SCC(starts []T) SCCDecomposition[T] {
	res := SCCDecomposition[T]{of: make(map[T]int), graph: G}

	discovered := make(map[T]int)
	low := make(map[T]int)
	onStack := make(map[T]bool)
	var stack []T

	var visit func(T)
	visit = func(v T) {
		discovered[v] = len(discovered)
		low[v] = discovered[v]
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range G.Edges(v) {
			if _, seen := discovered[w]; !seen {
				visit(w)
				if low[w] < low[v] {
					low[v] = low[w]
				}
			} else if onStack[w] && discovered[w] < low[v] {
				low[v] = discovered[w]
			}
		}
		if low[v] != discovered[v] {
			return
		}

		var comp []T
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			res.of[w] = len(res.Components)
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		res.Components = append(res.Components, comp)
	}

	for _, s := range starts {
		if _, seen := discovered[s]; !seen {
			visit(s)
		}
	}
	return res
}
