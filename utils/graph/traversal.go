package graph

import W "github.com/cs-au-dk/petrify/utils/worklist"

// BFS visits every node reachable from the start nodes once, in breadth-first
// order. The search stops when visit returns true, in which case BFS does too.
func (G Graph[T]) BFS(visit func(T) bool, starts ...T) bool {
	seen := make(map[T]bool)
	var queue []T
	for _, s := range starts {
		if !seen[s] {
			seen[s] = true
			queue = append(queue, s)
		}
	}

	stopped := false
	W.StartV(queue, func(node T, add func(T)) {
		if stopped {
			return
		}
		if stopped = visit(node); stopped {
			return
		}
		for _, next := range G.Edges(node) {
			if !seen[next] {
				seen[next] = true
				add(next)
			}
		}
	})
	return stopped
}

// Reachable returns the nodes reachable from the start nodes, including them.
func (G Graph[T]) Reachable(starts ...T) map[T]bool {
	res := make(map[T]bool)
	G.BFS(func(node T) bool {
		res[node] = true
		return false
	}, starts...)
	return res
}
