// Package graph searches directed graphs that are given by an edge function.
// The nodes of a graph are discovered while it is searched.
package graph

// Graph is a directed graph over comparable nodes. The successors of a node
// are computed once and then remembered.
type Graph[T comparable] struct {
	edgesOf func(T) []T
	known   map[T][]T
}

func New[T comparable](edgesOf func(T) []T) Graph[T] {
	return Graph[T]{edgesOf: edgesOf, known: make(map[T][]T)}
}

func (G Graph[T]) Edges(node T) []T {
	es, ok := G.known[node]
	if !ok {
		es = G.edgesOf(node)
		G.known[node] = es
	}
	return es
}
