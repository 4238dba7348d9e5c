package graph

import (
	"reflect"
	"testing"
)

var edges = map[int][]int{
	0:  {1, 8},
	1:  {4, 5, 2},
	2:  {6, 3, 9},
	3:  {2, 7},
	4:  {0, 5},
	5:  {6},
	6:  {5},
	7:  {3, 6},
	8:  {},
	9:  {10, 11},
	10: {12, 13},
	11: {12, 13},
	12: {},
	13: {},
}
var _sampleGraph = New(func(i int) []int {
	return edges[i]
})

func TestBFSOrder(t *testing.T) {
	var order []int
	if _sampleGraph.BFS(func(i int) bool {
		order = append(order, i)
		return false
	}, 0) {
		t.Error("search should not stop early")
	}

	exp := []int{0, 1, 8, 4, 5, 2, 6, 3, 9, 7, 10, 11, 12, 13}
	if !reflect.DeepEqual(order, exp) {
		t.Errorf("expected %v, got %v", exp, order)
	}
}

func TestBFSStop(t *testing.T) {
	visited := 0
	stopped := _sampleGraph.BFS(func(i int) bool {
		visited++
		return i == 3
	}, 9, 2)
	if !stopped {
		t.Fatal("expected the search to stop at 3")
	}
	// 9, 2, 10, 11, 6, 3
	if visited != 6 {
		t.Errorf("expected 6 visited nodes, got %d", visited)
	}
}

func TestReachable(t *testing.T) {
	reached := _sampleGraph.Reachable(9, 3)
	exp := map[int]bool{9: true, 10: true, 11: true, 12: true, 13: true, 3: true, 2: true, 7: true, 6: true, 5: true}
	if !reflect.DeepEqual(reached, exp) {
		t.Errorf("expected %v, got %v", exp, reached)
	}
	if len(_sampleGraph.Reachable()) != 0 {
		t.Error("nothing is reachable without start nodes")
	}
}

func TestSelfLoop(t *testing.T) {
	G := New(func(i int) []int {
		if i == 0 {
			return []int{0, 1}
		}
		return nil
	})
	scc := G.SCC([]int{0})
	if !scc.IsCyclic(scc.ComponentOf(0)) {
		t.Error("a self-loop is a cycle")
	}
	if scc.IsCyclic(scc.ComponentOf(1)) {
		t.Error("1 is not on a cycle")
	}
}

func TestSCC(t *testing.T) {
	scc := _sampleGraph.SCC([]int{0})

	same := [][]int{{0, 1, 4}, {2, 3, 7}, {5, 6}}
	for _, group := range same {
		c := scc.ComponentOf(group[0])
		for _, n := range group[1:] {
			if scc.ComponentOf(n) != c {
				t.Errorf("%d and %d should share a component", group[0], n)
			}
		}
		if !scc.IsCyclic(c) {
			t.Errorf("component of %d should be cyclic", group[0])
		}
	}

	for _, n := range []int{8, 9, 12} {
		if scc.IsCyclic(scc.ComponentOf(n)) {
			t.Errorf("component of %d should not be cyclic", n)
		}
	}

	if len(scc.Components) != 9 {
		t.Errorf("expected 9 components, got %d", len(scc.Components))
	}

	for n, es := range edges {
		for _, e := range es {
			if scc.ComponentOf(e) > scc.ComponentOf(n) {
				t.Errorf("edge %d -> %d goes to a later component", n, e)
			}
		}
	}
}

func TestSCCUnreached(t *testing.T) {
	scc := _sampleGraph.SCC([]int{9})
	if c := scc.ComponentOf(0); c != -1 {
		t.Errorf("0 is not reachable from 9, but was assigned component %d", c)
	}
}
