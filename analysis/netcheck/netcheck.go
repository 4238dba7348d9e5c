package netcheck

/*
	Package netcheck performs structural checks on translated nets. The checks
	only inspect the graph of the net and never play the token game.
*/

import (
	"fmt"
	"sort"

	"github.com/cs-au-dk/petrify/petrinet"
	"github.com/cs-au-dk/petrify/utils/graph"

	uf "github.com/spakin/disjoint"
)

// WellFormed reports every transition without input or output arcs and every
// arc without a positive weight.
func WellFormed(net *petrinet.Net) (issues []error) {
	for _, t := range net.Transitions() {
		if len(net.Preset(t)) == 0 {
			issues = append(issues, fmt.Errorf("transition %s has no input arc", t))
		}
		if len(net.Postset(t)) == 0 {
			issues = append(issues, fmt.Errorf("transition %s has no output arc", t))
		}
	}
	for _, a := range net.Arcs() {
		if a.Weight <= 0 {
			issues = append(issues, fmt.Errorf("arc %s has weight %d", a, a.Weight))
		}
	}
	return
}

// flow is the graph of the net over node labels: places lead to the
// transitions consuming from them, transitions to the places they produce into.
func flow(net *petrinet.Net) graph.Graph[string] {
	return graph.New(func(label string) (res []string) {
		if p, ok := net.Place(label); ok {
			for _, t := range net.Consumers(p) {
				res = append(res, t.Label())
			}
			return
		}
		if t, ok := net.Transition(label); ok {
			for _, a := range net.Postset(t) {
				res = append(res, a.Target)
			}
		}
		return
	})
}

// Unreachable returns the places that no path in the net leads to from an
// initially marked place. Such places are never marked.
func Unreachable(net *petrinet.Net) (res []*petrinet.Place) {
	var starts []string
	for _, p := range net.Marked() {
		starts = append(starts, p.Label())
	}

	reached := flow(net).Reachable(starts...)

	for _, p := range net.Places() {
		if !reached[p.Label()] {
			res = append(res, p)
		}
	}
	return
}

// Cycles returns the labels of the nodes of every cycle of the net, one
// strongly connected component per entry. Every cycle of a translated net
// stems from a loop of the program.
func Cycles(net *petrinet.Net) (res [][]string) {
	var nodes []string
	for _, p := range net.Places() {
		nodes = append(nodes, p.Label())
	}

	scc := flow(net).SCC(nodes)
	for i, comp := range scc.Components {
		if !scc.IsCyclic(i) {
			continue
		}
		comp = append([]string{}, comp...)
		sort.Strings(comp)
		res = append(res, comp)
	}
	sort.Slice(res, func(i, j int) bool { return res[i][0] < res[j][0] })
	return
}

// Components partitions the nodes of the net into weakly connected
// components. Components are sorted by their smallest label.
func Components(net *petrinet.Net) [][]string {
	elems := make(map[string]*uf.Element)
	element := func(label string) *uf.Element {
		el, ok := elems[label]
		if !ok {
			el = uf.NewElement()
			el.Data = label
			elems[label] = el
		}
		return el
	}

	for _, p := range net.Places() {
		element(p.Label())
	}
	for _, t := range net.Transitions() {
		element(t.Label())
	}
	for _, a := range net.Arcs() {
		uf.Union(element(a.Source), element(a.Target))
	}

	sets := make(map[*uf.Element][]string)
	for label, el := range elems {
		rep := el.Find()
		sets[rep] = append(sets[rep], label)
	}

	res := make([][]string, 0, len(sets))
	for _, set := range sets {
		sort.Strings(set)
		res = append(res, set)
	}
	sort.Slice(res, func(i, j int) bool { return res[i][0] < res[j][0] })
	return res
}

// Stats summarizes the size of a net.
type Stats struct {
	Places      int
	Transitions int
	Arcs        int
	Tokens      int
	Components  int
	Cycles      int
	Unreachable int
}

func Collect(net *petrinet.Net) (s Stats) {
	s.Places = net.NumPlaces()
	s.Transitions = net.NumTransitions()
	s.Arcs = net.NumArcs()
	for _, p := range net.Marked() {
		s.Tokens += net.Marking(p)
	}
	s.Components = len(Components(net))
	s.Cycles = len(Cycles(net))
	s.Unreachable = len(Unreachable(net))
	return
}

func (s Stats) String() string {
	return fmt.Sprintf("%d places, %d transitions, %d arcs, %d tokens, %d components, %d cycles, %d unreachable places",
		s.Places, s.Transitions, s.Arcs, s.Tokens, s.Components, s.Cycles, s.Unreachable)
}
