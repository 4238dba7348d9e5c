package testutil

import (
	"fmt"
	"strings"

	"github.com/cs-au-dk/petrify/petrinet"
	W "github.com/cs-au-dk/petrify/utils/worklist"
)

// Marking assigns a token count to every place of a net, in the order of net.Places().
type Marking []int

func (m Marking) key() string {
	return fmt.Sprint([]int(m))
}

// StateSpace is the set of markings reachable from the initial marking of a
// net, explored up to a bound on the number of markings.
type StateSpace struct {
	net    *petrinet.Net
	index  map[string]int
	states []Marking
	// Dead markings enable no transition.
	dead []Marking
	// Complete is false if exploration stopped at the bound.
	Complete bool
}

type step struct {
	pre, post []int
}

// Explore plays the token game on the net until every reachable marking has
// been visited or limit markings have been found.
func Explore(net *petrinet.Net, limit int) *StateSpace {
	places := net.Places()
	index := make(map[string]int, len(places))
	initial := make(Marking, len(places))
	for i, p := range places {
		index[p.Label()] = i
		initial[i] = net.Marking(p)
	}

	steps := make([]step, 0, net.NumTransitions())
	for _, t := range net.Transitions() {
		s := step{make([]int, len(places)), make([]int, len(places))}
		for _, a := range net.Preset(t) {
			s.pre[index[a.Source]] += a.Weight
		}
		for _, a := range net.Postset(t) {
			s.post[index[a.Target]] += a.Weight
		}
		steps = append(steps, s)
	}

	ss := &StateSpace{net: net, index: index, Complete: true}
	visited := map[string]bool{initial.key(): true}
	W.Start(initial, func(m Marking, add func(Marking)) {
		ss.states = append(ss.states, m)

		enabled := false
		for _, s := range steps {
			next, ok := fire(m, s)
			if !ok {
				continue
			}
			enabled = true
			if k := next.key(); !visited[k] {
				if len(visited) >= limit {
					ss.Complete = false
					continue
				}
				visited[k] = true
				add(next)
			}
		}
		if !enabled {
			ss.dead = append(ss.dead, m)
		}
	})
	return ss
}

func fire(m Marking, s step) (Marking, bool) {
	next := make(Marking, len(m))
	for i := range m {
		if m[i] < s.pre[i] {
			return nil, false
		}
		next[i] = m[i] - s.pre[i] + s.post[i]
	}
	return next, true
}

// Len returns the number of explored markings.
func (ss *StateSpace) Len() int { return len(ss.states) }

// Tokens returns the number of tokens of a place in a marking.
func (ss *StateSpace) Tokens(m Marking, place string) int {
	i, ok := ss.index[place]
	if !ok {
		panic(fmt.Errorf("no place %s", place))
	}
	return m[i]
}

// Reachable holds if some explored marking satisfies the predicate.
func (ss *StateSpace) Reachable(pred func(Marking) bool) bool {
	for _, m := range ss.states {
		if pred(m) {
			return true
		}
	}
	return false
}

// Marks holds if some explored marking puts a token in the place.
func (ss *StateSpace) Marks(place string) bool {
	return ss.Reachable(func(m Marking) bool { return ss.Tokens(m, place) > 0 })
}

// Bound returns the largest number of tokens of a place in any explored marking.
func (ss *StateSpace) Bound(place string) (res int) {
	for _, m := range ss.states {
		if n := ss.Tokens(m, place); n > res {
			res = n
		}
	}
	return
}

// Dead returns the explored markings that enable no transition.
func (ss *StateSpace) Dead() []Marking { return ss.dead }

// Format prints the marked places of a marking.
func (ss *StateSpace) Format(m Marking) string {
	var strs []string
	for _, p := range ss.net.Places() {
		if n := m[ss.index[p.Label()]]; n > 0 {
			strs = append(strs, fmt.Sprintf("%s: %d", p.Label(), n))
		}
	}
	return "{" + strings.Join(strs, ", ") + "}"
}
