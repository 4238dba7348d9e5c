package petrinet

/*
	Package petrinet contains a place/transition net with weighted arcs and an
	initial marking, together with writers for the dot, LoLA and PNML formats.

	Nets are append-only: nodes and arcs can be added but never removed.
	Every place and transition carries a label, and labels are unique across
	both kinds of nodes, since they double as identifiers in every output format.
*/

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrEmptyLabel     = errors.New("empty label")
	ErrDuplicateLabel = errors.New("duplicate label")
	ErrForeignNode    = errors.New("node does not belong to the net")
	ErrInvalidWeight  = errors.New("arc weight must be positive")
	ErrOverflow       = errors.New("integer overflow")
)

type Place struct {
	label string
	net   *Net
}

func (p *Place) Label() string  { return p.label }
func (p *Place) String() string { return p.label }

type Transition struct {
	label string
	net   *Net
}

func (t *Transition) Label() string  { return t.label }
func (t *Transition) String() string { return t.label }

// Arc is a weighted edge between a place and a transition, in either direction.
// Source and Target are labels.
type Arc struct {
	Source string
	Target string
	Weight int
}

func (a Arc) String() string {
	return fmt.Sprintf("(%s, %s)", a.Source, a.Target)
}

type Net struct {
	places      map[string]*Place
	transitions map[string]*Transition
	marking     map[*Place]int

	// Weights of place -> transition arcs, keyed by transition.
	consume map[*Transition]map[*Place]int
	// Weights of transition -> place arcs, keyed by transition.
	produce map[*Transition]map[*Place]int
}

func New() *Net {
	return &Net{
		places:      make(map[string]*Place),
		transitions: make(map[string]*Transition),
		marking:     make(map[*Place]int),
		consume:     make(map[*Transition]map[*Place]int),
		produce:     make(map[*Transition]map[*Place]int),
	}
}

// Has reports whether the label is taken by a place or a transition.
func (n *Net) Has(label string) bool {
	_, isPlace := n.places[label]
	_, isTransition := n.transitions[label]
	return isPlace || isTransition
}

func (n *Net) checkLabel(label string) error {
	if label == "" {
		return ErrEmptyLabel
	}
	if n.Has(label) {
		return fmt.Errorf("%w: %s", ErrDuplicateLabel, label)
	}
	return nil
}

func (n *Net) AddPlace(label string) (*Place, error) {
	if err := n.checkLabel(label); err != nil {
		return nil, err
	}
	p := &Place{label, n}
	n.places[label] = p
	return p, nil
}

func (n *Net) AddTransition(label string) (*Transition, error) {
	if err := n.checkLabel(label); err != nil {
		return nil, err
	}
	t := &Transition{label, n}
	n.transitions[label] = t
	n.consume[t] = make(map[*Place]int)
	n.produce[t] = make(map[*Place]int)
	return t, nil
}

func (n *Net) owns(p *Place, t *Transition) error {
	switch {
	case p == nil || p.net != n:
		return fmt.Errorf("%w: place %v", ErrForeignNode, p)
	case t == nil || t.net != n:
		return fmt.Errorf("%w: transition %v", ErrForeignNode, t)
	}
	return nil
}

func addWeight(arcs map[*Place]int, p *Place, weight int) error {
	if weight <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWeight, weight)
	}
	if arcs[p] > math.MaxInt-weight {
		return fmt.Errorf("%w: arc weight for %s", ErrOverflow, p)
	}
	arcs[p] += weight
	return nil
}

// AddArcPlaceTransition adds an arc from p to t. Adding an existing arc
// increases its weight.
func (n *Net) AddArcPlaceTransition(p *Place, t *Transition, weight int) error {
	if err := n.owns(p, t); err != nil {
		return err
	}
	return addWeight(n.consume[t], p, weight)
}

// AddArcTransitionPlace adds an arc from t to p. Adding an existing arc
// increases its weight.
func (n *Net) AddArcTransitionPlace(t *Transition, p *Place, weight int) error {
	if err := n.owns(p, t); err != nil {
		return err
	}
	return addWeight(n.produce[t], p, weight)
}

// AddTokens adds tokens to the initial marking of p.
func (n *Net) AddTokens(p *Place, tokens int) error {
	switch {
	case p == nil || p.net != n:
		return fmt.Errorf("%w: place %v", ErrForeignNode, p)
	case tokens < 0:
		return fmt.Errorf("negative token count %d for %s", tokens, p)
	case n.marking[p] > math.MaxInt-tokens:
		return fmt.Errorf("%w: marking of %s", ErrOverflow, p)
	}
	if tokens > 0 {
		n.marking[p] += tokens
	}
	return nil
}

func (n *Net) Place(label string) (*Place, bool) {
	p, ok := n.places[label]
	return p, ok
}

func (n *Net) Transition(label string) (*Transition, bool) {
	t, ok := n.transitions[label]
	return t, ok
}

// Places returns all places ordered by label.
func (n *Net) Places() []*Place {
	ps := make([]*Place, 0, len(n.places))
	for _, p := range n.places {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].label < ps[j].label })
	return ps
}

// Transitions returns all transitions ordered by label.
func (n *Net) Transitions() []*Transition {
	ts := make([]*Transition, 0, len(n.transitions))
	for _, t := range n.transitions {
		ts = append(ts, t)
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i].label < ts[j].label })
	return ts
}

// Marking returns the initial number of tokens in p.
func (n *Net) Marking(p *Place) int { return n.marking[p] }

// Marked returns all initially marked places ordered by label.
func (n *Net) Marked() (ps []*Place) {
	for _, p := range n.Places() {
		if n.marking[p] > 0 {
			ps = append(ps, p)
		}
	}
	return
}

func sortedArcs(arcs map[*Place]int, toArc func(*Place, int) Arc) []Arc {
	res := make([]Arc, 0, len(arcs))
	for p, w := range arcs {
		res = append(res, toArc(p, w))
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Source != res[j].Source {
			return res[i].Source < res[j].Source
		}
		return res[i].Target < res[j].Target
	})
	return res
}

// Preset returns the arcs consumed by t, ordered by place label.
func (n *Net) Preset(t *Transition) []Arc {
	return sortedArcs(n.consume[t], func(p *Place, w int) Arc {
		return Arc{p.label, t.label, w}
	})
}

// Postset returns the arcs produced by t, ordered by place label.
func (n *Net) Postset(t *Transition) []Arc {
	return sortedArcs(n.produce[t], func(p *Place, w int) Arc {
		return Arc{t.label, p.label, w}
	})
}

// Weight returns the weight of the arc between the two nodes, or 0 if no arc exists.
// The direction is determined by the labels.
func (n *Net) Weight(source, target string) int {
	if p, ok := n.places[source]; ok {
		if t, ok := n.transitions[target]; ok {
			return n.consume[t][p]
		}
	}
	if t, ok := n.transitions[source]; ok {
		if p, ok := n.places[target]; ok {
			return n.produce[t][p]
		}
	}
	return 0
}

// Arcs returns every arc of the net. Place to transition arcs come first,
// ordered by place and then by transition, followed by transition to place
// arcs ordered by transition and then by place.
func (n *Net) Arcs() []Arc {
	var in, out []Arc
	for _, t := range n.Transitions() {
		in = append(in, n.Preset(t)...)
		out = append(out, n.Postset(t)...)
	}
	sort.SliceStable(in, func(i, j int) bool {
		if in[i].Source != in[j].Source {
			return in[i].Source < in[j].Source
		}
		return in[i].Target < in[j].Target
	})
	return append(in, out...)
}

// Consumers returns the transitions that consume from p, ordered by label.
func (n *Net) Consumers(p *Place) (ts []*Transition) {
	for _, t := range n.Transitions() {
		if n.consume[t][p] > 0 {
			ts = append(ts, t)
		}
	}
	return
}

// Producers returns the transitions that produce into p, ordered by label.
func (n *Net) Producers(p *Place) (ts []*Transition) {
	for _, t := range n.Transitions() {
		if n.produce[t][p] > 0 {
			ts = append(ts, t)
		}
	}
	return
}

func (n *Net) NumPlaces() int      { return len(n.places) }
func (n *Net) NumTransitions() int { return len(n.transitions) }

func (n *Net) NumArcs() (res int) {
	for _, t := range n.transitions {
		res += len(n.consume[t]) + len(n.produce[t])
	}
	return
}
