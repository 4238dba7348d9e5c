package testutil

import (
	"testing"

	"github.com/cs-au-dk/petrify/petrinet"
)

// choiceNet builds S -> {a, b}, where a moves the token to P and b to Q,
// and c consumes from both P and Q.
func choiceNet(t *testing.T) *petrinet.Net {
	n := petrinet.New()
	places := map[string]*petrinet.Place{}
	for _, l := range []string{"P", "Q", "S"} {
		p, err := n.AddPlace(l)
		if err != nil {
			t.Fatal(err)
		}
		places[l] = p
	}
	if err := n.AddTokens(places["S"], 1); err != nil {
		t.Fatal(err)
	}

	for _, tr := range []struct {
		label string
		pre   []string
		post  []string
	}{
		{"a", []string{"S"}, []string{"P"}},
		{"b", []string{"S"}, []string{"Q"}},
		{"c", []string{"P", "Q"}, []string{"S"}},
	} {
		tt, err := n.AddTransition(tr.label)
		if err != nil {
			t.Fatal(err)
		}
		for _, p := range tr.pre {
			if err := n.AddArcPlaceTransition(places[p], tt, 1); err != nil {
				t.Fatal(err)
			}
		}
		for _, p := range tr.post {
			if err := n.AddArcTransitionPlace(tt, places[p], 1); err != nil {
				t.Fatal(err)
			}
		}
	}
	return n
}

func TestExplore(t *testing.T) {
	ss := Explore(choiceNet(t), ExploreLimit)
	if !ss.Complete {
		t.Fatal("exploration should be complete")
	}
	if ss.Len() != 3 {
		t.Errorf("expected 3 markings, got %d", ss.Len())
	}
	if len(ss.Dead()) != 2 {
		t.Errorf("expected 2 dead markings, got %d", len(ss.Dead()))
	}
	if !ss.Marks("P") || !ss.Marks("Q") {
		t.Error("both branches should be reachable")
	}
	if ss.Reachable(func(m Marking) bool { return ss.Tokens(m, "P") > 0 && ss.Tokens(m, "Q") > 0 }) {
		t.Error("P and Q are never marked together")
	}
	if b := ss.Bound("S"); b != 1 {
		t.Errorf("expected S to be 1-bounded, got %d", b)
	}
	if str := ss.Format(ss.Dead()[0]); str != "{P: 1}" {
		t.Errorf("unexpected dead marking %s", str)
	}
}

func TestExploreLimit(t *testing.T) {
	if ss := Explore(choiceNet(t), 2); ss.Complete || ss.Len() != 2 {
		t.Errorf("expected an incomplete exploration of 2 markings, got %d", ss.Len())
	}
}

func TestParseExpectations(t *testing.T) {
	exps, err := ParseExpectations(`
# comment
reachable PROGRAM_END
bounded MUTEX_0_LOCKED 1
error recursion
`)
	if err != nil {
		t.Fatal(err)
	}
	if len(exps) != 3 {
		t.Fatalf("expected 3 expectations, got %v", exps)
	}
	if exps[1].Kind != EXP_BOUNDED || exps[1].Label != "MUTEX_0_LOCKED" || exps[1].Bound != 1 {
		t.Errorf("unexpected expectation %v", exps[1])
	}
	if exps[2].Kind != EXP_ERROR || exps[2].Label != "recursion" {
		t.Errorf("unexpected expectation %v", exps[2])
	}

	for _, src := range []string{"unknown X", "bounded X", "reachable"} {
		if _, err := ParseExpectations(src); err == nil {
			t.Errorf("%q should be rejected", src)
		}
	}
}
