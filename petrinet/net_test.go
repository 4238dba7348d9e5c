package petrinet

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// minimalNet is the net of a program whose main function only returns.
func minimalNet(t *testing.T) *Net {
	n := New()
	start, err := n.AddPlace("PROGRAM_START")
	if err != nil {
		t.Fatal(err)
	}
	end, _ := n.AddPlace("PROGRAM_END")
	n.AddPlace("PROGRAM_PANIC")
	if err := n.AddTokens(start, 1); err != nil {
		t.Fatal(err)
	}
	ret, _ := n.AddTransition("main_RETURN")
	if err := n.AddArcPlaceTransition(start, ret, 1); err != nil {
		t.Fatal(err)
	}
	if err := n.AddArcTransitionPlace(ret, end, 1); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestMinimalNetFormats(t *testing.T) {
	n := minimalNet(t)
	for _, test := range []struct {
		name  string
		write func(*Net, *bytes.Buffer) error
	}{
		{"minimal.dot", func(n *Net, b *bytes.Buffer) error { return n.WriteDot(b) }},
		{"minimal.lola", func(n *Net, b *bytes.Buffer) error { return n.WriteLola(b) }},
		{"minimal.pnml", func(n *Net, b *bytes.Buffer) error { return n.WritePNML(b) }},
	} {
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := test.write(n, &buf); err != nil {
				t.Fatal(err)
			}
			goldie.New(t).Assert(t, test.name, buf.Bytes())
		})
	}
}

func TestLabelsAreUnique(t *testing.T) {
	n := New()
	if _, err := n.AddPlace("A"); err != nil {
		t.Fatal(err)
	}
	if _, err := n.AddPlace("A"); !errors.Is(err, ErrDuplicateLabel) {
		t.Errorf("expected duplicate place error, got %v", err)
	}
	if _, err := n.AddTransition("A"); !errors.Is(err, ErrDuplicateLabel) {
		t.Errorf("expected duplicate transition error, got %v", err)
	}
	if _, err := n.AddTransition(""); !errors.Is(err, ErrEmptyLabel) {
		t.Errorf("expected empty label error, got %v", err)
	}
	if !n.Has("A") || n.Has("B") {
		t.Error("Has does not reflect the added labels")
	}
}

func TestArcWeights(t *testing.T) {
	n := New()
	p, _ := n.AddPlace("p")
	tr, _ := n.AddTransition("t")

	if err := n.AddArcPlaceTransition(p, tr, 0); !errors.Is(err, ErrInvalidWeight) {
		t.Errorf("expected invalid weight error, got %v", err)
	}
	if err := n.AddArcPlaceTransition(p, tr, 1); err != nil {
		t.Fatal(err)
	}
	if err := n.AddArcPlaceTransition(p, tr, 2); err != nil {
		t.Fatal(err)
	}
	if w := n.Weight("p", "t"); w != 3 {
		t.Errorf("expected accumulated weight 3, got %d", w)
	}
	if w := n.Weight("t", "p"); w != 0 {
		t.Errorf("expected no reverse arc, got weight %d", w)
	}
	if err := n.AddArcPlaceTransition(p, tr, math.MaxInt); !errors.Is(err, ErrOverflow) {
		t.Errorf("expected overflow error, got %v", err)
	}
	if n.NumArcs() != 1 {
		t.Errorf("expected a single arc, got %d", n.NumArcs())
	}
}

func TestForeignNodes(t *testing.T) {
	n1, n2 := New(), New()
	p, _ := n1.AddPlace("p")
	tr, _ := n2.AddTransition("t")

	if err := n2.AddArcPlaceTransition(p, tr, 1); !errors.Is(err, ErrForeignNode) {
		t.Errorf("expected foreign node error, got %v", err)
	}
	if err := n1.AddArcTransitionPlace(tr, p, 1); !errors.Is(err, ErrForeignNode) {
		t.Errorf("expected foreign node error, got %v", err)
	}
	if err := n2.AddTokens(p, 1); !errors.Is(err, ErrForeignNode) {
		t.Errorf("expected foreign node error, got %v", err)
	}
}

func TestWeightedOutput(t *testing.T) {
	n := New()
	a, _ := n.AddPlace("a")
	b, _ := n.AddPlace("b")
	tr, _ := n.AddTransition("t")
	n.AddTokens(a, 3)
	n.AddArcPlaceTransition(a, tr, 2)
	n.AddArcTransitionPlace(tr, b, 1)

	var dot, lola bytes.Buffer
	if err := n.WriteDot(&dot); err != nil {
		t.Fatal(err)
	}
	if err := n.WriteLola(&lola); err != nil {
		t.Fatal(err)
	}

	expDot := `digraph petrinet {
    a [shape="circle" xlabel="a" label="3"];
    b [shape="circle" xlabel="b" label=""];
    t [shape="box" xlabel="" label="t"];
    a -> t [label="2"];
    t -> b;
}
`
	if dot.String() != expDot {
		t.Errorf("unexpected dot output:\n%s", dot.String())
	}

	expLola := `PLACE
    a,
    b;

MARKING
    a : 3;

TRANSITION t
  CONSUME
    a : 2;
  PRODUCE
    b : 1;
`
	if lola.String() != expLola {
		t.Errorf("unexpected LoLA output:\n%s", lola.String())
	}
}

func TestLolaEmptySections(t *testing.T) {
	n := New()
	n.AddPlace("p")
	n.AddTransition("t")

	var buf bytes.Buffer
	if err := n.WriteLola(&buf); err != nil {
		t.Fatal(err)
	}
	exp := `PLACE
    p;

MARKING;

TRANSITION t
  CONSUME;
  PRODUCE;
`
	if buf.String() != exp {
		t.Errorf("unexpected LoLA output:\n%s", buf.String())
	}
}

func TestArcOrder(t *testing.T) {
	n := New()
	b, _ := n.AddPlace("b")
	a, _ := n.AddPlace("a")
	t2, _ := n.AddTransition("t2")
	t1, _ := n.AddTransition("t1")
	n.AddArcTransitionPlace(t1, b, 1)
	n.AddArcPlaceTransition(b, t1, 1)
	n.AddArcPlaceTransition(a, t2, 1)
	n.AddArcPlaceTransition(a, t1, 1)

	exp := []Arc{
		{"a", "t1", 1},
		{"a", "t2", 1},
		{"b", "t1", 1},
		{"t1", "b", 1},
	}
	arcs := n.Arcs()
	if len(arcs) != len(exp) {
		t.Fatalf("expected %d arcs, got %v", len(exp), arcs)
	}
	for i := range exp {
		if arcs[i] != exp[i] {
			t.Errorf("arc %d: expected %v, got %v", i, exp[i], arcs[i])
		}
	}

	if cs := n.Consumers(a); len(cs) != 2 || cs[0] != t1 || cs[1] != t2 {
		t.Errorf("unexpected consumers of a: %v", cs)
	}
	if ps := n.Producers(b); len(ps) != 1 || ps[0] != t1 {
		t.Errorf("unexpected producers of b: %v", ps)
	}
}

func TestPNMLRoundTrip(t *testing.T) {
	n := minimalNet(t)
	extra, _ := n.AddPlace("EXTRA")
	tr, _ := n.Transition("main_RETURN")
	n.AddArcTransitionPlace(tr, extra, 4)
	n.AddTokens(extra, 2)

	var buf bytes.Buffer
	if err := n.WritePNML(&buf); err != nil {
		t.Fatal(err)
	}
	m, err := ReadPNML(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}

	var again bytes.Buffer
	if err := m.WritePNML(&again); err != nil {
		t.Fatal(err)
	}
	if buf.String() != again.String() {
		t.Errorf("round trip changed the document:\n%s\n---\n%s", buf.String(), again.String())
	}
	if p, ok := m.Place("EXTRA"); !ok || m.Marking(p) != 2 {
		t.Error("marking of EXTRA was not preserved")
	}
	if w := m.Weight("main_RETURN", "EXTRA"); w != 4 {
		t.Errorf("expected weight 4, got %d", w)
	}
}

func TestReadPNMLRejectsBadArcs(t *testing.T) {
	doc := `<pnml><net id="n" type="t"><page id="p">
<place id="p"><name><text>p</text></name></place>
<arc source="p" target="nowhere" id="x"><name><text>x</text></name></arc>
</page></net></pnml>`
	if _, err := ReadPNML(bytes.NewReader([]byte(doc))); err == nil {
		t.Error("expected an error for an arc to an unknown node")
	}
}
