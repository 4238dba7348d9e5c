package netif

import (
	"errors"
	"testing"

	"github.com/cs-au-dk/petrify/utils"
)

func TestGlobalPlaces(t *testing.T) {
	b := New()
	n := b.Net()
	if n.NumPlaces() != 3 || n.NumTransitions() != 0 {
		t.Fatalf("expected only the three global places, got %d places and %d transitions",
			n.NumPlaces(), n.NumTransitions())
	}
	if n.Marking(b.Start) != 1 || n.Marking(b.End) != 0 || n.Marking(b.Panic) != 0 {
		t.Error("only PROGRAM_START should be marked")
	}
}

func TestFreshLabels(t *testing.T) {
	b := New()
	exp := []string{"foo_CALL", "foo_CALL_1", "foo_CALL_2"}
	for _, e := range exp {
		if got := b.Transition("foo_CALL").Label(); got != e {
			t.Errorf("expected %s, got %s", e, got)
		}
	}
	if got := b.Place("foo_CALL").Label(); got != "foo_CALL_3" {
		t.Errorf("places and transitions share labels, got %s", got)
	}
	if got := b.Place("PROGRAM_END").Label(); got != "PROGRAM_END_1" {
		t.Errorf("expected PROGRAM_END_1, got %s", got)
	}
}

func TestConnect(t *testing.T) {
	b := New()
	tr := b.Connect(b.Start, "main_RETURN", b.End)
	if w := b.Net().Weight("PROGRAM_START", tr.Label()); w != 1 {
		t.Errorf("expected consuming arc, got weight %d", w)
	}
	if w := b.Net().Weight(tr.Label(), "PROGRAM_END"); w != 1 {
		t.Errorf("expected producing arc, got weight %d", w)
	}
}

func TestFailuresPanic(t *testing.T) {
	b, other := New(), New()
	tr := other.Transition("t")

	defer func() {
		err, ok := recover().(error)
		if !ok || !errors.Is(err, utils.ErrInternal) {
			t.Errorf("expected an internal error panic, got %v", err)
		}
	}()
	b.Consume(tr, b.Start)
	t.Error("adding an arc to a foreign transition did not panic")
}
