package netif

import (
	"fmt"

	"github.com/cs-au-dk/petrify/analysis/naming"
	"github.com/cs-au-dk/petrify/petrinet"
	"github.com/cs-au-dk/petrify/utils"
)

// Builder wraps a net under construction. Every failure of the underlying net
// is a translator defect, so the builder panics with an internal error instead
// of returning it.
//
// Requested labels are made unique: a label that is already taken receives
// the first free "_n" suffix.
type Builder struct {
	net *petrinet.Net

	Start *petrinet.Place
	End   *petrinet.Place
	Panic *petrinet.Place
}

// New creates a builder over a fresh net containing the global program places.
func New() *Builder {
	b := &Builder{net: petrinet.New()}
	b.Start = b.Place(naming.ProgramStart)
	b.End = b.Place(naming.ProgramEnd)
	b.Panic = b.Place(naming.ProgramPanic)
	b.Tokens(b.Start, 1)
	return b
}

func (b *Builder) Net() *petrinet.Net { return b.net }

func (b *Builder) fresh(label string) string {
	if !b.net.Has(label) {
		return label
	}
	for n := 1; ; n++ {
		if l := fmt.Sprintf("%s_%d", label, n); !b.net.Has(l) {
			return l
		}
	}
}

func (b *Builder) Place(label string) *petrinet.Place {
	p, err := b.net.AddPlace(b.fresh(label))
	utils.Must(err)
	return p
}

func (b *Builder) Transition(label string) *petrinet.Transition {
	t, err := b.net.AddTransition(b.fresh(label))
	utils.Must(err)
	return t
}

func (b *Builder) Tokens(p *petrinet.Place, n int) {
	utils.Must(b.net.AddTokens(p, n))
}

// Consume adds an arc with weight 1 from every given place to t.
func (b *Builder) Consume(t *petrinet.Transition, ps ...*petrinet.Place) {
	for _, p := range ps {
		utils.Must(b.net.AddArcPlaceTransition(p, t, 1))
	}
}

// Produce adds an arc with weight 1 from t to every given place.
func (b *Builder) Produce(t *petrinet.Transition, ps ...*petrinet.Place) {
	for _, p := range ps {
		utils.Must(b.net.AddArcTransitionPlace(t, p, 1))
	}
}

// Connect adds a transition moving a token from one place to another.
func (b *Builder) Connect(from *petrinet.Place, label string, to *petrinet.Place) *petrinet.Transition {
	t := b.Transition(label)
	b.Consume(t, from)
	b.Produce(t, to)
	return t
}
