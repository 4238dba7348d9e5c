package sync

import (
	"github.com/cs-au-dk/petrify/analysis/cfg"
	"github.com/cs-au-dk/petrify/analysis/memory"
	"github.com/cs-au-dk/petrify/analysis/naming"
	"github.com/cs-au-dk/petrify/analysis/netif"
	"github.com/cs-au-dk/petrify/petrinet"
)

// Thread is a spawned thread. Its body runs from a token in Start to a token in End.
type Thread struct {
	Index int
	Start *petrinet.Place
	End   *petrinet.Place
	Spawn *petrinet.Transition
	// Joins are the join transitions waiting for End, in translation order.
	Joins []*petrinet.Transition

	// Body is the name of the function run by the thread, or "" if it is unknown.
	Body string
	// Env is the value captured by the closure passed to spawn, if any.
	Env memory.Value
	// Ancestors are the bodies of the entry function and the threads
	// that led to the spawn, outermost first. Left to the onSpawn callback.
	Ancestors []string
}

type Threads struct {
	b       *netif.Builder
	arena   []*Thread
	joins   int
	onSpawn func(*Thread)
}

func (t *Threads) Get(i int) *Thread { return t.arena[i] }

func (t *Threads) Len() int { return len(t.arena) }

// Spawn creates the start and end places of a thread. Once the call has been
// wired, the spawn transition also starts the thread, the destination becomes
// its join handle, and the thread is handed over for translation of its body.
func (t *Threads) Spawn(site Site) (Fragment, Task) {
	i := len(t.arena)
	th := &Thread{
		Index: i,
		Start: t.b.Place(naming.ThreadStart(i)),
		End:   t.b.Place(naming.ThreadEnd(i)),
	}
	if len(site.Args) > 0 {
		closure := site.Args[0]
		if name, ok := cfg.ClosureName(site.Function.OperandType(closure)); ok {
			th.Body = name
		}
		th.Env, _ = site.Memory.ResolveOperand(closure)
	}
	t.arena = append(t.arena, th)

	f := single(t.b, naming.Indexed(site.Name, i), site)
	th.Spawn = f.Start

	return f, func() {
		t.b.Produce(f.Start, th.Start)
		site.Memory.Bind(site.Dest, memory.Handle{Kind: memory.Thread, Index: i})
		if t.onSpawn != nil {
			t.onSpawn(th)
		}
	}
}

// Join blocks until the thread of the receiving join handle has reached its end.
func (t *Threads) Join(site Site) (Fragment, Task) {
	th := t.arena[site.receiver(0, memory.Thread).Index]

	f := single(t.b, naming.Indexed(site.Name, t.joins), site)
	t.joins++
	t.b.Consume(f.Start, th.End)
	th.Joins = append(th.Joins, f.Start)

	return f, func() {
		site.Memory.Clear(site.Dest)
	}
}
