package translator

/*
	Package translator turns a program into a Petri net.

	The translation starts at the entry function with a token in PROGRAM_START.
	Every call of a function with a body is unrolled in place: the callee gets
	a fresh copy of its blocks, whose entry place is the place of the calling
	block. Calls to synchronization primitives are delegated to the managers of
	package sync. Spawned threads are translated after the entry function.
*/

import (
	"fmt"
	"log"

	"github.com/cs-au-dk/petrify/analysis/cfg"
	"github.com/cs-au-dk/petrify/analysis/memory"
	"github.com/cs-au-dk/petrify/analysis/naming"
	"github.com/cs-au-dk/petrify/analysis/netif"
	"github.com/cs-au-dk/petrify/analysis/sync"
	"github.com/cs-au-dk/petrify/petrinet"
	W "github.com/cs-au-dk/petrify/utils/worklist"
)

type translator struct {
	prog *cfg.Program
	b    *netif.Builder
	ms   *sync.Managers

	stack     []*activation
	instances map[string]int
	// Spawned threads whose bodies have not been translated yet.
	pending W.Worklist[*sync.Thread]
	// Bodies of the entry and the threads leading to the one being translated.
	lineage []string

	log     bool
	metrics *Metrics
}

// Translate builds the Petri net of a program. Errors caused by the program
// wrap ErrUnsupported or cfg.ErrNoEntry. Defects of the translator are
// returned as an *InternalError. No net is returned on failure.
func Translate(prog *cfg.Program, c TranslatorConfig) (net *petrinet.Net, metrics *Metrics, err error) {
	metrics = initMetrics(c)
	metrics.TimerStart()

	defer func() {
		if r := recover(); r != nil {
			ierr, ok := r.(*InternalError)
			if !ok {
				panic(r)
			}
			metrics.Panic(ierr)
			net, err = nil, ierr
		}
	}()

	entry := prog.Entry
	if c.Entry != "" {
		entry = c.Entry
	}
	main, ok := prog.Body(entry)
	if !ok {
		err = fmt.Errorf("%w: %s", cfg.ErrNoEntry, entry)
		metrics.Done(err)
		return nil, metrics, err
	}

	tr := &translator{
		prog:      prog,
		b:         netif.New(),
		instances: make(map[string]int),
		pending:   W.Empty[*sync.Thread](),
		log:       c.Log,
		metrics:   metrics,
	}
	tr.ms = sync.NewManagers(tr.b, tr.spawned)
	tr.lineage = []string{main.Name}

	if _, err = tr.translate(main, tr.b.Start, tr.b.End, tr.b.Panic, nil); err == nil {
		err = tr.threads()
	}

	metrics.Done(err)
	if err != nil {
		return nil, metrics, err
	}
	return tr.b.Net(), metrics, nil
}

func (tr *translator) logf(format string, a ...interface{}) {
	if tr.log {
		log.Printf("%s"+format, append([]interface{}{tr.indent()}, a...)...)
	}
}

func (tr *translator) indent() string {
	str := ""
	for range tr.stack {
		str += "  "
	}
	return str
}

// translate unrolls a call of fn. args holds the values of the arguments, bound
// to the slots _1.._n of the callee. The value of the return slot is returned.
func (tr *translator) translate(fn *cfg.Function, entry, ret, unwind *petrinet.Place, args []memory.Value) (memory.Value, error) {
	a := tr.push(fn, entry, ret, unwind)
	tr.logf("Entering %s as %s", fn.Name, a.names.Name())
	for i, v := range args {
		if v != nil {
			a.mem.BindValue(cfg.LocalPlace(cfg.Local(i+1)), v)
		}
	}

	for _, id := range a.reachable() {
		if err := tr.visitBlock(a, id); err != nil {
			return nil, err
		}
	}

	tr.logf("Leaving %s with memory %s", a.names.Name(), a.mem)
	tr.pop()
	v, _ := a.mem.Get(cfg.ReturnSlot)
	return v, nil
}

// threads translates the bodies of spawned threads, including threads spawned
// by other threads, from their start place to their end place.
func (tr *translator) threads() (err error) {
	tr.pending.Process(func(th *sync.Thread, _ func(*sync.Thread)) {
		if err != nil {
			return
		}
		tr.metrics.AddThread()

		fn, ok := tr.prog.Body(th.Body)
		if !ok {
			label := naming.ThreadBody(th.Index)
			if th.Body != "" {
				label = naming.Call(th.Body)
			}
			tr.logf("Thread %d runs foreign body %q", th.Index, th.Body)
			tr.b.Connect(th.Start, label, th.End)
			return
		}

		for _, name := range th.Ancestors {
			if name == fn.Name {
				err = fmt.Errorf("%w: thread %d re-enters %s", ErrRecursion, th.Index, fn.Name)
				return
			}
		}

		tr.logf("Thread %d runs %s", th.Index, fn.Name)
		tr.lineage = append(append([]string{}, th.Ancestors...), fn.Name)
		_, err = tr.translate(fn, th.Start, th.End, tr.b.Panic, []memory.Value{th.Env})
	})
	return
}

// spawned queues a thread for translation. Its ancestors are the bodies
// being translated when it was spawned.
func (tr *translator) spawned(th *sync.Thread) {
	th.Ancestors = tr.lineage
	tr.pending.Add(th)
}

// unwindOf returns the place receiving a token when a block unwinds to
// the given cleanup block, defaulting to the unwind place of the activation.
func (tr *translator) unwindOf(a *activation, cleanup cfg.BlockID) *petrinet.Place {
	if cleanup.Present() {
		return tr.block(a, cleanup)
	}
	return a.unwind
}

// targetOf returns the place reached when a call returns to the given block.
// Calls without target diverge and end the program.
func (tr *translator) targetOf(a *activation, target cfg.BlockID) *petrinet.Place {
	if target.Present() {
		return tr.block(a, target)
	}
	return tr.b.End
}

func unsupported(fn *cfg.Function, id cfg.BlockID, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s, %s: %s", ErrUnsupported, fn.Name, id, fmt.Sprintf(format, args...))
}
