package translator

import (
	"github.com/cs-au-dk/petrify/analysis/cfg"
	"github.com/cs-au-dk/petrify/analysis/memory"
	"github.com/cs-au-dk/petrify/analysis/naming"
	"github.com/cs-au-dk/petrify/petrinet"
	"github.com/cs-au-dk/petrify/utils/graph"
)

// activation is the record of a function call being translated.
type activation struct {
	fn    *cfg.Function
	names *naming.Function
	mem   *memory.Memory

	// A token in entry starts the call. Returning produces a token in ret,
	// unwinding produces a token in unwind.
	entry  *petrinet.Place
	ret    *petrinet.Place
	unwind *petrinet.Place

	blocks map[cfg.BlockID]*petrinet.Place
}

// push creates the activation record of a call to fn and makes it the top of the stack.
func (tr *translator) push(fn *cfg.Function, entry, ret, unwind *petrinet.Place) *activation {
	n := tr.instances[fn.Name]
	tr.instances[fn.Name]++

	a := &activation{
		fn:     fn,
		names:  naming.NewFunction(naming.Instance(fn.Name, n)),
		mem:    memory.New(),
		entry:  entry,
		ret:    ret,
		unwind: unwind,
		blocks: map[cfg.BlockID]*petrinet.Place{0: entry},
	}
	tr.stack = append(tr.stack, a)
	tr.metrics.ExpandFunction(fn.Name)
	return a
}

func (tr *translator) pop() *activation {
	a := tr.top()
	tr.stack = tr.stack[:len(tr.stack)-1]
	return a
}

func (tr *translator) top() *activation {
	return tr.stack[len(tr.stack)-1]
}

// onStack holds if a call of the named function is being translated.
func (tr *translator) onStack(name string) bool {
	for _, a := range tr.stack {
		if a.fn.Name == name {
			return true
		}
	}
	return false
}

// block activates a basic block: its entry place is created on first reference.
func (tr *translator) block(a *activation, id cfg.BlockID) *petrinet.Place {
	if p, ok := a.blocks[id]; ok {
		return p
	}
	p := tr.b.Place(a.names.Block(int(id)))
	a.blocks[id] = p
	return p
}

// reachable returns the blocks of the activation's function reachable from
// its first block, in program order.
func (a *activation) reachable() []cfg.BlockID {
	reached := graph.New(func(b cfg.BlockID) []cfg.BlockID {
		return a.fn.Blocks[b].Terminator.Successors()
	}).Reachable(0)

	var res []cfg.BlockID
	for i := range a.fn.Blocks {
		if reached[cfg.BlockID(i)] {
			res = append(res, cfg.BlockID(i))
		}
	}
	return res
}
