package translator

import (
	"github.com/cs-au-dk/petrify/analysis/cfg"
	"github.com/cs-au-dk/petrify/analysis/memory"
	"github.com/cs-au-dk/petrify/analysis/naming"
)

func (tr *translator) visitBlock(a *activation, id cfg.BlockID) error {
	blk := a.fn.Blocks[id]
	for _, s := range blk.Statements {
		tr.visitStatement(a, s)
	}
	return tr.visitTerminator(a, id, blk.Terminator)
}

// visitStatement updates the memory of the activation. Statements never
// produce net elements.
func (tr *translator) visitStatement(a *activation, s cfg.Statement) {
	if s.Kind != cfg.Assign {
		return
	}

	switch rv := s.Rvalue; rv.Kind {
	case cfg.Use, cfg.Cast:
		if !rv.Operand.IsPlace() {
			a.mem.Clear(s.Place)
			return
		}
		link(a.mem, s.Place, rv.Operand.Place)
	case cfg.Ref, cfg.AddressOf:
		link(a.mem, s.Place, rv.Place)
	case cfg.Aggregate:
		a.mem.CreateAggregate(s.Place, rv.Operands)
	default:
		a.mem.Clear(s.Place)
	}
}

// link makes dst denote src. Reading a field selects a position of the
// aggregate denoted by the rest of the place.
func link(mem *memory.Memory, dst, src cfg.Place) {
	n := len(src.Projection)
	if n == 0 || src.Projection[n-1].Kind != cfg.Field {
		mem.Link(dst, src)
		return
	}
	base := cfg.Place{Local: src.Local, Projection: src.Projection[:n-1]}
	mem.LinkField(dst, base, src.Projection[n-1].Field)
}

func (tr *translator) visitTerminator(a *activation, id cfg.BlockID, term cfg.Terminator) error {
	if !term.Kind.Supported() {
		return unsupported(a.fn, id, "terminator %s", term.Kind)
	}

	b := tr.b
	here := tr.block(a, id)
	tr.logf("%s %s: %s", a.names.Name(), id, term)

	switch term.Kind {
	case cfg.Goto:
		b.Connect(here, a.names.Next(naming.GOTO), tr.block(a, term.Target))

	case cfg.SwitchInt:
		labels := a.names.NextSwitch(len(term.Targets))
		for j, target := range term.Targets {
			b.Connect(here, labels[j], tr.block(a, target))
		}

	case cfg.Return:
		b.Connect(here, a.names.Next(naming.RETURN), a.ret)

	case cfg.Resume:
		b.Connect(here, a.names.Next(naming.UNWIND), a.unwind)

	case cfg.Abort:
		// Aborting does not run cleanup code.
		b.Connect(here, a.names.Next(naming.ABORT), b.Panic)

	case cfg.Unreachable:
		b.Connect(here, a.names.Next(naming.UNREACHABLE), b.End)

	case cfg.Drop:
		t := b.Connect(here, a.names.Next(naming.DROP), tr.block(a, term.Target))
		if term.Unwind.Present() {
			b.Connect(here, a.names.Next(naming.DROP_UNWIND), tr.block(a, term.Unwind))
		}
		if v, ok := a.mem.Resolve(term.Place); ok {
			if h, isHandle := v.(memory.Handle); isHandle && h.Kind == memory.Guard {
				tr.logf("Dropping guard of mutex %d", h.Index)
				tr.ms.Mutexes.Unlock(t, h)
			}
		}

	case cfg.Assert:
		b.Connect(here, a.names.Next(naming.ASSERT), tr.block(a, term.Target))
		if term.Unwind.Present() {
			b.Connect(here, a.names.Next(naming.ASSERT_CLEANUP), tr.block(a, term.Unwind))
		}

	case cfg.Call:
		return tr.visitCall(a, id, here, term)
	}
	return nil
}
