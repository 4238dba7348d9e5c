package translator

import (
	"fmt"

	"github.com/cs-au-dk/petrify/analysis/cfg"
	"github.com/cs-au-dk/petrify/analysis/memory"
	"github.com/cs-au-dk/petrify/analysis/naming"
	"github.com/cs-au-dk/petrify/analysis/sync"
	"github.com/cs-au-dk/petrify/petrinet"
)

// Functions that start a panic. Calls to them never return.
var panicFunctions = map[string]bool{
	"core::panicking::panic":               true,
	"core::panicking::panic_fmt":           true,
	"core::panicking::unreachable_display": true,
	"std::rt::begin_panic":                 true,
	"std::panicking::begin_panic":          true,
	"std::process::abort":                  true,
}

// IsPanic holds for functions whose calls start a panic.
func IsPanic(name string) bool { return panicFunctions[name] }

func (tr *translator) visitCall(a *activation, id cfg.BlockID, here *petrinet.Place, term cfg.Terminator) error {
	call := term.Call
	name := call.Func.Name
	if !call.Func.Kind.Resolved() {
		return unsupported(a.fn, id, "call through %s", call.Func)
	}

	if op, ok := sync.Recognize(name); ok {
		tr.callPrimitive(a, here, op, term)
		return nil
	}

	if IsPanic(name) {
		tr.logf("Call to %s panics", name)
		tr.b.Connect(here, naming.Panic(name), tr.b.Panic)
		return nil
	}

	if fn, ok := tr.prog.Body(name); ok {
		return tr.callFunction(a, id, here, fn, term)
	}

	tr.callForeign(a, here, term)
	return nil
}

// callPrimitive splices the fragment of a primitive operation into the control flow.
func (tr *translator) callPrimitive(a *activation, here *petrinet.Place, op sync.Operation, term cfg.Terminator) {
	tr.metrics.AddOperation(op)
	tr.logf("Operation %s at %s", op, term.Call.Func)

	frag, task := tr.ms.Handle(op, sync.Site{
		Name:     term.Call.Func.Name,
		Function: a.fn,
		Memory:   a.mem,
		Args:     term.Call.Args,
		Dest:     term.Call.Destination,
		Cleanup:  term.Unwind.Present(),
	})

	tr.b.Consume(frag.Start, here)
	tr.b.Produce(frag.End, tr.targetOf(a, term.Target))
	if frag.Unwind != nil {
		tr.b.Consume(frag.Unwind, here)
		tr.b.Produce(frag.Unwind, tr.unwindOf(a, term.Unwind))
	}
	task()
}

// callFunction unrolls a call to a function with a body.
func (tr *translator) callFunction(a *activation, id cfg.BlockID, here *petrinet.Place, fn *cfg.Function, term cfg.Terminator) error {
	if tr.onStack(fn.Name) {
		return fmt.Errorf("%w: %s calls %s at %s", ErrRecursion, a.fn.Name, fn.Name, id)
	}

	args := make([]memory.Value, len(term.Call.Args))
	for i, op := range term.Call.Args {
		args[i], _ = a.mem.ResolveOperand(op)
	}

	ret, err := tr.translate(fn, here, tr.targetOf(a, term.Target), tr.unwindOf(a, term.Unwind), args)
	if err != nil {
		return err
	}
	a.mem.BindValue(term.Call.Destination, ret)
	return nil
}

// callForeign models a call to a function without a body as a single step.
// The result may be a handle passed as the first argument, e.g. for a getter.
func (tr *translator) callForeign(a *activation, here *petrinet.Place, term cfg.Terminator) {
	call := term.Call
	name := call.Func.Name

	if !term.Target.Present() {
		tr.b.Connect(here, naming.DivergingCall(name), tr.b.End)
		return
	}

	tr.b.Connect(here, naming.Call(name), tr.block(a, term.Target))
	if term.Unwind.Present() {
		tr.b.Connect(here, naming.CallUnwind(name), tr.block(a, term.Unwind))
	}

	if len(call.Args) > 0 && cfg.MayCarryHandle(a.fn.Type(call.Destination.Local)) {
		a.mem.LinkOperand(call.Destination, call.Args[0])
	} else {
		a.mem.Clear(call.Destination)
	}
}
