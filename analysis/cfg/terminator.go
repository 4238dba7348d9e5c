package cfg

import (
	"fmt"
	"strings"
)

type TerminatorKind int

const (
	Goto TerminatorKind = iota
	SwitchInt
	Return
	Resume
	Abort
	Unreachable
	Drop
	Call
	Assert
	// Kinds below are recognized but not supported by the translation.
	Yield
	GeneratorDrop
	FalseEdge
	FalseUnwind
	InlineAsm
	DropAndReplace
)

var terminatorNames = [...]string{
	Goto:           "goto",
	SwitchInt:      "switch_int",
	Return:         "return",
	Resume:         "resume",
	Abort:          "abort",
	Unreachable:    "unreachable",
	Drop:           "drop",
	Call:           "call",
	Assert:         "assert",
	Yield:          "yield",
	GeneratorDrop:  "generator_drop",
	FalseEdge:      "false_edge",
	FalseUnwind:    "false_unwind",
	InlineAsm:      "inline_asm",
	DropAndReplace: "drop_and_replace",
}

func (k TerminatorKind) String() string {
	if int(k) < len(terminatorNames) {
		return terminatorNames[k]
	}
	return fmt.Sprintf("terminator(%d)", int(k))
}

// Supported holds for terminator kinds that can be translated.
func (k TerminatorKind) Supported() bool { return k <= Assert }

type CalleeKind int

const (
	// FnDef is a statically known function.
	FnDef CalleeKind = iota
	// Closure is a statically known closure body.
	Closure
	// FnPtr is a call through a function pointer.
	FnPtr
	// Dynamic is a call through a trait object.
	Dynamic
)

var calleeNames = [...]string{"fn", "closure", "fn_ptr", "dynamic"}

func (k CalleeKind) String() string { return calleeNames[k] }

// Resolved holds for callees whose identity is known statically.
func (k CalleeKind) Resolved() bool { return k == FnDef || k == Closure }

type Callee struct {
	Kind CalleeKind
	Name string
}

func (c Callee) String() string {
	if c.Kind == FnDef {
		return c.Name
	}
	return fmt.Sprintf("%s %s", c.Kind, c.Name)
}

type CallData struct {
	Func        Callee
	Args        []Operand
	Destination Place
}

// Terminator ends a basic block. Which fields are meaningful depends on Kind:
//
//	Goto:      Target
//	SwitchInt: Targets
//	Drop:      Place, Target, Unwind
//	Assert:    Target, Unwind (the cleanup block)
//	Call:      Call, Target (NoBlock when diverging), Unwind (the cleanup block)
type Terminator struct {
	Kind    TerminatorKind
	Target  BlockID
	Targets []BlockID
	Unwind  BlockID
	Place   Place
	Call    *CallData
}

// Successors returns every block the terminator may transfer control to.
func (t Terminator) Successors() (res []BlockID) {
	switch t.Kind {
	case SwitchInt:
		return append(res, t.Targets...)
	case Goto, Drop, Assert, Call, DropAndReplace, FalseEdge, FalseUnwind, InlineAsm, Yield:
		for _, b := range []BlockID{t.Target, t.Unwind} {
			if b.Present() {
				res = append(res, b)
			}
		}
	}
	return
}

func (t Terminator) String() string {
	switch t.Kind {
	case Goto:
		return fmt.Sprintf("goto -> %s", t.Target)
	case SwitchInt:
		strs := make([]string, len(t.Targets))
		for i, b := range t.Targets {
			strs[i] = b.String()
		}
		return "switchInt -> [" + strings.Join(strs, ", ") + "]"
	case Drop:
		return fmt.Sprintf("drop(%s) -> [return: %s, unwind: %s]", t.Place, t.Target, t.Unwind)
	case Assert:
		return fmt.Sprintf("assert -> [success: %s, unwind: %s]", t.Target, t.Unwind)
	case Call:
		args := make([]string, len(t.Call.Args))
		for i, a := range t.Call.Args {
			args[i] = a.String()
		}
		return fmt.Sprintf("%s = %s(%s) -> [return: %s, unwind: %s]",
			t.Call.Destination, t.Call.Func, strings.Join(args, ", "), t.Target, t.Unwind)
	}
	return t.Kind.String()
}
