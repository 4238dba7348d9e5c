package cfg

/*
	Package cfg contains the control-flow representation of the programs
	given to the translator. A program is a set of functions, and each function
	with a body is an ordered list of basic blocks. Every block holds a list of
	statements followed by exactly one terminator.

	The representation mirrors compiler mid-level IR: local variable slots are
	numbered (_0 is the return slot, _1.._n are the arguments) and places are
	slots with an optional chain of dereference and field projections.
*/

import (
	"fmt"
	"sort"
)

// BlockID indexes the blocks of a function.
type BlockID int

// NoBlock is used for absent targets, e.g. diverging calls or calls without a cleanup block.
const NoBlock BlockID = -1

func (b BlockID) Present() bool { return b != NoBlock }

func (b BlockID) String() string {
	if b == NoBlock {
		return "none"
	}
	return fmt.Sprintf("bb%d", int(b))
}

type Program struct {
	// Entry is the name of the function where execution starts.
	Entry     string
	functions map[string]*Function
	order     []string
}

func NewProgram(entry string, funs ...*Function) (*Program, error) {
	prog := &Program{Entry: entry, functions: make(map[string]*Function)}
	for _, f := range funs {
		if _, dup := prog.functions[f.Name]; dup {
			return nil, fmt.Errorf("%w: function %s is defined twice", ErrInvalidProgram, f.Name)
		}
		prog.functions[f.Name] = f
		prog.order = append(prog.order, f.Name)
	}
	if err := prog.validate(); err != nil {
		return nil, err
	}
	return prog, nil
}

// Function retrieves a function by name.
func (p *Program) Function(name string) (*Function, bool) {
	f, ok := p.functions[name]
	return f, ok
}

// Body retrieves a function by name only if its body is available.
func (p *Program) Body(name string) (*Function, bool) {
	f, ok := p.functions[name]
	if !ok || f.IsForeign() {
		return nil, false
	}
	return f, true
}

// Functions returns all functions in definition order.
func (p *Program) Functions() []*Function {
	res := make([]*Function, 0, len(p.order))
	for _, name := range p.order {
		res = append(res, p.functions[name])
	}
	return res
}

// Names returns the sorted names of all functions.
func (p *Program) Names() []string {
	names := append([]string{}, p.order...)
	sort.Strings(names)
	return names
}

type Function struct {
	Name string
	// Locals holds the declared type of every local slot, indexed by slot.
	// It may be empty, in which case nothing is known about types.
	Locals []string
	Blocks []*Block
}

// IsForeign holds for functions whose body is not available.
func (f *Function) IsForeign() bool { return len(f.Blocks) == 0 }

// Type returns the declared type of a local, or "" if it is unknown.
func (f *Function) Type(l Local) string {
	if int(l) < 0 || int(l) >= len(f.Locals) {
		return ""
	}
	return f.Locals[l]
}

// OperandType returns the type of an operand: the declared type of the
// underlying local for places, or the written type of constants.
func (f *Function) OperandType(op Operand) string {
	if op.Kind == Constant {
		return op.Type
	}
	return f.Type(op.Place.Local)
}

func (f *Function) String() string { return f.Name }

type Block struct {
	Statements []Statement
	Terminator Terminator
}

type StatementKind int

const (
	Assign StatementKind = iota
	StorageLive
	StorageDead
	Nop
)

func (k StatementKind) String() string {
	return [...]string{"assign", "storage_live", "storage_dead", "nop"}[k]
}

type Statement struct {
	Kind StatementKind
	// Target of an assignment or the local of a storage marker.
	Place  Place
	Rvalue Rvalue
}

func (s Statement) String() string {
	switch s.Kind {
	case Assign:
		return fmt.Sprintf("%s = %s", s.Place, s.Rvalue)
	case StorageLive, StorageDead:
		return fmt.Sprintf("%s(%s)", s.Kind, s.Place)
	}
	return s.Kind.String()
}

type RvalueKind int

const (
	Use RvalueKind = iota
	Ref
	AddressOf
	Cast
	Aggregate
	// Other covers every rvalue that cannot carry a synchronization handle,
	// e.g. arithmetic or discriminant reads.
	Other
)

type Rvalue struct {
	Kind RvalueKind
	// Operand of Use and Cast.
	Operand Operand
	// Place of Ref and AddressOf.
	Place Place
	// Operands of Aggregate.
	Operands []Operand
}

func (r Rvalue) String() string {
	switch r.Kind {
	case Use:
		return r.Operand.String()
	case Cast:
		return fmt.Sprintf("%s as _", r.Operand)
	case Ref:
		return "&" + r.Place.String()
	case AddressOf:
		return "&raw " + r.Place.String()
	case Aggregate:
		str := "("
		for i, op := range r.Operands {
			if i > 0 {
				str += ", "
			}
			str += op.String()
		}
		return str + ")"
	}
	return "<other>"
}

type OperandKind int

const (
	Copy OperandKind = iota
	Move
	Constant
)

type Operand struct {
	Kind  OperandKind
	Place Place
	// Type of a constant, e.g. the function item type of a closure.
	Type string
}

func (o Operand) String() string {
	switch o.Kind {
	case Copy:
		return "copy " + o.Place.String()
	case Move:
		return "move " + o.Place.String()
	}
	if o.Type == "" {
		return "const"
	}
	return "const " + o.Type
}

// IsPlace holds for operands that read a place.
func (o Operand) IsPlace() bool { return o.Kind != Constant }
