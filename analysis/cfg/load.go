package cfg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/txtar"
	"gopkg.in/yaml.v2"
)

var (
	ErrInvalidProgram = errors.New("invalid program")
	ErrNoEntry        = errors.New("entry function not found")
)

// ArchiveMember is the name of the txtar member holding the program description.
const ArchiveMember = "program.yaml"

type rawProgram struct {
	Entry     string        `yaml:"entry"`
	Functions []rawFunction `yaml:"functions"`
}

type rawFunction struct {
	Name   string     `yaml:"name"`
	Locals []string   `yaml:"locals"`
	Blocks []rawBlock `yaml:"blocks"`
}

type rawBlock struct {
	Statements []Statement `yaml:"statements"`
	Terminator *Terminator `yaml:"terminator"`
}

// Load parses a YAML (or JSON) program description.
func Load(data []byte) (*Program, error) {
	var raw rawProgram
	if err := yaml.UnmarshalStrict(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProgram, err)
	}
	if raw.Entry == "" {
		raw.Entry = "main"
	}

	funs := make([]*Function, 0, len(raw.Functions))
	for _, rf := range raw.Functions {
		if rf.Name == "" {
			return nil, fmt.Errorf("%w: function without a name", ErrInvalidProgram)
		}
		f := &Function{Name: rf.Name, Locals: rf.Locals}
		for i, rb := range rf.Blocks {
			if rb.Terminator == nil {
				return nil, fmt.Errorf("%w: %s: block %d has no terminator", ErrInvalidProgram, rf.Name, i)
			}
			f.Blocks = append(f.Blocks, &Block{rb.Statements, *rb.Terminator})
		}
		funs = append(funs, f)
	}
	return NewProgram(raw.Entry, funs...)
}

// LoadArchive reads a program from a txtar archive.
func LoadArchive(data []byte) (*Program, error) {
	ar := txtar.Parse(data)
	for _, f := range ar.Files {
		if f.Name == ArchiveMember {
			return Load(f.Data)
		}
	}
	return nil, fmt.Errorf("%w: archive has no %s member", ErrInvalidProgram, ArchiveMember)
}

// LoadFile reads a program from disk, choosing the format by file extension.
func LoadFile(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml", ".json":
		return Load(data)
	case ".txtar":
		return LoadArchive(data)
	default:
		return nil, fmt.Errorf("unknown program format %q", ext)
	}
}

func (s *Statement) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var str string
	if err := unmarshal(&str); err == nil {
		if str != "nop" {
			return fmt.Errorf("unknown statement %q", str)
		}
		*s = Statement{Kind: Nop}
		return nil
	}

	var raw struct {
		Assign *struct {
			Place  string `yaml:"place"`
			Rvalue Rvalue `yaml:"rvalue"`
		} `yaml:"assign"`
		StorageLive *string `yaml:"storage_live"`
		StorageDead *string `yaml:"storage_dead"`
	}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	var err error
	switch {
	case raw.Assign != nil:
		s.Kind = Assign
		s.Rvalue = raw.Assign.Rvalue
		s.Place, err = ParsePlace(raw.Assign.Place)
	case raw.StorageLive != nil:
		s.Kind = StorageLive
		s.Place, err = ParsePlace(*raw.StorageLive)
	case raw.StorageDead != nil:
		s.Kind = StorageDead
		s.Place, err = ParsePlace(*raw.StorageDead)
	default:
		return errors.New("empty statement")
	}
	return err
}

func (r *Rvalue) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var str string
	if err := unmarshal(&str); err == nil {
		if str != "other" {
			return fmt.Errorf("unknown rvalue %q", str)
		}
		*r = Rvalue{Kind: Other}
		return nil
	}

	var raw struct {
		Use       *string   `yaml:"use"`
		Ref       *string   `yaml:"ref"`
		AddressOf *string   `yaml:"address_of"`
		Cast      *string   `yaml:"cast"`
		Aggregate *[]string `yaml:"aggregate"`
		Other     *string   `yaml:"other"`
	}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	var err error
	switch {
	case raw.Use != nil:
		r.Kind = Use
		r.Operand, err = ParseOperand(*raw.Use)
	case raw.Cast != nil:
		r.Kind = Cast
		r.Operand, err = ParseOperand(*raw.Cast)
	case raw.Ref != nil:
		r.Kind = Ref
		r.Place, err = ParsePlace(*raw.Ref)
	case raw.AddressOf != nil:
		r.Kind = AddressOf
		r.Place, err = ParsePlace(*raw.AddressOf)
	case raw.Aggregate != nil:
		r.Kind = Aggregate
		for _, s := range *raw.Aggregate {
			op, err := ParseOperand(s)
			if err != nil {
				return err
			}
			r.Operands = append(r.Operands, op)
		}
	case raw.Other != nil:
		r.Kind = Other
	default:
		return errors.New("empty rvalue")
	}
	return err
}

type rawCall struct {
	Func        string   `yaml:"func"`
	Kind        string   `yaml:"kind"`
	Args        []string `yaml:"args"`
	Destination string   `yaml:"destination"`
	Target      *int     `yaml:"target"`
	Cleanup     *int     `yaml:"cleanup"`
}

type rawDrop struct {
	Place  string  `yaml:"place"`
	Value  *string `yaml:"value"`
	Target int     `yaml:"target"`
	Unwind *int    `yaml:"unwind"`
}

func optionalBlock(b *int) BlockID {
	if b == nil {
		return NoBlock
	}
	return BlockID(*b)
}

func (t *Terminator) UnmarshalYAML(unmarshal func(interface{}) error) error {
	*t = Terminator{Target: NoBlock, Unwind: NoBlock}

	var str string
	if err := unmarshal(&str); err == nil {
		for k, name := range terminatorNames {
			if name == str {
				switch kind := TerminatorKind(k); kind {
				case Goto, SwitchInt, Drop, Call, Assert, DropAndReplace:
					return fmt.Errorf("terminator %s requires arguments", str)
				default:
					t.Kind = kind
					return nil
				}
			}
		}
		return fmt.Errorf("unknown terminator %q", str)
	}

	var raw struct {
		Goto      *int `yaml:"goto"`
		SwitchInt *struct {
			Discr   string `yaml:"discr"`
			Targets []int  `yaml:"targets"`
		} `yaml:"switch_int"`
		Drop           *rawDrop `yaml:"drop"`
		DropAndReplace *rawDrop `yaml:"drop_and_replace"`
		Assert         *struct {
			Cond    string `yaml:"cond"`
			Target  int    `yaml:"target"`
			Cleanup *int   `yaml:"cleanup"`
		} `yaml:"assert"`
		Call *rawCall `yaml:"call"`
	}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	switch {
	case raw.Goto != nil:
		t.Kind = Goto
		t.Target = BlockID(*raw.Goto)
	case raw.SwitchInt != nil:
		t.Kind = SwitchInt
		if len(raw.SwitchInt.Targets) == 0 {
			return errors.New("switch_int without targets")
		}
		for _, b := range raw.SwitchInt.Targets {
			t.Targets = append(t.Targets, BlockID(b))
		}
	case raw.Drop != nil, raw.DropAndReplace != nil:
		d := raw.Drop
		t.Kind = Drop
		if d == nil {
			d = raw.DropAndReplace
			t.Kind = DropAndReplace
		}
		t.Target = BlockID(d.Target)
		t.Unwind = optionalBlock(d.Unwind)
		p, err := ParsePlace(d.Place)
		if err != nil {
			return err
		}
		t.Place = p
	case raw.Assert != nil:
		t.Kind = Assert
		t.Target = BlockID(raw.Assert.Target)
		t.Unwind = optionalBlock(raw.Assert.Cleanup)
	case raw.Call != nil:
		t.Kind = Call
		t.Target = optionalBlock(raw.Call.Target)
		t.Unwind = optionalBlock(raw.Call.Cleanup)
		call, err := raw.Call.data()
		if err != nil {
			return err
		}
		t.Call = call
	default:
		return errors.New("empty terminator")
	}
	return nil
}

func (rc *rawCall) data() (*CallData, error) {
	if rc.Func == "" {
		return nil, errors.New("call without func")
	}
	call := &CallData{Func: Callee{Name: rc.Func}}

	switch rc.Kind {
	case "", "fn":
		call.Func.Kind = FnDef
	case "closure":
		call.Func.Kind = Closure
	case "fn_ptr":
		call.Func.Kind = FnPtr
	case "dynamic":
		call.Func.Kind = Dynamic
	default:
		return nil, fmt.Errorf("unknown callee kind %q", rc.Kind)
	}

	for _, a := range rc.Args {
		op, err := ParseOperand(a)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, op)
	}

	dest := rc.Destination
	if dest == "" {
		dest = "_0"
	}
	p, err := ParsePlace(dest)
	if err != nil {
		return nil, err
	}
	call.Destination = p
	return call, nil
}

// validate checks that every block target exists, that referenced locals
// are declared, and that the entry function has a body.
func (p *Program) validate() error {
	if _, ok := p.Body(p.Entry); !ok {
		return fmt.Errorf("%w: %s", ErrNoEntry, p.Entry)
	}

	for _, f := range p.Functions() {
		checkLocal := func(pl Place) error {
			if len(f.Locals) > 0 && int(pl.Local) >= len(f.Locals) {
				return fmt.Errorf("%w: %s: local %s is not declared", ErrInvalidProgram, f.Name, pl.Local)
			}
			return nil
		}

		for i, b := range f.Blocks {
			places := []Place{}
			for _, s := range b.Statements {
				if s.Kind == Nop {
					continue
				}
				places = append(places, s.Place)
				if s.Kind == Assign {
					places = append(places, s.Rvalue.Place)
					for _, op := range append([]Operand{s.Rvalue.Operand}, s.Rvalue.Operands...) {
						if op.IsPlace() {
							places = append(places, op.Place)
						}
					}
				}
			}
			if k := b.Terminator.Kind; k == Drop || k == DropAndReplace {
				places = append(places, b.Terminator.Place)
			}
			if call := b.Terminator.Call; call != nil {
				places = append(places, call.Destination)
				for _, op := range call.Args {
					if op.IsPlace() {
						places = append(places, op.Place)
					}
				}
			}
			for _, pl := range places {
				if err := checkLocal(pl); err != nil {
					return err
				}
			}

			for _, succ := range b.Terminator.Successors() {
				if int(succ) < 0 || int(succ) >= len(f.Blocks) {
					return fmt.Errorf("%w: %s: block %d targets missing block %d",
						ErrInvalidProgram, f.Name, i, int(succ))
				}
			}
		}
	}
	return nil
}
