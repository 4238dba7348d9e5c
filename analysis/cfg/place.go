package cfg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cs-au-dk/petrify/utils"
)

// Local is the index of a local variable slot.
type Local int

// ReturnSlot holds the return value of a function.
const ReturnSlot Local = 0

func (l Local) String() string { return fmt.Sprintf("_%d", int(l)) }

func (l Local) Hash() uint32       { return utils.HashCombine(uint32(l)) }
func (l Local) Equal(o Local) bool { return l == o }

type ProjectionKind int

const (
	Deref ProjectionKind = iota
	Field
)

type Projection struct {
	Kind  ProjectionKind
	Field int
}

// Place is a local slot followed by projections, applied in order.
type Place struct {
	Local      Local
	Projection []Projection
}

// LocalPlace returns the place denoting the whole local.
func LocalPlace(l Local) Place { return Place{Local: l} }

func (p Place) String() string {
	str := p.Local.String()
	for _, proj := range p.Projection {
		switch proj.Kind {
		case Deref:
			str = "(*" + str + ")"
		case Field:
			str = str + "." + strconv.Itoa(proj.Field)
		}
	}
	return str
}

// ParsePlace reads a place written in MIR syntax, e.g. "_3", "(*_2)",
// "(*_2).1" or "_4.0".
func ParsePlace(s string) (Place, error) {
	p, err := parsePlace(strings.TrimSpace(s))
	if err != nil {
		return Place{}, fmt.Errorf("%w: place %q: %v", ErrInvalidProgram, s, err)
	}
	return p, nil
}

func parsePlace(s string) (Place, error) {
	if s == "" {
		return Place{}, fmt.Errorf("empty place")
	}

	// Field projection: split at the last dot outside of parentheses.
	depth := 0
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ')':
			depth++
		case '(':
			depth--
		case '.':
			if depth != 0 {
				continue
			}
			field, err := strconv.Atoi(s[i+1:])
			if err != nil || field < 0 {
				return Place{}, fmt.Errorf("invalid field %q", s[i+1:])
			}
			base, err := parsePlace(s[:i])
			if err != nil {
				return Place{}, err
			}
			base.Projection = append(base.Projection, Projection{Field, field})
			return base, nil
		}
	}

	if s[0] == '(' {
		if s[len(s)-1] != ')' {
			return Place{}, fmt.Errorf("unbalanced parentheses")
		}
		inner := strings.TrimSpace(s[1 : len(s)-1])
		if strings.HasPrefix(inner, "*") {
			base, err := parsePlace(strings.TrimSpace(inner[1:]))
			if err != nil {
				return Place{}, err
			}
			base.Projection = append(base.Projection, Projection{Kind: Deref})
			return base, nil
		}
		return parsePlace(inner)
	}

	if s[0] != '_' {
		return Place{}, fmt.Errorf("expected a local")
	}
	l, err := strconv.Atoi(s[1:])
	if err != nil || l < 0 {
		return Place{}, fmt.Errorf("invalid local %q", s)
	}
	return LocalPlace(Local(l)), nil
}

// ParseOperand reads an operand: "move P", "copy P", "const" or "const TYPE".
func ParseOperand(s string) (Operand, error) {
	s = strings.TrimSpace(s)
	head, rest, _ := strings.Cut(s, " ")
	switch head {
	case "move", "copy":
		p, err := ParsePlace(rest)
		if err != nil {
			return Operand{}, err
		}
		kind := Copy
		if head == "move" {
			kind = Move
		}
		return Operand{Kind: kind, Place: p}, nil
	case "const":
		return Operand{Kind: Constant, Type: strings.TrimSpace(rest)}, nil
	}
	return Operand{}, fmt.Errorf("%w: operand %q", ErrInvalidProgram, s)
}
