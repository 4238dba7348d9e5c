package memory

import (
	"fmt"
	"strings"
)

// Kind is the kind of synchronization primitive a handle refers to.
type Kind int

const (
	Mutex Kind = iota
	Guard
	Condvar
	Thread
)

func (k Kind) String() string {
	return [...]string{"mutex", "guard", "condvar", "thread"}[k]
}

// Value is what a slot may denote: a handle or an aggregate of values.
type Value interface {
	fmt.Stringer
	value()
}

// Handle refers to a primitive instance by its index in the arena of the
// manager responsible for its kind. A guard shares the index of its mutex.
type Handle struct {
	Kind  Kind
	Index int
}

func (Handle) value() {}

func (h Handle) String() string {
	return fmt.Sprintf("%s#%d", h.Kind, h.Index)
}

// Aggregate holds a value per position. Positions without a handle are nil.
type Aggregate []Value

func (Aggregate) value() {}

func (a Aggregate) String() string {
	strs := make([]string, len(a))
	for i, v := range a {
		if v == nil {
			strs[i] = "_"
		} else {
			strs[i] = v.String()
		}
	}
	return "(" + strings.Join(strs, ", ") + ")"
}

// Empty holds if the aggregate denotes no handle at any position.
func (a Aggregate) Empty() bool {
	for _, v := range a {
		if v == nil {
			continue
		}
		if agg, ok := v.(Aggregate); !ok || !agg.Empty() {
			return false
		}
	}
	return true
}
