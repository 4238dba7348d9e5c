package sync

/*
	Package sync models the synchronization primitives of the analyzed program.
	Each manager owns an arena of the instances of its primitive, creates the
	fixed net gadget of a new instance, and splices the operations on an
	instance into the fragment of the call site performing them.
*/

import (
	"strings"

	"github.com/cs-au-dk/petrify/analysis/cfg"
	"github.com/cs-au-dk/petrify/analysis/memory"
	"github.com/cs-au-dk/petrify/analysis/naming"
	"github.com/cs-au-dk/petrify/analysis/netif"
	"github.com/cs-au-dk/petrify/petrinet"
	"github.com/cs-au-dk/petrify/utils"
)

// Operation is a recognized call to a synchronization primitive.
type Operation int

const (
	MUTEX_NEW Operation = iota
	MUTEX_LOCK
	CONDVAR_NEW
	CONDVAR_WAIT
	CONDVAR_NOTIFY_ONE
	THREAD_SPAWN
	THREAD_JOIN
	// Standard library calls returning the handle they receive.
	ARC_NEW
	CLONE
	DEREF
	RESULT_UNWRAP
)

var operationNames = [...]string{
	MUTEX_NEW:          "mutex new",
	MUTEX_LOCK:         "mutex lock",
	CONDVAR_NEW:        "condvar new",
	CONDVAR_WAIT:       "condvar wait",
	CONDVAR_NOTIFY_ONE: "condvar notify_one",
	THREAD_SPAWN:       "thread spawn",
	THREAD_JOIN:        "thread join",
	ARC_NEW:            "arc new",
	CLONE:              "clone",
	DEREF:              "deref",
	RESULT_UNWRAP:      "result unwrap",
}

func (op Operation) String() string { return operationNames[op] }

var operations = map[string]Operation{
	"std::sync::Mutex::<T>::new":         MUTEX_NEW,
	"std::sync::Mutex::<T>::lock":        MUTEX_LOCK,
	"std::sync::Condvar::new":            CONDVAR_NEW,
	"std::sync::Condvar::wait":           CONDVAR_WAIT,
	"std::sync::Condvar::wait_while":     CONDVAR_WAIT,
	"std::sync::Condvar::notify_one":     CONDVAR_NOTIFY_ONE,
	"std::thread::spawn":                 THREAD_SPAWN,
	"std::thread::JoinHandle::<T>::join": THREAD_JOIN,

	"std::sync::Arc::<T>::new":            ARC_NEW,
	"std::clone::Clone::clone":            CLONE,
	"std::ops::Deref::deref":              DEREF,
	"std::ops::DerefMut::deref_mut":       DEREF,
	"std::result::Result::<T, E>::unwrap": RESULT_UNWRAP,
}

// Recognize returns the operation performed by calling the named function.
// Qualified trait calls, e.g. "<std::sync::Arc<T> as std::clone::Clone>::clone",
// are recognized by their trait method.
func Recognize(name string) (Operation, bool) {
	if op, ok := operations[name]; ok {
		return op, true
	}
	op, ok := operations[traitMethod(name)]
	return op, ok
}

// traitMethod rewrites "<TYPE as TRAIT>::method" to "TRAIT::method".
// Other names are returned unchanged.
func traitMethod(name string) string {
	if !strings.HasPrefix(name, "<") {
		return name
	}
	depth := 0
	for i, r := range name {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
			if depth > 0 {
				continue
			}
			qual := name[1:i]
			j := strings.LastIndex(qual, " as ")
			if j < 0 {
				return name
			}
			return qual[j+len(" as "):] + name[i+1:]
		}
	}
	return name
}

// Site describes the call performing an operation.
type Site struct {
	// Name of the called function.
	Name     string
	Function *cfg.Function
	Memory   *memory.Memory
	Args     []cfg.Operand
	Dest     cfg.Place
	// Whether the call has a cleanup block, requiring an unwind transition.
	Cleanup bool
}

// receiver finds the handle of the given kind passed as the argument at position i.
// Failing to find it is a translator defect.
func (s Site) receiver(i int, kind memory.Kind) memory.Handle {
	if i >= len(s.Args) || !s.Args[i].IsPlace() {
		utils.Bug("%s: argument %d does not denote a %s", s.Name, i, kind)
	}
	h, err := s.Memory.Lookup(s.Args[i].Place, kind)
	utils.Must(err)
	return h
}

// Fragment is the part of the net representing a call. The caller connects the
// call-site place to Start and, if present, to Unwind. End produces into the
// place of the call's target block, and Unwind into the place of its cleanup block.
// For operations with a single transition Start and End coincide.
type Fragment struct {
	Start  *petrinet.Transition
	End    *petrinet.Transition
	Unwind *petrinet.Transition
}

// Task is deferred wiring, run after the caller has connected the fragment.
type Task func()

func single(b *netif.Builder, label string, site Site) Fragment {
	t := b.Transition(label)
	f := Fragment{Start: t, End: t}
	if site.Cleanup {
		f.Unwind = b.Transition(naming.Unwind(label))
	}
	return f
}

// Managers dispatches operations to the manager of their primitive.
type Managers struct {
	Mutexes  *Mutexes
	Condvars *Condvars
	Threads  *Threads
	Forwards *Forwards
}

// NewManagers creates the managers of a translation. Every spawned thread is
// passed to onSpawn once its spawn call has been wired.
func NewManagers(b *netif.Builder, onSpawn func(*Thread)) *Managers {
	mutexes := &Mutexes{b: b}
	return &Managers{
		Mutexes:  mutexes,
		Condvars: &Condvars{b: b, mutexes: mutexes},
		Threads:  &Threads{b: b, onSpawn: onSpawn},
		Forwards: &Forwards{b: b, counts: make(map[Operation]int)},
	}
}

// Handle emits the fragment of an operation.
func (ms *Managers) Handle(op Operation, site Site) (Fragment, Task) {
	switch op {
	case MUTEX_NEW:
		return ms.Mutexes.New(site)
	case MUTEX_LOCK:
		return ms.Mutexes.Lock(site)
	case CONDVAR_NEW:
		return ms.Condvars.New(site)
	case CONDVAR_WAIT:
		return ms.Condvars.Wait(site)
	case CONDVAR_NOTIFY_ONE:
		return ms.Condvars.NotifyOne(site)
	case THREAD_SPAWN:
		return ms.Threads.Spawn(site)
	case THREAD_JOIN:
		return ms.Threads.Join(site)
	case ARC_NEW, CLONE, DEREF, RESULT_UNWRAP:
		return ms.Forwards.Forward(op, site)
	}
	utils.Bug("no handler for operation %d", int(op))
	return Fragment{}, nil
}
