package naming

import (
	"fmt"
	"strings"
	"unicode"
)

// Global places of every translated program.
const (
	ProgramStart = "PROGRAM_START"
	ProgramEnd   = "PROGRAM_END"
	ProgramPanic = "PROGRAM_PANIC"
)

// Sanitize turns a path such as "std::sync::Mutex::<T>::lock" into
// a plain identifier ("std_sync_Mutex_T_lock").
func Sanitize(name string) string {
	name = strings.ReplaceAll(name, "::", "_")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '<' || r == '>' || r == ' ':
		case r == '_' || r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Indexed appends a zero-based instance index to the sanitized name.
func Indexed(name string, i int) string {
	return fmt.Sprintf("%s_%d", Sanitize(name), i)
}

// Unwind returns the label of the abnormal-path variant of a transition.
func Unwind(label string) string {
	return label + "_UNWIND"
}

// Foreign call transitions.
func Call(name string) string          { return Sanitize(name) + "_CALL" }
func CallUnwind(name string) string    { return Sanitize(name) + "_CALL_UNWIND" }
func DivergingCall(name string) string { return Sanitize(name) + "_DIVERGING_CALL" }
func Panic(name string) string         { return Sanitize(name) + "_PANIC" }

// Instance returns the label of the n-th translated instance of a function.
func Instance(name string, n int) string {
	if n == 0 {
		return Sanitize(name)
	}
	return fmt.Sprintf("%s_%d", Sanitize(name), n)
}

// Kinds of control-flow transitions emitted per function instance.
// Each kind has its own counter.
type Kind string

const (
	GOTO           Kind = "GOTO"
	SWITCH_INT     Kind = "SWITCH_INT"
	RETURN         Kind = "RETURN"
	UNWIND         Kind = "UNWIND"
	ABORT          Kind = "ABORT"
	UNREACHABLE    Kind = "UNREACHABLE"
	DROP           Kind = "DROP"
	DROP_UNWIND    Kind = "DROP_UNWIND"
	ASSERT         Kind = "ASSERT"
	ASSERT_CLEANUP Kind = "ASSERT_CLEANUP"
)

// Function produces the labels of one translated function instance.
type Function struct {
	name   string
	counts map[Kind]int
}

// NewFunction creates the label source for a function instance whose
// sanitized label is already unique.
func NewFunction(label string) *Function {
	return &Function{label, make(map[Kind]int)}
}

func (f *Function) Name() string { return f.name }

func (f *Function) next(kind Kind) int {
	k := f.counts[kind]
	f.counts[kind]++
	return k
}

// Next returns the label of the next transition of the given kind.
// The first return of a function is labeled without index.
func (f *Function) Next(kind Kind) string {
	k := f.next(kind)
	if kind == RETURN && k == 0 {
		return f.name + "_RETURN"
	}
	return fmt.Sprintf("%s_%s_%d", f.name, kind, k)
}

// NextSwitch returns the labels of the branches of the next switch.
func (f *Function) NextSwitch(branches int) []string {
	k := f.next(SWITCH_INT)
	res := make([]string, branches)
	for j := range res {
		res[j] = fmt.Sprintf("%s_%s_%d_%d", f.name, SWITCH_INT, k, j)
	}
	return res
}

// Block returns the label of the entry place of a basic block.
func (f *Function) Block(index int) string {
	return fmt.Sprintf("%s_BB%d", f.name, index)
}

// Primitive gadget places.
func MutexUnlocked(i int) string { return fmt.Sprintf("MUTEX_%d_UNLOCKED", i) }
func MutexLocked(i int) string   { return fmt.Sprintf("MUTEX_%d_LOCKED", i) }

func CondvarLostSignalPossible(i int) string {
	return fmt.Sprintf("CONDVAR_%d_LOST_SIGNAL_POSSIBLE", i)
}
func CondvarSignalInput(i int) string  { return fmt.Sprintf("CONDVAR_%d_SIGNAL_INPUT", i) }
func CondvarWaitInput(i int) string    { return fmt.Sprintf("CONDVAR_%d_WAIT_INPUT", i) }
func CondvarSignalOutput(i int) string { return fmt.Sprintf("CONDVAR_%d_SIGNAL_OUTPUT", i) }
func CondvarLostSignal(i int) string   { return fmt.Sprintf("CONDVAR_%d_LOST_SIGNAL", i) }
func CondvarSignal(i int) string       { return fmt.Sprintf("CONDVAR_%d_SIGNAL", i) }

func ThreadStart(i int) string { return fmt.Sprintf("THREAD_%d_START", i) }
func ThreadEnd(i int) string   { return fmt.Sprintf("THREAD_%d_END", i) }

// ThreadBody labels the transition standing in for a thread whose body is unknown.
func ThreadBody(i int) string { return fmt.Sprintf("THREAD_%d_BODY", i) }

// Label prefixes of the standard library calls that hand back the handle they receive.
const (
	ArcNew       = "std_sync_Arc_T_new"
	Clone        = "std_clone_Clone_clone"
	Deref        = "std_ops_Deref_deref"
	ResultUnwrap = "std_result_Result_unwrap"
)
