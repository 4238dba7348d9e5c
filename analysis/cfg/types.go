package cfg

import "strings"

// PrimitiveType classifies declared types that may carry a synchronization handle.
type PrimitiveType int

const (
	NotPrimitive PrimitiveType = iota
	MutexType
	GuardType
	CondvarType
	JoinHandleType
)

// Order matters: "MutexGuard" must be tested before "Mutex".
var primitiveTypes = []struct {
	substr string
	typ    PrimitiveType
}{
	{"std::sync::MutexGuard<", GuardType},
	{"std::sync::Mutex<", MutexType},
	{"std::sync::Condvar", CondvarType},
	{"std::thread::JoinHandle<", JoinHandleType},
}

// Classify recognizes primitive types by substring match on the declared type,
// so references, Arc wrappers and tuples containing a primitive are also
// recognized.
func Classify(ty string) PrimitiveType {
	for _, p := range primitiveTypes {
		if strings.Contains(ty, p.substr) {
			return p.typ
		}
	}
	return NotPrimitive
}

// MayCarryHandle holds if a value of the declared type may denote a handle.
// Unknown types are treated conservatively.
func MayCarryHandle(ty string) bool {
	return ty == "" || Classify(ty) != NotPrimitive
}

// ClosureName extracts the name of the function implementing a closure or
// function item from its type, e.g. "{closure@main::{closure#0}}" yields
// "main::{closure#0}" and "fn() {worker}" yields "worker".
func ClosureName(ty string) (string, bool) {
	ty = strings.TrimSpace(ty)
	for _, delim := range []struct{ open, close string }{
		{"{closure@", "}"},
		{"[closure@", "]"},
	} {
		if strings.HasPrefix(ty, delim.open) && strings.HasSuffix(ty, delim.close) {
			return ty[len(delim.open) : len(ty)-len(delim.close)], true
		}
	}

	if !strings.HasSuffix(ty, "}") {
		return "", false
	}
	// Find the brace opening the trailing group.
	depth := 0
	for i := len(ty) - 1; i >= 0; i-- {
		switch ty[i] {
		case '}':
			depth++
		case '{':
			depth--
			if depth == 0 {
				name := ty[i+1 : len(ty)-1]
				return name, name != ""
			}
		}
	}
	return "", false
}
