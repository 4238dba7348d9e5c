package translator

import (
	"fmt"
	"sort"
	"time"

	"github.com/cs-au-dk/petrify/analysis/sync"
)

// Metrics encodes mechanisms for logging translation metrics.
// All methods are safe to call on a nil receiver, in which case nothing is gathered.
type Metrics struct {
	expandedFunctions map[string]int
	operations        map[sync.Operation]int
	threads           int
	time              time.Duration
	Outcome           string
	timer             time.Time
	errorMsg          interface{}
}

// Encoding of metric outcomes.
var (
	OUTCOME_TRANSLATED  = "Translated"
	OUTCOME_UNSUPPORTED = "Unsupported"
	OUTCOME_PANIC       = "Panicked"
)

// initMetrics returns a Metrics object if metrics are enabled, and nil otherwise.
func initMetrics(c TranslatorConfig) *Metrics {
	if !c.Metrics {
		return nil
	}
	return &Metrics{
		expandedFunctions: make(map[string]int),
		operations:        make(map[sync.Operation]int),
	}
}

// Enabled checks whether the Metrics object is available.
func (m *Metrics) Enabled() bool {
	return m != nil
}

// ExpandFunction registers that a function body was translated once more.
func (m *Metrics) ExpandFunction(name string) {
	if m == nil {
		return
	}
	m.expandedFunctions[name]++
}

// AddOperation registers that a primitive operation was translated.
func (m *Metrics) AddOperation(op sync.Operation) {
	if m == nil {
		return
	}
	m.operations[op]++
}

// AddThread registers that the body of a spawned thread was translated.
func (m *Metrics) AddThread() {
	if m == nil {
		return
	}
	m.threads++
}

// TimerStart starts a timer before the translation runs.
func (m *Metrics) TimerStart() {
	if m == nil {
		return
	}
	m.timer = time.Now()
}

// timerStop stops the timer and registers the duration of the translation.
func (m *Metrics) timerStop() {
	if m == nil {
		return
	}
	m.time = time.Since(m.timer)
}

// Functions returns how often every function was expanded.
func (m *Metrics) Functions() map[string]int {
	if m == nil {
		return nil
	}
	return m.expandedFunctions
}

// Operations returns how often every primitive operation was translated.
func (m *Metrics) Operations() map[sync.Operation]int {
	if m == nil {
		return nil
	}
	return m.operations
}

// Threads returns the number of translated thread bodies.
func (m *Metrics) Threads() int {
	if m == nil {
		return 0
	}
	return m.threads
}

// Performance logs how fast the translation ran.
func (m *Metrics) Performance() string {
	if m == nil {
		return "- no metrics gathered -"
	}
	return m.time.String()
}

// Panic instructs that the translation hit an internal defect.
func (m *Metrics) Panic(err interface{}) {
	if m == nil || m.Outcome != "" {
		return
	}
	m.Outcome = OUTCOME_PANIC
	m.timerStop()
	m.errorMsg = err
}

// Done instructs that the translation is done, and whether it was rejected.
func (m *Metrics) Done(err error) {
	if m == nil || m.Outcome != "" {
		return
	}
	m.timerStop()
	if err != nil {
		m.Outcome = OUTCOME_UNSUPPORTED
		m.errorMsg = err
	} else {
		m.Outcome = OUTCOME_TRANSLATED
	}
}

// Error prints the error message resulting from running the translation.
func (m *Metrics) Error() string {
	if m == nil || m.errorMsg == nil {
		return ""
	}
	return fmt.Sprint(m.errorMsg)
}

// String summarizes the gathered metrics.
func (m *Metrics) String() string {
	if m == nil {
		return "- no metrics gathered -"
	}

	names := make([]string, 0, len(m.expandedFunctions))
	for name := range m.expandedFunctions {
		names = append(names, name)
	}
	sort.Strings(names)

	str := fmt.Sprintf("Outcome: %s (%s)\n", m.Outcome, m.Performance())
	str += "Expanded functions:\n"
	for _, name := range names {
		str += fmt.Sprintf("  %s: %d\n", name, m.expandedFunctions[name])
	}
	str += "Operations:\n"
	for op := sync.MUTEX_NEW; op <= sync.RESULT_UNWRAP; op++ {
		if n := m.operations[op]; n > 0 {
			str += fmt.Sprintf("  %s: %d\n", op, n)
		}
	}
	str += fmt.Sprintf("Threads: %d", m.threads)
	return str
}
