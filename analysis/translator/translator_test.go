package translator

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/cs-au-dk/petrify/analysis/cfg"
	"github.com/cs-au-dk/petrify/analysis/netcheck"
	"github.com/cs-au-dk/petrify/analysis/sync"
	"github.com/cs-au-dk/petrify/petrinet"
	"github.com/cs-au-dk/petrify/testutil"

	"github.com/sebdah/goldie/v2"
)

const minimalProgram = `
functions:
  - name: main
    blocks:
      - terminator: return
`

func translate(t *testing.T, prog *cfg.Program) *petrinet.Net {
	t.Helper()
	net, _, err := Translate(prog, TranslatorConfig{})
	if err != nil {
		t.Fatal(err)
	}
	return net
}

func formats(t *testing.T, net *petrinet.Net) map[string][]byte {
	t.Helper()
	res := make(map[string][]byte)
	for ext, write := range map[string]func(*bytes.Buffer) error{
		"dot":  func(b *bytes.Buffer) error { return net.WriteDot(b) },
		"lola": func(b *bytes.Buffer) error { return net.WriteLola(b) },
		"pnml": func(b *bytes.Buffer) error { return net.WritePNML(b) },
	} {
		var buf bytes.Buffer
		if err := write(&buf); err != nil {
			t.Fatal(err)
		}
		res[ext] = buf.Bytes()
	}
	return res
}

func TestMinimalProgram(t *testing.T) {
	net := translate(t, testutil.LoadProgramFromSource(t, minimalProgram))
	out := formats(t, net)
	for _, ext := range []string{"dot", "lola", "pnml"} {
		t.Run(ext, func(t *testing.T) {
			goldie.New(t).Assert(t, "minimal."+ext, out[ext])
		})
	}
}

func TestScenarios(t *testing.T) {
	for _, path := range testutil.ListScenarios(t, filepath.Join("testdata", "scenarios")) {
		s := testutil.LoadScenario(t, path)
		t.Run(s.Name, func(t *testing.T) {
			prog, err := s.Program()
			if err != nil {
				t.Fatal(err)
			}
			net, _, err := Translate(prog, TranslatorConfig{})

			for _, exp := range s.Expect {
				if exp.Kind != testutil.EXP_ERROR {
					continue
				}
				var class error
				switch exp.Label {
				case "unsupported":
					class = ErrUnsupported
				case "recursion":
					class = ErrRecursion
				case "internal":
					class = ErrInternal
				default:
					t.Fatalf("unknown error class %s", exp.Label)
				}
				if !errors.Is(err, class) {
					t.Errorf("expected an error of class %s, got %v", exp.Label, err)
				}
				if net != nil {
					t.Error("a failed translation should not return a net")
				}
				return
			}

			if err != nil {
				t.Fatal(err)
			}
			if issues := netcheck.WellFormed(net); len(issues) > 0 {
				t.Errorf("ill-formed net: %v", issues)
			}
			testutil.CheckNet(t, net, s.Expect)
		})
	}
}

func TestDeterminism(t *testing.T) {
	s := testutil.LoadScenario(t, filepath.Join("testdata", "scenarios", "condvar_wait_notify.txtar"))
	prog, err := s.Program()
	if err != nil {
		t.Fatal(err)
	}

	first := formats(t, translate(t, prog))
	for i := 0; i < 5; i++ {
		again := formats(t, translate(t, prog))
		for ext, out := range first {
			if !bytes.Equal(out, again[ext]) {
				t.Fatalf("%s output differs between runs", ext)
			}
		}
	}
}

func TestPNMLRoundTrip(t *testing.T) {
	s := testutil.LoadScenario(t, filepath.Join("testdata", "scenarios", "shared_mutex_thread.txtar"))
	prog, err := s.Program()
	if err != nil {
		t.Fatal(err)
	}
	net := translate(t, prog)

	var buf bytes.Buffer
	if err := net.WritePNML(&buf); err != nil {
		t.Fatal(err)
	}
	read, err := petrinet.ReadPNML(&buf)
	if err != nil {
		t.Fatal(err)
	}

	orig, back := formats(t, net), formats(t, read)
	for ext := range orig {
		if !bytes.Equal(orig[ext], back[ext]) {
			t.Errorf("%s output changed after a PNML round trip", ext)
		}
	}
}

func TestGuardDropReturnsToken(t *testing.T) {
	s := testutil.LoadScenario(t, filepath.Join("testdata", "scenarios", "mutex_lock_drop.txtar"))
	prog, err := s.Program()
	if err != nil {
		t.Fatal(err)
	}
	net := translate(t, prog)

	if net.Weight("MUTEX_0_LOCKED", "main_DROP_0") != 1 || net.Weight("main_DROP_0", "MUTEX_0_UNLOCKED") != 1 {
		t.Fatal("dropping the guard does not release the mutex")
	}

	ss := testutil.Explore(net, testutil.ExploreLimit)
	ended := false
	for _, m := range ss.Dead() {
		if ss.Tokens(m, "PROGRAM_END") == 0 {
			continue
		}
		ended = true
		if ss.Tokens(m, "MUTEX_0_UNLOCKED") != 1 || ss.Tokens(m, "MUTEX_0_LOCKED") != 0 {
			t.Errorf("the mutex is still locked at the end: %s", ss.Format(m))
		}
	}
	if !ended {
		t.Error("the program never ends")
	}
}

func TestUnawaitedNotificationsAreLost(t *testing.T) {
	s := testutil.LoadScenario(t, filepath.Join("testdata", "scenarios", "condvar_lost_signal.txtar"))
	prog, err := s.Program()
	if err != nil {
		t.Fatal(err)
	}
	ss := testutil.Explore(translate(t, prog), testutil.ExploreLimit)

	if !ss.Reachable(func(m testutil.Marking) bool { return ss.Tokens(m, "CONDVAR_0_SIGNAL_INPUT") == 2 }) {
		t.Error("both notifications should be able to wait for the lost signal transition")
	}
	if len(ss.Dead()) != 1 {
		t.Fatalf("expected a single final marking, got %d", len(ss.Dead()))
	}
	m := ss.Dead()[0]
	if ss.Tokens(m, "PROGRAM_END") != 1 || ss.Tokens(m, "CONDVAR_0_SIGNAL_INPUT") != 0 || ss.Tokens(m, "CONDVAR_0_SIGNAL_OUTPUT") != 0 {
		t.Errorf("both signals should be lost, got %s", ss.Format(m))
	}
}

func TestAbortSkipsUnwinding(t *testing.T) {
	s := testutil.LoadScenario(t, filepath.Join("testdata", "scenarios", "assert_abort.txtar"))
	prog, err := s.Program()
	if err != nil {
		t.Fatal(err)
	}
	net := translate(t, prog)

	for _, arc := range []struct {
		src, dst string
	}{
		{"PROGRAM_START", "main_ASSERT_0"},
		{"main_ASSERT_0", "main_BB1"},
		{"PROGRAM_START", "main_ASSERT_CLEANUP_0"},
		{"main_ASSERT_CLEANUP_0", "main_BB2"},
		{"main_BB2", "main_ABORT_0"},
		{"main_ABORT_0", "PROGRAM_PANIC"},
	} {
		if net.Weight(arc.src, arc.dst) != 1 {
			t.Errorf("missing arc %s -> %s", arc.src, arc.dst)
		}
	}
}

func TestJoinOfEndlessThreadBlocks(t *testing.T) {
	s := testutil.LoadScenario(t, filepath.Join("testdata", "scenarios", "join_endless_thread.txtar"))
	prog, err := s.Program()
	if err != nil {
		t.Fatal(err)
	}
	net := translate(t, prog)

	join, ok := net.Transition("std_thread_JoinHandle_T_join_0")
	if !ok {
		t.Fatal("missing join transition")
	}
	consumesEnd := false
	for _, a := range net.Preset(join) {
		consumesEnd = consumesEnd || a.Source == "THREAD_0_END"
	}
	if !consumesEnd {
		t.Error("join does not wait for the end of the thread")
	}
	if producers := net.Producers(mustPlace(t, net, "THREAD_0_END")); len(producers) != 0 {
		t.Errorf("nothing should end the thread, got %v", producers)
	}
}

func mustPlace(t *testing.T, net *petrinet.Net, label string) *petrinet.Place {
	t.Helper()
	p, ok := net.Place(label)
	if !ok {
		t.Fatalf("missing place %s", label)
	}
	return p
}

func TestUnsupportedCallees(t *testing.T) {
	for _, kind := range []string{"fn_ptr", "dynamic"} {
		prog := testutil.LoadProgramFromSource(t, `
functions:
  - name: main
    blocks:
      - terminator:
          call: {func: "callback", kind: `+kind+`, target: 1}
      - terminator: return
`)
		net, _, err := Translate(prog, TranslatorConfig{})
		if !errors.Is(err, ErrUnsupported) || net != nil {
			t.Errorf("%s: expected an unsupported construct error, got %v", kind, err)
		}
		if errors.Is(err, ErrInternal) {
			t.Errorf("%s: unsupported input is not an internal error", kind)
		}
	}
}

func TestInternalErrorIsRecovered(t *testing.T) {
	// The receiver of lock is a constant, which never denotes a mutex.
	prog := testutil.LoadProgramFromSource(t, `
functions:
  - name: main
    blocks:
      - terminator:
          call: {func: "std::sync::Mutex::<T>::lock", args: ["const &std::sync::Mutex<i32>"], target: 1}
      - terminator: return
`)
	net, metrics, err := Translate(prog, TranslatorConfig{Metrics: true})
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected an internal error, got %v", err)
	}
	var ierr *InternalError
	if !errors.As(err, &ierr) {
		t.Errorf("expected an *InternalError, got %T", err)
	}
	if errors.Is(err, ErrUnsupported) {
		t.Error("internal errors are not unsupported constructs")
	}
	if net != nil {
		t.Error("no net should be returned")
	}
	if metrics.Outcome != OUTCOME_PANIC {
		t.Errorf("expected outcome %s, got %s", OUTCOME_PANIC, metrics.Outcome)
	}
}

func TestEntryOverride(t *testing.T) {
	prog := testutil.LoadProgramFromSource(t, `
functions:
  - name: main
    blocks:
      - terminator: return
  - name: other
    blocks:
      - terminator: unreachable
`)
	net, _, err := Translate(prog, TranslatorConfig{Entry: "other"})
	if err != nil {
		t.Fatal(err)
	}
	if !net.Has("other_UNREACHABLE_0") || net.Has("main_RETURN") {
		t.Errorf("expected only other to be translated, got %v", net.Transitions())
	}

	if _, _, err := Translate(prog, TranslatorConfig{Entry: "missing"}); !errors.Is(err, cfg.ErrNoEntry) {
		t.Errorf("expected a missing entry error, got %v", err)
	}
}

func TestMetrics(t *testing.T) {
	s := testutil.LoadScenario(t, filepath.Join("testdata", "scenarios", "guard_from_helper.txtar"))
	prog, err := s.Program()
	if err != nil {
		t.Fatal(err)
	}

	_, metrics, err := Translate(prog, TranslatorConfig{Metrics: true})
	if err != nil {
		t.Fatal(err)
	}
	if metrics.Outcome != OUTCOME_TRANSLATED {
		t.Errorf("unexpected outcome %s", metrics.Outcome)
	}
	if fs := metrics.Functions(); fs["main"] != 1 || fs["helper"] != 2 {
		t.Errorf("unexpected expanded functions %v", fs)
	}
	if ops := metrics.Operations(); ops[sync.MUTEX_NEW] != 1 || ops[sync.MUTEX_LOCK] != 2 {
		t.Errorf("unexpected operations %v", ops)
	}

	_, metrics, _ = Translate(prog, TranslatorConfig{})
	if metrics.Enabled() || metrics.Functions() != nil {
		t.Error("metrics should be disabled")
	}
}
