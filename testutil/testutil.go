package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/cs-au-dk/petrify/analysis/cfg"
	"github.com/cs-au-dk/petrify/petrinet"

	"golang.org/x/tools/txtar"
)

// ExpectMember is the name of the txtar member listing the expectations of a scenario.
const ExpectMember = "expect"

// LoadProgramFromSource parses a program description or fails the test.
func LoadProgramFromSource(t *testing.T, content string) *cfg.Program {
	t.Helper()
	prog, err := cfg.Load([]byte(content))
	if err != nil {
		t.Fatal(err)
	}
	return prog
}

// Scenario is a program together with the properties expected of its net.
type Scenario struct {
	Name    string
	Archive *txtar.Archive
	Expect  []Expectation
}

// Program loads the program of the scenario.
func (s Scenario) Program() (*cfg.Program, error) {
	return cfg.LoadArchive(txtar.Format(s.Archive))
}

// LoadScenario reads a txtar scenario from disk.
func LoadScenario(t *testing.T, path string) Scenario {
	t.Helper()
	ar, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}

	s := Scenario{
		Name:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Archive: ar,
	}
	for _, f := range ar.Files {
		if f.Name != ExpectMember {
			continue
		}
		exps, err := ParseExpectations(string(f.Data))
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		s.Expect = append(s.Expect, exps...)
	}
	return s
}

// ListScenarios returns the paths of all txtar scenarios in a directory, sorted by name.
func ListScenarios(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	var res []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".txtar" {
			res = append(res, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(res)
	return res
}

// ExpectationKind enumerates the properties a scenario may require.
type ExpectationKind int

const (
	// The place is marked in some reachable marking.
	EXP_REACHABLE ExpectationKind = iota
	// The place is never marked.
	EXP_UNREACHABLE
	// The place never holds more tokens than the given bound.
	EXP_BOUNDED
	// The net contains a node with the given label.
	EXP_NODE
	// Some reachable marking enables no transition and leaves the place empty.
	EXP_DEADLOCK
	// Translation fails with an error of the given class.
	EXP_ERROR
)

var expectationKeywords = map[string]ExpectationKind{
	"reachable":   EXP_REACHABLE,
	"unreachable": EXP_UNREACHABLE,
	"bounded":     EXP_BOUNDED,
	"node":        EXP_NODE,
	"deadlock":    EXP_DEADLOCK,
	"error":       EXP_ERROR,
}

type Expectation struct {
	Kind ExpectationKind
	// Label of a place or transition, or the error class.
	Label string
	Bound int
}

func (e Expectation) String() string {
	for kw, k := range expectationKeywords {
		if k == e.Kind {
			if k == EXP_BOUNDED {
				return fmt.Sprintf("%s %s %d", kw, e.Label, e.Bound)
			}
			return kw + " " + e.Label
		}
	}
	return "?"
}

// ParseExpectations reads one expectation per line. Empty lines and lines
// starting with '#' are ignored.
func ParseExpectations(src string) (res []Expectation, err error) {
	for i, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		kind, ok := expectationKeywords[fields[0]]
		if !ok {
			return nil, fmt.Errorf("line %d: unknown expectation %q", i+1, fields[0])
		}

		exp := Expectation{Kind: kind}
		want := 2
		if kind == EXP_BOUNDED {
			want = 3
		}
		if len(fields) != want {
			return nil, fmt.Errorf("line %d: %s expects %d arguments", i+1, fields[0], want-1)
		}
		exp.Label = fields[1]
		if kind == EXP_BOUNDED {
			if exp.Bound, err = strconv.Atoi(fields[2]); err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
		}
		res = append(res, exp)
	}
	return
}

// ExploreLimit bounds the number of markings explored when checking scenarios.
const ExploreLimit = 100000

// CheckNet verifies the expectations about a net. Error expectations are
// ignored, since they concern the translation rather than the net.
func CheckNet(t *testing.T, net *petrinet.Net, exps []Expectation) {
	t.Helper()
	var ss *StateSpace
	space := func() *StateSpace {
		if ss == nil {
			ss = Explore(net, ExploreLimit)
			if !ss.Complete {
				t.Fatalf("state space exceeds %d markings", ExploreLimit)
			}
		}
		return ss
	}

	for _, exp := range exps {
		if exp.Kind != EXP_ERROR && exp.Kind != EXP_NODE {
			if _, ok := net.Place(exp.Label); !ok {
				t.Errorf("%v: the net has no place %s", exp, exp.Label)
				continue
			}
		}

		switch exp.Kind {
		case EXP_NODE:
			if !net.Has(exp.Label) {
				t.Errorf("%v: the net has no node %s", exp, exp.Label)
			}
		case EXP_REACHABLE:
			if !space().Marks(exp.Label) {
				t.Errorf("%v: no reachable marking marks %s", exp, exp.Label)
			}
		case EXP_UNREACHABLE:
			if space().Marks(exp.Label) {
				t.Errorf("%v: %s is marked in a reachable marking", exp, exp.Label)
			}
		case EXP_BOUNDED:
			if b := space().Bound(exp.Label); b > exp.Bound {
				t.Errorf("%v: %s holds up to %d tokens", exp, exp.Label, b)
			}
		case EXP_DEADLOCK:
			found := false
			for _, m := range space().Dead() {
				if space().Tokens(m, exp.Label) == 0 {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("%v: every dead marking marks %s", exp, exp.Label)
			}
		}
	}
}
