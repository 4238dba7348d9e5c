package main

import (
	"fmt"
	"sort"

	"github.com/cs-au-dk/petrify/analysis/sync"
	"github.com/cs-au-dk/petrify/analysis/translator"
	"github.com/cs-au-dk/petrify/utils"
)

func gatherMetrics(r *translator.Metrics) {
	if !opts.Metrics() || !r.Enabled() {
		return
	}

	msg := "================ Results =====================\n\n"
	msg += "Outcome: " + r.Outcome + "\n"

	if r.Outcome != translator.OUTCOME_TRANSLATED {
		msg += r.Error() + "\n"
	}
	msg += "Time: " + r.Performance() + "\n\n"

	if fs := r.Functions(); len(fs) > 0 {
		names := make([]string, 0, len(fs))
		for name := range fs {
			names = append(names, name)
		}
		sort.Strings(names)

		msg += "Expanded functions: " + fmt.Sprintf("%d", len(fs)) + " {\n"
		for _, name := range names {
			msg += "  " + utils.FunString(name) + " -- " + fmt.Sprintf("%d", fs[name]) + "\n"
		}
		msg += "}\n"
	}

	if ops := r.Operations(); len(ops) > 0 {
		msg += "Primitive operations: {\n"
		for op := sync.MUTEX_NEW; op <= sync.RESULT_UNWRAP; op++ {
			if n, ok := ops[op]; ok {
				msg += "  " + op.String() + " -- " + fmt.Sprintf("%d", n) + "\n"
			}
		}
		msg += "}\n"
	}

	msg += "Translated threads: " + fmt.Sprint(r.Threads()) + "\n"
	msg += "================ Results ====================="
	fmt.Println(msg)
}
