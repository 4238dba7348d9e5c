package sync

import (
	"github.com/cs-au-dk/petrify/analysis/naming"
	"github.com/cs-au-dk/petrify/analysis/netif"
	"github.com/cs-au-dk/petrify/utils"
)

var forwardPrefixes = map[Operation]string{
	ARC_NEW:       naming.ArcNew,
	CLONE:         naming.Clone,
	DEREF:         naming.Deref,
	RESULT_UNWRAP: naming.ResultUnwrap,
}

// Forwards translates wrapping and unwrapping calls such as Arc::new or
// Deref::deref. They synchronize with nothing, but the destination refers to
// the same primitive as the first argument.
type Forwards struct {
	b      *netif.Builder
	counts map[Operation]int
}

// Count returns the number of calls of the operation translated so far.
func (fw *Forwards) Count(op Operation) int { return fw.counts[op] }

func (fw *Forwards) Forward(op Operation, site Site) (Fragment, Task) {
	prefix, ok := forwardPrefixes[op]
	if !ok {
		utils.Bug("%s does not forward its argument", op)
	}
	f := single(fw.b, naming.Indexed(prefix, fw.counts[op]), site)
	fw.counts[op]++

	return f, func() {
		if len(site.Args) == 0 {
			site.Memory.Clear(site.Dest)
			return
		}
		site.Memory.LinkOperand(site.Dest, site.Args[0])
	}
}
