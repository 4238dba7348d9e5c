package petrinet

import (
	"bufio"
	"fmt"
	"io"
)

// writeList writes a LoLA list section. Entries are separated by commas
// and the list is terminated by a semicolon.
func writeList(w *bufio.Writer, header, indent string, entries []string) {
	if len(entries) == 0 {
		fmt.Fprintf(w, "%s;\n", header)
		return
	}
	fmt.Fprintln(w, header)
	for i, e := range entries {
		sep := ","
		if i == len(entries)-1 {
			sep = ";"
		}
		fmt.Fprintf(w, "%s%s%s\n", indent, e, sep)
	}
}

func weighted(arcs []Arc, label func(Arc) string) (res []string) {
	for _, a := range arcs {
		res = append(res, fmt.Sprintf("%s : %d", label(a), a.Weight))
	}
	return
}

// WriteLola writes the net in the input format of the LoLA model checker.
func (n *Net) WriteLola(w io.Writer) error {
	bw := bufio.NewWriter(w)

	var places, marking []string
	for _, p := range n.Places() {
		places = append(places, p.label)
		if tokens := n.marking[p]; tokens > 0 {
			marking = append(marking, fmt.Sprintf("%s : %d", p.label, tokens))
		}
	}

	writeList(bw, "PLACE", "    ", places)
	fmt.Fprintln(bw)
	writeList(bw, "MARKING", "    ", marking)

	for _, t := range n.Transitions() {
		fmt.Fprintf(bw, "\nTRANSITION %s\n", t.label)
		writeList(bw, "  CONSUME", "    ",
			weighted(n.Preset(t), func(a Arc) string { return a.Source }))
		writeList(bw, "  PRODUCE", "    ",
			weighted(n.Postset(t), func(a Arc) string { return a.Target }))
	}

	return bw.Flush()
}
