package petrinet

import (
	"bytes"
	"io"
	"strconv"
	"text/template"
)

const tmplNet = `digraph petrinet {
{{- range .Places}}
    {{.Label}} [shape="circle" xlabel="{{.Label}}" label="{{.Tokens}}"];
{{- end}}
{{- range .Transitions}}
    {{.}} [shape="box" xlabel="" label="{{.}}"];
{{- end}}
{{- range .Arcs}}
    {{.Source}} -> {{.Target}}{{if gt .Weight 1}} [label="{{.Weight}}"]{{end}};
{{- end}}
}
`

var netTemplate = template.Must(template.New("petrinet").Parse(tmplNet))

type dotPlace struct {
	Label  string
	Tokens string
}

type dotNet struct {
	Places      []dotPlace
	Transitions []string
	Arcs        []Arc
}

// tokenLabel renders a marking the way the dot output displays it:
// nothing for an empty place and a bullet for a single token.
func tokenLabel(tokens int) string {
	switch tokens {
	case 0:
		return ""
	case 1:
		return "•"
	}
	return strconv.Itoa(tokens)
}

// WriteDot writes the net in the graphviz dot format.
func (n *Net) WriteDot(w io.Writer) error {
	data := dotNet{Arcs: n.Arcs()}
	for _, p := range n.Places() {
		data.Places = append(data.Places, dotPlace{p.label, tokenLabel(n.marking[p])})
	}
	for _, t := range n.Transitions() {
		data.Transitions = append(data.Transitions, t.label)
	}

	var buf bytes.Buffer
	if err := netTemplate.Execute(&buf, data); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
