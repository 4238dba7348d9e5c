package petrinet

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	pnmlNamespace = "http://www.pnml.org/version-2009/grammar/pnml"
	pnmlNetType   = "http://www.pnml.org/version-2009/grammar/ptnet"
	pnmlHeader    = `<?xml version="1.0" encoding="utf-8"?>` + "\n"
)

type pnmlText struct {
	Text string `xml:"text"`
}

type pnmlPlace struct {
	ID             string    `xml:"id,attr"`
	Name           pnmlText  `xml:"name"`
	InitialMarking *pnmlText `xml:"initialMarking,omitempty"`
}

type pnmlTransition struct {
	ID   string   `xml:"id,attr"`
	Name pnmlText `xml:"name"`
}

type pnmlArc struct {
	Source      string    `xml:"source,attr"`
	Target      string    `xml:"target,attr"`
	ID          string    `xml:"id,attr"`
	Name        pnmlText  `xml:"name"`
	Inscription *pnmlText `xml:"inscription,omitempty"`
}

type pnmlPage struct {
	ID          string           `xml:"id,attr"`
	Places      []pnmlPlace      `xml:"place"`
	Transitions []pnmlTransition `xml:"transition"`
	Arcs        []pnmlArc        `xml:"arc"`
}

type pnmlNet struct {
	ID   string   `xml:"id,attr"`
	Type string   `xml:"type,attr"`
	Page pnmlPage `xml:"page"`
}

type pnmlDocument struct {
	XMLName xml.Name `xml:"pnml"`
	Xmlns   string   `xml:"xmlns,attr,omitempty"`
	Net     pnmlNet  `xml:"net"`
}

// WritePNML writes the net as a PNML 2009 place/transition net document.
func (n *Net) WritePNML(w io.Writer) error {
	page := pnmlPage{ID: "page0"}
	for _, p := range n.Places() {
		place := pnmlPlace{ID: p.label, Name: pnmlText{p.label}}
		if tokens := n.marking[p]; tokens > 0 {
			place.InitialMarking = &pnmlText{strconv.Itoa(tokens)}
		}
		page.Places = append(page.Places, place)
	}
	for _, t := range n.Transitions() {
		page.Transitions = append(page.Transitions, pnmlTransition{t.label, pnmlText{t.label}})
	}
	for _, a := range n.Arcs() {
		page.Arcs = append(page.Arcs, pnmlArc{
			Source:      a.Source,
			Target:      a.Target,
			ID:          a.String(),
			Name:        pnmlText{a.String()},
			Inscription: &pnmlText{strconv.Itoa(a.Weight)},
		})
	}

	doc := pnmlDocument{
		Xmlns: pnmlNamespace,
		Net:   pnmlNet{ID: "net0", Type: pnmlNetType, Page: page},
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, pnmlHeader); err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func parseCount(t *pnmlText, def int) (int, error) {
	if t == nil {
		return def, nil
	}
	return strconv.Atoi(strings.TrimSpace(t.Text))
}

// ReadPNML reconstructs a net from a document produced by WritePNML.
// Only the first page of the first net is read.
func ReadPNML(r io.Reader) (*Net, error) {
	var doc pnmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding PNML: %w", err)
	}

	n := New()
	page := doc.Net.Page
	for _, pp := range page.Places {
		p, err := n.AddPlace(pp.ID)
		if err != nil {
			return nil, err
		}
		tokens, err := parseCount(pp.InitialMarking, 0)
		if err != nil {
			return nil, fmt.Errorf("marking of %s: %w", pp.ID, err)
		}
		if err := n.AddTokens(p, tokens); err != nil {
			return nil, err
		}
	}
	for _, pt := range page.Transitions {
		if _, err := n.AddTransition(pt.ID); err != nil {
			return nil, err
		}
	}
	for _, pa := range page.Arcs {
		weight, err := parseCount(pa.Inscription, 1)
		if err != nil {
			return nil, fmt.Errorf("inscription of %s: %w", pa.ID, err)
		}

		if p, ok := n.places[pa.Source]; ok {
			t, ok := n.transitions[pa.Target]
			if !ok {
				return nil, fmt.Errorf("arc %s: unknown transition %q", pa.ID, pa.Target)
			}
			err = n.AddArcPlaceTransition(p, t, weight)
		} else if t, ok := n.transitions[pa.Source]; ok {
			p, ok := n.places[pa.Target]
			if !ok {
				return nil, fmt.Errorf("arc %s: unknown place %q", pa.ID, pa.Target)
			}
			err = n.AddArcTransitionPlace(t, p, weight)
		} else {
			err = fmt.Errorf("arc %s: unknown source %q", pa.ID, pa.Source)
		}
		if err != nil {
			return nil, err
		}
	}
	return n, nil
}
