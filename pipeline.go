package main

import (
	"bytes"
	"log"
	"os"
	"path/filepath"

	"github.com/cs-au-dk/petrify/analysis/cfg"
	"github.com/cs-au-dk/petrify/analysis/translator"
	"github.com/cs-au-dk/petrify/petrinet"
	"github.com/cs-au-dk/petrify/utils"
	"github.com/cs-au-dk/petrify/utils/dot"
)

// pipeline is a wrapper around the translation pipeline.
type pipeline struct {
	path string
	prog *cfg.Program
}

// load reads the program description.
func (p *pipeline) load() error {
	log.Println("Loading program from", p.path)
	prog, err := cfg.LoadFile(p.path)
	if err != nil {
		return err
	}
	p.prog = prog

	utils.VerbosePrint("Loaded %d functions:\n", len(prog.Names()))
	for _, f := range prog.Functions() {
		if f.IsForeign() {
			utils.VerbosePrint("  %s\n", utils.FaintString(f.Name+" (foreign)"))
			continue
		}
		utils.VerbosePrint("  %s (%d blocks)\n", utils.FunString(f.Name), len(f.Blocks))
	}
	return nil
}

// translate builds the net of the program.
func (p *pipeline) translate() (*petrinet.Net, *translator.Metrics, error) {
	log.Println("Translating program...")
	net, metrics, err := translator.Translate(p.prog, translator.TranslatorConfig{
		Entry:   opts.Function(),
		Metrics: opts.Metrics(),
		Log:     opts.LogTranslation(),
	})
	if err != nil {
		return nil, metrics, err
	}
	log.Printf("Translation done: %d places, %d transitions\n", net.NumPlaces(), net.NumTransitions())
	return net, metrics, nil
}

// write stores the net in every requested format.
func (p *pipeline) write(net *petrinet.Net) error {
	base := filepath.Join(opts.OutputFolder(), opts.Filename())
	if err := os.MkdirAll(opts.OutputFolder(), 0755); err != nil {
		return err
	}

	for _, out := range []struct {
		enabled bool
		ext     string
		write   func(*bytes.Buffer) error
	}{
		{opts.Format().Dot(), "dot", func(b *bytes.Buffer) error { return net.WriteDot(b) }},
		{opts.Format().Lola(), "lola", func(b *bytes.Buffer) error { return net.WriteLola(b) }},
		{opts.Format().PNML(), "pnml", func(b *bytes.Buffer) error { return net.WritePNML(b) }},
	} {
		if !out.enabled {
			continue
		}
		var buf bytes.Buffer
		if err := out.write(&buf); err != nil {
			return err
		}
		fname := base + "." + out.ext
		if err := os.WriteFile(fname, buf.Bytes(), 0644); err != nil {
			return err
		}
		log.Println("Wrote", fname)

		if out.ext == "dot" && opts.Render() != "" {
			img, err := dot.DotToImage(base, opts.Render(), buf.Bytes())
			if err != nil {
				return err
			}
			log.Println("Rendered", img)
		}
	}
	return nil
}
