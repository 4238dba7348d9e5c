package main

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cs-au-dk/petrify/analysis/netcheck"
	"github.com/cs-au-dk/petrify/analysis/translator"
	"github.com/cs-au-dk/petrify/petrinet"
	"github.com/cs-au-dk/petrify/utils"

	"github.com/fatih/color"
)

var (
	opts = utils.Opts()
	task = opts.Task()
)

func main() {
	utils.ParseArgs()
	path, err := utils.ProgramPath()
	if err != nil {
		log.Fatalln(err)
	}

	p := &pipeline{path: path}
	if err := p.load(); err != nil {
		log.Fatalln("Failed to load the program:", err)
	}

	start := time.Now()
	net, metrics, err := p.translate()
	gatherMetrics(metrics)
	if err != nil {
		switch {
		case errors.Is(err, translator.ErrUnsupported):
			log.Fatalln("The program uses an unsupported construct:", utils.ErrorString(err))
		case errors.Is(err, translator.ErrInternal):
			log.Fatalln("Translation failed:", utils.ErrorString(err))
		default:
			log.Fatalln(utils.ErrorString(err))
		}
	}
	opts.OnVerbose(func() { utils.TimeTrack(start, "Translation") })

	if err := p.write(net); err != nil {
		log.Fatalln("Failed to write the net:", err)
	}

	switch {
	case task.IsCheckNet():
		checkNet(net)
	case task.IsNetStats():
		netStats(net)
	}
}

// checkNet reports structural defects of the net.
func checkNet(net *petrinet.Net) {
	issues := netcheck.WellFormed(net)
	for _, issue := range issues {
		fmt.Println(utils.ErrorString(issue))
	}

	unreachable := netcheck.Unreachable(net)
	if len(unreachable) > 0 {
		fmt.Println("Places that are never marked:")
		for _, p := range unreachable {
			fmt.Println("  " + utils.PlaceString(p.Label()))
		}
	}

	if len(issues) == 0 {
		fmt.Println(utils.CanColorize(color.New(color.FgHiGreen).SprintFunc())("The net is well-formed"))
	} else {
		log.Fatalf("Found %d structural defects\n", len(issues))
	}
}

// netStats prints the size and shape of the net.
func netStats(net *petrinet.Net) {
	fmt.Println(netcheck.Collect(net))

	opts.OnVerbose(func() {
		for i, comp := range netcheck.Components(net) {
			fmt.Printf("Component %d: %d nodes\n", i, len(comp))
		}
		for _, cycle := range netcheck.Cycles(net) {
			fmt.Print("Cycle:")
			for _, label := range cycle {
				if _, isPlace := net.Place(label); isPlace {
					fmt.Print(" " + utils.PlaceString(label))
				} else {
					fmt.Print(" " + utils.TransitionString(label))
				}
			}
			fmt.Println()
		}
	})
}
