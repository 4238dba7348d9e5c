package utils

import (
	"flag"
	"fmt"
	"log"
	"strings"
)

type options struct {
	task         string
	format       string
	outputFolder string
	filename     string
	render       string
	function     string
	logTr        bool
	metrics      bool
	noColorize   bool
	verbose      bool
}

const (
	_TRANSLATE = iota
	_CHECK_NET
	_NET_STATS
)

const (
	_FORMAT_DOT = iota
	_FORMAT_LOLA
	_FORMAT_PNML
	_FORMAT_ALL
)

func CanColorize(col func(...interface{}) string) func(...interface{}) string {
	if opts.noColorize {
		return func(is ...interface{}) string {
			return fmt.Sprintf(strings.Repeat("%s", len(is)), is...)
		}
	}
	return col
}

var task = []struct{ flag, explanation string }{{
	"translate",
	"Translate the program to a Petri net and write it in the requested formats",
}, {
	"check-net",
	"Translate the program and report structural defects of the resulting net",
}, {
	"net-stats",
	"Translate the program and print the size and shape of the resulting net",
}}

var formats = []struct{ flag, explanation string }{{
	"dot",
	"Graphviz graph description",
}, {
	"lola",
	"input of the LoLA model checker",
}, {
	"pnml",
	"Petri Net Markup Language (2009 grammar)",
}, {
	"all",
	"all of the above",
}}

var opts = &options{}

type optInterface struct{}

type taskInterface struct{}

type formatInterface struct{}

func Opts() optInterface {
	return optInterface{}
}

func (optInterface) NoColorize() bool {
	return opts.noColorize
}
func (optInterface) Function() string {
	return opts.function
}
func (optInterface) OutputFolder() string {
	return opts.outputFolder
}
func (optInterface) Filename() string {
	return opts.filename
}
func (optInterface) Render() string {
	return opts.render
}
func (optInterface) LogTranslation() bool {
	return opts.logTr
}
func (optInterface) Metrics() bool {
	return opts.metrics
}
func (optInterface) Verbose() bool {
	return opts.verbose
}
func (optInterface) Task() taskInterface {
	return taskInterface{}
}
func (taskInterface) IsTranslate() bool {
	return opts.task == task[_TRANSLATE].flag
}
func (taskInterface) IsCheckNet() bool {
	return opts.task == task[_CHECK_NET].flag
}
func (taskInterface) IsNetStats() bool {
	return opts.task == task[_NET_STATS].flag
}
func (optInterface) Format() formatInterface {
	return formatInterface{}
}
func (formatInterface) Dot() bool {
	return opts.format == formats[_FORMAT_DOT].flag || opts.format == formats[_FORMAT_ALL].flag
}
func (formatInterface) Lola() bool {
	return opts.format == formats[_FORMAT_LOLA].flag || opts.format == formats[_FORMAT_ALL].flag
}
func (formatInterface) PNML() bool {
	return opts.format == formats[_FORMAT_PNML].flag || opts.format == formats[_FORMAT_ALL].flag
}

func init() {
	taskFlag := "\n"
	for _, task := range task {
		taskFlag += task.flag + " -- " + task.explanation + "\n"
	}
	taskFlag += "\n"
	formatFlag := "\n"
	for _, format := range formats {
		formatFlag += format.flag + " -- " + format.explanation + "\n"
	}
	formatFlag += "\n"

	flag.StringVar(&(opts.task), "task", task[_TRANSLATE].flag, "Set the task to do during execution. Options:"+taskFlag)
	flag.StringVar(&(opts.format), "format", formats[_FORMAT_ALL].flag, "Output format of the net. Options:"+formatFlag)
	flag.StringVar(&(opts.outputFolder), "output-folder", ".", "Directory where the net is written.")
	flag.StringVar(&(opts.filename), "filename", "net", "Name of the written files, without extension.")
	flag.StringVar(&(opts.render), "render", "", "Also render the dot output as an image of the given format [svg | png | jpg], if not empty.")
	flag.StringVar(&(opts.function), "fun", "", "Start the translation at the given function instead of the entry of the program.")
	flag.BoolVar(&(opts.logTr), "translation-logging", false, "Enable logging of every step of the translation")
	flag.BoolVar(&(opts.metrics), "metrics", false, "Enable collection of translation metrics")
	flag.BoolVar(&(opts.noColorize), "no-colorize", false, "Disable pretty printer colorization")
	flag.BoolVar(&(opts.verbose), "verbose", false, "enable verbose output")

	// Set up logging
	log.SetFlags(log.Ltime | log.Lshortfile)
}

func ParseArgs() {
	// Calling flag.Parse in init messes up unit tests.
	// See https://stackoverflow.com/questions/60235896/flag-provided-but-not-defined-test-v
	flag.Parse()

	validTask := false
	for _, task := range task {
		if task.flag == opts.task {
			validTask = true
			break
		}
	}
	if !validTask {
		log.Fatalf("Value \"%s\" is not valid for -task", opts.task)
	}

	validFormat := false
	for _, format := range formats {
		if format.flag == opts.format {
			validFormat = true
			break
		}
	}
	if !validFormat {
		log.Fatalf("Value \"%s\" is not valid for -format", opts.format)
	}

	if opts.render != "" && !Opts().Format().Dot() {
		log.Fatalf("-render requires the dot format")
	}
}

func (optInterface) OnVerbose(do func()) {
	if Opts().Verbose() {
		do()
	}
}
