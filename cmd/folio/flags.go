package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-folio/internal/config"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	verbose bool
}

type serveFlags struct {
	common commonFlags
	addr   string
	memory bool
	worker bool
}

type workerFlags struct {
	common      commonFlags
	concurrency int
}

type renderFlags struct {
	common   commonFlags
	input    string
	output   string
	dark     bool
	htmlOnly bool
	date     string
	timeout  string
}

type doctorFlags struct {
	common commonFlags
	json   bool
	launch bool
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", config.DefaultName, "config file name or path")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
}

// newFlagSet returns a ContinueOnError set whose usage goes to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parse wraps flag errors as usage errors and rejects positional arguments.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	return nil
}

func parseServeFlags(args []string, w io.Writer) (*serveFlags, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", w, printServeUsage)
	addCommonFlags(fs, &f.common)
	fs.StringVar(&f.addr, "addr", "", "listen address (overrides server.addr)")
	fs.BoolVar(&f.memory, "memory", false, "keep data in memory instead of MongoDB and Redis")
	fs.BoolVar(&f.worker, "worker", false, "run the deletion worker in-process")
	return f, parse(fs, args)
}

func parseWorkerFlags(args []string, w io.Writer) (*workerFlags, error) {
	f := &workerFlags{}
	fs := newFlagSet("worker", w, printWorkerUsage)
	addCommonFlags(fs, &f.common)
	fs.IntVar(&f.concurrency, "concurrency", 2, "concurrent deletion jobs")
	if err := parse(fs, args); err != nil {
		return f, err
	}
	if f.concurrency < 1 {
		return f, fmt.Errorf("%w: --concurrency must be at least 1, got %d", ErrUsage, f.concurrency)
	}
	return f, nil
}

func parseRenderFlags(args []string, w io.Writer) (*renderFlags, error) {
	f := &renderFlags{}
	fs := newFlagSet("render", w, printRenderUsage)
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.input, "input", "i", "", "export request JSON file (- for stdin)")
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: input name with .pdf or .html)")
	fs.BoolVar(&f.dark, "dark", false, "dark theme")
	fs.BoolVar(&f.htmlOnly, "html", false, "write the assembled HTML instead of a PDF")
	fs.StringVar(&f.date, "date", "", `generation date: "auto", "auto:FORMAT", or literal`)
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g., 30s, 2m)")
	if err := parse(fs, args); err != nil {
		return f, err
	}
	if f.input == "" {
		return f, fmt.Errorf("%w: --input is required", ErrUsage)
	}
	return f, nil
}

func parseDoctorFlags(args []string, w io.Writer) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := newFlagSet("doctor", w, printDoctorUsage)
	addCommonFlags(fs, &f.common)
	fs.BoolVar(&f.json, "json", false, "print the report as JSON")
	fs.BoolVar(&f.launch, "launch", false, "launch the browser and render a probe page")
	return f, parse(fs, args)
}
