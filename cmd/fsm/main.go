// Command fsm converts, minimizes, compares and runs finite-state machines
// stored as semicolon separated tables.
//
//	fsm [-config file] [-loglevel level] [-pretty] <command> [args]
//
// Commands:
//
//	mealy-to-moore in out
//	moore-to-mealy in out
//	minimize mealy|moore|dfa in out
//	determinize in out
//	regex out pattern
//	grammar in out
//	equiv a b
//	lex in out
//	show mealy|moore|nfa|auto in
//	run mealy|moore|nfa in
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	u "github.com/araddon/gou"

	"github.com/geange/fsm/internal/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		u.Errorf("%v", err)
		os.Exit(1)
	}
}

// run parses the global flags, sets up logging and dispatches to a command.
func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("fsm", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configFile = fs.String("config", "", "confl config file")
		logLevel   = fs.String("loglevel", "", "log level [debug|info|warn|error], overrides the config")
		pretty     = fs.Bool("pretty", false, "also draw the result as a bordered table")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: fsm [flags] <command> [args]")
		fs.PrintDefaults()
		for _, c := range commands {
			fmt.Fprintf(stderr, "  %s %s\n", c.name, c.usage)
		}
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	conf := config.Default()
	if *configFile != "" {
		var err error
		if conf, err = config.LoadConfigFromFile(*configFile); err != nil {
			return fmt.Errorf("could not load config: %w", err)
		}
	}
	if *logLevel != "" {
		conf.LogLevel = *logLevel
	}
	if *pretty {
		conf.Pretty = true
	}
	if err := conf.Validate(); err != nil {
		return err
	}
	u.SetupLogging(conf.LogLevel)
	u.SetColorIfTerminal()

	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("missing command")
	}
	c, err := lookup(fs.Arg(0), fs.NArg()-1)
	if err != nil {
		return err
	}
	e := &env{conf: conf, stdout: stdout}
	u.Debugf("running %s %v", c.name, fs.Args()[1:])
	return c.exec(e, fs.Args()[1:])
}
