package main

import (
	"errors"
	"fmt"
	"github.com/saylorsolutions/callbacks/diag"
	"github.com/saylorsolutions/callbacks/registry"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"
	"io"
	"log/slog"
	"os"
)

const usageText = `deferrun runs COMMAND, and then runs deferred shell commands.

USAGE:
  deferrun [FLAGS...] -- COMMAND [ARGS...]

Deferred commands are given as "[GROUP:]NAME=SHELL COMMAND", and run last-registered-first.
Commands without a GROUP are in the default group 0. Dispatching group 0 also runs positive groups,
while negative groups only run when dispatched explicitly.
The exit code of COMMAND is available to deferred commands as $` + EnvExitCode + `.

FLAGS
`

// usageError signals that usage information should be shown to the user.
type usageError struct {
	wrapped error
}

func (e *usageError) Error() string {
	return "usage error: " + e.wrapped.Error()
}

func (e *usageError) Unwrap() error {
	return e.wrapped
}

func newUsageError(format string, args ...any) error {
	return &usageError{wrapped: fmt.Errorf(format, args...)}
}

type options struct {
	defers          []string
	policy          registry.Policy
	group           int
	failureGroup    int
	failureGroupSet bool
	retries         int
	logFile         string
	verbose         bool
}

// parseFlags parses args, returning the options and the command to run, if any.
func parseFlags(args []string, stderr io.Writer) (*options, []string, error) {
	var (
		opts   options
		policy string
	)
	fs := flag.NewFlagSet("deferrun", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)
	fs.Usage = func() {
		_, _ = fmt.Fprint(stderr, usageText, fs.FlagUsages())
	}
	fs.StringArrayVarP(&opts.defers, "defer", "d", nil, "Deferred command as \"[GROUP:]NAME=SHELL COMMAND\", may be repeated")
	fs.StringVarP(&policy, "policy", "p", "", "Execution policy, either 'execute-all' or 'fail-fast' (default from $"+registry.EnvPolicy+", or 'execute-all')")
	fs.IntVarP(&opts.group, "group", "g", 0, "Group dispatched after COMMAND succeeds")
	fs.IntVarP(&opts.failureGroup, "failure-group", "f", 0, "Group dispatched after COMMAND fails (default same as --group)")
	fs.IntVarP(&opts.retries, "retries", "r", 0, "Number of times a failing deferred command is retried")
	fs.StringVar(&opts.logFile, "log-file", "", "Also write logs as JSON to this file")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Enables debug logging (default from $"+registry.EnvDebug+")")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, &usageError{wrapped: err}
	}
	opts.failureGroupSet = fs.Changed("failure-group")
	if opts.retries < 0 {
		return nil, nil, newUsageError("--retries must be >= 0, got %d", opts.retries)
	}

	opts.policy = registry.ExecuteAll
	if fs.Changed("policy") {
		p, err := registry.ParsePolicy(policy)
		if err != nil {
			return nil, nil, &usageError{wrapped: err}
		}
		opts.policy = p
	} else if p, ok := registry.PolicyFromEnv(); ok {
		opts.policy = p
	}
	opts.verbose = opts.verbose || registry.DebugFromEnv()
	return &opts, fs.Args(), nil
}

// usageExitCode reports a flag parsing error and returns the exit code for it.
func usageExitCode(err error, stderr io.Writer) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	_, _ = fmt.Fprintln(stderr, err)
	_, _ = fmt.Fprintln(stderr, "Use --help for usage information")
	return exitUsage
}

// logger creates the logger for the run.
// Output to a terminal is human-readable text, otherwise it's JSON.
// The returned function closes the log file, if any.
func (o *options) logger(stderr io.Writer) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	handler := diag.NewHandler(stderr, level, !isTerminal(stderr))
	closeLog := func() {}
	if len(o.logFile) > 0 {
		f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		handler = diag.Tee(handler, diag.NewHandler(f, level, true))
		closeLog = func() {
			_ = f.Close()
		}
	}
	return slog.New(diag.NewDedupeHandler(handler)), closeLog, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
