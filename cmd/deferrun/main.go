// Command deferrun runs a command, and then dispatches deferred shell commands registered with flags.
//
// Deferred commands run last-registered-first, like Go's defer statement.
// Each may be assigned to a group, so different cleanup can run depending on whether the command succeeded.
//
// USAGE:
//
//	deferrun [FLAGS...] -- COMMAND [ARGS...]
package main

import (
	"context"
	"github.com/saylorsolutions/callbacks/diag"
	"github.com/saylorsolutions/callbacks/registry"
	"io"
	"log/slog"
	"os"
	"syscall"
)

// EnvExitCode is set in the environment of deferred commands to the exit code of the main command.
const EnvExitCode = "DEFERRUN_EXIT_CODE"

func main() {
	ctx := signalExitCtx(context.Background(), os.Interrupt, syscall.SIGTERM)
	os.Exit(run(ctx, os.Args[1:], os.Stderr))
}

// run is main without the process concerns, so that it can be tested.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	opts, command, err := parseFlags(args, stderr)
	if err != nil {
		return usageExitCode(err, stderr)
	}
	logger, closeLog, err := opts.logger(stderr)
	if err != nil {
		_, _ = io.WriteString(stderr, "Failed to open log file: "+err.Error()+"\n")
		return 1
	}
	defer closeLog()

	a := &app{
		reg:     registry.New(registry.WithLogger(logger), registry.WithPolicy(opts.policy)),
		logger:  logger,
		shell:   runShell,
		retries: opts.retries,
	}
	defer a.reg.Release()

	if err := a.register(opts.defers); err != nil {
		logger.Error("Failed to register deferred command", "error", err)
		return exitUsage
	}

	code := 0
	if len(command) > 0 {
		code = runCommand(ctx, command)
		logger.Debug("Command exited", "command", command[0], "code", code)
	}

	group := opts.group
	if code != 0 && opts.failureGroupSet {
		group = opts.failureGroup
	}
	// Deferred commands should still run after an interrupt cancelled the main command.
	if err := a.dispatch(context.WithoutCancel(ctx), code, group); err != nil {
		logger.Error("Failed to dispatch deferred commands", "error", err)
		return 1
	}

	switch {
	case code != 0:
		return code
	case a.anyFailed():
		return 1
	default:
		return 0
	}
}

// app ties deferred commands to a registry.
type app struct {
	reg      *registry.Registry
	logger   *slog.Logger
	shell    shellRunner
	retries  int
	deferred []*deferred
	rearmed  bool
}

func (a *app) register(specs []string) error {
	for _, spec := range specs {
		d, err := parseDeferred(spec)
		if err != nil {
			return err
		}
		action := registry.NewAction(a.callback(d))
		if d.group == 0 {
			err = a.reg.Register(action, d.name, nil)
		} else {
			err = a.reg.RegisterWithGroup(action, d.name, nil, d.group)
		}
		if err != nil {
			return err
		}
		a.deferred = append(a.deferred, d)
	}
	return nil
}

// callback creates the registry.Func for a deferred command.
// The dispatch argument is the main command's exit code.
func (a *app) callback(d *deferred) registry.Func {
	return func(ctx context.Context, arg any) int {
		exitCode, _ := arg.(int)
		log := diag.FromContext(ctx).With(diag.CallbackAttrs(d.name, d.group)...)
		d.attempts++
		code := a.shell(ctx, d.command, []string{envExitCode(exitCode)})
		d.ran = true
		d.failed = code != 0
		if !d.failed {
			return registry.SuccessThreshold
		}
		log.Warn("Deferred command failed", "code", code, "attempt", d.attempts)
		if d.attempts <= a.retries {
			if err := a.reg.ReRegisterItself(); err != nil {
				log.Error("Failed to re-arm deferred command", "error", err)
			} else {
				a.rearmed = true
			}
		}
		return 0
	}
}

// dispatch runs the group, and then runs it again while any deferred command re-armed itself.
// Commands skipped by FailFast run in the next round.
// Each command re-arms itself at most retries times, so the number of rounds is bounded.
func (a *app) dispatch(ctx context.Context, exitCode, group int) error {
	for round := 0; ; round++ {
		a.rearmed = false
		result, err := a.reg.ExecuteGroup(ctx, exitCode, group)
		if err != nil {
			return err
		}
		a.logger.Debug("Dispatched deferred commands", diag.KeyGroup, group, "round", round, "result", result)
		if !a.rearmed {
			break
		}
	}
	return nil
}

func (a *app) anyFailed() bool {
	for _, d := range a.deferred {
		if d.ran && d.failed {
			return true
		}
	}
	return false
}
