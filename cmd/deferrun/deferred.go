package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidDeferred = errors.New("invalid deferred command")

// deferred is a shell command registered with the --defer flag.
type deferred struct {
	group    int
	name     string
	command  string
	attempts int
	ran      bool
	failed   bool // Whether the most recent attempt failed.
}

// parseDeferred parses "[GROUP:]NAME=COMMAND".
// The group must be an integer other than 0, since that's the default group.
func parseDeferred(spec string) (*deferred, error) {
	label, command, found := strings.Cut(spec, "=")
	if !found {
		return nil, fmt.Errorf("%w '%s': expected [GROUP:]NAME=COMMAND", ErrInvalidDeferred, spec)
	}
	d := &deferred{
		name:    strings.TrimSpace(label),
		command: strings.TrimSpace(command),
	}
	if group, name, hasGroup := strings.Cut(d.name, ":"); hasGroup {
		id, err := strconv.Atoi(strings.TrimSpace(group))
		if err != nil {
			return nil, fmt.Errorf("%w '%s': group '%s' is not an integer", ErrInvalidDeferred, spec, group)
		}
		if id == 0 {
			return nil, fmt.Errorf("%w '%s': group 0 is the default group, leave it out instead", ErrInvalidDeferred, spec)
		}
		d.group = id
		d.name = strings.TrimSpace(name)
	}
	if len(d.name) == 0 {
		return nil, fmt.Errorf("%w '%s': missing name", ErrInvalidDeferred, spec)
	}
	if len(d.command) == 0 {
		return nil, fmt.Errorf("%w '%s': missing command", ErrInvalidDeferred, spec)
	}
	return d, nil
}

func envExitCode(code int) string {
	return EnvExitCode + "=" + strconv.Itoa(code)
}
