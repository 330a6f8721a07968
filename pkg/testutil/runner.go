package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/arthur-debert/sysdot/pkg/errors"
	"github.com/arthur-debert/sysdot/pkg/types"
)

// Response is a scripted answer for one command line.
type Response struct {
	ExitCode int
	Output   string
}

// FakeRunner implements types.Runner with scripted responses, keyed by the
// full command line ("pacman -Q iwd"). Unscripted commands succeed with
// empty output so tests only script what they assert on.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string]Response
	missing   map[string]bool

	// Calls records every invocation in order.
	Calls []string
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		responses: make(map[string]Response),
		missing:   make(map[string]bool),
	}
}

// Script registers a response for an exact command line.
func (f *FakeRunner) Script(cmdline string, exitCode int, output string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmdline] = Response{ExitCode: exitCode, Output: output}
	return f
}

// MarkMissing makes every invocation of the named binary fail as
// unavailable, the way a missing executable would.
func (f *FakeRunner) MarkMissing(name string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.missing[name] = true
	return f
}

// CallCount returns how many times the given command line was run.
func (f *FakeRunner) CallCount(cmdline string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == cmdline {
			n++
		}
	}
	return n
}

// Ran reports whether the command line was invoked.
func (f *FakeRunner) Ran(cmdline string) bool {
	return f.CallCount(cmdline) > 0
}

// Run implements types.Runner.
func (f *FakeRunner) Run(_ context.Context, name string, args ...string) (types.CommandResult, error) {
	cmdline := strings.TrimSpace(name + " " + strings.Join(args, " "))

	f.mu.Lock()
	f.Calls = append(f.Calls, cmdline)
	missing := f.missing[name]
	resp, scripted := f.responses[cmdline]
	f.mu.Unlock()

	result := types.CommandResult{Command: name, Args: args}
	if missing {
		return result, errors.Newf(errors.ErrCommandUnavailable, "cannot run %s", name)
	}
	if scripted {
		result.ExitCode = resp.ExitCode
		result.Output = resp.Output
	}
	return result, nil
}
