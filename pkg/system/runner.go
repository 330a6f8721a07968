package system

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	sysdoterrors "github.com/arthur-debert/sysdot/pkg/errors"
	"github.com/arthur-debert/sysdot/pkg/logging"
	"github.com/arthur-debert/sysdot/pkg/types"
	"github.com/rs/zerolog"
)

// ExecRunner runs real external commands. It implements types.Runner.
type ExecRunner struct {
	logger zerolog.Logger

	// mirror receives a redacted one-line record of every invocation,
	// typically the run log. Nil disables mirroring.
	mirror io.Writer
}

// NewRunner creates an ExecRunner. The mirror writer may be nil.
func NewRunner(mirror io.Writer) *ExecRunner {
	return &ExecRunner{
		logger: logging.GetLogger("system.runner"),
		mirror: mirror,
	}
}

// Run executes the command and captures combined output. A non-zero exit is
// reported in the result, not as an error; the error return is reserved for
// commands that could not be started at all.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (types.CommandResult, error) {
	redacted := Redact(args)
	logging.LogCommand(name, redacted)
	defer logging.LogDuration(time.Now(), name)
	if r.mirror != nil {
		fmt.Fprintf(r.mirror, "exec: %s %s\n", name, strings.Join(redacted, " "))
	}

	cmd := exec.CommandContext(ctx, name, args...)
	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	err := cmd.Run()
	result := types.CommandResult{
		Command: name,
		Args:    args,
		Output:  combined.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			r.logger.Debug().Str("command", name).Int("exitCode", result.ExitCode).Msg("Command exited non-zero")
			if r.mirror != nil {
				fmt.Fprintf(r.mirror, "exit: %d\n", result.ExitCode)
			}
			return result, nil
		}
		// Binary missing or fork failure: the caller must treat state
		// queries as Unknown here, never as absent.
		r.logger.Warn().Err(err).Str("command", name).Msg("Command could not be started")
		return result, sysdoterrors.Wrapf(err, sysdoterrors.ErrCommandUnavailable, "cannot run %s", name)
	}

	if r.mirror != nil {
		fmt.Fprintf(r.mirror, "exit: 0\n")
	}
	return result, nil
}

// sensitive marks argument keys whose values never reach a log
var sensitive = []string{"password", "passphrase", "secret", "token"}

// Redact masks the values of sensitive-looking arguments. Both the
// "--password=x" and the "--password x" shapes are handled.
func Redact(args []string) []string {
	out := make([]string, len(args))
	maskNext := false
	for i, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case maskNext:
			out[i] = "****"
			maskNext = false
		case isSensitiveKey(lower) && strings.Contains(arg, "="):
			out[i] = arg[:strings.Index(arg, "=")+1] + "****"
		case isSensitiveKey(lower):
			out[i] = arg
			maskNext = true
		default:
			out[i] = arg
		}
	}
	return out
}

func isSensitiveKey(lower string) bool {
	key := lower
	if i := strings.Index(key, "="); i >= 0 {
		key = key[:i]
	}
	for _, s := range sensitive {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}
