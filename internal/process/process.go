package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// Runner executes an external command and reports how it ended.
type Runner interface {
	Run(ctx context.Context, argv ...string) Outcome
}

// Outcome describes a finished command. StartErr is set when the process could
// not be started at all, in which case ExitCode is -1.
type Outcome struct {
	Argv     []string
	ExitCode int
	Stdout   string
	Stderr   string
	StartErr error
}

func (o Outcome) Success() bool { return o.StartErr == nil && o.ExitCode == 0 }

// Diagnostic returns the most useful text explaining a failure.
func (o Outcome) Diagnostic() string {
	if s := strings.TrimSpace(o.Stderr); s != "" {
		return s
	}
	if s := strings.TrimSpace(o.Stdout); s != "" {
		return s
	}
	if o.StartErr != nil {
		return o.StartErr.Error()
	}
	return fmt.Sprintf("exit status %d", o.ExitCode)
}

// Err returns nil for a successful outcome and an *ExitError otherwise.
func (o Outcome) Err() error {
	if o.Success() {
		return nil
	}
	return &ExitError{Outcome: o}
}

type ExitError struct {
	Outcome Outcome
}

func (e *ExitError) Error() string { return e.Outcome.Diagnostic() }

func (e *ExitError) Unwrap() error { return e.Outcome.StartErr }

type ExecRunner struct{}

func NewExecRunner() *ExecRunner { return &ExecRunner{} }

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, argv ...string) Outcome {
	log := zerolog.Ctx(ctx)
	out := Outcome{Argv: argv}
	if len(argv) == 0 {
		out.ExitCode = -1
		out.StartErr = errors.New("empty command")
		return out
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug().Strs("command", cmd.Args).Msg("executing command")
	err := cmd.Run()
	out.Stdout = stdout.String()
	out.Stderr = stderr.String()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		out.ExitCode = exitErr.ExitCode()
	default:
		out.ExitCode = -1
		out.StartErr = err
	}

	if !out.Success() {
		log.Error().Err(err).Strs("command", cmd.Args).Str("stderr", out.Stderr).Msg("command failed")
	}
	return out
}
