package pyenv

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Output captures the result of one external command invocation.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes external commands. The error return is reserved for
// failures to run the command at all (missing binary, cancelled context);
// a nonzero exit is reported through Output.ExitCode, not the error.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (*Output, error)
}

// Detail returns a short human-readable excerpt of the command's output,
// preferring stderr, for use in failure messages.
func (o *Output) Detail() string {
	if s := tail(o.Stderr); s != "" {
		return s
	}
	return tail(o.Stdout)
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct{}

// Run executes the command and captures stdout and stderr separately.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (*Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	out := &Output{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
			return out, nil
		}
		return nil, err
	}

	return out, nil
}
