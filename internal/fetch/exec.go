package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Command is an external program invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory, empty for the current one.
	Dir string
	// Env is appended to the environment of the current process.
	Env []string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner runs external commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands as subprocesses. Their standard output is logged
// at debug level, standard error is passed through to Stderr.
type ExecRunner struct {
	Logger *zap.SugaredLogger
	Stderr io.Writer
}

// NewExecRunner creates an ExecRunner writing subprocess errors to stderr.
func NewExecRunner(logger *zap.SugaredLogger) *ExecRunner {
	return &ExecRunner{Logger: logger, Stderr: os.Stderr}
}

// Run starts cmd and waits for it to finish.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	r.Logger.Debugw("running command", "cmd", cmd.String(), "dir", cmd.Dir)

	var stdout bytes.Buffer
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = append(os.Environ(), cmd.Env...)
	c.Stdout = &stdout
	c.Stderr = r.Stderr

	err := c.Run()
	if out := strings.TrimSpace(stdout.String()); out != "" {
		r.Logger.Debug(out)
	}
	if err != nil {
		return fmt.Errorf("running %s: %w", cmd.Name, err)
	}
	return nil
}
