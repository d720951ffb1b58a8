// Package executor hands resolved package operations to the package manager
// front-end that actually installs or removes them.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/mattn/go-shellwords"
)

// ErrNoPackages is returned when an operation names no packages.
var ErrNoPackages = errors.New("no packages to operate on")

// Options are passed through to the package manager.
type Options struct {
	Purge     bool // remove configuration files as well
	AssumeYes bool // answer yes to prompts
}

// Executor performs install and remove operations. Implementations fail
// loudly instead of applying part of an operation.
type Executor interface {
	Install(ctx context.Context, pkgs []string, opts Options) error
	Remove(ctx context.Context, pkgs []string, opts Options) error
}

// Runner executes a single program. It allows mocking in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs programs attached to the given streams.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner attached to the process's own streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes name with args and waits for it to finish.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Command drives a package manager given as a command line such as
// "apt-get" or "sudo -E apt-get -o Debug::NoLocking=1".
type Command struct {
	argv   []string
	runner Runner
}

// NewCommand splits commandLine with shell quoting rules. Environment
// variables in the line are expanded.
func NewCommand(commandLine string, runner Runner) (*Command, error) {
	parser := shellwords.NewParser()
	parser.ParseEnv = true
	argv, err := parser.Parse(commandLine)
	if err != nil {
		return nil, fmt.Errorf("parse executor command %q: %w", commandLine, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("executor command is empty")
	}
	if runner == nil {
		runner = NewExecRunner()
	}
	return &Command{argv: argv, runner: runner}, nil
}

// Argv returns the base command line.
func (c *Command) Argv() []string {
	return append([]string(nil), c.argv...)
}

// Install installs pkgs.
func (c *Command) Install(ctx context.Context, pkgs []string, opts Options) error {
	return c.run(ctx, "install", pkgs, opts)
}

// Remove removes pkgs, or purges them when opts.Purge is set.
func (c *Command) Remove(ctx context.Context, pkgs []string, opts Options) error {
	verb := "remove"
	if opts.Purge {
		verb = "purge"
	}
	return c.run(ctx, verb, pkgs, opts)
}

func (c *Command) run(ctx context.Context, verb string, pkgs []string, opts Options) error {
	if len(pkgs) == 0 {
		return fmt.Errorf("%s: %w", verb, ErrNoPackages)
	}
	args := append([]string(nil), c.argv[1:]...)
	args = append(args, verb)
	if opts.AssumeYes {
		args = append(args, "-y")
	}
	args = append(args, pkgs...)
	if err := c.runner.Run(ctx, c.argv[0], args...); err != nil {
		return fmt.Errorf("%s %d package(s): %w", verb, len(pkgs), err)
	}
	return nil
}

var _ Executor = (*Command)(nil)
