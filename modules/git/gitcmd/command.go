// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package gitcmd builds and runs git commands. It is the only place the
// harness spawns the git binary; everything above it talks in terms of
// typed wrappers.
package gitcmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
	"unsafe"

	"code.gitea.io/bitmap-doctor/modules/log"
)

// defaultCommandExecutionTimeout default command execution timeout duration
var defaultCommandExecutionTimeout = 360 * time.Second

// DefaultLocale is the default LC_ALL to run git commands in.
const DefaultLocale = "C"

// ErrBrokenCommand is returned when an argument provided at runtime looks
// like an option and would change the meaning of the command line.
var ErrBrokenCommand = errors.New("git command is broken")

// Command represents a git command with its arguments.
type Command struct {
	prog       string
	args       []string
	brokenArgs []string

	dir     string
	env     []string
	timeout time.Duration
	stdout  io.Writer
	stderr  io.Writer
	stdin   io.Reader
}

// New creates a git command with the given trusted arguments. The executable
// is resolved lazily so callers may configure it after package init.
func New(args ...string) *Command {
	return &Command{prog: gitExecutable(), args: args}
}

// NewCommand is an alias of New kept for call-site readability.
func NewCommand(args ...string) *Command {
	return New(args...)
}

var executable = "git"

// SetExecutablePath changes the git binary the package spawns.
func SetExecutablePath(path string) {
	if path != "" {
		executable = path
	}
}

func gitExecutable() string {
	return executable
}

// SetDefaultTimeout overrides the package default command timeout.
func SetDefaultTimeout(d time.Duration) {
	if d > 0 {
		defaultCommandExecutionTimeout = d
	}
}

func (c *Command) String() string {
	if len(c.args) == 0 {
		return c.prog
	}
	return fmt.Sprintf("%s %s", c.prog, strings.Join(c.args, " "))
}

// LogString returns a debug-printable command line, with shell-confusing
// arguments quoted.
func (c *Command) LogString() string {
	a := make([]string, 0, len(c.args)+1)
	a = append(a, c.prog)
	for _, arg := range c.args {
		if strings.ContainsAny(arg, " \t'\"") {
			a = append(a, fmt.Sprintf("%q", arg))
		} else {
			a = append(a, arg)
		}
	}
	return strings.Join(a, " ")
}

// AddArguments adds new trusted arguments to the command. Use it for
// literals only; values from elsewhere go through AddDynamicArguments.
func (c *Command) AddArguments(args ...string) *Command {
	c.args = append(c.args, args...)
	return c
}

// AddDynamicArguments adds new dynamic arguments to the command.
// The arguments may come from user input and can not be trusted, so no leading
// hyphens are allowed to avoid hidden options.
func (c *Command) AddDynamicArguments(args ...string) *Command {
	for _, arg := range args {
		if !isSafeArgumentValue(arg) {
			c.brokenArgs = append(c.brokenArgs, arg)
		}
	}
	if len(c.brokenArgs) != 0 {
		return c
	}
	c.args = append(c.args, args...)
	return c
}

// AddOptionValues adds a new option with a list of non-option values,
// eg: AddOptionValues("--opt", val) means 2 arguments: "--opt" "val".
func (c *Command) AddOptionValues(opt string, args ...string) *Command {
	if !isValidArgumentOption(opt) {
		c.brokenArgs = append(c.brokenArgs, opt)
		return c
	}
	c.args = append(c.args, opt)
	return c.AddDynamicArguments(args...)
}

// AddOptionFormat adds a new option with a format string and arguments,
// eg: AddOptionFormat("--opt=%s", val) means 1 argument: "--opt=val".
func (c *Command) AddOptionFormat(opt string, args ...any) *Command {
	if !isValidArgumentOption(opt) {
		c.brokenArgs = append(c.brokenArgs, opt)
		return c
	}
	directArg := fmt.Sprintf(opt, args...)
	c.args = append(c.args, directArg)
	return c
}

// AddDashesAndList adds the "--" and then add the list as dynamic arguments.
func (c *Command) AddDashesAndList(list ...string) *Command {
	c.args = append(c.args, "--")
	return c.AddDynamicArguments(list...)
}

// WithDir sets the working directory of the command.
func (c *Command) WithDir(dir string) *Command {
	c.dir = dir
	return c
}

// WithEnv replaces the environment of the command (default: os.Environ).
func (c *Command) WithEnv(env []string) *Command {
	c.env = env
	return c
}

// WithTimeout sets the command timeout, non-positive means the default.
func (c *Command) WithTimeout(timeout time.Duration) *Command {
	c.timeout = timeout
	return c
}

// WithStdout sets the stdout writer of the command.
func (c *Command) WithStdout(w io.Writer) *Command {
	c.stdout = w
	return c
}

// WithStderr sets the stderr writer of the command.
func (c *Command) WithStderr(w io.Writer) *Command {
	c.stderr = w
	return c
}

// WithStdin sets the stdin reader of the command.
func (c *Command) WithStdin(r io.Reader) *Command {
	c.stdin = r
	return c
}

// Run runs the command and waits for it to finish.
func (c *Command) Run(ctx context.Context) error {
	if len(c.brokenArgs) != 0 {
		log.Error("git command is broken: %s, broken args: %s", c.String(), strings.Join(c.brokenArgs, " "))
		return ErrBrokenCommand
	}

	timeout := c.timeout
	if timeout <= 0 {
		timeout = defaultCommandExecutionTimeout
	}

	if c.dir == "" {
		log.Debug("git run: %s", c.LogString())
	} else {
		log.Debug("git run in %s: %s", c.dir, c.LogString())
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.prog, c.args...)
	if c.env == nil {
		cmd.Env = os.Environ()
	} else {
		cmd.Env = c.env
	}
	cmd.Env = append(cmd.Env, CommonGitCmdEnvs()...)
	cmd.Dir = c.dir
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr
	cmd.Stdin = c.stdin
	if err := cmd.Start(); err != nil {
		return err
	}

	if err := cmd.Wait(); err != nil && ctx.Err() != context.DeadlineExceeded {
		return err
	}
	return ctx.Err()
}

// CommonGitCmdEnvs returns the environment variables common to all git commands.
func CommonGitCmdEnvs() []string {
	return []string{
		fmt.Sprintf("LC_ALL=%s", DefaultLocale),
		// avoid prompting for credentials interactively, supported since git v2.3
		"GIT_TERMINAL_PROMPT=0",
		// ignore replace references (https://git-scm.com/docs/git-replace)
		"GIT_NO_REPLACE_OBJECTS=1",
	}
}

// RunStdError is the error returned by RunStd functions, it keeps the stderr
// output of the failed command.
type RunStdError interface {
	error
	Unwrap() error
	Stderr() string
}

type runStdError struct {
	err    error
	stderr string
	errMsg string
}

func (r *runStdError) Error() string {
	// the stderr must be in the returned error text, some code only checks `strings.Contains(err.Error(), "git error")`
	if r.errMsg == "" {
		r.errMsg = ConcatenateError(r.err, r.stderr).Error()
	}
	return r.errMsg
}

func (r *runStdError) Unwrap() error { return r.err }

func (r *runStdError) Stderr() string { return r.stderr }

func bytesToString(b []byte) string {
	return *(*string)(unsafe.Pointer(&b)) // that's what Golang's strings.Builder.String() does (go/src/strings/builder.go)
}

// RunStdString runs the command and returns stdout/stderr as string, with the
// stderr folded into the returned error.
func (c *Command) RunStdString(ctx context.Context) (stdout, stderr string, runErr RunStdError) {
	stdoutBytes, stderrBytes, err := c.RunStdBytes(ctx)
	stdout = bytesToString(stdoutBytes)
	stderr = bytesToString(stderrBytes)
	if err != nil {
		return stdout, stderr, &runStdError{err: err, stderr: stderr}
	}
	// even if there is no err, there could still be some stderr output, so we just return stdout/stderr as they are
	return stdout, stderr, nil
}

// RunStdBytes runs the command and returns stdout/stderr as bytes, with the
// stderr folded into the returned error.
func (c *Command) RunStdBytes(ctx context.Context) (stdout, stderr []byte, runErr RunStdError) {
	if c.stdout != nil || c.stderr != nil {
		// we must panic here, otherwise there would be bugs if developers set Stdin/Stderr by mistake, and it would be very difficult to debug
		panic("stdout and stderr field must be nil when using RunStdBytes")
	}
	stdoutBuf := &bytes.Buffer{}
	stderrBuf := &bytes.Buffer{}
	c.stdout = stdoutBuf
	c.stderr = stderrBuf
	err := c.Run(ctx)
	stderr = stderrBuf.Bytes()
	if err != nil {
		return nil, stderr, &runStdError{err: err, stderr: bytesToString(stderr)}
	}
	// even if there is no err, there could still be some stderr output
	return stdoutBuf.Bytes(), stderr, nil
}
