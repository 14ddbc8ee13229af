package zb

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/mgenware/j9/v3"
)

// Command is one external tool invocation.
type Command struct {
	Name string
	Args []string
	// KEY=VALUE pairs set on top of the current process environment.
	// A key listed here always wins over the inherited value.
	Env        []string
	WorkingDir string
}

func (c *Command) String() string {
	return shellquote.Join(append([]string{c.Name}, c.Args...)...)
}

// Runner runs external commands synchronously.
type Runner interface {
	// Spawn runs cmd with its output streamed to the console.
	Spawn(cmd *Command) error
	// Output runs cmd and returns its trimmed standard output.
	Output(cmd *Command) (string, error)
}

// CommandError is returned when an external command could not be run or
// exited with a non-zero status.
type CommandError struct {
	Cmd string
	Err error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command failed: %s: %v", e.Cmd, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// TunnelRunner runs commands through a j9 tunnel.
type TunnelRunner struct {
	tunnel *j9.Tunnel
}

func NewTunnelRunner(tunnel *j9.Tunnel) *TunnelRunner {
	return &TunnelRunner{tunnel: tunnel}
}

func (r *TunnelRunner) Spawn(cmd *Command) error {
	err := r.tunnel.SpawnRaw(&j9.SpawnOpt{
		Name:       cmd.Name,
		Args:       cmd.Args,
		Env:        cmd.Env,
		WorkingDir: cmd.WorkingDir,
	})
	if err != nil {
		return &CommandError{Cmd: cmd.String(), Err: err}
	}
	return nil
}

// Output discards stderr so tool warnings never end up in parsed values.
func (r *TunnelRunner) Output(cmd *Command) (string, error) {
	output, err := r.tunnel.ShellRaw(&j9.ShellOpt{
		Cmd:        cmd.String() + " 2>/dev/null",
		Env:        cmd.Env,
		WorkingDir: cmd.WorkingDir,
	})
	if err != nil {
		return "", &CommandError{Cmd: cmd.String(), Err: err}
	}
	return strings.TrimSpace(output), nil
}

// Logger receives the progress and warning messages of a build.
type Logger interface {
	Progress(msg string)
	Warn(msg string)
}

type tunnelLogger struct {
	tunnel *j9.Tunnel
}

// NewTunnelLogger returns a Logger writing to the tunnel's logger.
func NewTunnelLogger(tunnel *j9.Tunnel) Logger {
	return &tunnelLogger{tunnel: tunnel}
}

func (l *tunnelLogger) Progress(msg string) {
	l.tunnel.Logger().Log(j9.LogLevelVerbose, msg)
}

func (l *tunnelLogger) Warn(msg string) {
	l.tunnel.Logger().Log(j9.LogLevelWarning, msg)
}

func CreateDefaultTunnel() *j9.Tunnel {
	return j9.NewTunnel(j9.NewLocalNode(), j9.NewConsoleLogger())
}
