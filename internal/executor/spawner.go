package executor

import (
	"bytes"
	"errors"
	"io"
	"os/exec"
)

// Output is what a finished process leaves behind.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Process is a started command.
type Process interface {
	// Wait blocks until the process exits. A non-zero exit is reported
	// through Output.ExitCode, not as an error.
	Wait() (Output, error)
}

// Spawner starts processes. Start must fail synchronously when the
// program cannot be launched.
type Spawner interface {
	Start(name string, args []string) (Process, error)
}

// OSSpawner starts real processes with os/exec and captures both output
// streams in memory.
type OSSpawner struct {
	Dir   string
	Env   []string
	Stdin io.Reader
}

func (s OSSpawner) Start(name string, args []string) (Process, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = s.Dir
	cmd.Env = s.Env
	cmd.Stdin = s.Stdin

	p := &osProcess{cmd: cmd}
	cmd.Stdout = &p.stdout
	cmd.Stderr = &p.stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return p, nil
}

type osProcess struct {
	cmd    *exec.Cmd
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func (p *osProcess) Wait() (Output, error) {
	err := p.cmd.Wait()
	out := Output{Stdout: p.stdout.String(), Stderr: p.stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		out.ExitCode = 0
	case errors.As(err, &exitErr):
		out.ExitCode = exitErr.ExitCode()
	default:
		return out, err
	}
	return out, nil
}
