package process

import (
	"errors"
	"os/exec"
	"syscall"

	"github.com/matgat/prctime/pkg/lib"
)

// Launch starts the child with the given arguments.
// A handle can be launched once; later calls fail with a *StateError and leave
// the running child untouched.
func (p *Process) Launch(args ...string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != lib.ProcessStateUnlaunched {
		return &StateError{Op: "launch", State: p.state}
	}

	command := lib.Command{Path: p.path, Args: append([]string(nil), args...)}

	cmd := exec.Command(p.path, args...)
	cmd.Stdin = p.stdin
	cmd.Stdout = p.stdout
	cmd.Stderr = p.stderr
	// Descendants that outlive the child must not hold Wait on inherited pipes.
	cmd.WaitDelay = pipeWaitDelay

	attr := &SysProcAttr{}
	if p.useCgroup {
		var err error
		attr, err = GetSysProcAttr(p.id)
		if err != nil {
			return newSpawnError(p.path, err)
		}
	}
	cmd.SysProcAttr = attr.Raw

	p.log.Debug().Str("command", command.CommandLine()).Bool("cgroup", attr.Cgroup).Msg("launching process")
	counter, counterErr, err := startCounted(cmd)

	if attr.File != nil {
		_ = attr.File.Close()
	}

	if err != nil {
		p.log.Debug().Err(err).Msg("launch failed")
		if attr.Cgroup {
			_ = CleanupCgroup(p.id)
		}
		return newSpawnError(p.path, err)
	}

	pid := cmd.Process.Pid
	if counterErr != nil {
		p.log.Debug().Err(counterErr).Int("pid", pid).Msg("cpu cycle counter unavailable")
	}

	p.command = command
	p.cmd = cmd
	p.pid = pid
	p.cgroup = attr.Cgroup
	p.cycles = counter
	p.done = make(chan struct{})
	p.state = lib.ProcessStateRunning

	p.log.Debug().Int("pid", pid).Msg("process started")

	go p.waiter(cmd, p.done)

	return nil
}

// waiter reaps the child and records how it ended.
func (p *Process) waiter(cmd *exec.Cmd, done chan struct{}) {
	defer close(done)

	err := cmd.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.exitCode, p.waitErr = exitStatus(cmd, err)
	if p.waitErr != nil {
		p.log.Debug().Err(p.waitErr).Msg("wait failed")
	} else {
		p.log.Debug().Int("exit_code", p.exitCode).Msg("process finished")
	}

	switch p.state {
	case lib.ProcessStateRunning:
		p.state = lib.ProcessStateExited
	case lib.ProcessStateClosed:
		// Closed while the child was alive: the cgroup could not be removed then.
		if p.cgroup {
			if err := CleanupCgroup(p.id); err != nil {
				p.log.Warn().Err(err).Msg("cgroup cleanup failed")
			}
		}
	}
}

// exitStatus maps the result of cmd.Wait to an exit code. A child killed by a
// signal reports 128+signal, as shells do.
func exitStatus(cmd *exec.Cmd, err error) (int, error) {
	ps := cmd.ProcessState
	if ps == nil {
		return DefaultExitCode, &WaitError{Err: err}
	}
	if errors.Is(err, exec.ErrWaitDelay) {
		err = nil
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return DefaultExitCode, &WaitError{Err: err}
		}
	}
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal()), nil
	}
	return ps.ExitCode(), nil
}
