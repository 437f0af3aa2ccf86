package process

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/matgat/prctime/pkg/lib"
)

// Wait blocks until the child exits or timeout elapses, and returns the exit
// code. A non-positive timeout selects the handle's default (see WithTimeout).
// On timeout the child is killed and DefaultExitCode is returned. Without a
// launched child Wait returns DefaultExitCode immediately.
func (p *Process) Wait(timeout time.Duration) (int, error) {
	return p.WaitContext(context.Background(), timeout)
}

// WaitContext is Wait with cancellation: a done ctx is handled like an
// expired timeout.
func (p *Process) WaitContext(ctx context.Context, timeout time.Duration) (int, error) {
	p.mu.Lock()
	state := p.state
	done := p.done
	if timeout <= 0 {
		timeout = p.timeout
	}
	p.mu.Unlock()

	if !state.Created() {
		return DefaultExitCode, nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return p.result()
	case <-timer.C:
		return p.terminate(done, "timeout")
	case <-ctx.Done():
		return p.terminate(done, ctx.Err().Error())
	}
}

// terminate kills the child and waits for the waiter to reap it.
func (p *Process) terminate(done chan struct{}, reason string) (int, error) {
	// The child may have exited while the timer fired.
	select {
	case <-done:
		return p.result()
	default:
	}

	p.log.Warn().Str("reason", reason).Msg("terminating process")
	if err := p.kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return DefaultExitCode, &WaitError{Op: "terminate", Err: err}
	}

	select {
	case <-done:
	case <-time.After(killGrace):
		return DefaultExitCode, &WaitError{Op: "terminate", Err: errors.New("process not reaped after kill")}
	}

	p.mu.Lock()
	p.timedOut = true
	p.mu.Unlock()

	return DefaultExitCode, nil
}

// kill prefers the cgroup, which takes down the whole tree, and falls back to
// killing the child alone. A handle that can no longer signal the child is
// bypassed by signalling its pid, which stays ours until the waiter reaps it.
func (p *Process) kill() error {
	p.mu.Lock()
	cgroup := p.cgroup
	proc := p.cmd.Process
	pid := p.pid
	p.mu.Unlock()

	if cgroup {
		succeeded, err := KillCgroup(p.id)
		if succeeded {
			return nil
		}
		p.log.Debug().Err(err).Msg("cgroup kill failed, killing process")
	}

	err := proc.Kill()
	if err == nil || errors.Is(err, os.ErrProcessDone) {
		return err
	}
	if pid > 0 {
		p.log.Debug().Err(err).Int("pid", pid).Msg("kill through handle failed, signalling pid")
		kerr := killPid(pid)
		if kerr == nil {
			return nil
		}
		err = errors.Join(err, kerr)
	}
	p.log.Error().Err(err).Int("pid", pid).Msg("could not kill process")
	return err
}

func (p *Process) result() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == lib.ProcessStateClosed {
		return DefaultExitCode, nil
	}
	if p.timedOut {
		return DefaultExitCode, nil
	}
	if p.waitErr != nil {
		return DefaultExitCode, p.waitErr
	}
	return p.exitCode, nil
}
