package process

import (
	"errors"
	"io/fs"
	"syscall"
	"time"

	"github.com/matgat/prctime/pkg/lib"
)

// Stats returns the CPU accounting of the child. After exit the times come
// from the rusage reported by wait; while the child runs they are sampled
// from the OS. Both include descendants the child has already reaped.
// The cycle count is best-effort and 0 when no counter could be attached. It
// covers the child and every descendant that has exited so far.
func (p *Process) Stats() (lib.ExecutionStats, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var stats lib.ExecutionStats
	if !p.state.Created() {
		return stats, &StateError{Op: "stats", State: p.state}
	}

	if p.state == lib.ProcessStateRunning {
		user, kernel, err := p.sampleRunning()
		if err == nil {
			stats.KernelTime = kernel
			stats.UserTime = user
			return p.withCycles(stats), nil
		}
		if !isGone(err) || p.state == lib.ProcessStateRunning {
			return stats, newStatsError("stats", err)
		}
		// Exited while being sampled: report the final times instead.
	}

	if p.state != lib.ProcessStateExited {
		return stats, &StateError{Op: "stats", State: p.state}
	}
	ps := p.cmd.ProcessState
	if ps == nil {
		return stats, &StatsError{Op: "stats", Err: p.waitErr}
	}
	stats.KernelTime = ps.SystemTime()
	stats.UserTime = ps.UserTime()

	return p.withCycles(stats), nil
}

// sampleRunning reads the live times with p.mu released. A child that is no
// longer visible has been reaped, so the waiter is given up to killGrace to
// record the exit. p.mu is held again on return.
func (p *Process) sampleRunning() (user, kernel time.Duration, err error) {
	pid, times, done := p.pid, p.times, p.done
	p.mu.Unlock()
	defer p.mu.Lock()

	user, kernel, err = times(pid)
	if isGone(err) {
		select {
		case <-done:
		case <-time.After(killGrace):
		}
	}
	return user, kernel, err
}

func (p *Process) withCycles(stats lib.ExecutionStats) lib.ExecutionStats {
	if p.cycles == nil {
		return stats
	}
	cycles, err := p.cycles.Read()
	if err != nil {
		p.log.Debug().Err(err).Msg("reading cpu cycle counter failed")
		return stats
	}
	stats.CPUCycles = cycles
	return stats
}

func isGone(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ESRCH)
}
