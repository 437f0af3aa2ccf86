package process

import (
	"errors"

	"github.com/matgat/prctime/pkg/lib"
)

// Close releases the OS resources held for the child. It does not kill a child
// that is still running. Calling Close more than once is a no-op.
func (p *Process) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	prev := p.state
	if prev == lib.ProcessStateClosed {
		return nil
	}
	p.state = lib.ProcessStateClosed
	p.log.Debug().Stringer("from", prev).Msg("closing process handle")

	var errs []error
	if p.cycles != nil {
		errs = append(errs, p.cycles.Close())
		p.cycles = nil
	}
	// A running child keeps its cgroup busy; the waiter removes it on exit.
	if p.cgroup && prev == lib.ProcessStateExited {
		errs = append(errs, CleanupCgroup(p.id))
	}
	return errors.Join(errs...)
}
