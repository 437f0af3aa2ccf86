package process

import (
	"errors"
	"fmt"
	"os/exec"
	"syscall"

	"github.com/matgat/prctime/pkg/lib"
)

// StateError reports an operation invoked in the wrong lifecycle state.
type StateError struct {
	Op    string
	State lib.ProcessState
}

func (e *StateError) Error() string {
	return fmt.Sprintf("process %s: invalid in state %s", e.Op, e.State)
}

// SpawnError reports that the OS failed to create the child.
// Code is the OS error number, 0 when none is available.
type SpawnError struct {
	Path string
	Code int
	Err  error
}

func (e *SpawnError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("process launch %s: %s", e.Path, lib.ErrnoMessage(e.Code))
	}
	return fmt.Sprintf("process launch %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// WaitError reports an unexpected result from the wait primitive.
type WaitError struct {
	Op  string
	Err error
}

func (e *WaitError) Error() string {
	op := e.Op
	if op == "" {
		op = "wait"
	}
	return fmt.Sprintf("process %s: %v", op, e.Err)
}

func (e *WaitError) Unwrap() error { return e.Err }

// StatsError reports that the OS refused to provide accounting data.
type StatsError struct {
	Op   string
	Code int
	Err  error
}

func (e *StatsError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("process %s: %s", e.Op, lib.ErrnoMessage(e.Code))
	}
	return fmt.Sprintf("process %s: %v", e.Op, e.Err)
}

func (e *StatsError) Unwrap() error { return e.Err }

func newSpawnError(path string, err error) *SpawnError {
	return &SpawnError{Path: path, Code: errnoOf(err), Err: err}
}

func newStatsError(op string, err error) *StatsError {
	return &StatsError{Op: op, Code: errnoOf(err), Err: err}
}

// errnoOf digs the OS error number out of err. A failed PATH lookup carries no
// errno and is reported as ENOENT.
func errnoOf(err error) int {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	if errors.Is(err, exec.ErrNotFound) {
		return int(syscall.ENOENT)
	}
	return 0
}
