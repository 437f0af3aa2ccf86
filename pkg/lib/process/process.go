// Package process owns the lifecycle of a single child process: launch,
// timed wait with forced termination, and post-exit CPU accounting.
package process

import (
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/matgat/prctime/pkg/lib"
)

const (
	// DefaultExitCode is returned by Wait when the child was terminated on
	// timeout, or when there is no child to wait for.
	DefaultExitCode = 1

	// DefaultTimeout is effectively "wait forever" (about 23 days).
	DefaultTimeout = 2_000_000_000 * time.Millisecond

	// killGrace bounds how long Wait waits for the child to be reaped after a kill.
	killGrace = 1 * time.Second

	// pipeWaitDelay bounds how long Wait keeps copying I/O after the child exited.
	pipeWaitDelay = 500 * time.Millisecond
)

var logger = zerolog.Nop()

// SetLogger replaces the package logger. Handles created afterwards use it.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// SysProcAttr couples the raw attributes with a file that must stay open until
// the child has been started (the cgroup directory on Linux).
type SysProcAttr struct {
	File   *os.File
	Raw    *syscall.SysProcAttr
	Cgroup bool
}

// Process is a handle to one child process.
type Process struct {
	id   string
	path string
	log  zerolog.Logger

	stdin          io.Reader
	stdout, stderr io.Writer
	timeout        time.Duration
	useCgroup      bool

	mu       sync.Mutex
	state    lib.ProcessState
	command  lib.Command
	cmd      *exec.Cmd
	pid      int
	done     chan struct{}
	exitCode int
	waitErr  error
	timedOut bool
	cgroup   bool
	cycles   cycleCounter

	// times samples the CPU times of a live process.
	times func(pid int) (user, kernel time.Duration, err error)
}

// Option configures a Process before launch.
type Option func(*Process)

// WithStdio overrides the standard streams handed to the child.
// By default the child shares the caller's streams.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(p *Process) {
		p.stdin = stdin
		p.stdout = stdout
		p.stderr = stderr
	}
}

// WithTimeout sets the timeout Wait applies when called with a non-positive one.
func WithTimeout(d time.Duration) Option {
	return func(p *Process) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithCgroup places the child in its own cgroup so that a timeout kills the
// whole process tree. Only effective on Linux when running as root.
func WithCgroup(enabled bool) Option {
	return func(p *Process) {
		p.useCgroup = enabled
	}
}

// New returns an unlaunched handle bound to path.
func New(path string, opts ...Option) *Process {
	id := lib.NewID()
	p := &Process{
		id:      id,
		path:    path,
		log:     logger.With().Str("id", id).Logger(),
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		timeout: DefaultTimeout,
		state:   lib.ProcessStateUnlaunched,
		times:   runningTimes,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID is the run identifier used in logs and cgroup names.
func (p *Process) ID() string { return p.id }

func (p *Process) Path() string { return p.path }

func (p *Process) State() lib.ProcessState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Command returns the command line the child was launched with.
func (p *Process) Command() lib.Command {
	p.mu.Lock()
	defer p.mu.Unlock()
	return lib.Command{Path: p.command.Path, Args: append([]string(nil), p.command.Args...)}
}

// Pid returns the child's process id, or 0 before launch.
func (p *Process) Pid() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pid
}

// IsRunning reports, without blocking, whether the child is still active.
func (p *Process) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == lib.ProcessStateRunning
}
