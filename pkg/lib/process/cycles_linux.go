//go:build linux

package process

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// perfEvent selects the kernel counter attached to a child.
type perfEvent struct {
	typ    uint32
	config uint64
}

var cpuCyclesEvent = perfEvent{typ: unix.PERF_TYPE_HARDWARE, config: unix.PERF_COUNT_HW_CPU_CYCLES}

// perfCounter is a counter opened on the forking thread before the child
// exists. The child inherits it disabled and the kernel enables it at exec,
// so counting starts with the first instruction of the new program. Every
// descendant inherits it as well and folds its count in when it exits.
type perfCounter struct {
	fd      int
	release chan struct{}
}

// startCounted starts cmd with a cpu cycle counter attached.
// counterErr reports why no counter could be attached; the child still runs.
func startCounted(cmd *exec.Cmd) (counter cycleCounter, counterErr error, err error) {
	return startWithCounter(cmd, cpuCyclesEvent)
}

func startWithCounter(cmd *exec.Cmd, ev perfEvent) (cycleCounter, error, error) {
	type result struct {
		counter    cycleCounter
		counterErr error
		err        error
	}
	ch := make(chan result, 1)

	go func() {
		// The counter belongs to this thread and every fork made from it
		// inherits it, so the thread stays locked and parked until the counter
		// is closed, then exits with the goroutine.
		runtime.LockOSThread()

		var res result
		fd, err := perfOpenInherited(ev)
		if err != nil {
			res.counterErr = fmt.Errorf("perf_event_open: %w", err)
		}

		res.err = cmd.Start()

		if fd < 0 {
			ch <- res
			return
		}
		if res.err != nil {
			_ = unix.Close(fd)
			ch <- res
			return
		}
		c := &perfCounter{fd: fd, release: make(chan struct{})}
		res.counter = c
		ch <- res
		<-c.release
	}()

	res := <-ch
	return res.counter, res.counterErr, res.err
}

// perfOpenInherited opens a disabled, inherited, enable-on-exec counter on the
// calling thread. It returns -1 on failure.
func perfOpenInherited(ev perfEvent) (int, error) {
	fd, err := perfOpen(ev, false)
	if errors.Is(err, unix.EACCES) || errors.Is(err, unix.EPERM) {
		// perf_event_paranoid >= 2 only lets unprivileged users count user space.
		fd, err = perfOpen(ev, true)
	}
	if err != nil {
		return -1, err
	}
	return fd, nil
}

func perfOpen(ev perfEvent, userOnly bool) (int, error) {
	attr := unix.PerfEventAttr{
		Type:   ev.typ,
		Config: ev.config,
		Size:   uint32(unsafe.Sizeof(unix.PerfEventAttr{})),
		Bits:   unix.PerfBitDisabled | unix.PerfBitInherit | unix.PerfBitEnableOnExec | unix.PerfBitExcludeHv,
	}
	if userOnly {
		attr.Bits |= unix.PerfBitExcludeKernel
	}
	// pid 0 with cpu -1: the calling thread, on any cpu.
	return unix.PerfEventOpen(&attr, 0, -1, -1, unix.PERF_FLAG_FD_CLOEXEC)
}

// Read returns the count accumulated by the descendants that have exited so far.
func (c *perfCounter) Read() (uint64, error) {
	var buf [8]byte
	n, err := unix.Read(c.fd, buf[:])
	if err != nil {
		return 0, err
	}
	if n != len(buf) {
		return 0, fmt.Errorf("short read from cycle counter: %d bytes", n)
	}
	return binary.NativeEndian.Uint64(buf[:]), nil
}

// Close releases the counter and the thread that owns it.
func (c *perfCounter) Close() error {
	err := unix.Close(c.fd)
	close(c.release)
	return err
}
