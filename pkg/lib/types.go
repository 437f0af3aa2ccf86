package lib

import (
	"strings"
	"time"
)

// ProcessState tracks the lifecycle of a single child process handle.
type ProcessState int

const (
	ProcessStateUnlaunched ProcessState = iota
	ProcessStateRunning
	ProcessStateExited
	ProcessStateClosed
)

func (s ProcessState) String() string {
	switch s {
	case ProcessStateUnlaunched:
		return "unlaunched"
	case ProcessStateRunning:
		return "running"
	case ProcessStateExited:
		return "exited"
	case ProcessStateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Created reports whether a child exists behind the handle, running or not.
func (s ProcessState) Created() bool {
	return s == ProcessStateRunning || s == ProcessStateExited
}

// Command captures the executable and the arguments handed to it.
type Command struct {
	Path string
	Args []string
}

// CommandLine renders the command as a single space-separated line.
func (c Command) CommandLine() string {
	if len(c.Args) == 0 {
		return c.Path
	}
	return c.Path + " " + strings.Join(c.Args, " ")
}

// ExecutionStats is the accounting snapshot of a child process.
type ExecutionStats struct {
	KernelTime time.Duration
	UserTime   time.Duration
	CPUCycles  uint64
}

func (s ExecutionStats) KernelSeconds() float64 {
	return s.KernelTime.Seconds()
}

func (s ExecutionStats) UserSeconds() float64 {
	return s.UserTime.Seconds()
}

// SystemSeconds is the combined kernel and user CPU time.
func (s ExecutionStats) SystemSeconds() float64 {
	return (s.KernelTime + s.UserTime).Seconds()
}
