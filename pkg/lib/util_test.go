package lib

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if a == b {
		t.Fatalf("expected distinct ids, got %s twice", a)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Fatalf("NewID is not a uuid: %v", err)
	}
}

func TestErrnoMessage(t *testing.T) {
	got := ErrnoMessage(int(unix.ENOENT))
	want := "[0x2] no such file or directory"
	if got != want {
		t.Fatalf("ErrnoMessage(ENOENT) = %q, want %q", got, want)
	}

	got = ErrnoMessage(int(unix.EACCES))
	want = "[0xD] permission denied"
	if got != want {
		t.Fatalf("ErrnoMessage(EACCES) = %q, want %q", got, want)
	}
}

func TestErrnoName(t *testing.T) {
	if got := ErrnoName(int(unix.ENOENT)); got != "ENOENT" {
		t.Fatalf("ErrnoName(ENOENT) = %q", got)
	}
	if got := ErrnoName(100000); got != "" {
		t.Fatalf("expected empty name for unknown code, got %q", got)
	}
}

func TestCommandLine(t *testing.T) {
	if got := (Command{Path: "ls"}).CommandLine(); got != "ls" {
		t.Fatalf("CommandLine without args = %q", got)
	}
	cmd := Command{Path: "/bin/echo", Args: []string{"a", "b c"}}
	if got := cmd.CommandLine(); got != "/bin/echo a b c" {
		t.Fatalf("CommandLine = %q", got)
	}
}

func TestExecutionStatsSeconds(t *testing.T) {
	st := ExecutionStats{KernelTime: 250 * time.Millisecond, UserTime: 1500 * time.Millisecond, CPUCycles: 42}
	if st.KernelSeconds() != 0.25 {
		t.Fatalf("KernelSeconds = %v", st.KernelSeconds())
	}
	if st.UserSeconds() != 1.5 {
		t.Fatalf("UserSeconds = %v", st.UserSeconds())
	}
	if st.SystemSeconds() != 1.75 {
		t.Fatalf("SystemSeconds = %v", st.SystemSeconds())
	}
}

func TestProcessStateCreated(t *testing.T) {
	cases := map[ProcessState]bool{
		ProcessStateUnlaunched: false,
		ProcessStateRunning:    true,
		ProcessStateExited:     true,
		ProcessStateClosed:     false,
	}
	for st, want := range cases {
		if st.Created() != want {
			t.Fatalf("%s.Created() = %v, want %v", st, st.Created(), want)
		}
	}
}
