//go:build linux

package process

import (
	"os/exec"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

// The task clock counts nanoseconds on the cpu and needs no hardware PMU.
var taskClockEvent = perfEvent{typ: unix.PERF_TYPE_SOFTWARE, config: unix.PERF_COUNT_SW_TASK_CLOCK}

func TestCounterCoversForkedDescendants(t *testing.T) {
	// The outer shell forks the busy inner shell right after exec and only waits.
	cmd := exec.Command("sh", "-c",
		`sh -c 'i=0; while [ $i -lt 100000 ]; do i=$((i+1)); done'; exit 0`)
	counter, counterErr, err := startWithCounter(cmd, taskClockEvent)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if counterErr != nil {
		_ = cmd.Wait()
		t.Skipf("task clock counter unavailable: %v", counterErr)
	}
	defer counter.Close()

	if err := cmd.Wait(); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	ns, err := counter.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	rusage := cmd.ProcessState.UserTime() + cmd.ProcessState.SystemTime()
	if rusage < 10*time.Millisecond {
		t.Skipf("child too fast to compare: %v", rusage)
	}
	if counted := time.Duration(ns); counted < rusage/2 {
		t.Fatalf("counter saw %v of cpu time, rusage reports %v", counted, rusage)
	}
}

func TestCounterAttachesToShortLivedChild(t *testing.T) {
	for i := 0; i < 20; i++ {
		cmd := exec.Command("sh", "-c", "exit 0")
		counter, counterErr, err := startWithCounter(cmd, taskClockEvent)
		if err != nil {
			t.Fatalf("start failed: %v", err)
		}
		if counterErr != nil {
			_ = cmd.Wait()
			t.Skipf("task clock counter unavailable: %v", counterErr)
		}
		if err := cmd.Wait(); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
		ns, err := counter.Read()
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if ns == 0 {
			t.Fatalf("run %d: counter saw no cpu time", i)
		}
		if err := counter.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}
}

func TestCounterNotLeftOnFailedStart(t *testing.T) {
	cmd := exec.Command("/nonexistent/prctime-test-binary")
	counter, _, err := startWithCounter(cmd, taskClockEvent)
	if err == nil {
		t.Fatalf("expected start error")
	}
	if counter != nil {
		t.Fatalf("expected no counter after failed start")
	}
}
