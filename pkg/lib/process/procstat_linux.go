//go:build linux

package process

import (
	"time"

	"github.com/prometheus/procfs"
)

// USER_HZ is fixed at 100 on every Linux ABI.
const clockTicksPerSecond = 100

// runningTimes samples user and kernel CPU time of a live process from
// /proc/<pid>/stat.
func runningTimes(pid int) (user, kernel time.Duration, err error) {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return 0, 0, err
	}
	return runningTimesFrom(fs, pid)
}

// runningTimesFrom adds the times of children the process already waited
// for, matching the rusage wait reports once the process itself exits.
func runningTimesFrom(fs procfs.FS, pid int) (user, kernel time.Duration, err error) {
	proc, err := fs.Proc(pid)
	if err != nil {
		return 0, 0, err
	}
	stat, err := proc.Stat()
	if err != nil {
		return 0, 0, err
	}
	user = ticksToDuration(uint64(stat.UTime) + uint64(stat.CUTime))
	kernel = ticksToDuration(uint64(stat.STime) + uint64(stat.CSTime))
	return user, kernel, nil
}

func ticksToDuration(ticks uint64) time.Duration {
	return time.Duration(ticks) * time.Second / clockTicksPerSecond
}
