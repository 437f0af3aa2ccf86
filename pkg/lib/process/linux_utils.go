//go:build linux

package process

import (
	"os"
	"path/filepath"
	"sync"
	"syscall"
)

const (
	cgroupRoot = "/sys/fs/cgroup/prctime"
)

var (
	cgroupInitOnce sync.Once
	cgroupInitErr  error
)

// initCgroups creates the cgroup root for prctime.
// It is safe to call multiple times; real work happens only once.
func initCgroups() error {
	cgroupInitOnce.Do(func() {
		cgroupInitErr = os.MkdirAll(cgroupRoot, 0755)
	})
	return cgroupInitErr
}

// GetSysProcAttr returns attributes that start the child inside a fresh cgroup
// named after id. As non-root no cgroup is used.
func GetSysProcAttr(id string) (*SysProcAttr, error) {
	if os.Geteuid() != 0 {
		return &SysProcAttr{}, nil
	}

	if err := initCgroups(); err != nil {
		return nil, err
	}

	cgPath := filepath.Join(cgroupRoot, id)
	if err := os.MkdirAll(cgPath, 0755); err != nil {
		return nil, err
	}

	cGroupFile, err := os.Open(cgPath)
	if err != nil {
		_ = os.Remove(cgPath)
		return nil, err
	}

	return &SysProcAttr{
		File: cGroupFile,
		Raw: &syscall.SysProcAttr{
			UseCgroupFD: true,
			CgroupFD:    int(cGroupFile.Fd()),
		},
		Cgroup: true,
	}, nil
}

// KillCgroup kills every process in the cgroup of id (cgroup v2, Linux 5.14+).
func KillCgroup(id string) (bool, error) {
	cgDir := filepath.Join(cgroupRoot, id)
	err := writeString(filepath.Join(cgDir, "cgroup.kill"), "1")

	return err == nil, err
}

func CleanupCgroup(id string) error {
	cgDir := filepath.Join(cgroupRoot, id)
	return os.Remove(cgDir)
}

func writeString(path, val string) error {
	return os.WriteFile(path, []byte(val), 0644)
}

// killPid sends SIGKILL by process id, for when the os.Process handle can no
// longer signal the child.
func killPid(pid int) error {
	return syscall.Kill(pid, syscall.SIGKILL)
}
