//go:build !linux

package process

import (
	"errors"
	"os/exec"
	"time"
)

func GetSysProcAttr(id string) (*SysProcAttr, error) {
	return &SysProcAttr{}, nil
}

func KillCgroup(id string) (bool, error) {
	return false, nil
}

func CleanupCgroup(id string) error {
	return nil
}

func startCounted(cmd *exec.Cmd) (cycleCounter, error, error) {
	return nil, errors.ErrUnsupported, cmd.Start()
}

func killPid(pid int) error {
	return errors.ErrUnsupported
}

func runningTimes(pid int) (user, kernel time.Duration, err error) {
	return 0, 0, errors.ErrUnsupported
}
