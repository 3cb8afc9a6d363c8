//go:build !windows

// Package process terminates the headless browser together with its helpers.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid.
func KillProcessGroup(pid int) {
	// Errors are ignored; launcher.Kill runs afterwards.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
