//go:build !windows

// Package process cleans up browser processes left behind by the renderer.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the whole process group of pid, which
// takes Chrome's renderer and GPU helpers down with the browser.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// launcher.Kill runs afterwards, so a failure here is not fatal
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
