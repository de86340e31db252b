package sysops

import (
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ExecLauncher implements Launcher with the platform's native launch verb:
// "open -a" on macOS, Start-Process (then "cmd /c start") on Windows, and
// gtk-launch → xdg-open → PATH lookup on Linux.
type ExecLauncher struct {
	// goos overrides runtime.GOOS in tests. Empty means the real value.
	goos string
}

var _ Launcher = (*ExecLauncher)(nil)

// NewExecLauncher returns a Launcher for the current platform.
func NewExecLauncher() *ExecLauncher {
	return &ExecLauncher{}
}

func (l *ExecLauncher) platform() string {
	if l.goos != "" {
		return l.goos
	}
	return runtime.GOOS
}

// Open dispatches a launch attempt for name. The child process is started
// detached and never waited on.
func (l *ExecLauncher) Open(name string) bool {
	switch l.platform() {
	case "darwin":
		return startDetached("open", "-a", name)
	case "windows":
		if startDetached("powershell", "-NoProfile", "-Command", "Start-Process -FilePath '"+name+"'") {
			return true
		}
		return startDetached("cmd", "/c", "start", "", name)
	default:
		return l.openLinux(name)
	}
}

func (l *ExecLauncher) openLinux(name string) bool {
	// Desktop entry first: "Google Chrome" → google-chrome.desktop.
	desktopID := strings.ReplaceAll(strings.ToLower(name), " ", "-") + ".desktop"
	if _, err := exec.LookPath("gtk-launch"); err == nil {
		if err := exec.Command("gtk-launch", desktopID).Run(); err == nil {
			return true
		}
	}
	if _, err := os.Stat(name); err == nil {
		return startDetached("xdg-open", name)
	}
	if path, err := exec.LookPath(name); err == nil {
		return startDetached(path)
	}
	return false
}

// startDetached starts a command without waiting. A failed Start means the
// binary itself could not be spawned; anything after that is out of reach.
func startDetached(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		slog.Debug("launch failed", "cmd", name, "err", err)
		return false
	}
	// Reap the child in the background to avoid zombies.
	go func() { _ = cmd.Wait() }()
	return true
}
