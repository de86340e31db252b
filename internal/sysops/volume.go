package sysops

import (
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

// ExecVolume implements VolumeControl with the platform's mixer tool:
// amixer on Linux, osascript on macOS. Windows has no stock CLI mixer, so
// both operations fail there and the caller degrades gracefully.
type ExecVolume struct {
	goos string
}

var _ VolumeControl = (*ExecVolume)(nil)

// NewExecVolume returns a VolumeControl for the current platform.
func NewExecVolume() *ExecVolume {
	return &ExecVolume{}
}

func (v *ExecVolume) platform() string {
	if v.goos != "" {
		return v.goos
	}
	return runtime.GOOS
}

// amixerPercentRe captures the first "[NN%]" token in amixer output.
var amixerPercentRe = regexp.MustCompile(`\[(\d+)%\]`)

// Get returns the current output volume percent.
func (v *ExecVolume) Get() (int, error) {
	switch v.platform() {
	case "darwin":
		out, err := exec.Command("osascript", "-e", "output volume of (get volume settings)").Output()
		if err != nil {
			return 0, fmt.Errorf("sysops: osascript get volume: %w", err)
		}
		pct, err := strconv.Atoi(strings.TrimSpace(string(out)))
		if err != nil {
			return 0, fmt.Errorf("sysops: parse osascript volume: %w", err)
		}
		return pct, nil
	case "linux":
		out, err := exec.Command("amixer", "get", "Master").Output()
		if err != nil {
			return 0, fmt.Errorf("sysops: amixer get: %w", err)
		}
		return parseAmixerVolume(string(out))
	default:
		return 0, fmt.Errorf("sysops: volume query not supported on %s", v.platform())
	}
}

// Set changes the output volume to percent, clamped to [0, 100].
func (v *ExecVolume) Set(percent int) error {
	percent = clampPercent(percent)
	switch v.platform() {
	case "darwin":
		if err := exec.Command("osascript", "-e", fmt.Sprintf("set volume output volume %d", percent)).Run(); err != nil {
			return fmt.Errorf("sysops: osascript set volume: %w", err)
		}
		return nil
	case "linux":
		if err := exec.Command("amixer", "set", "Master", fmt.Sprintf("%d%%", percent)).Run(); err != nil {
			return fmt.Errorf("sysops: amixer set: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("sysops: volume control not supported on %s", v.platform())
	}
}

// parseAmixerVolume extracts the first percentage reported by amixer.
func parseAmixerVolume(out string) (int, error) {
	m := amixerPercentRe.FindStringSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("sysops: no volume percentage in amixer output")
	}
	return strconv.Atoi(m[1])
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
