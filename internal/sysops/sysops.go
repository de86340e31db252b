// Package sysops holds the thin OS collaborators the built-in skills depend
// on: application launching, system volume control, and Steam integration.
//
// Everything here is best-effort shell plumbing with no algorithmic content.
// The skills consume these capabilities through the narrow interfaces below
// so that tests (and mock mode) never touch the host system.
package sysops

// Launcher opens an application by name. Open reports whether a launch was
// dispatched — not whether the application actually came up; launching is
// fire-and-forget.
type Launcher interface {
	Open(name string) bool
}

// VolumeControl queries and mutates the OS output volume as a 0–100 percent.
type VolumeControl interface {
	Get() (int, error)
	Set(percent int) error
}

// SteamLauncher starts Steam games. Both methods report whether a launch was
// dispatched, matching the Launcher semantics.
type SteamLauncher interface {
	LaunchByName(name string) bool
	LaunchByAppID(id string) bool
}
