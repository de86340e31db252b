package sysops

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

// Steam implements SteamLauncher. It locates the local Steam install,
// resolves game names against the installed app manifests, and dispatches
// launches through the steam:// browser protocol so Steam itself handles the
// actual game startup.
type Steam struct {
	goos string
	// root caches the detected install directory; empty until first use.
	root     string
	rootOnce bool
	// open dispatches a steam:// URL. Overridable in tests.
	open func(url string) bool
}

var _ SteamLauncher = (*Steam)(nil)

// NewSteam returns a SteamLauncher for the current platform.
func NewSteam() *Steam {
	s := &Steam{}
	s.open = s.openURL
	return s
}

func (s *Steam) platform() string {
	if s.goos != "" {
		return s.goos
	}
	return runtime.GOOS
}

// Root returns the Steam install directory, or "" when Steam is not found.
func (s *Steam) Root() string {
	if !s.rootOnce {
		s.root = detectSteamRoot(s.platform())
		s.rootOnce = true
	}
	return s.root
}

// detectSteamRoot probes the well-known install locations per platform.
func detectSteamRoot(goos string) string {
	home, _ := os.UserHomeDir()

	var candidates []string
	switch goos {
	case "windows":
		candidates = []string{
			filepath.Join(os.Getenv("PROGRAMFILES"), "Steam"),
			filepath.Join(os.Getenv("PROGRAMFILES(X86)"), "Steam"),
			filepath.Join(home, "AppData", "Local", "Steam"),
		}
	case "darwin":
		candidates = []string{
			filepath.Join(home, "Library", "Application Support", "Steam"),
			"/Applications/Steam.app",
		}
	default:
		candidates = []string{
			filepath.Join(home, ".steam"),
			filepath.Join(home, ".local", "share", "Steam"),
			"/usr/games/steam",
			"/opt/steam",
		}
	}

	for _, c := range candidates {
		if c == "" || c == "Steam" {
			continue
		}
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// LaunchByAppID dispatches steam://rungameid/<id>.
func (s *Steam) LaunchByAppID(id string) bool {
	if id == "" {
		return false
	}
	return s.open("steam://rungameid/" + id)
}

// LaunchByName resolves name against the installed app manifests and
// launches the match by appid. Matching is case-insensitive substring,
// mirroring how people say game titles out loud.
func (s *Steam) LaunchByName(name string) bool {
	appID := s.findAppID(name)
	if appID == "" {
		return false
	}
	return s.LaunchByAppID(appID)
}

// manifest fields of interest inside appmanifest_*.acf (Valve KeyValues text).
var (
	acfAppIDRe = regexp.MustCompile(`"appid"\s+"(\d+)"`)
	acfNameRe  = regexp.MustCompile(`"name"\s+"([^"]*)"`)
)

// findAppID scans steamapps/appmanifest_*.acf under the Steam root for a
// title containing name (case-insensitive).
func (s *Steam) findAppID(name string) string {
	root := s.Root()
	if root == "" {
		return ""
	}
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return ""
	}

	manifests, err := filepath.Glob(filepath.Join(root, "steamapps", "appmanifest_*.acf"))
	if err != nil || len(manifests) == 0 {
		return ""
	}
	for _, mf := range manifests {
		raw, err := os.ReadFile(mf)
		if err != nil {
			continue
		}
		id, title := parseAppManifest(string(raw))
		if id == "" || title == "" {
			continue
		}
		if strings.Contains(strings.ToLower(title), want) {
			return id
		}
	}
	return ""
}

// parseAppManifest pulls the appid and display name out of an .acf file.
func parseAppManifest(raw string) (appID, name string) {
	if m := acfAppIDRe.FindStringSubmatch(raw); m != nil {
		appID = m[1]
	}
	if m := acfNameRe.FindStringSubmatch(raw); m != nil {
		name = m[1]
	}
	return appID, name
}

// openURL hands a steam:// URL to the OS URL handler.
func (s *Steam) openURL(url string) bool {
	switch s.platform() {
	case "darwin":
		return startDetached("open", url)
	case "windows":
		return startDetached("cmd", "/c", "start", "", url)
	default:
		if ok := startDetached("steam", url); ok {
			return true
		}
		return startDetached("xdg-open", url)
	}
}

// LogDetection writes a debug line describing the detection outcome.
func (s *Steam) LogDetection() {
	if root := s.Root(); root != "" {
		slog.Debug("steam install detected", "root", root)
	} else {
		slog.Debug("steam install not found")
	}
}
