package session

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/crosspub/crosspub/internal/shared"
)

var getRuntime = func() string { return runtime.GOOS }

// DetectChrome locates an installed Chrome/Chromium binary: well-known install
// paths first, then PATH lookup.
func DetectChrome() (string, error) {
	var candidates []string
	var names []string

	switch getRuntime() {
	case "darwin":
		candidates = []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
		}
		names = []string{"google-chrome"}
	case "windows":
		candidates = []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
		}
		names = []string{"chrome"}
	default:
		names = []string{"google-chrome", "google-chrome-stable", "chromium-browser", "chromium"}
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: install Google Chrome or set chrome.binary in config", shared.ErrChromeNotFound)
}

// ProfilesBaseDir returns (and creates) the base directory holding browser
// profiles, one subdirectory per account.
func ProfilesBaseDir(configured string) (string, error) {
	base := configured
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot find home directory: %w", err)
		}
		base = filepath.Join(home, ".crosspub", "profiles")
	}
	if err := os.MkdirAll(base, 0755); err != nil {
		return "", fmt.Errorf("failed to create profiles directory: %w", err)
	}
	return base, nil
}

// NextProfileIndex scans the base directory for "<platform>-<n>" profiles and
// returns the next free index.
func NextProfileIndex(base, platform string) (int, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return 0, fmt.Errorf("failed to read profiles directory: %w", err)
	}

	maxIndex := 0
	prefix := platform + "-"
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		if idx, err := strconv.Atoi(strings.TrimPrefix(entry.Name(), prefix)); err == nil && idx > maxIndex {
			maxIndex = idx
		}
	}
	return maxIndex + 1, nil
}

// CreateProfileDir creates a fresh "<platform>-<n>" profile directory under base.
func CreateProfileDir(base, platform string, index int) (string, error) {
	dir := filepath.Join(base, fmt.Sprintf("%s-%d", platform, index))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create profile directory: %w", err)
	}
	return dir, nil
}

// DeleteProfile removes a profile directory and everything under it.
func DeleteProfile(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to delete profile %s: %w", dir, err)
	}
	return nil
}

// Launcher starts a browser process bound to a profile directory.
// Implementations never kill or restart an existing process.
type Launcher interface {
	// Launch starts a browser with remote debugging on port, pointed at url.
	// It returns the started process id without waiting for the browser to
	// become ready; readiness is the resolver's concern.
	Launch(profileDir, url string, port int) (pid int, err error)
}

// ChromeLauncher launches a real Chrome process with the flag set the
// debugging workflow needs.
type ChromeLauncher struct {
	Binary       string
	WindowWidth  int
	WindowHeight int
}

// NewChromeLauncher builds a launcher, auto-detecting the binary when empty.
func NewChromeLauncher(binary string, width, height int) (*ChromeLauncher, error) {
	if binary == "" {
		detected, err := DetectChrome()
		if err != nil {
			return nil, err
		}
		binary = detected
	}
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 800
	}
	return &ChromeLauncher{Binary: binary, WindowWidth: width, WindowHeight: height}, nil
}

// Launch implements [Launcher].
func (l *ChromeLauncher) Launch(profileDir, url string, port int) (int, error) {
	args := []string{
		fmt.Sprintf("--user-data-dir=%s", profileDir),
		fmt.Sprintf("--remote-debugging-port=%d", port),
		"--no-first-run",
		"--no-default-browser-check",
		"--disable-default-apps",
		fmt.Sprintf("--window-size=%d,%d", l.WindowWidth, l.WindowHeight),
	}
	if url != "" {
		args = append(args, url)
	}

	cmd := exec.Command(l.Binary, args...)
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrSessionLaunch, err)
	}

	pid := cmd.Process.Pid
	// Reap the process when it eventually exits; the browser outlives us by design.
	go cmd.Wait()

	return pid, nil
}

// readDevToolsPort reads the DevToolsActivePort file Chrome writes into its
// user data directory. A stale file is indistinguishable from a fresh one
// here; the caller must confirm the endpoint actually answers.
func readDevToolsPort(profileDir string) (int, bool) {
	data, err := os.ReadFile(filepath.Join(profileDir, "DevToolsActivePort"))
	if err != nil {
		return 0, false
	}
	lines := strings.SplitN(strings.TrimSpace(string(data)), "\n", 2)
	port, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil || port <= 0 {
		return 0, false
	}
	return port, true
}

// writableDir verifies the directory accepts writes by creating and removing
// a scratch file. Chrome needs write access to the profile to start at all.
func writableDir(dir string) error {
	f, err := os.CreateTemp(dir, ".crosspub-write-check-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// profileLocked reports whether another browser process holds the profile's
// singleton lock. Chrome keeps SingletonLock while running against the dir.
func profileLocked(profileDir string) bool {
	for _, name := range []string{"SingletonLock", "lockfile"} {
		if _, err := os.Lstat(filepath.Join(profileDir, name)); err == nil {
			return true
		}
	}
	return false
}
