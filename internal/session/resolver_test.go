package session

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/crosspub/crosspub/internal/models"
	"github.com/crosspub/crosspub/internal/shared"
)

// fakeProber reports liveness from a mutable port set.
type fakeProber struct {
	mu    sync.Mutex
	alive map[int]bool
}

func (p *fakeProber) Alive(ctx context.Context, port int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.alive[port]
}

func (p *fakeProber) setAlive(port int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.alive == nil {
		p.alive = map[int]bool{}
	}
	p.alive[port] = ok
}

// fakeLauncher marks the launched port alive on the prober, standing in for
// a browser coming up.
type fakeLauncher struct {
	prober *fakeProber
	err    error

	mu       sync.Mutex
	launches int
}

func (l *fakeLauncher) Launch(profileDir, url string, port int) (int, error) {
	l.mu.Lock()
	l.launches++
	l.mu.Unlock()

	if l.err != nil {
		return 0, l.err
	}
	l.prober.setAlive(port, true)
	return 4321, nil
}

func (l *fakeLauncher) launchCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.launches
}

func testResolverAccount(t *testing.T) (*models.Account, string) {
	t.Helper()
	dir := t.TempDir()
	account := models.NewAccount(1, models.PlatformDouyin, "creator", dir)
	account.SetID("acct-1")
	return account, dir
}

func newTestResolver(prober *fakeProber, launcher Launcher) *Resolver {
	return NewResolver(prober, launcher, shared.NewLogger(io.Discard), 500*time.Millisecond, 5*time.Millisecond)
}

func TestResolverResolve(t *testing.T) {
	t.Run("LaunchesWhenNoEndpoint", func(t *testing.T) {
		account, _ := testResolverAccount(t)
		prober := &fakeProber{}
		launcher := &fakeLauncher{prober: prober}
		resolver := newTestResolver(prober, launcher)

		sess, err := resolver.Resolve(context.Background(), account, "https://example.com/upload")
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}

		if sess.Mode != models.SessionLaunchedNew {
			t.Errorf("expected launched_new, got %s", sess.Mode)
		}
		if sess.PID != 4321 {
			t.Errorf("expected launcher pid, got %d", sess.PID)
		}
		if launcher.launchCount() != 1 {
			t.Errorf("expected one launch, got %d", launcher.launchCount())
		}
	})

	t.Run("ReusesPortFromDevToolsFile", func(t *testing.T) {
		account, dir := testResolverAccount(t)
		if err := os.WriteFile(filepath.Join(dir, "DevToolsActivePort"), []byte("9222\n/devtools/browser/abc"), 0o644); err != nil {
			t.Fatal(err)
		}
		prober := &fakeProber{}
		prober.setAlive(9222, true)
		launcher := &fakeLauncher{prober: prober}
		resolver := newTestResolver(prober, launcher)

		sess, err := resolver.Resolve(context.Background(), account, "https://example.com/upload")
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}

		if sess.Mode != models.SessionReusedExisting || sess.Port != 9222 {
			t.Errorf("expected reuse of port 9222, got %s/%d", sess.Mode, sess.Port)
		}
		if launcher.launchCount() != 0 {
			t.Errorf("reuse should not launch, got %d launches", launcher.launchCount())
		}
	})

	t.Run("ProfileBusyWhenLockedWithoutEndpoint", func(t *testing.T) {
		account, dir := testResolverAccount(t)
		if err := os.WriteFile(filepath.Join(dir, "SingletonLock"), nil, 0o644); err != nil {
			t.Fatal(err)
		}
		prober := &fakeProber{}
		resolver := newTestResolver(prober, &fakeLauncher{prober: prober})

		_, err := resolver.Resolve(context.Background(), account, "https://example.com/upload")
		if shared.CodeOf(err) != shared.CodeProfileBusy {
			t.Errorf("expected PROFILE_BUSY, got %v", err)
		}
	})

	t.Run("MissingProfileDir", func(t *testing.T) {
		account := models.NewAccount(1, models.PlatformDouyin, "creator", "/nonexistent/profile")
		prober := &fakeProber{}
		resolver := newTestResolver(prober, &fakeLauncher{prober: prober})

		_, err := resolver.Resolve(context.Background(), account, "https://example.com/upload")
		if shared.CodeOf(err) != shared.CodeLaunchFailed {
			t.Errorf("expected LAUNCH_FAILED, got %v", err)
		}
	})

	t.Run("ReadOnlyProfileDir", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("root ignores directory write permissions")
		}
		account, dir := testResolverAccount(t)
		if err := os.Chmod(dir, 0o555); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { os.Chmod(dir, 0o755) })
		prober := &fakeProber{}
		launcher := &fakeLauncher{prober: prober}
		resolver := newTestResolver(prober, launcher)

		_, err := resolver.Resolve(context.Background(), account, "https://example.com/upload")
		if shared.CodeOf(err) != shared.CodeLaunchFailed {
			t.Errorf("expected LAUNCH_FAILED, got %v", err)
		}
		if launcher.launchCount() != 0 {
			t.Errorf("unwritable profile should not launch, got %d launches", launcher.launchCount())
		}
	})

	t.Run("LaunchErrorCarriesCode", func(t *testing.T) {
		account, _ := testResolverAccount(t)
		prober := &fakeProber{}
		launcher := &fakeLauncher{prober: prober, err: errors.New("exec failed")}
		resolver := newTestResolver(prober, launcher)

		_, err := resolver.Resolve(context.Background(), account, "https://example.com/upload")
		if shared.CodeOf(err) != shared.CodeLaunchFailed {
			t.Errorf("expected LAUNCH_FAILED, got %v", err)
		}
	})

	t.Run("EndpointNeverAnswersTimesOut", func(t *testing.T) {
		account, _ := testResolverAccount(t)
		prober := &fakeProber{}
		// launcher that claims success but never brings the endpoint up
		launcher := &stalledLauncher{}
		resolver := newTestResolver(prober, launcher)

		_, err := resolver.Resolve(context.Background(), account, "https://example.com/upload")
		if shared.CodeOf(err) != shared.CodeLaunchFailed {
			t.Errorf("expected LAUNCH_FAILED on stall, got %v", err)
		}
	})

	t.Run("ConcurrentSameProfileLaunchesOnce", func(t *testing.T) {
		account, _ := testResolverAccount(t)
		prober := &fakeProber{}
		launcher := &fakeLauncher{prober: prober}
		resolver := newTestResolver(prober, launcher)

		var wg sync.WaitGroup
		modes := make([]models.SessionMode, 4)
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				sess, err := resolver.Resolve(context.Background(), account, "https://example.com/upload")
				if err != nil {
					t.Errorf("resolve %d failed: %v", i, err)
					return
				}
				modes[i] = sess.Mode
			}(i)
		}
		wg.Wait()

		if launcher.launchCount() != 1 {
			t.Fatalf("expected exactly one launch, got %d", launcher.launchCount())
		}

		launched := 0
		for _, mode := range modes {
			if mode == models.SessionLaunchedNew {
				launched++
			}
		}
		if launched != 1 {
			t.Errorf("expected one launched_new and the rest reused, got %d launched", launched)
		}
	})
}

type stalledLauncher struct{}

func (l *stalledLauncher) Launch(profileDir, url string, port int) (int, error) {
	return 1, nil
}

func TestProfileHelpers(t *testing.T) {
	t.Run("NextProfileIndex", func(t *testing.T) {
		base := t.TempDir()
		for _, name := range []string{"douyin-1", "douyin-3", "bilibili-1"} {
			if err := os.Mkdir(filepath.Join(base, name), 0o755); err != nil {
				t.Fatal(err)
			}
		}

		index, err := NextProfileIndex(base, "douyin")
		if err != nil {
			t.Fatalf("next index: %v", err)
		}
		if index != 4 {
			t.Errorf("expected 4, got %d", index)
		}
	})

	t.Run("CreateProfileDir", func(t *testing.T) {
		base := t.TempDir()
		dir, err := CreateProfileDir(base, "youtube", 1)
		if err != nil {
			t.Fatalf("create profile dir: %v", err)
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("profile dir not created: %v", err)
		}
	})

	t.Run("ReadDevToolsPort", func(t *testing.T) {
		dir := t.TempDir()
		if _, ok := readDevToolsPort(dir); ok {
			t.Error("missing file should report no port")
		}

		if err := os.WriteFile(filepath.Join(dir, "DevToolsActivePort"), []byte("not-a-port"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, ok := readDevToolsPort(dir); ok {
			t.Error("malformed file should report no port")
		}

		if err := os.WriteFile(filepath.Join(dir, "DevToolsActivePort"), []byte("9333\n/devtools/browser/xyz"), 0o644); err != nil {
			t.Fatal(err)
		}
		port, ok := readDevToolsPort(dir)
		if !ok || port != 9333 {
			t.Errorf("expected 9333, got %d (%v)", port, ok)
		}
	})
}
