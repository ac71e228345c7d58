// Package session resolves automation-capable browser sessions per account.
//
// The browser profile directory is the unit of mutual exclusion: concurrent
// resolutions for the same profile serialize on a keyed lock, so the second
// caller waits for, then reuses, the first caller's session instead of racing
// a second browser onto the same profile. Unrelated profiles stay fully
// parallel. Released sessions leave the browser window open for the user.
package session

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/crosspub/crosspub/internal/models"
	"github.com/crosspub/crosspub/internal/shared"
	"golang.org/x/time/rate"
)

// Session is a live, automatable browser bound to one account's profile.
// Ephemeral: never persisted, released when its runner finishes.
type Session struct {
	AccountID string
	Port      int
	Mode      models.SessionMode
	PID       int // 0 when the browser was reused rather than launched
}

// Prober checks whether a debugging endpoint is alive.
// Satisfied by [cdp.Client].
type Prober interface {
	Alive(ctx context.Context, port int) bool
}

// Resolver finds or launches browser sessions, one live session per profile
// directory at most.
type Resolver struct {
	prober   Prober
	launcher Launcher
	logger   *log.Logger

	launchTimeout time.Duration
	pollInterval  time.Duration

	mu       sync.Mutex
	profiles map[string]*profileState
}

// profileState carries the per-profile lock and the last known debug port.
type profileState struct {
	mu   sync.Mutex
	port int
}

// NewResolver creates a resolver. launchTimeout bounds how long a launched
// browser may take to expose its debugging endpoint.
func NewResolver(prober Prober, launcher Launcher, logger *log.Logger, launchTimeout, pollInterval time.Duration) *Resolver {
	if launchTimeout <= 0 {
		launchTimeout = 20 * time.Second
	}
	if pollInterval <= 0 {
		pollInterval = 200 * time.Millisecond
	}
	return &Resolver{
		prober:        prober,
		launcher:      launcher,
		logger:        logger,
		launchTimeout: launchTimeout,
		pollInterval:  pollInterval,
		profiles:      make(map[string]*profileState),
	}
}

// Resolve returns a session for the account: an existing automation-capable
// browser on the account's profile when one answers, otherwise a freshly
// launched one. openURL is the page a new browser opens on.
//
// Two concurrent resolutions for the same profile serialize here; the second
// observes the first's endpoint and reuses it.
func (r *Resolver) Resolve(ctx context.Context, account *models.Account, openURL string) (*Session, error) {
	profileDir := account.ProfileDir()
	if info, err := os.Stat(profileDir); err != nil || !info.IsDir() {
		return nil, shared.Codef(shared.CodeLaunchFailed, "profile directory %s does not exist", profileDir)
	}
	if err := writableDir(profileDir); err != nil {
		return nil, shared.Codef(shared.CodeLaunchFailed, "profile directory %s is not writable: %v", profileDir, err)
	}

	state := r.profileState(profileDir)
	state.mu.Lock()
	defer state.mu.Unlock()

	// A port remembered from an earlier resolution, or written by the browser
	// itself, means a window may already be open for this account.
	if port, ok := r.knownPort(state, profileDir); ok && r.prober.Alive(ctx, port) {
		r.logger.Info("reusing existing browser session", "account", account.ID(), "port", port)
		return &Session{
			AccountID: account.ID(),
			Port:      port,
			Mode:      models.SessionReusedExisting,
		}, nil
	}
	state.port = 0

	// No live endpoint. A held singleton lock now means a non-debuggable
	// browser owns the profile; launching would fail or corrupt it.
	if profileLocked(profileDir) {
		return nil, shared.WithCode(shared.CodeProfileBusy,
			fmt.Errorf("%w: %s", shared.ErrProfileBusy, profileDir))
	}

	port, err := freePort()
	if err != nil {
		return nil, shared.Codef(shared.CodeLaunchFailed, "no free debugging port: %v", err)
	}

	pid, err := r.launcher.Launch(profileDir, openURL, port)
	if err != nil {
		return nil, shared.WithCode(shared.CodeLaunchFailed, err)
	}
	r.logger.Info("launched browser", "account", account.ID(), "pid", pid, "port", port)

	if err := r.awaitEndpoint(ctx, port); err != nil {
		return nil, err
	}

	state.port = port
	return &Session{
		AccountID: account.ID(),
		Port:      port,
		Mode:      models.SessionLaunchedNew,
		PID:       pid,
	}, nil
}

// Release ends the runner's use of the session. The browser window is
// deliberately left open so the user can inspect or complete the upload.
func (r *Resolver) Release(sess *Session) {
	if sess == nil {
		return
	}
	r.logger.Debug("released session", "account", sess.AccountID, "port", sess.Port, "mode", sess.Mode)
}

// profileState returns the keyed state for a profile dir, creating it once.
func (r *Resolver) profileState(profileDir string) *profileState {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.profiles[profileDir]
	if !ok {
		state = &profileState{}
		r.profiles[profileDir] = state
	}
	return state
}

// knownPort prefers the in-memory port from a previous resolution and falls
// back to the DevToolsActivePort file Chrome writes into the profile.
func (r *Resolver) knownPort(state *profileState, profileDir string) (int, bool) {
	if state.port > 0 {
		return state.port, true
	}
	return readDevToolsPort(profileDir)
}

// awaitEndpoint polls the launched browser's debugging endpoint until it
// answers or the launch budget runs out. Polling is paced with a limiter so a
// slow machine is not hammered with probes.
func (r *Resolver) awaitEndpoint(ctx context.Context, port int) error {
	ctx, cancel := context.WithTimeout(ctx, r.launchTimeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(r.pollInterval), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return shared.Codef(shared.CodeLaunchFailed,
				"browser did not expose debugging endpoint on port %d within %s", port, r.launchTimeout)
		}
		if r.prober.Alive(ctx, port) {
			return nil
		}
	}
}

// freePort asks the OS for an unused TCP port.
func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
