package automation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/crosspub/crosspub/internal/cdp"
	"github.com/crosspub/crosspub/internal/models"
	"github.com/crosspub/crosspub/internal/platforms"
	"github.com/crosspub/crosspub/internal/session"
	"github.com/crosspub/crosspub/internal/shared"
)

const (
	surfaceReadyBudget = 15 * time.Second
	uploadSignalBudget = 6 * time.Second
)

// Page is the slice of a CDP page connection the driver manipulates.
// Satisfied by [cdp.Conn].
type Page interface {
	EvaluateBool(ctx context.Context, expression string) (bool, error)
	EvaluateInt(ctx context.Context, expression string) (int, error)
	EvaluateString(ctx context.Context, expression string) (string, error)
	Navigate(ctx context.Context, url string) error
	SetFileInput(ctx context.Context, selector string, files []string) error
	Close() error
}

// Browser lists a session's page targets and attaches to one.
type Browser interface {
	Pages(ctx context.Context, port int) ([]cdp.PageTarget, error)
	Attach(ctx context.Context, wsURL string) (Page, error)
}

// CDPBrowser adapts [cdp.Client] + [cdp.Dial] to the [Browser] interface.
type CDPBrowser struct {
	Client *cdp.Client
}

func (b *CDPBrowser) Pages(ctx context.Context, port int) ([]cdp.PageTarget, error) {
	return b.Client.Pages(ctx, port)
}

func (b *CDPBrowser) Attach(ctx context.Context, wsURL string) (Page, error) {
	return cdp.Dial(ctx, wsURL)
}

// CDPDriver drives platform upload pages over the Chrome DevTools Protocol.
type CDPDriver struct {
	browser       Browser
	logger        *log.Logger
	pollInterval  time.Duration
	surfaceBudget time.Duration
	signalBudget  time.Duration
}

// NewCDPDriver creates a driver over the given browser transport.
func NewCDPDriver(browser Browser, logger *log.Logger, pollInterval time.Duration) *CDPDriver {
	if pollInterval <= 0 {
		pollInterval = 200 * time.Millisecond
	}
	return &CDPDriver{
		browser:       browser,
		logger:        logger,
		pollInterval:  pollInterval,
		surfaceBudget: surfaceReadyBudget,
		signalBudget:  uploadSignalBudget,
	}
}

// Drive implements [Driver]: locate the upload page, attach the video file,
// fill title/description/tags, and optionally submit.
func (d *CDPDriver) Drive(ctx context.Context, sess *session.Session, spec platforms.Spec, fill FillRequest) (Outcome, error) {
	logger := d.logger.With("platform", spec.ID, "port", sess.Port)

	page, err := d.attachUploadPage(ctx, sess, spec, logger)
	if err != nil {
		return Outcome{}, err
	}
	defer page.Close()

	if err := d.ensureUploadContext(ctx, page, spec, logger); err != nil {
		return Outcome{}, err
	}

	uploaded, err := d.attachVideo(ctx, page, spec, fill.VideoPath, logger)
	if err != nil {
		return Outcome{}, err
	}
	if !uploaded {
		return Outcome{
			Phase:   models.PhaseManualContinue,
			Message: "no usable file input found; finish the upload by hand in the open window",
		}, nil
	}

	filled := d.fillFields(ctx, page, spec, fill, logger)
	if !filled.titleOK && !filled.descriptionOK {
		return Outcome{
			Phase:   models.PhaseManualContinue,
			Message: "upload started but the metadata fields did not match known layouts; fill them by hand",
		}, nil
	}

	outcome := Outcome{
		Phase:   models.PhaseUploadStarted,
		Message: filled.summary(),
	}

	if !fill.ManualConfirm && spec.AutoSubmit {
		if d.clickFirst(ctx, page, spec.SubmitSelectors) {
			logger.Info("submitted upload form")
			outcome.Submitted = true
		} else {
			logger.Warn("auto-submit enabled but no submit control matched")
		}
	}

	return outcome, nil
}

// attachUploadPage picks the session's page already on the platform's upload
// surface, or attaches to the first page and points it at the upload URL.
func (d *CDPDriver) attachUploadPage(ctx context.Context, sess *session.Session, spec platforms.Spec, logger *log.Logger) (Page, error) {
	targets, err := d.browser.Pages(ctx, sess.Port)
	if err != nil {
		return nil, shared.Codef(shared.CodeCDPNoPage, "cannot list pages on port %d: %v", sess.Port, err)
	}
	if len(targets) == 0 {
		return nil, shared.Codef(shared.CodeCDPNoPage, "browser on port %d has no open pages", sess.Port)
	}

	target := targets[0]
	navigate := true
	for _, t := range targets {
		if spec.MatchesURL(t.URL) {
			target = t
			navigate = false
			break
		}
	}

	page, err := d.browser.Attach(ctx, target.WebSocketDebuggerURL)
	if err != nil {
		return nil, shared.Codef(shared.CodeCDPNoPage, "cannot attach to page: %v", err)
	}

	if navigate {
		logger.Info("navigating to upload page", "url", spec.UploadURL)
		if err := page.Navigate(ctx, spec.UploadURL); err != nil {
			page.Close()
			return nil, shared.Codef(shared.CodeTargetPageNotFound, "navigation to %s failed: %v", spec.UploadURL, err)
		}
	}

	return page, nil
}

// ensureUploadContext waits until the page is on the platform's upload
// surface: right host, allowed path, and a recognizable upload control.
func (d *CDPDriver) ensureUploadContext(ctx context.Context, page Page, spec platforms.Spec, logger *log.Logger) error {
	deadline := time.Now().Add(d.surfaceBudget)
	var lastURL string

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		url, err := page.EvaluateString(ctx, "window.location.href")
		if err == nil {
			lastURL = url
		}

		if spec.MatchesURL(lastURL) {
			ready, _ := page.EvaluateBool(ctx, hasUploadSurfaceJS(spec))
			if ready {
				logger.Debug("upload surface ready", "url", lastURL)
				return nil
			}
		}

		if time.Now().After(deadline) {
			if strings.Contains(lastURL, spec.TargetHost) {
				return shared.Codef(shared.CodeTargetPageNotReady,
					"upload page on %s never became ready (url %s)", spec.TargetHost, lastURL)
			}
			return shared.Codef(shared.CodeTargetPageNotFound,
				"page never reached %s (stuck on %s); the account may be logged out", spec.TargetHost, lastURL)
		}

		sleepCtx(ctx, d.pollInterval)
	}
}

// attachVideo tries each file-input selector, setting the video through CDP
// and dispatching the change/input events frameworks listen for. Returns
// false when no selector matched anything on the page.
func (d *CDPDriver) attachVideo(ctx context.Context, page Page, spec platforms.Spec, videoPath string, logger *log.Logger) (bool, error) {
	for _, selector := range spec.FileInputSelectors {
		count, err := page.EvaluateInt(ctx, selectorCountJS(selector))
		if err != nil || count <= 0 {
			continue
		}

		if err := page.SetFileInput(ctx, selector, []string{videoPath}); err != nil {
			logger.Debug("file input rejected video", "selector", selector, "err", err)
			continue
		}

		if _, err := page.EvaluateString(ctx, dispatchUploadEventsJS(selector)); err != nil {
			logger.Debug("event dispatch failed", "selector", selector, "err", err)
		}

		if d.awaitUploadSignal(ctx, page, selector) {
			logger.Info("upload started", "selector", selector)
			return true, nil
		}
		logger.Debug("no upload signal after set", "selector", selector)
	}
	return false, nil
}

// awaitUploadSignal polls for evidence the page accepted the file: the input
// holds it, or the page shows progress text.
func (d *CDPDriver) awaitUploadSignal(ctx context.Context, page Page, selector string) bool {
	deadline := time.Now().Add(d.signalBudget)
	for {
		ok, err := page.EvaluateBool(ctx, uploadSignalJS(selector))
		if err == nil && ok {
			return true
		}
		if time.Now().After(deadline) || ctx.Err() != nil {
			return false
		}
		sleepCtx(ctx, d.pollInterval)
	}
}

// fillResult summarizes which metadata fields were filled.
type fillResult struct {
	titleOK       bool
	descriptionOK bool
	tagsAdded     int
	tagsTotal     int
}

func (f fillResult) summary() string {
	mark := func(ok bool) string {
		if ok {
			return "ok"
		}
		return "miss"
	}
	return fmt.Sprintf("fill title:%s desc:%s tags:%d/%d",
		mark(f.titleOK), mark(f.descriptionOK), f.tagsAdded, f.tagsTotal)
}

// fillFields sets title, description, and tags. Partial failures are reported
// through the result, not errors: a missed field is still recoverable by hand.
func (d *CDPDriver) fillFields(ctx context.Context, page Page, spec platforms.Spec, fill FillRequest, logger *log.Logger) fillResult {
	result := fillResult{tagsTotal: len(fill.Tags)}

	result.titleOK = d.fillText(ctx, page, spec.TitleSelectors, spec.TitleEditable, fill.Title)
	if !result.titleOK {
		logger.Warn("title field not found")
	}

	if fill.Description != "" {
		result.descriptionOK = d.fillText(ctx, page, spec.DescriptionSelectors, spec.DescriptionEditable, fill.Description)
		if !result.descriptionOK {
			logger.Warn("description field not found")
		}
	}

	for _, tag := range fill.Tags {
		if d.addTag(ctx, page, spec.TagSelectors, tag) {
			result.tagsAdded++
		}
	}
	if result.tagsAdded < result.tagsTotal {
		logger.Warn("tags partially filled", "added", result.tagsAdded, "total", result.tagsTotal)
	}

	return result
}

// fillText writes value into the first matching input/textarea, falling back
// to a contenteditable surface when the platform uses one.
func (d *CDPDriver) fillText(ctx context.Context, page Page, selectors []string, editable, value string) bool {
	if value == "" {
		return true
	}
	for _, selector := range selectors {
		marker, err := page.EvaluateString(ctx, setInputValueJS(selector, value))
		if err == nil && marker == "ok" {
			return true
		}
	}
	if editable != "" {
		marker, err := page.EvaluateString(ctx, setEditableTextJS(editable, value))
		return err == nil && marker == "ok"
	}
	return false
}

// addTag types one tag into the first matching tag input and commits it with
// an Enter key event.
func (d *CDPDriver) addTag(ctx context.Context, page Page, selectors []string, tag string) bool {
	for _, selector := range selectors {
		marker, err := page.EvaluateString(ctx, addTagJS(selector, tag))
		if err == nil && marker == "ok" {
			return true
		}
	}
	return false
}

// clickFirst clicks the first visible element matching any selector.
func (d *CDPDriver) clickFirst(ctx context.Context, page Page, selectors []string) bool {
	for _, selector := range selectors {
		ok, err := page.EvaluateBool(ctx, clickJS(selector))
		if err == nil && ok {
			return true
		}
	}
	return false
}

// sleepCtx sleeps for the interval or until ctx is done.
func sleepCtx(ctx context.Context, interval time.Duration) {
	timer := time.NewTimer(interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
