package tasks

import (
	"github.com/crosspub/crosspub/internal/models"
	"github.com/crosspub/crosspub/internal/shared"
)

// Classify maps a terminal error code and the session mode it occurred under
// to a short actionable hint for the user. It is a pure function of its
// inputs so stored results can be re-rendered with identical hints later.
//
// An empty code with a reused session yields an informational hint; any
// other empty code yields no hint at all.
func Classify(code shared.Code, mode models.SessionMode) string {
	switch code {
	case shared.CodeCDPNoPage, shared.CodeProfileBusy:
		return "close the account's browser window and retry"
	case shared.CodeTargetPageNotFound:
		return "open the platform's upload page manually, then retry"
	case shared.CodeTargetPageNotReady:
		return "wait for the page to finish loading, then retry"
	case shared.CodeAutomationTimeout:
		return "check whether the upload already started before resubmitting"
	case shared.CodeChromeNotFound:
		return "install Google Chrome or set chrome.binary in the config file"
	case shared.CodeCancelled:
		return "task was cancelled; resubmit when ready"
	}

	if code == "" && mode == models.SessionReusedExisting {
		return "continuing in the existing browser window"
	}

	return ""
}
