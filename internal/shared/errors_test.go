package shared

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCodedErrors(t *testing.T) {
	t.Run("WithCode", func(t *testing.T) {
		base := errors.New("browser endpoint never answered")
		err := WithCode(CodeProfileBusy, base)

		if CodeOf(err) != CodeProfileBusy {
			t.Errorf("expected PROFILE_BUSY, got %s", CodeOf(err))
		}
		if !errors.Is(err, base) {
			t.Error("coded error must unwrap to the original error")
		}
		if !strings.Contains(err.Error(), "PROFILE_BUSY") {
			t.Errorf("message must carry the code, got %q", err.Error())
		}
	})

	t.Run("WithCodeNil", func(t *testing.T) {
		if err := WithCode(CodeLaunchFailed, nil); err != nil {
			t.Errorf("wrapping nil must stay nil, got %v", err)
		}
	})

	t.Run("Codef", func(t *testing.T) {
		err := Codef(CodeCDPNoPage, "no pages on port %d", 9222)
		if CodeOf(err) != CodeCDPNoPage {
			t.Errorf("expected CDP_NO_PAGE, got %s", CodeOf(err))
		}
		if !strings.Contains(err.Error(), "port 9222") {
			t.Errorf("formatted message lost, got %q", err.Error())
		}
	})

	t.Run("CodeOfSurvivesWrapping", func(t *testing.T) {
		err := fmt.Errorf("loading account a1: %w", Codef(CodeChromeNotFound, "no binary"))
		if CodeOf(err) != CodeChromeNotFound {
			t.Errorf("expected CHROME_NOT_FOUND through the chain, got %s", CodeOf(err))
		}
	})

	t.Run("CodeOfUncoded", func(t *testing.T) {
		if got := CodeOf(errors.New("plain")); got != CodeNone {
			t.Errorf("expected no code, got %s", got)
		}
		if got := CodeOf(nil); got != CodeNone {
			t.Errorf("expected no code for nil, got %s", got)
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == "" || a == b {
		t.Errorf("expected distinct non-empty IDs, got %q and %q", a, b)
	}
}
