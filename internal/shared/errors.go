package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")

	// Entity lookup errors
	ErrAccountNotFound  = fmt.Errorf("account not found")
	ErrTaskNotFound     = fmt.Errorf("task not found")
	ErrTemplateNotFound = fmt.Errorf("template not found")
	ErrPlatformUnknown  = fmt.Errorf("unknown platform")

	// Browser and session errors
	ErrChromeNotFound = fmt.Errorf("chrome binary not found")
	ErrProfileBusy    = fmt.Errorf("browser profile is locked by another process")
	ErrSessionLaunch  = fmt.Errorf("browser launch failed")

	// Automation errors
	ErrAutomation = fmt.Errorf("page automation failed")
	ErrTimeout    = fmt.Errorf("operation timed out")
)

// Code is a stable, machine-readable error code surfaced to callers alongside
// the wrapped error. Codes survive persistence so history views can re-derive
// action hints without re-running anything.
type Code string

const (
	CodeNone Code = ""

	// Request validation
	CodeEmptyTitle       Code = "EMPTY_TITLE"
	CodeNoAccounts       Code = "NO_ACCOUNTS"
	CodeVideoPathMissing Code = "VIDEO_PATH_MISSING"

	// Session resolution
	CodeProfileBusy    Code = "PROFILE_BUSY"
	CodeChromeNotFound Code = "CHROME_NOT_FOUND"
	CodeLaunchFailed   Code = "LAUNCH_FAILED"

	// Page automation
	CodeCDPNoPage          Code = "CDP_NO_PAGE"
	CodeTargetPageNotFound Code = "TARGET_PAGE_NOT_FOUND"
	CodeTargetPageNotReady Code = "TARGET_PAGE_NOT_READY"
	CodeAutomationTimeout  Code = "AUTOMATION_TIMEOUT"

	// Lifecycle
	CodeCancelled Code = "CANCELLED"
)

// CodedError pairs an error with its stable [Code].
type CodedError struct {
	Code Code
	Err  error
}

func (e *CodedError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *CodedError) Unwrap() error {
	return e.Err
}

// WithCode wraps err with the given code. A nil err returns nil.
func WithCode(code Code, err error) error {
	if err == nil {
		return nil
	}
	return &CodedError{Code: code, Err: err}
}

// Codef is shorthand for WithCode over a formatted error.
func Codef(code Code, format string, args ...any) error {
	return &CodedError{Code: code, Err: fmt.Errorf(format, args...)}
}

// CodeOf extracts the [Code] from an error chain, or [CodeNone] if the chain
// carries no coded error.
func CodeOf(err error) Code {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeNone
}
