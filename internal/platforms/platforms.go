// Package platforms is the registry of supported content platforms and their
// upload-page automation specs.
//
// Each platform contributes a [Spec]: the URLs that identify its upload
// surface plus the CSS selector sets the automation driver probes when
// uploading the video and filling the form. Adding a platform means adding a
// spec here; orchestrator logic never changes.
package platforms

import (
	"strings"

	"github.com/crosspub/crosspub/internal/models"
)

// Spec describes one platform's creator upload surface.
type Spec struct {
	ID     models.Platform
	Name   string // native-language display name
	NameEN string
	Color  string // brand color for UI rendering

	LoginURL     string
	UploadURL    string
	TargetHost   string
	AllowedPaths []string

	// Selector sets probed in order by the driver. Surface selectors and
	// text markers confirm the upload page rendered; the rest locate the
	// file input, drop zone, and metadata fields.
	SurfaceSelectors     []string
	SurfaceTextMarkers   []string
	FileInputSelectors   []string
	DropZoneSelectors    []string
	ClickSelectors       []string
	TitleSelectors       []string
	TitleEditable        string
	DescriptionSelectors []string
	DescriptionEditable  string
	TagSelectors         []string

	// AutoSubmit marks platforms whose final submit button can be clicked
	// unattended. Platforms with review dialogs or captchas leave this off.
	AutoSubmit      bool
	SubmitSelectors []string
}

// MatchesURL reports whether url is on this platform's upload surface:
// right host and, when paths are constrained, an allowed path.
func (s Spec) MatchesURL(url string) bool {
	if !strings.Contains(url, s.TargetHost) {
		return false
	}
	if len(s.AllowedPaths) == 0 {
		return true
	}
	for _, path := range s.AllowedPaths {
		if strings.Contains(url, path) {
			return true
		}
	}
	return false
}

// Get returns the spec for a platform ID.
func Get(platform models.Platform) (Spec, bool) {
	for _, spec := range registry {
		if spec.ID == platform {
			return spec, true
		}
	}
	return Spec{}, false
}

// All returns every supported platform spec in display order.
func All() []Spec {
	out := make([]Spec, len(registry))
	copy(out, registry)
	return out
}

var registry = []Spec{
	douyinSpec,
	xiaohongshuSpec,
	bilibiliSpec,
	wechatSpec,
	youtubeSpec,
}
