package platforms

import "github.com/crosspub/crosspub/internal/models"

var youtubeSpec = Spec{
	ID:     models.PlatformYouTube,
	Name:   "YouTube",
	NameEN: "YouTube",
	Color:  "#ff0000",

	LoginURL:   "https://accounts.google.com",
	UploadURL:  "https://studio.youtube.com",
	TargetHost: "studio.youtube.com",

	SurfaceSelectors: []string{
		"ytcp-button#create-icon",
		"#create-icon",
		"[class*='upload']",
		"input[type='file']",
	},
	SurfaceTextMarkers: []string{"Upload videos", "Select files", "上传视频", "选择文件"},
	FileInputSelectors: []string{
		"input[type='file'][accept*='video']",
		"input[type='file']",
	},
	DropZoneSelectors: []string{
		"[class*='upload']",
		"ytcp-video-upload-progress",
		"[id*='upload']",
	},
	ClickSelectors: []string{
		"ytcp-button#create-icon",
		"#create-icon",
		"button[aria-label*='Create']",
		"[aria-label*='Upload videos']",
	},
	TitleSelectors: []string{
		"#title-textarea #textbox",
		"textarea#textbox",
		"input[aria-label*='Title']",
	},
	TitleEditable: "#title-textarea #textbox, [contenteditable='true']",
	DescriptionSelectors: []string{
		"#description-textarea #textbox",
		"textarea[aria-label*='Description']",
		"[id*='description'] #textbox",
	},
	DescriptionEditable: "#description-textarea #textbox, [contenteditable='true']",
	TagSelectors: []string{
		"input[aria-label*='Tags']",
		"#text-input input",
		"[class*='tags'] input",
	},
}
