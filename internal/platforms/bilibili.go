package platforms

import "github.com/crosspub/crosspub/internal/models"

var bilibiliSpec = Spec{
	ID:     models.PlatformBilibili,
	Name:   "哔哩哔哩",
	NameEN: "Bilibili",
	Color:  "#fb7299",

	LoginURL:     "https://passport.bilibili.com/login",
	UploadURL:    "https://member.bilibili.com/platform/upload/video/frame",
	TargetHost:   "member.bilibili.com",
	AllowedPaths: []string{"/platform/upload", "/video/frame"},

	SurfaceSelectors: []string{
		"[class*='upload']",
		"[class*='drag']",
		"[class*='drop']",
		"[class*='bcc-upload']",
	},
	SurfaceTextMarkers: []string{"上传视频", "拖拽视频", "选择视频", "投稿"},
	FileInputSelectors: []string{
		"input[type='file'][accept*='video']",
		"[class*='upload'] input[type='file']",
		"input[type='file']",
	},
	DropZoneSelectors: []string{
		"[class*='upload']",
		"[class*='drag']",
		"[class*='drop']",
		"[class*='bcc-upload']",
	},
	ClickSelectors: []string{
		"button[class*='upload']",
		"[class*='upload-btn']",
		"[class*='upload'] button",
	},
	TitleSelectors: []string{
		"input[placeholder*='标题']",
		"input[placeholder*='稿件标题']",
		"[class*='title'] input",
		"input[name*='title']",
	},
	TitleEditable: "[contenteditable='true']",
	DescriptionSelectors: []string{
		"textarea[placeholder*='简介']",
		"textarea[placeholder*='描述']",
		"[class*='desc'] textarea",
		"textarea[name*='desc']",
	},
	DescriptionEditable: "[contenteditable='true']",
	TagSelectors: []string{
		"input[placeholder*='标签']",
		"input[placeholder*='Enter']",
		"[class*='tag'] input",
		"input[name*='tag']",
	},
}
