package platforms

import "github.com/crosspub/crosspub/internal/models"

var douyinSpec = Spec{
	ID:     models.PlatformDouyin,
	Name:   "抖音",
	NameEN: "Douyin",
	Color:  "#fe2c55",

	LoginURL:     "https://creator.douyin.com",
	UploadURL:    "https://creator.douyin.com/creator-micro/content/upload",
	TargetHost:   "creator.douyin.com",
	AllowedPaths: []string{"/creator-micro/content/upload", "/creator-micro/content/post/video"},

	SurfaceSelectors: []string{
		"div[class*='upload']",
		"div[class*='container-drag']",
		"div[class*='content-upload']",
	},
	SurfaceTextMarkers: []string{"上传视频", "点击上传", "重新上传", "更换视频"},
	FileInputSelectors: []string{
		"div[class^='container'] input[type='file']",
		"div[class^='container'] input",
		"input[type='file'][accept*='video']",
		"[class*='upload'] input[type='file']",
		"input[type='file']",
	},
	DropZoneSelectors: []string{
		"div[class*='container-drag']",
		"div[class*='upload-zone']",
		"div[class*='upload-area']",
		"div[class*='drag']",
		"div[class*='uploader']",
		"div[class*='content-upload']",
	},
	ClickSelectors: []string{
		"button[class*='upload']",
		"div[class*='upload-btn']",
		"div[class*='upload'] button",
		"[data-e2e*='upload']",
	},
	TitleSelectors: []string{
		"input[placeholder*='标题']",
		"input[placeholder*='title']",
		".title-input input",
		"[class*='title'] input[type='text']",
	},
	TitleEditable: "[contenteditable='true']",
	DescriptionSelectors: []string{
		"textarea[placeholder*='描述']",
		"textarea[placeholder*='简介']",
		"[class*='desc'] textarea",
	},
	DescriptionEditable: "[contenteditable='true']",
	TagSelectors: []string{
		"input[placeholder*='标签']",
		"input[placeholder*='话题']",
		"[class*='tag'] input",
		"[class*='topic'] input",
	},

	AutoSubmit: true,
	SubmitSelectors: []string{
		"button[class*='publish']",
		"button[class*='submit']",
	},
}
