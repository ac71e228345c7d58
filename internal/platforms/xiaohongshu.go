package platforms

import "github.com/crosspub/crosspub/internal/models"

var xiaohongshuSpec = Spec{
	ID:     models.PlatformXiaohongshu,
	Name:   "小红书",
	NameEN: "Xiaohongshu",
	Color:  "#ff2442",

	LoginURL:     "https://creator.xiaohongshu.com",
	UploadURL:    "https://creator.xiaohongshu.com/publish/publish",
	TargetHost:   "creator.xiaohongshu.com",
	AllowedPaths: []string{"/publish/publish", "/publish"},

	SurfaceSelectors: []string{
		"[class*='upload']",
		"[class*='drag']",
		"[class*='drop']",
		"[data-testid*='upload']",
	},
	SurfaceTextMarkers: []string{"上传视频", "点击上传", "拖拽", "发布笔记"},
	FileInputSelectors: []string{
		"input[type='file'][accept*='video']",
		"[class*='upload'] input[type='file']",
		"input[type='file']",
	},
	DropZoneSelectors: []string{
		"[class*='upload']",
		"[class*='drag']",
		"[class*='drop']",
		"[class*='content-upload']",
	},
	ClickSelectors: []string{
		"button[class*='upload']",
		"[class*='upload-btn']",
		"[class*='upload'] button",
		"[data-testid*='upload']",
	},
	TitleSelectors: []string{
		"input[placeholder*='标题']",
		"input[placeholder*='添加标题']",
		"[class*='title'] input",
		"input[maxlength='20']",
	},
	TitleEditable: "[contenteditable='true']",
	DescriptionSelectors: []string{
		"textarea[placeholder*='描述']",
		"textarea[placeholder*='正文']",
		"[class*='desc'] textarea",
		"[class*='content'] textarea",
	},
	DescriptionEditable: "[contenteditable='true']",
	TagSelectors: []string{
		"input[placeholder*='话题']",
		"input[placeholder*='标签']",
		"[class*='tag'] input",
		"[class*='topic'] input",
	},
}
