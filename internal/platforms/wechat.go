package platforms

import "github.com/crosspub/crosspub/internal/models"

var wechatSpec = Spec{
	ID:     models.PlatformWechat,
	Name:   "微信视频号",
	NameEN: "WeChat Channels",
	Color:  "#07c160",

	LoginURL:     "https://channels.weixin.qq.com",
	UploadURL:    "https://channels.weixin.qq.com/platform/post/create",
	TargetHost:   "channels.weixin.qq.com",
	AllowedPaths: []string{"/platform/post/create", "/platform/post"},

	SurfaceSelectors: []string{
		"[class*='upload']",
		"[class*='drag']",
		"[class*='drop']",
		"[class*='post-create']",
	},
	SurfaceTextMarkers: []string{"上传视频", "拖拽", "发布视频", "发表视频"},
	FileInputSelectors: []string{
		"input[type='file'][accept*='video']",
		"[class*='upload'] input[type='file']",
		"input[type='file']",
	},
	DropZoneSelectors: []string{
		"[class*='upload']",
		"[class*='drag']",
		"[class*='drop']",
		"[class*='post-create']",
	},
	ClickSelectors: []string{
		"button[class*='upload']",
		"[class*='upload-btn']",
		"[class*='upload'] button",
		"[role='button']",
	},
	TitleSelectors: []string{
		"input[placeholder*='标题']",
		"[class*='title'] input",
		"input[type='text']",
	},
	TitleEditable: "[contenteditable='true']",
	DescriptionSelectors: []string{
		"textarea[placeholder*='描述']",
		"textarea[placeholder*='内容']",
		"[class*='desc'] textarea",
		"[class*='content'] textarea",
	},
	DescriptionEditable: "[contenteditable='true']",
	TagSelectors: []string{
		"input[placeholder*='标签']",
		"input[placeholder*='话题']",
		"[class*='tag'] input",
		"[class*='topic'] input",
	},
}
