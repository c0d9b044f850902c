package ehparse

// GalleryInfo is a gallery as listed on a search or favorites page.
type GalleryInfo struct {
	Gid        int64    `json:"gid"`
	Token      string   `json:"token"`
	Title      string   `json:"title"`
	TitleJpn   string   `json:"titleJpn,omitempty"`
	Thumb      string   `json:"thumb"`
	Category   int32    `json:"category"`
	Posted     string   `json:"posted"`
	Uploader   string   `json:"uploader,omitempty"`
	Rating     float32  `json:"rating"`
	Pages      int32    `json:"pages"`
	SimpleTags []string `json:"simpleTags,omitempty"`
}

// GalleryListResult is a page of galleries plus the cursors for neighbouring pages.
type GalleryListResult struct {
	Prev            string        `json:"prev,omitempty"`
	Next            string        `json:"next,omitempty"`
	GalleryInfoList []GalleryInfo `json:"galleryInfoList"`
}
