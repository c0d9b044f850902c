package ehparse

// GalleryComment is a comment on a gallery's detail page. Comment holds the
// body as HTML; the host renders it.
type GalleryComment struct {
	ID           int64  `json:"id"`
	Score        int32  `json:"score"`
	Editable     bool   `json:"editable"`
	VoteUpAble   bool   `json:"voteUpAble"`
	VoteUpEd     bool   `json:"voteUpEd"`
	VoteDownAble bool   `json:"voteDownAble"`
	VoteDownEd   bool   `json:"voteDownEd"`
	Uploader     bool   `json:"uploader"`
	VoteState    string `json:"voteState,omitempty"`
	Time         int64  `json:"time"`
	User         string `json:"user,omitempty"`
	Comment      string `json:"comment"`
	LastEdited   int64  `json:"lastEdited"`
}

// GalleryCommentList is the record extracted from a gallery's comment section.
type GalleryCommentList struct {
	Comments []GalleryComment `json:"comments"`
	HasMore  bool             `json:"hasMore"`
}
