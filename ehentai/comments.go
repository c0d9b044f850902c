package ehentai

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/ehviewer/ehparse"
)

// CommentTimeLayout is the layout of comment post and edit times. Times are UTC.
const CommentTimeLayout = "02 January 2006, 15:04"

var (
	selCommentSection = cascadia.MustCompile("#cdiv")
	selComment        = cascadia.MustCompile("#cdiv .c1")
	selCommentHeader  = cascadia.MustCompile(".c3")
	selCommentUser    = cascadia.MustCompile(".c3 a")
	selCommentActions = cascadia.MustCompile(".c4 a")
	selCommentScore   = cascadia.MustCompile(".c5 span")
	selCommentBody    = cascadia.MustCompile(".c6")
	selCommentVotes   = cascadia.MustCompile(".c7")
	selCommentEdited  = cascadia.MustCompile(".c8 strong")
	selCommentMore    = cascadia.MustCompile("#chd")
)

var (
	commentPosted = regexp.MustCompile(`Posted on (.+?)(?:\s+by:|$)`)
	commentPoster = regexp.MustCompile(`by:\s*(.+)$`)
)

const nbsp = "\u00a0"

var _ ehparse.Extractor = (*Comments)(nil)

// Comments extracts the comment section of a gallery detail page.
type Comments struct {
	policy ehparse.Policy
}

// NewComments creates a new Comments extractor.
func NewComments(policy ehparse.Policy) *Comments {
	return &Comments{policy: policy}
}

// Extract returns a *ehparse.GalleryCommentList. Comment bodies are kept as
// HTML.
func (c *Comments) Extract(doc *ehparse.Document) (any, error) {
	d, err := reparse(doc.Text)
	if err != nil {
		return nil, err
	}
	if d.FindMatcher(selCommentSection).Length() == 0 {
		return nil, c.policy.Shortfallf("no comment section on page")
	}

	result := &ehparse.GalleryCommentList{Comments: []ehparse.GalleryComment{}}
	var failed error
	d.FindMatcher(selComment).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		comment, ok, err := parseComment(s)
		if err != nil {
			failed = err
			return false
		}
		if ok {
			result.Comments = append(result.Comments, comment)
		}
		return true
	})
	if failed != nil {
		return nil, failed
	}
	result.HasMore = strings.Contains(d.FindMatcher(selCommentMore).Text(), "click to show all")
	return result, nil
}

// parseComment reads one .c1 block. Blocks without a comment body are skipped;
// a body with an unreadable id or date is malformed.
func parseComment(s *goquery.Selection) (ehparse.GalleryComment, bool, error) {
	body := s.FindMatcher(selCommentBody).First()
	idAttr, ok := body.Attr("id")
	if !ok {
		return ehparse.GalleryComment{}, false, nil
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(idAttr, "comment_"), 10, 64)
	if err != nil {
		return ehparse.GalleryComment{}, false, ehparse.Errorf(ehparse.EMALFORMED, "invalid comment id %q", idAttr)
	}

	html, err := body.Html()
	if err != nil {
		return ehparse.GalleryComment{}, false, ehparse.Errorf(ehparse.EMALFORMED, "comment %d: %v", id, err)
	}
	comment := ehparse.GalleryComment{
		ID:       id,
		Uploader: id == 0,
		Comment:  html,
	}

	header := trimSpace(s.FindMatcher(selCommentHeader).First().Text())
	if m := commentPosted.FindStringSubmatch(header); m != nil {
		posted, err := parseCommentTime(m[1])
		if err != nil {
			return ehparse.GalleryComment{}, false, ehparse.Errorf(ehparse.EMALFORMED, "comment %d: invalid post time %q", id, m[1])
		}
		comment.Time = posted
	}
	if user := s.FindMatcher(selCommentUser).First(); user.Length() > 0 {
		comment.User = trimSpace(user.Text())
	} else if m := commentPoster.FindStringSubmatch(header); m != nil {
		comment.User = trimSpace(m[1])
	}

	if score, err := strconv.ParseInt(trimSpace(s.FindMatcher(selCommentScore).First().Text()), 10, 32); err == nil {
		comment.Score = int32(score)
	}

	s.FindMatcher(selCommentActions).Each(func(_ int, a *goquery.Selection) {
		actionID, _ := a.Attr("id")
		style, _ := a.Attr("style")
		switch {
		case strings.HasPrefix(actionID, "comment_vote_up_"):
			comment.VoteUpAble = true
			comment.VoteUpEd = style != ""
		case strings.HasPrefix(actionID, "comment_vote_down_"):
			comment.VoteDownAble = true
			comment.VoteDownEd = style != ""
		case trimSpace(a.Text()) == "Edit":
			comment.Editable = true
		}
	})

	comment.VoteState = trimSpace(s.FindMatcher(selCommentVotes).First().Text())

	if edited := trimSpace(s.FindMatcher(selCommentEdited).First().Text()); edited != "" {
		if ms, err := parseCommentTime(strings.TrimSuffix(edited, ".")); err == nil {
			comment.LastEdited = ms
		}
	}
	return comment, true, nil
}

// parseCommentTime returns the Unix time in milliseconds.
func parseCommentTime(s string) (int64, error) {
	t, err := time.ParseInLocation(CommentTimeLayout, trimSpace(s), time.UTC)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

func trimSpace(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, nbsp, " "))
}
