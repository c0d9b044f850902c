package ehentai

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/ehviewer/ehparse"
)

var (
	selItg         = cascadia.MustCompile(".itg")
	selEntries     = cascadia.MustCompile("table.itg tr, div.itg .gl1t")
	selGalleryLink = cascadia.MustCompile(`a[href*="/g/"]`)
	selTitle       = cascadia.MustCompile(".glink")
	selCategory    = cascadia.MustCompile(".cn, .cs")
	selPosted      = cascadia.MustCompile(`[id^="posted_"]`)
	selRating      = cascadia.MustCompile(".ir")
	selThumb       = cascadia.MustCompile("img")
	selUploader    = cascadia.MustCompile(`a[href*="/uploader/"]`)
	selTags        = cascadia.MustCompile(".gt, .gtl")
	selDiv         = cascadia.MustCompile("div")
	selPrev        = cascadia.MustCompile("a#uprev")
	selNext        = cascadia.MustCompile("a#unext")
)

var (
	galleryURL         = regexp.MustCompile(`/g/(\d+)/([0-9a-f]+)`)
	pageCount          = regexp.MustCompile(`^(\d+) pages?$`)
	backgroundPosition = regexp.MustCompile(`background-position:\s*(-?\d+)(?:px)?\s+(-?\d+)(?:px)?`)
)

// Pages that legitimately list nothing carry one of these instead of an .itg.
var emptyListMarkers = []string{"No hits found", "No unfiltered results"}

var _ ehparse.Extractor = (*GalleryList)(nil)

// GalleryList extracts galleries from search and favorites pages, in both the
// table and the thumbnail layouts.
type GalleryList struct {
	policy ehparse.Policy
}

// NewGalleryList creates a new GalleryList extractor.
func NewGalleryList(policy ehparse.Policy) *GalleryList {
	return &GalleryList{policy: policy}
}

// Extract returns a *ehparse.GalleryListResult.
func (g *GalleryList) Extract(doc *ehparse.Document) (any, error) {
	return g.Parse(doc)
}

// Parse is Extract with a concrete result type.
func (g *GalleryList) Parse(doc *ehparse.Document) (*ehparse.GalleryListResult, error) {
	d, err := reparse(doc.Text)
	if err != nil {
		return nil, err
	}

	result := &ehparse.GalleryListResult{GalleryInfoList: []ehparse.GalleryInfo{}}
	if d.FindMatcher(selItg).Length() == 0 {
		for _, marker := range emptyListMarkers {
			if strings.Contains(doc.Text, marker) {
				return result, nil
			}
		}
		return nil, g.policy.Shortfallf("no gallery list on page")
	}

	d.FindMatcher(selEntries).Each(func(_ int, s *goquery.Selection) {
		if gi, ok := parseGalleryInfo(s); ok {
			result.GalleryInfoList = append(result.GalleryInfoList, gi)
		}
	})
	if href, ok := d.FindMatcher(selPrev).Attr("href"); ok {
		result.Prev = cursor(href, "prev")
	}
	if href, ok := d.FindMatcher(selNext).Attr("href"); ok {
		result.Next = cursor(href, "next")
	}
	return result, nil
}

// parseGalleryInfo reads one table row or thumbnail. Rows without a gallery
// link, such as the table header, are skipped.
func parseGalleryInfo(s *goquery.Selection) (ehparse.GalleryInfo, bool) {
	href, ok := s.FindMatcher(selGalleryLink).Attr("href")
	if !ok {
		return ehparse.GalleryInfo{}, false
	}
	m := galleryURL.FindStringSubmatch(href)
	if m == nil {
		return ehparse.GalleryInfo{}, false
	}
	gid, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return ehparse.GalleryInfo{}, false
	}

	gi := ehparse.GalleryInfo{
		Gid:      gid,
		Token:    m[2],
		Title:    strings.TrimSpace(s.FindMatcher(selTitle).First().Text()),
		Category: ehparse.CategoryFromString(s.FindMatcher(selCategory).First().Text()),
		Posted:   strings.TrimSpace(s.FindMatcher(selPosted).First().Text()),
		Uploader: strings.TrimSpace(s.FindMatcher(selUploader).First().Text()),
	}
	if style, ok := s.FindMatcher(selRating).Attr("style"); ok {
		gi.Rating = parseRating(style)
	}

	img := s.FindMatcher(selThumb).First()
	if src, ok := img.Attr("data-src"); ok {
		gi.Thumb = src
	} else {
		gi.Thumb, _ = img.Attr("src")
	}

	s.FindMatcher(selDiv).EachWithBreak(func(_ int, div *goquery.Selection) bool {
		m := pageCount.FindStringSubmatch(strings.TrimSpace(div.Text()))
		if m == nil {
			return true
		}
		gi.Pages, _ = parseInt32(m[1])
		return false
	})

	s.FindMatcher(selTags).Each(func(_ int, tag *goquery.Selection) {
		if title, ok := tag.Attr("title"); ok && title != "" {
			gi.SimpleTags = append(gi.SimpleTags, title)
		}
	})
	return gi, true
}

// parseRating converts the star sprite offset to a rating: every 16px of
// horizontal offset is one star less, and the second sprite row marks a half
// star. Styles without an offset rate 0.
func parseRating(style string) float32 {
	m := backgroundPosition.FindStringSubmatch(style)
	if m == nil {
		return 0
	}
	x, _ := strconv.Atoi(strings.TrimPrefix(m[1], "-"))
	y, _ := strconv.Atoi(strings.TrimPrefix(m[2], "-"))
	rating := 5 - float32(x)/16
	if y == 21 {
		rating -= 0.5
	}
	return rating
}

// cursor returns the named query parameter of a paging link, or the link
// itself if it has none.
func cursor(href, key string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if v := u.Query().Get(key); v != "" {
		return v
	}
	return href
}
