package ehparse

import (
	"fmt"
	"strings"
)

// Format returns the one-line display form of a torrent.
func (t Torrent) Format() string {
	return fmt.Sprintf("[%s] %s [%s] [↑%d ↓%d ✓%d]", t.Posted, t.Name, t.Size, t.Seeds, t.Peers, t.Downloads)
}

// FormatRecord formats a record for display. Comment bodies are converted to
// Markdown with conv; a nil conv leaves them as HTML.
// Records are separated by blank lines.
func FormatRecord(v any, conv Converter) (string, error) {
	switch r := v.(type) {
	case *Limits:
		return fmt.Sprintf("Image limits: %d / %d (reset cost %d)", r.Current, r.Maximum, r.ResetCost), nil
	case TorrentResult:
		lines := make([]string, 0, len(r))
		for _, t := range r {
			lines = append(lines, t.Format())
		}
		return strings.Join(lines, "\n"), nil
	case *GalleryListResult:
		return formatGalleryList(r), nil
	case *FavResult:
		if len(r.CatArray) != len(r.CountArray) {
			return "", Errorf(EINVALID, "favorites list %d categories but %d counts", len(r.CatArray), len(r.CountArray))
		}
		parts := make([]string, 0, len(r.CatArray)+1)
		for i, name := range r.CatArray {
			parts = append(parts, fmt.Sprintf("%d. %s (%d)", i, name, r.CountArray[i]))
		}
		return strings.Join(parts, "\n") + "\n\n" + formatGalleryList(&r.GalleryListResult), nil
	case *GalleryCommentList:
		return formatComments(r, conv)
	}
	return "", Errorf(EINVALID, "cannot format record of type %T", v)
}

func formatGalleryList(r *GalleryListResult) string {
	lines := make([]string, 0, len(r.GalleryInfoList))
	for _, gi := range r.GalleryInfoList {
		lines = append(lines, fmt.Sprintf("%d/%s [%s] %s", gi.Gid, gi.Token, CategoryString(gi.Category), gi.Title))
	}
	return strings.Join(lines, "\n")
}

func formatComments(r *GalleryCommentList, conv Converter) (string, error) {
	parts := make([]string, 0, len(r.Comments))
	for _, c := range r.Comments {
		body := c.Comment
		if conv != nil && strings.TrimSpace(body) != "" {
			md, err := conv.Convert(body)
			if err != nil {
				return "", fmt.Errorf("comment %d: %w", c.ID, err)
			}
			body = md
		}
		header := "## " + c.User
		if c.Uploader {
			header += " (uploader)"
		} else {
			header += fmt.Sprintf(" [%+d]", c.Score)
		}
		parts = append(parts, header+"\n"+body)
	}
	return strings.Join(parts, "\n\n"), nil
}
