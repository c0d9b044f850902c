package ehentai

import (
	"regexp"
	"strings"

	"github.com/ehviewer/ehparse"
	"github.com/ehviewer/ehparse/html"
)

var torrentRow = regexp.MustCompile(`</span> ([0-9-]+) [0-9:]+</td>[\s\S]+</span> ([0-9.]+ [KMGT]iB)</td>[\s\S]+</span> ([0-9]+)</td>[\s\S]+</span> ([0-9]+)</td>[\s\S]+</span> ([0-9]+)</td>[\s\S]+</span>([^<]+)</td>[\s\S]+onclick="document.location='([^"]+)'[^<]+>([^<]+)</a>`)

var _ ehparse.Extractor = (*Torrents)(nil)

// Torrents extracts the torrent list from a gallery's torrent popup.
type Torrents struct{}

// NewTorrents creates a new Torrents extractor.
func NewTorrents() *Torrents {
	return &Torrents{}
}

// Extract returns an ehparse.TorrentResult with one entry per torrent table.
// Expunged torrents are skipped. A table that does not look like a torrent
// yields EMALFORMED. A page without tables yields an empty result.
func (t *Torrents) Extract(doc *ehparse.Document) (any, error) {
	tree := doc.Tree
	result := ehparse.TorrentResult{}
	for i, table := range tree.ElementsByTag(tree.Root(), "table") {
		inner := tree.InnerHTML(table)
		if strings.Contains(inner, "Expunged") {
			continue
		}
		m := torrentRow.FindStringSubmatch(inner)
		if m == nil {
			return nil, ehparse.Errorf(ehparse.EMALFORMED, "table %d does not describe a torrent", i)
		}
		seeds, ok1 := parseInt32(m[3])
		peers, ok2 := parseInt32(m[4])
		downloads, ok3 := parseInt32(m[5])
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		result = append(result, ehparse.Torrent{
			Posted:    m[1],
			Size:      m[2],
			Seeds:     seeds,
			Peers:     peers,
			Downloads: downloads,
			URL:       m[7],
			Name:      html.Unescape(m[8]),
		})
	}
	return result, nil
}
