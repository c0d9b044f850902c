// Package ehentai implements extractors for E-Hentai pages. Favorites, limits
// and torrents walk the span tree produced by the html package; gallery lists
// and comments are selected with goquery.
package ehentai

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ehviewer/ehparse"
	"github.com/ehviewer/ehparse/html"
	nethtml "golang.org/x/net/html"
)

// maxReparseDepth bounds the goquery tree. The parser caps its stack of open
// elements, but the adoption agency steps move subtrees under new elements
// after they leave that stack.
const maxReparseDepth = 2 * ehparse.MaxDepth

// reparse builds a goquery document over the page text. Tree construction
// nests differently than the tags are written, so the result is checked
// against maxReparseDepth before selector matching and text extraction, which
// recurse per level. A parse the html package rejects for depth is EDECODE.
func reparse(text string) (*goquery.Document, error) {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, ehparse.Errorf(ehparse.EDECODE, "failed to parse HTML: %v", err)
	}
	for _, root := range d.Nodes {
		if nestingExceeds(root, maxReparseDepth) {
			return nil, ehparse.Errorf(ehparse.EDECODE, "elements nest deeper than %d levels", maxReparseDepth)
		}
	}
	return d, nil
}

// nestingExceeds reports whether any node under root sits more than limit
// levels below it.
func nestingExceeds(root *nethtml.Node, limit int) bool {
	depth := 0
	n := root.FirstChild
	if n != nil {
		depth = 1
	}
	for n != nil {
		if depth > limit {
			return true
		}
		if n.FirstChild != nil {
			n = n.FirstChild
			depth++
			continue
		}
		for n != root && n.NextSibling == nil {
			n = n.Parent
			depth--
		}
		if n == root {
			return false
		}
		n = n.NextSibling
	}
	return false
}

// parseInt32 parses a decimal int32, ignoring surrounding whitespace.
func parseInt32(s string) (int32, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

// text returns the unescaped, trimmed inner text of id.
func text(tree *ehparse.Tree, id ehparse.NodeID) string {
	return strings.TrimSpace(html.Unescape(tree.InnerText(id)))
}
