package html

import "golang.org/x/net/html"

// Unescape resolves character references in raw text taken from a tree span.
func Unescape(s string) string {
	return html.UnescapeString(s)
}
