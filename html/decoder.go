// Package html decodes page text into an ehparse.Tree using the
// golang.org/x/net/html tokenizer. Unlike html.Parse it does not run the HTML5
// tree construction algorithm: elements nest exactly as tagged, which keeps
// every node addressable by byte span in the original text.
package html

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ehviewer/ehparse"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding/unicode"
)

// Ensure Decoder implements ehparse.Decoder at compile time.
var _ ehparse.Decoder = (*Decoder)(nil)

// voidElements never have content or an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Decoder builds arena trees from page bytes. It holds no per-call state and
// is safe for concurrent use.
type Decoder struct {
	tolerant bool
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithTolerantDecoding replaces invalid UTF-8 sequences with U+FFFD and drops a
// leading byte order mark instead of failing the decode.
func WithTolerantDecoding() Option {
	return func(d *Decoder) {
		d.tolerant = true
	}
}

// NewDecoder creates a new Decoder. By default input that is not valid UTF-8
// is rejected.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode copies input into a string and builds a tree over it. The returned
// Document does not alias input.
func (d *Decoder) Decode(input []byte) (*ehparse.Document, error) {
	text, err := d.decodeText(input)
	if err != nil {
		return nil, err
	}
	if len(text) > maxTextLen {
		return nil, ehparse.Errorf(ehparse.EDECODE, "input of %d bytes exceeds span range", len(text))
	}

	tree, err := build(text)
	if err != nil {
		return nil, err
	}
	return &ehparse.Document{Text: text, Tree: tree}, nil
}

// maxTextLen keeps every offset representable in an int32 span.
const maxTextLen = 1<<31 - 1

func (d *Decoder) decodeText(input []byte) (string, error) {
	if !d.tolerant {
		if !utf8.Valid(input) {
			return "", ehparse.Errorf(ehparse.EDECODE, "input is not valid UTF-8")
		}
		return string(input), nil
	}

	out, err := unicode.UTF8BOM.NewDecoder().Bytes(input)
	if err != nil {
		return "", ehparse.Errorf(ehparse.EDECODE, "failed to decode input: %v", err)
	}
	return string(out), nil
}

// build tokenizes text and assembles the arena. Offsets are recovered by
// summing the raw length of each token, which the tokenizer guarantees to be
// contiguous.
func build(text string) (*ehparse.Tree, error) {
	tree := ehparse.NewTree(text)
	open := []ehparse.NodeID{tree.Root()}
	z := html.NewTokenizer(strings.NewReader(text))

	var pos int32
	for {
		tt := z.Next()
		start := pos
		pos += int32(len(z.Raw()))
		top := open[len(open)-1]

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, ehparse.Errorf(ehparse.EDECODE, "failed to tokenize input: %v", err)
			}
			for i := len(open) - 1; i > 0; i-- {
				tree.Close(open[i], pos, pos)
			}
			return tree, nil

		case html.TextToken:
			if pos > start {
				tree.AppendText(top, ehparse.Span{Start: start, End: pos})
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			if len(open) > ehparse.MaxDepth {
				return nil, ehparse.Errorf(ehparse.EDECODE, "elements nest deeper than %d levels", ehparse.MaxDepth)
			}
			name, attrs := scanTag(text, start, pos)
			id := tree.AppendElement(top, name, attrs, start, pos)
			if tt == html.SelfClosingTagToken || voidElements[tree.Tag(id)] {
				tree.Close(id, pos, pos)
				continue
			}
			open = append(open, id)

		case html.EndTagToken:
			tag, _ := z.TagName()
			i := len(open) - 1
			for ; i > 0; i-- {
				if tree.Tag(open[i]) == string(tag) {
					break
				}
			}
			if i == 0 {
				// Stray end tag.
				continue
			}
			for j := len(open) - 1; j > i; j-- {
				tree.Close(open[j], start, start)
			}
			tree.Close(open[i], start, pos)
			open = open[:i]
		}
	}
}
