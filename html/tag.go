package html

import "github.com/ehviewer/ehparse"

// scanTag recovers the name and attribute spans of the start tag occupying
// text[start:end]. It follows the tokenizer's rules closely enough to agree
// with it on well-formed markup; values keep their entities.
func scanTag(text string, start, end int32) (ehparse.Span, []ehparse.Attr) {
	i := start + 1
	nameStart := i
	for i < end && !isTagSpace(text[i]) && text[i] != '/' && text[i] != '>' {
		i++
	}
	name := ehparse.Span{Start: nameStart, End: i}

	var attrs []ehparse.Attr
	for i < end {
		for i < end && (isTagSpace(text[i]) || text[i] == '/') {
			i++
		}
		if i >= end || text[i] == '>' {
			break
		}

		keyStart := i
		if text[i] == '=' {
			i++
		}
		for i < end && !isTagSpace(text[i]) && text[i] != '/' && text[i] != '>' && text[i] != '=' {
			i++
		}
		key := ehparse.Span{Start: keyStart, End: i}

		for i < end && isTagSpace(text[i]) {
			i++
		}
		val := ehparse.Span{Start: key.End, End: key.End}
		if i < end && text[i] == '=' {
			i++
			for i < end && isTagSpace(text[i]) {
				i++
			}
			if i < end && (text[i] == '"' || text[i] == '\'') {
				quote := text[i]
				i++
				valStart := i
				for i < end && text[i] != quote {
					i++
				}
				val = ehparse.Span{Start: valStart, End: i}
				if i < end {
					i++
				}
			} else {
				valStart := i
				for i < end && !isTagSpace(text[i]) && text[i] != '>' {
					i++
				}
				val = ehparse.Span{Start: valStart, End: i}
			}
		}
		attrs = append(attrs, ehparse.Attr{Name: key, Value: val})
	}
	return name, attrs
}

func isTagSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}
