package ehparse

import "strings"

// NodeID is a handle into a Tree's node arena. Handles are only meaningful for
// the tree that issued them.
type NodeID int32

// NoNode marks an absent parent, child or sibling.
const NoNode NodeID = -1

// MaxDepth is the deepest element nesting a decoder accepts. Real pages stay
// well under a hundred levels.
const MaxDepth = 512

// Span is a half-open byte range [Start, End) into the tree's text.
type Span struct {
	Start int32
	End   int32
}

// Len returns the number of bytes covered by s.
func (s Span) Len() int {
	return int(s.End - s.Start)
}

// NodeKind distinguishes element nodes from text nodes.
type NodeKind uint8

// Node kinds.
const (
	DocumentNode NodeKind = iota
	ElementNode
	TextNode
)

// Attr is an element attribute. Both spans cover the text as written: names
// keep their original case and values are still escaped.
type Attr struct {
	Name  Span
	Value Span
}

// Node is an entry in the tree arena. All text is referenced by span.
//
// For an element, Name spans the tag name, Outer spans from '<' of the start
// tag to the end of the end tag, and Inner spans the content between the two.
// For a text node Outer and Inner are equal.
type Node struct {
	Kind        NodeKind
	Name        Span
	Outer       Span
	Inner       Span
	Parent      NodeID
	FirstChild  NodeID
	LastChild   NodeID
	NextSibling NodeID

	attrStart int32
	attrEnd   int32
}

// Tree is an arena-allocated parse tree over a single text. It is built for
// one call and is not safe for concurrent mutation.
type Tree struct {
	text  string
	nodes []Node
	attrs []Attr
}

// NewTree returns a tree over text holding only the document node.
func NewTree(text string) *Tree {
	t := &Tree{text: text}
	t.nodes = append(t.nodes, Node{
		Kind:        DocumentNode,
		Outer:       Span{0, int32(len(text))},
		Inner:       Span{0, int32(len(text))},
		Parent:      NoNode,
		FirstChild:  NoNode,
		LastChild:   NoNode,
		NextSibling: NoNode,
	})
	return t
}

// Root returns the document node.
func (t *Tree) Root() NodeID {
	return 0
}

// Text returns the text the tree spans refer to.
func (t *Tree) Text() string {
	return t.text
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node for id. It panics if id was not issued by t.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Slice returns the text covered by s.
func (t *Tree) Slice(s Span) string {
	return t.text[s.Start:s.End]
}

// AppendElement adds an element as the last child of parent and returns its
// handle. The element's Outer and Inner spans are open until Close is called.
func (t *Tree) AppendElement(parent NodeID, name Span, attrs []Attr, start, contentStart int32) NodeID {
	as := int32(len(t.attrs))
	t.attrs = append(t.attrs, attrs...)
	id := t.appendNode(parent, Node{
		Kind:      ElementNode,
		Name:      name,
		Outer:     Span{start, contentStart},
		Inner:     Span{contentStart, contentStart},
		attrStart: as,
		attrEnd:   int32(len(t.attrs)),
	})
	return id
}

// AppendText adds a text node covering s as the last child of parent.
func (t *Tree) AppendText(parent NodeID, s Span) NodeID {
	return t.appendNode(parent, Node{Kind: TextNode, Outer: s, Inner: s})
}

// Close finalizes an element's spans: the content ends at contentEnd and the
// element, including any end tag, ends at end.
func (t *Tree) Close(id NodeID, contentEnd, end int32) {
	n := &t.nodes[id]
	n.Inner.End = contentEnd
	n.Outer.End = end
}

func (t *Tree) appendNode(parent NodeID, n Node) NodeID {
	id := NodeID(len(t.nodes))
	n.Parent = parent
	n.FirstChild = NoNode
	n.LastChild = NoNode
	n.NextSibling = NoNode
	t.nodes = append(t.nodes, n)

	p := &t.nodes[parent]
	if p.LastChild == NoNode {
		p.FirstChild = id
	} else {
		t.nodes[p.LastChild].NextSibling = id
	}
	p.LastChild = id
	return id
}

// Tag returns the lowercased tag name of an element, or "" for other nodes.
func (t *Tree) Tag(id NodeID) string {
	n := &t.nodes[id]
	if n.Kind != ElementNode {
		return ""
	}
	return strings.ToLower(t.Slice(n.Name))
}

// Attrs returns the attributes of an element.
func (t *Tree) Attrs(id NodeID) []Attr {
	n := &t.nodes[id]
	return t.attrs[n.attrStart:n.attrEnd]
}

// Attr returns the raw value of the named attribute. Names match case-insensitively.
func (t *Tree) Attr(id NodeID, name string) (string, bool) {
	for _, a := range t.Attrs(id) {
		if strings.EqualFold(t.Slice(a.Name), name) {
			return t.Slice(a.Value), true
		}
	}
	return "", false
}

// HasClass reports whether the element's class attribute contains class.
func (t *Tree) HasClass(id NodeID, class string) bool {
	v, ok := t.Attr(id, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// Children returns the element children of id in document order. Text nodes
// are skipped.
func (t *Tree) Children(id NodeID) []NodeID {
	var out []NodeID
	for c := t.nodes[id].FirstChild; c != NoNode; c = t.nodes[c].NextSibling {
		if t.nodes[c].Kind == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Walk calls fn for every descendant of id in document order. Returning false
// from fn skips that node's descendants. The walk follows parent and sibling
// links rather than recursing, so its stack use does not grow with depth.
func (t *Tree) Walk(id NodeID, fn func(NodeID) bool) {
	n := t.nodes[id].FirstChild
	for n != NoNode {
		if fn(n) && t.nodes[n].FirstChild != NoNode {
			n = t.nodes[n].FirstChild
			continue
		}
		for n != id && t.nodes[n].NextSibling == NoNode {
			n = t.nodes[n].Parent
		}
		if n == id {
			return
		}
		n = t.nodes[n].NextSibling
	}
}

// ElementsByClass returns every element under id carrying class, in document order.
func (t *Tree) ElementsByClass(id NodeID, class string) []NodeID {
	var out []NodeID
	t.Walk(id, func(n NodeID) bool {
		if t.nodes[n].Kind == ElementNode && t.HasClass(n, class) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// FirstByClass returns the first element under id carrying class, or NoNode.
func (t *Tree) FirstByClass(id NodeID, class string) NodeID {
	found := NoNode
	t.Walk(id, func(n NodeID) bool {
		if found != NoNode {
			return false
		}
		if t.nodes[n].Kind == ElementNode && t.HasClass(n, class) {
			found = n
			return false
		}
		return true
	})
	return found
}

// ElementsByTag returns every element under id with the given lowercase tag name.
func (t *Tree) ElementsByTag(id NodeID, tag string) []NodeID {
	var out []NodeID
	t.Walk(id, func(n NodeID) bool {
		if t.Tag(n) == tag {
			out = append(out, n)
		}
		return true
	})
	return out
}

// InnerHTML returns the raw markup between an element's start and end tags.
func (t *Tree) InnerHTML(id NodeID) string {
	return t.Slice(t.nodes[id].Inner)
}

// InnerText returns the concatenated raw text of all text nodes under id.
// Entities are not unescaped.
func (t *Tree) InnerText(id NodeID) string {
	n := &t.nodes[id]
	if n.Kind == TextNode {
		return t.Slice(n.Inner)
	}
	// A single text child is the common case and needs no copy.
	if n.FirstChild != NoNode && n.FirstChild == n.LastChild && t.nodes[n.FirstChild].Kind == TextNode {
		return t.Slice(t.nodes[n.FirstChild].Inner)
	}
	var sb strings.Builder
	t.Walk(id, func(c NodeID) bool {
		if t.nodes[c].Kind == TextNode {
			sb.WriteString(t.Slice(t.nodes[c].Inner))
		}
		return true
	})
	return sb.String()
}
