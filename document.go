package ehparse

// Document is a decoded page: its text and the parse tree spanning it. Both are
// owned by one boundary call and must not be retained after it returns.
type Document struct {
	Text string
	Tree *Tree
}

// Decoder turns the input window of a shared buffer into a Document.
type Decoder interface {
	// Decode decodes input as text and builds a parse tree over it.
	// Returns EDECODE if the input is not valid text or cannot be tokenized.
	// The returned Document must not reference input, which is overwritten
	// once serialization starts.
	Decode(input []byte) (*Document, error)
}
