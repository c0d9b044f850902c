package ehparse

// Kind identifies a page kind and the record it produces.
type Kind string

// Supported page kinds.
const (
	KindFavorites   Kind = "favorites"
	KindLimits      Kind = "limits"
	KindTorrents    Kind = "torrents"
	KindGalleryList Kind = "gallerylist"
	KindComments    Kind = "comments"
)

// Kinds returns every supported page kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindFavorites, KindLimits, KindTorrents, KindGalleryList, KindComments}
}

// Extractor maps a decoded page to a record. Implementations are pure
// functions of the Document and keep no state between calls.
type Extractor interface {
	// Extract returns the record for doc.
	// Returns ENOTAPPLICABLE if the page does not have the expected shape,
	// EAUTH if the page asks the user to log on, and EMALFORMED if the page
	// has the expected shape but its fields cannot be parsed.
	Extract(doc *Document) (any, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(doc *Document) (any, error)

// Extract calls f(doc).
func (f ExtractorFunc) Extract(doc *Document) (any, error) {
	return f(doc)
}

// ExtractorRegistry maps page kinds to extractors.
type ExtractorRegistry interface {
	// Get returns the extractor for kind.
	// Returns nil if no extractor is registered for the kind.
	Get(kind Kind) Extractor

	// Register adds an extractor for a kind, replacing any existing one.
	Register(kind Kind, extractor Extractor)

	// List returns all registered kinds.
	List() []Kind
}
