package mock

import "github.com/ehviewer/ehparse"

var _ ehparse.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of ehparse.Extractor.
type Extractor struct {
	ExtractFn func(doc *ehparse.Document) (any, error)
}

func (e *Extractor) Extract(doc *ehparse.Document) (any, error) {
	return e.ExtractFn(doc)
}

var _ ehparse.ExtractorRegistry = (*ExtractorRegistry)(nil)

// ExtractorRegistry is a mock implementation of ehparse.ExtractorRegistry.
type ExtractorRegistry struct {
	GetFn      func(kind ehparse.Kind) ehparse.Extractor
	RegisterFn func(kind ehparse.Kind, extractor ehparse.Extractor)
	ListFn     func() []ehparse.Kind
}

func (r *ExtractorRegistry) Get(kind ehparse.Kind) ehparse.Extractor {
	return r.GetFn(kind)
}

func (r *ExtractorRegistry) Register(kind ehparse.Kind, extractor ehparse.Extractor) {
	r.RegisterFn(kind, extractor)
}

func (r *ExtractorRegistry) List() []ehparse.Kind {
	return r.ListFn()
}
