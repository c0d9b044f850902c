package ehentai

import (
	"sort"

	"github.com/ehviewer/ehparse"
)

var _ ehparse.ExtractorRegistry = (*Registry)(nil)

// Registry maps page kinds to extractors.
type Registry struct {
	extractors map[ehparse.Kind]ehparse.Extractor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[ehparse.Kind]ehparse.Extractor),
	}
}

// NewDefaultRegistry returns a Registry holding an extractor for every
// supported kind, each configured with its policy from policies.
func NewDefaultRegistry(policies ehparse.Policies) *Registry {
	list := NewGalleryList(policies.For(ehparse.KindGalleryList))

	r := NewRegistry()
	r.Register(ehparse.KindFavorites, NewFavorites(policies.For(ehparse.KindFavorites), list))
	r.Register(ehparse.KindLimits, NewLimits(policies.For(ehparse.KindLimits)))
	r.Register(ehparse.KindTorrents, NewTorrents())
	r.Register(ehparse.KindGalleryList, list)
	r.Register(ehparse.KindComments, NewComments(policies.For(ehparse.KindComments)))
	return r
}

// Get returns the extractor for kind, or nil if none is registered.
func (r *Registry) Get(kind ehparse.Kind) ehparse.Extractor {
	return r.extractors[kind]
}

// Register adds an extractor for kind, replacing any existing one.
func (r *Registry) Register(kind ehparse.Kind, extractor ehparse.Extractor) {
	r.extractors[kind] = extractor
}

// List returns the registered kinds. Known kinds come first in their
// canonical order, followed by the rest sorted by name.
func (r *Registry) List() []ehparse.Kind {
	kinds := make([]ehparse.Kind, 0, len(r.extractors))
	seen := make(map[ehparse.Kind]bool, len(r.extractors))
	for _, k := range ehparse.Kinds() {
		if _, ok := r.extractors[k]; ok {
			kinds = append(kinds, k)
			seen[k] = true
		}
	}
	var rest []ehparse.Kind
	for k := range r.extractors {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	return append(kinds, rest...)
}
