package marshal

import (
	"sort"

	"github.com/ehviewer/ehparse"
)

// ExportNames maps the entry point names the host links against to page kinds.
var ExportNames = map[string]ehparse.Kind{
	"parseFav":         ehparse.KindFavorites,
	"parseLimit":       ehparse.KindLimits,
	"parseTorrent":     ehparse.KindTorrents,
	"parseGalleryList": ehparse.KindGalleryList,
	"parseComments":    ehparse.KindComments,
}

// Exports holds one entry point per exported name.
type Exports struct {
	entries map[string]Entrypoint
}

// NewExports binds every exported name to the registry's extractor for its
// kind. Returns EINVALID if the registry is missing a kind.
func NewExports(h *Harness, registry ehparse.ExtractorRegistry) (*Exports, error) {
	e := &Exports{entries: make(map[string]Entrypoint, len(ExportNames))}
	for name, kind := range ExportNames {
		ex := registry.Get(kind)
		if ex == nil {
			return nil, ehparse.Errorf(ehparse.EINVALID, "no extractor registered for %s (%s)", kind, name)
		}
		e.entries[name] = h.Export(ex)
	}
	return e, nil
}

// Get returns the entry point for name, or nil.
func (e *Exports) Get(name string) Entrypoint {
	return e.entries[name]
}

// Call invokes the named entry point. Unknown names yield StatusFault.
func (e *Exports) Call(name string, mem []byte, length, capacity int32) int32 {
	entry, ok := e.entries[name]
	if !ok {
		return int32(ehparse.StatusFault)
	}
	return entry(mem, length, capacity)
}

// Names returns the exported names in sorted order.
func (e *Exports) Names() []string {
	names := make([]string, 0, len(e.entries))
	for name := range e.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
