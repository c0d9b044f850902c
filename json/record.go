package json

import (
	"encoding/json"

	"github.com/ehviewer/ehparse"
)

// Unmarshal decodes a host encoding back into the record type that the
// extractor of kind returns.
func Unmarshal(kind ehparse.Kind, data []byte) (any, error) {
	var v any
	switch kind {
	case ehparse.KindFavorites:
		v = &ehparse.FavResult{}
	case ehparse.KindLimits:
		v = &ehparse.Limits{}
	case ehparse.KindTorrents:
		var r ehparse.TorrentResult
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, ehparse.Errorf(ehparse.EINVALID, "failed to decode %s result: %v", kind, err)
		}
		return r, nil
	case ehparse.KindGalleryList:
		v = &ehparse.GalleryListResult{}
	case ehparse.KindComments:
		v = &ehparse.GalleryCommentList{}
	default:
		return nil, ehparse.Errorf(ehparse.EINVALID, "unknown kind %q", kind)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return nil, ehparse.Errorf(ehparse.EINVALID, "failed to decode %s result: %v", kind, err)
	}
	return v, nil
}
