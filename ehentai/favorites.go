package ehentai

import (
	"strings"

	"github.com/ehviewer/ehparse"
)

const logOnMarker = "This page requires you to log on.</p>"

var _ ehparse.Extractor = (*Favorites)(nil)

// Favorites extracts the favorite category slots and the gallery list from a
// favorites page.
type Favorites struct {
	policy ehparse.Policy
	list   *GalleryList
}

// NewFavorites creates a new Favorites extractor. The gallery list on the page
// is extracted with list.
func NewFavorites(policy ehparse.Policy, list *GalleryList) *Favorites {
	return &Favorites{policy: policy, list: list}
}

// Extract returns a *ehparse.FavResult. A log-on page yields EAUTH.
func (f *Favorites) Extract(doc *ehparse.Document) (any, error) {
	if strings.Contains(doc.Text, logOnMarker) {
		return nil, ehparse.Errorf(ehparse.EAUTH, "favorites require a logged in session")
	}

	tree := doc.Tree
	result := &ehparse.FavResult{
		CatArray:   make([]string, 0, ehparse.FavoriteSlots),
		CountArray: make([]int32, 0, ehparse.FavoriteSlots),
	}
	for i, fp := range tree.ElementsByClass(tree.Root(), "fp") {
		if i == ehparse.FavoriteSlots {
			break
		}
		name, count, ok := favoriteSlot(tree, fp)
		if !ok {
			continue
		}
		result.CatArray = append(result.CatArray, name)
		result.CountArray = append(result.CountArray, count)
	}
	if len(result.CatArray) != ehparse.FavoriteSlots {
		return nil, f.policy.Shortfallf("found %d favorite slots, want %d", len(result.CatArray), ehparse.FavoriteSlots)
	}

	list, err := f.list.Parse(doc)
	if err != nil {
		return nil, err
	}
	result.GalleryListResult = *list
	return result, nil
}

// favoriteSlot reads one .fp element: the count in its first child element and
// the category name in its third.
func favoriteSlot(tree *ehparse.Tree, fp ehparse.NodeID) (string, int32, bool) {
	children := tree.Children(fp)
	if len(children) < 3 {
		return "", 0, false
	}
	count, ok := parseInt32(tree.InnerText(children[0]))
	if !ok {
		return "", 0, false
	}
	return text(tree, children[2]), count, true
}
