package ehparse

// FavoriteSlots is the number of favorite categories a favorites page lists.
const FavoriteSlots = 10

// FavResult is the record extracted from a favorites page.
type FavResult struct {
	CatArray          []string          `json:"catArray"`
	CountArray        []int32           `json:"countArray"`
	GalleryListResult GalleryListResult `json:"galleryListResult"`
}
