package ehparse

import "strings"

// Gallery categories. The values are bit flags shared with the host.
const (
	CategoryMisc      int32 = 0x1
	CategoryDoujinshi int32 = 0x2
	CategoryManga     int32 = 0x4
	CategoryArtistCG  int32 = 0x8
	CategoryGameCG    int32 = 0x10
	CategoryImageSet  int32 = 0x20
	CategoryCosplay   int32 = 0x40
	CategoryAsianPorn int32 = 0x80
	CategoryNonH      int32 = 0x100
	CategoryWestern   int32 = 0x200
	CategoryPrivate   int32 = 0x400
	CategoryUnknown   int32 = 0x800
)

var categoryNames = []struct {
	category int32
	names    []string
}{
	{CategoryMisc, []string{"misc"}},
	{CategoryDoujinshi, []string{"doujinshi"}},
	{CategoryManga, []string{"manga"}},
	{CategoryArtistCG, []string{"artistcg", "Artist CG Sets", "Artist CG"}},
	{CategoryGameCG, []string{"gamecg", "Game CG Sets", "Game CG"}},
	{CategoryImageSet, []string{"imageset", "Image Sets", "Image Set"}},
	{CategoryCosplay, []string{"cosplay"}},
	{CategoryAsianPorn, []string{"asianporn", "Asian Porn"}},
	{CategoryNonH, []string{"non-h"}},
	{CategoryWestern, []string{"western"}},
	{CategoryPrivate, []string{"private"}},
	{CategoryUnknown, []string{"unknown"}},
}

// CategoryFromString returns the category named s, matching case-insensitively.
// Unrecognized names return CategoryUnknown.
func CategoryFromString(s string) int32 {
	s = strings.TrimSpace(s)
	for _, c := range categoryNames {
		for _, name := range c.names {
			if strings.EqualFold(name, s) {
				return c.category
			}
		}
	}
	return CategoryUnknown
}

// CategoryString returns the canonical name of category.
func CategoryString(category int32) string {
	for _, c := range categoryNames {
		if c.category == category {
			return c.names[0]
		}
	}
	return "unknown"
}
