package ehparse

// Limits is the image quota shown on the home page.
type Limits struct {
	Current   int32 `json:"current"`
	Maximum   int32 `json:"maximum"`
	ResetCost int32 `json:"resetCost"`
}
