package ehentai

import "github.com/ehviewer/ehparse"

var _ ehparse.Extractor = (*Limits)(nil)

// Limits extracts the image quota from the home page.
type Limits struct {
	policy ehparse.Policy
}

// NewLimits creates a new Limits extractor.
func NewLimits(policy ehparse.Policy) *Limits {
	return &Limits{policy: policy}
}

// Extract returns a *ehparse.Limits read from the first three numeric strong
// elements of the first .homebox.
func (l *Limits) Extract(doc *ehparse.Document) (any, error) {
	tree := doc.Tree
	box := tree.FirstByClass(tree.Root(), "homebox")
	if box == ehparse.NoNode {
		return nil, l.policy.Shortfallf("no homebox on page")
	}

	var values []int32
	for _, strong := range tree.ElementsByTag(box, "strong") {
		if n, ok := parseInt32(tree.InnerText(strong)); ok {
			values = append(values, n)
		}
	}
	if len(values) < 3 {
		return nil, l.policy.Shortfallf("homebox has %d numeric values, want 3", len(values))
	}
	return &ehparse.Limits{
		Current:   values[0],
		Maximum:   values[1],
		ResetCost: values[2],
	}, nil
}
