package mock

import "github.com/ehviewer/ehparse"

var _ ehparse.Converter = (*Converter)(nil)

// Converter is a mock implementation of ehparse.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
