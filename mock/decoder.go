package mock

import "github.com/ehviewer/ehparse"

var _ ehparse.Decoder = (*Decoder)(nil)

// Decoder is a mock implementation of ehparse.Decoder.
type Decoder struct {
	DecodeFn func(input []byte) (*ehparse.Document, error)
}

func (d *Decoder) Decode(input []byte) (*ehparse.Document, error) {
	return d.DecodeFn(input)
}
