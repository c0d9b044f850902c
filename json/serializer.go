// Package json encodes extraction results as JSON for the host and validates
// encoded results against per-kind JSON Schemas.
package json

import (
	"bytes"
	"encoding/json"

	"github.com/ehviewer/ehparse"
)

// Ensure Serializer implements ehparse.Serializer at compile time.
var _ ehparse.Serializer = (*Serializer)(nil)

// Serializer writes compact JSON. It holds no per-call state and is safe for
// concurrent use.
type Serializer struct{}

// NewSerializer creates a new Serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Serialize encodes v and copies it into dst. The full encoding is produced
// before dst is touched, so a result that does not fit leaves dst unchanged.
func (s *Serializer) Serialize(v any, dst []byte) (int, error) {
	b, err := Marshal(v)
	if err != nil {
		return 0, err
	}
	if len(b) > len(dst) {
		return 0, ehparse.Errorf(ehparse.ETOOLARGE, "encoded result of %d bytes exceeds capacity %d", len(b), len(dst))
	}
	return copy(dst, b), nil
}

// Marshal returns the host encoding of v: compact JSON without HTML escaping
// and without a trailing newline.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, ehparse.Errorf(ehparse.EINTERNAL, "failed to encode result: %v", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
