package mock

import "github.com/ehviewer/ehparse"

var _ ehparse.Serializer = (*Serializer)(nil)

// Serializer is a mock implementation of ehparse.Serializer.
type Serializer struct {
	SerializeFn func(v any, dst []byte) (int, error)
}

func (s *Serializer) Serialize(v any, dst []byte) (int, error) {
	return s.SerializeFn(v, dst)
}
