package ehparse

// Serializer encodes records for the host.
type Serializer interface {
	// Serialize encodes v into dst and returns the number of bytes written.
	// Returns ETOOLARGE without writing if the encoding does not fit dst.
	Serialize(v any, dst []byte) (int, error)
}
