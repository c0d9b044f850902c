package ehparse

import "context"

// Caller performs boundary calls for a Go host: it places input in a buffer of
// the given capacity, invokes the named entry point and returns the status
// together with the result bytes when the status is a length.
type Caller interface {
	Call(ctx context.Context, name string, input []byte, capacity int) (Status, []byte, error)
}
