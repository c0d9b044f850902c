package mock

import (
	"context"

	"github.com/ehviewer/ehparse"
)

var _ ehparse.Caller = (*Caller)(nil)

// Caller is a mock implementation of ehparse.Caller.
type Caller struct {
	CallFn func(ctx context.Context, name string, input []byte, capacity int) (ehparse.Status, []byte, error)
}

func (c *Caller) Call(ctx context.Context, name string, input []byte, capacity int) (ehparse.Status, []byte, error) {
	return c.CallFn(ctx, name, input, capacity)
}
