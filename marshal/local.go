package marshal

import (
	"context"

	"github.com/ehviewer/ehparse"
)

var _ ehparse.Caller = (*LocalCaller)(nil)

// LocalCaller performs boundary calls in process, allocating a fresh buffer
// for every call the way a host would.
type LocalCaller struct {
	exports *Exports
}

// NewLocalCaller creates a new LocalCaller.
func NewLocalCaller(exports *Exports) *LocalCaller {
	return &LocalCaller{exports: exports}
}

// Call copies input into a buffer of the given capacity and runs the named
// entry point over it.
func (c *LocalCaller) Call(ctx context.Context, name string, input []byte, capacity int) (ehparse.Status, []byte, error) {
	if err := ctx.Err(); err != nil {
		return ehparse.StatusFault, nil, err
	}
	if c.exports.Get(name) == nil {
		return ehparse.StatusFault, nil, ehparse.Errorf(ehparse.EINVALID, "unknown entry point %q", name)
	}
	if capacity < len(input) || capacity > 1<<31-1 {
		return ehparse.StatusFault, nil, ehparse.Errorf(ehparse.EINVALID, "capacity %d cannot hold %d input bytes", capacity, len(input))
	}

	mem := make([]byte, capacity)
	copy(mem, input)
	status := ehparse.Status(c.exports.Call(name, mem, int32(len(input)), int32(capacity)))
	if status.OK() {
		return status, mem[:status], nil
	}
	return status, nil, nil
}
