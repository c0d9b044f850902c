package ehparse

// Buffer is a non-owning view over a block of host memory for the duration of
// one boundary call. Bytes [0, Len()) hold the input; bytes [0, Cap()) may be
// overwritten with the output.
//
// Reading and writing share the same memory, so the view is sealed for reading
// as soon as the first write starts. Callers must finish with Input before they
// call Output or Write.
type Buffer struct {
	mem    []byte
	length int
	sealed bool
}

// NewBuffer returns a view over mem with the given logical length and capacity.
// The capacity may not exceed len(mem) and the length may not exceed the capacity.
func NewBuffer(mem []byte, length, capacity int) (*Buffer, error) {
	if capacity < 0 || capacity > len(mem) {
		return nil, Errorf(EINVALID, "capacity %d out of range [0, %d]", capacity, len(mem))
	}
	if length < 0 || length > capacity {
		return nil, Errorf(EINVALID, "length %d out of range [0, %d]", length, capacity)
	}
	return &Buffer{mem: mem[:capacity:capacity], length: length}, nil
}

// Len returns the logical length of the input.
func (b *Buffer) Len() int {
	return b.length
}

// Cap returns the number of bytes that may be written.
func (b *Buffer) Cap() int {
	return len(b.mem)
}

// Sealed reports whether a write has started.
func (b *Buffer) Sealed() bool {
	return b.sealed
}

// Input returns the read window [0, Len()). The returned slice aliases host
// memory and must not be used after Output or Write is called.
func (b *Buffer) Input() ([]byte, error) {
	if b.sealed {
		return nil, Errorf(EINTERNAL, "buffer input read after output write")
	}
	return b.mem[:b.length], nil
}

// Output seals the buffer for reading and returns the writable window
// [0, Cap()). Any slice previously returned by Input must not be used after
// this call.
func (b *Buffer) Output() []byte {
	b.sealed = true
	return b.mem
}

// Write copies p to the start of the buffer and returns len(p). If p does not
// fit the capacity, nothing is written and an ETOOLARGE error is returned.
func (b *Buffer) Write(p []byte) (int, error) {
	if len(p) > len(b.mem) {
		return 0, Errorf(ETOOLARGE, "result of %d bytes exceeds capacity %d", len(p), len(b.mem))
	}
	b.sealed = true
	return copy(b.mem, p), nil
}
