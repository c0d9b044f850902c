//go:build wasip1

// Command ehparse-wasm is the WebAssembly build of the parser. Build it as a
// reactor module:
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o ehparse.wasm ./cmd/ehparse-wasm
//
// The host allocates a buffer with alloc, writes the page into it, calls one of
// the parse entry points with (ptr, length, capacity) and reads the result
// back from the same buffer.
package main

import (
	"unsafe"

	"github.com/ehviewer/ehparse"
	"github.com/ehviewer/ehparse/ehentai"
	"github.com/ehviewer/ehparse/html"
	"github.com/ehviewer/ehparse/json"
	"github.com/ehviewer/ehparse/marshal"
)

const abiVersion = 1

var exports = mustExports()

// buffers keeps host-visible allocations reachable until free.
var buffers = make(map[uint32][]byte)

func mustExports() *marshal.Exports {
	h := marshal.NewHarness(html.NewDecoder(), json.NewSerializer())
	e, err := marshal.NewExports(h, ehentai.NewDefaultRegistry(nil))
	if err != nil {
		panic(err)
	}
	return e
}

//go:wasmexport abi_version
func abiVersionExport() uint32 {
	return abiVersion
}

//go:wasmexport alloc
func alloc(size uint32) uint32 {
	b := make([]byte, max(size, 1))
	ptr := uint32(uintptr(unsafe.Pointer(unsafe.SliceData(b))))
	buffers[ptr] = b
	return ptr
}

//go:wasmexport free
func free(ptr uint32) {
	delete(buffers, ptr)
}

func call(name string, ptr, length, capacity uint32) int32 {
	mem, ok := buffers[ptr]
	if !ok || uint64(capacity) > uint64(len(mem)) {
		return int32(ehparse.StatusFault)
	}
	return exports.Call(name, mem, int32(length), int32(capacity))
}

//go:wasmexport parseFav
func parseFav(ptr, length, capacity uint32) int32 {
	return call("parseFav", ptr, length, capacity)
}

//go:wasmexport parseLimit
func parseLimit(ptr, length, capacity uint32) int32 {
	return call("parseLimit", ptr, length, capacity)
}

//go:wasmexport parseTorrent
func parseTorrent(ptr, length, capacity uint32) int32 {
	return call("parseTorrent", ptr, length, capacity)
}

//go:wasmexport parseGalleryList
func parseGalleryList(ptr, length, capacity uint32) int32 {
	return call("parseGalleryList", ptr, length, capacity)
}

//go:wasmexport parseComments
func parseComments(ptr, length, capacity uint32) int32 {
	return call("parseComments", ptr, length, capacity)
}

func main() {}
