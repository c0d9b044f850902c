// Command libehparse builds the parser as a C shared library:
//
//	go build -buildmode=c-shared -o libehparse.so ./cmd/libehparse
//
// Each entry point takes a buffer holding length bytes of HTML and able to hold
// capacity bytes. It returns the number of JSON bytes written over the buffer,
// or a negative status: -1 not applicable, -2 fault, -3 too large.
package main

/*
#include <stdint.h>
*/
import "C"

import "unsafe"

//export parseFav
func parseFav(buf *C.uint8_t, length, capacity C.int32_t) C.int32_t {
	return C.int32_t(call("parseFav", unsafe.Pointer(buf), int32(length), int32(capacity)))
}

//export parseLimit
func parseLimit(buf *C.uint8_t, length, capacity C.int32_t) C.int32_t {
	return C.int32_t(call("parseLimit", unsafe.Pointer(buf), int32(length), int32(capacity)))
}

//export parseTorrent
func parseTorrent(buf *C.uint8_t, length, capacity C.int32_t) C.int32_t {
	return C.int32_t(call("parseTorrent", unsafe.Pointer(buf), int32(length), int32(capacity)))
}

//export parseGalleryList
func parseGalleryList(buf *C.uint8_t, length, capacity C.int32_t) C.int32_t {
	return C.int32_t(call("parseGalleryList", unsafe.Pointer(buf), int32(length), int32(capacity)))
}

//export parseComments
func parseComments(buf *C.uint8_t, length, capacity C.int32_t) C.int32_t {
	return C.int32_t(call("parseComments", unsafe.Pointer(buf), int32(length), int32(capacity)))
}

func main() {}
