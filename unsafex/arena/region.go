package arena

import (
	"unsafe"

	"github.com/bytedance/gopkg/lang/dirtmake"
)

// NewRegion allocates a donor region of size bytes suitable for passing to
// Init or AddMemory, block-aligned at its low end so a region handed to a
// fresh Allocator wastes no bytes to alignment padding before its payload
// starts — the behavior a real deployment gets for free from a
// page/block-aligned physical donation. It over-allocates by BlockSize
// bytes via dirtmake.Bytes (rather than make: the allocator
// overwrites the tail with its own bitmap and sentinel bits and never
// reads a byte before writing it, so zero-initialization buys nothing) and
// trims the unaligned prefix.
func NewRegion(size int) []byte {
	raw := dirtmake.Bytes(size+BlockSize, size+BlockSize)
	base := uintptr(unsafe.Pointer(&raw[0]))
	pad := int(ceilAlign(base, BlockSize) - base)
	return raw[pad : pad+size : pad+size]
}
