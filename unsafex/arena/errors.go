package arena

import "errors"

var (
	// ErrNoMemory is returned by Alloc when no chunk can satisfy a layout,
	// and by AddMemory when a donated region is too small to host its own
	// bookkeeping. It is a normal outcome, not a programming error.
	ErrNoMemory = errors.New("arena: no memory")

	// ErrNotAllocated is returned by Dealloc when ptr does not belong to
	// any chunk owned by the allocator. Unlike ErrNoMemory this signals a
	// programming error in the caller.
	ErrNotAllocated = errors.New("arena: pointer not allocated by this arena")
)

// MustDealloc calls Dealloc and panics if it returns an error. Use it where
// the caller has already established ptr is well-formed and prefers an
// abort-on-misuse ergonomics over an error return.
func (a *Allocator) MustDealloc(ptr, size, align uintptr) {
	if err := a.Dealloc(ptr, size, align); err != nil {
		panic(err)
	}
}
