// Package arena implements a byte-granular bitmap allocator over one or
// more donated memory regions, for runtimes with no underlying heap. It
// tracks free space per region with a bitmap, alternates leftmost- and
// rightmost-fit placement to keep short-lived and long-lived allocations
// apart, and never coalesces, reclaims, or defragments beyond what the
// bitmap gives for free.
//
// The allocator is single-owner: every exported method requires exclusive
// access for its duration, and nothing here provides synchronization.
// Callers needing concurrent access must wrap an Allocator in their own
// sync.Mutex.
package arena

// Allocator dispatches (size, align) requests across a list of donated
// chunks, alternating leftmost-fit and rightmost-fit on every call.
type Allocator struct {
	head       *chunk
	rightSide  bool // starts false, flipped first in Alloc: the first Alloc is rightmost-fit
	totalBytes uint64
	availBytes uint64
}

// Init donates region as the allocator's first backing memory. It panics
// if region is too small to host its own bookkeeping — callers that want
// an error instead should call AddMemory directly on a zero-value
// Allocator.
func (a *Allocator) Init(region []byte) {
	if err := a.AddMemory(region); err != nil {
		panic(err)
	}
}

// AddMemory donates an additional backing region, pushing a new chunk onto
// the head of the chunk list. It returns ErrNoMemory if region is too
// small to host a footer and at least one block, leaving the allocator's
// state unchanged.
func (a *Allocator) AddMemory(region []byte) error {
	c, err := newChunk(region, a.head)
	if err != nil {
		return err
	}
	a.head = c
	a.totalBytes += uint64(len(region))
	a.availBytes += uint64(c.blockCount) * BlockSize
	return nil
}

// Alloc returns an align-aligned pointer to size free bytes drawn from one
// of the allocator's chunks, or ErrNoMemory if none can accommodate the
// layout. align must be a nonzero power of two.
//
// The side flag flips on every call, success or failure, so the
// leftmost/rightmost policy stays deterministic and independent of memory
// pressure: flipping only on success would change fragmentation behavior.
func (a *Allocator) Alloc(size, align uintptr) (uintptr, error) {
	a.rightSide = !a.rightSide

	for c := a.head; c != nil; c = c.prev {
		var (
			ptr    uintptr
			blocks int
			ok     bool
		)
		if a.rightSide {
			ptr, blocks, ok = c.allocRight(size, align)
		} else {
			ptr, blocks, ok = c.allocLeft(size, align)
		}
		if ok {
			a.availBytes -= uint64(blocks) * BlockSize
			return ptr, nil
		}
	}
	return 0, ErrNoMemory
}

// Dealloc returns the allocation at ptr, of the given size and align, to
// its owning chunk. ptr must equal a value previously returned by Alloc
// with the same size and align and not since freed. ErrNotAllocated is
// returned only when ptr lies outside every chunk; a double free or a
// wrong layout for a ptr inside a chunk is not detected.
func (a *Allocator) Dealloc(ptr, size, align uintptr) error {
	_ = align // not needed to locate or clear the allocation; kept to mirror Alloc's layout

	for c := a.head; c != nil; c = c.prev {
		if c.contains(ptr) {
			blocks := c.dealloc(ptr, size)
			a.availBytes += uint64(blocks) * BlockSize
			return nil
		}
	}
	return ErrNotAllocated
}

// TotalBytes returns the raw sum of region sizes ever donated, including
// per-chunk overhead (footer, bitmap, alignment padding).
func (a *Allocator) TotalBytes() uint64 {
	return a.totalBytes
}

// AvailableBytes returns the currently-free block bytes across all
// chunks. Unlike TotalBytes this does not count overhead.
func (a *Allocator) AvailableBytes() uint64 {
	return a.availBytes
}

// UsedBytes returns TotalBytes - AvailableBytes. Because TotalBytes counts
// overhead and AvailableBytes does not, UsedBytes silently includes each
// chunk's bookkeeping cost; this is intentional and must not be
// "corrected", since callers may use TotalBytes as a grow-trigger
// heuristic that depends on the exact value.
func (a *Allocator) UsedBytes() uint64 {
	return a.totalBytes - a.availBytes
}
