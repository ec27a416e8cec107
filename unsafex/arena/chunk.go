package arena

import "unsafe"

// BlockSize is the allocation quantum. All allocations round up to an
// integral number of blocks; all tracked bitmap positions are block
// indices, not byte offsets.
const BlockSize = 256

// footerLayout stands in for the in-memory footer record the design
// conceptually carries at the high end of each chunk (prev link, payload
// start, block count). This package keeps that bookkeeping as an ordinary
// Go struct on the chunk itself rather than writing it into the donated
// region — see DESIGN.md for why — but still charges its size against
// per-chunk overhead so total_bytes/used_bytes accounting matches a design
// that does store it in-region.
type footerLayout struct {
	prev       uintptr
	start      uintptr
	blockCount uintptr
}

const footerSize = unsafe.Sizeof(footerLayout{})

var footerAlign = uintptr(unsafe.Alignof(footerLayout{}))

// chunk is one donated backing region: a block-aligned payload area fronted
// by a bitmap carved from the region's tail, plus a link to the
// previously-added chunk.
type chunk struct {
	start      uintptr // first byte of the block-aligned payload
	footerAddr uintptr // conceptual footer address; inclusive dealloc bound
	blockCount int
	bitmap     Bitmap
	prev       *chunk

	// region keeps the donated backing slice reachable so the garbage
	// collector never reclaims memory the bitmap and payload pointers
	// still reference.
	region []byte
}

// newChunk carves a chunk out of region, following the construction
// algorithm: the bitmap is sized so there is one bit per payload block,
// placed as high as it fits; the footer sits directly below it; the
// payload fills everything below that, floor-aligned to BlockSize.
//
// Because the bitmap's word count depends on the block count, which in
// turn depends on how much space the bitmap itself consumes, sizing is a
// small fixed point: start with one word, recompute the block count from
// the remaining space, recompute the words needed to cover it, and repeat
// until the word count stops growing. Both sequences are monotonic, so
// this always terminates.
func newChunk(region []byte, prev *chunk) (*chunk, error) {
	if len(region) == 0 {
		return nil, ErrNoMemory
	}

	regionStart := uintptr(unsafe.Pointer(&region[0]))
	regionEnd := regionStart + uintptr(len(region))
	payloadStart := ceilAlign(regionStart, BlockSize)

	var (
		bitmapWords = 1
		bitmapAddr  uintptr
		footerAddr  uintptr
		payloadEnd  uintptr
		blockCount  int
	)
	for {
		bitmapBytes := uintptr(bitmapWords) * 8
		bitmapAddr = floorAlign(regionEnd, 8) - bitmapBytes
		if bitmapAddr < regionStart || bitmapAddr+bitmapBytes < bitmapAddr {
			return nil, ErrNoMemory
		}
		footerAddr = floorAlign(bitmapAddr-footerSize, footerAlign)
		if footerAddr < regionStart || footerAddr > bitmapAddr {
			return nil, ErrNoMemory
		}
		payloadEnd = floorAlign(footerAddr, BlockSize)
		if payloadEnd <= payloadStart {
			return nil, ErrNoMemory
		}

		blockCount = int((payloadEnd - payloadStart) / BlockSize)
		neededWords := ceilDiv(blockCount, wordBits)
		if neededWords <= bitmapWords {
			break
		}
		bitmapWords = neededWords
	}

	bitmapOffset := bitmapAddr - regionStart
	words := unsafe.Slice((*uint64)(unsafe.Pointer(&region[bitmapOffset])), bitmapWords)
	bm := newBitmap(words)
	bm.Clear()
	if sentinel := bitmapWords*wordBits - blockCount; sentinel > 0 {
		bm.Set(blockCount, sentinel)
	}

	return &chunk{
		start:      payloadStart,
		footerAddr: footerAddr,
		blockCount: blockCount,
		bitmap:     bm,
		prev:       prev,
		region:     region,
	}, nil
}

// contains reports whether ptr falls within this chunk's owned range. The
// upper bound is inclusive, preserving a defensive off-by-one the design
// this is ported from carries (see spec's Open Questions).
func (c *chunk) contains(ptr uintptr) bool {
	return ptr >= c.start && ptr <= c.footerAddr
}

// allocLeft returns the first free run, scanned low-to-high, that fits
// size bytes at the given alignment, placing the allocation at its low
// (ceil-aligned) edge.
func (c *chunk) allocLeft(size, align uintptr) (ptr uintptr, blocks int, ok bool) {
	dec := c.bitmap.Decode()
	for {
		run, more := dec.Next()
		if !more {
			return 0, 0, false
		}
		runStart := c.start + uintptr(run.Pos)*BlockSize
		runEnd := c.start + uintptr(run.Pos+run.Len)*BlockSize

		data := ceilAlign(runStart, align)
		if data+size > runEnd {
			continue
		}
		return data, c.place(data, size), true
	}
}

// allocRight scans every free run, scanned low-to-high, and returns the
// highest-address fit (its high, floor-aligned edge), i.e. it fully
// exhausts the chunk's run list rather than stopping at the first fit.
func (c *chunk) allocRight(size, align uintptr) (ptr uintptr, blocks int, ok bool) {
	dec := c.bitmap.Decode()
	var best uintptr
	found := false
	for {
		run, more := dec.Next()
		if !more {
			break
		}
		// Reject before the subtraction below so a run shorter than size
		// cannot wrap a uintptr and spuriously look like a valid address.
		if uintptr(run.Len)*BlockSize < size {
			continue
		}
		runStart := c.start + uintptr(run.Pos)*BlockSize
		runEnd := c.start + uintptr(run.Pos+run.Len)*BlockSize

		data := floorAlign(runEnd-size, align)
		if data < runStart {
			continue
		}
		best = data
		found = true
	}
	if !found {
		return 0, 0, false
	}
	return best, c.place(best, size), true
}

// place marks the bitmap bits covering [data, data+size) as allocated and
// returns the number of blocks consumed.
func (c *chunk) place(data, size uintptr) int {
	blockFirst := int((data - c.start) / BlockSize)
	blockLast := int(ceilDivAddr(data+size-c.start, BlockSize))
	c.bitmap.Set(blockFirst, blockLast-blockFirst)
	return blockLast - blockFirst
}

// dealloc clears the bitmap bits covering [ptr, ptr+size) and returns the
// number of blocks freed. The caller must have already confirmed
// c.contains(ptr).
//
// The block range is computed exactly as place computes it for the
// matching allocation, from both ends of [ptr, ptr+size), so the two agree
// on the blocks an allocation occupies even though ptr is not generally
// block-aligned (rightmost-fit places data at a run's end minus size).
func (c *chunk) dealloc(ptr, size uintptr) int {
	blockFirst := int((ptr - c.start) / BlockSize)
	blockLast := int(ceilDivAddr(ptr+size-c.start, BlockSize))
	c.bitmap.Unset(blockFirst, blockLast-blockFirst)
	return blockLast - blockFirst
}
