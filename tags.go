// Copyright 2024 The Heapalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heapalloc

import "unsafe"

const (
	// WordSize is the allocator's atomic metadata unit: the natural
	// pointer width of the host, matching the C original's
	// sizeof(void *)/sizeof(uintptr_t) convention.
	WordSize = unsafe.Sizeof(uintptr(0))

	doubleWord = 2 * WordSize

	// minBlockSize is 4 words: header, footer, and the two free-list
	// link slots that overlay the first two payload words of a free
	// block.
	minBlockSize = 4 * WordSize

	allocBit = uintptr(1)
	sizeMask = ^uintptr(WordSize - 1)
)

// word reads/writes a raw metadata word at addr. Every header, footer
// and free-list link access in this package goes through these two
// functions; they are the unchecked boundary the rest of the allocator
// is built on top of (Design Note: "ownership & aliasing").
func getWord(addr unsafe.Pointer) uintptr {
	return *(*uintptr)(addr)
}

func putWord(addr unsafe.Pointer, v uintptr) {
	*(*uintptr)(addr) = v
}

func pack(size uintptr, alloc bool) uintptr {
	if alloc {
		return size | allocBit
	}
	return size
}

func unpackSize(w uintptr) uintptr { return w & sizeMask }
func unpackAlloc(w uintptr) bool   { return w&allocBit != 0 }

func addPtr(p unsafe.Pointer, delta uintptr) unsafe.Pointer {
	return unsafe.Pointer(uintptr(p) + delta)
}

func subPtr(p unsafe.Pointer, delta uintptr) unsafe.Pointer {
	return unsafe.Pointer(uintptr(p) - delta)
}

// headerAddr returns the address of bp's header word.
func headerAddr(bp unsafe.Pointer) unsafe.Pointer { return subPtr(bp, WordSize) }

// blockSize reads the size encoded in bp's header.
func blockSize(bp unsafe.Pointer) uintptr { return unpackSize(getWord(headerAddr(bp))) }

// blockAlloc reads the alloc bit encoded in bp's header.
func blockAlloc(bp unsafe.Pointer) bool { return unpackAlloc(getWord(headerAddr(bp))) }

// footerAddr returns the address of bp's footer word, given bp's size.
func footerAddr(bp unsafe.Pointer, size uintptr) unsafe.Pointer {
	return addPtr(bp, size-doubleWord)
}

// nextBlockPtr returns the payload address of the block immediately
// following bp.
func nextBlockPtr(bp unsafe.Pointer) unsafe.Pointer {
	return addPtr(bp, blockSize(bp))
}

// prevBlockPtr returns the payload address of the block immediately
// preceding bp, read via the previous block's footer.
func prevBlockPtr(bp unsafe.Pointer) unsafe.Pointer {
	prevSize := unpackSize(getWord(subPtr(bp, doubleWord)))
	return subPtr(bp, prevSize)
}

// stamp writes both header and footer of the block at bp with (size,
// alloc). Per the resource discipline in spec.md §5, every block's
// footer is kept in sync with its header even when only the header
// would be read for a given operation.
func stamp(bp unsafe.Pointer, size uintptr, alloc bool) {
	w := pack(size, alloc)
	putWord(headerAddr(bp), w)
	putWord(footerAddr(bp, size), w)
}

// roundUp rounds n up to the next multiple of m, m a power of two.
func roundUp(n, m uintptr) uintptr { return (n + m - 1) &^ (m - 1) }
