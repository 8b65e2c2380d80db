// Copyright 2024 The Heapalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heapalloc

import "unsafe"

// coalesce merges the newly-freed block bp with up to two free
// neighbors, the four cases of spec.md §4.5. It returns the address of
// the (possibly merged) free block. The prologue and epilogue
// sentinels bound this without any special-casing: they are permanently
// marked allocated, so coalescing never walks past either end.
func (a *Allocator) coalesce(bp unsafe.Pointer) unsafe.Pointer {
	prevAlloc := blockAlloc(prevBlockPtr(bp))
	nextAlloc := blockAlloc(nextBlockPtr(bp))
	size := blockSize(bp)

	switch {
	case prevAlloc && nextAlloc: // Case 1: already isolated.
		return bp

	case prevAlloc && !nextAlloc: // Case 2: merge with successor.
		next := nextBlockPtr(bp)
		a.bins.delete(bp)
		a.bins.delete(next)
		size += blockSize(next)
		stamp(bp, size, false)
		a.bins.insert(bp, size)
		return bp

	case !prevAlloc && nextAlloc: // Case 3: merge with predecessor.
		prev := prevBlockPtr(bp)
		a.bins.delete(bp)
		a.bins.delete(prev)
		size += blockSize(prev)
		stamp(prev, size, false)
		a.bins.insert(prev, size)
		return prev

	default: // Case 4: merge with both neighbors.
		prev := prevBlockPtr(bp)
		next := nextBlockPtr(bp)
		a.bins.delete(bp)
		a.bins.delete(prev)
		a.bins.delete(next)
		size += blockSize(prev) + blockSize(next)
		stamp(prev, size, false)
		a.bins.insert(prev, size)
		return prev
	}
}
