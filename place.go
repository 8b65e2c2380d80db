// Copyright 2024 The Heapalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heapalloc

import "unsafe"

// place marks the free block bp, of size at least asize, allocated.
// If the residue left over is at least one minimum block, bp is split:
// the residue becomes a new free block reinserted into the index.
// Otherwise the whole block is consumed, per spec.md §4.4.
func (a *Allocator) place(bp unsafe.Pointer, asize uintptr) {
	csize := blockSize(bp)
	a.bins.delete(bp)

	if csize-asize >= minBlockSize {
		stamp(bp, asize, true)
		residue := nextBlockPtr(bp)
		stamp(residue, csize-asize, false)
		a.bins.insert(residue, csize-asize)
		return
	}

	stamp(bp, csize, true)
}
