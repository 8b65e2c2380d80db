// Copyright 2024 The Heapalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heapalloc

import (
	"fmt"
	"unsafe"
)

// maybeCheck runs CheckHeap when the Allocator was constructed with
// WithConsistencyChecks, panicking on the first violation. Invariant
// violations are bugs, not recoverable conditions (spec.md §7).
func (a *Allocator) maybeCheck() {
	if !a.consistencyChecks {
		return
	}
	if err := a.CheckHeap(false); err != nil {
		panic(err)
	}
}

// CheckHeap walks the implicit block chain from the prologue to the
// epilogue verifying alignment, header=footer agreement, the absence
// of two adjacent free blocks, and bin membership, then separately
// walks every bin verifying its members are free and symmetrically
// linked (spec.md §4.7). It is a pure audit: it never mutates state,
// and is meant to run only behind a debug/verbose gate.
func (a *Allocator) CheckHeap(verbose bool) error {
	if blockSize(a.heapBase) != doubleWord || !blockAlloc(a.heapBase) {
		return fmt.Errorf("%w: malformed prologue", errInvalidBlock)
	}

	// The prologue was validated above; its 2W size is below
	// minBlockSize, so the chain walk proper starts at its successor.
	prevFree := false
	for bp := nextBlockPtr(a.heapBase); ; bp = nextBlockPtr(bp) {
		size := blockSize(bp)
		if size == 0 {
			if !blockAlloc(bp) {
				return fmt.Errorf("%w: malformed epilogue", errInvalidBlock)
			}
			break
		}

		if verbose {
			a.logger.Tracef("block %p size=%#x alloc=%v", bp, size, blockAlloc(bp))
		}
		if err := a.checkBlock(bp, size); err != nil {
			return err
		}

		free := !blockAlloc(bp)
		if free && prevFree {
			return fmt.Errorf("%w: adjacent free blocks escaped coalescing", errInvalidBlock)
		}
		prevFree = free
	}

	return a.checkBins()
}

func (a *Allocator) checkBlock(bp unsafe.Pointer, size uintptr) error {
	if uintptr(bp)%WordSize != 0 {
		return fmt.Errorf("%w: %p is not word-aligned", errInvalidBlock, bp)
	}
	if size < minBlockSize || size%WordSize != 0 {
		return fmt.Errorf("%w: %p has invalid size %#x", errInvalidBlock, bp, size)
	}
	if getWord(headerAddr(bp)) != getWord(footerAddr(bp, size)) {
		return fmt.Errorf("%w: %p header does not match footer", errInvalidBlock, bp)
	}

	if blockAlloc(bp) {
		return nil
	}

	idx := binIndex(size)
	for n := a.bins.head(idx); n != nil; n = linkOf(n).next {
		if n == bp {
			return nil
		}
	}
	return fmt.Errorf("%w: free block %p missing from bin %d", errInvalidBlock, bp, idx)
}

func (a *Allocator) checkBins() error {
	for i := 0; i < BinCount; i++ {
		var prev unsafe.Pointer
		for bp := a.bins.head(i); bp != nil; bp = linkOf(bp).next {
			if blockAlloc(bp) {
				return fmt.Errorf("%w: bin %d holds allocated block %p", errInvalidBlock, i, bp)
			}
			if binIndex(blockSize(bp)) != i {
				return fmt.Errorf("%w: block %p misfiled in bin %d", errInvalidBlock, bp, i)
			}
			if linkOf(bp).prev != prev {
				return fmt.Errorf("%w: block %p has an asymmetric back link", errInvalidBlock, bp)
			}
			prev = bp
		}
	}
	return nil
}
