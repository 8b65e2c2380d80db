// Copyright 2024 The Heapalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heapalloc

import "unsafe"

// ReallocatePointer is the raw-pointer reallocation primitive: spec.md
// §6's reallocate(ptr, size) / §4.6. It tries in-place shrink or grow
// first and only falls back to allocate+copy+free when neither the
// residue nor the successor can absorb the difference.
func (a *Allocator) ReallocatePointer(bp unsafe.Pointer, size uintptr) (unsafe.Pointer, error) {
	a.logger.Tracef("ReallocatePointer(%p, %#x)", bp, size)

	if size == 0 {
		a.FreePointer(bp)
		return nil, nil
	}
	if bp == nil {
		return a.AllocatePointer(size)
	}

	asize := doubleWord + roundUp(size, WordSize)
	csize := blockSize(bp)

	switch {
	case asize == csize:
		return bp, nil

	case asize < csize:
		delta := csize - asize
		if delta >= 2*doubleWord {
			a.shrinkInPlace(bp, asize, delta)
		}
		a.maybeCheck()
		return bp, nil

	default:
		delta := asize - csize
		if grown, ok := a.growInPlace(bp, asize, csize, delta); ok {
			a.maybeCheck()
			return grown, nil
		}

		newBp, err := a.AllocatePointer(size)
		if err != nil {
			return nil, err
		}
		if newBp == nil {
			return nil, nil
		}

		copyLen := csize - doubleWord
		if size < copyLen {
			copyLen = size
		}
		copyBytes(newBp, bp, copyLen)
		a.FreePointer(bp)
		a.maybeCheck()
		return newBp, nil
	}
}

// shrinkInPlace splits off a delta-byte residue after an asize-byte
// block at bp, reinserting and coalescing the residue.
func (a *Allocator) shrinkInPlace(bp unsafe.Pointer, asize, delta uintptr) {
	stamp(bp, asize, true)
	residue := nextBlockPtr(bp)
	stamp(residue, delta, false)
	a.bins.insert(residue, delta)
	a.coalesce(residue)
}

// growInPlace attempts to absorb all or part of bp's free successor to
// satisfy a grow-by-delta request without moving bp. ok is false if the
// successor is absent, allocated, or too small to help at all.
func (a *Allocator) growInPlace(bp unsafe.Pointer, asize, csize, delta uintptr) (unsafe.Pointer, bool) {
	next := nextBlockPtr(bp)
	if blockAlloc(next) {
		return nil, false
	}

	nextSize := blockSize(next)
	switch {
	case nextSize >= delta+minBlockSize:
		a.bins.delete(next)
		stamp(bp, asize, true)
		residue := nextBlockPtr(bp)
		stamp(residue, nextSize-delta, false)
		a.bins.insert(residue, nextSize-delta)
		a.coalesce(residue)
		return bp, true

	case nextSize >= delta:
		a.bins.delete(next)
		stamp(bp, csize+nextSize, true)
		return bp, true

	default:
		return nil, false
	}
}

func copyBytes(dst, src unsafe.Pointer, n uintptr) {
	if n == 0 {
		return
	}
	copy(unsafe.Slice((*byte)(dst), n), unsafe.Slice((*byte)(src), n))
}

// Reallocate is the []byte-façade over ReallocatePointer, analogous to
// the teacher's Realloc(b []byte, size int). b's capacity, not its
// length, determines the block being resized; the returned slice's
// length is exactly size with capacity equal to the new block's usable
// size.
func (a *Allocator) Reallocate(b []byte, size int) ([]byte, error) {
	if size < 0 {
		panic("heapalloc: invalid allocation size")
	}

	var bp unsafe.Pointer
	if cap(b) != 0 {
		b = b[:cap(b)]
		bp = unsafe.Pointer(&b[0])
	}

	newBp, err := a.ReallocatePointer(bp, uintptr(size))
	if err != nil {
		return nil, err
	}
	if newBp == nil {
		return nil, nil
	}

	usable := blockSize(newBp) - doubleWord
	return unsafe.Slice((*byte)(newBp), usable)[:size:usable], nil
}
