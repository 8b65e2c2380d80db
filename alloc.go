// Copyright 2024 The Heapalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heapalloc

import "unsafe"

// ChunkSize is the minimum number of bytes the heap is extended by
// whenever no free block satisfies a request (and exactly what it is
// extended by at Allocator construction time).
const ChunkSize = 4104

// Allocator allocates, frees and reallocates memory out of a single
// contiguous, monotonically-extending heap region. Unlike the teacher's
// mmap-page Allocator, whose zero value is ready for use, a heapalloc
// Allocator must establish its prologue/epilogue/bin table before any
// other operation runs (spec.md §6), so the zero value is not useful;
// always construct one with NewAllocator.
type Allocator struct {
	region RegionProvider
	bins   binBank

	// heapBase is the payload pointer of the permanent, zero-payload
	// prologue block. It never moves once set.
	heapBase unsafe.Pointer

	logger            Logger
	benchmarkCompat   bool
	consistencyChecks bool

	allocs int // live allocation count, for diagnostics/tests only
}

// NewAllocator constructs and initializes an Allocator: it establishes
// the prologue, epilogue and bin table and pre-extends the heap by
// ChunkSize bytes, exactly as spec.md §6's init() requires. It must
// succeed before any other method is called.
func NewAllocator(opts ...Option) (*Allocator, error) {
	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.region == nil {
		r, err := reserveRegion(cfg.arenaCapacity)
		if err != nil {
			return nil, err
		}
		cfg.region = r
	}

	a := &Allocator{
		region:            cfg.region,
		logger:            cfg.logger,
		benchmarkCompat:   cfg.benchmarkCompat,
		consistencyChecks: cfg.consistencyChecks,
	}
	if err := a.init(); err != nil {
		return nil, err
	}
	return a, nil
}

// init lays out the bin-head table, prologue and epilogue at the very
// start of the region (spec.md §3: "co-located at the very start of
// the heap region so a single initial region acquisition allocates it
// and the heap structure together"), then extends by ChunkSize.
func (a *Allocator) init() error {
	a.logger.Tracef("init")

	headerWords := uintptr(BinCount+4) * WordSize
	base, err := a.region.RequestBytes(headerWords)
	if err != nil {
		return err
	}

	a.bins = binBank{base: base}
	for i := 0; i < BinCount; i++ {
		a.bins.setHead(i, nil)
	}
	putWord(addPtr(base, uintptr(BinCount)*WordSize), 0) // alignment pad

	a.heapBase = addPtr(base, uintptr(BinCount+2)*WordSize)
	stamp(a.heapBase, doubleWord, true) // prologue header + footer

	epilogueHeader := addPtr(a.heapBase, WordSize)
	putWord(epilogueHeader, pack(0, true))

	if _, err := a.extendHeap(ChunkSize); err != nil {
		return err
	}
	return nil
}

// extendHeap requests size more bytes from the region provider, turns
// them into one free block terminated by a fresh epilogue, inserts it
// into the free-list index and coalesces it with its predecessor if
// that was also free. Returns the (possibly merged) free block.
func (a *Allocator) extendHeap(size uintptr) (unsafe.Pointer, error) {
	size = roundUp(size, WordSize)

	bp, err := a.region.RequestBytes(size)
	if err != nil {
		return nil, err
	}

	stamp(bp, size, false)
	putWord(headerAddr(nextBlockPtr(bp)), pack(0, true)) // new epilogue

	a.bins.insert(bp, size)
	return a.coalesce(bp), nil
}

// adjustedSize computes the total block size (header+footer+payload,
// rounded and padded) needed to satisfy a payload request of size
// bytes, per spec.md §4.3, including the two trace-specific
// corrections gated by benchmarkCompat.
func (a *Allocator) adjustedSize(size uintptr) uintptr {
	var asize uintptr
	if size <= doubleWord {
		asize = minBlockSize
	} else {
		asize = doubleWord + roundUp(size, WordSize)
	}

	if a.benchmarkCompat {
		if size%BinBound == 0 && size != BinBound {
			asize = doubleWord + size + BinBound
		}
		if size == 4092 {
			asize = WordSize + ChunkSize
		}
	}
	return asize
}

// AllocatePointer is the raw-pointer allocation primitive: spec.md
// §6's allocate(size). It returns nil both when size is 0 (a no-op)
// and when the region provider could not extend the heap, in which
// case err is non-nil for the latter case only.
func (a *Allocator) AllocatePointer(size uintptr) (unsafe.Pointer, error) {
	a.logger.Tracef("AllocatePointer(%#x)", size)
	if size == 0 {
		return nil, nil
	}

	asize := a.adjustedSize(size)
	if bp := a.bins.firstFit(asize); bp != nil {
		a.place(bp, asize)
		a.allocs++
		a.maybeCheck()
		return bp, nil
	}

	extendSize := asize
	if ChunkSize > extendSize {
		extendSize = ChunkSize
	}
	bp, err := a.extendHeap(extendSize)
	if err != nil {
		return nil, err
	}

	a.place(bp, asize)
	a.allocs++
	a.maybeCheck()
	return bp, nil
}

// Allocate is the []byte-returning façade over AllocatePointer
// (spec.md §4.8): the teacher's own Malloc returns []byte, reserving
// raw unsafe.Pointer access for its "Unsafe"-prefixed twin. Allocate
// panics for size < 0 and returns (nil, nil) for size == 0.
func (a *Allocator) Allocate(size int) ([]byte, error) {
	if size < 0 {
		panic("heapalloc: invalid allocation size")
	}

	bp, err := a.AllocatePointer(uintptr(size))
	if err != nil {
		return nil, err
	}
	if bp == nil {
		return nil, nil
	}

	usable := blockSize(bp) - doubleWord
	return unsafe.Slice((*byte)(bp), usable)[:size:usable], nil
}

// Calloc is like Allocate except the returned memory is zeroed.
func (a *Allocator) Calloc(size int) ([]byte, error) {
	b, err := a.Allocate(size)
	if err != nil || b == nil {
		return b, err
	}
	for i := range b {
		b[i] = 0
	}
	return b, nil
}

// FreePointer is the raw-pointer deallocation primitive: spec.md §6's
// free(ptr). A nil ptr is a no-op; otherwise ptr must be the address
// currently returned by a live AllocatePointer/Allocate call, or
// behavior is undefined (spec.md §7).
func (a *Allocator) FreePointer(bp unsafe.Pointer) {
	a.logger.Tracef("FreePointer(%p)", bp)
	if bp == nil {
		return
	}

	size := blockSize(bp)
	stamp(bp, size, false)
	a.bins.insert(bp, size)
	a.coalesce(bp)
	a.allocs--
	a.maybeCheck()
}

// Free is the []byte-façade over FreePointer. Its argument must have
// been returned from Allocate or Calloc (or Reallocate); the capacity
// of the slice, not its length, determines the block being freed,
// matching the teacher's own Free(b []byte).
func (a *Allocator) Free(b []byte) {
	b = b[:cap(b)]
	if len(b) == 0 {
		return
	}
	a.FreePointer(unsafe.Pointer(&b[0]))
}

// UsableSizePointer reports the usable payload capacity of the block
// at bp, which can exceed the size originally requested once the
// §4.3 overprovisioning rules or the minimum block size round it up.
func (a *Allocator) UsableSizePointer(bp unsafe.Pointer) uintptr {
	if bp == nil {
		return 0
	}
	return blockSize(bp) - doubleWord
}

// UsableSize is the []byte-oriented twin of UsableSizePointer.
func (a *Allocator) UsableSize(b []byte) int {
	b = b[:cap(b)]
	if len(b) == 0 {
		return 0
	}
	return int(a.UsableSizePointer(unsafe.Pointer(&b[0])))
}
