// Copyright 2024 The Heapalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heapalloc

import "unsafe"

// BinCount is the number of segregated free-list bins (B in spec.md §3).
const BinCount = 15

// BinBound is the size, in bytes, of the largest request mapped to bin
// 0; each subsequent bin doubles the range it covers.
const BinBound = 128

// freeLink is the shape of the two link words overlaid on the first two
// payload words of a free block. These bytes are undefined once the
// block is allocated, mirroring the teacher's intrusive *node threaded
// directly through mmapped payload memory.
type freeLink struct {
	next unsafe.Pointer
	prev unsafe.Pointer
}

func linkOf(bp unsafe.Pointer) *freeLink { return (*freeLink)(bp) }

// binIndex maps a block size to its bin, per spec.md §4.2: sizes <=
// BinBound land in bin 0, and bin i holds the sizes that need i integer
// halvings to drop to BinBound or below (bin 1 is 129..257, bin 2 is
// 258..515, and so on), so each following bin roughly doubles the
// covered range. Anything left over after BinCount-1 halvings lands in
// the final bin.
func binIndex(size uintptr) int {
	count := size
	for i := 0; i < BinCount; i++ {
		if count <= BinBound || i == BinCount-1 {
			return i
		}
		count >>= 1
	}
	return BinCount - 1
}

// binBank is the free-list index: B doubly-linked bin heads stored as
// raw heap addresses (0 meaning empty), co-located at the very start of
// the managed heap region per spec.md §3.
type binBank struct {
	base unsafe.Pointer // address of bin head slot 0
}

func (b binBank) slot(i int) unsafe.Pointer {
	return addPtr(b.base, uintptr(i)*WordSize)
}

func (b binBank) head(i int) unsafe.Pointer {
	return unsafe.Pointer(getWord(b.slot(i)))
}

func (b binBank) setHead(i int, bp unsafe.Pointer) {
	putWord(b.slot(i), uintptr(bp))
}

// insert adds bp, a free block of the given size, at the head of its
// bin (LIFO discipline per spec.md §4.2).
func (b binBank) insert(bp unsafe.Pointer, size uintptr) {
	idx := binIndex(size)
	head := b.head(idx)
	n := linkOf(bp)
	n.prev = nil
	n.next = head
	if head != nil {
		linkOf(head).prev = bp
	}
	b.setHead(idx, bp)
}

// delete splices bp out of whichever bin it currently occupies. O(1):
// it patches the adjacent nodes' links directly without walking the
// bin.
func (b binBank) delete(bp unsafe.Pointer) {
	idx := binIndex(blockSize(bp))
	n := linkOf(bp)
	switch {
	case n.prev == nil && n.next == nil:
		b.setHead(idx, nil)
	case n.prev == nil:
		linkOf(n.next).prev = nil
		b.setHead(idx, n.next)
	case n.next == nil:
		linkOf(n.prev).next = nil
	default:
		linkOf(n.prev).next = n.next
		linkOf(n.next).prev = n.prev
	}
}

// firstFit walks bins from binIndex(size) upward, returning the first
// free block whose size is at least size, or nil if none qualifies.
// Traversal within a bin is newest-first (LIFO insertion order).
func (b binBank) firstFit(size uintptr) unsafe.Pointer {
	for i := binIndex(size); i < BinCount; i++ {
		for bp := b.head(i); bp != nil; bp = linkOf(bp).next {
			if blockSize(bp) >= size {
				return bp
			}
		}
	}
	return nil
}
