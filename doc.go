// Copyright 2024 The Heapalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package heapalloc implements a single-agent dynamic storage allocator
// over one contiguous, monotonically-extending heap region.
//
// The heap is organized as an implicit chain of boundary-tagged blocks
// bracketed by a permanent prologue and epilogue sentinel, indexed by a
// bank of B=15 segregated free-list bins keyed by size class. Allocation
// is first-fit within and across bins; freeing coalesces with up to two
// neighbors; reallocation tries in-place grow/shrink before falling back
// to allocate+copy+free.
//
// The package has no internal synchronization: it is safe for use by a
// single goroutine at a time, exactly as a bare C malloc is safe for a
// single thread. Callers who share an *Allocator across goroutines must
// serialize access to it themselves, for example with a sync.Mutex
// wrapping every call.
//
// The heap grows by requesting byte ranges from a RegionProvider, an
// external collaborator abstracting a grow-only sbrk-like call. This
// package ships an OS-backed provider (reserveRegion, built on mmap/
// MapViewOfFile) and an in-process one (newSliceRegion) suited to tests
// and to constructing independent heaps against mock regions.
package heapalloc
