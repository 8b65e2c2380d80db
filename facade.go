// Copyright 2024 The Heapalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heapalloc

import "sync"

var (
	defaultOnce  sync.Once
	defaultAlloc *Allocator
	defaultErr   error
)

// defaultAllocator lazily constructs the package-level default
// Allocator, encapsulating what was process-wide global state in the
// original C allocator (Design Note §9) behind a single instance that
// the package-level functions below front.
func defaultAllocator() (*Allocator, error) {
	defaultOnce.Do(func() {
		defaultAlloc, defaultErr = NewAllocator()
	})
	return defaultAlloc, defaultErr
}

// Init establishes the default Allocator, corresponding to spec.md §6's
// init(). It is idempotent: subsequent calls are no-ops that return the
// outcome of the first call. Using the package-level Allocate/Free/
// Reallocate functions without calling Init first initializes the
// default Allocator implicitly, on first use.
func Init() error {
	_, err := defaultAllocator()
	return err
}

// Allocate calls Allocate on the default Allocator.
func Allocate(size int) ([]byte, error) {
	a, err := defaultAllocator()
	if err != nil {
		return nil, err
	}
	return a.Allocate(size)
}

// Free calls Free on the default Allocator.
func Free(b []byte) {
	a, err := defaultAllocator()
	if err != nil {
		return
	}
	a.Free(b)
}

// Reallocate calls Reallocate on the default Allocator.
func Reallocate(b []byte, size int) ([]byte, error) {
	a, err := defaultAllocator()
	if err != nil {
		return nil, err
	}
	return a.Reallocate(b, size)
}
