// Copyright 2024 The Heapalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heapalloc

import "errors"

// ErrNotInitialized reports use of an allocator that was never
// initialized. No function in this package returns it: the
// package-level facade functions return the error from constructing
// the default Allocator instead.
var ErrNotInitialized = errors.New("heapalloc: allocator not initialized")

// errInvalidBlock marks a debug-mode assertion failure raised by
// CheckHeap; it is not returned by Allocate/Free/Reallocate themselves,
// since spec.md §7 leaves invalid-argument behavior undefined outside
// of an optional debug assertion.
var errInvalidBlock = errors.New("heapalloc: heap consistency check failed")
