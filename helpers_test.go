// Copyright 2024 The Heapalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heapalloc

import "unsafe"

// headerAddrTestHelper returns the payload pointer backing a []byte
// returned by Allocate, for tests that need to manipulate block tags
// directly to exercise CheckHeap's failure paths.
func headerAddrTestHelper(b []byte) unsafe.Pointer {
	b = b[:cap(b)]
	return unsafe.Pointer(&b[0])
}
