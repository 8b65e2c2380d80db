// Copyright 2024 The Heapalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heapalloc

import "testing"

// TestPackageLevelInitIsIdempotent exercises spec.md §6's package-level
// Init/Allocate/Free/Reallocate front: a repeated Init call succeeds,
// and the default Allocator then serves an allocate/grow/free round
// trip with its content preserved.
func TestPackageLevelInitIsIdempotent(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatal(err)
	}
	if err := Init(); err != nil {
		t.Fatalf("second Init call returned an error: %v", err)
	}

	b, err := Allocate(64)
	if err != nil {
		t.Fatal(err)
	}
	for i := range b {
		b[i] = byte(i)
	}

	grown, err := Reallocate(b, 128)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 64; i++ {
		if grown[i] != byte(i) {
			t.Fatalf("content mismatch at %d", i)
		}
	}

	Free(grown)
}
