// Copyright 2024 The Heapalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heapalloc

import (
	"testing"
	"unsafe"
)

func TestPackUnpack(t *testing.T) {
	for _, tc := range []struct {
		size  uintptr
		alloc bool
	}{
		{32, false},
		{32, true},
		{4096, true},
		{0, true}, // epilogue
	} {
		w := pack(tc.size, tc.alloc)
		if got := unpackSize(w); got != tc.size {
			t.Fatalf("pack(%v,%v): size = %#x, want %#x", tc.size, tc.alloc, got, tc.size)
		}
		if got := unpackAlloc(w); got != tc.alloc {
			t.Fatalf("pack(%v,%v): alloc = %v, want %v", tc.size, tc.alloc, got, tc.alloc)
		}
	}
}

func TestStampAndNavigate(t *testing.T) {
	buf := make([]byte, 256)
	// bp starts one word in so header has room.
	base := unsafe.Pointer(&buf[0])
	bp := addPtr(base, WordSize)

	stamp(bp, 64, true)
	if got := blockSize(bp); got != 64 {
		t.Fatalf("blockSize = %#x, want 64", got)
	}
	if !blockAlloc(bp) {
		t.Fatal("blockAlloc = false, want true")
	}

	next := nextBlockPtr(bp)
	if got, want := uintptr(next), uintptr(bp)+64; got != want {
		t.Fatalf("nextBlockPtr = %#x, want %#x", got, want)
	}

	stamp(next, 48, false)
	if got := prevBlockPtr(next); got != bp {
		t.Fatalf("prevBlockPtr(next) = %p, want %p", got, bp)
	}
}

func TestRoundUp(t *testing.T) {
	for _, tc := range []struct{ n, m, want uintptr }{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{4104, 16, 4112},
	} {
		if got := roundUp(tc.n, tc.m); got != tc.want {
			t.Fatalf("roundUp(%v,%v) = %v, want %v", tc.n, tc.m, got, tc.want)
		}
	}
}
