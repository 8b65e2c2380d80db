// Copyright 2024 The Heapalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heapalloc

import (
	"bytes"
	"testing"
)

func TestReallocSameSizeReturnsSamePointer(t *testing.T) {
	a := newTestAllocator(t)
	b, err := a.Allocate(64)
	if err != nil {
		t.Fatal(err)
	}
	for i := range b {
		b[i] = byte(i)
	}

	same, err := a.Reallocate(b, a.UsableSize(b))
	if err != nil {
		t.Fatal(err)
	}
	if &same[0] != &b[0] {
		t.Fatalf("Reallocate(p, size(p)) moved the block")
	}
	for i := range b {
		if same[i] != byte(i) {
			t.Fatalf("content mismatch at %d", i)
		}
	}
}

func TestReallocZeroActsAsFree(t *testing.T) {
	a := newTestAllocator(t)
	b, err := a.Allocate(64)
	if err != nil {
		t.Fatal(err)
	}

	r, err := a.Reallocate(b, 0)
	if err != nil || r != nil {
		t.Fatalf("Reallocate(p, 0) = %v, %v, want nil, nil", r, err)
	}
	if err := a.CheckHeap(false); err != nil {
		t.Fatal(err)
	}
}

func TestReallocNilActsAsAllocate(t *testing.T) {
	a := newTestAllocator(t)
	b, err := a.Reallocate(nil, 32)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 32 {
		t.Fatalf("len = %v, want 32", len(b))
	}
}

func TestReallocShrinkSplitsResidue(t *testing.T) {
	a := newTestAllocator(t)
	b, err := a.Allocate(512)
	if err != nil {
		t.Fatal(err)
	}
	copy(b, bytes.Repeat([]byte{0xAB}, len(b)))

	shrunk, err := a.Reallocate(b, 16)
	if err != nil {
		t.Fatal(err)
	}
	if &shrunk[0] != &b[0] {
		t.Fatal("shrink moved the block; expected in-place")
	}
	for _, v := range shrunk {
		if v != 0xAB {
			t.Fatal("shrink corrupted the retained prefix")
		}
	}
	if err := a.CheckHeap(false); err != nil {
		t.Fatal(err)
	}
}

func TestReallocGrowAbsorbsFreeSuccessor(t *testing.T) {
	a := newTestAllocator(t)

	b, err := a.Allocate(64)
	if err != nil {
		t.Fatal(err)
	}
	spacer, err := a.Allocate(256)
	if err != nil {
		t.Fatal(err)
	}
	a.Free(spacer) // frees the block immediately after b

	for i := range b {
		b[i] = byte(i)
	}

	grown, err := a.Reallocate(b, 128)
	if err != nil {
		t.Fatal(err)
	}
	if &grown[0] != &b[0] {
		t.Fatal("grow did not absorb the free successor in place")
	}
	for i := 0; i < 64; i++ {
		if grown[i] != byte(i) {
			t.Fatalf("content mismatch at %d", i)
		}
	}
	if err := a.CheckHeap(false); err != nil {
		t.Fatal(err)
	}
}

func TestReallocGrowFallsBackWhenSuccessorAllocated(t *testing.T) {
	a := newTestAllocator(t)

	b, err := a.Allocate(64)
	if err != nil {
		t.Fatal(err)
	}
	// Keep the successor allocated so there is nothing to absorb.
	if _, err := a.Allocate(64); err != nil {
		t.Fatal(err)
	}
	for i := range b {
		b[i] = byte(i + 1)
	}

	grown, err := a.Reallocate(b, 4096)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 64; i++ {
		if grown[i] != byte(i+1) {
			t.Fatalf("content mismatch at %d", i)
		}
	}
	if err := a.CheckHeap(false); err != nil {
		t.Fatal(err)
	}
}
