// Copyright 2024 The Heapalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heapalloc

import (
	"fmt"
	"os"
)

// Logger is the minimal leveled-logging surface the allocator calls
// into when tracing is enabled. It generalizes the teacher's
// package-level `trace bool` switch (memory.go) into something callers
// can redirect or silence per Allocator instance.
type Logger interface {
	Tracef(format string, args ...interface{})
}

// nopLogger discards everything; it is the default, matching the
// teacher's trace=false build in release mode.
type nopLogger struct{}

func (nopLogger) Tracef(string, ...interface{}) {}

// stderrLogger writes trace lines to os.Stderr, in the same shape the
// teacher's Fprintf(os.Stderr, ...) calls used.
type stderrLogger struct{}

func (stderrLogger) Tracef(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "heapalloc: "+format+"\n", args...)
}
