//
// Tencent is pleased to support the open source community by making trpc-flux-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-flux-go is licensed under the Apache License Version 2.0.
//
//

// Package idgen provides a monotonic integer id allocator. Id assignment
// lives outside the reducers: the caller allocates an id first, then
// dispatches the action carrying it.
package idgen

import "sync/atomic"

// Sequence hands out unique, strictly increasing integer ids. Safe for
// concurrent use. The zero value starts at 0.
type Sequence struct {
	next atomic.Int64
}

// New returns a Sequence whose first Next call returns start.
func New(start int) *Sequence {
	s := &Sequence{}
	s.next.Store(int64(start))
	return s
}

// Next returns the next id in the sequence.
func (s *Sequence) Next() int {
	return int(s.next.Add(1)) - 1
}
