//
// Tencent is pleased to support the open source community by making trpc-flux-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-flux-go is licensed under the Apache License Version 2.0.
//
//

package idgen

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence(t *testing.T) {
	seq := New(5)
	assert.Equal(t, 5, seq.Next())
	assert.Equal(t, 6, seq.Next())
	assert.Equal(t, 7, seq.Next())
}

func TestZeroValueStartsAtZero(t *testing.T) {
	var seq Sequence
	assert.Equal(t, 0, seq.Next())
	assert.Equal(t, 1, seq.Next())
}

// TestConcurrentNext allocates ids from many goroutines and checks they are
// all unique.
func TestConcurrentNext(t *testing.T) {
	const (
		goroutines = 8
		perG       = 200
	)

	seq := New(0)
	ids := make(chan int, goroutines*perG)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				ids <- seq.Next()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool, goroutines*perG)
	for id := range ids {
		require.False(t, seen[id], "id %d allocated twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, goroutines*perG)
}
