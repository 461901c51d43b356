//
// Tencent is pleased to support the open source community by making trpc-flux-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-flux-go is licensed under the Apache License Version 2.0.
//
//

// Package history provides an in-memory recorder of store state snapshots.
// A Recorder subscribes to a store and keeps one entry per successful
// dispatch, in order. Entries stay valid as the store moves on because
// reducers never mutate prior state.
package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-flux-go/store"
)

// ErrNilSource is returned by NewRecorder when the source is nil.
var ErrNilSource = errors.New("source is nil")

// Entry is one recorded state snapshot.
type Entry[S any] struct {
	ID    string    `json:"id"`
	Index int64     `json:"index"`
	Time  time.Time `json:"time"`
	State S         `json:"state"`
}

// Option configures a Recorder.
type Option func(*options)

type options struct {
	limit int
}

// WithLimit keeps only the most recent n entries. Zero or negative means
// unlimited.
func WithLimit(n int) Option {
	return func(opts *options) {
		opts.limit = n
	}
}

// Recorder records the states published by a store, newest last.
type Recorder[S any] struct {
	mu        sync.RWMutex
	entries   []Entry[S]
	nextIndex int64
	limit     int

	unsubscribe store.UnsubscribeFunc
	stopOnce    sync.Once
}

// NewRecorder subscribes to src and starts recording.
func NewRecorder[S any](src store.Source[S], opt ...Option) (*Recorder[S], error) {
	if src == nil {
		return nil, fmt.Errorf("history: %w", ErrNilSource)
	}
	opts := &options{}
	for _, o := range opt {
		o(opts)
	}
	r := &Recorder[S]{limit: opts.limit}
	unsubscribe, err := src.Subscribe(r.record)
	if err != nil {
		return nil, fmt.Errorf("history: subscribe: %w", err)
	}
	r.unsubscribe = unsubscribe
	return r, nil
}

// record runs inside the store's notification pass.
func (r *Recorder[S]) record(_ context.Context, state S) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry[S]{
		ID:    uuid.New().String(),
		Index: r.nextIndex,
		Time:  time.Now(),
		State: state,
	})
	r.nextIndex++
	if r.limit > 0 && len(r.entries) > r.limit {
		r.entries = append(r.entries[:0], r.entries[len(r.entries)-r.limit:]...)
	}
}

// Entries returns a copy of the recorded entries in record order.
func (r *Recorder[S]) Entries() []Entry[S] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry[S], len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of recorded entries.
func (r *Recorder[S]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Latest returns the most recent entry, or false when nothing has been
// recorded yet.
func (r *Recorder[S]) Latest() (Entry[S], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.entries) == 0 {
		var zero Entry[S]
		return zero, false
	}
	return r.entries[len(r.entries)-1], true
}

// Stop detaches the recorder from the store. Stop is idempotent; recorded
// entries remain readable afterwards.
func (r *Recorder[S]) Stop() {
	r.stopOnce.Do(func() {
		if r.unsubscribe != nil {
			r.unsubscribe()
		}
	})
}
