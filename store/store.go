//
// Tencent is pleased to support the open source community by making trpc-flux-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-flux-go is licensed under the Apache License Version 2.0.
//
//

// Package store provides a reducer-driven state container.
//
// A Store owns a single typed state value. Callers submit Action values
// through Dispatch; the store applies the pure reducer it was constructed
// with, replaces its state with the result, and synchronously notifies
// subscribers with the new value before Dispatch returns. Reducer failures
// leave the state untouched and surface to the Dispatch caller, so the
// store is always at its last-known-good state.
//
// Stores are safe for concurrent use: dispatches from multiple goroutines
// are serialized, and reads never observe a half-applied transition.
package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/petermattis/goid"

	itelemetry "trpc.group/trpc-go/trpc-flux-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-flux-go/log"
	"trpc.group/trpc-go/trpc-flux-go/telemetry/trace"
)

// Store owns a state value of type S and mediates all reads, writes and
// notifications for it. Use New to construct one.
type Store[S any] struct {
	name    string
	id      string
	reducer Reducer[S]
	cloner  func(S) S

	// dispatchMu serializes whole dispatches: reducer application, state
	// replacement and subscriber notification complete atomically before
	// the next action is applied.
	dispatchMu sync.Mutex
	// dispatching holds the goroutine id of the in-flight dispatch, zero
	// when idle. A Dispatch call that finds its own goroutine id here is
	// reentrant and fails fast instead of deadlocking on dispatchMu.
	dispatching atomic.Int64

	// stateMu guards state and version separately from dispatchMu so that
	// GetState and Version stay callable from notification callbacks.
	stateMu sync.RWMutex
	state   S
	version int64

	subMu     sync.RWMutex
	subs      []*subscription[S]
	nextSubID int64
}

type subscription[S any] struct {
	id       int64
	listener Listener[S]
}

// New creates a store holding initial and applying actions with reducer.
func New[S any](initial S, reducer Reducer[S], opt ...Option) (*Store[S], error) {
	if reducer == nil {
		return nil, ErrNilReducer
	}
	opts := newOptions()
	for _, o := range opt {
		o(opts)
	}
	s := &Store[S]{
		name:    opts.name,
		id:      uuid.New().String(),
		reducer: reducer,
		state:   initial,
	}
	switch cloner := opts.cloner.(type) {
	case nil:
		if _, ok := any(initial).(Cloneable[S]); ok {
			s.cloner = func(state S) S {
				return any(state).(Cloneable[S]).Clone()
			}
		}
	case func(S) S:
		s.cloner = cloner
	default:
		return nil, fmt.Errorf("store %s: %w: got %T", opts.name, ErrInvalidCloner, opts.cloner)
	}
	return s, nil
}

// MustNew is like New but panics on error. It simplifies package-level
// store construction in programs where a bad reducer is unrecoverable.
func MustNew[S any](initial S, reducer Reducer[S], opt ...Option) *Store[S] {
	s, err := New(initial, reducer, opt...)
	if err != nil {
		panic(fmt.Sprintf("store: MustNew: %v", err))
	}
	return s
}

// Name returns the store name configured with WithName.
func (s *Store[S]) Name() string {
	return s.name
}

// Dispatch applies action to the current state through the store's
// reducer. On success it replaces the state, increments the version and
// synchronously notifies subscribers in registration order with the new
// state before returning. Every successful dispatch produces exactly one
// notification, even when the new state is structurally equal to the old
// one.
//
// On reducer failure the state is left unchanged and the wrapped error is
// returned; the store stays usable. Concurrent callers are serialized.
// Calling Dispatch from a reducer or a listener of the same store fails
// with ErrReentrantDispatch.
func (s *Store[S]) Dispatch(ctx context.Context, action Action) error {
	if action == nil {
		return fmt.Errorf("store %s: %w", s.name, ErrNilAction)
	}
	gid := goid.Get()
	if s.dispatching.Load() == gid {
		return fmt.Errorf("store %s: action %q: %w", s.name, action.Type(), ErrReentrantDispatch)
	}
	s.dispatchMu.Lock()
	s.dispatching.Store(gid)
	defer func() {
		s.dispatching.Store(0)
		s.dispatchMu.Unlock()
	}()

	dispatchID := uuid.New().String()
	ctx, span := trace.Tracer.Start(ctx, itelemetry.NewDispatchSpanName(s.name))
	defer span.End()

	start := time.Now()
	next, err := s.reducer(s.state, action)
	if err != nil {
		err = fmt.Errorf("store %s: %w", s.name, err)
		itelemetry.TraceDispatch(span, s.name, s.id, action.Type(), dispatchID, s.Version(), err)
		itelemetry.IncDispatchCnt(ctx, s.name, action.Type(), err)
		return err
	}

	s.stateMu.Lock()
	s.state = next
	s.version++
	version := s.version
	s.stateMu.Unlock()

	subs := s.listeners()
	snapshot := s.clone(next)
	for _, sub := range subs {
		sub.listener(ctx, snapshot)
	}

	itelemetry.TraceDispatch(span, s.name, s.id, action.Type(), dispatchID, version, nil)
	itelemetry.IncDispatchCnt(ctx, s.name, action.Type(), nil)
	itelemetry.AddNotifyCnt(ctx, s.name, int64(len(subs)))
	itelemetry.RecordDispatchDuration(ctx, s.name, action.Type(), time.Since(start))
	log.Debugf("store %s: dispatched %q, version %d, notified %d listener(s)",
		s.name, action.Type(), version, len(subs))
	return nil
}

// Subscribe registers listener to be invoked on every successful dispatch.
// Listeners are notified in registration order. The returned function
// removes the listener; subscription changes made during a notification
// pass take effect for the next dispatch.
func (s *Store[S]) Subscribe(listener Listener[S]) (UnsubscribeFunc, error) {
	if listener == nil {
		return nil, fmt.Errorf("store %s: %w", s.name, ErrNilListener)
	}
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.nextSubID++
	sub := &subscription[S]{id: s.nextSubID, listener: listener}
	s.subs = append(s.subs, sub)
	id := sub.id
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, cur := range s.subs {
			if cur.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}, nil
}

// GetState returns the current state snapshot. The snapshot is a deep copy
// when the state type implements Cloneable or a cloner was configured;
// callers must treat it as read-only either way. Safe to call from
// listeners.
func (s *Store[S]) GetState() S {
	s.stateMu.RLock()
	state := s.state
	s.stateMu.RUnlock()
	return s.clone(state)
}

// Version returns the number of successful dispatches applied since
// construction.
func (s *Store[S]) Version() int64 {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.version
}

// listeners returns a snapshot of the subscription list so a notification
// pass is not affected by concurrent subscribe/unsubscribe calls.
func (s *Store[S]) listeners() []*subscription[S] {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	subs := make([]*subscription[S], len(s.subs))
	copy(subs, s.subs)
	return subs
}

func (s *Store[S]) clone(state S) S {
	if s.cloner == nil {
		return state
	}
	return s.cloner(state)
}
