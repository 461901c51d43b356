//
// Tencent is pleased to support the open source community by making trpc-flux-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-flux-go is licensed under the Apache License Version 2.0.
//
//

package store

import "context"

// Listener receives the new state after each successful dispatch. The
// context is the one passed to Dispatch. Listeners run synchronously on
// the dispatching goroutine and must not call Dispatch on the same store;
// doing so fails with ErrReentrantDispatch.
type Listener[S any] func(ctx context.Context, state S)

// UnsubscribeFunc removes the listener registered by the Subscribe call
// that returned it. It is idempotent. When called during a notification
// pass, removal takes effect for the next dispatch.
type UnsubscribeFunc func()

// Dispatcher is the write-side handle to a store. Components that only
// submit actions should depend on it instead of the full store.
type Dispatcher interface {
	// Dispatch applies action to the current state and notifies
	// subscribers with the result.
	Dispatch(ctx context.Context, action Action) error
}

// Source is the read-side handle to a store. Components that only observe
// state should depend on it instead of the full store.
type Source[S any] interface {
	// GetState returns the current state snapshot.
	GetState() S
	// Subscribe registers listener for successful dispatches.
	Subscribe(listener Listener[S]) (UnsubscribeFunc, error)
}

var (
	_ Dispatcher  = (*Store[int])(nil)
	_ Source[int] = (*Store[int])(nil)
)
