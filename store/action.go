//
// Tencent is pleased to support the open source community by making trpc-flux-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-flux-go is licensed under the Apache License Version 2.0.
//
//

package store

// Action describes an intended state change. Implementations are small
// immutable values that carry their own payload; they exist only for the
// duration of one Dispatch call and are never retained by the store.
//
// Each reducer domain defines a closed set of action types, so the reducer
// can match on the concrete type and reject everything else with
// ErrUnknownAction.
type Action interface {
	// Type returns the action's type tag, e.g. "added" or "sent_message".
	// Tags are used in error messages, logs and telemetry attributes.
	Type() string
}

// Reducer computes the next state from the current state and an action.
//
// Reducers must be pure: no I/O, no retained references, and no mutation
// of the state they receive. On failure they return a non-nil error; the
// returned state is ignored and the store leaves its state untouched.
type Reducer[S any] func(state S, action Action) (S, error)

// Cloneable is implemented by state types that can deep-copy themselves.
// When a store's state type implements it, GetState and notification
// snapshots are automatically cloned so callers cannot alias the store's
// internal value.
type Cloneable[S any] interface {
	// Clone returns a deep copy of the state.
	Clone() S
}
