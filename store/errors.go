//
// Tencent is pleased to support the open source community by making trpc-flux-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-flux-go is licensed under the Apache License Version 2.0.
//
//

package store

import "errors"

// Sentinel errors surfaced by Dispatch and the bundled reducers.
// Reducer failures are wrapped with the store name and action type;
// match them with errors.Is.
var (
	// ErrUnknownAction indicates the action type is not recognized by the
	// reducer the store was constructed with.
	ErrUnknownAction = errors.New("unknown action")

	// ErrDuplicateID indicates an add-style action carried an id that is
	// already present in the state.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrReentrantDispatch indicates Dispatch was called again from within
	// a reducer or a notification callback of the same store.
	ErrReentrantDispatch = errors.New("reentrant dispatch")

	// ErrNilReducer indicates New was called without a reducer.
	ErrNilReducer = errors.New("reducer is nil")

	// ErrNilAction indicates Dispatch was called with a nil action.
	ErrNilAction = errors.New("action is nil")

	// ErrNilListener indicates Subscribe was called with a nil listener.
	ErrNilListener = errors.New("listener is nil")

	// ErrInvalidCloner indicates WithCloner was given a function whose
	// signature does not match the store's state type.
	ErrInvalidCloner = errors.New("cloner type mismatch")
)
