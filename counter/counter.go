//
// Tencent is pleased to support the open source community by making trpc-flux-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-flux-go is licensed under the Apache License Version 2.0.
//
//

// Package counter provides the counter reducer domain.
package counter

import (
	"fmt"

	"trpc.group/trpc-go/trpc-flux-go/store"
)

// State holds the counter value.
type State struct {
	Count int `json:"count"`
}

// Incremented increases the count by one.
type Incremented struct{}

// Type implements store.Action.
func (Incremented) Type() string { return "incremented" }

// Decremented decreases the count by one.
type Decremented struct{}

// Type implements store.Action.
func (Decremented) Type() string { return "decremented" }

// Set replaces the count with Value.
type Set struct {
	Value int `json:"value"`
}

// Type implements store.Action.
func (Set) Type() string { return "set" }

var (
	_ store.Action         = Incremented{}
	_ store.Action         = Decremented{}
	_ store.Action         = Set{}
	_ store.Reducer[State] = Reduce
)

// Reduce applies a counter action to the state and returns the next state.
func Reduce(state State, action store.Action) (State, error) {
	switch a := action.(type) {
	case Incremented:
		return State{Count: state.Count + 1}, nil
	case Decremented:
		return State{Count: state.Count - 1}, nil
	case Set:
		return State{Count: a.Value}, nil
	default:
		return State{}, fmt.Errorf("action %q: %w", action.Type(), store.ErrUnknownAction)
	}
}
