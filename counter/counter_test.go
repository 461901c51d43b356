//
// Tencent is pleased to support the open source community by making trpc-flux-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-flux-go is licensed under the Apache License Version 2.0.
//
//

package counter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-flux-go/store"
)

type bogusAction struct{}

func (bogusAction) Type() string { return "bogus" }

// TestCounterRoundTrip increments three times and decrements once.
func TestCounterRoundTrip(t *testing.T) {
	state := State{}
	var err error

	for i := 0; i < 3; i++ {
		state, err = Reduce(state, Incremented{})
		require.NoError(t, err)
	}
	state, err = Reduce(state, Decremented{})
	require.NoError(t, err)

	assert.Equal(t, State{Count: 2}, state)
}

func TestReduceSet(t *testing.T) {
	state, err := Reduce(State{Count: 40}, Set{Value: -3})
	require.NoError(t, err)
	assert.Equal(t, State{Count: -3}, state)
}

func TestReduceUnknownAction(t *testing.T) {
	_, err := Reduce(State{Count: 1}, bogusAction{})
	require.ErrorIs(t, err, store.ErrUnknownAction)
}

func TestActionTypes(t *testing.T) {
	assert.Equal(t, "incremented", Incremented{}.Type())
	assert.Equal(t, "decremented", Decremented{}.Type())
	assert.Equal(t, "set", Set{}.Type())
}
