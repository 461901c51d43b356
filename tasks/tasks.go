//
// Tencent is pleased to support the open source community by making trpc-flux-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-flux-go is licensed under the Apache License Version 2.0.
//
//

// Package tasks provides the task list reducer domain: an ordered sequence
// of tasks and the actions that add, change and delete them.
package tasks

import (
	"fmt"

	"trpc.group/trpc-go/trpc-flux-go/store"
)

// Task is one entry of the task list.
type Task struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// List is the task list state: an ordered sequence of tasks with unique ids.
// Ids are assigned by the caller, typically from an idgen.Sequence.
type List []Task

// Clone returns a copy of the list, leaving past snapshots valid while the
// owning store moves on.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}

// index returns the position of the task with the given id, or -1.
func (l List) index(id int) int {
	for i, t := range l {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Added appends a new task with the given id and text. The task starts not
// done. Adding an id that is already present fails with ErrDuplicateID.
type Added struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Type implements store.Action.
func (Added) Type() string { return "added" }

// Changed replaces the task whose id matches Task.ID verbatim. Order is
// preserved. When no task has that id the list is returned unchanged.
type Changed struct {
	Task Task `json:"task"`
}

// Type implements store.Action.
func (Changed) Type() string { return "changed" }

// Deleted removes the task with the given id. When no task has that id the
// list is returned unchanged.
type Deleted struct {
	ID int `json:"id"`
}

// Type implements store.Action.
func (Deleted) Type() string { return "deleted" }

var (
	_ store.Action        = Added{}
	_ store.Action        = Changed{}
	_ store.Action        = Deleted{}
	_ store.Reducer[List] = Reduce
)

// Reduce applies a task action to the list and returns the next list. The
// input list is never mutated.
func Reduce(state List, action store.Action) (List, error) {
	switch a := action.(type) {
	case Added:
		if state.index(a.ID) >= 0 {
			return nil, fmt.Errorf("task %d: %w", a.ID, store.ErrDuplicateID)
		}
		next := make(List, len(state), len(state)+1)
		copy(next, state)
		return append(next, Task{ID: a.ID, Text: a.Text}), nil
	case Changed:
		i := state.index(a.Task.ID)
		if i < 0 {
			return state, nil
		}
		next := state.Clone()
		next[i] = a.Task
		return next, nil
	case Deleted:
		i := state.index(a.ID)
		if i < 0 {
			return state, nil
		}
		next := make(List, 0, len(state)-1)
		next = append(next, state[:i]...)
		next = append(next, state[i+1:]...)
		return next, nil
	default:
		return nil, fmt.Errorf("action %q: %w", action.Type(), store.ErrUnknownAction)
	}
}
