//
// Tencent is pleased to support the open source community by making trpc-flux-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-flux-go is licensed under the Apache License Version 2.0.
//
//

// Package messenger provides the contact draft reducer domain: a selected
// contact plus one draft message per contact. Switching contacts never
// loses the drafts of the others.
package messenger

import (
	"fmt"

	"trpc.group/trpc-go/trpc-flux-go/store"
)

// State holds the active contact and the draft text per contact id.
// SelectedID is always a key of Drafts.
type State struct {
	SelectedID int            `json:"selectedId"`
	Drafts     map[int]string `json:"drafts"`
}

// NewState returns a state selecting selectedID with an empty draft seeded
// for it and for every given contact id.
func NewState(selectedID int, contactIDs ...int) State {
	drafts := make(map[int]string, len(contactIDs)+1)
	for _, id := range contactIDs {
		drafts[id] = ""
	}
	drafts[selectedID] = ""
	return State{SelectedID: selectedID, Drafts: drafts}
}

// Clone returns a deep copy of the state, leaving past snapshots valid
// while the owning store moves on.
func (s State) Clone() State {
	out := State{SelectedID: s.SelectedID}
	if s.Drafts != nil {
		out.Drafts = make(map[int]string, len(s.Drafts))
		for id, draft := range s.Drafts {
			out.Drafts[id] = draft
		}
	}
	return out
}

// Draft returns the draft text of the selected contact.
func (s State) Draft() string {
	return s.Drafts[s.SelectedID]
}

// SelectionChanged makes the given contact the active one. Draft text is
// untouched; a contact id never seen before is seeded with an empty draft.
type SelectionChanged struct {
	ContactID int `json:"contactId"`
}

// Type implements store.Action.
func (SelectionChanged) Type() string { return "changed_selection" }

// MessageEdited replaces the draft of the selected contact. All other
// drafts are unchanged.
type MessageEdited struct {
	Message string `json:"message"`
}

// Type implements store.Action.
func (MessageEdited) Type() string { return "edited_message" }

// MessageSent clears the draft of the selected contact only.
type MessageSent struct{}

// Type implements store.Action.
func (MessageSent) Type() string { return "sent_message" }

var (
	_ store.Action         = SelectionChanged{}
	_ store.Action         = MessageEdited{}
	_ store.Action         = MessageSent{}
	_ store.Reducer[State] = Reduce
)

// Reduce applies a messenger action to the state and returns the next
// state. The input state is never mutated.
func Reduce(state State, action store.Action) (State, error) {
	switch a := action.(type) {
	case SelectionChanged:
		next := state.Clone()
		next.SelectedID = a.ContactID
		if next.Drafts == nil {
			next.Drafts = make(map[int]string, 1)
		}
		if _, ok := next.Drafts[a.ContactID]; !ok {
			next.Drafts[a.ContactID] = ""
		}
		return next, nil
	case MessageEdited:
		next := state.Clone()
		if next.Drafts == nil {
			next.Drafts = make(map[int]string, 1)
		}
		next.Drafts[next.SelectedID] = a.Message
		return next, nil
	case MessageSent:
		next := state.Clone()
		if next.Drafts == nil {
			next.Drafts = make(map[int]string, 1)
		}
		next.Drafts[next.SelectedID] = ""
		return next, nil
	default:
		return State{}, fmt.Errorf("action %q: %w", action.Type(), store.ErrUnknownAction)
	}
}
