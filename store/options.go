//
// Tencent is pleased to support the open source community by making trpc-flux-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-flux-go is licensed under the Apache License Version 2.0.
//
//

package store

const defaultName = "default"

// options holds the configuration options for a store.
type options struct {
	name string
	// cloner is stored untyped because options are shared across state
	// types; New asserts it to func(S) S and fails with ErrInvalidCloner
	// on mismatch.
	cloner any
}

func newOptions() *options {
	return &options{name: defaultName}
}

// Option is a function that configures a store.
type Option func(*options)

// WithName sets the store name used in error messages, logs and telemetry
// attributes. Defaults to "default".
func WithName(name string) Option {
	return func(opts *options) {
		if name != "" {
			opts.name = name
		}
	}
}

// WithCloner sets the snapshot copier for the store's state type. It
// overrides the Clone method picked up automatically when the state type
// implements Cloneable.
func WithCloner[S any](cloner func(S) S) Option {
	return func(opts *options) {
		opts.cloner = cloner
	}
}
