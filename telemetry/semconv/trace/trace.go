//
// Tencent is pleased to support the open source community by making trpc-flux-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-flux-go is licensed under the Apache License Version 2.0.
//
//

// Package trace defines span attribute name constants for trpc-flux-go
// telemetry.
package trace

// Telemetry attribute constants.
var (
	ResourceServiceNamespace = "trpc-go-flux"
	ResourceServiceName      = "telemetry"
	ResourceServiceVersion   = "v0.1.0"

	// Store-related attributes.
	KeyStoreName    = "trpc.go.flux.store.name"
	KeyStoreID      = "trpc.go.flux.store.id"
	KeyStateVersion = "trpc.go.flux.state.version"

	// Dispatch-related attributes.
	KeyOperationName = "trpc.go.flux.operation.name"
	KeyDispatchID    = "trpc.go.flux.dispatch.id"
	KeyActionType    = "trpc.go.flux.action.type"

	// https://github.com/open-telemetry/semantic-conventions/blob/main/docs/general/recording-errors.md#recording-errors-on-spans
	KeyErrorType          = "error.type"
	KeyErrorMessage       = "error.message"
	ValueDefaultErrorType = "_OTHER"

	// System value.
	SystemTRPCGoFlux = "trpc.go.flux"
)
