//
// Tencent is pleased to support the open source community by making trpc-flux-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-flux-go is licensed under the Apache License Version 2.0.
//
//

// Package telemetry provides telemetry and observability functionality for the trpc-flux-go library.
// It includes tracing and metrics capabilities for store operations.
package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	semconvtrace "trpc.group/trpc-go/trpc-flux-go/telemetry/semconv/trace"
)

// grpcDial is a package-level variable to allow test injection of a custom
// dialer. In production, this points to grpc.Dial.
var grpcDial = grpc.Dial

// telemetry service constants.
const (
	ServiceName      = "telemetry"
	ServiceVersion   = "v0.1.0"
	ServiceNamespace = "trpc-go-flux"
	InstrumentName   = "trpc.flux.go"

	OperationDispatch = "dispatch"
)

const (
	// ProtocolGRPC uses gRPC protocol for OTLP exporter.
	ProtocolGRPC string = "grpc"
	// ProtocolHTTP uses HTTP protocol for OTLP exporter.
	ProtocolHTTP string = "http"
)

// NewDispatchSpanName creates a dispatch span name, e.g. "dispatch tasks".
func NewDispatchSpanName(storeName string) string {
	if storeName == "" {
		return OperationDispatch
	}
	return fmt.Sprintf("%s %s", OperationDispatch, storeName)
}

// Telemetry attribute keys aliases from the semconv package.
var (
	ResourceServiceNamespace = semconvtrace.ResourceServiceNamespace
	ResourceServiceName      = semconvtrace.ResourceServiceName
	ResourceServiceVersion   = semconvtrace.ResourceServiceVersion

	KeyStoreName    = semconvtrace.KeyStoreName
	KeyStoreID      = semconvtrace.KeyStoreID
	KeyStateVersion = semconvtrace.KeyStateVersion

	KeyOperationName = semconvtrace.KeyOperationName
	KeyDispatchID    = semconvtrace.KeyDispatchID
	KeyActionType    = semconvtrace.KeyActionType

	KeyErrorType          = semconvtrace.KeyErrorType
	KeyErrorMessage       = semconvtrace.KeyErrorMessage
	ValueDefaultErrorType = semconvtrace.ValueDefaultErrorType

	SystemTRPCGoFlux = semconvtrace.SystemTRPCGoFlux
)

// TraceDispatch records the attributes of one dispatch attempt on span.
// version is the state version after the dispatch (unchanged on failure).
func TraceDispatch(span trace.Span, storeName, storeID, actionType, dispatchID string, version int64, err error) {
	span.SetAttributes(
		attribute.String(KeyOperationName, OperationDispatch),
		attribute.String(KeyStoreName, storeName),
		attribute.String(KeyStoreID, storeID),
		attribute.String(KeyActionType, actionType),
		attribute.String(KeyDispatchID, dispatchID),
		attribute.Int64(KeyStateVersion, version),
	)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(
			attribute.String(KeyErrorType, ValueDefaultErrorType),
			attribute.String(KeyErrorMessage, err.Error()),
		)
	}
}

// NewGRPCConn creates a new gRPC connection to the OpenTelemetry Collector.
func NewGRPCConn(endpoint string) (*grpc.ClientConn, error) {
	// It connects the OpenTelemetry Collector through gRPC connection.
	// You can customize the endpoint using options or environment variables.
	conn, err := grpcDial(endpoint,
		// Note the use of insecure transport here. TLS is recommended in production.
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to collector: %w", err)
	}

	return conn, err
}
