//
// Tencent is pleased to support the open source community by making trpc-flux-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-flux-go is licensed under the Apache License Version 2.0.
//
//

package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

func TestTracesEndpointPrecedence(t *testing.T) {
	const (
		specificEndpoint = "traces-collector:4317"
		genericEndpoint  = "generic-collector:4317"
	)

	// Specific variable wins over generic.
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", specificEndpoint)
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", genericEndpoint)
	require.Equal(t, specificEndpoint, tracesEndpoint("grpc"))

	// Fallback to generic when specific is empty.
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	require.Equal(t, genericEndpoint, tracesEndpoint("grpc"))

	// Defaults when none set, keyed by protocol.
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	require.Equal(t, "localhost:4317", tracesEndpoint("grpc"))
	require.Equal(t, "localhost:4318", tracesEndpoint("http"))
}

// TestStartAndClean exercises the happy path of Start and the returned
// cleanup. No collector is running, so export failures are ignored.
func TestStartAndClean(t *testing.T) {
	ctx := context.Background()
	clean, err := Start(ctx, WithEndpoint("localhost:4317"))
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if clean == nil {
		t.Fatalf("expected non-nil cleanup function")
	}
	// Start a span to ensure Tracer is initialized.
	_, span := Tracer.Start(ctx, "test-span")
	span.End()
	_ = clean() // Ignore cleanup error as no collector is running in tests.
}

func TestStartGRPCWithURLAndHeaders(t *testing.T) {
	ctx := context.Background()
	clean, err := Start(ctx,
		WithProtocol("grpc"),
		WithEndpoint("localhost:4317"),
		WithEndpointURL("localhost:9999"),
		WithHeaders(map[string]string{"Authorization": "Bearer abc"}),
	)
	require.NoError(t, err)
	require.NotNil(t, clean)
	_ = clean()
}

func TestStartHTTPWithURLAndHeaders(t *testing.T) {
	ctx := context.Background()
	clean, err := Start(ctx,
		WithProtocol("http"),
		WithEndpoint("localhost:4318"),
		WithEndpointURL("http://localhost:4318/custom/path"),
		WithHeaders(map[string]string{"X-Test": "yes"}),
	)
	require.NoError(t, err)
	require.NotNil(t, clean)
	_ = clean()
}

func TestStartHTTPInvalidEndpointURL(t *testing.T) {
	ctx := context.Background()
	_, err := Start(ctx,
		WithProtocol("http"),
		WithEndpoint("localhost:4318"),
		WithEndpointURL("http:///bad"), // Missing host should fail.
	)
	require.Error(t, err)
}

func TestStartDefaultsWithoutEnv(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	ctx := context.Background()
	for _, protocol := range []string{"grpc", "http"} {
		t.Run(protocol, func(t *testing.T) {
			clean, err := Start(ctx,
				WithProtocol(protocol),
				WithHeaders(map[string]string{"k": "v"}),
			)
			require.NoError(t, err)
			require.NotNil(t, clean)
			_ = clean()
		})
	}
}

func TestParseEndpointURL(t *testing.T) {
	cases := []struct {
		name      string
		in        string
		endpoint  string
		urlPath   string
		wantError bool
	}{
		{"with scheme and path", "http://localhost:3000/api/public/otel", "localhost:3000", "/api/public/otel", false},
		{"without scheme", "collector:4318/otlp/v1/traces", "collector:4318", "/otlp/v1/traces", false},
		{"no path implies slash", "example.com", "example.com", "/", false},
		{"no host error", "http:///missing-host", "", "", true},
		{"empty input error", "", "", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			endpoint, urlPath, err := parseEndpointURL(tc.in)
			if tc.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.endpoint, endpoint)
			require.Equal(t, tc.urlPath, urlPath)
		})
	}
}

func TestStartHTTPWithURLNoScheme(t *testing.T) {
	ctx := context.Background()
	clean, err := Start(ctx, WithProtocol("http"), WithEndpointURL("collector:4318/otlp/v1/traces"))
	require.NoError(t, err)
	require.NotNil(t, clean)
	_ = clean()
}

func TestBuildResourcePrecedence(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_SERVICE_NAME", "env-service")
	t.Setenv("OTEL_RESOURCE_ATTRIBUTES", "team=infra,env=staging")

	ctx := context.Background()
	opts := &options{}
	WithServiceName("option-service")(opts)
	WithServiceNamespace("custom-ns")(opts)
	WithServiceVersion("1.2.3")(opts)
	WithResourceAttributes(
		attribute.String("team", "storage"),
		attribute.String("custom", "value"),
	)(opts)

	res, err := buildResource(ctx, opts)
	require.NoError(t, err)

	attrMap := make(map[string]string)
	iter := res.Iter()
	for iter.Next() {
		kv := iter.Attribute()
		if kv.Value.Type() == attribute.STRING {
			attrMap[string(kv.Key)] = kv.Value.AsString()
		}
	}

	// Per OpenTelemetry spec, environment variables take precedence over
	// code configuration, so OTEL_SERVICE_NAME overrides WithServiceName.
	require.Equal(t, "env-service", attrMap[string(semconv.ServiceNameKey)])
	// Attributes from OTEL_RESOURCE_ATTRIBUTES are present.
	require.Equal(t, "staging", attrMap["env"])
	// WithResourceAttributes overrides OTEL_RESOURCE_ATTRIBUTES for same keys.
	require.Equal(t, "storage", attrMap["team"])
	require.Equal(t, "value", attrMap["custom"])
	// No environment override for namespace and version, so code values hold.
	require.Equal(t, "custom-ns", attrMap[string(semconv.ServiceNamespaceKey)])
	require.Equal(t, "1.2.3", attrMap[string(semconv.ServiceVersionKey)])
}
