//
// Tencent is pleased to support the open source community by making trpc-flux-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-flux-go is licensed under the Apache License Version 2.0.
//
//

package metric

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	itelemetry "trpc.group/trpc-go/trpc-flux-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-flux-go/telemetry/semconv/metrics"
)

func TestMetricsEndpointPrecedence(t *testing.T) {
	const (
		specificEndpoint = "metrics-collector:4318"
		genericEndpoint  = "generic-collector:4318"
	)

	// Specific variable wins over generic.
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", specificEndpoint)
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", genericEndpoint)
	require.Equal(t, specificEndpoint, metricsEndpoint("grpc"))

	// Fallback to generic when specific is empty.
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")
	require.Equal(t, genericEndpoint, metricsEndpoint("grpc"))

	// Defaults when none set, keyed by protocol.
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	require.Equal(t, "localhost:4317", metricsEndpoint("grpc"))
	require.Equal(t, "localhost:4318", metricsEndpoint("http"))
	require.Equal(t, "localhost:4317", metricsEndpoint("unknown"))
}

// TestNewMeterProvider exercises various NewMeterProvider configurations.
// No collector is running; exporters connect lazily, so creation succeeds.
func TestNewMeterProvider(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{
			name: "gRPC endpoint",
			opts: []Option{WithEndpoint("localhost:4317"), WithProtocol("grpc")},
		},
		{
			name: "HTTP endpoint",
			opts: []Option{WithEndpoint("localhost:4318"), WithProtocol("http")},
		},
		{
			name: "default options",
			opts: []Option{},
		},
		{
			name: "resilient to empty endpoint",
			opts: []Option{WithEndpoint("")},
		},
		{
			name: "resilient to invalid protocol",
			opts: []Option{WithProtocol("invalid")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mp, err := NewMeterProvider(ctx, tt.opts...)
			if err != nil {
				t.Fatalf("NewMeterProvider returned error: %v", err)
			}
			if mp == nil {
				t.Fatal("expected non-nil meter provider")
			}
		})
	}
}

// TestInitMeterProvider verifies that InitMeterProvider installs the
// provider and recreates the library instruments against it.
func TestInitMeterProvider(t *testing.T) {
	ctx := context.Background()

	// Save original meter provider.
	originalMP := itelemetry.MeterProvider
	defer func() {
		itelemetry.MeterProvider = originalMP
	}()

	mp, err := NewMeterProvider(ctx)
	require.NoError(t, err)

	require.NoError(t, InitMeterProvider(mp))

	// Verify that the meter provider was set.
	if itelemetry.MeterProvider != mp {
		t.Error("MeterProvider was not set correctly")
	}

	// Verify that dispatch instruments were created.
	if itelemetry.DispatchMeter == nil {
		t.Error("DispatchMeter was not created")
	}
	if itelemetry.DispatchMetricTRPCFluxGoDispatchCnt == nil {
		t.Error("DispatchMetricTRPCFluxGoDispatchCnt was not created")
	}
	if itelemetry.DispatchMetricTRPCFluxGoNotifyCnt == nil {
		t.Error("DispatchMetricTRPCFluxGoNotifyCnt was not created")
	}
	if itelemetry.DispatchMetricTRPCFluxGoDispatchDuration == nil {
		t.Error("DispatchMetricTRPCFluxGoDispatchDuration was not created")
	}

	// Verify that loadgen instruments were created.
	if itelemetry.LoadgenMeter == nil {
		t.Error("LoadgenMeter was not created")
	}
	if itelemetry.LoadgenMetricTRPCFluxGoBatchSize == nil {
		t.Error("LoadgenMetricTRPCFluxGoBatchSize was not created")
	}
}

func TestGetMeterProvider(t *testing.T) {
	ctx := context.Background()

	originalMP := itelemetry.MeterProvider
	defer func() {
		itelemetry.MeterProvider = originalMP
	}()

	mp, err := NewMeterProvider(ctx)
	require.NoError(t, err)
	require.NoError(t, InitMeterProvider(mp))

	if GetMeterProvider() != mp {
		t.Error("GetMeterProvider did not return the correct meter provider")
	}
}

func TestSetHistogramBuckets(t *testing.T) {
	ctx := context.Background()

	originalMP := itelemetry.MeterProvider
	defer func() {
		itelemetry.MeterProvider = originalMP
	}()

	mp, err := NewMeterProvider(ctx)
	require.NoError(t, err)
	require.NoError(t, InitMeterProvider(mp))

	tests := []struct {
		name       string
		meterName  string
		metricName string
		wantError  bool
	}{
		{
			name:       "dispatch duration",
			meterName:  metrics.MeterNameDispatch,
			metricName: metrics.MetricTRPCFluxGoDispatchDuration,
		},
		{
			name:       "loadgen batch size",
			meterName:  metrics.MeterNameLoadgen,
			metricName: metrics.MetricTRPCFluxGoLoadgenBatchSize,
		},
		{
			name:       "unknown meter",
			meterName:  "unknown",
			metricName: metrics.MetricTRPCFluxGoDispatchDuration,
			wantError:  true,
		},
		{
			name:       "unknown dispatch metric",
			meterName:  metrics.MeterNameDispatch,
			metricName: "unknown",
			wantError:  true,
		},
		{
			name:       "unknown loadgen metric",
			meterName:  metrics.MeterNameLoadgen,
			metricName: "unknown",
			wantError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SetHistogramBuckets(tt.meterName, tt.metricName, []float64{0.1, 1, 10})
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewMeterProviderWithEnvironmentVariables(t *testing.T) {
	tests := []struct {
		name            string
		metricsEndpoint string
		genericEndpoint string
		opts            []Option
	}{
		{
			name:            "with OTEL_EXPORTER_OTLP_METRICS_ENDPOINT",
			metricsEndpoint: "metrics-endpoint:4317",
		},
		{
			name:            "with OTEL_EXPORTER_OTLP_ENDPOINT",
			genericEndpoint: "generic-endpoint:4317",
		},
		{
			name:            "option overrides env vars",
			metricsEndpoint: "metrics-endpoint:4317",
			genericEndpoint: "generic-endpoint:4317",
			opts:            []Option{WithEndpoint("custom:4317")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", tt.metricsEndpoint)
			t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", tt.genericEndpoint)

			ctx := context.Background()
			mp, err := NewMeterProvider(ctx, tt.opts...)
			require.NoError(t, err)
			require.NotNil(t, mp)
		})
	}
}

func TestOptions(t *testing.T) {
	opts := &options{}

	WithEndpoint("test:4317")(opts)
	require.Equal(t, "test:4317", opts.metricsEndpoint)

	WithProtocol("http")(opts)
	require.Equal(t, "http", opts.protocol)

	WithServiceName("svc")(opts)
	WithServiceNamespace("ns")(opts)
	WithServiceVersion("v9.9.9")(opts)
	require.Equal(t, "svc", opts.serviceName)
	require.Equal(t, "ns", opts.serviceNamespace)
	require.Equal(t, "v9.9.9", opts.serviceVersion)
}
