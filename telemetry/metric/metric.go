//
// Tencent is pleased to support the open source community by making trpc-flux-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-flux-go is licensed under the Apache License Version 2.0.
//
//

// Package metric provides metrics collection functionality for trpc-flux-go.
// It integrates with OpenTelemetry to export store dispatch and load-driver
// instruments through OTLP.
package metric

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	itelemetry "trpc.group/trpc-go/trpc-flux-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-flux-go/log"
	"trpc.group/trpc-go/trpc-flux-go/telemetry/metric/histogram"
	"trpc.group/trpc-go/trpc-flux-go/telemetry/semconv/metrics"
)

// InitMeterProvider initializes the meter provider and the library
// instruments. Stores created before or after the call pick the new
// instruments up automatically.
func InitMeterProvider(mp metric.MeterProvider) error {
	itelemetry.MeterProvider = mp

	itelemetry.DispatchMeter = mp.Meter(metrics.MeterNameDispatch)
	var err error
	if itelemetry.DispatchMetricTRPCFluxGoDispatchCnt, err = itelemetry.DispatchMeter.Int64Counter(
		metrics.MetricTRPCFluxGoDispatchCnt,
		metric.WithDescription("Total number of dispatch attempts"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("failed to create dispatch metric TRPCFluxGoDispatchCnt: %w", err)
	}
	if itelemetry.DispatchMetricTRPCFluxGoNotifyCnt, err = itelemetry.DispatchMeter.Int64Counter(
		metrics.MetricTRPCFluxGoNotifyCnt,
		metric.WithDescription("Total number of listener notifications"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("failed to create dispatch metric TRPCFluxGoNotifyCnt: %w", err)
	}
	if itelemetry.DispatchMetricTRPCFluxGoDispatchDuration, err = histogram.NewDynamicFloat64Histogram(
		mp,
		metrics.MeterNameDispatch,
		metrics.MetricTRPCFluxGoDispatchDuration,
		metric.WithDescription("Duration of store dispatch"),
		metric.WithUnit("s"),
	); err != nil {
		return fmt.Errorf("failed to create dispatch metric TRPCFluxGoDispatchDuration: %w", err)
	}

	itelemetry.LoadgenMeter = mp.Meter(metrics.MeterNameLoadgen)
	if itelemetry.LoadgenMetricTRPCFluxGoBatchSize, err = histogram.NewDynamicInt64Histogram(
		mp,
		metrics.MeterNameLoadgen,
		metrics.MetricTRPCFluxGoLoadgenBatchSize,
		metric.WithDescription("Number of actions per load run"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("failed to create loadgen metric TRPCFluxGoLoadgenBatchSize: %w", err)
	}

	return nil
}

// GetMeterProvider returns the meter provider.
func GetMeterProvider() metric.MeterProvider {
	return itelemetry.MeterProvider
}

// SetHistogramBuckets updates bucket boundaries for a specific histogram
// metric. The metricName should be one of the names defined in the metrics
// package. Note: this creates a new histogram instrument; old data is not
// migrated.
func SetHistogramBuckets(meterName string, metricName string, boundaries []float64) error {
	switch meterName {
	case metrics.MeterNameDispatch:
		return setDispatchHistogramBuckets(metricName, boundaries)
	case metrics.MeterNameLoadgen:
		return setLoadgenHistogramBuckets(metricName, boundaries)
	default:
		return fmt.Errorf("unknown or unsupported meter name: %s", meterName)
	}
}

func setDispatchHistogramBuckets(metricName string, boundaries []float64) error {
	switch metricName {
	case metrics.MetricTRPCFluxGoDispatchDuration:
		if itelemetry.DispatchMetricTRPCFluxGoDispatchDuration == nil {
			return fmt.Errorf("dispatch metric %s not initialized", metricName)
		}
		return itelemetry.DispatchMetricTRPCFluxGoDispatchDuration.SetBuckets(boundaries)
	default:
		return fmt.Errorf("unknown or unsupported dispatch histogram metric: %s", metricName)
	}
}

func setLoadgenHistogramBuckets(metricName string, boundaries []float64) error {
	switch metricName {
	case metrics.MetricTRPCFluxGoLoadgenBatchSize:
		if itelemetry.LoadgenMetricTRPCFluxGoBatchSize == nil {
			return fmt.Errorf("loadgen metric %s not initialized", metricName)
		}
		return itelemetry.LoadgenMetricTRPCFluxGoBatchSize.SetBuckets(boundaries)
	default:
		return fmt.Errorf("unknown or unsupported loadgen histogram metric: %s", metricName)
	}
}

// NewMeterProvider creates a new meter provider with optional configuration.
// The environment variables described below can be used for endpoint
// configuration.
// OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_METRICS_ENDPOINT (default: "localhost:4317")
// https://pkg.go.dev/go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc
func NewMeterProvider(ctx context.Context, opts ...Option) (*sdkmetric.MeterProvider, error) {
	// Set default options.
	options := &options{
		serviceName:      itelemetry.ServiceName,
		serviceVersion:   itelemetry.ServiceVersion,
		serviceNamespace: itelemetry.ServiceNamespace,
		protocol:         itelemetry.ProtocolGRPC, // Default to gRPC.
	}
	for _, opt := range opts {
		opt(options)
	}

	// Set endpoint based on protocol if not explicitly set.
	if options.metricsEndpoint == "" {
		options.metricsEndpoint = metricsEndpoint(options.protocol)
	}

	res, err := buildResource(ctx, options)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var meterProvider *sdkmetric.MeterProvider
	switch options.protocol {
	case itelemetry.ProtocolHTTP:
		meterProvider, err = newHTTPMeterProvider(ctx, res, options.metricsEndpoint)
	default:
		meterProvider, err = newGRPCMeterProvider(ctx, res, options.metricsEndpoint)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}

	return meterProvider, nil
}

// envEndpoints mirrors the standard OTLP endpoint environment variables
// honored for metric export.
type envEndpoints struct {
	MetricsEndpoint string `env:"OTEL_EXPORTER_OTLP_METRICS_ENDPOINT"`
	Endpoint        string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

func metricsEndpoint(protocol string) string {
	var cfg envEndpoints
	if err := env.Parse(&cfg); err != nil {
		log.Warnf("telemetry metric: failed to parse OTLP endpoint environment: %v", err)
	}
	if cfg.MetricsEndpoint != "" {
		return cfg.MetricsEndpoint
	}
	if cfg.Endpoint != "" {
		return cfg.Endpoint
	}

	// Return different default endpoints based on protocol.
	switch protocol {
	case itelemetry.ProtocolHTTP:
		return "localhost:4318" // HTTP endpoint base URL (otlpmetrichttp adds /v1/metrics automatically).
	default:
		return "localhost:4317" // gRPC endpoint (host:port).
	}
}

// Initializes an OTLP HTTP exporter, and configures the corresponding meter provider.
func newHTTPMeterProvider(ctx context.Context, res *resource.Resource, endpoint string) (*sdkmetric.MeterProvider, error) {
	metricExporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(endpoint),
		otlpmetrichttp.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP metrics exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)

	return meterProvider, nil
}

// Initializes an OTLP gRPC exporter, and configures the corresponding meter provider.
func newGRPCMeterProvider(ctx context.Context, res *resource.Resource, endpoint string) (*sdkmetric.MeterProvider, error) {
	metricsConn, err := itelemetry.NewGRPCConn(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics connection: %w", err)
	}

	metricExporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(metricsConn))
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)

	return meterProvider, nil
}

// Option is a function that configures meter options.
type Option func(*options)

// options holds the configuration options for meter.
type options struct {
	metricsEndpoint    string
	serviceName        string
	serviceVersion     string
	serviceNamespace   string
	protocol           string // Protocol to use (grpc or http).
	resourceAttributes *[]attribute.KeyValue
}

// WithEndpoint sets the metrics endpoint (host and port) the exporter will
// connect to. The provided endpoint should resemble "example.com:4317" (no
// scheme or path). If the OTEL_EXPORTER_OTLP_ENDPOINT or
// OTEL_EXPORTER_OTLP_METRICS_ENDPOINT environment variable is set and this
// option is not passed, that variable value will be used. If both are set,
// OTEL_EXPORTER_OTLP_METRICS_ENDPOINT takes precedence. If an environment
// variable is set and this option is passed, this option takes precedence.
func WithEndpoint(endpoint string) Option {
	return func(opts *options) {
		opts.metricsEndpoint = endpoint
	}
}

// WithProtocol sets the protocol to use for metrics export.
// Supported protocols are "grpc" (default) and "http".
func WithProtocol(protocol string) Option {
	return func(opts *options) {
		opts.protocol = protocol
	}
}

// WithServiceName overrides the service.name resource attribute.
func WithServiceName(serviceName string) Option {
	return func(opts *options) {
		opts.serviceName = serviceName
	}
}

// WithServiceNamespace overrides the service.namespace resource attribute.
func WithServiceNamespace(serviceNamespace string) Option {
	return func(opts *options) {
		opts.serviceNamespace = serviceNamespace
	}
}

// WithServiceVersion overrides the service.version resource attribute.
func WithServiceVersion(serviceVersion string) Option {
	return func(opts *options) {
		opts.serviceVersion = serviceVersion
	}
}

// WithResourceAttributes appends custom resource attributes.
func WithResourceAttributes(attrs ...attribute.KeyValue) Option {
	return func(opts *options) {
		if len(attrs) == 0 {
			return
		}
		if opts.resourceAttributes == nil {
			opts.resourceAttributes = &[]attribute.KeyValue{}
		}
		*opts.resourceAttributes = append(*opts.resourceAttributes, attrs...)
	}
}

func buildResource(ctx context.Context, options *options) (*resource.Resource, error) {
	// Build resource with options values.
	resourceOpts := []resource.Option{
		resource.WithAttributes(
			semconv.ServiceNamespace(options.serviceNamespace),
			semconv.ServiceName(options.serviceName),
			semconv.ServiceVersion(options.serviceVersion),
		),
		resource.WithFromEnv(),
		resource.WithHost(),         // Adds host.name.
		resource.WithTelemetrySDK(), // Adds telemetry.sdk.{name,language,version}.
	}

	// Append custom resource attributes.
	if options.resourceAttributes != nil && len(*options.resourceAttributes) > 0 {
		resourceOpts = append(resourceOpts, resource.WithAttributes(*options.resourceAttributes...))
	}

	return resource.New(ctx, resourceOpts...)
}
