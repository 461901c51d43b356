//
// Tencent is pleased to support the open source community by making trpc-flux-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-flux-go is licensed under the Apache License Version 2.0.
//
//

// Package trace provides distributed tracing functionality for trpc-flux-go.
// It integrates with OpenTelemetry to export store dispatch spans through
// OTLP.
package trace

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	itelemetry "trpc.group/trpc-go/trpc-flux-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-flux-go/log"
)

// Tracer is the tracer used across the library. It defaults to the global
// tracer and is replaced by Start with a tracer backed by the configured
// exporter.
var Tracer = otel.Tracer(itelemetry.InstrumentName)

// Start sets up trace export with optional configuration and installs the
// resulting tracer provider globally. It returns a cleanup function that
// shuts the provider down. The environment variables described below can be
// used for endpoint configuration.
// OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_TRACES_ENDPOINT (default: "localhost:4317")
// https://pkg.go.dev/go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc
func Start(ctx context.Context, opts ...Option) (clean func() error, err error) {
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
	if options.tracesEndpoint == "" {
		options.tracesEndpoint = tracesEndpoint(options.protocol)
	}

	res, err := buildResource(ctx, options)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var tracerProvider *sdktrace.TracerProvider
	switch options.protocol {
	case itelemetry.ProtocolHTTP:
		tracerProvider, err = newHTTPTracerProvider(ctx, res, options)
	default:
		tracerProvider, err = newGRPCTracerProvider(ctx, res, options)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer provider: %w", err)
	}

	otel.SetTracerProvider(tracerProvider)
	Tracer = tracerProvider.Tracer(itelemetry.InstrumentName)

	return func() error {
		return tracerProvider.Shutdown(context.Background())
	}, nil
}

// envEndpoints mirrors the standard OTLP endpoint environment variables
// honored for trace export.
type envEndpoints struct {
	TracesEndpoint string `env:"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"`
	Endpoint       string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

func tracesEndpoint(protocol string) string {
	var cfg envEndpoints
	if err := env.Parse(&cfg); err != nil {
		log.Warnf("telemetry trace: failed to parse OTLP endpoint environment: %v", err)
	}
	if cfg.TracesEndpoint != "" {
		return cfg.TracesEndpoint
	}
	if cfg.Endpoint != "" {
		return cfg.Endpoint
	}

	// Return different default endpoints based on protocol.
	switch protocol {
	case itelemetry.ProtocolHTTP:
		return "localhost:4318" // HTTP endpoint base URL (otlptracehttp adds /v1/traces automatically).
	default:
		return "localhost:4317" // gRPC endpoint (host:port).
	}
}

// parseEndpointURL splits a full endpoint URL into the host:port endpoint
// and the URL path expected by the OTLP HTTP exporter. Inputs without a
// scheme are split at the first path separator; inputs without a path get
// "/".
func parseEndpointURL(endpointURL string) (endpoint string, urlPath string, err error) {
	if strings.Contains(endpointURL, "://") {
		u, perr := url.Parse(endpointURL)
		if perr != nil {
			return "", "", fmt.Errorf("invalid endpoint URL %q: %w", endpointURL, perr)
		}
		if u.Host == "" {
			return "", "", fmt.Errorf("invalid endpoint URL %q: missing host", endpointURL)
		}
		if u.Path == "" {
			return u.Host, "/", nil
		}
		return u.Host, u.Path, nil
	}
	if idx := strings.Index(endpointURL, "/"); idx >= 0 {
		if endpointURL[:idx] == "" {
			return "", "", fmt.Errorf("invalid endpoint URL %q: missing host", endpointURL)
		}
		return endpointURL[:idx], endpointURL[idx:], nil
	}
	if endpointURL == "" {
		return "", "", fmt.Errorf("invalid endpoint URL: empty")
	}
	return endpointURL, "/", nil
}

// Initializes an OTLP HTTP exporter, and configures the corresponding tracer provider.
func newHTTPTracerProvider(ctx context.Context, res *resource.Resource, options *options) (*sdktrace.TracerProvider, error) {
	var exporterOpts []otlptracehttp.Option
	if options.tracesEndpointURL != "" {
		endpoint, urlPath, err := parseEndpointURL(options.tracesEndpointURL)
		if err != nil {
			return nil, err
		}
		exporterOpts = append(exporterOpts,
			otlptracehttp.WithEndpoint(endpoint),
			otlptracehttp.WithURLPath(urlPath))
		if !strings.HasPrefix(options.tracesEndpointURL, "https://") {
			exporterOpts = append(exporterOpts, otlptracehttp.WithInsecure())
		}
	} else {
		exporterOpts = append(exporterOpts,
			otlptracehttp.WithEndpoint(options.tracesEndpoint),
			otlptracehttp.WithInsecure())
	}
	if len(options.headers) > 0 {
		exporterOpts = append(exporterOpts, otlptracehttp.WithHeaders(options.headers))
	}

	traceExporter, err := otlptracehttp.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP trace exporter: %w", err)
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)

	return tracerProvider, nil
}

// Initializes an OTLP gRPC exporter, and configures the corresponding tracer provider.
func newGRPCTracerProvider(ctx context.Context, res *resource.Resource, options *options) (*sdktrace.TracerProvider, error) {
	endpoint := options.tracesEndpoint
	if options.tracesEndpointURL != "" {
		ep, _, err := parseEndpointURL(options.tracesEndpointURL)
		if err != nil {
			return nil, err
		}
		endpoint = ep
	}

	tracesConn, err := itelemetry.NewGRPCConn(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create traces connection: %w", err)
	}

	exporterOpts := []otlptracegrpc.Option{otlptracegrpc.WithGRPCConn(tracesConn)}
	if len(options.headers) > 0 {
		exporterOpts = append(exporterOpts, otlptracegrpc.WithHeaders(options.headers))
	}

	traceExporter, err := otlptracegrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)

	return tracerProvider, nil
}

// Option is a function that configures trace options.
type Option func(*options)

// options holds the configuration options for trace.
type options struct {
	tracesEndpoint     string
	tracesEndpointURL  string
	serviceName        string
	serviceVersion     string
	serviceNamespace   string
	protocol           string // Protocol to use (grpc or http).
	headers            map[string]string
	resourceAttributes *[]attribute.KeyValue
}

// WithEndpoint sets the traces endpoint (host and port) the exporter will
// connect to. The provided endpoint should resemble "example.com:4317" (no
// scheme or path). If the OTEL_EXPORTER_OTLP_ENDPOINT or
// OTEL_EXPORTER_OTLP_TRACES_ENDPOINT environment variable is set and this
// option is not passed, that variable value will be used. If both are set,
// OTEL_EXPORTER_OTLP_TRACES_ENDPOINT takes precedence. If an environment
// variable is set and this option is passed, this option takes precedence.
func WithEndpoint(endpoint string) Option {
	return func(opts *options) {
		opts.tracesEndpoint = endpoint
	}
}

// WithEndpointURL sets the full traces endpoint URL, including scheme and
// path, e.g. "https://example.com:4318/v1/traces". It takes precedence over
// WithEndpoint and the endpoint environment variables.
func WithEndpointURL(endpointURL string) Option {
	return func(opts *options) {
		opts.tracesEndpointURL = endpointURL
	}
}

// WithProtocol sets the protocol to use for trace export.
// Supported protocols are "grpc" (default) and "http".
func WithProtocol(protocol string) Option {
	return func(opts *options) {
		opts.protocol = protocol
	}
}

// WithHeaders sets additional headers sent with every export request, for
// example authentication headers.
func WithHeaders(headers map[string]string) Option {
	return func(opts *options) {
		opts.headers = headers
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
