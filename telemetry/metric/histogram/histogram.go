//
// Tencent is pleased to support the open source community by making trpc-flux-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-flux-go is licensed under the Apache License Version 2.0.
//
//

// Package histogram provides histogram instruments whose bucket boundaries
// can be replaced at runtime.
package histogram

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"trpc.group/trpc-go/trpc-flux-go/telemetry/semconv/metrics"
)

// DynamicFloat64Histogram wraps a Float64Histogram so its bucket
// boundaries can be updated after creation by recreating the underlying
// instrument.
type DynamicFloat64Histogram struct {
	mu        sync.RWMutex
	histogram metric.Float64Histogram

	provider  metric.MeterProvider
	meterName string
	name      string
	options   []metric.Float64HistogramOption
}

// NewDynamicFloat64Histogram creates a dynamic float64 histogram on the
// given provider and meter. The provider, meter name and options are kept
// so SetBuckets can recreate the instrument.
func NewDynamicFloat64Histogram(
	provider metric.MeterProvider,
	meterName string,
	name string,
	options ...metric.Float64HistogramOption,
) (*DynamicFloat64Histogram, error) {
	if provider == nil {
		return nil, fmt.Errorf("meter provider is nil")
	}
	h, err := newFloat64Histogram(provider, meterName, name, options)
	if err != nil {
		return nil, err
	}
	return &DynamicFloat64Histogram{
		histogram: h,
		provider:  provider,
		meterName: meterName,
		name:      name,
		options:   options,
	}, nil
}

// Record records a value with the current histogram. Thread-safe.
func (d *DynamicFloat64Histogram) Record(ctx context.Context, value float64, opts ...metric.RecordOption) {
	d.mu.RLock()
	h := d.histogram
	d.mu.RUnlock()
	h.Record(ctx, value, opts...)
}

// SetBuckets replaces the bucket boundaries by recreating the instrument.
// Data recorded against the old boundaries is not migrated. Thread-safe.
func (d *DynamicFloat64Histogram) SetBuckets(boundaries []float64) error {
	opts := d.options
	if len(boundaries) > 0 {
		opts = append(append([]metric.Float64HistogramOption{}, d.options...),
			metric.WithExplicitBucketBoundaries(boundaries...))
	}
	h, err := newFloat64Histogram(d.provider, d.meterName, d.name, opts)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.histogram = h
	d.mu.Unlock()
	return nil
}

func newFloat64Histogram(
	provider metric.MeterProvider,
	meterName string,
	name string,
	options []metric.Float64HistogramOption,
) (metric.Float64Histogram, error) {
	// A fresh Meter per (re)creation; some provider implementations cache
	// instruments per meter and would hand back the old boundaries.
	meter := provider.Meter(meterName,
		metric.WithInstrumentationAttributes(attribute.String(metrics.KeyMetricName, name)))
	return meter.Float64Histogram(name, options...)
}

// DynamicInt64Histogram wraps an Int64Histogram so its bucket boundaries
// can be updated after creation by recreating the underlying instrument.
type DynamicInt64Histogram struct {
	mu        sync.RWMutex
	histogram metric.Int64Histogram

	provider  metric.MeterProvider
	meterName string
	name      string
	options   []metric.Int64HistogramOption
}

// NewDynamicInt64Histogram creates a dynamic int64 histogram on the given
// provider and meter. The provider, meter name and options are kept so
// SetBuckets can recreate the instrument.
func NewDynamicInt64Histogram(
	provider metric.MeterProvider,
	meterName string,
	name string,
	options ...metric.Int64HistogramOption,
) (*DynamicInt64Histogram, error) {
	if provider == nil {
		return nil, fmt.Errorf("meter provider is nil")
	}
	h, err := newInt64Histogram(provider, meterName, name, options)
	if err != nil {
		return nil, err
	}
	return &DynamicInt64Histogram{
		histogram: h,
		provider:  provider,
		meterName: meterName,
		name:      name,
		options:   options,
	}, nil
}

// Record records a value with the current histogram. Thread-safe.
func (d *DynamicInt64Histogram) Record(ctx context.Context, value int64, opts ...metric.RecordOption) {
	d.mu.RLock()
	h := d.histogram
	d.mu.RUnlock()
	h.Record(ctx, value, opts...)
}

// SetBuckets replaces the bucket boundaries by recreating the instrument.
// Data recorded against the old boundaries is not migrated. Thread-safe.
func (d *DynamicInt64Histogram) SetBuckets(boundaries []float64) error {
	opts := d.options
	if len(boundaries) > 0 {
		opts = append(append([]metric.Int64HistogramOption{}, d.options...),
			metric.WithExplicitBucketBoundaries(boundaries...))
	}
	h, err := newInt64Histogram(d.provider, d.meterName, d.name, opts)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.histogram = h
	d.mu.Unlock()
	return nil
}

func newInt64Histogram(
	provider metric.MeterProvider,
	meterName string,
	name string,
	options []metric.Int64HistogramOption,
) (metric.Int64Histogram, error) {
	meter := provider.Meter(meterName,
		metric.WithInstrumentationAttributes(attribute.String(metrics.KeyMetricName, name)))
	return meter.Int64Histogram(name, options...)
}
