//
// Tencent is pleased to support the open source community by making trpc-flux-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-flux-go is licensed under the Apache License Version 2.0.
//
//

package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"trpc.group/trpc-go/trpc-flux-go/telemetry/metric/histogram"
	"trpc.group/trpc-go/trpc-flux-go/telemetry/semconv/metrics"
)

// MeterProvider is the provider behind all library instruments. It stays a
// noop provider until telemetry/metric.InitMeterProvider installs a real
// one.
var MeterProvider metric.MeterProvider = noop.NewMeterProvider()

// Dispatch instruments.
var (
	DispatchMeter                            metric.Meter        = MeterProvider.Meter(metrics.MeterNameDispatch)
	DispatchMetricTRPCFluxGoDispatchCnt      metric.Int64Counter = noop.Int64Counter{}
	DispatchMetricTRPCFluxGoNotifyCnt        metric.Int64Counter = noop.Int64Counter{}
	DispatchMetricTRPCFluxGoDispatchDuration *histogram.DynamicFloat64Histogram
)

// Loadgen instruments.
var (
	LoadgenMeter                     metric.Meter = MeterProvider.Meter(metrics.MeterNameLoadgen)
	LoadgenMetricTRPCFluxGoBatchSize *histogram.DynamicInt64Histogram
)

func init() {
	// Histogram instruments hold a concrete dynamic type, so they are
	// created against the noop provider here instead of using noop zero
	// values; creation against a noop provider cannot fail.
	DispatchMetricTRPCFluxGoDispatchDuration, _ = histogram.NewDynamicFloat64Histogram(
		MeterProvider,
		metrics.MeterNameDispatch,
		metrics.MetricTRPCFluxGoDispatchDuration,
		metric.WithDescription("Duration of store dispatch"),
		metric.WithUnit("s"),
	)
	LoadgenMetricTRPCFluxGoBatchSize, _ = histogram.NewDynamicInt64Histogram(
		MeterProvider,
		metrics.MeterNameLoadgen,
		metrics.MetricTRPCFluxGoLoadgenBatchSize,
		metric.WithDescription("Number of actions per load run"),
		metric.WithUnit("1"),
	)
}

// IncDispatchCnt counts one dispatch attempt. A non-nil err marks the data
// point with an error.type attribute.
func IncDispatchCnt(ctx context.Context, storeName, actionType string, err error) {
	attrs := []attribute.KeyValue{
		attribute.String(KeyOperationName, OperationDispatch),
		attribute.String(KeyStoreName, storeName),
		attribute.String(KeyActionType, actionType),
	}
	if err != nil {
		attrs = append(attrs, attribute.String(KeyErrorType, ValueDefaultErrorType))
	}
	DispatchMetricTRPCFluxGoDispatchCnt.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// AddNotifyCnt counts the listeners notified by one successful dispatch.
func AddNotifyCnt(ctx context.Context, storeName string, notified int64) {
	if notified <= 0 {
		return
	}
	DispatchMetricTRPCFluxGoNotifyCnt.Add(ctx, notified,
		metric.WithAttributes(
			attribute.String(KeyOperationName, OperationDispatch),
			attribute.String(KeyStoreName, storeName),
		))
}

// RecordDispatchDuration records the wall time of one successful dispatch,
// notification included.
func RecordDispatchDuration(ctx context.Context, storeName, actionType string, duration time.Duration) {
	DispatchMetricTRPCFluxGoDispatchDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String(KeyOperationName, OperationDispatch),
			attribute.String(KeyStoreName, storeName),
			attribute.String(KeyActionType, actionType),
		))
}

// RecordLoadgenBatchSize records the number of actions submitted by one
// load-driver run.
func RecordLoadgenBatchSize(ctx context.Context, batch int64) {
	LoadgenMetricTRPCFluxGoBatchSize.Record(ctx, batch)
}
