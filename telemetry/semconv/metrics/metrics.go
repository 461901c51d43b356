//
// Tencent is pleased to support the open source community by making trpc-flux-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-flux-go is licensed under the Apache License Version 2.0.
//
//

// Package metrics defines metric name constants following OpenTelemetry
// semantic conventions.
package metrics

const (
	// KeyMetricName represents the name of the metric.
	KeyMetricName = "metric.name"

	// MeterNameDispatch is the meter covering store dispatch instruments.
	MeterNameDispatch = "dispatch"
	// MeterNameLoadgen is the meter covering load-driver instruments.
	MeterNameLoadgen = "loadgen"

	// MetricTRPCFluxGoDispatchCnt counts dispatch attempts per store and
	// action type, with an error.type attribute on failures.
	MetricTRPCFluxGoDispatchCnt = "trpc_flux_go.store.dispatch_cnt"
	// MetricTRPCFluxGoNotifyCnt counts listener notifications delivered by
	// successful dispatches.
	MetricTRPCFluxGoNotifyCnt = "trpc_flux_go.store.notify_cnt"
	// MetricTRPCFluxGoDispatchDuration measures wall time of one dispatch,
	// reducer application and notification included.
	MetricTRPCFluxGoDispatchDuration = "trpc_flux_go.store.dispatch.duration"
	// MetricTRPCFluxGoLoadgenBatchSize measures the number of actions
	// submitted per load-driver run.
	MetricTRPCFluxGoLoadgenBatchSize = "trpc_flux_go.loadgen.batch.size"
)
