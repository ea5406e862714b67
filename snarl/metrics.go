// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package snarl

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Package-level tracer and meter.
var (
	tracer = otel.Tracer("snarltree.snarl")
	meter  = otel.Meter("snarltree.snarl")
)

// otel/metric instruments, initialized lazily since a meter provider may
// not be configured until after package init runs.
var (
	buildLatency metric.Float64Histogram
	chainCount   metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		buildLatency, err = meter.Float64Histogram(
			"snarl_store_build_duration_seconds",
			metric.WithDescription("Duration of Load calls"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		chainCount, err = meter.Int64Histogram(
			"snarl_manager_chain_length",
			metric.WithDescription("Number of snarls per chain returned by ChainsOf"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func recordBuildMetrics(ctx context.Context, duration time.Duration, snarlCount int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	buildLatency.Record(ctx, duration.Seconds(), attrs)
}

func recordChainLength(ctx context.Context, length int) {
	if err := initMetrics(); err != nil {
		return
	}
	chainCount.Record(ctx, int64(length))
}

// Prometheus counters/histograms for the chain walker, mirroring the
// path-walk statistics a heavy-light decomposition exposes for its own
// upward walks.
var (
	chainWalkSteps = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "snarl_chain_walk_steps",
		Help:    "Number of snarls in each chain built by the NextInChain/PrevInChain walk",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
	})

	parallelSnarlErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snarl_parallel_top_level_errors_total",
		Help: "Total errors returned by callbacks in ForEachTopLevelSnarlParallel",
	})
)
