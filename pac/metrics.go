// Copyright 2023-2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pac

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsSubsystem = "pac"

type evaluatorMetrics struct {
	evaluations  *prometheus.CounterVec
	duration     prometheus.Histogram
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
	helperErrors *prometheus.CounterVec
}

func newEvaluatorMetrics(r prometheus.Registerer, namespace string) *evaluatorMetrics {
	if r == nil {
		r = prometheus.NewRegistry() // This registry will be discarded.
	}
	f := promauto.With(r)

	return &evaluatorMetrics{
		evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Name:      "evaluations_total",
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Help:      "Number of FindProxyForURL evaluations by result",
		}, []string{"result"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:      "evaluation_duration_seconds",
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Help:      "Time spent running the PAC script",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		cacheHits: f.NewCounter(prometheus.CounterOpts{
			Name:      "cache_hits_total",
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Help:      "Number of results served from the result cache",
		}),
		cacheMisses: f.NewCounter(prometheus.CounterOpts{
			Name:      "cache_misses_total",
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Help:      "Number of result cache misses",
		}),
		helperErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name:      "helper_errors_total",
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Help:      "Number of recovered PAC helper function failures",
		}, []string{"function"}),
	}
}

func (m *evaluatorMetrics) evaluated(err error, d time.Duration) {
	res := "ok"
	if err != nil {
		res = "error"
	}
	m.evaluations.WithLabelValues(res).Inc()
	m.duration.Observe(d.Seconds())
}

func (m *evaluatorMetrics) helperError(name string) {
	m.helperErrors.WithLabelValues(name).Inc()
}
