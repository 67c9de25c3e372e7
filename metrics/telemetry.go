// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics is a singleton service providing global access to a set
// of meters. It wraps multiple implementations and defaults to a no-op
// implementation, so instrumented packages never pay for unused telemetry.
package metrics

import (
	"net/http"
	"sync"
)

var metrics = defaultNoopMetrics()

// Metrics defines the interface for metrics service implementations.
type Metrics interface {
	GetOrCreateCountMeter(name string) CountMeter
	GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter
	GetOrCreateHistogramMeter(name string, buckets []int64) HistogramMeter
	GetOrCreateHandler() http.Handler
}

// HTTPHandler returns the http handler for retrieving metrics.
func HTTPHandler() http.Handler {
	return metrics.GetOrCreateHandler()
}

// HistogramMeter represents the type of metric that is calculated by aggregating
// as a Histogram of all reported measurements over a time interval.
type HistogramMeter interface {
	Observe(int64)
}

func Histogram(name string, buckets []int64) HistogramMeter {
	return metrics.GetOrCreateHistogramMeter(name, buckets)
}

// CountMeter is a cumulative metric that represents a single monotonically increasing counter
// whose value can only increase or be reset to zero on restart.
type CountMeter interface {
	Add(int64)
}

func Counter(name string) CountMeter { return metrics.GetOrCreateCountMeter(name) }

// CountVecMeter is a cumulative metric that represents a single monotonically increasing counter
// whose value can only increase or be reset to zero on restart with a vector of values.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

func CounterVec(name string, labels []string) CountVecMeter {
	return metrics.GetOrCreateCountVecMeter(name, labels)
}

// LazyLoadCounter to lazy load a counter metric.
func LazyLoadCounter(name string) func() CountMeter {
	return lazyLoad(func() CountMeter {
		return Counter(name)
	})
}

// LazyLoadCounterVec to lazy load a counter vector metric.
func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return lazyLoad(func() CountVecMeter {
		return CounterVec(name, labels)
	})
}

// LazyLoadHistogram to lazy load a histogram metric.
func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return lazyLoad(func() HistogramMeter {
		return Histogram(name, buckets)
	})
}

func lazyLoad[T any](create func() T) func() T {
	var meter T
	var once sync.Once
	return func() T {
		once.Do(func() {
			meter = create()
		})
		return meter
	}
}
