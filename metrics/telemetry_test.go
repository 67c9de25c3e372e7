// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopByDefault(t *testing.T) {
	assert.Nil(t, HTTPHandler())

	// all meters are safe to use without initialization
	Counter("noop_count").Add(1)
	CounterVec("noop_count_vec", []string{"l"}).AddWithLabel(1, map[string]string{"l": "v"})
	Histogram("noop_hist", nil).Observe(1)
}

func TestLazyLoad(t *testing.T) {
	load := LazyLoadCounter("lazy_count")
	assert.Same(t, load(), load(), "lazy load resolves once")
}

func TestInitializePrometheus(t *testing.T) {
	InitializePrometheusMetrics()
	assert.NotNil(t, HTTPHandler())

	Counter("prom_count").Add(1)
	CounterVec("prom_count_vec", []string{"op"}).AddWithLabel(1, map[string]string{"op": "x"})
	Histogram("prom_hist", []int64{1, 10, 100}).Observe(5)

	// re-initialization keeps the existing instance
	impl := metrics
	InitializePrometheusMetrics()
	assert.Same(t, impl, metrics)
}
