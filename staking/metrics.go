// Copyright (c) 2025 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"time"

	"github.com/stakevault/stakevault/metrics"
)

var (
	metricOpCount      = metrics.LazyLoadCounterVec("operation_count", []string{"op", "outcome"})
	metricOpDuration   = metrics.LazyLoadHistogram("operation_duration_ms", []int64{0, 1, 2, 5, 10, 20, 50, 100, 250, 500, 1000})
	metricRewardAmount = metrics.LazyLoadHistogram("reward_amount", []int64{1, 10, 100, 1000, 10000, 100000, 1000000})
)

func recordOp(op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "err"
	}
	metricOpCount().AddWithLabel(1, map[string]string{"op": op, "outcome": outcome})
	metricOpDuration().Observe(time.Since(start).Milliseconds())
}
