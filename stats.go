//  Copyright (c) 2014 Couchbase, Inc.
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the
//  License. You may obtain a copy of the License at
//    http://www.apache.org/licenses/LICENSE-2.0
//  Unless required by applicable law or agreed to in writing,
//  software distributed under the License is distributed on an "AS
//  IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
//  express or implied. See the License for the specific language
//  governing permissions and limitations under the License.

package ringcover

import (
	"sync/atomic"

	"github.com/rcrowley/go-metrics"
)

// ServiceStats holds the hot-path counters a Service bumps on every
// CreatePlan call: plain uint64s updated via sync/atomic rather than
// through the metrics registry, so the counting itself never takes a
// lock.
type ServiceStats struct {
	TotPlanStart   uint64
	TotPlanOk      uint64
	TotPlanErr     uint64
	TotPlanReplay  uint64
	TotPlanSubpart uint64
	TotKick        uint64
	TotKickChanged uint64
	TotRecompute   uint64
}

// registerMetrics exposes a ServiceStats snapshot through a
// go-metrics registry: one functional gauge per counter, read lazily
// off the atomic fields.
func registerMetrics(registry metrics.Registry, stats *ServiceStats) {
	register := func(name string, get func() int64) {
		registry.Register(name, metrics.NewFunctionalGauge(get))
	}

	register("ringcover.plan.start", func() int64 {
		return int64(atomic.LoadUint64(&stats.TotPlanStart))
	})
	register("ringcover.plan.ok", func() int64 {
		return int64(atomic.LoadUint64(&stats.TotPlanOk))
	})
	register("ringcover.plan.err", func() int64 {
		return int64(atomic.LoadUint64(&stats.TotPlanErr))
	})
	register("ringcover.plan.replay", func() int64 {
		return int64(atomic.LoadUint64(&stats.TotPlanReplay))
	})
	register("ringcover.plan.subpartition", func() int64 {
		return int64(atomic.LoadUint64(&stats.TotPlanSubpart))
	})
	register("ringcover.kick", func() int64 {
		return int64(atomic.LoadUint64(&stats.TotKick))
	})
	register("ringcover.kick.changed", func() int64 {
		return int64(atomic.LoadUint64(&stats.TotKickChanged))
	})
	register("ringcover.recompute", func() int64 {
		return int64(atomic.LoadUint64(&stats.TotRecompute))
	})
}
