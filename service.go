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
	"sync"
	"sync/atomic"

	"github.com/couchbase/clog"
	"github.com/google/uuid"
	"github.com/rcrowley/go-metrics"
)

const (
	workKick = "kick"
	workNOOP = "noop"
)

// workReq is a request sent to Service's loop: op names what to do,
// resCh (if non-nil) is closed, or sent an error, when done.
type workReq struct {
	op    string
	msg   string
	resCh chan error
}

func syncWorkReq(ch chan *workReq, op, msg string) error {
	resCh := make(chan error, 1)
	ch <- &workReq{op: op, msg: msg, resCh: resCh}
	return <-resCh
}

// historyLimit bounds how many recent plan outcomes Stats() reports.
const historyLimit = 32

// PlanHistoryEntry summarizes one past CreatePlan call's shape, for
// Stats() -- operational visibility, not anything plan computation
// reads back.
type PlanHistoryEntry struct {
	Snapshot    string
	VnodeCount  int
	FilterCount int
	Subpart     bool
	Replay      bool
	Err         string // empty on success
}

// Service wraps CreatePlan with the pieces a long-running node needs
// around it: a stable snapshot ID per recompute (for correlating
// concurrent callers' plans with the ring/availability state they were
// computed against), stats, logging, and a kick/NOOP loop that
// re-snapshots the ring and availability oracle when told to.
//
// It does not itself discover ring changes -- callers (e.g. code
// wired to a cluster's membership events) call Kick, SetRing or
// SetOracle.
type Service struct {
	log Log

	mu       sync.RWMutex
	ring     RingView
	oracle   AvailabilityOracle
	snapshot string // uuid identifying the current (ring, oracle) pairing
	history  []PlanHistoryEntry

	stats    ServiceStats
	registry metrics.Registry

	kickCh chan *workReq
	stopCh chan struct{}
}

// NewService builds a Service over an initial ring and availability
// oracle. If log is nil, a no-op logger is used.
func NewService(ring RingView, oracle AvailabilityOracle, log Log) *Service {
	if log == nil {
		log = nullLog{}
	}

	s := &Service{
		log:      log,
		ring:     ring,
		oracle:   oracle,
		snapshot: newSnapshotID(),
		registry: metrics.NewRegistry(),
		kickCh:   make(chan *workReq),
		stopCh:   make(chan struct{}),
	}

	registerMetrics(s.registry, &s.stats)

	return s
}

func newSnapshotID() string {
	return uuid.New().String()
}

// Registry returns the go-metrics registry Service publishes its
// counters through, for a REST handler (rest/rest.go's /api/stats) to
// serve.
func (s *Service) Registry() metrics.Registry { return s.registry }

// Loop runs Service's kick/NOOP loop until Stop is called. Run it in
// its own goroutine.
func (s *Service) Loop() {
	for {
		select {
		case <-s.stopCh:
			return

		case req := <-s.kickCh:
			clog.Printf("ringcover: service awakes, op: %s, msg: %s", req.op, req.msg)

			var err error
			switch req.op {
			case workKick:
				atomic.AddUint64(&s.stats.TotKick, 1)
				changed := s.recompute()
				if changed {
					atomic.AddUint64(&s.stats.TotKickChanged, 1)
				}
			case workNOOP:
				// nothing to do; used by callers that just want to
				// synchronize with the loop.
			default:
				s.log.Warnf("ringcover: service, unknown op: %s", req.op)
			}

			if req.resCh != nil {
				if err != nil {
					req.resCh <- err
				}
				close(req.resCh)
			}
		}
	}
}

// Stop ends Loop.
func (s *Service) Stop() { close(s.stopCh) }

// Kick tells Service's loop to take a fresh (ring, oracle) snapshot.
// It blocks until the loop has processed the request.
func (s *Service) Kick(reason string) error {
	return syncWorkReq(s.kickCh, workKick, reason)
}

// recompute stamps a new snapshot ID for the current (ring, oracle)
// pair. It always reports a change: Service has no way to cheaply
// diff two RingView/AvailabilityOracle instances, so every Kick is
// treated as a potential change.
func (s *Service) recompute() bool {
	atomic.AddUint64(&s.stats.TotRecompute, 1)

	s.mu.Lock()
	s.snapshot = newSnapshotID()
	s.mu.Unlock()

	return true
}

// SetRing replaces the ring Service plans against and kicks the loop.
func (s *Service) SetRing(ring RingView) error {
	s.mu.Lock()
	s.ring = ring
	s.mu.Unlock()
	return s.Kick("ring changed")
}

// SetOracle replaces the availability oracle Service plans against
// and kicks the loop.
func (s *Service) SetOracle(oracle AvailabilityOracle) error {
	s.mu.Lock()
	s.oracle = oracle
	s.mu.Unlock()
	return s.Kick("oracle changed")
}

// CreatePlan runs CreatePlan against Service's current ring and
// oracle snapshot, bumping stats and logging the outcome.
func (s *Service) CreatePlan(req PlanRequest) (*Plan, string, error) {
	atomic.AddUint64(&s.stats.TotPlanStart, 1)

	if req.Target != nil {
		atomic.AddUint64(&s.stats.TotPlanReplay, 1)
	} else if req.NVal.isSubpartitionMode() {
		atomic.AddUint64(&s.stats.TotPlanSubpart, 1)
	}

	s.mu.RLock()
	req.Ring = s.ring
	req.Oracle = s.oracle
	snapshot := s.snapshot
	s.mu.RUnlock()

	plan, err := CreatePlan(req)

	entry := PlanHistoryEntry{
		Snapshot: snapshot,
		Subpart:  req.NVal.isSubpartitionMode(),
		Replay:   req.Target != nil,
	}

	if err != nil {
		atomic.AddUint64(&s.stats.TotPlanErr, 1)
		s.log.Warnf("ringcover: CreatePlan, snapshot: %s, err: %v", snapshot, err)
		entry.Err = err.Error()
		s.recordHistory(entry)
		return nil, snapshot, err
	}

	atomic.AddUint64(&s.stats.TotPlanOk, 1)

	if plan.Traditional != nil {
		entry.VnodeCount = len(plan.Traditional.Vnodes)
		entry.FilterCount = len(plan.Traditional.Filters)
	} else if plan.Subpartition != nil {
		entry.VnodeCount = len(plan.Subpartition.Entries)
	}
	s.recordHistory(entry)

	return plan, snapshot, nil
}

func (s *Service) recordHistory(entry PlanHistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, entry)
	if len(s.history) > historyLimit {
		s.history = s.history[len(s.history)-historyLimit:]
	}
}

// Stats returns a snapshot of the most recent plan outcomes, for
// operational visibility.
func (s *Service) Stats() []PlanHistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]PlanHistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}
