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

import "sync"

// AvailabilityOracle reports which vnodes are currently down for a
// given service. The planner converts each down (hash_index,
// node_name) pair to a partition ID (via RingView's increment) to
// build the UnavailableVnodes set that CoverageSolver excludes from
// candidacy.
type AvailabilityOracle interface {
	// OfflineOwners returns the vnodes currently known to be down for
	// service, as (hash_index, node_name) pairs.
	OfflineOwners(service string, ring RingView) []RingEntry
}

// StaticAvailability is an AvailabilityOracle backed by an
// explicitly-set membership table; good for tests and for callers who
// already have a liveness view and just want to hand it to the
// planner without standing up HealthPoll.
type StaticAvailability struct {
	mu      sync.RWMutex
	offline map[string][]RingEntry // service -> offline vnodes
}

// NewStaticAvailability returns an oracle reporting nothing down for
// any service until SetOffline is called.
func NewStaticAvailability() *StaticAvailability {
	return &StaticAvailability{offline: map[string][]RingEntry{}}
}

// SetOffline replaces the set of vnodes reported as down for service.
func (s *StaticAvailability) SetOffline(service string, entries []RingEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]RingEntry, len(entries))
	copy(cp, entries)
	s.offline[service] = cp
}

func (s *StaticAvailability) OfflineOwners(service string, ring RingView) []RingEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]RingEntry, len(s.offline[service]))
	copy(cp, s.offline[service])
	return cp
}

// unavailableVnodes converts the oracle's (hash_index, node) pairs
// into the set of unavailable partition IDs.
func unavailableVnodes(offline []RingEntry, p int) map[PartitionID]bool {
	out := make(map[PartitionID]bool, len(offline))
	for _, e := range offline {
		out[PartitionOf(e.HashIndex, p)] = true
	}
	return out
}
