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
	"reflect"
	"testing"
)

// TestRunCoverageSolverBasic runs the single-node, 8-partition, N=3,
// PVC=1, req_id=1234 scenario with every vnode up. The greedy pass
// picks in strict lowest-tiebreaker-among-max-score order: vnode 7
// first (all ties at round one, tiebreaker 0 is lowest), vnode 2
// second (among the three vnodes still tied at score 3, tiebreaker 3
// is lowest), then vnode 4 last, by which point only partitions 2 and
// 3 remain uncovered -- which is also why vnode 4 ends up contributing
// a strict subset of its N-keyspace (and needs a filter) while vnode 2
// contributes its keyspace in full.
func TestRunCoverageSolverBasic(t *testing.T) {
	coverage, uncovered, err := RunCoverageSolver(8, 3, 1, 1234, nil)
	if err != nil {
		t.Fatalf("RunCoverageSolver returned err: %v", err)
	}
	if uncovered != nil {
		t.Fatalf("uncovered = %v, want nil", uncovered)
	}

	want := []Coverage{
		{Vnode: 7, Partitions: idList(4, 5, 6)},
		{Vnode: 2, Partitions: idList(0, 1, 7)},
		{Vnode: 4, Partitions: idList(2, 3)},
	}
	if !reflect.DeepEqual(coverage, want) {
		t.Errorf("coverage = %v, want %v", coverage, want)
	}

	assertFullyCovered(t, coverage, 8)
}

func TestRunCoverageSolverTiebreakDirection(t *testing.T) {
	// Two candidates tied on score must resolve to the lower
	// tiebreaker, never the higher one.
	coverage, _, err := RunCoverageSolver(4, 2, 1, 0, nil)
	if err != nil {
		t.Fatalf("RunCoverageSolver returned err: %v", err)
	}
	if len(coverage) == 0 {
		t.Fatalf("expected at least one vnode chosen")
	}
	// offset = 0 mod 2 = 0; round one ties every vnode at score 2,
	// tiebreaker = v itself, so vnode 0 must win round one.
	if coverage[0].Vnode != 0 {
		t.Errorf("first pick = %d, want 0 (lowest tiebreaker)", coverage[0].Vnode)
	}
}

func TestRunCoverageSolverPVC(t *testing.T) {
	const p, n = 16, 4
	coverage, uncovered, err := RunCoverageSolver(p, n, 2, 7, nil)
	if err != nil {
		t.Fatalf("RunCoverageSolver returned err: %v", err)
	}
	if uncovered != nil {
		t.Fatalf("uncovered = %v, want nil", uncovered)
	}

	// Every partition must appear at least twice across the combined
	// coverage once PVC' (min(pvc, n) = 2) passes have both succeeded.
	counts := map[PartitionID]int{}
	for _, c := range coverage {
		for _, part := range c.Partitions {
			counts[part]++
		}
	}
	for part := 0; part < p; part++ {
		if counts[PartitionID(part)] < 2 {
			t.Errorf("partition %d covered %d times, want >= 2", part, counts[PartitionID(part)])
		}
	}
}

func TestRunCoverageSolverUnavailable(t *testing.T) {
	const p, n = 8, 3
	unavailable := map[PartitionID]bool{7: true}

	coverage, uncovered, err := RunCoverageSolver(p, n, 1, 1234, unavailable)
	if err != nil {
		t.Fatalf("RunCoverageSolver returned err: %v", err)
	}
	if uncovered != nil {
		t.Fatalf("uncovered = %v, want nil", uncovered)
	}
	for _, c := range coverage {
		if c.Vnode == 7 {
			t.Errorf("vnode 7 was excluded as unavailable but still appears in coverage")
		}
	}
	assertFullyCovered(t, coverage, p)
}

func TestRunCoverageSolverInsufficientVnodes(t *testing.T) {
	const p, n = 4, 1
	unavailable := map[PartitionID]bool{0: true, 1: true, 2: true, 3: true}

	_, uncovered, err := RunCoverageSolver(p, n, 1, 0, unavailable)
	if err != ErrInsufficientVnodesAvailable {
		t.Fatalf("err = %v, want ErrInsufficientVnodesAvailable", err)
	}
	if len(uncovered) != p {
		t.Errorf("uncovered = %v, want all %d partitions", uncovered, p)
	}
}

func TestRunCoverageSolverInvalidArguments(t *testing.T) {
	tests := []struct {
		p, n, pvc, reqID int
	}{
		{0, 1, 1, 0},
		{8, 0, 1, 0},
		{8, 9, 1, 0},
		{8, 3, -1, 0},
	}
	for _, tt := range tests {
		_, _, err := RunCoverageSolver(tt.p, tt.n, tt.pvc, tt.reqID, nil)
		if err != ErrInvalidArguments {
			t.Errorf("RunCoverageSolver(%d, %d, %d, %d) err = %v, want ErrInvalidArguments",
				tt.p, tt.n, tt.pvc, tt.reqID, err)
		}
	}
}

func assertFullyCovered(t *testing.T, coverage []Coverage, p int) {
	t.Helper()
	seen := map[PartitionID]bool{}
	for _, c := range coverage {
		for _, part := range c.Partitions {
			seen[part] = true
		}
	}
	for i := 0; i < p; i++ {
		if !seen[PartitionID(i)] {
			t.Errorf("partition %d not covered", i)
		}
	}
}
