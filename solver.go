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

// Coverage is one (vnode_id, covered_partitions) pair in a solver's
// output: vnode contributes the listed partition IDs toward the
// plan, a subset (or the whole) of its N-keyspace.
type Coverage struct {
	Vnode      PartitionID
	Partitions []PartitionID // ascending, unique
}

// coverageAccumulator merges successive PVC passes' (vnode,
// partitions) pairs, keeping the order vnodes were first chosen in
// (PlanAssembler needs "solver order", not vnode-id order) while
// deduping a vnode that contributes in more than one pass by
// unioning its partition sets.
type coverageAccumulator struct {
	order   []PartitionID
	byVnode map[PartitionID]*Coverage
}

func newCoverageAccumulator() *coverageAccumulator {
	return &coverageAccumulator{byVnode: map[PartitionID]*Coverage{}}
}

func (a *coverageAccumulator) alreadyCovered(v PartitionID) []PartitionID {
	c, ok := a.byVnode[v]
	if !ok {
		return nil
	}
	return c.Partitions
}

func (a *coverageAccumulator) merge(pass []Coverage) {
	for _, pc := range pass {
		existing, ok := a.byVnode[pc.Vnode]
		if !ok {
			cp := &Coverage{Vnode: pc.Vnode, Partitions: append([]PartitionID(nil), pc.Partitions...)}
			a.byVnode[pc.Vnode] = cp
			a.order = append(a.order, pc.Vnode)
			continue
		}
		existing.Partitions = sortedUnion(existing.Partitions, pc.Partitions)
	}
}

func (a *coverageAccumulator) result() []Coverage {
	out := make([]Coverage, 0, len(a.order))
	for _, v := range a.order {
		out = append(out, *a.byVnode[v])
	}
	return out
}

// candidate is one available vnode's contribution to a single solver
// pass: its fixed tie-breaker and the partitions it can still
// contribute (its N-keyspace minus whatever the accumulator already
// credited it with).
type candidate struct {
	vnode      PartitionID
	tiebreaker int
	remaining  []PartitionID
}

// candidatesForPass builds the candidate set for one solver pass.
func candidatesForPass(p, n, offset int, unavailable map[PartitionID]bool,
	accum *coverageAccumulator) []*candidate {
	out := make([]*candidate, 0, p)

	for v := 0; v < p; v++ {
		pv := PartitionID(v)
		if unavailable[pv] {
			continue
		}

		full := NKeyspaces(pv, n, p)
		remaining := sortedSubtract(full, accum.alreadyCovered(pv))

		out = append(out, &candidate{
			vnode:      pv,
			tiebreaker: mod(v+offset, p),
			remaining:  remaining,
		})
	}

	return out
}

// runPass runs the greedy set-cover loop once, over a fresh
// Uncovered = AllKeySpaces, using remaining_keyspace per candidate
// already adjusted for prior passes. It returns the
// partitions this pass contributed per chosen vnode (in selection
// order), and, on success, a nil uncovered set; on failure, the
// partitions still uncovered when no candidate could add coverage.
func runPass(p, n, offset int, unavailable map[PartitionID]bool,
	accum *coverageAccumulator) (pass []Coverage, uncovered []PartitionID, ok bool) {
	candidates := candidatesForPass(p, n, offset, unavailable, accum)
	uncoveredSet := allPartitions(p)

	for len(uncoveredSet) > 0 {
		bestIdx := -1
		bestScore := -1
		bestTiebreaker := 0

		for i, c := range candidates {
			score := sortedIntersectCount(uncoveredSet, c.remaining)
			if bestIdx == -1 || score > bestScore ||
				(score == bestScore && c.tiebreaker < bestTiebreaker) {
				bestIdx = i
				bestScore = score
				bestTiebreaker = c.tiebreaker
			}
		}

		if bestIdx == -1 || bestScore == 0 {
			return pass, uncoveredSet, false
		}

		best := candidates[bestIdx]
		covered := sortedIntersect(uncoveredSet, best.remaining)

		pass = append(pass, Coverage{Vnode: best.vnode, Partitions: covered})

		uncoveredSet = sortedSubtract(uncoveredSet, covered)
		candidates = append(candidates[:bestIdx:bestIdx], candidates[bestIdx+1:]...)
	}

	return pass, nil, true
}

// RunCoverageSolver attempts min(pvc, n) passes over the ring,
// accumulating each pass's contribution, and returns the accumulated
// coverage.
//
// When a pass cannot finish (some partition has no available vnode
// left to contribute it), RunCoverageSolver returns
// ErrInsufficientVnodesAvailable along with the coverage accumulated
// from the passes that did complete plus the partial pass, and the
// partitions that remained uncovered.
func RunCoverageSolver(p, n, pvc, reqID int, unavailable map[PartitionID]bool) (
	coverage []Coverage, uncoveredOut []PartitionID, err error) {
	if p <= 0 {
		return nil, nil, ErrInvalidArguments
	}
	if n <= 0 || n > p {
		return nil, nil, ErrInvalidArguments
	}

	pvcPrime := pvc
	if n < pvcPrime {
		pvcPrime = n
	}
	if pvcPrime < 0 {
		return nil, nil, ErrInvalidArguments
	}

	offset := mod(reqID, n)

	accum := newCoverageAccumulator()

	for pass := 0; pass < pvcPrime; pass++ {
		passCoverage, passUncovered, ok := runPass(p, n, offset, unavailable, accum)
		accum.merge(passCoverage)

		if !ok {
			return accum.result(), passUncovered, ErrInsufficientVnodesAvailable
		}
	}

	return accum.result(), nil, nil
}
