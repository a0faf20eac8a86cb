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

// InsufficientCoverageError wraps ErrInsufficientVnodesAvailable with
// the partitions CreatePlan could not cover, for callers that want to
// report more than a sentinel. Its Error() text is the sentinel's own,
// so service.go's history and rest/rest.go's error body, which use
// Error(), report only that. errors.Is(err,
// ErrInsufficientVnodesAvailable) still works against it.
type InsufficientCoverageError struct {
	Uncovered []PartitionID
}

func (e *InsufficientCoverageError) Error() string {
	return ErrInsufficientVnodesAvailable.Error()
}

func (e *InsufficientCoverageError) Unwrap() error {
	return ErrInsufficientVnodesAvailable
}

// CreatePlan is ringcover's single entry point: it dispatches a replay
// request, a subpartition-mode request, or a normal request, and
// returns the resulting Plan.
func CreatePlan(req PlanRequest) (*Plan, error) {
	if req.Target != nil {
		return assembleReplay(req.Target, req.LocalNode)
	}

	if req.NVal.isSubpartitionMode() {
		return createSubpartitionPlan(req)
	}

	return createNormalPlan(req)
}

// assembleReplay rebuilds the trivial single-vnode traditional plan
// described by a previously emitted VnodeCoverage. It never touches a
// RingView or AvailabilityOracle: the caller already knows which
// vnode it wants.
func assembleReplay(target *VnodeCoverage, localNode string) (*Plan, error) {
	if target.TargetHash == nil {
		return nil, ErrInvalidArguments
	}

	plan := &TraditionalPlan{
		Vnodes: []VnodeDescriptor{{
			HashIndex: target.TargetHash,
			Node:      localNode,
		}},
	}

	switch {
	case target.Subpartition != nil:
		plan.Filters = []Filter{{
			HashIndex:    target.TargetHash,
			Subpartition: target.Subpartition,
		}}

	case len(target.PartitionFilters) > 0:
		plan.Filters = []Filter{{
			HashIndex:      target.TargetHash,
			BoundaryHashes: target.PartitionFilters,
		}}
	}

	return &Plan{Traditional: plan}, nil
}

// createSubpartitionPlan handles subpartition-mode requests.
//
// XXX TODO: subpartition mode ignores req.Oracle entirely -- it always
// assigns every logical subpartition to its ring-designated owner,
// even one an AvailabilityOracle reports offline. Splitting partitions
// finer doesn't change which physical vnodes exist to own them, and
// there's no principled rerouting rule for this mode to fall back to
// yet.
func createSubpartitionPlan(req PlanRequest) (*Plan, error) {
	if req.Ring == nil {
		return nil, ErrInvalidArguments
	}

	p := req.Ring.NumPartitions()
	if req.NVal.RingSize != 0 && req.NVal.RingSize != p {
		return nil, ErrInvalidArguments
	}
	if req.NVal.T <= p {
		return nil, ErrInvalidArguments
	}

	sp, err := assembleSubpartition(req.Ring, req.NVal.T)
	if err != nil {
		return nil, err
	}

	return &Plan{Subpartition: sp}, nil
}

// createNormalPlan runs the solver against the ring's current
// availability, then assembles a TraditionalPlan from its output.
func createNormalPlan(req PlanRequest) (*Plan, error) {
	if req.Ring == nil || req.Oracle == nil {
		return nil, ErrInvalidArguments
	}

	p := req.Ring.NumPartitions()

	offline := req.Oracle.OfflineOwners(req.Service, req.Ring)
	unavailable := unavailableVnodes(offline, p)

	coverage, uncovered, err := RunCoverageSolver(p, req.NVal.N, req.PVC, req.ReqID, unavailable)
	if err != nil {
		if err != ErrInsufficientVnodesAvailable {
			return nil, err
		}

		selector := req.Selector
		if selector == "" {
			selector = SelectorAll
		}

		if selector != SelectorAllUp {
			return nil, &InsufficientCoverageError{Uncovered: uncovered}
		}
		// SelectorAllUp: fall through and assemble whatever partial
		// coverage the solver did manage.
	}

	plan, asmErr := assembleTraditional(coverage, req.Ring, req.NVal.N)
	if asmErr != nil {
		return nil, asmErr
	}

	return &Plan{Traditional: plan}, nil
}
