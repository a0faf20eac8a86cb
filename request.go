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

import "math/big"

// VnodeSelector picks what CreatePlan does when the solver cannot
// fully cover the ring: ask for everything (and fail if it can't get
// it) or settle for whatever's reachable. Spec.md §3/§4.5.2 describe
// these as the bare atoms "all"/"allup"; ringcover gives them a type
// so callers get a compile error instead of a typo'd string.
type VnodeSelector string

const (
	// SelectorAll requires every partition be covered; CreatePlan
	// returns ErrInsufficientVnodesAvailable if it can't be.
	SelectorAll VnodeSelector = "all"

	// SelectorAllUp accepts partial coverage: CreatePlan returns
	// whatever could be covered with the vnodes currently available.
	SelectorAllUp VnodeSelector = "allup"
)

// SubpartitionMask identifies one logical subpartition: its ID (the
// spec's "mask") and the bit-shift separating it from intra-partition
// hash bits.
type SubpartitionMask struct {
	Mask     int
	BitShift int
}

// VnodeCoverage is a previously emitted single-vnode plan element,
// captured by a caller that wants to retry exactly that element. It
// is an opaque descriptor from ringcover's point of view: CreatePlan
// rebuilds a trivial one-element plan from it without consulting the
// ring or the availability oracle.
type VnodeCoverage struct {
	TargetHash *big.Int

	// PartitionFilters, if non-empty, are the ordered partition-
	// boundary hashes the original plan element carried.
	PartitionFilters []*big.Int

	// Subpartition is set when the original plan element was part of
	// a subpartition plan.
	Subpartition *SubpartitionMask
}

// NValSpec selects normal mode (just N) or subpartition mode (N,
// RingSize, T).
type NValSpec struct {
	N int

	// RingSize and T are set only in subpartition mode; T is the
	// number of logical subpartitions requested (T > RingSize,
	// T a power of two).
	RingSize int
	T        int
}

// NVal builds a normal-mode nval_spec.
func NVal(n int) NValSpec { return NValSpec{N: n} }

// SubpartitionNVal builds a subpartition-mode nval_spec requesting t
// logical subpartitions over a ring of ringSize partitions.
func SubpartitionNVal(n, ringSize, t int) NValSpec {
	return NValSpec{N: n, RingSize: ringSize, T: t}
}

func (s NValSpec) isSubpartitionMode() bool { return s.T > 0 }

// PlanRequest bundles everything CreatePlan needs: either a replay
// Target, or a fresh request described by
// NVal/PVC/ReqID/Service/Selector, plus the two collaborators (Ring,
// Oracle) and the LocalNode a replay plan is attributed to.
type PlanRequest struct {
	// Target, if non-nil, makes this a replay request; every other
	// field below except LocalNode is ignored.
	Target *VnodeCoverage

	NVal     NValSpec
	PVC      int
	ReqID    int
	Service  string
	Selector VnodeSelector // defaults to SelectorAll if empty

	Ring   RingView
	Oracle AvailabilityOracle

	// LocalNode is the node a replay plan's single vnode is
	// attributed to.
	LocalNode string
}
