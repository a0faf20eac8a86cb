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

// VnodeDescriptor is one chosen vnode in a traditional plan: the
// hash-space index identifying it, and the node that owns it.
type VnodeDescriptor struct {
	HashIndex *big.Int `json:"hashIndex"`
	Node      string   `json:"node"`
}

// Filter tells the caller to discard keys belonging to any partition
// other than those listed, for the vnode at HashIndex. Present only
// for vnodes that contributed fewer than N partitions to the plan.
//
// A filter produced by replaying a subpartition-mode VnodeCoverage
// carries Subpartition instead of BoundaryHashes: the original
// request never computed boundary hashes, only the (mask, bit_shift)
// pair identifying the subpartition.
type Filter struct {
	HashIndex      *big.Int          `json:"hashIndex"`
	BoundaryHashes []*big.Int        `json:"boundaryHashes,omitempty"`
	Subpartition   *SubpartitionMask `json:"subpartition,omitempty"`
}

// TraditionalPlan is the traditional plan shape: an ordered vnode
// list plus filters for any vnode contributing a strict subset of its
// N-keyspace. Both a from-scratch plan and a replay plan (a
// single-entry traditional plan rebuilt from a VnodeCoverage
// descriptor) use this shape.
type TraditionalPlan struct {
	Vnodes  []VnodeDescriptor `json:"vnodes"`
	Filters []Filter          `json:"filters,omitempty"`
}

// SubpartitionEntry is one logical subpartition's assignment: which
// vnode owns it, and the (id, bit_shift) pair identifying its hash
// range within that vnode's partition.
type SubpartitionEntry struct {
	HashIndex      *big.Int `json:"hashIndex"`
	Node           string   `json:"node"`
	SubpartitionID int      `json:"subpartitionId"`
	BitShift       int      `json:"bitShift"`
}

// SubpartitionPlan is the subpartition plan shape: exactly T entries,
// one per logical subpartition, unfiltered and undeduplicated
// (callers parallelize per subpartition).
type SubpartitionPlan struct {
	Entries []SubpartitionEntry `json:"entries"`
}

// Plan is the result of CreatePlan: exactly one of Traditional or
// Subpartition is set, per which mode produced it.
type Plan struct {
	Traditional  *TraditionalPlan  `json:"traditional,omitempty"`
	Subpartition *SubpartitionPlan `json:"subpartition,omitempty"`
}

// assembleTraditional converts solver output into a TraditionalPlan.
// coverage must be in solver order; that order is preserved in the
// returned plan.
func assembleTraditional(coverage []Coverage, ring RingView, n int) (*TraditionalPlan, error) {
	p := ring.NumPartitions()
	increment := RingIncrement(p)

	plan := &TraditionalPlan{
		Vnodes: make([]VnodeDescriptor, 0, len(coverage)),
	}

	for _, c := range coverage {
		vnodeIndex := PartitionIndex(PartitionID(mod(int(c.Vnode), p)), p)

		node, err := ring.IndexOwner(vnodeIndex)
		if err != nil {
			return nil, err
		}

		plan.Vnodes = append(plan.Vnodes, VnodeDescriptor{
			HashIndex: vnodeIndex,
			Node:      node,
		})

		if len(c.Partitions) < n {
			hashes := make([]*big.Int, 0, len(c.Partitions))
			for _, pid := range c.Partitions {
				boundary := mod(int(pid)+1, p)
				hashes = append(hashes, new(big.Int).Mul(big.NewInt(int64(boundary)), increment))
			}

			plan.Filters = append(plan.Filters, Filter{
				HashIndex:      vnodeIndex,
				BoundaryHashes: hashes,
			})
		}
	}

	return plan, nil
}

// assembleSubpartition builds the T-entry subpartition plan.
// Availability is deliberately ignored here -- see the XXX TODO note
// in planner.go.
func assembleSubpartition(ring RingView, t int) (*SubpartitionPlan, error) {
	if !IsPowerOfTwo(t) {
		return nil, ErrInvalidArguments
	}

	bitShift := DataBits(t)

	plan := &SubpartitionPlan{
		Entries: make([]SubpartitionEntry, 0, t),
	}

	for m := 0; m < t; m++ {
		startHash := new(big.Int).Lsh(big.NewInt(int64(m)), uint(bitShift))

		partitionOfM := ring.ResponsiblePosition(startHash)
		entry := ring.EntryAt(partitionOfM)

		plan.Entries = append(plan.Entries, SubpartitionEntry{
			HashIndex:      entry.HashIndex,
			Node:           entry.Node,
			SubpartitionID: m,
			BitShift:       bitShift,
		})
	}

	return plan, nil
}
