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
	"fmt"
	"math/big"
)

// RingEntry pairs a hash-space index with the node that owns it, the
// shape returned by chashbin.to_list/1.
type RingEntry struct {
	HashIndex *big.Int
	Node      string
}

// RingView is the read-only view of ring metadata that the planner
// consumes. It is implemented by a cluster's real ring/membership
// machinery; ringcover only ever reads from it. Bundled here is
// StaticRing, a reference implementation good enough for tests, the
// cmd/ringcover demo, and any caller that snapshots its ring up front.
type RingView interface {
	// NumPartitions returns P, the partition count.
	NumPartitions() int

	// ToList returns every (hash_index, node_name) pair in the ring,
	// ordered by hash index, one per partition.
	ToList() []RingEntry

	// ResponsiblePosition returns the partition ID responsible for
	// hash h.
	ResponsiblePosition(h *big.Int) PartitionID

	// IndexOwner returns the node owning the vnode at hash index h.
	IndexOwner(h *big.Int) (string, error)

	// EntryAt returns the (hash_index, node) pair that owns partition
	// id.
	EntryAt(id PartitionID) RingEntry
}

// StaticRing is a fixed-membership RingView: P partitions, each owned
// by round-robining across a fixed node list. It is not a production
// ring implementation (no hashing of real keys onto nodes, no
// handoff) -- it exists so ringcover has something concrete to plan
// over in its own tests and cmd demo, the role a real chashbin plays
// in production.
type StaticRing struct {
	p       int
	nodes   []string
	entries []RingEntry // len == p, ordered by hash index
}

// NewStaticRing builds a StaticRing with p partitions (p must be a
// power of two) whose ownership round-robins across nodes in the
// order given.
func NewStaticRing(p int, nodes []string) (*StaticRing, error) {
	if !IsPowerOfTwo(p) {
		return nil, fmt.Errorf("ringcover: NewStaticRing, p must be a power of two, got %d", p)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("ringcover: NewStaticRing, no nodes given")
	}

	entries := make([]RingEntry, p)
	for i := 0; i < p; i++ {
		entries[i] = RingEntry{
			HashIndex: PartitionIndex(PartitionID(i), p),
			Node:      nodes[i%len(nodes)],
		}
	}

	return &StaticRing{p: p, nodes: nodes, entries: entries}, nil
}

func (r *StaticRing) NumPartitions() int { return r.p }

func (r *StaticRing) ToList() []RingEntry {
	out := make([]RingEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *StaticRing) ResponsiblePosition(h *big.Int) PartitionID {
	return PartitionOf(h, r.p)
}

func (r *StaticRing) IndexOwner(h *big.Int) (string, error) {
	pid := PartitionOf(h, r.p)
	if int(pid) < 0 || int(pid) >= len(r.entries) {
		return "", fmt.Errorf("ringcover: IndexOwner, hash %s out of range", h.String())
	}
	return r.entries[pid].Node, nil
}

func (r *StaticRing) EntryAt(id PartitionID) RingEntry {
	return r.entries[mod(int(id), r.p)]
}
