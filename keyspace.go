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
	"math/big"
	"math/bits"
	"sort"
)

// HashBits is the width, in bits, of the ring's hash space.
const HashBits = 160

// PartitionID names one of a ring's P equally sized partitions, in
// [0, P).
type PartitionID int

// ringSpan is 2^HashBits, the total size of the hash space.
var ringSpan = new(big.Int).Lsh(big.NewInt(1), HashBits)

// RingIncrement returns 2^HashBits / P, the width of one partition in
// hash-space units.
func RingIncrement(p int) *big.Int {
	return new(big.Int).Div(ringSpan, big.NewInt(int64(p)))
}

// PartitionIndex returns the hash-space index that is the upper bound
// of partition id within a P-partition ring: id * RingIncrement(P).
func PartitionIndex(id PartitionID, p int) *big.Int {
	return new(big.Int).Mul(big.NewInt(int64(id)), RingIncrement(p))
}

// PartitionOf returns the partition responsible for hash h on a
// P-partition ring: floor(h / RingIncrement(P)).
func PartitionOf(h *big.Int, p int) PartitionID {
	q := new(big.Int).Div(h, RingIncrement(p))
	return PartitionID(q.Int64())
}

// NKeyspaces returns the N-keyspace of vnode v on a P-partition ring:
// the N partition IDs for which v is one of the N successor owners,
// i.e. {(P + v - N) mod P, ..., (P + v - 1) mod P}, in ascending
// order. The result always has cardinality min(N, P).
func NKeyspaces(v PartitionID, n, p int) []PartitionID {
	if n > p {
		n = p
	}

	out := make([]PartitionID, 0, n)
	for k := 0; k < n; k++ {
		pid := mod(int(v)-n+k, p)
		out = append(out, PartitionID(pid))
	}

	sortPartitionIDs(out)

	return out
}

// DataBits returns 160 - round(log2(T)), the bit-shift separating a
// subpartition ID from the intra-partition hash bits, for T logical
// subpartitions. T must be a power of two.
func DataBits(t int) int {
	return HashBits - bits.Len(uint(t)) + 1
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func sortPartitionIDs(ids []PartitionID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

// allPartitions returns the sorted set {0, 1, ..., p-1}.
func allPartitions(p int) []PartitionID {
	out := make([]PartitionID, p)
	for i := 0; i < p; i++ {
		out[i] = PartitionID(i)
	}
	return out
}

// The following are the sorted-set operations CoverageSolver relies
// on. All inputs and outputs are ascending, duplicate-free slices of
// PartitionID: ordered containers rather than hash sets, so iteration
// order stays deterministic.

func sortedIntersectCount(a, b []PartitionID) int {
	n, i, j := 0, 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			n++
			i++
			j++
		}
	}
	return n
}

func sortedIntersect(a, b []PartitionID) []PartitionID {
	out := make([]PartitionID, 0, minInt(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

func sortedSubtract(a, b []PartitionID) []PartitionID {
	out := make([]PartitionID, 0, len(a))
	i, j := 0, 0
	for i < len(a) {
		if j >= len(b) || a[i] < b[j] {
			out = append(out, a[i])
			i++
		} else if a[i] > b[j] {
			j++
		} else {
			i++
			j++
		}
	}
	return out
}

func sortedUnion(a, b []PartitionID) []PartitionID {
	out := make([]PartitionID, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// mod is the non-negative modulus of a (possibly negative) a by a
// positive m, matching the ring's "mod P" arithmetic.
func mod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
