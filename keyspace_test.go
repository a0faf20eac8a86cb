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

func TestNKeyspaces(t *testing.T) {
	tests := []struct {
		v    PartitionID
		n    int
		p    int
		want []PartitionID
	}{
		{0, 3, 64, []PartitionID{61, 62, 63}},
		{3, 5, 8, []PartitionID{0, 1, 2, 6, 7}},
		{0, 1, 1, []PartitionID{0}},
	}

	for _, tt := range tests {
		got := NKeyspaces(tt.v, tt.n, tt.p)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("NKeyspaces(%d, %d, %d) = %v, want %v",
				tt.v, tt.n, tt.p, got, tt.want)
		}
	}
}

func TestDataBits(t *testing.T) {
	tests := []struct {
		t    int
		want int
	}{
		{8, 157},
		{65536, 144},
		{1, 160},
		{2, 159},
	}

	for _, tt := range tests {
		if got := DataBits(tt.t); got != tt.want {
			t.Errorf("DataBits(%d) = %d, want %d", tt.t, got, tt.want)
		}
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	tests := []struct {
		n    int
		want bool
	}{
		{0, false},
		{1, true},
		{2, true},
		{3, false},
		{64, true},
		{63, false},
		{-4, false},
	}

	for _, tt := range tests {
		if got := IsPowerOfTwo(tt.n); got != tt.want {
			t.Errorf("IsPowerOfTwo(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestMod(t *testing.T) {
	tests := []struct {
		a, m, want int
	}{
		{5, 3, 2},
		{-1, 8, 7},
		{-9, 8, 7},
		{0, 8, 0},
	}

	for _, tt := range tests {
		if got := mod(tt.a, tt.m); got != tt.want {
			t.Errorf("mod(%d, %d) = %d, want %d", tt.a, tt.m, got, tt.want)
		}
	}
}

func idList(ids ...int) []PartitionID {
	out := make([]PartitionID, len(ids))
	for i, id := range ids {
		out[i] = PartitionID(id)
	}
	return out
}

func TestSortedSetOps(t *testing.T) {
	a := idList(1, 2, 3, 5)
	b := idList(2, 3, 4)

	if got, want := sortedIntersectCount(a, b), 2; got != want {
		t.Errorf("sortedIntersectCount = %d, want %d", got, want)
	}
	if got, want := sortedIntersect(a, b), idList(2, 3); !reflect.DeepEqual(got, want) {
		t.Errorf("sortedIntersect = %v, want %v", got, want)
	}
	if got, want := sortedSubtract(a, b), idList(1, 5); !reflect.DeepEqual(got, want) {
		t.Errorf("sortedSubtract = %v, want %v", got, want)
	}
	if got, want := sortedUnion(a, b), idList(1, 2, 3, 4, 5); !reflect.DeepEqual(got, want) {
		t.Errorf("sortedUnion = %v, want %v", got, want)
	}
}

func TestPartitionIndexAndOf(t *testing.T) {
	const p = 8
	for v := 0; v < p; v++ {
		idx := PartitionIndex(PartitionID(v), p)
		if got := PartitionOf(idx, p); got != PartitionID(v) {
			t.Errorf("PartitionOf(PartitionIndex(%d)) = %d, want %d", v, got, v)
		}
	}
}
