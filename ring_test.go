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

import "testing"

func TestNewStaticRingRejectsBadInput(t *testing.T) {
	if _, err := NewStaticRing(3, []string{"a"}); err == nil {
		t.Errorf("expected error for non-power-of-two partition count")
	}
	if _, err := NewStaticRing(4, nil); err == nil {
		t.Errorf("expected error for empty node list")
	}
}

func TestStaticRingRoundRobin(t *testing.T) {
	ring, err := NewStaticRing(4, []string{"a", "b"})
	if err != nil {
		t.Fatalf("NewStaticRing err: %v", err)
	}

	list := ring.ToList()
	if len(list) != 4 {
		t.Fatalf("len(ToList()) = %d, want 4", len(list))
	}

	want := []string{"a", "b", "a", "b"}
	for i, e := range list {
		if e.Node != want[i] {
			t.Errorf("list[%d].Node = %s, want %s", i, e.Node, want[i])
		}
	}
}

func TestStaticRingResponsiblePositionRoundTrip(t *testing.T) {
	const p = 16
	ring, err := NewStaticRing(p, []string{"a"})
	if err != nil {
		t.Fatalf("NewStaticRing err: %v", err)
	}

	for v := 0; v < p; v++ {
		idx := PartitionIndex(PartitionID(v), p)
		if got := ring.ResponsiblePosition(idx); got != PartitionID(v) {
			t.Errorf("ResponsiblePosition(PartitionIndex(%d)) = %d, want %d", v, got, v)
		}
	}
}

func TestStaticRingIndexOwnerAndEntryAt(t *testing.T) {
	ring, err := NewStaticRing(4, []string{"a", "b"})
	if err != nil {
		t.Fatalf("NewStaticRing err: %v", err)
	}

	entry := ring.EntryAt(2)
	node, err := ring.IndexOwner(entry.HashIndex)
	if err != nil {
		t.Fatalf("IndexOwner err: %v", err)
	}
	if node != entry.Node {
		t.Errorf("IndexOwner(EntryAt(2).HashIndex) = %s, want %s", node, entry.Node)
	}
	if entry.Node != "a" {
		t.Errorf("EntryAt(2).Node = %s, want a (round-robin 0=a,1=b,2=a,3=b)", entry.Node)
	}
}
