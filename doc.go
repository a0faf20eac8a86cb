// Copyright (c) 2014 Couchbase, Inc.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the
// License. You may obtain a copy of the License at
//   http://www.apache.org/licenses/LICENSE-2.0
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an "AS
// IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
// express or implied. See the License for the specific language
// governing permissions and limitations under the License.

// Package ringcover computes coverage plans over a consistent-hash
// ring: the minimum (or near-minimum) set of vnodes whose aggregate
// responsibility covers every partition of the ring's keyspace at
// least once.
//
// The ring, cluster membership and node-health/availability are
// external collaborators (RingView, AvailabilityOracle); this package
// only consumes the narrow interfaces it needs from them. It does not
// discover node liveness, execute the plan it computes, rebalance the
// ring, or persist anything.
package ringcover
