//  Copyright (c) 2015 Couchbase, Inc.
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

import "errors"

// ErrInsufficientVnodesAvailable is returned (or, with vnode_selector
// allup, recovered from) when the solver cannot cover every partition
// PVC' times with the vnodes currently available. Spec.md §4.4.4 /
// §7's InsufficientCoverage.
var ErrInsufficientVnodesAvailable = errors.New("ringcover: insufficient_vnodes_available")

// ErrInvalidArguments covers malformed coverage requests: N = 0,
// P = 0, PVC < 0, or (in subpartition mode) T not a power of two.
var ErrInvalidArguments = errors.New("ringcover: invalid arguments")
