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

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

const defaultHealthSampleInterval = 1 * time.Second

// HealthSample is one probe's outcome: a node answered (or didn't)
// when polled for liveness.
type HealthSample struct {
	Node     string
	Start    time.Time
	Duration time.Duration
	Error    error
}

// HealthPollOptions configures NewHealthPoll.
type HealthPollOptions struct {
	SampleInterval time.Duration // defaults to defaultHealthSampleInterval

	// HttpGet defaults to http.Get; override for testing.
	HttpGet func(url string) (*http.Response, error)

	// SampleCh, if non-nil, receives every HealthSample taken.
	SampleCh chan HealthSample
}

// HealthPoll is an AvailabilityOracle that polls a fixed set of nodes'
// health endpoints on a ticker and remembers the last outcome per
// node, the ringcover counterpart of rebalance.MonitorNodes's stats/
// diag sampling loop.
type HealthPoll struct {
	healthURL func(node string) string
	options   HealthPollOptions

	mu     sync.RWMutex
	down   map[string]bool
	stopCh chan struct{}
}

// NewHealthPoll starts polling every node in nodes. healthURL builds
// the URL to probe for a given node (e.g. "http://"+node+"/health").
func NewHealthPoll(nodes []string, healthURL func(node string) string,
	options HealthPollOptions) *HealthPoll {
	h := &HealthPoll{
		healthURL: healthURL,
		options:   options,
		down:      map[string]bool{},
		stopCh:    make(chan struct{}),
	}

	for _, node := range nodes {
		go h.runNode(node)
	}

	return h
}

// Stop ends all polling goroutines.
func (h *HealthPoll) Stop() { close(h.stopCh) }

func (h *HealthPoll) runNode(node string) {
	interval := h.options.SampleInterval
	if interval <= 0 {
		interval = defaultHealthSampleInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.sample(node, time.Now())

	for {
		select {
		case <-h.stopCh:
			return
		case t, ok := <-ticker.C:
			if !ok {
				return
			}
			h.sample(node, t)
		}
	}
}

func (h *HealthPoll) sample(node string, start time.Time) {
	httpGet := h.options.HttpGet
	if httpGet == nil {
		httpGet = http.Get
	}

	res, err := httpGet(h.healthURL(node))
	duration := time.Since(start)

	if err == nil && res != nil {
		res.Body.Close()
		if res.StatusCode != 200 {
			err = fmt.Errorf("ringcover: health probe for %s, status %d",
				node, res.StatusCode)
		}
	} else if err == nil {
		err = fmt.Errorf("ringcover: health probe for %s, no response", node)
	}

	h.mu.Lock()
	h.down[node] = err != nil
	h.mu.Unlock()

	if h.options.SampleCh != nil {
		select {
		case <-h.stopCh:
		case h.options.SampleCh <- HealthSample{
			Node: node, Start: start, Duration: duration, Error: err,
		}:
		}
	}
}

// OfflineOwners implements AvailabilityOracle: every ring entry whose
// node was down on its last probe.
func (h *HealthPoll) OfflineOwners(service string, ring RingView) []RingEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var offline []RingEntry
	for _, e := range ring.ToList() {
		if h.down[e.Node] {
			offline = append(offline, e)
		}
	}
	return offline
}
