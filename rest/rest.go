//  Copyright (c) 2014 Couchbase, Inc.
//  Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file
//  except in compliance with the License. You may obtain a copy of the License at
//    http://www.apache.org/licenses/LICENSE-2.0
//  Unless required by applicable law or agreed to in writing, software distributed under the
//  License is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND,
//  either express or implied. See the License for the specific language governing permissions
//  and limitations under the License.

package rest

import (
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rcrowley/go-metrics"

	"github.com/ringcover/ringcover"
)

// MustEncode writes v to w as JSON; a marshal failure here means a
// programming error in the handler, not a caller mistake. On failure
// it only sets a 500 status (which has no effect once a status or body
// bytes were already written); nothing is logged.
func MustEncode(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// InitRouter registers ringcover's REST surface onto an existing
// gorilla/mux router.
func InitRouter(r *mux.Router, svc *ringcover.Service) *mux.Router {
	r.Handle("/api/plan", NewPlanHandler(svc)).Methods("POST")
	r.Handle("/api/stats", NewStatsHandler(svc)).Methods("GET")
	return r
}

// PlanHandler is a REST handler that runs CreatePlan for a JSON
// request body and returns the resulting Plan as JSON.
type PlanHandler struct {
	svc *ringcover.Service
}

func NewPlanHandler(svc *ringcover.Service) *PlanHandler {
	return &PlanHandler{svc: svc}
}

// planRequestBody is the wire shape of a POST /api/plan body. It
// mirrors ringcover.PlanRequest but with JSON-friendly primitive
// fields in place of *big.Int and the Ring/Oracle collaborators
// (which the handler supplies from svc).
type planRequestBody struct {
	N        int    `json:"n"`
	RingSize int    `json:"ringSize,omitempty"`
	T        int    `json:"t,omitempty"`
	PVC      int    `json:"pvc"`
	ReqID    int    `json:"reqId"`
	Service  string `json:"service"`
	Selector string `json:"selector,omitempty"`

	TargetHash string `json:"targetHash,omitempty"`
}

func (h *PlanHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var body planRequestBody
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		MustEncode(w, map[string]string{"status": "fail", "error": err.Error()})
		return
	}

	planReq := ringcover.PlanRequest{
		PVC:      body.PVC,
		ReqID:    body.ReqID,
		Service:  body.Service,
		Selector: ringcover.VnodeSelector(body.Selector),
	}

	if body.T > 0 {
		planReq.NVal = ringcover.SubpartitionNVal(body.N, body.RingSize, body.T)
	} else {
		planReq.NVal = ringcover.NVal(body.N)
	}

	if body.TargetHash != "" {
		hash, ok := new(big.Int).SetString(body.TargetHash, 10)
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			MustEncode(w, map[string]string{"status": "fail", "error": "bad targetHash"})
			return
		}
		planReq.Target = &ringcover.VnodeCoverage{TargetHash: hash}
	}

	plan, snapshot, err := h.svc.CreatePlan(planReq)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		MustEncode(w, map[string]string{"status": "fail", "error": err.Error()})
		return
	}

	MustEncode(w, map[string]interface{}{
		"status":   "ok",
		"snapshot": snapshot,
		"plan":     plan,
	})
}

// StatsHandler is a REST handler that returns Service's current
// rcrowley/go-metrics snapshot.
type StatsHandler struct {
	svc *ringcover.Service
}

func NewStatsHandler(svc *ringcover.Service) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	counters := map[string]int64{}
	h.svc.Registry().Each(func(name string, i interface{}) {
		if g, ok := i.(metrics.Gauge); ok {
			counters[name] = g.Value()
		}
	})

	MustEncode(w, map[string]interface{}{
		"counters": counters,
		"recent":   h.svc.Stats(),
	})
}
