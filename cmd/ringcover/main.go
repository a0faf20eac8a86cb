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

// Command ringcover runs a standalone coverage-planning service: a
// fixed, static ring of nodes, an HTTP health poller keeping tabs on
// which of them answer, and a REST API (/api/plan, /api/stats) for
// computing plans against the two.
package main

import (
	"flag"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	log "github.com/couchbase/clog"

	"github.com/ringcover/ringcover"
	"github.com/ringcover/ringcover/rest"
)

func main() {
	bindHTTP := flag.String("bindHttp", "0.0.0.0:9094",
		"local address:port to listen on for REST/HTTP traffic")
	partitions := flag.Int("partitions", 64,
		"number of ring partitions (must be a power of two)")
	nodes := flag.String("nodes", "127.0.0.1:9094",
		"comma-separated list of node host:ports making up the ring")
	healthPath := flag.String("healthPath", "/api/stats",
		"HTTP path polled on each node to decide liveness")

	flag.Parse()

	nodeList := strings.Split(*nodes, ",")

	ring, err := ringcover.NewStaticRing(*partitions, nodeList)
	if err != nil {
		log.Errorf("main: NewStaticRing, err: %v", err)
		return
	}

	poll := ringcover.NewHealthPoll(nodeList, func(node string) string {
		return "http://" + node + *healthPath
	}, ringcover.HealthPollOptions{})
	defer poll.Stop()

	svc := ringcover.NewService(ring, poll, ringcover.NewStdLibLog(logWriter{}, "", 0))
	go svc.Loop()
	defer svc.Stop()

	router := mux.NewRouter()
	rest.InitRouter(router, svc)
	rest.InitStaticFileRouter(router)

	log.Printf("main: listening on %s", *bindHTTP)

	err = http.ListenAndServe(*bindHTTP, router)
	if err != nil {
		log.Errorf("main: ListenAndServe, err: %v", err)
	}
}

// logWriter adapts couchbase/clog's package-level Printf to the
// io.Writer NewStdLibLog wants, so ringcover.Service's own logging
// lands in the same stream as main's clog output.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	log.Printf("%s", string(p))
	return len(p), nil
}
