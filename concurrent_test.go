// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build !integration

package routemap

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"
)

// ConcurrentTestSuite exercises matching from many goroutines.
// Run with: go test -race -run TestConcurrentTestSuite
type ConcurrentTestSuite struct {
	suite.Suite
}

// layeredRouter returns a router with a loaded snapshot, one runtime route
// and a result cache small enough to evict constantly.
func (s *ConcurrentTestSuite) layeredRouter() *Router {
	src := MustNew()
	s.Require().NoError(src.Handle("health", "/health", nil, "GET"))
	s.Require().NoError(src.Handle("users.show", "/users/[id]", nil, "GET"))
	s.Require().NoError(src.Handle("users.update", "/users/[id]", nil, "PUT"))

	r := MustNew(WithResultCache(8))
	s.Require().NoError(r.LoadSnapshot(src.Snapshot()))
	s.Require().NoError(r.Handle("runtime.show", "/runtime/[slug]", nil, "GET"))

	return r
}

func (s *ConcurrentTestSuite) TestConcurrentMatchWithEviction() {
	r := s.layeredRouter()

	const workers = 8
	const perWorker = 500

	var wg sync.WaitGroup
	var failures atomic.Int64

	for w := range workers {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := range perWorker {
				id := w*perWorker + i

				m, err := r.Match("GET", fmt.Sprintf("/users/%d", id))
				if err != nil || m.Route.Name() != "users.show" || m.Params["id"] != id {
					failures.Add(1)
				}

				m, err = r.Match("GET", "/health")
				if err != nil || m.Route.Name() != "health" {
					failures.Add(1)
				}

				m, err = r.Match("GET", fmt.Sprintf("/runtime/item-%d", i%16))
				if err != nil || m.Params["slug"] != fmt.Sprintf("item-%d", i%16) {
					failures.Add(1)
				}

				if _, err = r.Match("DELETE", "/users/1"); err == nil {
					failures.Add(1)
				}
			}
		}(w)
	}

	wg.Wait()

	s.Zero(failures.Load(), "every concurrent match should resolve correctly")

	stats := r.ResultCacheStats()
	s.Positive(stats.Evictions, "a cache of 8 entries should evict under this load")
	s.LessOrEqual(stats.Size, 8)
	// Rejected matches are looked up too, so all four calls count.
	s.Equal(uint64(workers*perWorker*4), stats.Hits+stats.Misses)
}

func (s *ConcurrentTestSuite) TestConcurrentMatchDuringRegistration() {
	r := s.layeredRouter()

	const routes = 200

	var wg sync.WaitGroup
	var failures atomic.Int64
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(done)
		for i := range routes {
			if err := r.Handle(fmt.Sprintf("extra.%d", i), fmt.Sprintf("/extra/%d", i), nil, "GET"); err != nil {
				failures.Add(1)
			}
		}
	}()

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				if m, err := r.Match("GET", "/users/42"); err != nil || m.Params["id"] != 42 {
					failures.Add(1)
				}
				if _, err := r.Match("GET", "/runtime/a-b"); err != nil {
					failures.Add(1)
				}
			}
		}()
	}

	wg.Wait()

	s.Zero(failures.Load())
	s.Len(r.Routes(), 3+1+routes)

	m, err := r.Match("GET", fmt.Sprintf("/extra/%d", routes-1))
	s.Require().NoError(err)
	s.Equal(fmt.Sprintf("extra.%d", routes-1), m.Route.Name())
}

func (s *ConcurrentTestSuite) TestConcurrentURLGeneration() {
	r := s.layeredRouter()

	var wg sync.WaitGroup
	var failures atomic.Int64

	for w := range 8 {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := range 200 {
				want := fmt.Sprintf("/users/%d", w*1000+i)
				got, err := r.URL("users.show", map[string]any{"id": w*1000 + i})
				if err != nil || got != want {
					failures.Add(1)
				}
			}
		}(w)
	}

	wg.Wait()

	s.Zero(failures.Load())
}

func TestConcurrentTestSuite(t *testing.T) {
	suite.Run(t, new(ConcurrentTestSuite))
}
