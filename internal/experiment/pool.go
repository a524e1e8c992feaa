/*
Copyright 2022 GramLabs, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package experiment

import (
	"sync"
	"sync/atomic"

	"github.com/thestormforge/optimize-search/internal/trial"
	"golang.org/x/sync/errgroup"
)

// Pool runs tasks on a bounded number of goroutines. The first failing task
// stops the pool from accepting or starting more work; tasks that are already
// running are allowed to finish.
type Pool struct {
	group  errgroup.Group
	failed atomic.Bool
}

// NewPool returns a pool running at most concurrency tasks at once.
func NewPool(concurrency int) *Pool {
	if concurrency < 1 {
		concurrency = 1
	}
	p := &Pool{}
	p.group.SetLimit(concurrency)
	return p
}

// Submit schedules a task, blocking while every worker is busy. The returned
// value is false if the task was refused because an earlier task failed.
func (p *Pool) Submit(task func() error) bool {
	if p.Failed() {
		return false
	}

	p.group.Go(func() error {
		if p.Failed() {
			return nil
		}
		if err := task(); err != nil {
			p.failed.Store(true)
			return err
		}
		return nil
	})
	return true
}

// Failed returns true once any task has failed.
func (p *Pool) Failed() bool {
	return p.failed.Load()
}

// Wait blocks until every submitted task has completed and returns the first error.
func (p *Pool) Wait() error {
	return p.group.Wait()
}

// ResultSink collects results from concurrent tasks.
type ResultSink struct {
	mu      sync.Mutex
	results []trial.Result
}

// Put adds a result, it is safe to call from any goroutine.
func (s *ResultSink) Put(r trial.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
}

// Len returns the number of results currently held.
func (s *ResultSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

// Drain removes and returns every result in insertion order.
func (s *ResultSink) Drain() []trial.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := s.results
	s.results = nil
	return results
}
