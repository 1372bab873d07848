/*
Copyright 2024 The Fragmenter Authors.

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

package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeIDAllocatorMonotonic(t *testing.T) {
	a := NewNodeIDAllocator(10)
	assert.Equal(t, PlanNodeId(11), a.NextID())
	assert.Equal(t, PlanNodeId(12), a.NextID())
}

func TestFragmentIDAllocatorStartsAtZero(t *testing.T) {
	a := NewFragmentIDAllocator()
	assert.Equal(t, PlanFragmentId(0), a.NextID())
	assert.Equal(t, PlanFragmentId(1), a.NextID())
	assert.Equal(t, "fragment-1", PlanFragmentId(1).String())
}

func TestAllocatorsAreConcurrencySafe(t *testing.T) {
	a := NewFragmentIDAllocator()
	seen := make(chan PlanFragmentId, 100)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- a.NextID()
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[PlanFragmentId]struct{})
	for id := range seen {
		unique[id] = struct{}{}
	}
	assert.Len(t, unique, 100, "concurrent NextID calls must never hand out the same id twice")
}

func TestSymbolAllocatorProducesDistinctSymbols(t *testing.T) {
	a := NewSymbolAllocator("agg")
	s1 := a.NewSymbol("count", "bigint")
	s2 := a.NewSymbol("count", "bigint")
	assert.NotSame(t, s1, s2)
	assert.NotEqual(t, s1.Name, s2.Name)
}
