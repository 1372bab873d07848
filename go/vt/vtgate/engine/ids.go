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
	"fmt"
	"sync"
)

// PlanNodeId identifies an operator within a logical plan tree. It is
// opaque to the fragmenter beyond its use as a map key.
type PlanNodeId int64

// PlanFragmentId identifies a sealed Fragment within a SubPlan. Ids
// are assigned in fragment-creation order, which is stable for a given
// input tree, so this allocator must stay a simple monotonic counter,
// not a random id.
type PlanFragmentId int64

func (id PlanFragmentId) String() string {
	return fmt.Sprintf("fragment-%d", int64(id))
}

// NodeIDAllocator hands out fresh, monotonically increasing
// PlanNodeIds. The fragmenter uses it only for operators it inserts
// itself (Sink, Exchange, PARTIAL/FINAL aggregation splits, merge
// operators); the ids of pre-existing operators come from the input
// plan.
type NodeIDAllocator struct {
	mu   sync.Mutex
	next int64
}

// NewNodeIDAllocator returns an allocator that starts counting from
// start (exclusive): the first id returned is start+1.
func NewNodeIDAllocator(start int64) *NodeIDAllocator {
	return &NodeIDAllocator{next: start}
}

// NextID returns a fresh PlanNodeId.
func (a *NodeIDAllocator) NextID() PlanNodeId {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	return PlanNodeId(a.next)
}

// FragmentIDAllocator hands out fresh, monotonically increasing
// PlanFragmentIds in creation order.
type FragmentIDAllocator struct {
	mu   sync.Mutex
	next int64
}

// NewFragmentIDAllocator returns a fragment id allocator starting from
// zero.
func NewFragmentIDAllocator() *FragmentIDAllocator {
	return &FragmentIDAllocator{}
}

// NextID returns a fresh PlanFragmentId.
func (a *FragmentIDAllocator) NextID() PlanFragmentId {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.next
	a.next++
	return PlanFragmentId(id)
}

// SymbolAllocator hands out fresh symbols for the fragmenter's own
// use (the intermediate symbols of a PARTIAL/FINAL aggregate split).
// Naming symbols is treated as an external collaborator's concern;
// this default implementation is provided for tests and for callers
// with no richer naming scheme of their own.
type SymbolAllocator struct {
	mu     sync.Mutex
	next   int64
	prefix string
}

// NewSymbolAllocator returns a SymbolAllocator that names symbols
// "<prefix>_<name>_<n>", using prefix in place of an empty name.
func NewSymbolAllocator(prefix string) *SymbolAllocator {
	if prefix == "" {
		prefix = "sym"
	}
	return &SymbolAllocator{prefix: prefix}
}

// NewSymbol allocates a fresh symbol of the given type. The name
// argument is a caller-supplied hint folded into the generated name
// for readability in logs; it plays no role in uniqueness or
// equality.
func (a *SymbolAllocator) NewSymbol(name string, typ Type) *Symbol {
	a.mu.Lock()
	n := a.next
	a.next++
	a.mu.Unlock()
	if name == "" {
		name = a.prefix
	}
	return NewSymbol(fmt.Sprintf("%s_%s_%d", a.prefix, name, n), typ)
}
