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

// Package catalog defines the function catalog contract the
// fragmenter consults to decide whether an aggregate is decomposable,
// plus one in-memory implementation.
package catalog

import (
	"sync"

	"github.com/dqeio/fragmenter/go/vt/vterrors"
	"github.com/dqeio/fragmenter/go/vt/vtgate/engine"
)

// Signature identifies a function by name and argument arity; it is
// the catalog's lookup key.
type Signature struct {
	Name  string
	Arity int
}

// FunctionInfo is what the catalog knows about one aggregate
// function.
type FunctionInfo interface {
	// Name is the function's canonical name.
	Name() string
	// IsDecomposable reports whether the function factors into a
	// partial-over-disjoint-partitions stage plus an associative
	// combiner.
	IsDecomposable() bool
	// IntermediateType is the type of the value the partial stage
	// emits and the final stage consumes. Only meaningful when
	// IsDecomposable is true.
	IntermediateType() engine.Type
}

// Catalog is the fragmenter's view of the function catalog external
// collaborator: resolveFunction(signature) -> FunctionInfo.
type Catalog interface {
	ResolveFunction(sig Signature) (FunctionInfo, error)
}

type functionInfo struct {
	name             string
	decomposable     bool
	intermediateType engine.Type
}

func (f functionInfo) Name() string                 { return f.name }
func (f functionInfo) IsDecomposable() bool          { return f.decomposable }
func (f functionInfo) IntermediateType() engine.Type { return f.intermediateType }

// StaticCatalog is a map-backed Catalog guarded by a RWMutex: its
// Register method populates the map under a write lock, and lookups
// take a read lock.
type StaticCatalog struct {
	mu   sync.RWMutex
	fns  map[Signature]FunctionInfo
}

// NewStaticCatalog returns an empty catalog. Use Register to populate
// it, or NewDefaultCatalog for one pre-seeded with common aggregates.
func NewStaticCatalog() *StaticCatalog {
	return &StaticCatalog{fns: make(map[Signature]FunctionInfo)}
}

// Register adds or replaces the FunctionInfo for sig.
func (c *StaticCatalog) Register(sig Signature, info FunctionInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fns[sig] = info
}

// ResolveFunction implements Catalog.
func (c *StaticCatalog) ResolveFunction(sig Signature) (FunctionInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.fns[sig]
	if !ok {
		return nil, vterrors.Errorf(vterrors.NotFound, "unknown function: %s/%d", sig.Name, sig.Arity)
	}
	return info, nil
}

// NewDecomposableFunction builds a FunctionInfo for a decomposable
// aggregate: one that factors into a per-partition partial stage plus
// a final stage that recombines the partial results under the same
// function name.
func NewDecomposableFunction(name string, intermediateType engine.Type) FunctionInfo {
	return functionInfo{name: name, decomposable: true, intermediateType: intermediateType}
}

// NewNonDecomposableFunction builds a FunctionInfo for an aggregate
// with no associative combiner (e.g. an exact percentile).
func NewNonDecomposableFunction(name string) FunctionInfo {
	return functionInfo{name: name, decomposable: false}
}

// NewDefaultCatalog returns a StaticCatalog pre-seeded with the
// handful of aggregates most fixtures need: count/sum/avg/min/max as
// decomposable, approx_percentile as the canonical non-decomposable
// example.
func NewDefaultCatalog() *StaticCatalog {
	c := NewStaticCatalog()
	c.Register(Signature{Name: "count", Arity: 0}, NewDecomposableFunction("count", engine.Type("bigint")))
	c.Register(Signature{Name: "count", Arity: 1}, NewDecomposableFunction("count", engine.Type("bigint")))
	c.Register(Signature{Name: "sum", Arity: 1}, NewDecomposableFunction("sum", engine.Type("double")))
	c.Register(Signature{Name: "min", Arity: 1}, NewDecomposableFunction("min", engine.Type("double")))
	c.Register(Signature{Name: "max", Arity: 1}, NewDecomposableFunction("max", engine.Type("double")))
	c.Register(Signature{Name: "avg", Arity: 1}, NewDecomposableFunction("avg", engine.Type("row(sum double, count bigint)")))
	c.Register(Signature{Name: "approx_percentile", Arity: 2}, NewNonDecomposableFunction("approx_percentile"))
	return c
}

var _ Catalog = (*StaticCatalog)(nil)
