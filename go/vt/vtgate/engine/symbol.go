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

import "fmt"

// Type is an opaque type tag carried by a Symbol. The fragmenter never
// interprets it beyond passing it through to freshly allocated
// intermediate symbols.
type Type string

// Symbol is an opaque, identity-compared column reference. Two symbols
// are the same column iff they are the same *Symbol pointer; symbols
// are never compared by name.
type Symbol struct {
	// Name is informational only (used in logs and String()); it plays
	// no role in equality.
	Name string
	Typ  Type
}

// NewSymbol constructs a Symbol directly. Rewrite rules that need a
// fresh symbol should go through a plancontext allocator instead, so
// that name collisions across a single planning pass stay visible in
// one place.
func NewSymbol(name string, typ Type) *Symbol {
	return &Symbol{Name: name, Typ: typ}
}

func (s *Symbol) String() string {
	if s == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s:%s", s.Name, s.Typ)
}

// SymbolSet is an unordered set of symbols, compared by pointer
// identity. It backs the MarkDistinct "already partitioned" check and
// Contains, which the sanity check uses for its symbol-flow checks.
type SymbolSet map[*Symbol]struct{}

// NewSymbolSet builds a SymbolSet from a slice of symbols.
func NewSymbolSet(symbols ...*Symbol) SymbolSet {
	set := make(SymbolSet, len(symbols))
	for _, s := range symbols {
		set[s] = struct{}{}
	}
	return set
}

// Equal reports whether two symbol sets contain exactly the same
// symbols, ignoring order and duplicates.
func (s SymbolSet) Equal(other SymbolSet) bool {
	if len(s) != len(other) {
		return false
	}
	for sym := range s {
		if _, ok := other[sym]; !ok {
			return false
		}
	}
	return true
}

// Contains reports whether every symbol referenced by candidate exists
// in target's output list. Used by the sanity check's symbol-flow
// invariant.
func Contains(target []*Symbol, candidate []*Symbol) bool {
	available := NewSymbolSet(target...)
	for _, c := range candidate {
		if _, ok := available[c]; !ok {
			return false
		}
	}
	return true
}
