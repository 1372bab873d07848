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

import "github.com/cespare/xxhash/v2"

// Distribution classifies how many instances of a fragment run, and
// where.
type Distribution int

const (
	// Source is a fragment that reads a partitioned base table; its
	// cardinality is determined by the source's splits.
	Source Distribution = iota
	// Fixed is a fragment that runs on a configurable number of
	// workers, each receiving a hash-partitioned slice.
	Fixed
	// CoordinatorOnly is exactly one instance, pinned to the
	// coordinator.
	CoordinatorOnly
	// None is exactly one instance, on any worker.
	None
)

func (d Distribution) String() string {
	switch d {
	case Source:
		return "SOURCE"
	case Fixed:
		return "FIXED"
	case CoordinatorOnly:
		return "COORDINATOR_ONLY"
	case None:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

// IsDistributed reports whether d spans more than one instance.
func (d Distribution) IsDistributed() bool {
	return d == Source || d == Fixed
}

// PartitioningKind distinguishes an unpartitioned sink from a
// hash-partitioned one.
type PartitioningKind int

const (
	// PartitioningNone means the fragment's sink hands all of its
	// rows to a single consumer, unpartitioned.
	PartitioningNone PartitioningKind = iota
	// PartitioningHash means the fragment's sink hash-partitions rows
	// by a key list, optionally through an explicit hash symbol.
	PartitioningHash
)

// OutputPartitioning describes how a sealed fragment's sink
// distributes rows to the consuming Exchange. Only sealed fragments
// carry one.
type OutputPartitioning struct {
	Kind Kind
	// By is the ordered list of partitioning key symbols. Non-empty
	// iff Kind == PartitioningHash.
	By []*Symbol
	// Hash is an optional pre-computed hash symbol; when nil, the
	// consumer is expected to hash By itself.
	Hash *Symbol
}

// Kind aliases PartitioningKind so call sites can write
// engine.OutputPartitioning{Kind: engine.PartitioningHash, ...}
// without stutter.
type Kind = PartitioningKind

// NoPartitioning is the zero-value, unpartitioned OutputPartitioning.
var NoPartitioning = OutputPartitioning{Kind: PartitioningNone}

// HashPartitioning builds a HASH OutputPartitioning over by, with an
// optional pre-computed hash symbol.
func HashPartitioning(by []*Symbol, hash *Symbol) OutputPartitioning {
	return OutputPartitioning{Kind: PartitioningHash, By: by, Hash: hash}
}

// IsHash reports whether p is a HASH partitioning over a non-empty key
// list, the shape required of every one of a FIXED fragment's children.
func (p OutputPartitioning) IsHash() bool {
	return p.Kind == PartitioningHash && len(p.By) > 0
}

// KeyDigest returns an order-independent fingerprint of p's key set,
// used by the MarkDistinct "already partitioned by these symbols"
// test as a cheap pre-check ahead of KeySet comparison. Two
// partitionings with the same key set (any order, no duplicates)
// produce the same digest.
func (p OutputPartitioning) KeyDigest() uint64 {
	if !p.IsHash() {
		return 0
	}
	var acc uint64
	for _, sym := range p.By {
		h := xxhash.Sum64String(sym.String())
		// XOR makes the accumulation order-independent: key sets are
		// compared unordered.
		acc ^= h
	}
	return acc
}

// KeySet returns p's key list as a SymbolSet for exact (pointer
// identity) unordered comparison, used wherever a digest collision
// must be ruled out before trusting equality.
func (p OutputPartitioning) KeySet() SymbolSet {
	return NewSymbolSet(p.By...)
}
