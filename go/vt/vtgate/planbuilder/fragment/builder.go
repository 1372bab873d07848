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

// Package fragment implements the bottom-up plan rewriter: it walks a
// logical plan tree and produces a DAG of plan fragments connected by
// Sink/Exchange pairs. Builder is its mutable accumulator for the
// fragment currently being built up; the rules_*.go files hold the
// one rewrite rule per operator variant; sanity.go validates the
// finished DAG.
package fragment

import (
	"go.uber.org/zap"

	"github.com/dqeio/fragmenter/go/vt/vterrors"
	"github.com/dqeio/fragmenter/go/vt/vtgate/engine"
	"github.com/dqeio/fragmenter/go/vt/vtgate/planbuilder/plancontext"
)

// Builder is the mutable accumulator for one open fragment. It is
// created by one of the factories
// below, mutated by SetRoot/SetHashOutputPartitioning/AddChild as the
// rewrite proceeds bottom-up, and consumed exactly once by Build.
type Builder struct {
	id                 engine.PlanFragmentId
	distribution       engine.Distribution
	root               engine.PlanNode
	partitionedSource  *engine.PlanNodeId
	children           []*engine.Fragment
	outputPartitioning engine.OutputPartitioning
	logger             *zap.Logger

	sealed   bool
	sealedAs *engine.Fragment
}

func newBuilder(ctx *plancontext.Context, dist engine.Distribution, root engine.PlanNode) *Builder {
	return &Builder{
		id:           ctx.FragmentIDs.NextID(),
		distribution: dist,
		root:         root,
		logger:       ctx.Log(),
	}
}

// singleNode opens a NONE-distribution builder rooted at root.
func singleNode(ctx *plancontext.Context, root engine.PlanNode) *Builder {
	return newBuilder(ctx, engine.None, root)
}

// singleNodeSource opens a NONE-distribution builder rooted at root,
// still recording partitionedSource: under single-node mode a table
// scan's distribution reads NONE like any other leaf, but the id of
// the base table it read is carried through unchanged for whatever
// downstream consults it.
func singleNodeSource(ctx *plancontext.Context, root engine.PlanNode, partitionedSource engine.PlanNodeId) *Builder {
	b := newBuilder(ctx, engine.None, root)
	id := partitionedSource
	b.partitionedSource = &id
	return b
}

// fixed opens a FIXED-distribution builder rooted at root.
func fixed(ctx *plancontext.Context, root engine.PlanNode) *Builder {
	return newBuilder(ctx, engine.Fixed, root)
}

// source opens a SOURCE-distribution builder rooted at root, recording
// partitionedSource as the base table this fragment's partitioning
// derives from.
func source(ctx *plancontext.Context, root engine.PlanNode, partitionedSource engine.PlanNodeId) *Builder {
	b := newBuilder(ctx, engine.Source, root)
	id := partitionedSource
	b.partitionedSource = &id
	return b
}

// coordinatorOnly opens a COORDINATOR_ONLY-distribution builder rooted
// at root.
func coordinatorOnly(ctx *plancontext.Context, root engine.PlanNode) *Builder {
	return newBuilder(ctx, engine.CoordinatorOnly, root)
}

// ID returns this builder's fragment id, assigned at creation time.
func (b *Builder) ID() engine.PlanFragmentId { return b.id }

// Distribution returns this builder's distribution class.
func (b *Builder) Distribution() engine.Distribution { return b.distribution }

// IsDistributed reports whether this builder's distribution spans more
// than one instance.
func (b *Builder) IsDistributed() bool { return b.distribution.IsDistributed() }

// Root returns the current root operator of the open fragment.
func (b *Builder) Root() engine.PlanNode { return b.root }

// PartitionedSource returns the PlanNodeId of the TableScan this
// fragment's SOURCE partitioning derives from, or nil if this fragment
// has no such scan. Under single-node mode it is still set for a
// scan's fragment even though distribution reads NONE.
func (b *Builder) PartitionedSource() *engine.PlanNodeId { return b.partitionedSource }

// Children returns the sealed child fragments attached so far.
func (b *Builder) Children() []*engine.Fragment {
	out := make([]*engine.Fragment, len(b.children))
	copy(out, b.children)
	return out
}

// SetRoot replaces the builder's current root. Callers are expected
// to pass an op whose input subtree already references the previous
// root, or an inserted Exchange in its place; that is enforced by
// convention in the rewrite rules, not by this method, since verifying
// it in general requires walking op's full subtree on every call.
func (b *Builder) SetRoot(op engine.PlanNode) error {
	if b.sealed {
		return vterrors.New(vterrors.Internal, "fragment: SetRoot called on a sealed builder")
	}
	b.root = op
	return nil
}

// SetHashOutputPartitioning records that this fragment's sink will
// hash-partition its rows by symbols. It requires that every listed
// symbol appears in the current root's output. Calling it more than
// once before Build overwrites the prior value: the only consumer of
// the partitioning is Build itself, so no earlier observer can be
// invalidated by a later call.
func (b *Builder) SetHashOutputPartitioning(symbols []*engine.Symbol, hash *engine.Symbol) error {
	if b.sealed {
		return vterrors.New(vterrors.Internal, "fragment: SetHashOutputPartitioning called on a sealed builder")
	}
	if !engine.Contains(b.root.OutputSymbols(), symbols) {
		return vterrors.Errorf(vterrors.Internal, "fragment %s: hash partitioning symbols not in root output", b.id)
	}
	b.outputPartitioning = engine.HashPartitioning(symbols, hash)
	return nil
}

// AddChild appends a sealed fragment to this builder's child list.
// Children are never removed once added.
func (b *Builder) AddChild(child *engine.Fragment) error {
	if b.sealed {
		return vterrors.New(vterrors.Internal, "fragment: AddChild called on a sealed builder")
	}
	if child == nil {
		return vterrors.New(vterrors.Internal, "fragment: AddChild called with a nil child")
	}
	b.children = append(b.children, child)
	return nil
}

// SetChildren replaces the builder's child list wholesale.
func (b *Builder) SetChildren(children []*engine.Fragment) error {
	if b.sealed {
		return vterrors.New(vterrors.Internal, "fragment: SetChildren called on a sealed builder")
	}
	b.children = append([]*engine.Fragment{}, children...)
	return nil
}

// Build seals the builder into an immutable Fragment. Build is
// idempotent: calling it again after the first call returns the same
// Fragment without allocating a new one or re-running validation.
func (b *Builder) Build() (*engine.Fragment, error) {
	if b.sealed {
		return b.sealedAs, nil
	}
	if b.root == nil {
		return nil, vterrors.Errorf(vterrors.Internal, "fragment %s: cannot build with a nil root", b.id)
	}
	if b.distribution == engine.Fixed {
		// FIXED fragments are always fed by at least one hash-partitioned
		// Exchange; a hash-distributed join feeds two (one per side), a
		// plain rehash boundary feeds one. Every one of them must be
		// HASH-partitioned, since a non-hash child would leave the fixed
		// worker pool with no rule for which worker owns which rows.
		if len(b.children) == 0 {
			return nil, vterrors.Errorf(vterrors.Internal, "fragment %s: FIXED distribution requires at least one child, got 0", b.id)
		}
		for _, child := range b.children {
			if !child.OutputPartitioning.IsHash() {
				return nil, vterrors.Errorf(vterrors.Internal, "fragment %s: FIXED distribution's children must all have HASH output partitioning", b.id)
			}
		}
	}
	f := &engine.Fragment{
		ID:                 b.id,
		Root:               b.root,
		Distribution:       b.distribution,
		OutputPartitioning: b.outputPartitioning,
		PartitionedSource:  b.partitionedSource,
		Children:           append([]*engine.Fragment{}, b.children...),
	}
	b.sealed = true
	b.sealedAs = f
	b.logger.Debug("fragment sealed",
		zapDistribution(f.Distribution),
		zapFragmentID(f.ID),
		zapChildCount(len(f.Children)),
	)
	return f, nil
}
