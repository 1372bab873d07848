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

// Package plancontext bundles the external collaborators the
// fragmenter needs for one planning pass: the session/config bag, the
// planner options, and the symbol/node/fragment id allocators. It is a
// single object threaded through every rewrite rule instead of a
// long, ever-growing parameter list.
package plancontext

import (
	"go.uber.org/zap"

	"github.com/dqeio/fragmenter/go/vt/vterrors"
	"github.com/dqeio/fragmenter/go/vt/vtgate/engine"
	"github.com/dqeio/fragmenter/go/vt/vtgate/planbuilder/catalog"
)

// Options are the three boolean planner switches that control how
// aggressively the fragmenter distributes work.
type Options struct {
	// CreateSingleNodePlan forces every fragment to distribution NONE;
	// no fragment ever becomes SOURCE or FIXED.
	CreateSingleNodePlan bool
	// DistributedIndexJoins allows a distributed IndexJoin probe side to
	// be re-hashed on its join symbols; without it the IndexJoin stays in
	// the probe side's own fragment.
	DistributedIndexJoins bool
	// DistributedJoins allows INNER/LEFT/RIGHT joins to reshape both
	// sides by hash-partitioning on the equi-join keys.
	DistributedJoins bool
}

// Context bundles everything a rewrite rule needs beyond the
// PlanNode(s) it is rewriting.
type Context struct {
	Session Session
	Options Options
	Catalog catalog.Catalog

	Symbols    *engine.SymbolAllocator
	NodeIDs    *engine.NodeIDAllocator
	FragmentIDs *engine.FragmentIDAllocator

	// logger is scoped for the current call; nil until WithLogger
	// attaches one. Log always returns a usable logger regardless.
	logger *zap.Logger
}

// New validates its arguments and returns a ready-to-use Context.
// Every argument is required; a nil collaborator is fatal and detected
// here at construction rather than surfacing later as a nil-pointer
// panic mid-rewrite.
func New(session Session, options Options, cat catalog.Catalog, symbols *engine.SymbolAllocator, nodeIDs *engine.NodeIDAllocator, fragmentIDs *engine.FragmentIDAllocator) (*Context, error) {
	switch {
	case session == nil:
		return nil, vterrors.New(vterrors.InvalidArgument, "plancontext: session must not be nil")
	case cat == nil:
		return nil, vterrors.New(vterrors.InvalidArgument, "plancontext: catalog must not be nil")
	case symbols == nil:
		return nil, vterrors.New(vterrors.InvalidArgument, "plancontext: symbol allocator must not be nil")
	case nodeIDs == nil:
		return nil, vterrors.New(vterrors.InvalidArgument, "plancontext: node id allocator must not be nil")
	case fragmentIDs == nil:
		return nil, vterrors.New(vterrors.InvalidArgument, "plancontext: fragment id allocator must not be nil")
	}
	return &Context{
		Session:     session,
		Options:     options,
		Catalog:     cat,
		Symbols:     symbols,
		NodeIDs:     nodeIDs,
		FragmentIDs: fragmentIDs,
	}, nil
}

// BigQueryEnabled reports the big_query_enabled session flag consulted
// by the MarkDistinct rule.
func (c *Context) BigQueryEnabled() bool {
	return c.Session.GetBool(BigQueryEnabledKey)
}

// WithLogger returns a shallow copy of c carrying logger. Used to
// scope a single log sink (typically already tagged with a
// per-invocation correlation id) across one rewrite pass without
// mutating the Context a caller may reuse across calls.
func (c *Context) WithLogger(logger *zap.Logger) *Context {
	clone := *c
	clone.logger = logger
	return &clone
}

// Log returns c's scoped logger, or a no-op logger if WithLogger was
// never called.
func (c *Context) Log() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}
