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

package fragment

import (
	"github.com/dqeio/fragmenter/go/vt/vtgate/engine"
	"github.com/dqeio/fragmenter/go/vt/vtgate/planbuilder/plancontext"
)

// rewriteLimit rewrites a Limit node into: straight-through,
// then, if the builder ended up distributed, a local partial limit
// capped by a global merge limit on a NONE fragment. The local partial
// limit drops rows before shuffling; the single-instance merge
// enforces the global count.
func rewriteLimit(ctx *plancontext.Context, n *engine.Limit) (*Builder, error) {
	b, err := rewrite(ctx, n.Input)
	if err != nil {
		return nil, err
	}
	if err := b.SetRoot(engine.NewLimit(n.ID(), b.Root(), n.Count)); err != nil {
		return nil, err
	}
	if !b.IsDistributed() {
		return b, nil
	}
	next, err := mergeUpward(ctx, b)
	if err != nil {
		return nil, err
	}
	merge := engine.NewLimit(ctx.NodeIDs.NextID(), next.Root(), n.Count)
	if err := next.SetRoot(merge); err != nil {
		return nil, err
	}
	return next, nil
}

// rewriteDistinctLimit rewrites a DistinctLimit node into,
// which is the same shape as Limit's.
func rewriteDistinctLimit(ctx *plancontext.Context, n *engine.DistinctLimit) (*Builder, error) {
	b, err := rewrite(ctx, n.Input)
	if err != nil {
		return nil, err
	}
	if err := b.SetRoot(engine.NewDistinctLimit(n.ID(), b.Root(), n.Count, n.DistinctSymbols)); err != nil {
		return nil, err
	}
	if !b.IsDistributed() {
		return b, nil
	}
	next, err := mergeUpward(ctx, b)
	if err != nil {
		return nil, err
	}
	merge := engine.NewDistinctLimit(ctx.NodeIDs.NextID(), next.Root(), n.Count, n.DistinctSymbols)
	if err := next.SetRoot(merge); err != nil {
		return nil, err
	}
	return next, nil
}
