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

// rewriteUnion rewrites a Union node: under single-node
// mode, all sources fuse into one NONE fragment. Otherwise every
// source is sealed into its own fragment behind a Sink, and the root
// becomes a NONE fragment whose Exchange references all of them — the
// Exchange is the union point.
func rewriteUnion(ctx *plancontext.Context, n *engine.Union) (*Builder, error) {
	if ctx.Options.CreateSingleNodePlan {
		sources := make([]engine.PlanNode, len(n.Sources))
		var children []*engine.Fragment
		for i, src := range n.Sources {
			b, err := rewrite(ctx, src)
			if err != nil {
				return nil, err
			}
			sources[i] = b.Root()
			children = append(children, b.Children()...)
		}
		op := engine.NewUnion(n.ID(), sources, n.OutputSymbols())
		merged := singleNode(ctx, op)
		if err := merged.SetChildren(children); err != nil {
			return nil, err
		}
		return merged, nil
	}

	fragmentIDs := make([]engine.PlanFragmentId, 0, len(n.Sources))
	sealedFragments := make([]*engine.Fragment, 0, len(n.Sources))
	for _, src := range n.Sources {
		b, err := rewrite(ctx, src)
		if err != nil {
			return nil, err
		}
		if err := capWithSink(ctx, b); err != nil {
			return nil, err
		}
		sealed, err := b.Build()
		if err != nil {
			return nil, err
		}
		sealedFragments = append(sealedFragments, sealed)
		fragmentIDs = append(fragmentIDs, sealed.ID)
	}

	exchange := engine.NewExchange(ctx.NodeIDs.NextID(), fragmentIDs, n.OutputSymbols())
	merged := singleNode(ctx, exchange)
	if err := merged.SetChildren(sealedFragments); err != nil {
		return nil, err
	}
	return merged, nil
}
