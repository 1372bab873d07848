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

// rewriteSemiJoin rewrites a SemiJoin node into: if either side
// is distributed, the filtering side is sealed and shipped through an
// Exchange spliced into the source builder; otherwise both sides fuse
// into a single NONE fragment.
func rewriteSemiJoin(ctx *plancontext.Context, n *engine.SemiJoin) (*Builder, error) {
	source, err := rewrite(ctx, n.Source)
	if err != nil {
		return nil, err
	}
	filtering, err := rewrite(ctx, n.FilteringSource)
	if err != nil {
		return nil, err
	}

	if !source.IsDistributed() && !filtering.IsDistributed() {
		op := engine.NewSemiJoin(n.ID(), source.Root(), filtering.Root(), n.SourceJoinSymbol, n.FilteringSourceJoinSymbol, n.SemiJoinOutput)
		merged := singleNode(ctx, op)
		children := append(source.Children(), filtering.Children()...)
		if err := merged.SetChildren(children); err != nil {
			return nil, err
		}
		return merged, nil
	}

	if err := capWithSink(ctx, filtering); err != nil {
		return nil, err
	}
	sealedFiltering, err := filtering.Build()
	if err != nil {
		return nil, err
	}
	exchange := engine.NewExchange(ctx.NodeIDs.NextID(), []engine.PlanFragmentId{sealedFiltering.ID}, sealedFiltering.Root.OutputSymbols())
	op := engine.NewSemiJoin(n.ID(), source.Root(), exchange, n.SourceJoinSymbol, n.FilteringSourceJoinSymbol, n.SemiJoinOutput)
	if err := source.SetRoot(op); err != nil {
		return nil, err
	}
	if err := source.AddChild(sealedFiltering); err != nil {
		return nil, err
	}
	return source, nil
}
