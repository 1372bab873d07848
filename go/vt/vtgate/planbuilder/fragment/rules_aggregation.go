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
	"go.uber.org/zap"

	"github.com/dqeio/fragmenter/go/vt/vtgate/engine"
	"github.com/dqeio/fragmenter/go/vt/vtgate/planbuilder/catalog"
	"github.com/dqeio/fragmenter/go/vt/vtgate/planbuilder/plancontext"
)

// rewriteAggregation rewrites an Aggregation node into: a
// single-step aggregate directly on a non-distributed child; a
// PARTIAL/FINAL split when the child is distributed and every
// aggregate is decomposable; a single global aggregate on a merged-up
// NONE fragment otherwise.
func rewriteAggregation(ctx *plancontext.Context, n *engine.Aggregation) (*Builder, error) {
	b, err := rewrite(ctx, n.Input)
	if err != nil {
		return nil, err
	}

	if !b.IsDistributed() {
		single := engine.NewAggregation(n.ID(), b.Root(), n.GroupingKeys, n.Aggregates, engine.AggSingle, n.SampleWeight)
		if err := b.SetRoot(single); err != nil {
			return nil, err
		}
		return b, nil
	}

	infos, decomposable, err := resolveAggregateInfo(ctx, n.Aggregates)
	if err != nil {
		return nil, err
	}

	if !decomposable {
		ctx.Log().Warn("aggregate decomposition fallback: non-decomposable function present", zapFragmentID(b.ID()))
		next, err := mergeUpward(ctx, b)
		if err != nil {
			return nil, err
		}
		single := engine.NewAggregation(ctx.NodeIDs.NextID(), next.Root(), n.GroupingKeys, n.Aggregates, engine.AggSingle, n.SampleWeight)
		if err := next.SetRoot(single); err != nil {
			return nil, err
		}
		return next, nil
	}

	partialAggs, finalAggs := splitAggregates(ctx, n.Aggregates, infos)
	partial := engine.NewAggregation(n.ID(), b.Root(), n.GroupingKeys, partialAggs, engine.AggPartial, n.SampleWeight)
	if err := b.SetRoot(partial); err != nil {
		return nil, err
	}

	var next *Builder
	if len(n.GroupingKeys) == 0 {
		next, err = mergeUpward(ctx, b)
	} else {
		next, err = rehash(ctx, b, n.GroupingKeys)
	}
	if err != nil {
		return nil, err
	}

	final := engine.NewAggregation(ctx.NodeIDs.NextID(), next.Root(), n.GroupingKeys, finalAggs, engine.AggFinal, nil)
	if err := next.SetRoot(final); err != nil {
		return nil, err
	}
	ctx.Log().Debug("aggregate split into partial/final", zap.Int("aggregates", len(n.Aggregates)))
	return next, nil
}

// resolveAggregateInfo looks up the catalog signature for every
// aggregate call and reports whether all of them are decomposable.
func resolveAggregateInfo(ctx *plancontext.Context, aggregates []engine.AggregateCall) ([]catalog.FunctionInfo, bool, error) {
	infos := make([]catalog.FunctionInfo, len(aggregates))
	allDecomposable := true
	for i, agg := range aggregates {
		info, err := ctx.Catalog.ResolveFunction(catalog.Signature{Name: agg.Function, Arity: len(agg.Args)})
		if err != nil {
			return nil, false, err
		}
		infos[i] = info
		if !info.IsDecomposable() {
			allDecomposable = false
		}
	}
	return infos, allDecomposable, nil
}

// splitAggregates builds the PARTIAL and FINAL aggregate call lists
// for a decomposable aggregation. The partial stage keeps the
// original function and mask, emitting a fresh intermediate symbol per
// aggregate; the final stage calls that same function again, now over
// the partial stage's intermediate symbol, and keeps the original
// output symbol so downstream references stay valid, with no mask
// (masks apply only to the raw-row partial pass).
func splitAggregates(ctx *plancontext.Context, aggregates []engine.AggregateCall, infos []catalog.FunctionInfo) (partial, final []engine.AggregateCall) {
	partial = make([]engine.AggregateCall, len(aggregates))
	final = make([]engine.AggregateCall, len(aggregates))
	for i, agg := range aggregates {
		info := infos[i]
		intermediate := ctx.Symbols.NewSymbol(agg.Function, info.IntermediateType())
		partial[i] = engine.AggregateCall{
			Function: agg.Function,
			Args:     agg.Args,
			Mask:     agg.Mask,
			Output:   intermediate,
		}
		final[i] = engine.AggregateCall{
			Function: agg.Function,
			Args:     []*engine.Symbol{intermediate},
			Output:   agg.Output,
		}
	}
	return partial, final
}
