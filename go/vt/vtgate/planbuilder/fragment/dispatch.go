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
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dqeio/fragmenter/go/vt/vterrors"
	"github.com/dqeio/fragmenter/go/vt/vtgate/engine"
	"github.com/dqeio/fragmenter/go/vt/vtgate/planbuilder/plancontext"
)

// Fragment rewrites root into a SubPlan: a DAG of plan fragments
// connected by Sink/Exchange pairs. It is the single entry point of
// this package.
func Fragment(ctx *plancontext.Context, root engine.PlanNode) (*engine.SubPlan, error) {
	if ctx == nil {
		return nil, vterrors.New(vterrors.InvalidArgument, "fragment: plancontext must not be nil")
	}
	if root == nil {
		return nil, vterrors.New(vterrors.InvalidArgument, "fragment: root plan node must not be nil")
	}
	correlationID := uuid.New()
	ctx = ctx.WithLogger(log.With(zap.Stringer("correlation_id", correlationID)))
	ctx.Log().Debug("fragment: rewrite starting", zap.String("root", root.Kind().String()))
	b, err := rewrite(ctx, root)
	if err != nil {
		return nil, err
	}
	sealed, err := b.Build()
	if err != nil {
		return nil, err
	}
	subPlan := &engine.SubPlan{Root: sealed}
	if err := checkSanity(subPlan); err != nil {
		return nil, err
	}
	ctx.Log().Debug("fragment: rewrite complete", zap.Int("fragments", len(subPlan.AllFragments())))
	return subPlan, nil
}

// rewrite dispatches on node's operator variant to the matching
// rewrite rule. It is a tagged-union exhaustive case analysis: an
// operator kind with no case here is a fatal, non-recoverable error
// rather than a silent fallthrough.
func rewrite(ctx *plancontext.Context, node engine.PlanNode) (*Builder, error) {
	switch n := node.(type) {
	case *engine.TableScan:
		return rewriteTableScan(ctx, n)
	case *engine.Values:
		return rewriteValues(ctx, n)
	case *engine.Filter:
		return rewriteFilter(ctx, n)
	case *engine.Project:
		return rewriteProject(ctx, n)
	case *engine.Sample:
		return rewriteSample(ctx, n)
	case *engine.Unnest:
		return rewriteUnnest(ctx, n)
	case *engine.TableWriter:
		return rewriteTableWriter(ctx, n)
	case *engine.Limit:
		return rewriteLimit(ctx, n)
	case *engine.DistinctLimit:
		return rewriteDistinctLimit(ctx, n)
	case *engine.TopN:
		return rewriteTopN(ctx, n)
	case *engine.Sort:
		return rewriteSort(ctx, n)
	case *engine.Output:
		return rewriteOutput(ctx, n)
	case *engine.RowNumber:
		return rewriteRowNumber(ctx, n)
	case *engine.TopNRowNumber:
		return rewriteTopNRowNumber(ctx, n)
	case *engine.Window:
		return rewriteWindow(ctx, n)
	case *engine.MarkDistinct:
		return rewriteMarkDistinct(ctx, n)
	case *engine.Aggregation:
		return rewriteAggregation(ctx, n)
	case *engine.Join:
		return rewriteJoin(ctx, n)
	case *engine.SemiJoin:
		return rewriteSemiJoin(ctx, n)
	case *engine.IndexJoin:
		return rewriteIndexJoin(ctx, n)
	case *engine.Union:
		return rewriteUnion(ctx, n)
	case *engine.TableCommit:
		return rewriteTableCommit(ctx, n)
	default:
		return nil, vterrors.Errorf(vterrors.Unimplemented, "fragment: unsupported operator %T", node)
	}
}
