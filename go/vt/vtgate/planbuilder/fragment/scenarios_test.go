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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dqeio/fragmenter/go/vt/vtgate/engine"
	"github.com/dqeio/fragmenter/go/vt/vtgate/planbuilder/plancontext"
)

// S1: a global count over a partitioned table scan splits into a
// PARTIAL count on the SOURCE fragment and a FINAL count over the
// partial's intermediate symbol on a merged NONE fragment.
func TestScenarioGlobalCount(t *testing.T) {
	ctx := newTestContext(t, plancontext.Options{})

	scan := engine.NewTableScan(1, "orders", []*engine.Symbol{col("id")})
	countOut := col("cnt")
	agg := engine.NewAggregation(2, scan, nil, []engine.AggregateCall{
		{Function: "count", Args: nil, Output: countOut},
	}, engine.AggSingle, nil)

	subPlan, err := Fragment(ctx, agg)
	require.NoError(t, err)

	assert.Equal(t, engine.None, subPlan.Root.Distribution)
	final, ok := subPlan.Root.Root.(*engine.Aggregation)
	require.True(t, ok)
	assert.Equal(t, engine.AggFinal, final.Step)
	require.Len(t, final.Aggregates, 1)
	assert.Equal(t, "count", final.Aggregates[0].Function)
	assert.Same(t, countOut, final.Aggregates[0].Output)

	require.Len(t, subPlan.Root.Children, 1)
	child := subPlan.Root.Children[0]
	assert.Equal(t, engine.Source, child.Distribution)
	sink, ok := child.Root.(*engine.Sink)
	require.True(t, ok)
	partial, ok := sink.Input.(*engine.Aggregation)
	require.True(t, ok)
	assert.Equal(t, engine.AggPartial, partial.Step)
	assert.Equal(t, "count", partial.Aggregates[0].Function)
}

// S2: a grouped sum re-hashes by the grouping keys instead of merging
// to a single node.
func TestScenarioGroupedSum(t *testing.T) {
	ctx := newTestContext(t, plancontext.Options{})

	groupKey := col("customer_id")
	value := col("amount")
	scan := engine.NewTableScan(1, "orders", []*engine.Symbol{groupKey, value})
	sumOut := col("total")
	agg := engine.NewAggregation(2, scan, []*engine.Symbol{groupKey}, []engine.AggregateCall{
		{Function: "sum", Args: []*engine.Symbol{value}, Output: sumOut},
	}, engine.AggSingle, nil)

	subPlan, err := Fragment(ctx, agg)
	require.NoError(t, err)

	assert.Equal(t, engine.Fixed, subPlan.Root.Distribution)
	final := subPlan.Root.Root.(*engine.Aggregation)
	assert.Equal(t, engine.AggFinal, final.Step)

	require.Len(t, subPlan.Root.Children, 1)
	child := subPlan.Root.Children[0]
	assert.Equal(t, engine.Source, child.Distribution)
	assert.True(t, child.OutputPartitioning.IsHash())
	assert.True(t, child.OutputPartitioning.KeySet().Equal(engine.NewSymbolSet(groupKey)))
}

// S3: a non-decomposable aggregate falls back to merging everything to
// one node and computing it in a single pass.
func TestScenarioNonDecomposableAggregate(t *testing.T) {
	ctx := newTestContext(t, plancontext.Options{})

	latency := col("latency")
	p := col("p")
	scan := engine.NewTableScan(1, "events", []*engine.Symbol{latency, p})
	percentileOut := col("p99")
	agg := engine.NewAggregation(2, scan, nil, []engine.AggregateCall{
		{Function: "approx_percentile", Args: []*engine.Symbol{latency, p}, Output: percentileOut},
	}, engine.AggSingle, nil)

	subPlan, err := Fragment(ctx, agg)
	require.NoError(t, err)

	assert.Equal(t, engine.None, subPlan.Root.Distribution)
	single := subPlan.Root.Root.(*engine.Aggregation)
	assert.Equal(t, engine.AggSingle, single.Step)

	require.Len(t, subPlan.Root.Children, 1)
	sink := subPlan.Root.Children[0].Root.(*engine.Sink)
	_, isScan := sink.Input.(*engine.TableScan)
	assert.True(t, isScan)
}

// S4: a global TopN over a distributed source becomes a local partial
// TopN feeding a merge TopN.
func TestScenarioGlobalTopN(t *testing.T) {
	ctx := newTestContext(t, plancontext.Options{})

	value := col("value")
	scan := engine.NewTableScan(1, "events", []*engine.Symbol{col("ts"), value})
	topN := engine.NewTopN(2, scan, 10, []engine.OrderKey{{Symbol: value, Desc: true}}, false)

	subPlan, err := Fragment(ctx, topN)
	require.NoError(t, err)

	assert.Equal(t, engine.None, subPlan.Root.Distribution)
	merge := subPlan.Root.Root.(*engine.TopN)
	assert.False(t, merge.Partial)
	assert.Equal(t, 10, merge.Count)

	require.Len(t, subPlan.Root.Children, 1)
	sink := subPlan.Root.Children[0].Root.(*engine.Sink)
	partial := sink.Input.(*engine.TopN)
	assert.True(t, partial.Partial)
}

// S5: a hash-distributed inner join reshuffles both sides by their
// equi-join keys and produces a FIXED fragment fed by two sealed
// children.
func TestScenarioHashDistributedInnerJoin(t *testing.T) {
	ctx := newTestContext(t, plancontext.Options{DistributedJoins: true})

	leftKey := col("customer_id")
	rightKey := col("customer_id")
	left := engine.NewTableScan(1, "orders", []*engine.Symbol{leftKey, col("order_total")})
	right := engine.NewTableScan(2, "customers", []*engine.Symbol{rightKey, col("name")})
	output := append(append([]*engine.Symbol{}, left.OutputSymbols()...), right.OutputSymbols()...)
	join := engine.NewJoin(3, left, right, engine.InnerJoin, []*engine.Symbol{leftKey}, []*engine.Symbol{rightKey}, output)

	subPlan, err := Fragment(ctx, join)
	require.NoError(t, err)

	assert.Equal(t, engine.Fixed, subPlan.Root.Distribution)
	joinOp, ok := subPlan.Root.Root.(*engine.Join)
	require.True(t, ok)
	_, leftIsExchange := joinOp.Left.(*engine.Exchange)
	_, rightIsExchange := joinOp.Right.(*engine.Exchange)
	assert.True(t, leftIsExchange)
	assert.True(t, rightIsExchange)

	require.Len(t, subPlan.Root.Children, 2)
	for _, child := range subPlan.Root.Children {
		assert.Equal(t, engine.Source, child.Distribution)
		assert.True(t, child.OutputPartitioning.IsHash())
	}
}

// S5b: without distributedJoins, the shipped side still seals into its
// own fragment but the kept side is not re-hashed.
func TestScenarioInnerJoinShipsBuildSideOnly(t *testing.T) {
	ctx := newTestContext(t, plancontext.Options{})

	leftKey := col("customer_id")
	rightKey := col("customer_id")
	left := engine.NewTableScan(1, "orders", []*engine.Symbol{leftKey})
	right := engine.NewTableScan(2, "customers", []*engine.Symbol{rightKey})
	join := engine.NewJoin(3, left, right, engine.InnerJoin, []*engine.Symbol{leftKey}, []*engine.Symbol{rightKey}, left.OutputSymbols())

	subPlan, err := Fragment(ctx, join)
	require.NoError(t, err)

	assert.Equal(t, engine.Source, subPlan.Root.Distribution)
	joinOp := subPlan.Root.Root.(*engine.Join)
	_, leftIsScan := joinOp.Left.(*engine.TableScan)
	assert.True(t, leftIsScan)
	_, rightIsExchange := joinOp.Right.(*engine.Exchange)
	assert.True(t, rightIsExchange)

	require.Len(t, subPlan.Root.Children, 1)
	assert.False(t, subPlan.Root.Children[0].OutputPartitioning.IsHash())
}

// S6: a union of two table scans seals each branch into its own
// fragment and joins them under one Exchange on a NONE fragment.
func TestScenarioUnionOfTwoScans(t *testing.T) {
	ctx := newTestContext(t, plancontext.Options{})

	id := col("id")
	a := engine.NewTableScan(1, "orders_2023", []*engine.Symbol{id})
	b := engine.NewTableScan(2, "orders_2024", []*engine.Symbol{id})
	union := engine.NewUnion(3, []engine.PlanNode{a, b}, []*engine.Symbol{id})

	subPlan, err := Fragment(ctx, union)
	require.NoError(t, err)

	assert.Equal(t, engine.None, subPlan.Root.Distribution)
	_, isExchange := subPlan.Root.Root.(*engine.Exchange)
	assert.True(t, isExchange)
	require.Len(t, subPlan.Root.Children, 2)
	for _, child := range subPlan.Root.Children {
		assert.Equal(t, engine.Source, child.Distribution)
		_, isSink := child.Root.(*engine.Sink)
		assert.True(t, isSink)
	}
}

// Single-node mode collapses every fragment to NONE and fuses union
// branches directly instead of sealing them.
func TestSingleNodeModeUnionFuses(t *testing.T) {
	ctx := newTestContext(t, plancontext.Options{CreateSingleNodePlan: true})

	a := engine.NewTableScan(1, "orders_2023", []*engine.Symbol{col("id")})
	b := engine.NewTableScan(2, "orders_2024", []*engine.Symbol{col("id")})
	union := engine.NewUnion(3, []engine.PlanNode{a, b}, []*engine.Symbol{col("id")})

	subPlan, err := Fragment(ctx, union)
	require.NoError(t, err)

	assert.Equal(t, engine.None, subPlan.Root.Distribution)
	assert.Empty(t, subPlan.Root.Children)
	unionOp, ok := subPlan.Root.Root.(*engine.Union)
	require.True(t, ok)
	assert.Len(t, unionOp.Sources, 2)
}
