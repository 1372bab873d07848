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

// rewriteRowNumber rewrites a RowNumber node into: no
// partition key merges to a single instance; a partition key
// re-hashes to co-locate each partition on one worker.
func rewriteRowNumber(ctx *plancontext.Context, n *engine.RowNumber) (*Builder, error) {
	b, err := rewrite(ctx, n.Input)
	if err != nil {
		return nil, err
	}
	if b.IsDistributed() {
		if len(n.PartitionBy) == 0 {
			b, err = mergeUpward(ctx, b)
		} else {
			b, err = rehash(ctx, b, n.PartitionBy)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := b.SetRoot(engine.NewRowNumber(n.ID(), b.Root(), n.PartitionBy, n.RowNumberSymbol)); err != nil {
		return nil, err
	}
	return b, nil
}

// rewriteTopNRowNumber rewrites a TopNRowNumber node into: when
// the child is distributed, a partial pass runs locally before the
// boundary and a merge pass re-ranks after it; the merge fragment is
// NONE with no partition key or FIXED re-hashed on the partition key
// otherwise.
func rewriteTopNRowNumber(ctx *plancontext.Context, n *engine.TopNRowNumber) (*Builder, error) {
	b, err := rewrite(ctx, n.Input)
	if err != nil {
		return nil, err
	}
	if !b.IsDistributed() {
		final := engine.NewTopNRowNumber(n.ID(), b.Root(), n.PartitionBy, n.OrderBy, n.MaxRowsPerPartition, n.RowNumberSymbol, false)
		if err := b.SetRoot(final); err != nil {
			return nil, err
		}
		return b, nil
	}

	partial := engine.NewTopNRowNumber(n.ID(), b.Root(), n.PartitionBy, n.OrderBy, n.MaxRowsPerPartition, n.RowNumberSymbol, true)
	if err := b.SetRoot(partial); err != nil {
		return nil, err
	}

	var next *Builder
	if len(n.PartitionBy) == 0 {
		next, err = mergeUpward(ctx, b)
	} else {
		next, err = rehash(ctx, b, n.PartitionBy)
	}
	if err != nil {
		return nil, err
	}
	merge := engine.NewTopNRowNumber(ctx.NodeIDs.NextID(), next.Root(), n.PartitionBy, n.OrderBy, n.MaxRowsPerPartition, n.RowNumberSymbol, false)
	if err := next.SetRoot(merge); err != nil {
		return nil, err
	}
	return next, nil
}
