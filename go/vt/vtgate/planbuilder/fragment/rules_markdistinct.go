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

// alreadyPartitionedBy tests whether b is already co-partitioned by
// distinctSymbols: b must be FIXED with exactly one sealed child, and
// that child's HASH output partitioning key set must equal
// distinctSymbols exactly (unordered). Only FIXED qualifies here — a
// SOURCE fragment that happens to be hash-partitioned by the same keys
// does not, since a base table's physical layout is not an assertion
// the planner can trust the way a rehash boundary's is.
//
// The digest comparison is a cheap rejection before the authoritative,
// pointer-identity KeySet comparison: two key sets can only be equal
// if their digests match, so a digest mismatch skips the O(n) set
// build entirely. A digest match still falls through to KeySet.Equal,
// since XOR-folded digests collide on some non-equal key sets.
func alreadyPartitionedBy(b *Builder, distinctSymbols []*engine.Symbol) bool {
	if b.Distribution() != engine.Fixed {
		return false
	}
	children := b.Children()
	if len(children) != 1 {
		return false
	}
	partitioning := children[0].OutputPartitioning
	if !partitioning.IsHash() {
		return false
	}
	want := engine.HashPartitioning(distinctSymbols, nil)
	if partitioning.KeyDigest() != want.KeyDigest() {
		return false
	}
	return partitioning.KeySet().Equal(want.KeySet())
}

// rewriteMarkDistinct rewrites a MarkDistinct node.
func rewriteMarkDistinct(ctx *plancontext.Context, n *engine.MarkDistinct) (*Builder, error) {
	b, err := rewrite(ctx, n.Input)
	if err != nil {
		return nil, err
	}

	placeDirectly := alreadyPartitionedBy(b, n.DistinctSymbols) ||
		ctx.Options.CreateSingleNodePlan ||
		(!b.IsDistributed() && !ctx.BigQueryEnabled())

	if placeDirectly {
		if err := b.SetRoot(engine.NewMarkDistinct(n.ID(), b.Root(), n.DistinctSymbols, n.MarkerSymbol)); err != nil {
			return nil, err
		}
		return b, nil
	}

	next, err := rehash(ctx, b, n.DistinctSymbols)
	if err != nil {
		return nil, err
	}
	if err := next.SetRoot(engine.NewMarkDistinct(n.ID(), next.Root(), n.DistinctSymbols, n.MarkerSymbol)); err != nil {
		return nil, err
	}
	return next, nil
}
