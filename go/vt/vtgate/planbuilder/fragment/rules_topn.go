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

// rewriteTopN rewrites a TopN node: the partial/merge
// split is correctness-preserving because the merge stage re-sorts
// the union of every fragment's local top-N.
func rewriteTopN(ctx *plancontext.Context, n *engine.TopN) (*Builder, error) {
	b, err := rewrite(ctx, n.Input)
	if err != nil {
		return nil, err
	}
	distributed := b.IsDistributed()
	if err := b.SetRoot(engine.NewTopN(n.ID(), b.Root(), n.Count, n.OrderBy, distributed)); err != nil {
		return nil, err
	}
	if !distributed {
		return b, nil
	}
	next, err := mergeUpward(ctx, b)
	if err != nil {
		return nil, err
	}
	merge := engine.NewTopN(ctx.NodeIDs.NextID(), next.Root(), n.Count, n.OrderBy, false)
	if err := next.SetRoot(merge); err != nil {
		return nil, err
	}
	return next, nil
}
