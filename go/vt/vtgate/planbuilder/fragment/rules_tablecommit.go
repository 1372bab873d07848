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

// rewriteTableCommit rewrites a TableCommit node.
// TableCommit must run alone on the coordinator, so unless its child is
// already a COORDINATOR_ONLY fragment (or single-node mode collapses
// the whole plan into one instance), the child is capped, sealed, and
// consumed through an Exchange feeding a fresh COORDINATOR_ONLY
// fragment rooted at the commit operator.
func rewriteTableCommit(ctx *plancontext.Context, n *engine.TableCommit) (*Builder, error) {
	b, err := rewrite(ctx, n.Input)
	if err != nil {
		return nil, err
	}

	if ctx.Options.CreateSingleNodePlan || b.Distribution() == engine.CoordinatorOnly {
		if err := b.SetRoot(engine.NewTableCommit(n.ID(), b.Root(), n.Target)); err != nil {
			return nil, err
		}
		return b, nil
	}

	if err := capWithSink(ctx, b); err != nil {
		return nil, err
	}
	next, _, err := startNewOverExchange(ctx, b, engine.CoordinatorOnly)
	if err != nil {
		return nil, err
	}
	if err := next.SetRoot(engine.NewTableCommit(n.ID(), next.Root(), n.Target)); err != nil {
		return nil, err
	}
	return next, nil
}
