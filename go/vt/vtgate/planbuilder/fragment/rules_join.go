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
	"github.com/dqeio/fragmenter/go/vt/vterrors"
	"github.com/dqeio/fragmenter/go/vt/vtgate/engine"
	"github.com/dqeio/fragmenter/go/vt/vtgate/planbuilder/plancontext"
)

// rewriteJoin rewrites a Join node: only INNER, LEFT and
// RIGHT are supported; any other join type is a fatal planning error.
func rewriteJoin(ctx *plancontext.Context, n *engine.Join) (*Builder, error) {
	left, err := rewrite(ctx, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := rewrite(ctx, n.Right)
	if err != nil {
		return nil, err
	}

	if !left.IsDistributed() && !right.IsDistributed() {
		return joinInPlace(ctx, n, left, right)
	}

	switch n.Type {
	case engine.InnerJoin, engine.LeftJoin:
		// The right side is the build side: it is sealed and shipped to
		// wherever the left side runs.
		return shipSide(ctx, n, left, right, true, n.LeftKeys, n.RightKeys)
	case engine.RightJoin:
		// Symmetric: the left side is shipped to the right.
		return shipSide(ctx, n, left, right, false, n.LeftKeys, n.RightKeys)
	default:
		return nil, vterrors.Errorf(vterrors.Unimplemented, "fragment: unsupported join type %v", n.Type)
	}
}

// joinInPlace fuses two non-distributed builders under a single NONE
// fragment, carrying over any children either side had already sealed.
func joinInPlace(ctx *plancontext.Context, n *engine.Join, left, right *Builder) (*Builder, error) {
	joinOp := engine.NewJoin(n.ID(), left.Root(), right.Root(), n.Type, n.LeftKeys, n.RightKeys, n.OutputSymbols())
	merged := singleNode(ctx, joinOp)
	children := append(left.Children(), right.Children()...)
	if err := merged.SetChildren(children); err != nil {
		return nil, err
	}
	return merged, nil
}

// shipSide seals the "shipped" side (right, when shipRight is true;
// left otherwise) and attaches it as a child fragment to the other
// side, which becomes the returned builder. When distributedJoins is
// enabled, both sides are additionally hash-redistributed on their
// respective equi-join keys: the shipped side's output partitioning
// is set before it is capped, and the kept side is re-hashed after.
func shipSide(ctx *plancontext.Context, n *engine.Join, left, right *Builder, shipRight bool, leftKeys, rightKeys []*engine.Symbol) (*Builder, error) {
	shipped, kept := right, left
	shippedKeys, keptKeys := rightKeys, leftKeys
	if !shipRight {
		shipped, kept = left, right
		shippedKeys, keptKeys = leftKeys, rightKeys
	}

	if ctx.Options.DistributedJoins {
		if err := shipped.SetHashOutputPartitioning(shippedKeys, nil); err != nil {
			return nil, err
		}
	}
	if err := capWithSink(ctx, shipped); err != nil {
		return nil, err
	}
	sealedShipped, err := shipped.Build()
	if err != nil {
		return nil, err
	}

	target := kept
	if ctx.Options.DistributedJoins {
		target, err = rehash(ctx, kept, keptKeys)
		if err != nil {
			return nil, err
		}
	}

	exchange := engine.NewExchange(ctx.NodeIDs.NextID(), []engine.PlanFragmentId{sealedShipped.ID}, sealedShipped.Root.OutputSymbols())

	var joinOp *engine.Join
	if shipRight {
		joinOp = engine.NewJoin(n.ID(), target.Root(), exchange, n.Type, n.LeftKeys, n.RightKeys, n.OutputSymbols())
	} else {
		joinOp = engine.NewJoin(n.ID(), exchange, target.Root(), n.Type, n.LeftKeys, n.RightKeys, n.OutputSymbols())
	}
	if err := target.SetRoot(joinOp); err != nil {
		return nil, err
	}
	if err := target.AddChild(sealedShipped); err != nil {
		return nil, err
	}
	return target, nil
}
