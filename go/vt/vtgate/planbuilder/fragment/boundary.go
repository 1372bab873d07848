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

// capWithSink wraps b's current root in a Sink and replaces b's root
// with it. The Sink's output symbols are a snapshot of the prior
// root's output symbols, taken here rather than at seal time. It is a
// programming error to cap an already-sealed builder.
func capWithSink(ctx *plancontext.Context, b *Builder) error {
	sink := engine.NewSink(ctx.NodeIDs.NextID(), b.Root())
	return b.SetRoot(sink)
}

// startNewOverExchange seals capped (which must already be capped with
// a Sink) and returns a fresh builder of distribution dist, rooted at
// an Exchange that references capped's fragment id and carries
// capped's Sink output columns.
func startNewOverExchange(ctx *plancontext.Context, capped *Builder, dist engine.Distribution) (*Builder, *engine.Fragment, error) {
	sealed, err := capped.Build()
	if err != nil {
		return nil, nil, err
	}
	exchange := engine.NewExchange(ctx.NodeIDs.NextID(), []engine.PlanFragmentId{sealed.ID}, sealed.Root.OutputSymbols())
	next := newBuilder(ctx, dist, exchange)
	if err := next.AddChild(sealed); err != nil {
		return nil, nil, err
	}
	ctx.Log().Debug("boundary inserted", zapDistribution(dist), zapFragmentID(sealed.ID))
	return next, sealed, nil
}

// mergeUpward caps b with a Sink, seals it, and opens a fresh NONE
// builder over an Exchange referencing it, attaching the sealed
// fragment as its only child. This is the "merge upward to a single
// node" boundary, used whenever a multi-partition upstream fragment
// must be consumed by exactly one instance.
func mergeUpward(ctx *plancontext.Context, b *Builder) (*Builder, error) {
	if err := capWithSink(ctx, b); err != nil {
		return nil, err
	}
	next, _, err := startNewOverExchange(ctx, b, engine.None)
	return next, err
}

// rehash sets hash output partitioning on b's current root columns,
// caps b with a Sink, seals it, and opens a fresh FIXED builder over
// an Exchange referencing it. This is the "re-hash while staying
// distributed" boundary, used whenever a downstream operator requires
// co-location by a key set.
func rehash(ctx *plancontext.Context, b *Builder, keys []*engine.Symbol) (*Builder, error) {
	if err := b.SetHashOutputPartitioning(keys, nil); err != nil {
		return nil, err
	}
	if err := capWithSink(ctx, b); err != nil {
		return nil, err
	}
	next, _, err := startNewOverExchange(ctx, b, engine.Fixed)
	return next, err
}
