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

// rewriteIndexJoin rewrites an IndexJoin node: only the
// probe side is recursed into; the index side is an opaque per-row
// lookup plan and is never fragmented.
func rewriteIndexJoin(ctx *plancontext.Context, n *engine.IndexJoin) (*Builder, error) {
	probe, err := rewrite(ctx, n.Probe)
	if err != nil {
		return nil, err
	}
	if ctx.Options.DistributedIndexJoins && probe.IsDistributed() {
		probe, err = rehash(ctx, probe, n.ProbeJoinSymbols)
		if err != nil {
			return nil, err
		}
	}
	if err := probe.SetRoot(engine.NewIndexJoin(n.ID(), probe.Root(), n.ProbeJoinSymbols, n.OutputSymbols())); err != nil {
		return nil, err
	}
	return probe, nil
}
