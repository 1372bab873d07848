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

// rewriteSort rewrites a Sort node into: if the child is
// distributed, merge upward first, with no intermediate sort-specific
// operator — global sort happens via the Sort operator itself, placed
// on top of the Exchange on the single node.
func rewriteSort(ctx *plancontext.Context, n *engine.Sort) (*Builder, error) {
	b, err := rewrite(ctx, n.Input)
	if err != nil {
		return nil, err
	}
	if b.IsDistributed() {
		b, err = mergeUpward(ctx, b)
		if err != nil {
			return nil, err
		}
	}
	if err := b.SetRoot(engine.NewSort(n.ID(), b.Root(), n.OrderBy)); err != nil {
		return nil, err
	}
	return b, nil
}

// rewriteOutput rewrites a Output node into, the same shape as
// Sort's.
func rewriteOutput(ctx *plancontext.Context, n *engine.Output) (*Builder, error) {
	b, err := rewrite(ctx, n.Input)
	if err != nil {
		return nil, err
	}
	if b.IsDistributed() {
		b, err = mergeUpward(ctx, b)
		if err != nil {
			return nil, err
		}
	}
	if err := b.SetRoot(engine.NewOutput(n.ID(), b.Root(), n.ColumnNames)); err != nil {
		return nil, err
	}
	return b, nil
}
