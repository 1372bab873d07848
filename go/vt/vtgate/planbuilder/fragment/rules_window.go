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

// rewriteWindow rewrites a Window node into: when the child is
// distributed, merge to a single instance if the window has no
// partition key, or re-hash on the partition key otherwise, then
// place the Window operator on the resulting builder's root.
func rewriteWindow(ctx *plancontext.Context, n *engine.Window) (*Builder, error) {
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
	if err := b.SetRoot(engine.NewWindow(n.ID(), b.Root(), n.PartitionBy, n.OrderBy, n.Functions)); err != nil {
		return nil, err
	}
	return b, nil
}
