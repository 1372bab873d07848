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

// rewriteFilter rewrites a Filter straight-through node into:
// no boundary, distribution preserved.
func rewriteFilter(ctx *plancontext.Context, n *engine.Filter) (*Builder, error) {
	b, err := rewrite(ctx, n.Input)
	if err != nil {
		return nil, err
	}
	if err := b.SetRoot(engine.NewFilter(n.ID(), b.Root(), n.Predicate)); err != nil {
		return nil, err
	}
	return b, nil
}

// rewriteProject implements the Project straight-through rule.
func rewriteProject(ctx *plancontext.Context, n *engine.Project) (*Builder, error) {
	b, err := rewrite(ctx, n.Input)
	if err != nil {
		return nil, err
	}
	if err := b.SetRoot(engine.NewProject(n.ID(), b.Root(), n.Expressions, n.OutputSymbols())); err != nil {
		return nil, err
	}
	return b, nil
}

// rewriteSample implements the Sample straight-through rule.
func rewriteSample(ctx *plancontext.Context, n *engine.Sample) (*Builder, error) {
	b, err := rewrite(ctx, n.Input)
	if err != nil {
		return nil, err
	}
	if err := b.SetRoot(engine.NewSample(n.ID(), b.Root(), n.Ratio)); err != nil {
		return nil, err
	}
	return b, nil
}

// rewriteUnnest implements the Unnest straight-through rule.
func rewriteUnnest(ctx *plancontext.Context, n *engine.Unnest) (*Builder, error) {
	b, err := rewrite(ctx, n.Input)
	if err != nil {
		return nil, err
	}
	if err := b.SetRoot(engine.NewUnnest(n.ID(), b.Root(), n.UnnestSymbol, n.OutputSymbols())); err != nil {
		return nil, err
	}
	return b, nil
}

// rewriteTableWriter implements the TableWriter straight-through rule.
func rewriteTableWriter(ctx *plancontext.Context, n *engine.TableWriter) (*Builder, error) {
	b, err := rewrite(ctx, n.Input)
	if err != nil {
		return nil, err
	}
	if err := b.SetRoot(engine.NewTableWriter(n.ID(), b.Root(), n.Target, n.OutputSymbols())); err != nil {
		return nil, err
	}
	return b, nil
}
