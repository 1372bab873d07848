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

// rewriteTableScan rewrites a TableScan leaf node into: SOURCE
// distribution in distributed mode, remembering the scan's node id as
// the partitioned-source id; NONE under single-node mode.
func rewriteTableScan(ctx *plancontext.Context, n *engine.TableScan) (*Builder, error) {
	if ctx.Options.CreateSingleNodePlan {
		return singleNodeSource(ctx, n, n.ID()), nil
	}
	return source(ctx, n, n.ID()), nil
}

// rewriteValues rewrites a Values leaf node into: always a
// fresh NONE builder.
func rewriteValues(ctx *plancontext.Context, n *engine.Values) (*Builder, error) {
	return singleNode(ctx, n), nil
}
