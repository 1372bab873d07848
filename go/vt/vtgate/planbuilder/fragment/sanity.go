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
)

// checkSanity validates the finished SubPlan's structural invariants.
// It walks every fragment once, collecting every violation it finds
// rather than stopping at the first one, and reports them all through
// vterrors.Aggregate.
func checkSanity(subPlan *engine.SubPlan) error {
	if subPlan.Root == nil {
		return vterrors.New(vterrors.Internal, "fragment: sub plan has no root fragment")
	}

	// The walk itself must be cycle-safe: it cannot lean on
	// SubPlan.AllFragments/ByID first, since those assume acyclicity and
	// would recurse forever on exactly the input this check exists to
	// reject.
	var errs []error
	visiting := make(map[engine.PlanFragmentId]bool)
	visited := make(map[engine.PlanFragmentId]bool)

	var walk func(f *engine.Fragment)
	walk = func(f *engine.Fragment) {
		if visiting[f.ID] {
			errs = append(errs, vterrors.Errorf(vterrors.Internal, "fragment %s: cycle detected in fragment DAG", f.ID))
			return
		}
		if visited[f.ID] {
			return
		}
		visiting[f.ID] = true

		childByID := make(map[engine.PlanFragmentId]*engine.Fragment, len(f.Children))
		for _, c := range f.Children {
			childByID[c.ID] = c
		}

		checkNode(f, f.Root, childByID, &errs)

		for _, c := range f.Children {
			walk(c)
		}
		visiting[f.ID] = false
		visited[f.ID] = true
	}
	walk(subPlan.Root)

	return vterrors.Aggregate(errs)
}

// checkNode recursively validates one fragment's operator tree: every
// operator's ReferencedSymbols must appear in the combined output of
// its own Inputs, every Exchange it contains must reference a child
// actually attached to the fragment, and that child's output
// partitioning must be HASH iff the fragment referencing it is FIXED.
func checkNode(f *engine.Fragment, node engine.PlanNode, childByID map[engine.PlanFragmentId]*engine.Fragment, errs *[]error) {
	if node == nil {
		*errs = append(*errs, vterrors.Errorf(vterrors.Internal, "fragment %s: nil operator in tree", f.ID))
		return
	}

	var inputSymbols []*engine.Symbol
	for _, input := range node.Inputs() {
		if input == nil {
			*errs = append(*errs, vterrors.Errorf(vterrors.Internal, "fragment %s: operator %s has a nil input", f.ID, node.Kind()))
			continue
		}
		checkNode(f, input, childByID, errs)
		inputSymbols = append(inputSymbols, input.OutputSymbols()...)
	}

	if !engine.Contains(inputSymbols, node.ReferencedSymbols()) {
		*errs = append(*errs, vterrors.Errorf(vterrors.Internal, "fragment %s: operator %s references a symbol not present in any of its inputs' output", f.ID, node.Kind()))
	}

	if exchange, ok := node.(*engine.Exchange); ok {
		for _, srcID := range exchange.SourceFragments {
			child, ok := childByID[srcID]
			if !ok {
				*errs = append(*errs, vterrors.Errorf(vterrors.Internal, "fragment %s: exchange references fragment %s, which is not an attached child", f.ID, srcID))
				continue
			}
			if !engine.Contains(child.Root.OutputSymbols(), exchange.OutputSymbols()) {
				*errs = append(*errs, vterrors.Errorf(vterrors.Internal, "fragment %s: exchange over %s requests symbols its child does not output", f.ID, srcID))
			}
		}
	}

	if sink, ok := node.(*engine.Sink); ok {
		if !engine.Contains(sink.Input.OutputSymbols(), sink.OutputSymbols()) {
			*errs = append(*errs, vterrors.Errorf(vterrors.Internal, "fragment %s: sink output not contained in its input's output", f.ID))
		}
	}

	if f.Distribution == engine.Fixed {
		if len(f.Children) == 0 {
			*errs = append(*errs, vterrors.Errorf(vterrors.Internal, "fragment %s: FIXED distribution requires at least one HASH-partitioned child", f.ID))
		}
		for _, c := range f.Children {
			if !c.OutputPartitioning.IsHash() {
				*errs = append(*errs, vterrors.Errorf(vterrors.Internal, "fragment %s: FIXED distribution's children must all have HASH output partitioning", f.ID))
			}
		}
	} else {
		for _, c := range f.Children {
			if c.OutputPartitioning.IsHash() {
				*errs = append(*errs, vterrors.Errorf(vterrors.Internal, "fragment %s: only a FIXED fragment may have a HASH-partitioned child, got %s", f.ID, c.ID))
			}
		}
	}
}
