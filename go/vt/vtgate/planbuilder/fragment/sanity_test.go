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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dqeio/fragmenter/go/vt/vtgate/engine"
)

func TestCheckSanityAcceptsWellFormedSubPlan(t *testing.T) {
	scan := engine.NewTableScan(1, "t", []*engine.Symbol{col("id")})
	sink := engine.NewSink(2, scan)
	child := &engine.Fragment{ID: 1, Root: sink, Distribution: engine.Source}

	exchange := engine.NewExchange(3, []engine.PlanFragmentId{child.ID}, sink.OutputSymbols())
	root := &engine.Fragment{ID: 0, Root: exchange, Distribution: engine.None, Children: []*engine.Fragment{child}}

	err := checkSanity(&engine.SubPlan{Root: root})
	assert.NoError(t, err)
}

func TestCheckSanityRejectsExchangeReferencingUnattachedFragment(t *testing.T) {
	scan := engine.NewTableScan(1, "t", []*engine.Symbol{col("id")})
	exchange := engine.NewExchange(2, []engine.PlanFragmentId{99}, scan.OutputSymbols())
	root := &engine.Fragment{ID: 0, Root: exchange, Distribution: engine.None}

	err := checkSanity(&engine.SubPlan{Root: root})
	assert.Error(t, err)
}

func TestCheckSanityRejectsCycle(t *testing.T) {
	scan := engine.NewTableScan(1, "t", []*engine.Symbol{col("id")})
	sink := engine.NewSink(2, scan)

	a := &engine.Fragment{ID: 0, Root: sink, Distribution: engine.None}
	b := &engine.Fragment{ID: 1, Root: sink, Distribution: engine.None}
	a.Children = []*engine.Fragment{b}
	b.Children = []*engine.Fragment{a}

	err := checkSanity(&engine.SubPlan{Root: a})
	assert.Error(t, err)
}

func TestCheckSanityRejectsNilSubPlanRoot(t *testing.T) {
	err := checkSanity(&engine.SubPlan{})
	assert.Error(t, err)
}

func TestCheckSanityRejectsSymbolNotInInputOutput(t *testing.T) {
	scan := engine.NewTableScan(1, "t", []*engine.Symbol{col("id")})
	stray := col("not_from_scan")
	sort := engine.NewSort(2, scan, []engine.OrderKey{{Symbol: stray}})
	root := &engine.Fragment{ID: 0, Root: sort, Distribution: engine.None}

	err := checkSanity(&engine.SubPlan{Root: root})
	assert.Error(t, err)
}
