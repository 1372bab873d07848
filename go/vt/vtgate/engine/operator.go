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

// Package engine holds the plan-operator tree that the fragmenter
// rewrites, plus the fragment/distribution model it rewrites that
// tree into: relational operators and fragment boundaries rather than
// physical execution primitives.
package engine

// OperatorKind tags the closed set of relational operator variants a
// PlanNode can be, plus the two boundary markers the fragmenter
// itself inserts (Sink, Exchange). It exists so rewrite dispatch can
// switch exhaustively over a tagged union instead of relying on an
// open type hierarchy.
type OperatorKind int

const (
	KindTableScan OperatorKind = iota
	KindValues
	KindFilter
	KindProject
	KindSample
	KindUnnest
	KindSort
	KindTopN
	KindLimit
	KindDistinctLimit
	KindRowNumber
	KindTopNRowNumber
	KindWindow
	KindAggregation
	KindMarkDistinct
	KindJoin
	KindSemiJoin
	KindIndexJoin
	KindUnion
	KindTableWriter
	KindTableCommit
	KindOutput
	KindSink
	KindExchange
)

func (k OperatorKind) String() string {
	names := [...]string{
		"TableScan", "Values", "Filter", "Project", "Sample", "Unnest",
		"Sort", "TopN", "Limit", "DistinctLimit", "RowNumber",
		"TopNRowNumber", "Window", "Aggregation", "MarkDistinct", "Join",
		"SemiJoin", "IndexJoin", "Union", "TableWriter", "TableCommit",
		"Output", "Sink", "Exchange",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "Unknown"
	}
	return names[k]
}

// PlanNode is the closed set of relational plan operators. Every
// variant below implements it. The rewriter never mutates a PlanNode
// in place: shared subtrees in the input may be referenced from more
// than one place, so every rewrite rule produces a new operator value
// instead and treats input-tree node references as immutable.
type PlanNode interface {
	// ID returns the operator's stable, opaque node id.
	ID() PlanNodeId
	// Kind returns the operator's tagged-union variant.
	Kind() OperatorKind
	// OutputSymbols returns the ordered list of symbols this operator
	// produces.
	OutputSymbols() []*Symbol
	// Inputs returns this operator's child operators, in the order
	// they are rewritten: the first argument of a binary operator is
	// rewritten before the second. Leaves return nil.
	Inputs() []PlanNode
	// ReferencedSymbols returns the symbols this operator reads from
	// its input(s) beyond simply passing them through unchanged (join
	// keys, partition/order-by keys, aggregate arguments, and the
	// like). Operators whose non-output fields carry no structured
	// symbol references (an opaque predicate or expression string, for
	// instance) return nil.
	ReferencedSymbols() []*Symbol
}

// orderKeySymbols extracts the sort-key symbols from a list of
// OrderKey.
func orderKeySymbols(keys []OrderKey) []*Symbol {
	out := make([]*Symbol, len(keys))
	for i, k := range keys {
		out[i] = k.Symbol
	}
	return out
}

// base is embedded by every variant to provide the common
// id/output-symbols bookkeeping.
type base struct {
	id     PlanNodeId
	output []*Symbol
}

func (b *base) ID() PlanNodeId          { return b.id }
func (b *base) OutputSymbols() []*Symbol { return b.output }

// TableScan reads a partitioned base table.
type TableScan struct {
	base
	Table string
}

func NewTableScan(id PlanNodeId, table string, output []*Symbol) *TableScan {
	return &TableScan{base: base{id: id, output: output}, Table: table}
}
func (n *TableScan) Kind() OperatorKind          { return KindTableScan }
func (n *TableScan) Inputs() []PlanNode          { return nil }
func (n *TableScan) ReferencedSymbols() []*Symbol { return nil }

// Values is a leaf producing a fixed set of literal rows.
type Values struct {
	base
	Rows [][]any
}

func NewValues(id PlanNodeId, rows [][]any, output []*Symbol) *Values {
	return &Values{base: base{id: id, output: output}, Rows: rows}
}
func (n *Values) Kind() OperatorKind          { return KindValues }
func (n *Values) Inputs() []PlanNode          { return nil }
func (n *Values) ReferencedSymbols() []*Symbol { return nil }

// Filter drops rows that don't satisfy Predicate.
type Filter struct {
	base
	Input     PlanNode
	Predicate string
}

func NewFilter(id PlanNodeId, input PlanNode, predicate string) *Filter {
	return &Filter{base: base{id: id, output: input.OutputSymbols()}, Input: input, Predicate: predicate}
}
func (n *Filter) Kind() OperatorKind { return KindFilter }
func (n *Filter) Inputs() []PlanNode { return []PlanNode{n.Input} }

// ReferencedSymbols returns nil: Predicate is an opaque string, not a
// structured symbol reference this check can introspect.
func (n *Filter) ReferencedSymbols() []*Symbol { return nil }

// Project computes a new set of output symbols from Input's.
type Project struct {
	base
	Input       PlanNode
	Expressions map[*Symbol]string
}

func NewProject(id PlanNodeId, input PlanNode, expressions map[*Symbol]string, output []*Symbol) *Project {
	return &Project{base: base{id: id, output: output}, Input: input, Expressions: expressions}
}
func (n *Project) Kind() OperatorKind { return KindProject }
func (n *Project) Inputs() []PlanNode { return []PlanNode{n.Input} }

// ReferencedSymbols returns nil: Expressions map to opaque strings,
// not structured symbol references this check can introspect.
func (n *Project) ReferencedSymbols() []*Symbol { return nil }

// Sample randomly subsets Input's rows.
type Sample struct {
	base
	Input PlanNode
	Ratio float64
}

func NewSample(id PlanNodeId, input PlanNode, ratio float64) *Sample {
	return &Sample{base: base{id: id, output: input.OutputSymbols()}, Input: input, Ratio: ratio}
}
func (n *Sample) Kind() OperatorKind          { return KindSample }
func (n *Sample) Inputs() []PlanNode          { return []PlanNode{n.Input} }
func (n *Sample) ReferencedSymbols() []*Symbol { return nil }

// Unnest expands an array/map-valued symbol into rows.
type Unnest struct {
	base
	Input       PlanNode
	UnnestSymbol *Symbol
}

func NewUnnest(id PlanNodeId, input PlanNode, unnestSymbol *Symbol, output []*Symbol) *Unnest {
	return &Unnest{base: base{id: id, output: output}, Input: input, UnnestSymbol: unnestSymbol}
}
func (n *Unnest) Kind() OperatorKind { return KindUnnest }
func (n *Unnest) Inputs() []PlanNode { return []PlanNode{n.Input} }
func (n *Unnest) ReferencedSymbols() []*Symbol { return []*Symbol{n.UnnestSymbol} }

// OrderKey is one column of a sort/order-by specification.
type OrderKey struct {
	Symbol *Symbol
	Desc   bool
}

// Sort totally orders Input's rows.
type Sort struct {
	base
	Input   PlanNode
	OrderBy []OrderKey
}

func NewSort(id PlanNodeId, input PlanNode, orderBy []OrderKey) *Sort {
	return &Sort{base: base{id: id, output: input.OutputSymbols()}, Input: input, OrderBy: orderBy}
}
func (n *Sort) Kind() OperatorKind             { return KindSort }
func (n *Sort) Inputs() []PlanNode             { return []PlanNode{n.Input} }
func (n *Sort) ReferencedSymbols() []*Symbol   { return orderKeySymbols(n.OrderBy) }

// TopN keeps the first Count rows of Input under OrderBy. Partial
// marks a per-fragment local TopN that a downstream merge TopN will
// re-sort and re-truncate.
type TopN struct {
	base
	Input   PlanNode
	Count   int
	OrderBy []OrderKey
	Partial bool
}

func NewTopN(id PlanNodeId, input PlanNode, count int, orderBy []OrderKey, partial bool) *TopN {
	return &TopN{base: base{id: id, output: input.OutputSymbols()}, Input: input, Count: count, OrderBy: orderBy, Partial: partial}
}
func (n *TopN) Kind() OperatorKind           { return KindTopN }
func (n *TopN) Inputs() []PlanNode           { return []PlanNode{n.Input} }
func (n *TopN) ReferencedSymbols() []*Symbol { return orderKeySymbols(n.OrderBy) }

// Limit keeps the first Count rows of Input, in whatever order they
// arrive.
type Limit struct {
	base
	Input PlanNode
	Count int
}

func NewLimit(id PlanNodeId, input PlanNode, count int) *Limit {
	return &Limit{base: base{id: id, output: input.OutputSymbols()}, Input: input, Count: count}
}
func (n *Limit) Kind() OperatorKind          { return KindLimit }
func (n *Limit) Inputs() []PlanNode          { return []PlanNode{n.Input} }
func (n *Limit) ReferencedSymbols() []*Symbol { return nil }

// DistinctLimit keeps the first Count distinct rows of Input.
type DistinctLimit struct {
	base
	Input           PlanNode
	Count           int
	DistinctSymbols []*Symbol
}

func NewDistinctLimit(id PlanNodeId, input PlanNode, count int, distinctSymbols []*Symbol) *DistinctLimit {
	return &DistinctLimit{base: base{id: id, output: input.OutputSymbols()}, Input: input, Count: count, DistinctSymbols: distinctSymbols}
}
func (n *DistinctLimit) Kind() OperatorKind             { return KindDistinctLimit }
func (n *DistinctLimit) Inputs() []PlanNode             { return []PlanNode{n.Input} }
func (n *DistinctLimit) ReferencedSymbols() []*Symbol   { return n.DistinctSymbols }

// RowNumber assigns a 1-based row number within each PartitionBy
// group (or globally, when PartitionBy is empty).
type RowNumber struct {
	base
	Input           PlanNode
	PartitionBy     []*Symbol
	RowNumberSymbol *Symbol
}

func NewRowNumber(id PlanNodeId, input PlanNode, partitionBy []*Symbol, rowNumberSymbol *Symbol) *RowNumber {
	return &RowNumber{
		base:            base{id: id, output: append(append([]*Symbol{}, input.OutputSymbols()...), rowNumberSymbol)},
		Input:           input,
		PartitionBy:     partitionBy,
		RowNumberSymbol: rowNumberSymbol,
	}
}
func (n *RowNumber) Kind() OperatorKind           { return KindRowNumber }
func (n *RowNumber) Inputs() []PlanNode           { return []PlanNode{n.Input} }
func (n *RowNumber) ReferencedSymbols() []*Symbol { return n.PartitionBy }

// TopNRowNumber is RowNumber fused with a per-partition row cap.
// Partial marks a per-fragment local pass whose downstream merge will
// re-rank.
type TopNRowNumber struct {
	base
	Input               PlanNode
	PartitionBy         []*Symbol
	OrderBy             []OrderKey
	MaxRowsPerPartition int
	RowNumberSymbol     *Symbol
	Partial             bool
}

func NewTopNRowNumber(id PlanNodeId, input PlanNode, partitionBy []*Symbol, orderBy []OrderKey, maxRows int, rowNumberSymbol *Symbol, partial bool) *TopNRowNumber {
	return &TopNRowNumber{
		base:                base{id: id, output: append(append([]*Symbol{}, input.OutputSymbols()...), rowNumberSymbol)},
		Input:               input,
		PartitionBy:         partitionBy,
		OrderBy:             orderBy,
		MaxRowsPerPartition: maxRows,
		RowNumberSymbol:     rowNumberSymbol,
		Partial:             partial,
	}
}
func (n *TopNRowNumber) Kind() OperatorKind { return KindTopNRowNumber }
func (n *TopNRowNumber) Inputs() []PlanNode { return []PlanNode{n.Input} }
func (n *TopNRowNumber) ReferencedSymbols() []*Symbol {
	return append(append([]*Symbol{}, n.PartitionBy...), orderKeySymbols(n.OrderBy)...)
}

// WindowFunctionCall is one function computed by a Window operator.
type WindowFunctionCall struct {
	Function string
	Args     []*Symbol
	Output   *Symbol
}

// Window computes one or more window functions over PartitionBy/OrderBy
// groups.
type Window struct {
	base
	Input       PlanNode
	PartitionBy []*Symbol
	OrderBy     []OrderKey
	Functions   []WindowFunctionCall
}

func NewWindow(id PlanNodeId, input PlanNode, partitionBy []*Symbol, orderBy []OrderKey, functions []WindowFunctionCall) *Window {
	output := append([]*Symbol{}, input.OutputSymbols()...)
	for _, f := range functions {
		output = append(output, f.Output)
	}
	return &Window{base: base{id: id, output: output}, Input: input, PartitionBy: partitionBy, OrderBy: orderBy, Functions: functions}
}
func (n *Window) Kind() OperatorKind { return KindWindow }
func (n *Window) Inputs() []PlanNode { return []PlanNode{n.Input} }
func (n *Window) ReferencedSymbols() []*Symbol {
	refs := append(append([]*Symbol{}, n.PartitionBy...), orderKeySymbols(n.OrderBy)...)
	for _, f := range n.Functions {
		refs = append(refs, f.Args...)
	}
	return refs
}

// AggregationStep marks which stage of a (possibly split) aggregation
// an Aggregation operator represents.
type AggregationStep int

const (
	// AggSingle computes the aggregate in one pass; used whenever no
	// boundary is required.
	AggSingle AggregationStep = iota
	// AggPartial computes a per-partition partial aggregate that must
	// be combined by a downstream AggFinal.
	AggPartial
	// AggFinal combines AggPartial outputs (its inputs are the
	// intermediate symbols the partial stage produced) into the final
	// result.
	AggFinal
)

func (s AggregationStep) String() string {
	switch s {
	case AggPartial:
		return "PARTIAL"
	case AggFinal:
		return "FINAL"
	default:
		return "SINGLE"
	}
}

// AggregateCall is one aggregate function invocation inside an
// Aggregation operator.
type AggregateCall struct {
	Function string
	Args     []*Symbol
	// Mask, if non-nil, is a boolean symbol that gates which rows this
	// aggregate consumes. Only meaningful on partial/single stages;
	// dropped by the final stage.
	Mask *Symbol
	// Output is the symbol this call's result is bound to.
	Output *Symbol
}

// Aggregation groups Input's rows by GroupingKeys and computes
// Aggregates over each group.
type Aggregation struct {
	base
	Input          PlanNode
	GroupingKeys   []*Symbol
	Aggregates     []AggregateCall
	Step           AggregationStep
	// SampleWeight, if set, is consumed by PARTIAL/SINGLE stages only
	// and dropped from the final stage.
	SampleWeight *Symbol
}

func NewAggregation(id PlanNodeId, input PlanNode, groupingKeys []*Symbol, aggregates []AggregateCall, step AggregationStep, sampleWeight *Symbol) *Aggregation {
	output := append([]*Symbol{}, groupingKeys...)
	for _, a := range aggregates {
		output = append(output, a.Output)
	}
	return &Aggregation{
		base:         base{id: id, output: output},
		Input:        input,
		GroupingKeys: groupingKeys,
		Aggregates:   aggregates,
		Step:         step,
		SampleWeight: sampleWeight,
	}
}
func (n *Aggregation) Kind() OperatorKind { return KindAggregation }
func (n *Aggregation) Inputs() []PlanNode { return []PlanNode{n.Input} }
func (n *Aggregation) ReferencedSymbols() []*Symbol {
	refs := append([]*Symbol{}, n.GroupingKeys...)
	for _, a := range n.Aggregates {
		refs = append(refs, a.Args...)
		if a.Mask != nil {
			refs = append(refs, a.Mask)
		}
	}
	if n.SampleWeight != nil {
		refs = append(refs, n.SampleWeight)
	}
	return refs
}

// MarkDistinct appends a boolean MarkerSymbol that is true the first
// time a given DistinctSymbols tuple is seen.
type MarkDistinct struct {
	base
	Input           PlanNode
	DistinctSymbols []*Symbol
	MarkerSymbol    *Symbol
}

func NewMarkDistinct(id PlanNodeId, input PlanNode, distinctSymbols []*Symbol, markerSymbol *Symbol) *MarkDistinct {
	return &MarkDistinct{
		base:            base{id: id, output: append(append([]*Symbol{}, input.OutputSymbols()...), markerSymbol)},
		Input:           input,
		DistinctSymbols: distinctSymbols,
		MarkerSymbol:    markerSymbol,
	}
}
func (n *MarkDistinct) Kind() OperatorKind           { return KindMarkDistinct }
func (n *MarkDistinct) Inputs() []PlanNode           { return []PlanNode{n.Input} }
func (n *MarkDistinct) ReferencedSymbols() []*Symbol { return n.DistinctSymbols }

// JoinType is the closed set of join types this component supports.
// Any other join type is a fatal planning error.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
)

func (t JoinType) String() string {
	switch t {
	case LeftJoin:
		return "LEFT"
	case RightJoin:
		return "RIGHT"
	default:
		return "INNER"
	}
}

// Join is an equi-join between Left and Right on LeftKeys/RightKeys.
type Join struct {
	base
	Left, Right         PlanNode
	Type                JoinType
	LeftKeys, RightKeys []*Symbol
}

func NewJoin(id PlanNodeId, left, right PlanNode, typ JoinType, leftKeys, rightKeys []*Symbol, output []*Symbol) *Join {
	return &Join{base: base{id: id, output: output}, Left: left, Right: right, Type: typ, LeftKeys: leftKeys, RightKeys: rightKeys}
}
func (n *Join) Kind() OperatorKind { return KindJoin }
func (n *Join) Inputs() []PlanNode { return []PlanNode{n.Left, n.Right} }
func (n *Join) ReferencedSymbols() []*Symbol {
	return append(append([]*Symbol{}, n.LeftKeys...), n.RightKeys...)
}

// SemiJoin keeps Source rows that have a match in FilteringSource, on
// SourceJoinSymbol = FilteringSourceJoinSymbol.
type SemiJoin struct {
	base
	Source, FilteringSource               PlanNode
	SourceJoinSymbol, FilteringSourceJoinSymbol *Symbol
	// SemiJoinOutput, if non-nil, is a boolean symbol the operator
	// appends recording match/no-match instead of filtering.
	SemiJoinOutput *Symbol
}

func NewSemiJoin(id PlanNodeId, source, filteringSource PlanNode, sourceJoinSymbol, filteringSourceJoinSymbol *Symbol, semiJoinOutput *Symbol) *SemiJoin {
	output := append([]*Symbol{}, source.OutputSymbols()...)
	if semiJoinOutput != nil {
		output = append(output, semiJoinOutput)
	}
	return &SemiJoin{
		base:                      base{id: id, output: output},
		Source:                    source,
		FilteringSource:           filteringSource,
		SourceJoinSymbol:          sourceJoinSymbol,
		FilteringSourceJoinSymbol: filteringSourceJoinSymbol,
		SemiJoinOutput:            semiJoinOutput,
	}
}
func (n *SemiJoin) Kind() OperatorKind { return KindSemiJoin }
func (n *SemiJoin) Inputs() []PlanNode { return []PlanNode{n.Source, n.FilteringSource} }
func (n *SemiJoin) ReferencedSymbols() []*Symbol {
	return []*Symbol{n.SourceJoinSymbol, n.FilteringSourceJoinSymbol}
}

// IndexJoin probes an opaque per-row index lookup plan for each Probe
// row. The index side is never fragmented.
type IndexJoin struct {
	base
	Probe            PlanNode
	ProbeJoinSymbols []*Symbol
}

func NewIndexJoin(id PlanNodeId, probe PlanNode, probeJoinSymbols []*Symbol, output []*Symbol) *IndexJoin {
	return &IndexJoin{base: base{id: id, output: output}, Probe: probe, ProbeJoinSymbols: probeJoinSymbols}
}
func (n *IndexJoin) Kind() OperatorKind           { return KindIndexJoin }
func (n *IndexJoin) Inputs() []PlanNode           { return []PlanNode{n.Probe} }
func (n *IndexJoin) ReferencedSymbols() []*Symbol { return n.ProbeJoinSymbols }

// Union concatenates the rows of all Sources. Each source is expected
// to already output the union's own Output symbols (the same *Symbol
// values): in distributed mode the union's Exchange carries those
// symbols, and the sanity check rejects any branch whose output does
// not contain them. Column alignment across differently-shaped
// branches is a logical-planning concern (a Project under each branch)
// that happens upstream of the fragmenter.
type Union struct {
	base
	Sources []PlanNode
}

func NewUnion(id PlanNodeId, sources []PlanNode, output []*Symbol) *Union {
	return &Union{base: base{id: id, output: output}, Sources: sources}
}
func (n *Union) Kind() OperatorKind          { return KindUnion }
func (n *Union) Inputs() []PlanNode          { return n.Sources }
func (n *Union) ReferencedSymbols() []*Symbol { return nil }

// TableWriter writes Input's rows to Target.
type TableWriter struct {
	base
	Input  PlanNode
	Target string
}

func NewTableWriter(id PlanNodeId, input PlanNode, target string, output []*Symbol) *TableWriter {
	return &TableWriter{base: base{id: id, output: output}, Input: input, Target: target}
}
func (n *TableWriter) Kind() OperatorKind           { return KindTableWriter }
func (n *TableWriter) Inputs() []PlanNode           { return []PlanNode{n.Input} }
func (n *TableWriter) ReferencedSymbols() []*Symbol { return nil }

// TableCommit finalizes a write plan; it must run on the coordinator.
type TableCommit struct {
	base
	Input  PlanNode
	Target string
}

func NewTableCommit(id PlanNodeId, input PlanNode, target string) *TableCommit {
	return &TableCommit{base: base{id: id, output: input.OutputSymbols()}, Input: input, Target: target}
}
func (n *TableCommit) Kind() OperatorKind           { return KindTableCommit }
func (n *TableCommit) Inputs() []PlanNode           { return []PlanNode{n.Input} }
func (n *TableCommit) ReferencedSymbols() []*Symbol { return nil }

// Output is the root of a plan handed back to the client.
type Output struct {
	base
	Input       PlanNode
	ColumnNames []string
}

func NewOutput(id PlanNodeId, input PlanNode, columnNames []string) *Output {
	return &Output{base: base{id: id, output: input.OutputSymbols()}, Input: input, ColumnNames: columnNames}
}
func (n *Output) Kind() OperatorKind          { return KindOutput }
func (n *Output) Inputs() []PlanNode          { return []PlanNode{n.Input} }
func (n *Output) ReferencedSymbols() []*Symbol { return nil }

// Sink is a fragmenter-inserted marker terminating a fragment. Its
// output symbols are a snapshot of the wrapped root's output symbols
// at the moment it was capped.
type Sink struct {
	base
	Input PlanNode
}

func NewSink(id PlanNodeId, input PlanNode) *Sink {
	return &Sink{base: base{id: id, output: input.OutputSymbols()}, Input: input}
}
func (n *Sink) Kind() OperatorKind { return KindSink }
func (n *Sink) Inputs() []PlanNode { return []PlanNode{n.Input} }

// ReferencedSymbols returns nil: Sink's containment in its input's
// output is checked directly by the sanity check, not through the
// generic symbol-flow pass.
func (n *Sink) ReferencedSymbols() []*Symbol { return nil }

// Exchange is a fragmenter-inserted marker sourcing a fragment from
// one or more sealed child fragments. It carries no PlanNode inputs
// of its own; SourceFragments is the DAG edge.
type Exchange struct {
	base
	SourceFragments []PlanFragmentId
}

func NewExchange(id PlanNodeId, sourceFragments []PlanFragmentId, output []*Symbol) *Exchange {
	return &Exchange{base: base{id: id, output: output}, SourceFragments: sourceFragments}
}
func (n *Exchange) Kind() OperatorKind { return KindExchange }
func (n *Exchange) Inputs() []PlanNode { return nil }

// ReferencedSymbols returns nil: Exchange's cross-fragment symbol
// containment is checked directly by the sanity check, not through
// the generic symbol-flow pass.
func (n *Exchange) ReferencedSymbols() []*Symbol { return nil }
