// Licensed to the Apache Software Foundation (ASF) under one or more
// contributor license agreements.  See the NOTICE file distributed with
// this work for additional information regarding copyright ownership.
// The ASF licenses this file to You under the Apache License, Version 2.0
// (the "License"); you may not use this file except in compliance with
// the License.  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package beam

import (
	"golang.org/x/exp/constraints"

	"beamlet.dev/beam/internal/beamopts"
)

// combine.go implements keyed combining: group by key, then reduce each
// key's values to a single output with a user combiner.

// AccumulatorMerger is the minimal combiner: a binary merge over
// accumulators. MergeAccumulators must be associative and commutative;
// the order values are merged in is unconstrained. A non conforming merge
// function is a caller bug that cannot be detected at run time, and its
// output is undefined.
type AccumulatorMerger[A Element] interface {
	MergeAccumulators(a, b A) A
}

// FullCombiner is a combiner with the full lifecycle: fold inputs into an
// accumulator, merge accumulators, extract a final output. The zero value
// of A must be a valid empty accumulator. The same associativity and
// commutativity requirement as [AccumulatorMerger] applies.
type FullCombiner[A, I, O Element] interface {
	AccumulatorMerger[A]
	AddInput(a A, i I) A
	ExtractOutput(a A) O
}

// Combiner is a configured combining strategy, built with [SimpleMerge] or
// [FullCombine] and passed to [CombinePerKey].
type Combiner[A, I, O Element, AM AccumulatorMerger[A]] struct {
	am AM

	seed    func(I) A
	add     func(A, I) A
	extract func(A) O
}

// SimpleMerge lifts a bare [AccumulatorMerger] into a Combiner whose
// accumulator, input, and output types coincide. The first value of each
// key seeds the accumulator, so merges like min and max work without a
// synthetic identity value.
func SimpleMerge[A Element, AM AccumulatorMerger[A]](am AM) Combiner[A, A, A, AM] {
	return Combiner[A, A, A, AM]{
		am:      am,
		seed:    func(i A) A { return i },
		add:     am.MergeAccumulators,
		extract: func(a A) A { return a },
	}
}

// FullCombine lifts a [FullCombiner] into a Combiner. Accumulation starts
// from the zero accumulator.
func FullCombine[A, I, O Element, AM FullCombiner[A, I, O]](am AM) Combiner[A, I, O, AM] {
	return Combiner[A, I, O, AM]{
		am: am,
		seed: func(i I) A {
			var zero A
			return am.AddInput(zero, i)
		},
		add:     am.AddInput,
		extract: am.ExtractOutput,
	}
}

// CombinePerKey reduces all values sharing a key to a single output per
// key. The output contains exactly one element per distinct key in the
// input, in no guaranteed order.
func CombinePerKey[K Keys, A, I, O Element, AM AccumulatorMerger[A]](s *Scope, input PCol[KV[K, I]], comb Combiner[A, I, O, AM], opts ...Options) PCol[KV[K, O]] {
	var opt beamopts.Struct
	opt.Join(opts...)

	edgeID := s.g.curEdgeIndex()
	nodeID := s.g.curNodeIndex()
	s.g.addConsumer(input.globalIndex, edgeID)

	s.g.edges = append(s.g.edges, &edgeCombine[K, A, I, O]{
		index:   edgeID,
		input:   input.globalIndex,
		output:  nodeID,
		seed:    comb.seed,
		add:     comb.add,
		extract: comb.extract,
		opts:    opt,
	})
	s.g.nodes = append(s.g.nodes, &typedNode[KV[K, O]]{id: nodeID.String(), index: nodeID, parentEdge: edgeID})

	return PCol[KV[K, O]]{valid: true, globalIndex: nodeID}
}

// edgeCombine represents a CombinePerKey transform.
type edgeCombine[K Keys, A, I, O Element] struct {
	index edgeIndex

	input, output nodeIndex

	seed    func(I) A
	add     func(A, I) A
	extract func(A) O

	opts beamopts.Struct
}

func (e *edgeCombine[K, A, I, O]) edgeID() edgeIndex {
	return e.index
}

func (e *edgeCombine[K, A, I, O]) inputs() map[string]nodeIndex {
	return map[string]nodeIndex{"i0": e.input}
}

func (e *edgeCombine[K, A, I, O]) outputs() map[string]nodeIndex {
	return map[string]nodeIndex{"o0": e.output}
}

func (e *edgeCombine[K, A, I, O]) name() string {
	if e.opts.Name != "" {
		return e.opts.Name
	}
	return "CombinePerKey"
}

func (e *edgeCombine[K, A, I, O]) execute(p *plan) error {
	in := p.g.nodes[e.input].(*typedNode[KV[K, I]])
	out := p.g.nodes[e.output].(*typedNode[KV[K, O]])

	groups, times := groupByEncodedKey(in.elems)
	for kb, g := range groups {
		acc := e.seed(g.values[0])
		for _, v := range g.values[1:] {
			acc = e.add(acc, v)
		}
		out.elems = append(out.elems, element[KV[K, O]]{
			eventTime: times[kb],
			value:     KV[K, O]{Key: g.key, Value: e.extract(acc)},
		})
	}
	return nil
}

var _ multiEdge = (*edgeCombine[int, int, int, int])(nil)

// Stock combiners over the ordered numeric types.

// SumFn sums values. Use with [SimpleMerge].
type SumFn[E constraints.Integer | constraints.Float] struct{}

func (SumFn[E]) MergeAccumulators(a, b E) E {
	return a + b
}

// MinFn keeps the smallest value. Use with [SimpleMerge].
type MinFn[E constraints.Ordered] struct{}

func (MinFn[E]) MergeAccumulators(a, b E) E {
	if b < a {
		return b
	}
	return a
}

// MaxFn keeps the largest value. Use with [SimpleMerge].
type MaxFn[E constraints.Ordered] struct{}

func (MaxFn[E]) MergeAccumulators(a, b E) E {
	if b > a {
		return b
	}
	return a
}

// CountFn counts values regardless of their type. Use with [FullCombine].
type CountFn[E Element] struct{}

func (CountFn[E]) AddInput(a int64, _ E) int64 {
	return a + 1
}

func (CountFn[E]) MergeAccumulators(a, b int64) int64 {
	return a + b
}

func (CountFn[E]) ExtractOutput(a int64) int64 {
	return a
}

// MeanFn averages values. Use with [FullCombine].
type MeanFn[E constraints.Integer | constraints.Float] struct{}

type meanAccum[E constraints.Integer | constraints.Float] struct {
	Count int64
	Sum   E
}

func (MeanFn[E]) AddInput(a meanAccum[E], i E) meanAccum[E] {
	a.Count++
	a.Sum += i
	return a
}

func (MeanFn[E]) MergeAccumulators(a, b meanAccum[E]) meanAccum[E] {
	return meanAccum[E]{Count: a.Count + b.Count, Sum: a.Sum + b.Sum}
}

func (MeanFn[E]) ExtractOutput(a meanAccum[E]) float64 {
	if a.Count == 0 {
		return 0
	}
	return float64(a.Sum) / float64(a.Count)
}
