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
	"time"

	"beamlet.dev/beam/coders"
	"beamlet.dev/beam/internal/beamopts"
)

// GBK produces an output PCollection of values grouped by key.
//
// Grouping is by the key's binary encoding, so distinct keys must encode
// distinctly. The output contains exactly one element per distinct key in
// the input, in no guaranteed order. Each grouped element carries the
// latest event time among its member elements.
func GBK[K Keys, V Element](s *Scope, input PCol[KV[K, V]], opts ...Options) PCol[KV[K, Iter[V]]] {
	var opt beamopts.Struct
	opt.Join(opts...)

	edgeID := s.g.curEdgeIndex()
	nodeID := s.g.curNodeIndex()
	s.g.addConsumer(input.globalIndex, edgeID)

	s.g.edges = append(s.g.edges, &edgeGBK[K, V]{index: edgeID, input: input.globalIndex, output: nodeID, opts: opt})
	s.g.nodes = append(s.g.nodes, &typedNode[KV[K, Iter[V]]]{id: nodeID.String(), index: nodeID, parentEdge: edgeID})

	return PCol[KV[K, Iter[V]]]{valid: true, globalIndex: nodeID}
}

// edgeGBK represents a Group By Key transform.
type edgeGBK[K Keys, V Element] struct {
	index edgeIndex

	input, output nodeIndex
	opts          beamopts.Struct
}

func (e *edgeGBK[K, V]) edgeID() edgeIndex {
	return e.index
}

// inputs for GBKs are one.
func (e *edgeGBK[K, V]) inputs() map[string]nodeIndex {
	return map[string]nodeIndex{"i0": e.input}
}

// outputs for GBKs are one.
func (e *edgeGBK[K, V]) outputs() map[string]nodeIndex {
	return map[string]nodeIndex{"o0": e.output}
}

func (e *edgeGBK[K, V]) name() string {
	if e.opts.Name != "" {
		return e.opts.Name
	}
	return "GroupByKey"
}

func (e *edgeGBK[K, V]) execute(p *plan) error {
	in := p.g.nodes[e.input].(*typedNode[KV[K, V]])
	out := p.g.nodes[e.output].(*typedNode[KV[K, Iter[V]]])

	groups, times := groupByEncodedKey(in.elems)
	// Map iteration order here is exactly the "no canonical key order"
	// contract of the output.
	for kb, g := range groups {
		vals := g.values
		it := Iter[V](func(yield func(V) bool) {
			for _, v := range vals {
				if !yield(v) {
					return
				}
			}
		})
		out.elems = append(out.elems, element[KV[K, Iter[V]]]{
			eventTime: times[kb],
			value:     KV[K, Iter[V]]{Key: g.key, Value: it},
		})
	}
	return nil
}

var _ multiEdge = (*edgeGBK[int, int])(nil)

type keyGroup[K Keys, V Element] struct {
	key    K
	values []V
}

// groupByEncodedKey buckets keyed elements by their key's binary encoding,
// keeping per key insertion order of values and the latest member event
// time per key.
func groupByEncodedKey[K Keys, V Element](elems []element[KV[K, V]]) (map[string]*keyGroup[K, V], map[string]time.Time) {
	kc := coders.MakeCoder[K]()
	groups := map[string]*keyGroup[K, V]{}
	times := map[string]time.Time{}
	for _, elm := range elems {
		enc := coders.NewEncoder()
		kc.Encode(enc, elm.value.Key)
		kb := string(enc.Data())

		g, ok := groups[kb]
		if !ok {
			g = &keyGroup[K, V]{key: elm.value.Key}
			groups[kb] = g
			times[kb] = elm.eventTime
		}
		g.values = append(g.values, elm.value.Value)
		if elm.eventTime.After(times[kb]) {
			times[kb] = elm.eventTime
		}
	}
	return groups, times
}
