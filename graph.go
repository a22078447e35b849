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
	"fmt"
	"math"
	"time"
)

// graph.go holds the deferred representation of a pipeline: nodes are
// collections of elements, edges are the transforms that produce them.
// Construction appends to both in order, and since every edge only consumes
// collections that already exist, the edge list is always in a valid
// execution order.

type nodeIndex int
type edgeIndex int

func (i nodeIndex) String() string {
	return fmt.Sprintf("n%d", int(i))
}

func (i edgeIndex) String() string {
	return fmt.Sprintf("e%d", int(i))
}

// element pairs a value with its event time metadata for the duration of a
// single run.
type element[E Element] struct {
	eventTime time.Time
	value     E
}

// minEventTime is the event time of elements with no assigned timestamp,
// the start of the global window.
var minEventTime = time.UnixMicro(math.MinInt64)

// node is a typed collection in the graph. During execution it buffers the
// materialized elements produced by its parent edge.
type node interface {
	nodeID() nodeIndex
	// collector returns a processor that appends emitted elements to this
	// node's buffer, preserving the emitting element's event time.
	collector() processor
	// elementCount reports how many elements this node buffered.
	elementCount() int64
}

type typedNode[E Element] struct {
	id         string
	index      nodeIndex
	parentEdge edgeIndex

	elems []element[E]
}

func (n *typedNode[E]) nodeID() nodeIndex { return n.index }

func (n *typedNode[E]) collector() processor {
	dfc := &DFC[E]{id: n.index}
	dfc.perElm = func(ec ElmC, elm E) error {
		n.elems = append(n.elems, element[E]{eventTime: ec.eventTime, value: elm})
		return nil
	}
	return dfc
}

func (n *typedNode[E]) elementCount() int64 {
	return int64(len(n.elems))
}

// multiEdge is a transform in the graph. Beyond the construction time
// bookkeeping, each edge knows how to execute itself against the
// materialized buffers of its input nodes.
type multiEdge interface {
	edgeID() edgeIndex
	inputs() map[string]nodeIndex
	outputs() map[string]nodeIndex
	// name is the configured or derived transform name, used in error
	// wrapping and counter keys.
	name() string
	execute(p *plan) error
}

type graph struct {
	nodes []node
	edges []multiEdge

	// consumers maps collections to the edges that read them.
	consumers map[nodeIndex][]edgeIndex
}

func (g *graph) curNodeIndex() nodeIndex {
	return nodeIndex(len(g.nodes))
}

func (g *graph) curEdgeIndex() edgeIndex {
	return edgeIndex(len(g.edges))
}

func (g *graph) addConsumer(input nodeIndex, edge edgeIndex) {
	if g.consumers == nil {
		g.consumers = map[nodeIndex][]edgeIndex{}
	}
	g.consumers[input] = append(g.consumers[input], edge)
}
