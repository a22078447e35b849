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

	"github.com/pkg/errors"
)

// dofns.go is about the field types a DoFn struct may carry, and what the
// graph does with them when the DoFn is added via ParDo.

// beamMixin is added to all DoFn beam field types so construction can tell
// them apart from ordinary user configuration fields.
type beamMixin struct{}

func (beamMixin) beamBypass() {}

type bypassInterface interface {
	beamBypass()
}

// Transform is the interface all DoFns implement for their input type E.
//
// ProcessBundle is called once per run, before any elements arrive. It must
// call [DFC.Process] to register the per element function, and may register
// an [OnBundleFinish] callback for cleanup.
type Transform[E Element] interface {
	ProcessBundle(dfc *DFC[E]) error
}

// PCol or PCollection represents a logical collection of elements produced,
// or consumed by a DoFn.
//
// Used as an exported value field of a DoFn struct, a PCol is one of that
// DoFn's outputs. After the DoFn is added to the graph, the processed DoFn's
// PCol fields are initialized and can be passed around by value to further
// build the pipeline.
type PCol[E Element] struct {
	beamMixin

	valid                bool
	globalIndex          nodeIndex
	localDownstreamIndex int
}

type emitIface interface {
	setPColKey(global nodeIndex, id int)
	newNode(protoID string, global nodeIndex, parent edgeIndex) node
}

var _ emitIface = (*PCol[any])(nil)

func (emt *PCol[E]) setPColKey(global nodeIndex, id int) {
	emt.valid = true
	emt.globalIndex = global
	emt.localDownstreamIndex = id
}

func (emt *PCol[E]) newNode(id string, global nodeIndex, parent edgeIndex) node {
	return &typedNode[E]{id: id, index: global, parentEdge: parent}
}

// Emit the element within the current element's context.
//
// The ElmC value is sourced from the [DFC.Process] method. The emitted
// element inherits the current element's event time.
func (emt *PCol[E]) Emit(ec ElmC, elm E) {
	// Call the downstream processor directly. On failure the error
	// propagates as a panic so emission stops at the first bad element;
	// the evaluator recovers it into the pipeline error.
	proc := ec.pcollections[emt.localDownstreamIndex]
	dfc := proc.(*DFC[E])
	if err := dfc.perElm(ElmC{ec.elmContext, dfc.downstream}, elm); err != nil {
		panic(errors.Wrapf(err, "emitting to %v failed", dfc.id))
	}
}

// EmitTimestamped emits the element with ts as its event time, overriding
// the current element's event time for everything downstream.
//
// This is how a pipeline attaches an instant derived from the element
// itself, such as an intrinsic creation time, ahead of any time sensitive
// processing. See also [WithTimestamps] for the closure form.
func (emt *PCol[E]) EmitTimestamped(ec ElmC, ts time.Time, elm E) {
	ec.eventTime = ts
	emt.Emit(ec, elm)
}

// OnBundleFinish allows a DoFn to register a function that runs after all
// elements of the run have been processed. Elements may still be emitted
// downstream, if an ElmC is retained from processing.
type OnBundleFinish struct{}

type bundleFinisher interface {
	regBundleFinisher(finishBundle func() error)
}

// Do registers a callback to execute after all elements have been processed.
// Any resources that a DoFn needs cleaned up explicitly rather than
// implicitly via garbage collection should be handled here. The callback
// runs even when the run is aborting due to a failure.
//
// Only a single callback may be registered, and it will be the last one
// passed to Do.
func (*OnBundleFinish) Do(dfc bundleFinisher, finishBundle func() error) {
	dfc.regBundleFinisher(finishBundle)
}
