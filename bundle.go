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

import "time"

// processor is the untyped handle to a DFC, held by element contexts so
// emitters can dispatch to their downstream collection without knowing its
// element type.
type processor interface {
	metricsScope()
}

// DFC is the DoFn Context for DoFns over elements of type E.
//
// A DFC is passed to a DoFn's ProcessBundle method at execution time. The
// DoFn registers its per element processing with [DFC.Process].
type DFC[E Element] struct {
	id        nodeIndex
	transform string

	dofn       Transform[E]
	downstream []processor

	perElm       func(ec ElmC, elm E) error
	finishBundle func() error
}

func (dfc *DFC[E]) metricsScope() {}

// Process is called during ProcessBundle to register the function applied to
// every element in the run. Process can only be called once per DoFn.
func (dfc *DFC[E]) Process(perElm func(ec ElmC, elm E) error) error {
	if dfc.perElm != nil {
		panic("Process called twice")
	}
	dfc.perElm = perElm
	return nil
}

func (dfc *DFC[E]) regBundleFinisher(finishBundle func() error) {
	dfc.finishBundle = finishBundle
}

// elmContext is the per element metadata threaded through the emit chain.
type elmContext struct {
	eventTime time.Time
}

// ElmC is the per element context passed to a DoFn's registered process
// function. It carries the element's metadata and the handles needed to
// emit to downstream collections.
type ElmC struct {
	elmContext

	pcollections []processor
}

// EventTime returns the element's event time.
func (e *ElmC) EventTime() time.Time {
	return e.eventTime
}
