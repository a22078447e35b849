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

	"beamlet.dev/beam/internal/beamopts"
)

// lightweight.go holds the closure forms of element wise transforms, for
// when a full DoFn struct is more ceremony than the stage warrants.

type mapper[I, O Element] struct {
	fn func(I) O

	Output PCol[O]
}

func (fn *mapper[I, O]) ProcessBundle(dfc *DFC[I]) error {
	return dfc.Process(func(ec ElmC, in I) error {
		fn.Output.Emit(ec, fn.fn(in))
		return nil
	})
}

// Map applies lambda to each element, producing exactly one output per
// input, in input order.
func Map[I, O Element](s *Scope, input PCol[I], lambda func(I) O, opts ...beamopts.Options) PCol[O] {
	out := ParDo(s, input, &mapper[I, O]{fn: lambda}, opts...)
	return out.Output
}

type flatMapper[I, O Element] struct {
	fn func(I) []O

	Output PCol[O]
}

func (fn *flatMapper[I, O]) ProcessBundle(dfc *DFC[I]) error {
	return dfc.Process(func(ec ElmC, in I) error {
		for _, out := range fn.fn(in) {
			fn.Output.Emit(ec, out)
		}
		return nil
	})
}

// FlatMap applies lambda to each element, producing zero or more outputs
// per input, in input order.
func FlatMap[I, O Element](s *Scope, input PCol[I], lambda func(I) []O, opts ...beamopts.Options) PCol[O] {
	out := ParDo(s, input, &flatMapper[I, O]{fn: lambda}, opts...)
	return out.Output
}

type filterer[E Element] struct {
	keep func(E) bool

	Output PCol[E]
}

func (fn *filterer[E]) ProcessBundle(dfc *DFC[E]) error {
	return dfc.Process(func(ec ElmC, in E) error {
		if fn.keep(in) {
			fn.Output.Emit(ec, in)
		}
		return nil
	})
}

// Filter keeps the elements for which keep returns true, in input order.
func Filter[E Element](s *Scope, input PCol[E], keep func(E) bool, opts ...beamopts.Options) PCol[E] {
	out := ParDo(s, input, &filterer[E]{keep: keep}, opts...)
	return out.Output
}

type timestamper[E Element] struct {
	fn func(E) time.Time

	Output PCol[E]
}

func (fn *timestamper[E]) ProcessBundle(dfc *DFC[E]) error {
	return dfc.Process(func(ec ElmC, in E) error {
		fn.Output.EmitTimestamped(ec, fn.fn(in), in)
		return nil
	})
}

// WithTimestamps assigns each element the event time derived from the
// element itself, such as an intrinsic creation time field. The elements
// pass through otherwise unchanged, in input order.
func WithTimestamps[E Element](s *Scope, input PCol[E], eventTime func(E) time.Time, opts ...beamopts.Options) PCol[E] {
	out := ParDo(s, input, &timestamper[E]{fn: eventTime}, opts...)
	return out.Output
}
