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

// workerfns.go holds small general purpose DoFns, largely implemented in
// the same manner as user DoFns.

// SourceFn emits the integers [0, Count) for each input element. Handy as
// a deterministic element source in tests and examples.
type SourceFn struct {
	Count int

	Output PCol[int]
}

func (fn *SourceFn) ProcessBundle(dfc *DFC[[]byte]) error {
	return dfc.Process(func(ec ElmC, _ []byte) error {
		for i := 0; i < fn.Count; i++ {
			fn.Output.Emit(ec, i)
		}
		return nil
	})
}

// DiscardFn is a sink that drops its input, counting what it saw in the
// Processed counter.
type DiscardFn[E Element] struct {
	Processed CounterInt64
}

func (fn *DiscardFn[E]) ProcessBundle(dfc *DFC[E]) error {
	return dfc.Process(func(ec ElmC, elm E) error {
		fn.Processed.Inc(dfc, 1)
		return nil
	})
}
