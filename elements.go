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

// Element is the constraint on types that may flow through a pipeline.
// Any type works; the constraint exists so signatures document intent.
type Element interface {
	any
}

// Keys is an [Element] that is also [comparable]. Distinct keys must have
// distinct binary encodings in order for grouping transforms to distinguish
// them.
type Keys interface {
	comparable
	Element
}

// KV is a key value pair, the element type of keyed transforms like
// [GBK] and [CombinePerKey].
type KV[K Keys, V Element] struct {
	Key   K
	Value V
}

// Pair builds a KV from its parts, letting the types be inferred.
func Pair[K Keys, V Element](k K, v V) KV[K, V] {
	return KV[K, V]{Key: k, Value: v}
}

// Iter is a single use sequence of values, as produced for each key by [GBK].
// Range over it directly:
//
//	for v := range kv.Value {
//		...
//	}
type Iter[V Element] func(yield func(V) bool)
