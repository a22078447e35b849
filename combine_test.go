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
	"context"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCombineKeyedSum(t *testing.T) {
	// We need to have all the keys, so 1.
	pr, err := LaunchAndWait(context.TODO(), func(s *Scope) error {
		imp := Impulse(s)
		src := ParDo(s, imp, &SourceFn{Count: 10})
		keyedSrc := ParDo(s, src.Output, &AddFixedKeyFn[int]{})
		sums := CombinePerKey(s, keyedSrc.Output, SimpleMerge(SumFn[int]{}))
		ParDo(s, sums, &DiscardFn[KV[int, int]]{}, Name("sink"))
		return nil
	}, pipeName(t))
	if err != nil {
		t.Error(err)
	}
	if got, want := int(pr.Counters["sink.Processed"]), 1; got != want {
		t.Fatalf("processed didn't match bench number: got %v want %v", got, want)
	}
}

func TestCombineKeyedMean(t *testing.T) {
	// We need to have all the keys, so 1.
	pr, err := LaunchAndWait(context.TODO(), func(s *Scope) error {
		imp := Impulse(s)
		src := ParDo(s, imp, &SourceFn{Count: 10})
		keyedSrc := ParDo(s, src.Output, &AddFixedKeyFn[int]{})
		means := CombinePerKey(s, keyedSrc.Output, FullCombine(MeanFn[int]{}))
		namedDiscard(s, means, "sink")
		return nil
	}, pipeName(t))
	if err != nil {
		t.Error(err)
	}
	if got, want := int(pr.Counters["sink.Processed"]), 1; got != want {
		t.Fatalf("processed didn't match bench number: got %v want %v", got, want)
	}
}

type AddFixedKeyFn[E Element] struct {
	Output PCol[KV[int, E]]
}

func (fn *AddFixedKeyFn[E]) ProcessBundle(dfc *DFC[E]) error {
	dfc.Process(func(ec ElmC, elm E) error {
		fn.Output.Emit(ec, KV[int, E]{Key: 0, Value: elm})
		return nil
	})
	return nil
}

func combinePerKeySums(t *testing.T, scores []KV[string, int]) []KV[string, int] {
	t.Helper()
	var got []KV[string, int]
	_, err := LaunchAndWait(context.TODO(), func(s *Scope) error {
		src := Create(s, scores...)
		sums := CombinePerKey(s, src, SimpleMerge(SumFn[int]{}))
		ParDo(s, sums, &collectFn[KV[string, int]]{got: &got}, Name("collect"))
		return nil
	}, pipeName(t))
	if err != nil {
		t.Fatal(err)
	}
	sort.Slice(got, func(i, j int) bool { return got[i].Key < got[j].Key })
	return got
}

func TestCombinePerKey(t *testing.T) {
	got := combinePerKeySums(t, []KV[string, int]{
		Pair("Player 1", 15),
		Pair("Player 2", 10),
		Pair("Player 1", 100),
		Pair("Player 3", 25),
		Pair("Player 2", 75),
	})
	want := []KV[string, int]{
		Pair("Player 1", 115),
		Pair("Player 2", 85),
		Pair("Player 3", 25),
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("unexpected sums (-want, +got):\n%v", d)
	}
}

func TestCombinePerKey_orderInsensitive(t *testing.T) {
	scores := []KV[string, int]{
		Pair("a", 1), Pair("b", 2), Pair("a", 3), Pair("c", 4), Pair("b", 5),
	}
	want := combinePerKeySums(t, scores)

	reversed := make([]KV[string, int], len(scores))
	for i, kv := range scores {
		reversed[len(scores)-1-i] = kv
	}
	got := combinePerKeySums(t, reversed)
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("input order changed the sums (-fwd, +rev):\n%v", d)
	}
}

func TestCombinePerKey_empty(t *testing.T) {
	if got := combinePerKeySums(t, nil); len(got) != 0 {
		t.Errorf("empty input produced %v", got)
	}
}

func TestCombinePerKey_minMax(t *testing.T) {
	var mins, maxs []KV[string, int]
	_, err := LaunchAndWait(context.TODO(), func(s *Scope) error {
		src := Create(s,
			Pair("a", 7), Pair("a", -2), Pair("a", 4),
			Pair("b", 3),
		)
		ParDo(s, CombinePerKey(s, src, SimpleMerge(MinFn[int]{})),
			&collectFn[KV[string, int]]{got: &mins}, Name("mins"))
		ParDo(s, CombinePerKey(s, src, SimpleMerge(MaxFn[int]{})),
			&collectFn[KV[string, int]]{got: &maxs}, Name("maxs"))
		return nil
	}, pipeName(t))
	if err != nil {
		t.Fatal(err)
	}
	sort.Slice(mins, func(i, j int) bool { return mins[i].Key < mins[j].Key })
	sort.Slice(maxs, func(i, j int) bool { return maxs[i].Key < maxs[j].Key })
	// The first value seeds the accumulator, so results below the zero
	// value and single element keys both come out right.
	if d := cmp.Diff([]KV[string, int]{Pair("a", -2), Pair("b", 3)}, mins); d != "" {
		t.Errorf("unexpected mins (-want, +got):\n%v", d)
	}
	if d := cmp.Diff([]KV[string, int]{Pair("a", 7), Pair("b", 3)}, maxs); d != "" {
		t.Errorf("unexpected maxs (-want, +got):\n%v", d)
	}
}

func TestCombinePerKey_count(t *testing.T) {
	var got []KV[string, int64]
	_, err := LaunchAndWait(context.TODO(), func(s *Scope) error {
		src := Create(s,
			Pair("a", "x"), Pair("a", "y"), Pair("b", "z"),
		)
		counts := CombinePerKey(s, src, FullCombine(CountFn[string]{}))
		ParDo(s, counts, &collectFn[KV[string, int64]]{got: &got}, Name("collect"))
		return nil
	}, pipeName(t))
	if err != nil {
		t.Fatal(err)
	}
	sort.Slice(got, func(i, j int) bool { return got[i].Key < got[j].Key })
	want := []KV[string, int64]{Pair("a", int64(2)), Pair("b", int64(1))}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("unexpected counts (-want, +got):\n%v", d)
	}
}
