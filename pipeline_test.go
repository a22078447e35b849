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
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func pipeName(t *testing.T) Options {
	return Name(t.Name())
}

// convenience function to allow the discard type to be inferred.
func namedDiscard[E Element](s *Scope, input PCol[E], name string) {
	ParDo(s, input, &DiscardFn[E]{}, Name(name))
}

// collectFn gathers final elements and their event times, for direct
// assertions. Execution is single threaded, so a plain slice works.
type collectFn[E Element] struct {
	got   *[]E
	times *[]time.Time
}

func (fn *collectFn[E]) ProcessBundle(dfc *DFC[E]) error {
	return dfc.Process(func(ec ElmC, elm E) error {
		*fn.got = append(*fn.got, elm)
		if fn.times != nil {
			*fn.times = append(*fn.times, ec.EventTime())
		}
		return nil
	})
}

func TestImpulse(t *testing.T) {
	pr, err := LaunchAndWait(context.TODO(), func(s *Scope) error {
		imp := Impulse(s)
		namedDiscard(s, imp, "sink")
		return nil
	}, pipeName(t))
	if err != nil {
		t.Error(err)
	}
	if got, want := int(pr.Counters["sink.Processed"]), 1; got != want {
		t.Errorf("impulse emitted %v elements, want %v", got, want)
	}
}

func TestCreate(t *testing.T) {
	var got []int
	_, err := LaunchAndWait(context.TODO(), func(s *Scope) error {
		src := Create(s, 8, 3, 7, 4, 6)
		ParDo(s, src, &collectFn[int]{got: &got}, Name("collect"))
		return nil
	}, pipeName(t))
	if err != nil {
		t.Error(err)
	}
	// Create preserves the caller's order.
	if d := cmp.Diff([]int{8, 3, 7, 4, 6}, got); d != "" {
		t.Errorf("unexpected elements (-want, +got):\n%v", d)
	}
}

func TestCreate_empty(t *testing.T) {
	pr, err := LaunchAndWait(context.TODO(), func(s *Scope) error {
		src := Create[string](s)
		namedDiscard(s, src, "sink")
		return nil
	}, pipeName(t))
	if err != nil {
		t.Errorf("empty Create must not fail: %v", err)
	}
	if got, want := int(pr.Counters["sink.Processed"]), 0; got != want {
		t.Errorf("processed %v elements, want %v", got, want)
	}
}

func TestLaunchAndWait_rerunIdempotent(t *testing.T) {
	run := func() (PipelineResult, error) {
		return LaunchAndWait(context.TODO(), func(s *Scope) error {
			src := Create(s, Pair("a", 1), Pair("b", 2), Pair("a", 3))
			sums := CombinePerKey(s, src, SimpleMerge(SumFn[int]{}))
			namedDiscard(s, sums, "sink")
			return nil
		}, pipeName(t))
	}
	first, err := run()
	if err != nil {
		t.Fatal(err)
	}
	second, err := run()
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(first.Counters, second.Counters); d != "" {
		t.Errorf("reruns disagree (-first, +second):\n%v", d)
	}
}

type failAtFn struct {
	failOn int

	Output PCol[int]
}

func (fn *failAtFn) ProcessBundle(dfc *DFC[int]) error {
	return dfc.Process(func(ec ElmC, elm int) error {
		if elm == fn.failOn {
			return errors.Errorf("cannot process %v", elm)
		}
		fn.Output.Emit(ec, elm)
		return nil
	})
}

func TestLaunchAndWait_failFast(t *testing.T) {
	pr, err := LaunchAndWait(context.TODO(), func(s *Scope) error {
		src := Create(s, 0, 1, 2, 3, 4)
		bad := ParDo(s, src, &failAtFn{failOn: 2}, Name("failing"))
		namedDiscard(s, bad.Output, "sink")
		return nil
	}, pipeName(t))
	if err == nil {
		t.Fatal("expected pipeline failure")
	}
	// The run aborts at the failing transform; the sink never executes.
	if got, want := int(pr.Counters["sink.Processed"]), 0; got != want {
		t.Errorf("sink processed %v elements after abort, want %v", got, want)
	}
}

type finishingFn struct {
	finished *bool

	OnBundleFinish
	Output PCol[int]
}

func (fn *finishingFn) ProcessBundle(dfc *DFC[int]) error {
	fn.OnBundleFinish.Do(dfc, func() error {
		*fn.finished = true
		return nil
	})
	return dfc.Process(func(ec ElmC, elm int) error {
		if elm > 1 {
			return errors.New("boom")
		}
		fn.Output.Emit(ec, elm)
		return nil
	})
}

func TestOnBundleFinish_runsOnFailure(t *testing.T) {
	var finished bool
	_, err := LaunchAndWait(context.TODO(), func(s *Scope) error {
		src := Create(s, 0, 1, 2)
		out := ParDo(s, src, &finishingFn{finished: &finished}, Name("finisher"))
		namedDiscard(s, out.Output, "sink")
		return nil
	}, pipeName(t))
	if err == nil {
		t.Fatal("expected pipeline failure")
	}
	if !finished {
		t.Error("bundle finish callback didn't run on the failure path")
	}
}

func TestLaunchAndWait_constructionError(t *testing.T) {
	want := errors.New("bad expansion")
	_, err := LaunchAndWait(context.TODO(), func(s *Scope) error {
		return want
	}, pipeName(t))
	if !errors.Is(err, want) {
		t.Errorf("got error %v, want wrapped %v", err, want)
	}
}

func TestWithTimestamps(t *testing.T) {
	base := time.Date(2020, 3, 4, 0, 0, 0, 0, time.UTC)
	var got []int
	var times []time.Time
	_, err := LaunchAndWait(context.TODO(), func(s *Scope) error {
		src := Create(s, 0, 1, 2, 3, 4)
		stamped := WithTimestamps(s, src, func(e int) time.Time {
			return base.AddDate(0, 0, e)
		})
		ParDo(s, stamped, &collectFn[int]{got: &got, times: &times}, Name("collect"))
		return nil
	}, pipeName(t))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]int{0, 1, 2, 3, 4}, got); d != "" {
		t.Errorf("element order changed (-want, +got):\n%v", d)
	}
	for i, ts := range times {
		if want := base.AddDate(0, 0, i); !ts.Equal(want) {
			t.Errorf("element %v has event time %v, want %v", i, ts, want)
		}
	}
}
