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
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func logLines(buf *strings.Builder) []string {
	out := strings.TrimSuffix(buf.String(), "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func TestLogElements(t *testing.T) {
	var buf strings.Builder
	pr, err := LaunchAndWait(context.TODO(), func(s *Scope) error {
		src := Create(s, "carrot", "beet", "kale")
		logged := LogElements(s, src, ToWriter(&buf))
		namedDiscard(s, logged, "sink")
		return nil
	}, pipeName(t))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"carrot", "beet", "kale"}
	if d := cmp.Diff(want, logLines(&buf)); d != "" {
		t.Errorf("unexpected lines (-want, +got):\n%v", d)
	}
	// Pass through leaves the elements intact for downstream transforms.
	if got, want := int(pr.Counters["sink.Processed"]), 3; got != want {
		t.Errorf("sink processed %v elements, want %v", got, want)
	}
}

func TestLogElements_withTimestamps(t *testing.T) {
	base := time.Date(2020, 3, 4, 0, 0, 0, 0, time.UTC)
	var buf strings.Builder
	_, err := LaunchAndWait(context.TODO(), func(s *Scope) error {
		src := Create(s, 0, 1, 2)
		stamped := WithTimestamps(s, src, func(e int) time.Time {
			return base.AddDate(0, 0, e)
		})
		LogElements(s, stamped, ToWriter(&buf), WithLoggedTimestamps())
		return nil
	}, pipeName(t))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"0 ts=2020-03-04 00:00:00 +0000 UTC",
		"1 ts=2020-03-05 00:00:00 +0000 UTC",
		"2 ts=2020-03-06 00:00:00 +0000 UTC",
	}
	if d := cmp.Diff(want, logLines(&buf)); d != "" {
		t.Errorf("unexpected lines (-want, +got):\n%v", d)
	}
}

func TestLogElements_empty(t *testing.T) {
	var buf strings.Builder
	_, err := LaunchAndWait(context.TODO(), func(s *Scope) error {
		src := Create[int](s)
		LogElements(s, src, ToWriter(&buf))
		return nil
	}, pipeName(t))
	if err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "" {
		t.Errorf("empty input logged %q", got)
	}
}

func TestLogElements_downstreamFailure(t *testing.T) {
	var buf strings.Builder
	_, err := LaunchAndWait(context.TODO(), func(s *Scope) error {
		src := Create(s, 0, 1, 2, 3)
		logged := LogElements(s, src, ToWriter(&buf))
		ParDo(s, logged, &failAtFn{failOn: 2}, Name("failing"))
		return nil
	}, pipeName(t))
	if err == nil {
		t.Fatal("expected pipeline failure")
	}
	// Logged lines reach the writer even though the pipeline fails: the
	// bundle finish callback flushes before the failure aborts the run.
	want := []string{"0", "1", "2", "3"}
	if d := cmp.Diff(want, logLines(&buf)); d != "" {
		t.Errorf("unexpected lines (-want, +got):\n%v", d)
	}
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) {
	return 0, errors.New("writer closed")
}

func TestLogElements_writerError(t *testing.T) {
	_, err := LaunchAndWait(context.TODO(), func(s *Scope) error {
		src := Create(s, strings.Repeat("x", 8192))
		LogElements(s, src, ToWriter(shortWriter{}))
		return nil
	}, pipeName(t))
	if err == nil {
		t.Fatal("expected pipeline failure from sink writer")
	}
}
