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

package katas

import (
	"context"
	"fmt"
	"io"
	"time"

	"beamlet.dev/beam"
)

// Event is an order record with an intrinsic creation time.
type Event struct {
	ID        string
	Name      string
	Timestamp time.Time
}

func (e Event) String() string {
	return fmt.Sprintf("Event(%s, %s, %s)", e.ID, e.Name, e.Timestamp.Format(time.RFC3339))
}

// addTimestampFn assigns each event its own creation time as its event
// time, so downstream time sensitive processing sees when the event
// happened rather than when it was read.
type addTimestampFn struct {
	Output beam.PCol[Event]
}

func (fn *addTimestampFn) ProcessBundle(dfc *beam.DFC[Event]) error {
	return dfc.Process(func(ec beam.ElmC, e Event) error {
		fn.Output.EmitTimestamped(ec, e.Timestamp, e)
		return nil
	})
}

// AttachEventTimestamps stamps five order events with their creation
// times and logs each alongside its resulting event time, in input order.
func AttachEventTimestamps(ctx context.Context, w io.Writer) error {
	day := func(d int) time.Time {
		return time.Date(2020, 3, d, 0, 0, 0, 0, time.UTC)
	}
	_, err := beam.LaunchAndWait(ctx, func(s *beam.Scope) error {
		events := beam.Create(s,
			Event{ID: "1", Name: "book-order", Timestamp: day(4)},
			Event{ID: "2", Name: "pencil-order", Timestamp: day(5)},
			Event{ID: "3", Name: "paper-order", Timestamp: day(6)},
			Event{ID: "4", Name: "pencil-order", Timestamp: day(7)},
			Event{ID: "5", Name: "book-order", Timestamp: day(8)},
		)
		stamped := beam.ParDo(s, events, &addTimestampFn{}, beam.Name("AddTimestamp"))
		beam.LogElements(s, stamped.Output, beam.ToWriter(w), beam.WithLoggedTimestamps())
		return nil
	}, beam.Name("adding-timestamp"))
	return err
}
