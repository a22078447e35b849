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
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"beamlet.dev/beam/internal/beamopts"
	"beamlet.dev/beam/internal/elog"
)

// logElementsFn renders each element as one log line, in the order the
// upstream transform delivers them. Output is buffered and flushed when
// the bundle finishes, on every exit path.
type logElementsFn[E Element] struct {
	out            io.Writer
	withTimestamps bool

	OnBundleFinish
	Output PCol[E]
}

func (fn *logElementsFn[E]) ProcessBundle(dfc *DFC[E]) error {
	w := fn.out
	if w == nil {
		w = os.Stdout
	}
	bw := bufio.NewWriter(w)
	logger := slog.New(elog.New(bw, nil))
	fn.OnBundleFinish.Do(dfc, func() error {
		return bw.Flush()
	})
	ctx := context.Background()
	return dfc.Process(func(ec ElmC, elm E) error {
		if fn.withTimestamps {
			logger.LogAttrs(ctx, slog.LevelInfo, fmt.Sprintf("%v", elm), slog.Time("ts", ec.EventTime()))
		} else {
			logger.Info(fmt.Sprintf("%v", elm))
		}
		fn.Output.Emit(ec, elm)
		return nil
	})
}

// LogElements renders each element of the input to an observable text
// stream, one line per element, and passes the elements through unchanged.
//
// By default lines go to standard output; use [ToWriter] to capture them
// elsewhere. With [WithLoggedTimestamps], each line also carries the
// element's event time. No ordering guarantee exists beyond whatever the
// upstream transform emits.
func LogElements[E Element](s *Scope, input PCol[E], opts ...Options) PCol[E] {
	var opt beamopts.Struct
	opt.Join(opts...)
	if opt.Name == "" {
		opts = append(opts, Name("LogElements"))
	}
	dofn := &logElementsFn[E]{out: opt.Writer, withTimestamps: opt.LogTimestamps}
	out := ParDo(s, input, dofn, opts...)
	return out.Output
}
