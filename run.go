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
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"beamlet.dev/beam/internal/beamopts"
)

// Scope is used during pipeline construction to add transforms to the
// graph. It is only valid within the function passed to [LaunchAndWait].
type Scope struct {
	g *graph
}

// PipelineResult reports the outcome of a completed run.
type PipelineResult struct {
	// ID uniquely identifies this run.
	ID string
	// Name is the configured pipeline name, or a generated one.
	Name string
	// Counters holds the final values of user metrics, keyed by
	// "<transform>.<Field>". Populated even when the run failed, with
	// whatever was counted before the abort.
	Counters map[string]int64
}

// LaunchAndWait constructs the pipeline by calling expand, then executes it
// to completion on the calling goroutine.
//
// Execution is a single synchronous pass: each transform runs in
// construction order over fully materialized input collections. The first
// per element failure aborts the run, and the error is returned with the
// failing transform's name attached; nothing downstream of the failing
// element is emitted. Registered bundle finish callbacks run on every exit
// path, so sinks always get their flush.
func LaunchAndWait(ctx context.Context, expand func(s *Scope) error, opts ...Options) (PipelineResult, error) {
	var opt beamopts.Struct
	opt.Join(opts...)

	g := &graph{}
	if err := expand(&Scope{g: g}); err != nil {
		return PipelineResult{}, errors.Wrap(err, "pipeline construction failed")
	}

	name := opt.Name
	if name == "" {
		name = "pipeline-" + uuid.NewString()
	}

	p := &plan{g: g, counters: map[string]*atomic.Int64{}}
	err := p.run(ctx)

	res := PipelineResult{
		ID:       uuid.NewString(),
		Name:     name,
		Counters: make(map[string]int64, len(p.counters)),
	}
	for key, agg := range p.counters {
		res.Counters[key] = agg.Load()
	}
	if err != nil {
		return res, errors.Wrapf(err, "pipeline %v failed", name)
	}
	return res, nil
}

// plan is the execution state of a single run: the graph whose nodes now
// double as element buffers, and the counter registry.
type plan struct {
	g        *graph
	counters map[string]*atomic.Int64
}

func (p *plan) counterFor(key string) *atomic.Int64 {
	agg, ok := p.counters[key]
	if !ok {
		agg = &atomic.Int64{}
		p.counters[key] = agg
	}
	return agg
}

// run executes every edge in construction order, which is always a valid
// execution order for a linear graph. Emitter failures surface as panics
// from the fused emit path and are recovered here, so a failure anywhere
// aborts the whole run with no partial downstream emission.
func (p *plan) run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = rerr
				return
			}
			err = errors.Errorf("pipeline panicked: %v", r)
		}
	}()
	for _, edge := range p.g.edges {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if eerr := edge.execute(p); eerr != nil {
			return errors.Wrapf(eerr, "transform %v", edge.name())
		}
	}
	return nil
}
